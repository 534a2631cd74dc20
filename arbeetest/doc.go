/*
Package arbeetest provides mocks and helpers for testing arbee extensions
and applications.
*/
package arbeetest
