/*
Package utils contains the decorators every transaction passes through
before it reaches its handler: logging, panic recovery, result tagging and
savepoints.
*/
package utils
