/*
Package gconf implements a configuration store intended to be used as a global,
in-database configuration.

Each extension keeps a single configuration entity stored under the "_c:"
prefixed name of the extension. It is created from the genesis file and can
later be changed only by its owner.
*/
package gconf
