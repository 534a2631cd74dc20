/*
Package errors implements the error taxonomy used across arbee.

Every error returned by a handler, controller or store should wrap one of the
root errors declared in this package. Root errors carry an ABCI code, which
lets clients tell failures apart without parsing messages.

If you want to register a custom error use Register(code, description). To
reuse an error use ErrXyz.New or ErrXyz.Newf, or wrap an existing one with
Wrap and Wrapf. The first wrap records a stacktrace.

Once you have an error, you can use fmt to get more context for it

	%s is just the error message
	%+v is the full stack trace
	%v appends a compressed [filename:line] where the error was created
*/
package errors
