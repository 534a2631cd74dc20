package errors

import (
	"errors"
	"fmt"
)

const (
	// SuccessABCICode is the code of a successful ABCI response.
	SuccessABCICode uint32 = 0

	// Errors without a registered code are reported under this code with
	// a generic message.
	internalABCICode uint32 = 1
	internalABCILog         = "internal error"
)

// ABCIInfo returns the code and log message of an ABCI response for err.
//
// Outside of debug mode the log goes through Redact, so only messages of
// registered errors reach the client. In debug mode the log carries the
// full stacktrace.
func ABCIInfo(err error, debug bool) (uint32, string) {
	if errIsNil(err) {
		return SuccessABCICode, ""
	}
	code := abciCode(err)
	if debug {
		return code, fmt.Sprintf("%+v", err)
	}
	return code, Redact(err, false).Error()
}

type coder interface {
	ABCICode() uint32
}

// abciCode unwraps err until an error carrying a code is found.
func abciCode(err error) uint32 {
	for !errIsNil(err) {
		if c, ok := err.(coder); ok {
			return c.ABCICode()
		}
		c, ok := err.(causer)
		if !ok {
			break
		}
		err = c.Cause()
	}
	if errIsNil(err) {
		return SuccessABCICode
	}
	return internalABCICode
}

// Redact replaces errors that carry no registered code, and panics, with a
// generic internal error. It returns err unchanged in debug mode.
func Redact(err error, debug bool) error {
	if debug {
		return err
	}
	if ErrPanic.Is(err) || abciCode(err) == internalABCICode {
		return errors.New(internalABCILog)
	}
	return err
}
