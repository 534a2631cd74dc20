package errors

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/pkg/errors"
)

type stackTracer interface {
	error
	StackTrace() errors.StackTrace
}

// stackTrace returns the first stacktrace found when unwrapping given error.
func stackTrace(err error) errors.StackTrace {
	for {
		if st, ok := err.(stackTracer); ok {
			return trimInternal(st.StackTrace())
		}
		c, ok := err.(causer)
		if !ok {
			return nil
		}
		err = c.Cause()
	}
}

// trimInternal drops leading frames of this package and trailing runtime
// frames, so that the first frame points where the error was created.
func trimInternal(st errors.StackTrace) errors.StackTrace {
	for len(st) > 0 && funcName(st[0]) != "" && isInternal(funcName(st[0])) {
		st = st[1:]
	}
	for len(st) > 0 && strings.HasPrefix(funcName(st[len(st)-1]), "runtime.") {
		st = st[:len(st)-1]
	}
	return st
}

func isInternal(name string) bool {
	if strings.HasPrefix(name, "runtime.") {
		return true
	}
	// Tests of this package must keep their own frames.
	if strings.Contains(name, ".Test") || strings.Contains(name, ".func") {
		return false
	}
	return strings.Contains(name, "arbee/errors.")
}

func funcName(f errors.Frame) string {
	fn := runtime.FuncForPC(uintptr(f) - 1)
	if fn == nil {
		return ""
	}
	return fn.Name()
}

func writeSimpleFrame(s io.Writer, f errors.Frame) {
	pc := uintptr(f) - 1
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return
	}
	file, line := fn.FileLine(pc)
	if chunks := strings.SplitN(file, "github.com/", 2); len(chunks) == 2 {
		file = chunks[1]
	}
	fmt.Fprintf(s, " [%s:%d]", file, line)
}
