package errors

import (
	"fmt"
	"strings"
)

// Append clubs together all provided errors. Nil values are ignored.
//
// If no error is given or all given errors are nil, nil is returned. A single
// non nil error is returned as it is. Is on the result matches any of the
// clubbed errors, while the ABCI code is the one of the first error.
func Append(errs ...error) error {
	var collected []error
	for _, err := range errs {
		if errIsNil(err) {
			continue
		}
		if m, ok := err.(*multiErr); ok {
			collected = append(collected, m.errs...)
			continue
		}
		collected = append(collected, err)
	}

	switch len(collected) {
	case 0:
		return nil
	case 1:
		return collected[0]
	default:
		return &multiErr{errs: collected}
	}
}

type multiErr struct {
	errs []error
}

func (e *multiErr) Error() string {
	msgs := make([]string, len(e.errs))
	for i, err := range e.errs {
		msgs[i] = "* " + err.Error()
	}
	return fmt.Sprintf("%d errors occurred:\n\t%s\n", len(e.errs), strings.Join(msgs, "\n\t"))
}

// ABCICode returns the code of the first clubbed error.
func (e *multiErr) ABCICode() uint32 {
	return abciCode(e.errs[0])
}
