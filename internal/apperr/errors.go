// Package apperr defines the error kinds shared by every domain package.
// Callers classify with errors.Is against the exported sentinels; the
// Error() text of a constructed error is the human-readable message.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound       = errors.New("resource not found")
	ErrBusiness       = errors.New("business rule violation")
	ErrOptimisticLock = errors.New("optimistic lock conflict")
)

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

// NotFound builds e.g. "Order not found with id: 7".
func NotFound(resource, field string, value any) error {
	return &kindError{
		kind: ErrNotFound,
		msg:  fmt.Sprintf("%s not found with %s: %v", resource, field, value),
	}
}

func Business(format string, args ...any) error {
	return &kindError{kind: ErrBusiness, msg: fmt.Sprintf(format, args...)}
}

// BusinessWrap attaches a message to a domain sentinel so the result
// matches both the sentinel and ErrBusiness.
func BusinessWrap(sentinel error, format string, args ...any) error {
	return &kindError{
		kind: errors.Join(ErrBusiness, sentinel),
		msg:  fmt.Sprintf(format, args...),
	}
}

func OptimisticLock(resource string, id int64) error {
	return &kindError{
		kind: ErrOptimisticLock,
		msg:  fmt.Sprintf("%s %d was modified by another transaction, please retry", resource, id),
	}
}

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

func IsBusiness(err error) bool { return errors.Is(err, ErrBusiness) }

func IsOptimisticLock(err error) bool { return errors.Is(err, ErrOptimisticLock) }
