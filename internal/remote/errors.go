package remote

import (
	"errors"
	"fmt"
)

// Op names the store call that failed.
type Op string

const (
	OpFetch  Op = "fetch"
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

var (
	ErrFetch  = errors.New("fetch failed")
	ErrCreate = errors.New("create failed")
	ErrUpdate = errors.New("update failed")
	ErrDelete = errors.New("delete failed")
)

// Failure is returned by every Client call that does not succeed.
// Status is zero when the request never got a response.
type Failure struct {
	Op     Op
	Status int
	Err    error
}

func (f *Failure) Error() string {
	if f.Status != 0 {
		return fmt.Sprintf("%s failed: status %d: %v", f.Op, f.Status, f.Err)
	}
	return fmt.Sprintf("%s failed: %v", f.Op, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

func (f *Failure) Is(target error) bool {
	switch target {
	case ErrFetch:
		return f.Op == OpFetch
	case ErrCreate:
		return f.Op == OpCreate
	case ErrUpdate:
		return f.Op == OpUpdate
	case ErrDelete:
		return f.Op == OpDelete
	}
	return false
}

func fail(op Op, status int, err error) error {
	return &Failure{Op: op, Status: status, Err: err}
}
