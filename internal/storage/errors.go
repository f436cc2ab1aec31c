package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a group, expense or split does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyMember is returned when adding an existing membership.
	ErrAlreadyMember = errors.New("already a member")

	// ErrPersistence matches every *PersistenceError via errors.Is.
	ErrPersistence = errors.New("persistence error")
)

// PersistenceError reports a storage failure. The transaction it occurred
// in has been rolled back; callers may retry the whole request.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrPersistence) match.
func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

// Wrap returns err as a *PersistenceError for op, leaving nil and the
// domain sentinels (ErrNotFound, ErrAlreadyMember) untouched.
func Wrap(op string, err error) error {
	if err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, ErrAlreadyMember) {
		return err
	}
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}
