package sync

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by a Backend when the collection has no such document.
	ErrNotFound = errors.New("document not found")
	// ErrSlugTaken is a save rejected because another document already uses the slug.
	ErrSlugTaken = errors.New("slug already taken")
	// ErrAbandoned is returned by a load whose controller was closed while it ran.
	ErrAbandoned = errors.New("load abandoned")
)

// GuardError is a save that was deliberately not sent. Nothing reached the backend.
type GuardError struct {
	Reason string
}

func (e *GuardError) Error() string {
	return "save blocked: " + e.Reason
}

// PersistenceError is a store or network failure. It is never retried automatically.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func IsGuard(err error) bool {
	var g *GuardError
	return errors.As(err, &g)
}

// StatusError is a non-2xx answer from the API.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api error: status=%d body=%s", e.Status, e.Body)
}
