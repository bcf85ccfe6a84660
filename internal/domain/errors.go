package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrStorage matches every failure reported by the key-value backend.
	ErrStorage = errors.New("storage error")

	// ErrNotFound is returned when a mutation targets an id that is absent
	// from its parent collection. Callers may choose to ignore it.
	ErrNotFound = errors.New("not found")
)

// StorageError wraps a backend failure on a given key.
type StorageError struct {
	Op  string // "get" | "set" | "encode" | "decode"
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrStorage) true for any StorageError.
func (e *StorageError) Is(target error) bool { return target == ErrStorage }

// Outcome reports whether a mutation found its target.
type Outcome int

const (
	Applied Outcome = iota
	NotFound
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case NotFound:
		return "not_found"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Err converts a NotFound outcome into a wrapped ErrNotFound.
func (o Outcome) Err(what, id string) error {
	if o == NotFound {
		return fmt.Errorf("%s %q: %w", what, id, ErrNotFound)
	}
	return nil
}
