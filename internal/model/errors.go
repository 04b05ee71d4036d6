package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a season, player or match has no data.
	ErrNotFound = errors.New("not found")
	// ErrValidation is returned for malformed requests that were rejected before any write.
	ErrValidation = errors.New("validation failed")
)

// PersistenceError wraps a storage failure that caused a transaction to roll back.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// MergeConflictError is returned when two identities being merged played in the same match.
type MergeConflictError struct {
	MatchIDs []int64
}

func (e *MergeConflictError) Error() string {
	ids := make([]string, len(e.MatchIDs))
	for i, id := range e.MatchIDs {
		ids[i] = fmt.Sprintf("%d", id)
	}
	return fmt.Sprintf("merged players share match(es) %s", strings.Join(ids, ", "))
}

// Is makes a conflict match ErrValidation.
func (e *MergeConflictError) Is(target error) bool {
	return target == ErrValidation
}
