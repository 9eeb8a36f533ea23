// Package entities contains core business entities and errors.
package entities

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument signals failed input validation.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrForbidden signals that the actor may not perform the action.
	ErrForbidden = errors.New("forbidden")
	// ErrUnauthenticated signals a missing or unusable identity.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrNotFound is the base of every missing-resource error.
	ErrNotFound = errors.New("not found")
	// ErrPersistence signals that the store write itself failed.
	ErrPersistence = errors.New("persistence failure")
	// ErrUserExists signals an email conflict.
	ErrUserExists = errors.New("user exists")
	// ErrEntryTooLarge signals an activity entry above the byte budget.
	ErrEntryTooLarge = errors.New("activity entry too large")

	// ErrUserNotFound is returned when a user does not exist.
	ErrUserNotFound = fmt.Errorf("user %w", ErrNotFound)
	// ErrTeamNotFound signals missing team.
	ErrTeamNotFound = fmt.Errorf("team %w", ErrNotFound)
	// ErrTaskNotFound signals missing task.
	ErrTaskNotFound = fmt.Errorf("task %w", ErrNotFound)
	// ErrCommentNotFound signals missing comment.
	ErrCommentNotFound = fmt.Errorf("comment %w", ErrNotFound)
)
