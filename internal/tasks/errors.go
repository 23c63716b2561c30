package tasks

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyContent   = errors.New("task content is required")
	ErrContentTooLong = errors.New("task content is too long")
)

type NotFoundError struct {
	ID int64
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("task not found: %d", e.ID)
}

type OwnerOnlyError struct {
	AccountID int64
	OwnerID   int64
	TaskID    int64
}

func (e OwnerOnlyError) Error() string {
	// Keep this generic; surfaces pick their own phrasing.
	return "owner-only"
}

// IsNotFoundOrUnauthorized reports errors the JSON API deliberately merges into one 404,
// so that clients cannot probe for other accounts' task ids.
func IsNotFoundOrUnauthorized(err error) bool {
	var nf NotFoundError
	var oo OwnerOnlyError
	return errors.As(err, &nf) || errors.As(err, &oo)
}
