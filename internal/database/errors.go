package database

import (
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrDuplicateRoom is returned by CreateRoom when a room for the
	// same user pair already exists. Callers racing on first use treat
	// this as "someone else won" and re-fetch the winner's row.
	ErrDuplicateRoom = errors.New("room already exists for user pair")

	// ErrDuplicateConnection is returned by CreateConnection when an
	// active connection with the same connection id exists.
	ErrDuplicateConnection = errors.New("active connection already exists")
)

const uniqueViolationCode = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolationCode
}
