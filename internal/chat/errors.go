package chat

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateConnection is returned when registering a connection
	// handle that is already active for the same user.
	ErrDuplicateConnection = errors.New("duplicate active connection")

	// ErrInvalidPair is returned when a user tries to open a room with
	// themselves.
	ErrInvalidPair = errors.New("cannot open a room with yourself")

	// ErrRoomCreationFailed is returned when creating a room failed and
	// re-fetching the pair's room also failed.
	ErrRoomCreationFailed = errors.New("room creation failed")

	// ErrNotParticipant is returned when the sender of a message is not
	// one of the room's two participants.
	ErrNotParticipant = errors.New("sender is not a participant in the room")

	ErrRoomNotFound = errors.New("room not found")

	// ErrStoreUnavailable covers timeouts and IO failures against the
	// durable store. Always recoverable, never fatal to the connection.
	ErrStoreUnavailable = errors.New("store unavailable")
)

func storeErr(err error) error {
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}
