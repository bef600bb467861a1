package chat

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/pairchat/go-pairchat/internal/database"
	"github.com/pairchat/go-pairchat/internal/types"
)

// storeTimeout bounds every call into the durable store. A timeout is
// reported to the caller as ErrStoreUnavailable, never a crash.
const storeTimeout = 5 * time.Second

// ConnectionRegistry tracks live transport sessions. Connections are
// marked disconnected rather than deleted, so a user's online state is
// simply "has at least one row without a disconnect timestamp".
type ConnectionRegistry struct {
	log *log.Logger
	db  database.PairChatRepository
}

func NewConnectionRegistry(logger *log.Logger, db database.PairChatRepository) *ConnectionRegistry {
	return &ConnectionRegistry{
		log: logger,
		db:  db,
	}
}

// Register persists a new active connection for the user. It fails with
// ErrDuplicateConnection if the same (user, handle) pair is already
// active.
func (cr *ConnectionRegistry) Register(ctx context.Context, userId int, connectionId string) (types.Connection, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	exists, err := cr.db.ActiveConnectionExists(ctx, userId, connectionId)
	if err != nil {
		return types.Connection{}, storeErr(err)
	}
	if exists {
		return types.Connection{}, ErrDuplicateConnection
	}

	conn, err := cr.db.CreateConnection(ctx, userId, connectionId)
	if err != nil {
		if errors.Is(err, database.ErrDuplicateConnection) {
			return types.Connection{}, ErrDuplicateConnection
		}
		return types.Connection{}, storeErr(err)
	}

	return types.Connection{
		Id:           conn.Id,
		ConnectionId: conn.ConnectionId,
		UserId:       conn.AccountId,
		ConnectedAt:  conn.ConnectedAt,
	}, nil
}

// Deactivate marks all active connections with the given handle as
// disconnected. Idempotent; a handle that was never registered is a
// no-op so teardown can always run it defensively.
func (cr *ConnectionRegistry) Deactivate(ctx context.Context, connectionId string) error {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	if err := cr.db.DeactivateConnections(ctx, connectionId); err != nil {
		return storeErr(err)
	}

	return nil
}

func (cr *ConnectionRegistry) IsUserOnline(ctx context.Context, userId int) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	count, err := cr.db.CountActiveConnections(ctx, userId)
	if err != nil {
		return false, storeErr(err)
	}

	return count > 0, nil
}
