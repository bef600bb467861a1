package chat

import (
	"context"
)

// PresenceTracker answers "is this user online". It holds no state of
// its own; every call reads the connection registry so presence can
// never go stale.
type PresenceTracker struct {
	registry *ConnectionRegistry
}

func NewPresenceTracker(registry *ConnectionRegistry) *PresenceTracker {
	return &PresenceTracker{registry: registry}
}

func (pt *PresenceTracker) IsOnline(ctx context.Context, userId int) (bool, error) {
	return pt.registry.IsUserOnline(ctx, userId)
}
