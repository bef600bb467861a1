package chat

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/pairchat/go-pairchat/internal/database"
	"github.com/pairchat/go-pairchat/internal/types"
)

// RoomDirectory maps unordered user pairs to rooms, creating them on
// first use. The pair is normalized before any lookup or insert, and a
// unique constraint in the store guarantees at most one room per pair
// even under concurrent creators.
type RoomDirectory struct {
	log *log.Logger
	db  database.PairChatRepository
}

func NewRoomDirectory(logger *log.Logger, db database.PairChatRepository) *RoomDirectory {
	return &RoomDirectory{
		log: logger,
		db:  db,
	}
}

func normalizePair(a, b int) (int, int) {
	if a > b {
		return b, a
	}
	return a, b
}

// CreateOrGet returns the room shared by the two users, creating it if
// none exists. The boolean reports whether this call created the room.
// A creation race is resolved by the store's uniqueness constraint:
// the loser re-fetches the winner's row.
func (rd *RoomDirectory) CreateOrGet(ctx context.Context, userA, userB int) (types.Room, bool, error) {
	if userA == userB {
		return types.Room{}, false, ErrInvalidPair
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	u1, u2 := normalizePair(userA, userB)

	room, err := rd.db.GetRoomByUsers(ctx, u1, u2)
	if err == nil {
		return toRoom(room), false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return types.Room{}, false, storeErr(err)
	}

	room, err = rd.db.CreateRoom(ctx, u1, u2)
	if err != nil {
		if errors.Is(err, database.ErrDuplicateRoom) {
			room, err = rd.db.GetRoomByUsers(ctx, u1, u2)
			if err != nil {
				return types.Room{}, false, fmt.Errorf("%w: refetch after lost race: %v", ErrRoomCreationFailed, err)
			}
			return toRoom(room), false, nil
		}
		return types.Room{}, false, fmt.Errorf("%w: %v", ErrRoomCreationFailed, err)
	}

	return toRoom(room), true, nil
}

// ListForUser returns summaries of every room containing the user.
// Presence on each summary is read from the connection registry at
// query time, never cached on the room.
func (rd *RoomDirectory) ListForUser(ctx context.Context, userId int) ([]types.RoomSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	summaries, err := rd.db.ListRoomsForUser(ctx, userId)
	if err != nil {
		return nil, storeErr(err)
	}

	result := make([]types.RoomSummary, len(summaries))
	for i, s := range summaries {
		result[i] = toRoomSummary(s)
	}

	return result, nil
}

// PartnersOf returns the other participant of each of the user's rooms,
// limited to partners that are currently online.
func (rd *RoomDirectory) PartnersOf(ctx context.Context, userId int) ([]types.User, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	partners, err := rd.db.GetConnectedPartners(ctx, userId)
	if err != nil {
		return nil, storeErr(err)
	}

	users := make([]types.User, len(partners))
	for i, p := range partners {
		users[i] = types.User{
			Id:        p.Id,
			Username:  p.Username,
			CreatedAt: p.CreatedAt,
		}
	}

	return users, nil
}

func (rd *RoomDirectory) Summary(ctx context.Context, roomId int) (types.RoomSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	summary, err := rd.db.GetRoomSummary(ctx, roomId)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.RoomSummary{}, ErrRoomNotFound
		}
		return types.RoomSummary{}, storeErr(err)
	}

	return toRoomSummary(summary), nil
}

func toRoom(r database.Room) types.Room {
	return types.Room{
		Id:            r.Id,
		UserId1:       r.UserId1,
		UserId2:       r.UserId2,
		CreatedAt:     r.CreatedAt,
		LastMessageAt: nullTimePtr(r.LastMessageAt),
	}
}

func toRoomSummary(s database.RoomSummary) types.RoomSummary {
	return types.RoomSummary{
		Id:             s.Id,
		UserId1:        s.UserId1,
		UserId2:        s.UserId2,
		User1Username:  s.User1Username,
		User2Username:  s.User2Username,
		User1Connected: s.User1Connected,
		User2Connected: s.User2Connected,
		CreatedAt:      s.CreatedAt,
		LastMessageAt:  nullTimePtr(s.LastMessageAt),
	}
}

func nullTimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	return &t.Time
}
