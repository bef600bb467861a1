package chat

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/pairchat/go-pairchat/internal/database"
	"github.com/pairchat/go-pairchat/internal/types"
)

// MessageStore is the append-only per-room message log. Messages are
// immutable once appended; history order is (timestamp, id) and is the
// contract for retrieval.
type MessageStore struct {
	log *log.Logger
	db  database.PairChatRepository
}

func NewMessageStore(logger *log.Logger, db database.PairChatRepository) *MessageStore {
	return &MessageStore{
		log: logger,
		db:  db,
	}
}

// Append persists a message with a server-assigned timestamp and
// advances the room's last-message time. The sender must be one of the
// room's two participants.
func (ms *MessageStore) Append(ctx context.Context, roomId, senderId int, content string) (types.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	room, err := ms.db.GetRoomById(ctx, roomId)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Message{}, ErrRoomNotFound
		}
		return types.Message{}, storeErr(err)
	}

	if senderId != room.UserId1 && senderId != room.UserId2 {
		return types.Message{}, ErrNotParticipant
	}

	msg, err := ms.db.CreateMessage(ctx, roomId, senderId, content, Now())
	if err != nil {
		return types.Message{}, storeErr(err)
	}

	return toMessage(msg), nil
}

// HistoryFor returns the room's full message log in append order.
func (ms *MessageStore) HistoryFor(ctx context.Context, roomId int) ([]types.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	messages, err := ms.db.GetMessagesForRoom(ctx, roomId)
	if err != nil {
		return nil, storeErr(err)
	}

	result := make([]types.Message, len(messages))
	for i, m := range messages {
		result[i] = toMessage(m)
	}

	return result, nil
}

func toMessage(m database.Message) types.Message {
	return types.Message{
		Id:        m.Id,
		RoomId:    m.RoomId,
		SenderId:  m.SenderId,
		Content:   m.Content,
		Timestamp: m.CreatedAt,
	}
}
