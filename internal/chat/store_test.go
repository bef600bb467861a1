package chat

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/pairchat/go-pairchat/internal/database"
	"github.com/pairchat/go-pairchat/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestMessageStoreAppend(t *testing.T) {
	t.Run("appends message from participant", func(t *testing.T) {
		db := &database.MockPairChatRepository{}
		defer db.AssertExpectations(t)

		now := time.Now().UTC()
		db.On("GetRoomById", mock.Anything, 7).Return(database.Room{
			Id:      7,
			UserId1: 1,
			UserId2: 2,
		}, nil)
		db.On("CreateMessage", mock.Anything, 7, 1, "hello", mock.AnythingOfType("time.Time")).
			Return(database.Message{
				Id:        42,
				RoomId:    7,
				SenderId:  1,
				Content:   "hello",
				CreatedAt: now,
			}, nil)

		ms := NewMessageStore(testutil.TestLogger(t), db)
		msg, err := ms.Append(context.Background(), 7, 1, "hello")
		assert.NoError(t, err, "expected no error appending message")
		assert.Equal(t, 42, msg.Id, "expected message id to match")
		assert.Equal(t, 7, msg.RoomId, "expected room id to match")
		assert.Equal(t, "hello", msg.Content, "expected content to match")
	})

	t.Run("rejects sender outside the pair", func(t *testing.T) {
		db := &database.MockPairChatRepository{}
		defer db.AssertExpectations(t)

		db.On("GetRoomById", mock.Anything, 7).Return(database.Room{
			Id:      7,
			UserId1: 1,
			UserId2: 2,
		}, nil)

		ms := NewMessageStore(testutil.TestLogger(t), db)
		_, err := ms.Append(context.Background(), 7, 3, "hello")
		assert.ErrorIs(t, err, ErrNotParticipant, "expected not participant error")
	})

	t.Run("reports missing room", func(t *testing.T) {
		db := &database.MockPairChatRepository{}
		defer db.AssertExpectations(t)

		db.On("GetRoomById", mock.Anything, 99).Return(database.Room{}, sql.ErrNoRows)

		ms := NewMessageStore(testutil.TestLogger(t), db)
		_, err := ms.Append(context.Background(), 99, 1, "hello")
		assert.ErrorIs(t, err, ErrRoomNotFound, "expected room not found error")
	})

	t.Run("wraps store failures", func(t *testing.T) {
		db := &database.MockPairChatRepository{}
		defer db.AssertExpectations(t)

		db.On("GetRoomById", mock.Anything, 7).Return(database.Room{
			Id:      7,
			UserId1: 1,
			UserId2: 2,
		}, nil)
		db.On("CreateMessage", mock.Anything, 7, 1, "hello", mock.AnythingOfType("time.Time")).
			Return(database.Message{}, errors.New("connection refused"))

		ms := NewMessageStore(testutil.TestLogger(t), db)
		_, err := ms.Append(context.Background(), 7, 1, "hello")
		assert.ErrorIs(t, err, ErrStoreUnavailable, "expected store unavailable error")
	})
}

func TestMessageStoreHistoryFor(t *testing.T) {
	t.Run("returns history in append order", func(t *testing.T) {
		db := &database.MockPairChatRepository{}
		defer db.AssertExpectations(t)

		base := time.Now().UTC()
		db.On("GetMessagesForRoom", mock.Anything, 7).Return([]database.Message{
			{Id: 1, RoomId: 7, SenderId: 1, Content: "first", CreatedAt: base},
			{Id: 2, RoomId: 7, SenderId: 2, Content: "second", CreatedAt: base.Add(time.Second)},
		}, nil)

		ms := NewMessageStore(testutil.TestLogger(t), db)
		history, err := ms.HistoryFor(context.Background(), 7)
		assert.NoError(t, err, "expected no error fetching history")
		assert.Len(t, history, 2, "expected two messages")
		assert.Equal(t, "first", history[0].Content, "expected oldest message first")
		assert.Equal(t, "second", history[1].Content, "expected newest message last")
	})

	t.Run("wraps store failures", func(t *testing.T) {
		db := &database.MockPairChatRepository{}
		defer db.AssertExpectations(t)

		db.On("GetMessagesForRoom", mock.Anything, 7).
			Return([]database.Message(nil), errors.New("connection refused"))

		ms := NewMessageStore(testutil.TestLogger(t), db)
		_, err := ms.HistoryFor(context.Background(), 7)
		assert.ErrorIs(t, err, ErrStoreUnavailable, "expected store unavailable error")
	})
}
