package chat

import (
	"encoding/json"
	"testing"

	"github.com/pairchat/go-pairchat/internal/testutil"
	"github.com/pairchat/go-pairchat/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestNewClient(t *testing.T) {
	user := types.User{Id: 1, Username: "alice"}
	c := NewClient(user, "conn-1", nil, nil, testutil.TestLogger(t), nil)

	assert.Equal(t, user, c.user, "expected user to be set")
	assert.Equal(t, "conn-1", c.connectionId, "expected connection handle to be set")
	assert.NotNil(t, c.send, "expected send channel to be initialized")
	assert.NotNil(t, c.rooms, "expected rooms map to be initialized")
	assert.NotNil(t, c.stop, "expected stop channel to be initialized")
}

func TestQueueMessage(t *testing.T) {
	t.Run("queues message", func(t *testing.T) {
		c := NewClient(types.User{Id: 1}, "conn-1", nil, nil, testutil.TestLogger(t), nil)

		msg := NoErrAccepted(1)
		assert.True(t, c.queueMessage(msg), "expected message to be queued")

		queued := <-c.send
		assert.Equal(t, msg, queued, "expected queued message to match")
	})

	t.Run("drops message when queue is full", func(t *testing.T) {
		c := NewClient(types.User{Id: 1}, "conn-1", nil, nil, testutil.TestLogger(t), nil)

		for range cap(c.send) {
			assert.True(t, c.queueMessage(NoErrAccepted(1)), "expected message to be queued")
		}

		assert.False(t, c.queueMessage(NoErrAccepted(1)), "expected message to be dropped when queue is full")
	})
}

func TestSerializeMessage(t *testing.T) {
	msg := &ServerMessage{
		BaseMessage: BaseMessage{Id: 2, Timestamp: Now()},
		Notification: &Notification{
			Presence: &Presence{UserId: 7, Online: true},
		},
	}

	bytes, err := serializeMessage(msg)
	assert.NoError(t, err, "expected no error serializing message")

	var decoded map[string]any
	assert.NoError(t, json.Unmarshal(bytes, &decoded), "expected valid json")
	notif, ok := decoded["notification"].(map[string]any)
	assert.True(t, ok, "expected notification field")
	presence, ok := notif["presence"].(map[string]any)
	assert.True(t, ok, "expected presence field")
	assert.Equal(t, float64(7), presence["user_id"], "expected user id to match")
	assert.Equal(t, true, presence["online"], "expected online flag to match")
}

func TestStopClient(t *testing.T) {
	c := NewClient(types.User{Id: 1}, "conn-1", nil, nil, testutil.TestLogger(t), nil)

	c.stopClient()
	// idempotent, second call must not panic on a closed channel
	c.stopClient()

	select {
	case <-c.stop:
	default:
		t.Error("expected stop channel to be closed")
	}
}

func TestClientRooms(t *testing.T) {
	c := NewClient(types.User{Id: 1}, "conn-1", nil, nil, testutil.TestLogger(t), nil)

	c.addRoom(7)
	c.addRoom(8)
	c.addRoom(7)

	ids := c.roomIds()
	assert.Len(t, ids, 2, "expected two distinct rooms")
	assert.Contains(t, ids, 7, "expected room 7 to be tracked")
	assert.Contains(t, ids, 8, "expected room 8 to be tracked")

	// returned set is a copy, mutating it must not affect the client
	delete(ids, 7)
	assert.Len(t, c.roomIds(), 2, "expected client room set to be unchanged")
}
