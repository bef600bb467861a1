package types

import (
	"time"
)

type User struct {
	Id        int       `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Connection is one live transport session belonging to a user. A user
// may hold several at once (multi-device).
type Connection struct {
	Id             int        `json:"id"`
	ConnectionId   string     `json:"connection_id"`
	UserId         int        `json:"user_id"`
	ConnectedAt    time.Time  `json:"connected_at"`
	DisconnectedAt *time.Time `json:"disconnected_at,omitempty"`
}

// Room is a conversation between exactly two distinct users. The pair
// is stored normalized (UserId1 < UserId2) so (A,B) and (B,A) resolve
// to the same row.
type Room struct {
	Id            int        `json:"id"`
	UserId1       int        `json:"user_id_1"`
	UserId2       int        `json:"user_id_2"`
	CreatedAt     time.Time  `json:"created_at"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
}

// RoomSummary is a Room decorated with both participants' display names
// and their presence as read from the connection registry at query time.
type RoomSummary struct {
	Id             int        `json:"id"`
	UserId1        int        `json:"user_id_1"`
	UserId2        int        `json:"user_id_2"`
	User1Username  string     `json:"user1_username"`
	User2Username  string     `json:"user2_username"`
	User1Connected bool       `json:"user1_connected"`
	User2Connected bool       `json:"user2_connected"`
	CreatedAt      time.Time  `json:"created_at"`
	LastMessageAt  *time.Time `json:"last_message_at,omitempty"`
}

type Message struct {
	Id        int       `json:"id"`
	RoomId    int       `json:"room_id"`
	SenderId  int       `json:"sender_id"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}
