package database

import (
	"database/sql"
	"time"
)

type Account struct {
	Id                    int
	Username              string
	PasswordHash          string
	RefreshToken          sql.NullString
	RefreshTokenExpiresAt sql.NullTime
	CreatedAt             time.Time
}

type Connection struct {
	Id             int
	ConnectionId   string
	AccountId      int
	ConnectedAt    time.Time
	DisconnectedAt sql.NullTime
}

type Room struct {
	Id            int
	UserId1       int
	UserId2       int
	CreatedAt     time.Time
	LastMessageAt sql.NullTime
}

type RoomSummary struct {
	Id             int
	UserId1        int
	UserId2        int
	User1Username  string
	User2Username  string
	User1Connected bool
	User2Connected bool
	CreatedAt      time.Time
	LastMessageAt  sql.NullTime
}

type Message struct {
	Id        int
	RoomId    int
	SenderId  int
	Content   string
	CreatedAt time.Time
}

type CreateAccountParams struct {
	Username     string
	PasswordHash string
}
