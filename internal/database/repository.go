package database

import (
	"context"
	"time"
)

type PairChatRepository interface {
	Ping(ctx context.Context) error

	CreateAccount(ctx context.Context, params CreateAccountParams) (Account, error)
	GetAccountById(ctx context.Context, accountId int) (Account, error)
	GetAccountByUsername(ctx context.Context, username string) (Account, error)
	ListAccounts(ctx context.Context, excludeId int) ([]Account, error)
	SaveRefreshToken(ctx context.Context, accountId int, token string, expiresAt time.Time) error
	GetAccountByRefreshToken(ctx context.Context, token string) (Account, error)
	ClearRefreshToken(ctx context.Context, accountId int) error

	CreateConnection(ctx context.Context, accountId int, connectionId string) (Connection, error)
	ActiveConnectionExists(ctx context.Context, accountId int, connectionId string) (bool, error)
	DeactivateConnections(ctx context.Context, connectionId string) error
	CountActiveConnections(ctx context.Context, accountId int) (int, error)

	CreateRoom(ctx context.Context, userId1, userId2 int) (Room, error)
	GetRoomByUsers(ctx context.Context, userId1, userId2 int) (Room, error)
	GetRoomById(ctx context.Context, roomId int) (Room, error)
	GetRoomSummary(ctx context.Context, roomId int) (RoomSummary, error)
	ListRoomsForUser(ctx context.Context, accountId int) ([]RoomSummary, error)
	GetConnectedPartners(ctx context.Context, accountId int) ([]Account, error)

	CreateMessage(ctx context.Context, roomId, senderId int, content string, createdAt time.Time) (Message, error)
	GetMessagesForRoom(ctx context.Context, roomId int) ([]Message, error)
}
