package database

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

type MockPairChatRepository struct {
	mock.Mock
}

func (m *MockPairChatRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockPairChatRepository) CreateAccount(ctx context.Context, params CreateAccountParams) (Account, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(Account), args.Error(1)
}
func (m *MockPairChatRepository) GetAccountById(ctx context.Context, accountId int) (Account, error) {
	args := m.Called(ctx, accountId)
	return args.Get(0).(Account), args.Error(1)
}
func (m *MockPairChatRepository) GetAccountByUsername(ctx context.Context, username string) (Account, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(Account), args.Error(1)
}
func (m *MockPairChatRepository) ListAccounts(ctx context.Context, excludeId int) ([]Account, error) {
	args := m.Called(ctx, excludeId)
	return args.Get(0).([]Account), args.Error(1)
}
func (m *MockPairChatRepository) SaveRefreshToken(ctx context.Context, accountId int, token string, expiresAt time.Time) error {
	args := m.Called(ctx, accountId, token, expiresAt)
	return args.Error(0)
}
func (m *MockPairChatRepository) GetAccountByRefreshToken(ctx context.Context, token string) (Account, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(Account), args.Error(1)
}
func (m *MockPairChatRepository) ClearRefreshToken(ctx context.Context, accountId int) error {
	args := m.Called(ctx, accountId)
	return args.Error(0)
}
func (m *MockPairChatRepository) CreateConnection(ctx context.Context, accountId int, connectionId string) (Connection, error) {
	args := m.Called(ctx, accountId, connectionId)
	return args.Get(0).(Connection), args.Error(1)
}
func (m *MockPairChatRepository) ActiveConnectionExists(ctx context.Context, accountId int, connectionId string) (bool, error) {
	args := m.Called(ctx, accountId, connectionId)
	return args.Bool(0), args.Error(1)
}
func (m *MockPairChatRepository) DeactivateConnections(ctx context.Context, connectionId string) error {
	args := m.Called(ctx, connectionId)
	return args.Error(0)
}
func (m *MockPairChatRepository) CountActiveConnections(ctx context.Context, accountId int) (int, error) {
	args := m.Called(ctx, accountId)
	return args.Int(0), args.Error(1)
}
func (m *MockPairChatRepository) CreateRoom(ctx context.Context, userId1, userId2 int) (Room, error) {
	args := m.Called(ctx, userId1, userId2)
	return args.Get(0).(Room), args.Error(1)
}
func (m *MockPairChatRepository) GetRoomByUsers(ctx context.Context, userId1, userId2 int) (Room, error) {
	args := m.Called(ctx, userId1, userId2)
	return args.Get(0).(Room), args.Error(1)
}
func (m *MockPairChatRepository) GetRoomById(ctx context.Context, roomId int) (Room, error) {
	args := m.Called(ctx, roomId)
	return args.Get(0).(Room), args.Error(1)
}
func (m *MockPairChatRepository) GetRoomSummary(ctx context.Context, roomId int) (RoomSummary, error) {
	args := m.Called(ctx, roomId)
	return args.Get(0).(RoomSummary), args.Error(1)
}
func (m *MockPairChatRepository) ListRoomsForUser(ctx context.Context, accountId int) ([]RoomSummary, error) {
	args := m.Called(ctx, accountId)
	return args.Get(0).([]RoomSummary), args.Error(1)
}
func (m *MockPairChatRepository) GetConnectedPartners(ctx context.Context, accountId int) ([]Account, error) {
	args := m.Called(ctx, accountId)
	return args.Get(0).([]Account), args.Error(1)
}
func (m *MockPairChatRepository) CreateMessage(ctx context.Context, roomId, senderId int, content string, createdAt time.Time) (Message, error) {
	args := m.Called(ctx, roomId, senderId, content, createdAt)
	return args.Get(0).(Message), args.Error(1)
}
func (m *MockPairChatRepository) GetMessagesForRoom(ctx context.Context, roomId int) ([]Message, error) {
	args := m.Called(ctx, roomId)
	return args.Get(0).([]Message), args.Error(1)
}
