package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

func (db *PgPairChatRepository) CreateAccount(ctx context.Context, params CreateAccountParams) (Account, error) {
	res := db.conn.QueryRowContext(ctx,
		"INSERT INTO accounts (username, password_hash, created_at) "+
			"VALUES ($1, $2, $3) RETURNING id, username, created_at",
		params.Username,
		params.PasswordHash,
		time.Now().UTC(),
	)

	var a Account
	err := res.Scan(
		&a.Id,
		&a.Username,
		&a.CreatedAt,
	)

	return a, err
}

func (db *PgPairChatRepository) GetAccountById(ctx context.Context, accountId int) (Account, error) {
	row := db.conn.QueryRowContext(ctx,
		"SELECT id, username, created_at FROM accounts "+
			"WHERE id = $1 LIMIT 1",
		accountId,
	)

	var a Account
	err := row.Scan(
		&a.Id,
		&a.Username,
		&a.CreatedAt,
	)

	return a, err
}

func (db *PgPairChatRepository) GetAccountByUsername(ctx context.Context, username string) (Account, error) {
	row := db.conn.QueryRowContext(ctx,
		"SELECT id, username, password_hash, created_at FROM accounts "+
			"WHERE username = $1 LIMIT 1",
		username,
	)

	var a Account
	err := row.Scan(
		&a.Id,
		&a.Username,
		&a.PasswordHash,
		&a.CreatedAt,
	)

	return a, err
}

func (db *PgPairChatRepository) ListAccounts(ctx context.Context, excludeId int) ([]Account, error) {
	rows, err := db.conn.QueryContext(ctx,
		"SELECT id, username, created_at FROM accounts WHERE id != $1 ORDER BY username",
		excludeId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts = make([]Account, 0)
	for rows.Next() {
		var a Account
		if err = rows.Scan(&a.Id, &a.Username, &a.CreatedAt); err != nil {
			return nil, err
		}

		accounts = append(accounts, a)
	}

	return accounts, rows.Err()
}

func (db *PgPairChatRepository) SaveRefreshToken(ctx context.Context, accountId int, token string, expiresAt time.Time) error {
	_, err := db.conn.ExecContext(ctx,
		"UPDATE accounts SET refresh_token = $2, refresh_token_expires_at = $3 WHERE id = $1",
		accountId,
		token,
		expiresAt,
	)

	return err
}

func (db *PgPairChatRepository) GetAccountByRefreshToken(ctx context.Context, token string) (Account, error) {
	row := db.conn.QueryRowContext(ctx,
		"SELECT id, username, refresh_token, refresh_token_expires_at, created_at "+
			"FROM accounts WHERE refresh_token = $1 LIMIT 1",
		token,
	)

	var a Account
	err := row.Scan(
		&a.Id,
		&a.Username,
		&a.RefreshToken,
		&a.RefreshTokenExpiresAt,
		&a.CreatedAt,
	)

	return a, err
}

func (db *PgPairChatRepository) ClearRefreshToken(ctx context.Context, accountId int) error {
	_, err := db.conn.ExecContext(ctx,
		"UPDATE accounts SET refresh_token = NULL, refresh_token_expires_at = NULL WHERE id = $1",
		accountId,
	)

	return err
}

func (db *PgPairChatRepository) CreateConnection(ctx context.Context, accountId int, connectionId string) (Connection, error) {
	res := db.conn.QueryRowContext(ctx,
		"INSERT INTO connections (connection_id, account_id, connected_at) "+
			"VALUES ($1, $2, $3) RETURNING id, connection_id, account_id, connected_at",
		connectionId,
		accountId,
		time.Now().UTC(),
	)

	var c Connection
	err := res.Scan(
		&c.Id,
		&c.ConnectionId,
		&c.AccountId,
		&c.ConnectedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return Connection{}, ErrDuplicateConnection
		}
		return Connection{}, err
	}

	return c, nil
}

func (db *PgPairChatRepository) ActiveConnectionExists(ctx context.Context, accountId int, connectionId string) (bool, error) {
	row := db.conn.QueryRowContext(ctx,
		"SELECT id FROM connections "+
			"WHERE account_id = $1 AND connection_id = $2 AND disconnected_at IS NULL LIMIT 1",
		accountId,
		connectionId,
	)

	var id int
	err := row.Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}

	return err == nil, err
}

// DeactivateConnections marks every active connection with the given id
// as disconnected. Rows are kept, never deleted; a handle that was never
// registered is a no-op.
func (db *PgPairChatRepository) DeactivateConnections(ctx context.Context, connectionId string) error {
	_, err := db.conn.ExecContext(ctx,
		"UPDATE connections SET disconnected_at = $2 "+
			"WHERE connection_id = $1 AND disconnected_at IS NULL",
		connectionId,
		time.Now().UTC(),
	)

	return err
}

func (db *PgPairChatRepository) CountActiveConnections(ctx context.Context, accountId int) (int, error) {
	row := db.conn.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM connections WHERE account_id = $1 AND disconnected_at IS NULL",
		accountId,
	)

	var count int
	err := row.Scan(&count)

	return count, err
}

func (db *PgPairChatRepository) CreateRoom(ctx context.Context, userId1, userId2 int) (Room, error) {
	res := db.conn.QueryRowContext(ctx,
		"INSERT INTO rooms (user1_id, user2_id, created_at) "+
			"VALUES ($1, $2, $3) RETURNING id, user1_id, user2_id, created_at, last_message_at",
		userId1,
		userId2,
		time.Now().UTC(),
	)

	var room Room
	err := res.Scan(
		&room.Id,
		&room.UserId1,
		&room.UserId2,
		&room.CreatedAt,
		&room.LastMessageAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return Room{}, ErrDuplicateRoom
		}
		return Room{}, err
	}

	return room, nil
}

func (db *PgPairChatRepository) GetRoomByUsers(ctx context.Context, userId1, userId2 int) (Room, error) {
	row := db.conn.QueryRowContext(ctx,
		"SELECT id, user1_id, user2_id, created_at, last_message_at FROM rooms "+
			"WHERE (user1_id = $1 AND user2_id = $2) OR (user1_id = $2 AND user2_id = $1) LIMIT 1",
		userId1,
		userId2,
	)

	var room Room
	err := row.Scan(
		&room.Id,
		&room.UserId1,
		&room.UserId2,
		&room.CreatedAt,
		&room.LastMessageAt,
	)

	return room, err
}

func (db *PgPairChatRepository) GetRoomById(ctx context.Context, roomId int) (Room, error) {
	row := db.conn.QueryRowContext(ctx,
		"SELECT id, user1_id, user2_id, created_at, last_message_at FROM rooms "+
			"WHERE id = $1 LIMIT 1",
		roomId,
	)

	var room Room
	err := row.Scan(
		&room.Id,
		&room.UserId1,
		&room.UserId2,
		&room.CreatedAt,
		&room.LastMessageAt,
	)

	return room, err
}

const roomSummaryQuery = `
	SELECT
		r.id,
		r.user1_id,
		r.user2_id,
		a1.username AS user1_username,
		a2.username AS user2_username,
		EXISTS (
			SELECT 1 FROM connections c
			WHERE c.account_id = r.user1_id AND c.disconnected_at IS NULL
		) AS user1_connected,
		EXISTS (
			SELECT 1 FROM connections c
			WHERE c.account_id = r.user2_id AND c.disconnected_at IS NULL
		) AS user2_connected,
		r.created_at,
		r.last_message_at
	FROM rooms r
	JOIN accounts a1 ON a1.id = r.user1_id
	JOIN accounts a2 ON a2.id = r.user2_id
`

func scanRoomSummary(row interface{ Scan(...any) error }) (RoomSummary, error) {
	var s RoomSummary
	err := row.Scan(
		&s.Id,
		&s.UserId1,
		&s.UserId2,
		&s.User1Username,
		&s.User2Username,
		&s.User1Connected,
		&s.User2Connected,
		&s.CreatedAt,
		&s.LastMessageAt,
	)

	return s, err
}

func (db *PgPairChatRepository) GetRoomSummary(ctx context.Context, roomId int) (RoomSummary, error) {
	row := db.conn.QueryRowContext(ctx, roomSummaryQuery+" WHERE r.id = $1 LIMIT 1", roomId)

	return scanRoomSummary(row)
}

func (db *PgPairChatRepository) ListRoomsForUser(ctx context.Context, accountId int) ([]RoomSummary, error) {
	rows, err := db.conn.QueryContext(ctx,
		roomSummaryQuery+" WHERE r.user1_id = $1 OR r.user2_id = $1 ORDER BY r.last_message_at DESC NULLS LAST, r.created_at DESC",
		accountId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries = make([]RoomSummary, 0)
	for rows.Next() {
		s, err := scanRoomSummary(rows)
		if err != nil {
			return nil, err
		}

		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}

// GetConnectedPartners returns the other participant of every room
// containing the given account, limited to partners holding at least
// one active connection. Used for presence fan-out.
func (db *PgPairChatRepository) GetConnectedPartners(ctx context.Context, accountId int) ([]Account, error) {
	rows, err := db.conn.QueryContext(ctx,
		"SELECT DISTINCT a.id, a.username, a.created_at FROM rooms r "+
			"JOIN accounts a ON a.id = CASE WHEN r.user1_id = $1 THEN r.user2_id ELSE r.user1_id END "+
			"WHERE (r.user1_id = $1 OR r.user2_id = $1) "+
			"AND EXISTS (SELECT 1 FROM connections c WHERE c.account_id = a.id AND c.disconnected_at IS NULL)",
		accountId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var partners = make([]Account, 0)
	for rows.Next() {
		var a Account
		if err = rows.Scan(&a.Id, &a.Username, &a.CreatedAt); err != nil {
			return nil, err
		}

		partners = append(partners, a)
	}

	return partners, rows.Err()
}

// CreateMessage appends a message and advances the room's
// last_message_at in a single transaction so history order and the
// sidebar timestamp never disagree.
func (db *PgPairChatRepository) CreateMessage(ctx context.Context, roomId, senderId int, content string, createdAt time.Time) (Message, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return Message{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	res := tx.QueryRowContext(ctx,
		"INSERT INTO messages (room_id, sender_id, content, created_at) "+
			"VALUES ($1, $2, $3, $4) RETURNING id, room_id, sender_id, content, created_at",
		roomId,
		senderId,
		content,
		createdAt,
	)

	var msg Message
	err = res.Scan(
		&msg.Id,
		&msg.RoomId,
		&msg.SenderId,
		&msg.Content,
		&msg.CreatedAt,
	)
	if err != nil {
		return Message{}, err
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE rooms SET last_message_at = $2 WHERE id = $1",
		roomId,
		msg.CreatedAt,
	)
	if err != nil {
		return Message{}, err
	}

	if err = tx.Commit(); err != nil {
		return Message{}, fmt.Errorf("commit message: %w", err)
	}

	return msg, nil
}

func (db *PgPairChatRepository) GetMessagesForRoom(ctx context.Context, roomId int) ([]Message, error) {
	rows, err := db.conn.QueryContext(ctx,
		"SELECT id, room_id, sender_id, content, created_at FROM messages "+
			"WHERE room_id = $1 ORDER BY created_at, id",
		roomId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages = make([]Message, 0)
	for rows.Next() {
		var msg Message
		if err = rows.Scan(&msg.Id, &msg.RoomId, &msg.SenderId, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, err
		}

		messages = append(messages, msg)
	}

	return messages, rows.Err()
}
