package database

import (
	"context"
	"database/sql"
)

type PgPairChatRepository struct {
	conn *sql.DB
}

func NewPgPairChatRepository(dsn string) (*PgPairChatRepository, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return &PgPairChatRepository{conn: db}, nil
}

func (db *PgPairChatRepository) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

func (db *PgPairChatRepository) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}
