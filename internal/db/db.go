package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

type Manager struct {
	db *sql.DB
}

// NewManagerWithURL connects to the given database. The URL comes from
// config in production and from TEST_DATABASE_URL in integration tests.
func NewManagerWithURL(dbURL string) (*Manager, error) {
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Manager{db: db}, nil
}

func (m *Manager) Close() error {
	return m.db.Close()
}

// schemaSQL creates every table the bot needs. All statements use
// IF NOT EXISTS so repeated startups never fail or duplicate objects.
const schemaSQL = `
	CREATE TABLE IF NOT EXISTS chats (
		chat_id BIGINT PRIMARY KEY,
		title TEXT NOT NULL,
		is_group BOOLEAN NOT NULL,
		added_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS chat_groups (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS group_chats (
		group_id INTEGER NOT NULL REFERENCES chat_groups (id),
		chat_id BIGINT NOT NULL REFERENCES chats (chat_id),
		PRIMARY KEY (group_id, chat_id)
	);

	CREATE TABLE IF NOT EXISTS tasks (
		id SERIAL PRIMARY KEY,
		text TEXT NOT NULL,
		creator_id BIGINT NOT NULL,
		status TEXT NOT NULL DEFAULT 'active',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS task_recipients (
		task_id INTEGER NOT NULL REFERENCES tasks (id),
		chat_id BIGINT NOT NULL REFERENCES chats (chat_id),
		group_id INTEGER REFERENCES chat_groups (id),
		status TEXT NOT NULL DEFAULT 'pending',
		PRIMARY KEY (task_id, chat_id)
	);

	CREATE TABLE IF NOT EXISTS task_media (
		id SERIAL PRIMARY KEY,
		task_id INTEGER NOT NULL REFERENCES tasks (id),
		file_id TEXT NOT NULL,
		file_type TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS response_media (
		id SERIAL PRIMARY KEY,
		task_id INTEGER NOT NULL REFERENCES tasks (id),
		chat_id BIGINT NOT NULL REFERENCES chats (chat_id),
		file_id TEXT NOT NULL,
		file_type TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
`

// InitSchema creates the tables inside a single transaction. A failure
// here is fatal to the caller: the bot must not run without its schema.
func (m *Manager) InitSchema(ctx context.Context) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin schema transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schema transaction: %w", err)
	}

	return nil
}

func (m *Manager) GetDB() *sql.DB {
	return m.db
}
