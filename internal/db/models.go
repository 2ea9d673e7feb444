package db

import (
	"database/sql"
	"time"
)

// Task lifecycle states.
const (
	TaskStatusActive = "active"
	TaskStatusClosed = "closed"
)

// Per-recipient delivery states.
const (
	RecipientStatusPending   = "pending"
	RecipientStatusDelivered = "delivered"
	RecipientStatusResponded = "responded"
)

type Chat struct {
	ChatID  int64     `db:"chat_id"`
	Title   string    `db:"title"`
	IsGroup bool      `db:"is_group"`
	AddedAt time.Time `db:"added_at"`
}

type ChatGroup struct {
	ID        int       `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

type Task struct {
	ID        int       `db:"id"`
	Text      string    `db:"text"`
	CreatorID int64     `db:"creator_id"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
}

type TaskRecipient struct {
	TaskID  int           `db:"task_id"`
	ChatID  int64         `db:"chat_id"`
	GroupID sql.NullInt32 `db:"group_id"`
	Status  string        `db:"status"`
}

// MediaRef is an opaque reference to a file held by the transport.
type MediaRef struct {
	FileID   string `db:"file_id"`
	FileType string `db:"file_type"`
}

// TaskOverview is the aggregate returned by GetActiveTasks: one task
// with its attachments and the per-recipient response state.
type TaskOverview struct {
	ID         int
	Text       string
	Status     string
	CreatedAt  time.Time
	Media      []MediaRef
	Recipients map[int64]*RecipientOverview
}

// RecipientOverview annotates one recipient with its chat title,
// delivery status and any response files it has uploaded.
type RecipientOverview struct {
	Title  string
	Status string
	Media  []MediaRef
}

// TableCounts holds per-table row counts for the debug command.
type TableCounts struct {
	Chats      int
	ChatGroups int
	Tasks      int
}
