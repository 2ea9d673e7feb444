package commands

import (
	"context"

	"github.com/user/broadcast-bot/internal/db"
)

// Store is the task and registry store consumed by commands and by the
// bot's menu flows. db.Manager implements it.
type Store interface {
	// Chat registry
	RegisterChat(ctx context.Context, chatID int64, title string, isGroup bool) error
	FindChat(ctx context.Context, chatID int64) (*db.Chat, error)
	ListChats(ctx context.Context) ([]db.Chat, error)

	// Chat groups
	CreateChatGroup(ctx context.Context, name string) (int, error)
	ListChatGroups(ctx context.Context) ([]db.ChatGroup, error)
	AddChatToGroup(ctx context.Context, groupID int, chatID int64) error
	ListGroupChats(ctx context.Context, groupID int) ([]db.Chat, error)

	// Tasks and media
	CreateTask(ctx context.Context, text string, creatorID int64) (int, error)
	AddTaskRecipient(ctx context.Context, taskID int, chatID int64, groupID int) error
	AddTaskMedia(ctx context.Context, taskID int, fileID, fileType string) error
	RecordResponseMedia(ctx context.Context, taskID int, chatID int64, fileID, fileType string) error
	MarkRecipientDelivered(ctx context.Context, taskID int, chatID int64) error
	CloseTask(ctx context.Context, taskID int) error
	GetActiveTasks(ctx context.Context) (map[int]*db.TaskOverview, error)

	// Diagnostics
	Stats(ctx context.Context) (db.TableCounts, []db.Chat, error)
}

// Admins answers authorization checks for operator-only commands.
// config.Config implements it.
type Admins interface {
	IsAdmin(userID int64) bool
}
