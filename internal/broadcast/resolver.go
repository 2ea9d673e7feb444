// Package broadcast expands a task's target into the concrete set of
// recipient chats and registers them with the store.
package broadcast

import (
	"context"
	"errors"
	"fmt"

	"github.com/user/broadcast-bot/internal/db"
)

// ErrNoRecipients is returned when the target expands to an empty set.
var ErrNoRecipients = errors.New("target resolves to no chats")

// Store is the slice of the task store the resolver needs.
type Store interface {
	ListChats(ctx context.Context) ([]db.Chat, error)
	ListGroupChats(ctx context.Context, groupID int) ([]db.Chat, error)
	AddTaskRecipient(ctx context.Context, taskID int, chatID int64, groupID int) error
}

// Target describes who a task should be broadcast to: every registered
// chat, the members of one group, an explicit list of chats, or any
// combination of the latter two.
type Target struct {
	All     bool
	GroupID int
	ChatIDs []int64
}

type Resolver struct {
	store Store
}

func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// Assign expands target into a set of chat ids and inserts one pending
// recipient row per chat. The expansion is a snapshot: chats registered
// after this call do not join the task. A chat reachable through more
// than one path gets exactly one row; the group attribution wins so the
// audit trail records which expansion produced it.
func (r *Resolver) Assign(ctx context.Context, taskID int, target Target) (int, error) {
	// map chat id -> originating group id (0 for direct targeting)
	resolved := make(map[int64]int)

	if target.All {
		chats, err := r.store.ListChats(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to resolve all chats: %w", err)
		}
		for _, chat := range chats {
			resolved[chat.ChatID] = 0
		}
	}

	if target.GroupID != 0 {
		chats, err := r.store.ListGroupChats(ctx, target.GroupID)
		if err != nil {
			return 0, fmt.Errorf("failed to resolve group %d: %w", target.GroupID, err)
		}
		for _, chat := range chats {
			resolved[chat.ChatID] = target.GroupID
		}
	}

	for _, chatID := range target.ChatIDs {
		if _, ok := resolved[chatID]; !ok {
			resolved[chatID] = 0
		}
	}

	if len(resolved) == 0 {
		return 0, ErrNoRecipients
	}

	for chatID, groupID := range resolved {
		if err := r.store.AddTaskRecipient(ctx, taskID, chatID, groupID); err != nil {
			return 0, fmt.Errorf("failed to assign chat %d to task %d: %w", chatID, taskID, err)
		}
	}

	return len(resolved), nil
}
