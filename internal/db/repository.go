package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// Expected conflicts: the caller presents these as "already exists"
// rather than treating them as storage faults.
var ErrChatExists = errors.New("chat is already registered")
var ErrGroupExists = errors.New("chat group with this name already exists")
var ErrAlreadyInGroup = errors.New("chat is already a member of this group")

// ErrNotRecipient is returned when response media arrives from a chat
// that is not a recipient of the task.
var ErrNotRecipient = errors.New("chat is not a recipient of this task")

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// RegisterChat inserts a chat into the registry. Registration is explicit:
// a chat is never created implicitly by other operations.
func (m *Manager) RegisterChat(ctx context.Context, chatID int64, title string, isGroup bool) error {
	query := `
		INSERT INTO chats (chat_id, title, is_group)
		VALUES ($1, $2, $3)
	`
	_, err := m.db.ExecContext(ctx, query, chatID, title, isGroup)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrChatExists
		}
		return fmt.Errorf("failed to register chat %d: %w", chatID, err)
	}
	return nil
}

// FindChat returns the registered chat, or (nil, nil) when the chat is
// not registered. Absence is a normal outcome, not an error.
func (m *Manager) FindChat(ctx context.Context, chatID int64) (*Chat, error) {
	query := `
		SELECT chat_id, title, is_group, added_at
		FROM chats
		WHERE chat_id = $1
	`
	var chat Chat
	err := m.db.QueryRowContext(ctx, query, chatID).Scan(
		&chat.ChatID,
		&chat.Title,
		&chat.IsGroup,
		&chat.AddedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find chat %d: %w", chatID, err)
	}

	return &chat, nil
}

// ListChats returns all registered chats, newest first.
func (m *Manager) ListChats(ctx context.Context) ([]Chat, error) {
	query := `
		SELECT chat_id, title, is_group, added_at
		FROM chats
		ORDER BY added_at DESC
	`
	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list chats: %w", err)
	}
	defer rows.Close()

	return scanChats(rows)
}

func scanChats(rows *sql.Rows) ([]Chat, error) {
	var chats []Chat
	for rows.Next() {
		var chat Chat
		err := rows.Scan(&chat.ChatID, &chat.Title, &chat.IsGroup, &chat.AddedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan chat row: %w", err)
		}
		chats = append(chats, chat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chat rows: %w", err)
	}

	return chats, nil
}

// CreateChatGroup creates a named group of chats and returns its id.
func (m *Manager) CreateChatGroup(ctx context.Context, name string) (int, error) {
	query := `
		INSERT INTO chat_groups (name)
		VALUES ($1)
		RETURNING id
	`
	var groupID int
	err := m.db.QueryRowContext(ctx, query, name).Scan(&groupID)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrGroupExists
		}
		return 0, fmt.Errorf("failed to create chat group %q: %w", name, err)
	}

	return groupID, nil
}

// ListChatGroups returns all chat groups ordered by name.
func (m *Manager) ListChatGroups(ctx context.Context) ([]ChatGroup, error) {
	query := `
		SELECT id, name, created_at
		FROM chat_groups
		ORDER BY name
	`
	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat groups: %w", err)
	}
	defer rows.Close()

	var groups []ChatGroup
	for rows.Next() {
		var group ChatGroup
		if err := rows.Scan(&group.ID, &group.Name, &group.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat group row: %w", err)
		}
		groups = append(groups, group)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chat group rows: %w", err)
	}

	return groups, nil
}

// AddChatToGroup adds a chat to a group. The membership primary key
// rejects duplicates; callers that want idempotence de-duplicate first.
func (m *Manager) AddChatToGroup(ctx context.Context, groupID int, chatID int64) error {
	query := `
		INSERT INTO group_chats (group_id, chat_id)
		VALUES ($1, $2)
	`
	_, err := m.db.ExecContext(ctx, query, groupID, chatID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyInGroup
		}
		return fmt.Errorf("failed to add chat %d to group %d: %w", chatID, groupID, err)
	}
	return nil
}

// ListGroupChats returns the member chats of a group ordered by title.
func (m *Manager) ListGroupChats(ctx context.Context, groupID int) ([]Chat, error) {
	query := `
		SELECT c.chat_id, c.title, c.is_group, c.added_at
		FROM chats c
		JOIN group_chats gc ON c.chat_id = gc.chat_id
		WHERE gc.group_id = $1
		ORDER BY c.title
	`
	rows, err := m.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chats of group %d: %w", groupID, err)
	}
	defer rows.Close()

	return scanChats(rows)
}

// CreateTask inserts a new active task and returns the generated id.
func (m *Manager) CreateTask(ctx context.Context, text string, creatorID int64) (int, error) {
	query := `
		INSERT INTO tasks (text, creator_id)
		VALUES ($1, $2)
		RETURNING id
	`
	var taskID int
	err := m.db.QueryRowContext(ctx, query, text, creatorID).Scan(&taskID)
	if err != nil {
		return 0, fmt.Errorf("failed to create task: %w", err)
	}

	return taskID, nil
}

// AddTaskRecipient registers a chat as a recipient of a task with status
// pending. groupID records which group expansion produced the row;
// zero means the chat was targeted directly.
func (m *Manager) AddTaskRecipient(ctx context.Context, taskID int, chatID int64, groupID int) error {
	query := `
		INSERT INTO task_recipients (task_id, chat_id, group_id)
		VALUES ($1, $2, $3)
	`
	var nullGroupID sql.NullInt32
	if groupID != 0 {
		nullGroupID.Int32 = int32(groupID)
		nullGroupID.Valid = true
	}

	_, err := m.db.ExecContext(ctx, query, taskID, chatID, nullGroupID)
	if err != nil {
		return fmt.Errorf("failed to add recipient %d to task %d: %w", chatID, taskID, err)
	}
	return nil
}

// AddTaskMedia attaches a transport file reference to a task.
func (m *Manager) AddTaskMedia(ctx context.Context, taskID int, fileID, fileType string) error {
	query := `
		INSERT INTO task_media (task_id, file_id, file_type)
		VALUES ($1, $2, $3)
	`
	_, err := m.db.ExecContext(ctx, query, taskID, fileID, fileType)
	if err != nil {
		return fmt.Errorf("failed to add media to task %d: %w", taskID, err)
	}
	return nil
}

// RecordResponseMedia stores a recipient's response file and marks the
// recipient responded in the same transaction: both writes or neither.
func (m *Manager) RecordResponseMedia(ctx context.Context, taskID int, chatID int64, fileID, fileType string) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin response transaction: %w", err)
	}
	defer tx.Rollback()

	insertQuery := `
		INSERT INTO response_media (task_id, chat_id, file_id, file_type)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := tx.ExecContext(ctx, insertQuery, taskID, chatID, fileID, fileType); err != nil {
		return fmt.Errorf("failed to record response media for task %d chat %d: %w", taskID, chatID, err)
	}

	updateQuery := `
		UPDATE task_recipients
		SET status = $1
		WHERE task_id = $2 AND chat_id = $3
	`
	res, err := tx.ExecContext(ctx, updateQuery, RecipientStatusResponded, taskID, chatID)
	if err != nil {
		return fmt.Errorf("failed to mark recipient %d of task %d responded: %w", chatID, taskID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check recipient update for task %d chat %d: %w", taskID, chatID, err)
	}
	if affected == 0 {
		return ErrNotRecipient
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit response for task %d chat %d: %w", taskID, chatID, err)
	}

	return nil
}

// MarkRecipientDelivered records that the task message reached the chat.
// A recipient that already responded keeps its responded status.
func (m *Manager) MarkRecipientDelivered(ctx context.Context, taskID int, chatID int64) error {
	query := `
		UPDATE task_recipients
		SET status = $1
		WHERE task_id = $2 AND chat_id = $3 AND status = $4
	`
	_, err := m.db.ExecContext(ctx, query, RecipientStatusDelivered, taskID, chatID, RecipientStatusPending)
	if err != nil {
		return fmt.Errorf("failed to mark recipient %d of task %d delivered: %w", chatID, taskID, err)
	}
	return nil
}

// CloseTask moves a task to its terminal state.
func (m *Manager) CloseTask(ctx context.Context, taskID int) error {
	query := `
		UPDATE tasks
		SET status = $1
		WHERE id = $2
	`
	_, err := m.db.ExecContext(ctx, query, TaskStatusClosed, taskID)
	if err != nil {
		return fmt.Errorf("failed to close task %d: %w", taskID, err)
	}
	return nil
}

// GetActiveTasks returns every active task keyed by id, with its
// recipients (annotated with chat title and status), its attachments and
// each recipient's response files. An empty map is a normal result.
func (m *Manager) GetActiveTasks(ctx context.Context) (map[int]*TaskOverview, error) {
	query := `
		SELECT t.id, t.text, t.created_at, t.status,
		       tr.chat_id, tr.status AS recipient_status,
		       c.title AS chat_title
		FROM tasks t
		JOIN task_recipients tr ON t.id = tr.task_id
		JOIN chats c ON tr.chat_id = c.chat_id
		WHERE t.status = $1
		ORDER BY t.created_at DESC
	`
	rows, err := m.db.QueryContext(ctx, query, TaskStatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to get active tasks: %w", err)
	}
	defer rows.Close()

	tasks := make(map[int]*TaskOverview)
	for rows.Next() {
		var (
			taskID          int
			text            string
			createdAt       sql.NullTime
			status          string
			chatID          int64
			recipientStatus string
			chatTitle       string
		)
		err := rows.Scan(&taskID, &text, &createdAt, &status, &chatID, &recipientStatus, &chatTitle)
		if err != nil {
			return nil, fmt.Errorf("failed to scan active task row: %w", err)
		}

		task, ok := tasks[taskID]
		if !ok {
			task = &TaskOverview{
				ID:         taskID,
				Text:       text,
				Status:     status,
				CreatedAt:  createdAt.Time,
				Recipients: make(map[int64]*RecipientOverview),
			}
			tasks[taskID] = task
		}

		task.Recipients[chatID] = &RecipientOverview{
			Title:  chatTitle,
			Status: recipientStatus,
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating active task rows: %w", err)
	}

	for taskID, task := range tasks {
		media, err := m.taskMedia(ctx, taskID)
		if err != nil {
			return nil, err
		}
		task.Media = media

		if err := m.attachResponseMedia(ctx, taskID, task); err != nil {
			return nil, err
		}
	}

	return tasks, nil
}

func (m *Manager) taskMedia(ctx context.Context, taskID int) ([]MediaRef, error) {
	query := `
		SELECT file_id, file_type
		FROM task_media
		WHERE task_id = $1
		ORDER BY id
	`
	rows, err := m.db.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to get media of task %d: %w", taskID, err)
	}
	defer rows.Close()

	var media []MediaRef
	for rows.Next() {
		var ref MediaRef
		if err := rows.Scan(&ref.FileID, &ref.FileType); err != nil {
			return nil, fmt.Errorf("failed to scan task media row: %w", err)
		}
		media = append(media, ref)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating task media rows: %w", err)
	}

	return media, nil
}

func (m *Manager) attachResponseMedia(ctx context.Context, taskID int, task *TaskOverview) error {
	query := `
		SELECT chat_id, file_id, file_type
		FROM response_media
		WHERE task_id = $1
		ORDER BY id
	`
	rows, err := m.db.QueryContext(ctx, query, taskID)
	if err != nil {
		return fmt.Errorf("failed to get response media of task %d: %w", taskID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var chatID int64
		var ref MediaRef
		if err := rows.Scan(&chatID, &ref.FileID, &ref.FileType); err != nil {
			return fmt.Errorf("failed to scan response media row: %w", err)
		}
		if recipient, ok := task.Recipients[chatID]; ok {
			recipient.Media = append(recipient.Media, ref)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating response media rows: %w", err)
	}

	return nil
}

// Stats returns row counts and the most recently added chats for the
// admin debug command.
func (m *Manager) Stats(ctx context.Context) (TableCounts, []Chat, error) {
	var counts TableCounts

	countQuery := `
		SELECT
			(SELECT COUNT(*) FROM chats),
			(SELECT COUNT(*) FROM chat_groups),
			(SELECT COUNT(*) FROM tasks)
	`
	err := m.db.QueryRowContext(ctx, countQuery).Scan(&counts.Chats, &counts.ChatGroups, &counts.Tasks)
	if err != nil {
		return TableCounts{}, nil, fmt.Errorf("failed to count tables: %w", err)
	}

	recentQuery := `
		SELECT chat_id, title, is_group, added_at
		FROM chats
		ORDER BY added_at DESC
		LIMIT 5
	`
	rows, err := m.db.QueryContext(ctx, recentQuery)
	if err != nil {
		return TableCounts{}, nil, fmt.Errorf("failed to get recent chats: %w", err)
	}
	defer rows.Close()

	recent, err := scanChats(rows)
	if err != nil {
		return TableCounts{}, nil, err
	}

	return counts, recent, nil
}
