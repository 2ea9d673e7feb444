package commands

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/mock"

	"github.com/user/broadcast-bot/internal/db"
)

// CreateCommandMessage is a helper function to create a Telegram message with a command
// for testing purposes. It properly sets up message entities required for commands.
func CreateCommandMessage(chatID, userID int64, commandText string, args ...string) *tgbotapi.Message {
	var fullText string
	if len(args) > 0 {
		fullText = commandText + " " + args[0]
	} else {
		fullText = commandText
	}

	// Command entity length is the length of the command, including the /
	commandLength := len(commandText)

	return &tgbotapi.Message{
		Chat: &tgbotapi.Chat{
			ID:   chatID,
			Type: "private",
		},
		From: &tgbotapi.User{
			ID:        userID,
			FirstName: "Tester",
		},
		Text: fullText,
		Entities: []tgbotapi.MessageEntity{
			{
				Type:   "bot_command",
				Offset: 0,
				Length: commandLength,
			},
		},
	}
}

// StaticAdmins is a fixed operator set for tests.
type StaticAdmins map[int64]bool

func (s StaticAdmins) IsAdmin(userID int64) bool {
	return s[userID]
}

// MockStore is a testify mock of the Store interface, shared by all
// command tests.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) RegisterChat(ctx context.Context, chatID int64, title string, isGroup bool) error {
	args := m.Called(ctx, chatID, title, isGroup)
	return args.Error(0)
}

func (m *MockStore) FindChat(ctx context.Context, chatID int64) (*db.Chat, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*db.Chat), args.Error(1)
}

func (m *MockStore) ListChats(ctx context.Context) ([]db.Chat, error) {
	args := m.Called(ctx)
	return args.Get(0).([]db.Chat), args.Error(1)
}

func (m *MockStore) CreateChatGroup(ctx context.Context, name string) (int, error) {
	args := m.Called(ctx, name)
	return args.Int(0), args.Error(1)
}

func (m *MockStore) ListChatGroups(ctx context.Context) ([]db.ChatGroup, error) {
	args := m.Called(ctx)
	return args.Get(0).([]db.ChatGroup), args.Error(1)
}

func (m *MockStore) AddChatToGroup(ctx context.Context, groupID int, chatID int64) error {
	args := m.Called(ctx, groupID, chatID)
	return args.Error(0)
}

func (m *MockStore) ListGroupChats(ctx context.Context, groupID int) ([]db.Chat, error) {
	args := m.Called(ctx, groupID)
	return args.Get(0).([]db.Chat), args.Error(1)
}

func (m *MockStore) CreateTask(ctx context.Context, text string, creatorID int64) (int, error) {
	args := m.Called(ctx, text, creatorID)
	return args.Int(0), args.Error(1)
}

func (m *MockStore) AddTaskRecipient(ctx context.Context, taskID int, chatID int64, groupID int) error {
	args := m.Called(ctx, taskID, chatID, groupID)
	return args.Error(0)
}

func (m *MockStore) AddTaskMedia(ctx context.Context, taskID int, fileID, fileType string) error {
	args := m.Called(ctx, taskID, fileID, fileType)
	return args.Error(0)
}

func (m *MockStore) RecordResponseMedia(ctx context.Context, taskID int, chatID int64, fileID, fileType string) error {
	args := m.Called(ctx, taskID, chatID, fileID, fileType)
	return args.Error(0)
}

func (m *MockStore) MarkRecipientDelivered(ctx context.Context, taskID int, chatID int64) error {
	args := m.Called(ctx, taskID, chatID)
	return args.Error(0)
}

func (m *MockStore) CloseTask(ctx context.Context, taskID int) error {
	args := m.Called(ctx, taskID)
	return args.Error(0)
}

func (m *MockStore) GetActiveTasks(ctx context.Context) (map[int]*db.TaskOverview, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[int]*db.TaskOverview), args.Error(1)
}

func (m *MockStore) Stats(ctx context.Context) (db.TableCounts, []db.Chat, error) {
	args := m.Called(ctx)
	return args.Get(0).(db.TableCounts), args.Get(1).([]db.Chat), args.Error(2)
}

// Helper functions for fluent API style mock configuration
func ConfigureMockStore(m *MockStore) *MockStoreHelper {
	return &MockStoreHelper{mock: m}
}

// MockStoreHelper provides a fluent interface for configuring mock expectations
type MockStoreHelper struct {
	mock *MockStore
}

// WithRegisterChat sets up the mock to expect and respond to RegisterChat calls
func (h *MockStoreHelper) WithRegisterChat(chatID int64, err error) *MockStoreHelper {
	h.mock.On("RegisterChat", mock.Anything, chatID, mock.Anything, mock.Anything).Return(err)
	return h
}

// WithFindChat sets up the mock to expect and respond to FindChat calls
func (h *MockStoreHelper) WithFindChat(chatID int64, chat *db.Chat, err error) *MockStoreHelper {
	h.mock.On("FindChat", mock.Anything, chatID).Return(chat, err)
	return h
}

// WithChats sets up the mock to expect and respond to ListChats calls
func (h *MockStoreHelper) WithChats(chats []db.Chat, err error) *MockStoreHelper {
	h.mock.On("ListChats", mock.Anything).Return(chats, err)
	return h
}

// WithActiveTasks sets up the mock to expect and respond to GetActiveTasks calls
func (h *MockStoreHelper) WithActiveTasks(tasks map[int]*db.TaskOverview, err error) *MockStoreHelper {
	h.mock.On("GetActiveTasks", mock.Anything).Return(tasks, err)
	return h
}

// WithCloseTask sets up the mock to expect and respond to CloseTask calls
func (h *MockStoreHelper) WithCloseTask(taskID int, err error) *MockStoreHelper {
	h.mock.On("CloseTask", mock.Anything, taskID).Return(err)
	return h
}

// WithStats sets up the mock to expect and respond to Stats calls
func (h *MockStoreHelper) WithStats(counts db.TableCounts, recent []db.Chat, err error) *MockStoreHelper {
	h.mock.On("Stats", mock.Anything).Return(counts, recent, err)
	return h
}
