package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/broadcast-bot/internal/db"
	"github.com/user/broadcast-bot/internal/session"
)

func TestNewTaskCommand_StartsFlow(t *testing.T) {
	sessions := session.NewManager()
	cmd := NewNewTaskCommand(sessions, testAdmins())

	message := CreateCommandMessage(testChatID, adminUserID, "/newtask")

	response := cmd.Execute(message)

	assert.Contains(t, response.Text, "текст задания")
	state := sessions.Get(testChatID)
	require.NotNil(t, state)
	assert.Equal(t, session.StepAwaitingTaskContent, state.Step)
}

func TestNewTaskCommand_Unauthorized(t *testing.T) {
	sessions := session.NewManager()
	cmd := NewNewTaskCommand(sessions, testAdmins())

	message := CreateCommandMessage(testChatID, plainUserID, "/newtask")

	response := cmd.Execute(message)

	assert.Contains(t, response.Text, "только администраторам")
	assert.Nil(t, sessions.Get(testChatID))
}

func TestNewGroupCommand_StartsFlow(t *testing.T) {
	sessions := session.NewManager()
	cmd := NewNewGroupCommand(sessions, testAdmins())

	message := CreateCommandMessage(testChatID, adminUserID, "/newgroup")

	response := cmd.Execute(message)

	assert.Contains(t, response.Text, "название")
	state := sessions.Get(testChatID)
	require.NotNil(t, state)
	assert.Equal(t, session.StepNamingGroup, state.Step)
}

func TestCancelCommand_ClearsFlow(t *testing.T) {
	sessions := session.NewManager()
	sessions.Begin(testChatID, session.StepAwaitingTaskContent)
	cmd := NewCancelCommand(sessions)

	message := CreateCommandMessage(testChatID, adminUserID, "/cancel")

	response := cmd.Execute(message)

	assert.Contains(t, response.Text, "отменено")
	assert.Nil(t, sessions.Get(testChatID))
}

func TestCancelCommand_NothingToCancel(t *testing.T) {
	sessions := session.NewManager()
	cmd := NewCancelCommand(sessions)

	message := CreateCommandMessage(testChatID, adminUserID, "/cancel")

	response := cmd.Execute(message)

	assert.Contains(t, response.Text, "Нечего отменять")
}

func TestListChatsCommand_Empty(t *testing.T) {
	mockStore := new(MockStore)
	cmd := NewListChatsCommand(mockStore, testAdmins())

	ConfigureMockStore(mockStore).
		WithChats([]db.Chat{}, nil)

	message := CreateCommandMessage(testChatID, adminUserID, "/chats")

	response := cmd.Execute(message)

	assert.Contains(t, response.Text, "Нет подключенных чатов")
	mockStore.AssertExpectations(t)
}

func TestListChatsCommand_RendersChats(t *testing.T) {
	mockStore := new(MockStore)
	cmd := NewListChatsCommand(mockStore, testAdmins())

	ConfigureMockStore(mockStore).
		WithChats([]db.Chat{
			{ChatID: 1, Title: "Alpha", IsGroup: false},
			{ChatID: 2, Title: "Beta", IsGroup: true},
		}, nil)

	message := CreateCommandMessage(testChatID, adminUserID, "/chats")

	response := cmd.Execute(message)

	assert.Contains(t, response.Text, "Alpha")
	assert.Contains(t, response.Text, "Beta")
	assert.Contains(t, response.Text, "Группа")
}

func TestDebugCommand_Stats(t *testing.T) {
	mockStore := new(MockStore)
	cmd := NewDebugCommand(mockStore, testAdmins())

	ConfigureMockStore(mockStore).
		WithStats(db.TableCounts{Chats: 3, ChatGroups: 1, Tasks: 2}, []db.Chat{
			{ChatID: 1, Title: "Alpha"},
		}, nil)

	message := CreateCommandMessage(testChatID, adminUserID, "/debug_db")

	response := cmd.Execute(message)

	assert.Contains(t, response.Text, "chats: 3")
	assert.Contains(t, response.Text, "chat_groups: 1")
	assert.Contains(t, response.Text, "tasks: 2")
	assert.Contains(t, response.Text, "Alpha")
}

func TestDebugCommand_Unauthorized(t *testing.T) {
	mockStore := new(MockStore)
	cmd := NewDebugCommand(mockStore, testAdmins())

	message := CreateCommandMessage(testChatID, plainUserID, "/debug_db")

	response := cmd.Execute(message)

	assert.Contains(t, response.Text, "только администраторам")
	mockStore.AssertNotCalled(t, "Stats")
}
