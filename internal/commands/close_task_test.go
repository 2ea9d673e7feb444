package commands

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/user/broadcast-bot/internal/db"
)

func activeTask(id int) map[int]*db.TaskOverview {
	return map[int]*db.TaskOverview{
		id: {ID: id, Text: "task", Recipients: map[int64]*db.RecipientOverview{}},
	}
}

func TestCloseTaskCommand_Execute_Success(t *testing.T) {
	mockStore := new(MockStore)
	cmd := NewCloseTaskCommand(mockStore, testAdmins())

	ConfigureMockStore(mockStore).
		WithActiveTasks(activeTask(7), nil).
		WithCloseTask(7, nil)

	message := CreateCommandMessage(testChatID, adminUserID, "/closetask", "7")

	response := cmd.Execute(message)

	assert.Contains(t, response.Text, "Задание #7 закрыто")
	mockStore.AssertExpectations(t)
}

func TestCloseTaskCommand_Execute_MissingArgument(t *testing.T) {
	mockStore := new(MockStore)
	cmd := NewCloseTaskCommand(mockStore, testAdmins())

	message := CreateCommandMessage(testChatID, adminUserID, "/closetask")

	response := cmd.Execute(message)

	assert.Contains(t, response.Text, "/closetask <id>")
	mockStore.AssertNotCalled(t, "CloseTask")
}

func TestCloseTaskCommand_Execute_NotFound(t *testing.T) {
	mockStore := new(MockStore)
	cmd := NewCloseTaskCommand(mockStore, testAdmins())

	ConfigureMockStore(mockStore).
		WithActiveTasks(map[int]*db.TaskOverview{}, nil)

	message := CreateCommandMessage(testChatID, adminUserID, "/closetask", "7")

	response := cmd.Execute(message)

	assert.Contains(t, response.Text, "не найдено")
	mockStore.AssertNotCalled(t, "CloseTask")
}

func TestCloseTaskCommand_Execute_StoreError(t *testing.T) {
	mockStore := new(MockStore)
	cmd := NewCloseTaskCommand(mockStore, testAdmins())

	ConfigureMockStore(mockStore).
		WithActiveTasks(activeTask(7), nil).
		WithCloseTask(7, errors.New("connection lost"))

	message := CreateCommandMessage(testChatID, adminUserID, "/closetask", "7")

	response := cmd.Execute(message)

	assert.Contains(t, response.Text, "Произошла ошибка")
}

func TestCloseTaskCommand_Execute_Unauthorized(t *testing.T) {
	mockStore := new(MockStore)
	cmd := NewCloseTaskCommand(mockStore, testAdmins())

	message := CreateCommandMessage(testChatID, plainUserID, "/closetask", "7")

	response := cmd.Execute(message)

	assert.Contains(t, response.Text, "только администраторам")
	mockStore.AssertNotCalled(t, "GetActiveTasks")
}
