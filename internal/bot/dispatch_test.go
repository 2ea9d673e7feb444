package bot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/user/broadcast-bot/internal/broadcast"
	"github.com/user/broadcast-bot/internal/commands"
	"github.com/user/broadcast-bot/internal/db"
	"github.com/user/broadcast-bot/internal/session"
)

func TestCreateAssignedTaskNoRecipientsClosesTask(t *testing.T) {
	mockStore := new(commands.MockStore)
	commands.ConfigureMockStore(mockStore).
		WithChats([]db.Chat{}, nil).
		WithCloseTask(42, nil)
	mockStore.On("CreateTask", mock.Anything, "weekly report", int64(900)).Return(42, nil)

	state := &session.State{TaskText: "weekly report"}

	_, _, err := createAssignedTask(context.Background(), mockStore, broadcast.NewResolver(mockStore),
		900, state, broadcast.Target{All: true})

	assert.ErrorIs(t, err, broadcast.ErrNoRecipients)
	mockStore.AssertCalled(t, "CloseTask", mock.Anything, 42)
	mockStore.AssertNotCalled(t, "AddTaskRecipient")
}

func TestCreateAssignedTaskAssignsAndKeepsTask(t *testing.T) {
	mockStore := new(commands.MockStore)
	commands.ConfigureMockStore(mockStore).
		WithChats([]db.Chat{{ChatID: 100, Title: "Ops Room"}}, nil)
	mockStore.On("CreateTask", mock.Anything, "weekly report", int64(900)).Return(42, nil)
	mockStore.On("AddTaskMedia", mock.Anything, 42, "file-1", "document").Return(nil)
	mockStore.On("AddTaskRecipient", mock.Anything, 42, int64(100), 0).Return(nil)

	state := &session.State{
		TaskText:  "weekly report",
		TaskMedia: []session.MediaDraft{{FileID: "file-1", FileType: "document"}},
	}

	taskID, count, err := createAssignedTask(context.Background(), mockStore, broadcast.NewResolver(mockStore),
		900, state, broadcast.Target{All: true})

	assert.NoError(t, err)
	assert.Equal(t, 42, taskID)
	assert.Equal(t, 1, count)
	mockStore.AssertNotCalled(t, "CloseTask")
	mockStore.AssertExpectations(t)
}
