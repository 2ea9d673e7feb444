package broadcast

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/user/broadcast-bot/internal/db"
)

type MockStore struct {
	mock.Mock

	mu       sync.Mutex
	assigned map[int64]int // chat id -> group id passed to AddTaskRecipient
}

func NewMockStore() *MockStore {
	return &MockStore{assigned: make(map[int64]int)}
}

func (m *MockStore) ListChats(ctx context.Context) ([]db.Chat, error) {
	args := m.Called(ctx)
	return args.Get(0).([]db.Chat), args.Error(1)
}

func (m *MockStore) ListGroupChats(ctx context.Context, groupID int) ([]db.Chat, error) {
	args := m.Called(ctx, groupID)
	return args.Get(0).([]db.Chat), args.Error(1)
}

func (m *MockStore) AddTaskRecipient(ctx context.Context, taskID int, chatID int64, groupID int) error {
	args := m.Called(ctx, taskID, chatID, groupID)

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.assigned[chatID]; ok {
		return errors.New("duplicate recipient insert")
	}
	m.assigned[chatID] = groupID
	return args.Error(0)
}

func (m *MockStore) assignedChats() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]int64, 0, len(m.assigned))
	for id := range m.assigned {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func chats(ids ...int64) []db.Chat {
	out := make([]db.Chat, 0, len(ids))
	for _, id := range ids {
		out = append(out, db.Chat{ChatID: id, Title: "chat"})
	}
	return out
}

func TestAssignAllChats(t *testing.T) {
	store := NewMockStore()
	store.On("ListChats", mock.Anything).Return(chats(1, 2, 3), nil)
	store.On("AddTaskRecipient", mock.Anything, 7, mock.Anything, 0).Return(nil)

	count, err := NewResolver(store).Assign(context.Background(), 7, Target{All: true})
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Equal(t, []int64{1, 2, 3}, store.assignedChats())

	store.AssertExpectations(t)
}

func TestAssignGroup(t *testing.T) {
	store := NewMockStore()
	store.On("ListGroupChats", mock.Anything, 5).Return(chats(10, 11), nil)
	store.On("AddTaskRecipient", mock.Anything, 7, mock.Anything, 5).Return(nil)

	count, err := NewResolver(store).Assign(context.Background(), 7, Target{GroupID: 5})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	store.AssertExpectations(t)
	store.AssertNotCalled(t, "ListChats")
}

func TestAssignDeduplicatesAcrossPaths(t *testing.T) {
	// Chat 11 is both a group member and explicitly listed: one row,
	// attributed to the group expansion.
	store := NewMockStore()
	store.On("ListGroupChats", mock.Anything, 5).Return(chats(10, 11), nil)
	store.On("AddTaskRecipient", mock.Anything, 7, mock.Anything, mock.Anything).Return(nil)

	target := Target{GroupID: 5, ChatIDs: []int64{11, 12}}
	count, err := NewResolver(store).Assign(context.Background(), 7, target)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Equal(t, []int64{10, 11, 12}, store.assignedChats())

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Equal(t, 5, store.assigned[11])
	assert.Equal(t, 0, store.assigned[12])
}

func TestAssignEmptyTarget(t *testing.T) {
	store := NewMockStore()
	store.On("ListChats", mock.Anything).Return(chats(), nil)

	_, err := NewResolver(store).Assign(context.Background(), 7, Target{All: true})
	assert.ErrorIs(t, err, ErrNoRecipients)

	store.AssertNotCalled(t, "AddTaskRecipient")
}

func TestAssignPropagatesStoreError(t *testing.T) {
	storeErr := errors.New("connection lost")

	store := NewMockStore()
	store.On("ListChats", mock.Anything).Return(chats(), storeErr)

	_, err := NewResolver(store).Assign(context.Background(), 7, Target{All: true})
	assert.ErrorIs(t, err, storeErr)
}

func TestAssignInsertError(t *testing.T) {
	insertErr := errors.New("insert failed")

	store := NewMockStore()
	store.On("ListChats", mock.Anything).Return(chats(1), nil)
	store.On("AddTaskRecipient", mock.Anything, 7, int64(1), 0).Return(insertErr)

	_, err := NewResolver(store).Assign(context.Background(), 7, Target{All: true})
	assert.ErrorIs(t, err, insertErr)
}
