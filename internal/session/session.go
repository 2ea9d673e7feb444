// Package session keeps the in-memory, per-chat state of multi-step
// menu flows (task drafting, recipient selection, group building).
// Nothing here is persisted: a restart simply drops unfinished flows.
package session

import "sync"

// Step identifies where a chat is inside a menu flow.
type Step int

const (
	StepIdle Step = iota
	// Task creation flow
	StepAwaitingTaskContent
	StepChoosingRecipients
	StepSelectingChats
	StepChoosingGroup
	// Group creation flow
	StepNamingGroup
	StepAddingGroupChats
)

// MediaDraft is an attachment collected while drafting a task.
type MediaDraft struct {
	FileID   string
	FileType string
}

// State is the mutable flow state of one chat. The bot processes
// updates sequentially, so the state itself needs no locking.
type State struct {
	Step          Step
	TaskText      string
	TaskMedia     []MediaDraft
	SelectedChats map[int64]bool
	GroupID       int // group currently being filled with chats
}

type Manager struct {
	mu     sync.Mutex
	states map[int64]*State
}

func NewManager() *Manager {
	return &Manager{states: make(map[int64]*State)}
}

// Begin starts a fresh flow for the chat, discarding any previous one.
func (m *Manager) Begin(chatID int64, step Step) *State {
	m.mu.Lock()
	defer m.mu.Unlock()

	state := &State{
		Step:          step,
		SelectedChats: make(map[int64]bool),
	}
	m.states[chatID] = state
	return state
}

// Get returns the chat's flow state, or nil when no flow is active.
func (m *Manager) Get(chatID int64) *State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.states[chatID]
}

// Clear ends the chat's flow.
func (m *Manager) Clear(chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, chatID)
}
