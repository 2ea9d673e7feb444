package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBeginAndGet(t *testing.T) {
	m := NewManager()

	assert.Nil(t, m.Get(1))

	state := m.Begin(1, StepAwaitingTaskContent)
	require.NotNil(t, state)
	assert.Equal(t, StepAwaitingTaskContent, state.Step)

	got := m.Get(1)
	assert.Same(t, state, got)
}

func TestBeginReplacesExistingFlow(t *testing.T) {
	m := NewManager()

	first := m.Begin(1, StepAwaitingTaskContent)
	first.TaskText = "draft from the abandoned flow"

	second := m.Begin(1, StepNamingGroup)
	assert.NotSame(t, first, second)
	assert.Empty(t, second.TaskText)
	assert.Equal(t, StepNamingGroup, second.Step)
}

func TestClear(t *testing.T) {
	m := NewManager()

	m.Begin(1, StepAwaitingTaskContent)
	m.Clear(1)
	assert.Nil(t, m.Get(1))

	// Clearing a chat with no flow is a no-op.
	m.Clear(2)
}

func TestStatesAreIndependentPerChat(t *testing.T) {
	m := NewManager()

	a := m.Begin(1, StepAwaitingTaskContent)
	b := m.Begin(2, StepNamingGroup)

	a.SelectedChats[10] = true
	assert.Empty(t, b.SelectedChats)
	assert.Equal(t, StepNamingGroup, m.Get(2).Step)
}
