package menu

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/broadcast-bot/internal/db"
)

func TestFromTextRoundTrip(t *testing.T) {
	actions := []Action{
		ActionCreateTask,
		ActionViewTasks,
		ActionListChats,
		ActionCreateGroup,
		ActionHelp,
		ActionCancel,
		ActionSendToAll,
		ActionPickChats,
		ActionPickGroup,
	}

	for _, action := range actions {
		label := Label(action)
		require.NotEmpty(t, label)
		assert.Equal(t, action, FromText(label))
	}
}

func TestFromTextUnknown(t *testing.T) {
	assert.Equal(t, ActionUnknown, FromText("free form message"))
	assert.Equal(t, ActionUnknown, FromText(""))
}

func TestCallbackDataRoundTrip(t *testing.T) {
	data := CallbackData(CallbackToggleChat, -1001234567)

	prefix, id, ok := ParseCallback(data)
	require.True(t, ok)
	assert.Equal(t, CallbackToggleChat, prefix)
	assert.Equal(t, int64(-1001234567), id)
}

func TestParseCallbackRejectsGarbage(t *testing.T) {
	_, _, ok := ParseCallback("no-separator")
	assert.False(t, ok)

	_, _, ok = ParseCallback("pick_chat:not-a-number")
	assert.False(t, ok)
}

func TestChatSelectionMarksSelected(t *testing.T) {
	chats := []db.Chat{
		{ChatID: 1, Title: "Alpha"},
		{ChatID: 2, Title: "Beta"},
	}
	kb := ChatSelection(chats, map[int64]bool{2: true})

	// One row per chat plus the send row.
	require.Len(t, kb.InlineKeyboard, 3)
	assert.Equal(t, "Alpha", kb.InlineKeyboard[0][0].Text)
	assert.Equal(t, "✅ Beta", kb.InlineKeyboard[1][0].Text)

	prefix, id, ok := ParseCallback(*kb.InlineKeyboard[2][0].CallbackData)
	require.True(t, ok)
	assert.Equal(t, CallbackConfirmSend, prefix)
	assert.Zero(t, id)
}

func TestGroupSelection(t *testing.T) {
	groups := []db.ChatGroup{{ID: 5, Name: "Ops"}}
	kb := GroupSelection(groups)

	require.Len(t, kb.InlineKeyboard, 1)
	prefix, id, ok := ParseCallback(*kb.InlineKeyboard[0][0].CallbackData)
	require.True(t, ok)
	assert.Equal(t, CallbackChooseGroup, prefix)
	assert.Equal(t, int64(5), id)
}

func TestFormatChat(t *testing.T) {
	chat := db.Chat{
		ChatID:  42,
		Title:   "Ops Room",
		IsGroup: true,
		AddedAt: time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC),
	}

	text := FormatChat(chat)
	assert.Contains(t, text, "Ops Room")
	assert.Contains(t, text, "Группа")
	assert.Contains(t, text, "ID: 42")
}
