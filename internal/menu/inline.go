package menu

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/user/broadcast-bot/internal/db"
)

// Callback data prefixes for inline selection keyboards, in the format
// "{prefix}:{id}".
const (
	CallbackToggleChat   = "pick_chat"
	CallbackConfirmSend  = "send_task"
	CallbackChooseGroup  = "pick_group"
	CallbackGroupAddChat = "grp_chat"
	CallbackGroupDone    = "grp_done"
)

const callbackSeparator = ":"

// CallbackData encodes a prefix and numeric id for an inline button.
func CallbackData(prefix string, id int64) string {
	return prefix + callbackSeparator + strconv.FormatInt(id, 10)
}

// ParseCallback splits callback data produced by CallbackData.
func ParseCallback(data string) (prefix string, id int64, ok bool) {
	parts := strings.SplitN(data, callbackSeparator, 2)
	if len(parts) != 2 {
		return "", 0, false
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return "", 0, false
	}
	return parts[0], id, true
}

// ChatSelection builds the recipient-picking keyboard: one row per
// registered chat with a check mark on selected ones, plus a send row.
func ChatSelection(chats []db.Chat, selected map[int64]bool) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(chats)+1)
	for _, chat := range chats {
		label := chat.Title
		if selected[chat.ChatID] {
			label = "✅ " + label
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, CallbackData(CallbackToggleChat, chat.ChatID)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("📤 Отправить выбранным", CallbackData(CallbackConfirmSend, 0)),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// GroupSelection builds the group-picking keyboard for task targeting.
func GroupSelection(groups []db.ChatGroup) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(groups))
	for _, group := range groups {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(group.Name, CallbackData(CallbackChooseGroup, int64(group.ID))),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// GroupBuilding builds the keyboard for filling a new group with
// chats, with a finish row at the bottom.
func GroupBuilding(chats []db.Chat, members map[int64]bool) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(chats)+1)
	for _, chat := range chats {
		label := chat.Title
		if members[chat.ChatID] {
			label = "✅ " + label
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, CallbackData(CallbackGroupAddChat, chat.ChatID)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("✅ Завершить", CallbackData(CallbackGroupDone, 0)),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// FormatChat renders one registry entry for the chat list view.
func FormatChat(chat db.Chat) string {
	kind := "Личный чат"
	if chat.IsGroup {
		kind = "Группа"
	}
	return fmt.Sprintf("• %s\n  Тип: %s\n  ID: %d\n  Добавлен: %s",
		chat.Title, kind, chat.ChatID, chat.AddedAt.Format("02.01.2006 15:04"))
}
