// Package menu maps the reply-keyboard button labels to a finite set
// of actions and builds the keyboards for each flow state. Dispatch
// elsewhere works on Action values only, never on display strings.
package menu

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Action int

const (
	ActionUnknown Action = iota
	ActionCreateTask
	ActionViewTasks
	ActionListChats
	ActionCreateGroup
	ActionHelp
	ActionCancel
	ActionSendToAll
	ActionPickChats
	ActionPickGroup
)

var labels = map[Action]string{
	ActionCreateTask:  "📝 Создать новое задание",
	ActionViewTasks:   "📋 Просмотр активных заданий",
	ActionListChats:   "👥 Просмотр списка подключенных чатов",
	ActionCreateGroup: "👥 Создать группу чатов",
	ActionHelp:        "❓ Помощь",
	ActionCancel:      "🔙 Отмена",
	ActionSendToAll:   "👥 Все чаты",
	ActionPickChats:   "📋 Выбрать получателей",
	ActionPickGroup:   "👥 Выбрать группу",
}

var actionsByLabel = make(map[string]Action, len(labels))

func init() {
	for action, label := range labels {
		actionsByLabel[label] = action
	}
}

// Label returns the display string of an action.
func Label(a Action) string {
	return labels[a]
}

// FromText resolves a button press to its action. Free text that is
// not a known button maps to ActionUnknown.
func FromText(text string) Action {
	return actionsByLabel[text]
}

func row(actions ...Action) []tgbotapi.KeyboardButton {
	buttons := make([]tgbotapi.KeyboardButton, 0, len(actions))
	for _, a := range actions {
		buttons = append(buttons, tgbotapi.NewKeyboardButton(labels[a]))
	}
	return buttons
}

// Main is the top-level operator menu.
func Main() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		row(ActionCreateTask),
		row(ActionViewTasks),
		row(ActionListChats),
		row(ActionCreateGroup),
		row(ActionHelp),
	)
	kb.ResizeKeyboard = true
	return kb
}

// Cancel offers only a way out of the current flow.
func Cancel() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(row(ActionCancel))
	kb.ResizeKeyboard = true
	return kb
}

// Recipients lets the operator choose how to target the task.
func Recipients() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		row(ActionSendToAll),
		row(ActionPickChats),
		row(ActionPickGroup),
		row(ActionCancel),
	)
	kb.ResizeKeyboard = true
	return kb
}
