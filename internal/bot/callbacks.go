package bot

import (
	"context"
	"errors"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/user/broadcast-bot/internal/broadcast"
	"github.com/user/broadcast-bot/internal/db"
	"github.com/user/broadcast-bot/internal/menu"
	"github.com/user/broadcast-bot/internal/session"
)

// handleCallback routes inline keyboard presses. Every callback gets
// answered so the client stops showing a spinner, even when the press
// arrives after the flow it belonged to has ended.
func (b *Bot) handleCallback(query *tgbotapi.CallbackQuery) {
	defer b.answerCallback(query.ID)

	if query.Message == nil {
		return
	}
	chatID := query.Message.Chat.ID

	prefix, id, ok := menu.ParseCallback(query.Data)
	if !ok {
		log.Printf("Malformed callback data: %q", query.Data)
		return
	}

	state := b.sessions.Get(chatID)
	if state == nil {
		b.sendMessage(chatID, "Этот выбор уже не активен. Начните заново: /newtask")
		return
	}

	switch prefix {
	case menu.CallbackToggleChat:
		b.toggleChat(query, state, id)
	case menu.CallbackConfirmSend:
		b.confirmSelection(chatID, state)
	case menu.CallbackChooseGroup:
		b.chooseGroup(chatID, state, int(id))
	case menu.CallbackGroupAddChat:
		b.addGroupChat(query, state, id)
	case menu.CallbackGroupDone:
		b.finishGroup(chatID, state)
	default:
		log.Printf("Unknown callback prefix: %q", prefix)
	}
}

func (b *Bot) answerCallback(id string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(id, "")); err != nil {
		log.Printf("Error answering callback: %v", err)
	}
}

// toggleChat flips one chat in the recipient selection and redraws the
// keyboard in place.
func (b *Bot) toggleChat(query *tgbotapi.CallbackQuery, state *session.State, chatID int64) {
	if state.Step != session.StepSelectingChats {
		return
	}

	if state.SelectedChats[chatID] {
		delete(state.SelectedChats, chatID)
	} else {
		state.SelectedChats[chatID] = true
	}

	chats, err := b.store.ListChats(context.Background())
	if err != nil {
		log.Printf("Error listing chats for selection redraw: %v", err)
		return
	}

	markup := menu.ChatSelection(chats, state.SelectedChats)
	edit := tgbotapi.NewEditMessageReplyMarkup(query.Message.Chat.ID, query.Message.MessageID, markup)
	if _, err := b.api.Send(edit); err != nil {
		log.Printf("Error updating selection keyboard: %v", err)
	}
}

// confirmSelection dispatches the drafted task to the checked chats.
func (b *Bot) confirmSelection(chatID int64, state *session.State) {
	if state.Step != session.StepSelectingChats {
		return
	}
	if len(state.SelectedChats) == 0 {
		b.sendMessage(chatID, "Не выбран ни один чат.")
		return
	}

	chatIDs := make([]int64, 0, len(state.SelectedChats))
	for id := range state.SelectedChats {
		chatIDs = append(chatIDs, id)
	}
	b.dispatchTask(chatID, state, broadcast.Target{ChatIDs: chatIDs})
}

// chooseGroup dispatches the drafted task to one group's members.
func (b *Bot) chooseGroup(chatID int64, state *session.State, groupID int) {
	if state.Step != session.StepChoosingGroup {
		return
	}
	b.dispatchTask(chatID, state, broadcast.Target{GroupID: groupID})
}

// addGroupChat adds one chat to the group being built and redraws the
// membership keyboard.
func (b *Bot) addGroupChat(query *tgbotapi.CallbackQuery, state *session.State, chatID int64) {
	if state.Step != session.StepAddingGroupChats {
		return
	}

	ctx := context.Background()
	err := b.store.AddChatToGroup(ctx, state.GroupID, chatID)
	if err != nil && !errors.Is(err, db.ErrAlreadyInGroup) {
		log.Printf("Error adding chat %d to group %d: %v", chatID, state.GroupID, err)
		b.sendMessage(query.Message.Chat.ID, "Не удалось добавить чат в группу.")
		return
	}
	state.SelectedChats[chatID] = true

	chats, err := b.store.ListChats(ctx)
	if err != nil {
		log.Printf("Error listing chats for group redraw: %v", err)
		return
	}

	markup := menu.GroupBuilding(chats, state.SelectedChats)
	edit := tgbotapi.NewEditMessageReplyMarkup(query.Message.Chat.ID, query.Message.MessageID, markup)
	if _, err := b.api.Send(edit); err != nil {
		log.Printf("Error updating group keyboard: %v", err)
	}
}

// finishGroup ends the group-building flow.
func (b *Bot) finishGroup(chatID int64, state *session.State) {
	if state.Step != session.StepAddingGroupChats {
		return
	}

	added := len(state.SelectedChats)
	b.sessions.Clear(chatID)

	msg := tgbotapi.NewMessage(chatID, groupDoneText(added))
	msg.ReplyMarkup = menu.Main()
	b.sendResponse(&msg)
}

func groupDoneText(added int) string {
	if added == 0 {
		return "Группа сохранена без чатов. Добавить чаты можно позже."
	}
	return "Группа сохранена."
}
