package bot

import (
	"context"
	"errors"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/user/broadcast-bot/internal/db"
	"github.com/user/broadcast-bot/internal/menu"
	"github.com/user/broadcast-bot/internal/session"
)

// continueFlow handles free text while a menu flow is active.
func (b *Bot) continueFlow(message *tgbotapi.Message, state *session.State) {
	switch state.Step {
	case session.StepAwaitingTaskContent:
		state.TaskText = message.Text
		state.Step = session.StepChoosingRecipients

		msg := tgbotapi.NewMessage(message.Chat.ID, "Текст задания сохранён. Кому отправить?")
		msg.ReplyMarkup = menu.Recipients()
		b.sendResponse(&msg)

	case session.StepNamingGroup:
		b.createGroup(message.Chat.ID, message.Text, state)

	default:
		b.sendMessage(message.Chat.ID, "Продолжите через меню или отмените: /cancel")
	}
}

// createGroup persists the named group and moves the flow into member
// selection.
func (b *Bot) createGroup(chatID int64, name string, state *session.State) {
	ctx := context.Background()

	groupID, err := b.store.CreateChatGroup(ctx, name)
	if err != nil {
		if errors.Is(err, db.ErrGroupExists) {
			b.sendMessage(chatID, fmt.Sprintf("Группа «%s» уже существует. Введите другое название.", name))
			return
		}
		log.Printf("Error creating group %q: %v", name, err)
		b.sendMessage(chatID, "Не удалось создать группу. Попробуйте позже.")
		return
	}

	state.GroupID = groupID
	state.Step = session.StepAddingGroupChats
	state.SelectedChats = make(map[int64]bool)

	chats, err := b.store.ListChats(ctx)
	if err != nil {
		log.Printf("Error listing chats for group %d: %v", groupID, err)
		b.sendMessage(chatID, "Не удалось загрузить список чатов.")
		return
	}
	if len(chats) == 0 {
		b.sessions.Clear(chatID)
		b.sendMessage(chatID, fmt.Sprintf("Группа «%s» создана, но подключенных чатов пока нет.", name))
		return
	}

	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("Группа «%s» создана. Выберите чаты для добавления:", name))
	msg.ReplyMarkup = menu.GroupBuilding(chats, state.SelectedChats)
	b.sendResponse(&msg)
}

// startChatSelection shows the inline recipient-picking keyboard.
func (b *Bot) startChatSelection(chatID int64, state *session.State) {
	chats, err := b.store.ListChats(context.Background())
	if err != nil {
		log.Printf("Error listing chats for selection: %v", err)
		b.sendMessage(chatID, "Не удалось загрузить список чатов.")
		return
	}
	if len(chats) == 0 {
		b.sendMessage(chatID, "Нет подключенных чатов. Добавьте бота в чат и выполните /addchat.")
		return
	}

	state.Step = session.StepSelectingChats
	state.SelectedChats = make(map[int64]bool)

	msg := tgbotapi.NewMessage(chatID, "Отметьте чаты, которым отправить задание:")
	msg.ReplyMarkup = menu.ChatSelection(chats, state.SelectedChats)
	b.sendResponse(&msg)
}

// startGroupSelection shows the inline group-picking keyboard.
func (b *Bot) startGroupSelection(chatID int64, state *session.State) {
	groups, err := b.store.ListChatGroups(context.Background())
	if err != nil {
		log.Printf("Error listing groups for selection: %v", err)
		b.sendMessage(chatID, "Не удалось загрузить список групп.")
		return
	}
	if len(groups) == 0 {
		b.sendMessage(chatID, "Группы ещё не созданы. Создайте группу: /newgroup")
		return
	}

	state.Step = session.StepChoosingGroup

	msg := tgbotapi.NewMessage(chatID, "Выберите группу получателей:")
	msg.ReplyMarkup = menu.GroupSelection(groups)
	b.sendResponse(&msg)
}
