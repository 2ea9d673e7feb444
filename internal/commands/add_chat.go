package commands

import (
	"context"
	"errors"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/user/broadcast-bot/internal/db"
)

// AddChatCommand connects the chat it is invoked in to the bot.
type AddChatCommand struct {
	store  Store
	admins Admins
}

func NewAddChatCommand(store Store, admins Admins) *AddChatCommand {
	return &AddChatCommand{
		store:  store,
		admins: admins,
	}
}

func (c *AddChatCommand) Name() string {
	return "addchat"
}

func (c *AddChatCommand) Description() string {
	return "Подключить текущий чат к боту"
}

func (c *AddChatCommand) Execute(message *tgbotapi.Message) *tgbotapi.MessageConfig {
	if !c.admins.IsAdmin(message.From.ID) {
		msg := tgbotapi.NewMessage(message.Chat.ID, unauthorizedText)
		return &msg
	}

	ctx := context.Background()

	existing, err := c.store.FindChat(ctx, message.Chat.ID)
	if err != nil {
		log.Printf("Error looking up chat %d: %v", message.Chat.ID, err)
		msg := tgbotapi.NewMessage(message.Chat.ID, "Произошла ошибка. Пожалуйста, попробуйте позже.")
		return &msg
	}
	if existing != nil {
		msg := tgbotapi.NewMessage(message.Chat.ID,
			fmt.Sprintf("Этот чат уже подключен к боту (с %s).", existing.AddedAt.Format("02.01.2006")))
		return &msg
	}

	title := message.Chat.Title
	if title == "" && message.From != nil {
		title = fmt.Sprintf("Личный чат с %s", message.From.FirstName)
	}
	isGroup := message.Chat.IsGroup() || message.Chat.IsSuperGroup()

	if err := c.store.RegisterChat(ctx, message.Chat.ID, title, isGroup); err != nil {
		if errors.Is(err, db.ErrChatExists) {
			msg := tgbotapi.NewMessage(message.Chat.ID, "Этот чат уже подключен к боту.")
			return &msg
		}
		log.Printf("Error registering chat %d: %v", message.Chat.ID, err)
		msg := tgbotapi.NewMessage(message.Chat.ID, "Произошла ошибка. Пожалуйста, попробуйте позже.")
		return &msg
	}

	kind := "Личный чат"
	if isGroup {
		kind = "Группа"
	}
	msg := tgbotapi.NewMessage(message.Chat.ID,
		fmt.Sprintf("Чат успешно подключен к боту!\nТип чата: %s\nСписок чатов: /chats", kind))
	return &msg
}
