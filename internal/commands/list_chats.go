package commands

import (
	"context"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/user/broadcast-bot/internal/menu"
)

// ListChatsCommand shows the connected chat registry, newest first.
type ListChatsCommand struct {
	store  Store
	admins Admins
}

func NewListChatsCommand(store Store, admins Admins) *ListChatsCommand {
	return &ListChatsCommand{
		store:  store,
		admins: admins,
	}
}

func (c *ListChatsCommand) Name() string {
	return "chats"
}

func (c *ListChatsCommand) Description() string {
	return "Список подключенных чатов"
}

func (c *ListChatsCommand) Execute(message *tgbotapi.Message) *tgbotapi.MessageConfig {
	if !c.admins.IsAdmin(message.From.ID) {
		msg := tgbotapi.NewMessage(message.Chat.ID, unauthorizedText)
		return &msg
	}

	ctx := context.Background()

	chats, err := c.store.ListChats(ctx)
	if err != nil {
		log.Printf("Error listing chats: %v", err)
		msg := tgbotapi.NewMessage(message.Chat.ID, "Произошла ошибка. Пожалуйста, попробуйте позже.")
		return &msg
	}

	if len(chats) == 0 {
		msg := tgbotapi.NewMessage(message.Chat.ID,
			"Нет подключенных чатов. Используйте /addchat в нужном чате, чтобы подключить его.")
		return &msg
	}

	var sb strings.Builder
	sb.WriteString("👥 Подключенные чаты:\n\n")
	for _, chat := range chats {
		sb.WriteString(menu.FormatChat(chat))
		sb.WriteString("\n\n")
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, sb.String())
	return &msg
}
