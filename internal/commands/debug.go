package commands

import (
	"context"
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/user/broadcast-bot/internal/menu"
)

// DebugCommand shows row counts and recently added chats.
type DebugCommand struct {
	store  Store
	admins Admins
}

func NewDebugCommand(store Store, admins Admins) *DebugCommand {
	return &DebugCommand{
		store:  store,
		admins: admins,
	}
}

func (c *DebugCommand) Name() string {
	return "debug_db"
}

func (c *DebugCommand) Description() string {
	return "Статистика базы данных"
}

func (c *DebugCommand) Execute(message *tgbotapi.Message) *tgbotapi.MessageConfig {
	if !c.admins.IsAdmin(message.From.ID) {
		msg := tgbotapi.NewMessage(message.Chat.ID, unauthorizedText)
		return &msg
	}

	ctx := context.Background()

	counts, recent, err := c.store.Stats(ctx)
	if err != nil {
		log.Printf("Error getting db stats: %v", err)
		msg := tgbotapi.NewMessage(message.Chat.ID, "Произошла ошибка. Пожалуйста, попробуйте позже.")
		return &msg
	}

	var sb strings.Builder
	sb.WriteString("📊 Статистика базы данных:\n\n")
	fmt.Fprintf(&sb, "• chats: %d записей\n", counts.Chats)
	fmt.Fprintf(&sb, "• chat_groups: %d записей\n", counts.ChatGroups)
	fmt.Fprintf(&sb, "• tasks: %d записей\n", counts.Tasks)

	if len(recent) > 0 {
		sb.WriteString("\n🆕 Последние добавленные чаты:\n")
		for _, chat := range recent {
			sb.WriteString(menu.FormatChat(chat))
			sb.WriteString("\n")
		}
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, sb.String())
	return &msg
}
