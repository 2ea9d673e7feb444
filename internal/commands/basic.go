package commands

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/user/broadcast-bot/internal/menu"
)

const unauthorizedText = "⛔ Эта команда доступна только администраторам."

// StartCommand handles the /start command
type StartCommand struct {
	admins Admins
}

// NewStartCommand creates a new start command handler
func NewStartCommand(admins Admins) *StartCommand {
	return &StartCommand{
		admins: admins,
	}
}

// Name returns the command name
func (c *StartCommand) Name() string {
	return "start"
}

// Description returns the command description
func (c *StartCommand) Description() string {
	return "Показать главное меню"
}

func (c *StartCommand) Execute(message *tgbotapi.Message) *tgbotapi.MessageConfig {
	welcomeText := `🤖 Бот для рассылки заданий по подключенным чатам.

Что я умею:
— рассылать задания (текст + файлы) по чатам и группам чатов
— собирать файлы-ответы от получателей
— отслеживать статус каждого получателя

Как пользоваться:
1️⃣ Подключите чаты командой /addchat внутри каждого чата
2️⃣ Создайте задание через меню или /newtask
3️⃣ Следите за ответами через "📋 Просмотр активных заданий"

/help — список всех команд`

	msg := tgbotapi.NewMessage(message.Chat.ID, welcomeText)
	if c.admins.IsAdmin(message.From.ID) {
		msg.ReplyMarkup = menu.Main()
	}
	return &msg
}

// HelpCommand lists every registered command, so new commands show up
// in /help without touching this file.
type HelpCommand struct {
	registry *Registry
}

// NewHelpCommand creates a new help command handler
func NewHelpCommand(registry *Registry) *HelpCommand {
	return &HelpCommand{
		registry: registry,
	}
}

// Name returns the command name
func (c *HelpCommand) Name() string {
	return "help"
}

// Description returns the command description
func (c *HelpCommand) Description() string {
	return "Показать список доступных команд"
}

func (c *HelpCommand) Execute(message *tgbotapi.Message) *tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(message.Chat.ID, c.registry.GenerateHelpText())
	return &msg
}
