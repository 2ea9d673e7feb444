package commands

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/user/broadcast-bot/internal/menu"
	"github.com/user/broadcast-bot/internal/session"
)

// NewTaskCommand starts the task creation flow: the next messages from
// this chat are collected into a draft until recipients are chosen.
type NewTaskCommand struct {
	sessions *session.Manager
	admins   Admins
}

func NewNewTaskCommand(sessions *session.Manager, admins Admins) *NewTaskCommand {
	return &NewTaskCommand{
		sessions: sessions,
		admins:   admins,
	}
}

func (c *NewTaskCommand) Name() string {
	return "newtask"
}

func (c *NewTaskCommand) Description() string {
	return "Создать и разослать задание"
}

func (c *NewTaskCommand) Execute(message *tgbotapi.Message) *tgbotapi.MessageConfig {
	if !c.admins.IsAdmin(message.From.ID) {
		msg := tgbotapi.NewMessage(message.Chat.ID, unauthorizedText)
		return &msg
	}

	c.sessions.Begin(message.Chat.ID, session.StepAwaitingTaskContent)

	msg := tgbotapi.NewMessage(message.Chat.ID,
		"Введите текст задания. Можно также прикрепить файлы (pdf, doc, docx, xls, xlsx, txt).\n"+
			"Когда всё готово, отправьте текст — затем выберите получателей.")
	msg.ReplyMarkup = menu.Cancel()
	return &msg
}

// NewGroupCommand starts the chat-group creation flow.
type NewGroupCommand struct {
	sessions *session.Manager
	admins   Admins
}

func NewNewGroupCommand(sessions *session.Manager, admins Admins) *NewGroupCommand {
	return &NewGroupCommand{
		sessions: sessions,
		admins:   admins,
	}
}

func (c *NewGroupCommand) Name() string {
	return "newgroup"
}

func (c *NewGroupCommand) Description() string {
	return "Создать группу чатов"
}

func (c *NewGroupCommand) Execute(message *tgbotapi.Message) *tgbotapi.MessageConfig {
	if !c.admins.IsAdmin(message.From.ID) {
		msg := tgbotapi.NewMessage(message.Chat.ID, unauthorizedText)
		return &msg
	}

	c.sessions.Begin(message.Chat.ID, session.StepNamingGroup)

	msg := tgbotapi.NewMessage(message.Chat.ID, "Введите название для новой группы чатов:")
	msg.ReplyMarkup = menu.Cancel()
	return &msg
}

// CancelCommand aborts whatever flow the chat is currently in.
type CancelCommand struct {
	sessions *session.Manager
}

func NewCancelCommand(sessions *session.Manager) *CancelCommand {
	return &CancelCommand{
		sessions: sessions,
	}
}

func (c *CancelCommand) Name() string {
	return "cancel"
}

func (c *CancelCommand) Description() string {
	return "Отменить текущее действие"
}

func (c *CancelCommand) Execute(message *tgbotapi.Message) *tgbotapi.MessageConfig {
	if c.sessions.Get(message.Chat.ID) == nil {
		msg := tgbotapi.NewMessage(message.Chat.ID, "Нечего отменять.")
		return &msg
	}

	c.sessions.Clear(message.Chat.ID)

	msg := tgbotapi.NewMessage(message.Chat.ID, "Действие отменено.")
	msg.ReplyMarkup = menu.Main()
	return &msg
}
