package commands

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// CloseTaskCommand moves a task to its terminal closed state, removing
// it from the active view.
type CloseTaskCommand struct {
	store  Store
	admins Admins
}

func NewCloseTaskCommand(store Store, admins Admins) *CloseTaskCommand {
	return &CloseTaskCommand{
		store:  store,
		admins: admins,
	}
}

func (c *CloseTaskCommand) Name() string {
	return "closetask"
}

func (c *CloseTaskCommand) Description() string {
	return "Закрыть задание (usage: /closetask <id>)"
}

func (c *CloseTaskCommand) Execute(message *tgbotapi.Message) *tgbotapi.MessageConfig {
	if !c.admins.IsAdmin(message.From.ID) {
		msg := tgbotapi.NewMessage(message.Chat.ID, unauthorizedText)
		return &msg
	}

	args := strings.TrimSpace(message.CommandArguments())
	taskID, err := strconv.Atoi(args)
	if err != nil || taskID <= 0 {
		msg := tgbotapi.NewMessage(message.Chat.ID, "Укажите номер задания: /closetask <id>")
		return &msg
	}

	ctx := context.Background()

	tasks, err := c.store.GetActiveTasks(ctx)
	if err != nil {
		log.Printf("Error getting active tasks: %v", err)
		msg := tgbotapi.NewMessage(message.Chat.ID, "Произошла ошибка. Пожалуйста, попробуйте позже.")
		return &msg
	}
	if tasks[taskID] == nil {
		msg := tgbotapi.NewMessage(message.Chat.ID, fmt.Sprintf("Активное задание #%d не найдено.", taskID))
		return &msg
	}

	if err := c.store.CloseTask(ctx, taskID); err != nil {
		log.Printf("Error closing task %d: %v", taskID, err)
		msg := tgbotapi.NewMessage(message.Chat.ID, "Произошла ошибка. Пожалуйста, попробуйте позже.")
		return &msg
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, fmt.Sprintf("Задание #%d закрыто.", taskID))
	return &msg
}
