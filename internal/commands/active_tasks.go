package commands

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/user/broadcast-bot/internal/db"
)

// ActiveTasksCommand renders every active task with its recipients,
// their delivery status and collected responses.
type ActiveTasksCommand struct {
	store  Store
	admins Admins
}

func NewActiveTasksCommand(store Store, admins Admins) *ActiveTasksCommand {
	return &ActiveTasksCommand{
		store:  store,
		admins: admins,
	}
}

func (c *ActiveTasksCommand) Name() string {
	return "tasks"
}

func (c *ActiveTasksCommand) Description() string {
	return "Активные задания и статусы получателей"
}

func (c *ActiveTasksCommand) Execute(message *tgbotapi.Message) *tgbotapi.MessageConfig {
	if !c.admins.IsAdmin(message.From.ID) {
		msg := tgbotapi.NewMessage(message.Chat.ID, unauthorizedText)
		return &msg
	}

	ctx := context.Background()

	tasks, err := c.store.GetActiveTasks(ctx)
	if err != nil {
		log.Printf("Error getting active tasks: %v", err)
		msg := tgbotapi.NewMessage(message.Chat.ID, "Произошла ошибка. Пожалуйста, попробуйте позже.")
		return &msg
	}

	if len(tasks) == 0 {
		msg := tgbotapi.NewMessage(message.Chat.ID, "Нет активных заданий.")
		return &msg
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, FormatActiveTasks(tasks))
	return &msg
}

var statusLabels = map[string]string{
	db.RecipientStatusPending:   "⏳ ожидает",
	db.RecipientStatusDelivered: "📬 доставлено",
	db.RecipientStatusResponded: "✅ ответ получен",
}

// FormatActiveTasks renders the aggregate in a stable order: tasks
// newest first, recipients sorted by title.
func FormatActiveTasks(tasks map[int]*db.TaskOverview) string {
	ordered := make([]*db.TaskOverview, 0, len(tasks))
	for _, task := range tasks {
		ordered = append(ordered, task)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if !ordered[i].CreatedAt.Equal(ordered[j].CreatedAt) {
			return ordered[i].CreatedAt.After(ordered[j].CreatedAt)
		}
		return ordered[i].ID > ordered[j].ID
	})

	var sb strings.Builder
	sb.WriteString("📋 Активные задания:\n\n")
	for _, task := range ordered {
		fmt.Fprintf(&sb, "Задание #%d: %s\n", task.ID, task.Text)
		fmt.Fprintf(&sb, "Создано: %s\n", task.CreatedAt.Format("02.01.2006 15:04"))
		if len(task.Media) > 0 {
			fmt.Fprintf(&sb, "Вложений: %d\n", len(task.Media))
		}

		recipients := make([]int64, 0, len(task.Recipients))
		for chatID := range task.Recipients {
			recipients = append(recipients, chatID)
		}
		sort.Slice(recipients, func(i, j int) bool {
			a, b := task.Recipients[recipients[i]], task.Recipients[recipients[j]]
			if a.Title != b.Title {
				return a.Title < b.Title
			}
			return recipients[i] < recipients[j]
		})

		sb.WriteString("Получатели:\n")
		for _, chatID := range recipients {
			recipient := task.Recipients[chatID]
			status := statusLabels[recipient.Status]
			if status == "" {
				status = recipient.Status
			}
			fmt.Fprintf(&sb, "  • %s — %s", recipient.Title, status)
			if len(recipient.Media) > 0 {
				fmt.Fprintf(&sb, " (файлов: %d)", len(recipient.Media))
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
