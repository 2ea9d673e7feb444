package bot

import (
	"context"
	"errors"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/user/broadcast-bot/internal/broadcast"
	"github.com/user/broadcast-bot/internal/commands"
	"github.com/user/broadcast-bot/internal/menu"
	"github.com/user/broadcast-bot/internal/session"
)

// dispatchTask persists the drafted task, expands the target into
// recipients and delivers the task to each of them. The flow ends here
// whatever the outcome: a failed delivery to one chat leaves the task
// active with that recipient still pending.
func (b *Bot) dispatchTask(operatorChatID int64, state *session.State, target broadcast.Target) {
	ctx := context.Background()

	taskID, count, err := createAssignedTask(ctx, b.store, b.resolver, operatorChatID, state, target)
	if err != nil {
		if errors.Is(err, broadcast.ErrNoRecipients) {
			b.sendMessage(operatorChatID, "Не найдено ни одного получателя для задания.")
			return
		}
		log.Printf("Error dispatching task: %v", err)
		b.sendMessage(operatorChatID, "Не удалось сохранить задание. Попробуйте позже.")
		return
	}

	delivered := b.deliver(ctx, taskID, state)

	b.sessions.Clear(operatorChatID)

	msg := tgbotapi.NewMessage(operatorChatID,
		fmt.Sprintf("✅ Задание #%d отправлено: доставлено %d из %d.", taskID, delivered, count))
	msg.ReplyMarkup = menu.Main()
	b.sendResponse(&msg)
}

// createAssignedTask persists the draft (task row plus attachments) and
// expands the target into recipient rows. A target that resolves to
// nobody closes the just-created task again so it cannot linger outside
// the active view with no recipients.
func createAssignedTask(ctx context.Context, store commands.Store, resolver *broadcast.Resolver,
	creatorID int64, state *session.State, target broadcast.Target) (int, int, error) {

	taskID, err := store.CreateTask(ctx, state.TaskText, creatorID)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to create task: %w", err)
	}

	for _, media := range state.TaskMedia {
		if err := store.AddTaskMedia(ctx, taskID, media.FileID, media.FileType); err != nil {
			log.Printf("Error saving media for task %d: %v", taskID, err)
		}
	}

	count, err := resolver.Assign(ctx, taskID, target)
	if err != nil {
		if closeErr := store.CloseTask(ctx, taskID); closeErr != nil {
			log.Printf("Error closing unassigned task %d: %v", taskID, closeErr)
		}
		return 0, 0, err
	}

	return taskID, count, nil
}

// deliver sends the task text and attachments to every assigned
// recipient and marks each successful send as delivered. Returns the
// number of chats that received the task.
func (b *Bot) deliver(ctx context.Context, taskID int, state *session.State) int {
	tasks, err := b.store.GetActiveTasks(ctx)
	if err != nil {
		log.Printf("Error loading task %d for delivery: %v", taskID, err)
		return 0
	}
	task, ok := tasks[taskID]
	if !ok {
		log.Printf("Task %d missing from active set during delivery", taskID)
		return 0
	}

	text := fmt.Sprintf("📨 Новое задание #%d\n\n%s\n\nОтветьте на это задание файлом в этом чате.", taskID, task.Text)

	delivered := 0
	for chatID := range task.Recipients {
		msg := tgbotapi.NewMessage(chatID, text)
		if _, err := b.api.Send(msg); err != nil {
			log.Printf("Error delivering task %d to chat %d: %v", taskID, chatID, err)
			continue
		}

		for _, media := range state.TaskMedia {
			if err := b.sendMedia(chatID, media); err != nil {
				log.Printf("Error sending attachment to chat %d: %v", chatID, err)
			}
		}

		if err := b.store.MarkRecipientDelivered(ctx, taskID, chatID); err != nil {
			log.Printf("Error marking task %d delivered to chat %d: %v", taskID, chatID, err)
		}
		delivered++
	}
	return delivered
}

// sendMedia re-sends a stored attachment by its Bot API file id.
func (b *Bot) sendMedia(chatID int64, media session.MediaDraft) error {
	var err error
	switch media.FileType {
	case "photo":
		_, err = b.api.Send(tgbotapi.NewPhoto(chatID, tgbotapi.FileID(media.FileID)))
	default:
		_, err = b.api.Send(tgbotapi.NewDocument(chatID, tgbotapi.FileID(media.FileID)))
	}
	return err
}
