package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/user/broadcast-bot/internal/config"
	"github.com/user/broadcast-bot/internal/db"
	"github.com/user/broadcast-bot/internal/menu"
	"github.com/user/broadcast-bot/internal/session"
)

// handleAttachment routes an incoming file. A file from an operator in
// the middle of drafting a task becomes a task attachment; any other
// file is treated as a recipient's response to its latest open task.
func (b *Bot) handleAttachment(message *tgbotapi.Message) {
	if state := b.sessions.Get(message.Chat.ID); draftAcceptsMedia(state) {
		b.collectTaskMedia(message, state)
		return
	}
	b.recordResponse(message)
}

// draftAcceptsMedia reports whether the chat's flow is still collecting
// attachments for a task draft. Files keep joining the draft until the
// operator starts picking concrete recipients.
func draftAcceptsMedia(state *session.State) bool {
	if state == nil {
		return false
	}
	return state.Step == session.StepAwaitingTaskContent || state.Step == session.StepChoosingRecipients
}

// collectTaskMedia validates and stores an operator's attachment in
// the task draft. A caption doubles as the task text.
func (b *Bot) collectTaskMedia(message *tgbotapi.Message, state *session.State) {
	draft, reject := extractMedia(message)
	if reject != "" {
		b.sendMessage(message.Chat.ID, reject)
		return
	}

	state.TaskMedia = append(state.TaskMedia, draft)

	if message.Caption != "" && state.TaskText == "" {
		state.TaskText = message.Caption
	}

	if state.Step == session.StepChoosingRecipients {
		b.sendMessage(message.Chat.ID, "Файл добавлен к заданию.")
		return
	}

	if state.TaskText != "" {
		state.Step = session.StepChoosingRecipients
		msg := tgbotapi.NewMessage(message.Chat.ID, "Файл добавлен к заданию. Кому отправить?")
		msg.ReplyMarkup = menu.Recipients()
		b.sendResponse(&msg)
		return
	}

	b.sendMessage(message.Chat.ID, "Файл добавлен. Отправьте текст задания или ещё файлы.")
}

// recordResponse attributes an incoming file to the chat's latest open
// task and stores it as a response.
func (b *Bot) recordResponse(message *tgbotapi.Message) {
	draft, reject := extractMedia(message)
	if reject != "" {
		b.sendMessage(message.Chat.ID, reject)
		return
	}

	ctx := context.Background()
	tasks, err := b.store.GetActiveTasks(ctx)
	if err != nil {
		log.Printf("Error loading active tasks for response from chat %d: %v", message.Chat.ID, err)
		b.sendMessage(message.Chat.ID, "Не удалось сохранить ответ. Попробуйте позже.")
		return
	}

	taskID, ok := latestRespondableTask(tasks, message.Chat.ID)
	if !ok {
		b.sendMessage(message.Chat.ID, "Для этого чата нет активных заданий, ожидающих ответа.")
		return
	}

	if err := b.store.RecordResponseMedia(ctx, taskID, message.Chat.ID, draft.FileID, draft.FileType); err != nil {
		if errors.Is(err, db.ErrNotRecipient) {
			b.sendMessage(message.Chat.ID, "Для этого чата нет активных заданий, ожидающих ответа.")
			return
		}
		log.Printf("Error recording response for task %d from chat %d: %v", taskID, message.Chat.ID, err)
		b.sendMessage(message.Chat.ID, "Не удалось сохранить ответ. Попробуйте позже.")
		return
	}

	b.sendMessage(message.Chat.ID, fmt.Sprintf("✅ Ответ по заданию #%d принят.", taskID))
}

// latestRespondableTask picks the newest active task where the chat is
// a recipient that has not responded yet.
func latestRespondableTask(tasks map[int]*db.TaskOverview, chatID int64) (int, bool) {
	candidates := make([]*db.TaskOverview, 0, len(tasks))
	for _, task := range tasks {
		recipient, ok := task.Recipients[chatID]
		if !ok || recipient.Status == db.RecipientStatusResponded {
			continue
		}
		candidates = append(candidates, task)
	}
	if len(candidates) == 0 {
		return 0, false
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].CreatedAt.After(candidates[j].CreatedAt)
	})
	return candidates[0].ID, true
}

// extractMedia pulls the file reference out of a message and applies
// the format and size limits. A non-empty reject string explains a
// refused file to the sender.
func extractMedia(message *tgbotapi.Message) (session.MediaDraft, string) {
	if message.Document != nil {
		doc := message.Document
		if !config.IsAllowedFormat(doc.FileName) {
			return session.MediaDraft{}, "Недопустимый формат файла. Разрешены: " + formatList()
		}
		if !config.IsAllowedSize(doc.FileSize) {
			return session.MediaDraft{}, "Файл слишком большой. Максимальный размер: 20 МБ."
		}
		return session.MediaDraft{FileID: doc.FileID, FileType: "document"}, ""
	}

	if len(message.Photo) > 0 {
		// The last size is the largest rendition
		photo := message.Photo[len(message.Photo)-1]
		if !config.IsAllowedSize(photo.FileSize) {
			return session.MediaDraft{}, "Файл слишком большой. Максимальный размер: 20 МБ."
		}
		return session.MediaDraft{FileID: photo.FileID, FileType: "photo"}, ""
	}

	return session.MediaDraft{}, "Неподдерживаемый тип вложения."
}

func formatList() string {
	list := ""
	for i, ext := range config.AllowedFormats {
		if i > 0 {
			list += ", "
		}
		list += ext
	}
	return list
}
