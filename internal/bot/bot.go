package bot

import (
	"log"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/user/broadcast-bot/internal/broadcast"
	"github.com/user/broadcast-bot/internal/commands"
	"github.com/user/broadcast-bot/internal/config"
	"github.com/user/broadcast-bot/internal/menu"
	"github.com/user/broadcast-bot/internal/session"
)

type Bot struct {
	api             *tgbotapi.BotAPI
	commandRegistry *commands.Registry
	store           commands.Store
	resolver        *broadcast.Resolver
	sessions        *session.Manager
	cfg             *config.Config
	wg              sync.WaitGroup
	stopCh          chan struct{}
}

func New(cfg *config.Config, store commands.Store) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, err
	}

	sessions := session.NewManager()

	// Initialize command registry
	registry := commands.NewRegistry()
	registry.Register(commands.NewStartCommand(cfg))
	registry.Register(commands.NewHelpCommand(registry))
	registry.Register(commands.NewAddChatCommand(store, cfg))
	registry.Register(commands.NewListChatsCommand(store, cfg))
	registry.Register(commands.NewNewTaskCommand(sessions, cfg))
	registry.Register(commands.NewNewGroupCommand(sessions, cfg))
	registry.Register(commands.NewActiveTasksCommand(store, cfg))
	registry.Register(commands.NewCloseTaskCommand(store, cfg))
	registry.Register(commands.NewCancelCommand(sessions))
	registry.Register(commands.NewDebugCommand(store, cfg))

	return &Bot{
		api:             api,
		commandRegistry: registry,
		store:           store,
		resolver:        broadcast.NewResolver(store),
		sessions:        sessions,
		cfg:             cfg,
		stopCh:          make(chan struct{}),
	}, nil
}

// Start begins listening for updates from Telegram
func (b *Bot) Start() error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60

	updates := b.api.GetUpdatesChan(updateConfig)

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.handleUpdates(updates)
	}()

	return nil
}

// Stop gracefully shuts down the bot
func (b *Bot) Stop() {
	close(b.stopCh)
	b.api.StopReceivingUpdates()
	b.wg.Wait()
}

// handleUpdates processes incoming updates from Telegram. Updates are
// handled sequentially, which keeps per-chat flow state race free.
func (b *Bot) handleUpdates(updates tgbotapi.UpdatesChannel) {
	for {
		select {
		case <-b.stopCh:
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handleUpdate(update)
		}
	}
}

// handleUpdate processes a single update from Telegram
func (b *Bot) handleUpdate(update tgbotapi.Update) {
	if update.Message != nil {
		b.handleMessage(update.Message)
		return
	}

	if update.CallbackQuery != nil {
		b.handleCallback(update.CallbackQuery)
		return
	}
}

// handleMessage processes a single message from a user
func (b *Bot) handleMessage(message *tgbotapi.Message) {
	if message.From == nil {
		return
	}
	log.Printf("[%s] %s", message.From.UserName, message.Text)

	// Process commands
	if message.IsCommand() {
		commandName := message.Command()
		log.Printf("[COMMAND] %s: %s", message.From.UserName, commandName)
		command, exists := b.commandRegistry.Get(commandName)

		if !exists {
			b.sendMessage(message.Chat.ID, "Неизвестная команда.\n\n"+b.commandRegistry.GenerateHelpText())
			return
		}

		responseMsg := command.Execute(message)
		b.sendResponse(responseMsg)
		return
	}

	// Attachments: either draft material for an operator mid-flow or a
	// recipient's response file.
	if message.Document != nil || len(message.Photo) > 0 {
		b.handleAttachment(message)
		return
	}

	if message.Text == "" {
		return
	}

	// Menu buttons dispatch through the action enum; everything the
	// mapping does not know continues the active flow as free text.
	if action := menu.FromText(message.Text); action != menu.ActionUnknown {
		b.handleAction(message, action)
		return
	}

	if state := b.sessions.Get(message.Chat.ID); state != nil {
		b.continueFlow(message, state)
		return
	}

	b.sendMessage(message.Chat.ID, "Команда не распознана. /help — список доступных команд.")
}

// handleAction routes a pressed menu button. Top-level buttons reuse
// the slash command implementations; the recipient-choice buttons only
// make sense inside the task flow.
func (b *Bot) handleAction(message *tgbotapi.Message, action menu.Action) {
	topLevel := map[menu.Action]string{
		menu.ActionCreateTask:  "newtask",
		menu.ActionViewTasks:   "tasks",
		menu.ActionListChats:   "chats",
		menu.ActionCreateGroup: "newgroup",
		menu.ActionHelp:        "help",
		menu.ActionCancel:      "cancel",
	}

	if name, ok := topLevel[action]; ok {
		command, exists := b.commandRegistry.Get(name)
		if !exists {
			log.Printf("No command registered for menu action %d", action)
			return
		}
		b.sendResponse(command.Execute(message))
		return
	}

	state := b.sessions.Get(message.Chat.ID)
	if state == nil || state.Step != session.StepChoosingRecipients {
		b.sendMessage(message.Chat.ID, "Сначала создайте задание: /newtask")
		return
	}

	switch action {
	case menu.ActionSendToAll:
		b.dispatchTask(message.Chat.ID, state, broadcast.Target{All: true})
	case menu.ActionPickChats:
		b.startChatSelection(message.Chat.ID, state)
	case menu.ActionPickGroup:
		b.startGroupSelection(message.Chat.ID, state)
	}
}

// sendResponse sends a message with debugging logs
func (b *Bot) sendResponse(msgConfig *tgbotapi.MessageConfig) {
	if msgConfig == nil {
		return
	}

	_, err := b.api.Send(msgConfig)
	if err != nil {
		log.Printf("Error sending message: %v", err)
		log.Printf("Message text was: %s", msgConfig.Text)
	}
}

// sendMessage simplified method for sending text messages
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	b.sendResponse(&msg)
}
