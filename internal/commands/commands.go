package commands

import (
	"sort"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Command defines the interface for all bot commands
type Command interface {
	// Name returns the command name (without /)
	Name() string
	// Description returns the command description for help text
	Description() string
	// Execute handles the command execution
	Execute(message *tgbotapi.Message) *tgbotapi.MessageConfig
}

// Registry holds all available commands
type Registry struct {
	commands map[string]Command
}

// NewRegistry creates a new command registry
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]Command),
	}
}

// Register adds a command to the registry
func (r *Registry) Register(cmd Command) {
	r.commands[cmd.Name()] = cmd
}

// Get returns a command by name
func (r *Registry) Get(name string) (Command, bool) {
	cmd, exists := r.commands[name]
	return cmd, exists
}

// GetAll returns all registered commands ordered by name.
func (r *Registry) GetAll() []Command {
	cmds := make([]Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		cmds = append(cmds, cmd)
	}
	sort.Slice(cmds, func(i, j int) bool {
		return cmds[i].Name() < cmds[j].Name()
	})
	return cmds
}

// GenerateHelpText renders the command list for /help and for the
// unknown-command reply. Messages go out as plain text, so command
// descriptions need no markup escaping.
func (r *Registry) GenerateHelpText() string {
	var sb strings.Builder
	sb.WriteString("🧩 Список команд\n")
	for _, cmd := range r.GetAll() {
		sb.WriteString("/" + cmd.Name() + " — " + cmd.Description() + "\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
