package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/aretw0/renfebot/pkg/domain"
)

// ErrUnknownCommand is returned by Execute when no command matches the name.
var ErrUnknownCommand = errors.New("unknown command")

// CommandFunc handles a slash command.
// It receives the message that carried the command.
type CommandFunc func(ctx context.Context, msg domain.Message) error

// Command describes a registered slash command.
type Command struct {
	Name        string
	Description string // Empty descriptions are left out of Help.
	Aliases     []string
	fn          CommandFunc
}

// Registry manages the available commands.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]*Command
	order    []string
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]*Command),
	}
}

// Register adds a command to the registry under its name and aliases.
// If a command with the same name exists, it is overwritten in place.
func (r *Registry) Register(name, description string, fn CommandFunc, aliases ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name = normalize(name)
	cmd := &Command{
		Name:        name,
		Description: description,
		Aliases:     aliases,
		fn:          fn,
	}

	if _, exists := r.commands[name]; !exists {
		r.order = append(r.order, name)
	}
	r.commands[name] = cmd
	for _, alias := range aliases {
		r.commands[normalize(alias)] = cmd
	}
}

// Lookup returns the command registered under name or one of its aliases.
func (r *Registry) Lookup(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.commands[normalize(name)]
	if !ok {
		return Command{}, false
	}
	return *cmd, true
}

// Execute looks up a command by name and runs it.
// Returns ErrUnknownCommand if the command is not found.
func (r *Registry) Execute(ctx context.Context, name string, msg domain.Message) error {
	r.mu.RLock()
	cmd, ok := r.commands[normalize(name)]
	r.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: /%s", ErrUnknownCommand, name)
	}

	return cmd.fn(ctx, msg)
}

// Commands returns the registered commands in registration order.
func (r *Registry) Commands() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Command, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, *r.commands[name])
	}
	return out
}

// Help lists every described command, one "/name - description" per line.
func (r *Registry) Help() string {
	var b strings.Builder
	for _, cmd := range r.Commands() {
		if cmd.Description == "" {
			continue
		}
		fmt.Fprintf(&b, "/%s - %s\n", cmd.Name, cmd.Description)
	}
	return b.String()
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "/"))
}
