package commands

import (
	"fmt"
	"strings"
)

// Command is a built-in command. Permission is the capability the command
// declares; the Run function is responsible for checking it.
type Command struct {
	Name        string
	Aliases     []string
	Category    string
	Description string
	Usage       string
	Permission  int64
	OwnerOnly   bool
	Run         func(c *Context) error
}

// Registry resolves names and aliases to built-in commands.
type Registry struct {
	commands []*Command
	index    map[string]*Command
}

// NewRegistry registers cmds in order and panics on a name collision.
func NewRegistry(cmds ...*Command) *Registry {
	r := &Registry{index: make(map[string]*Command)}
	for _, cmd := range cmds {
		if err := r.Register(cmd); err != nil {
			panic(err)
		}
	}
	return r
}

func (r *Registry) Register(cmd *Command) error {
	if cmd.Name == "" || cmd.Run == nil {
		return fmt.Errorf("command %q is incomplete", cmd.Name)
	}
	keys := append([]string{cmd.Name}, cmd.Aliases...)
	for _, key := range keys {
		key = strings.ToLower(key)
		if existing, ok := r.index[key]; ok {
			return fmt.Errorf("command name %q of %s already used by %s", key, cmd.Name, existing.Name)
		}
	}
	for _, key := range keys {
		r.index[strings.ToLower(key)] = cmd
	}
	r.commands = append(r.commands, cmd)
	return nil
}

// Lookup matches token case-insensitively against names and aliases.
func (r *Registry) Lookup(token string) *Command {
	return r.index[strings.ToLower(token)]
}

func (r *Registry) Has(token string) bool {
	return r.Lookup(token) != nil
}

// Commands returns the commands in registration order.
func (r *Registry) Commands() []*Command {
	return r.commands
}

// Categories groups commands by category, keeping registration order.
func (r *Registry) Categories() ([]string, map[string][]*Command) {
	var order []string
	groups := make(map[string][]*Command)
	for _, cmd := range r.commands {
		if _, ok := groups[cmd.Category]; !ok {
			order = append(order, cmd.Category)
		}
		groups[cmd.Category] = append(groups[cmd.Category], cmd)
	}
	return order, groups
}
