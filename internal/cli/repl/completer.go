package repl

import (
	"sort"
	"strings"
)

// DefaultCommands are the server commands offered for completion.
var DefaultCommands = []string{"DEL", "ECHO", "EXISTS", "GET", "KEYS", "PING", "SET"}

// builtins are handled by the REPL itself.
var builtins = []string{"exit", "help", "quit"}

// Completer provides command name completion for the REPL.
type Completer struct {
	commands []string
}

// NewCompleter creates a Completer over the given server command names.
// No names selects DefaultCommands.
func NewCompleter(commands ...string) *Completer {
	if len(commands) == 0 {
		commands = DefaultCommands
	}
	all := make([]string, 0, len(commands)+len(builtins))
	for _, c := range commands {
		all = append(all, strings.ToUpper(c))
	}
	sort.Strings(all)
	all = append(all, builtins...)
	return &Completer{commands: all}
}

// Complete returns the names starting with prefix, compared without
// regard to case.
func (c *Completer) Complete(prefix string) []string {
	var suggestions []string
	for _, cmd := range c.commands {
		if len(cmd) >= len(prefix) && strings.EqualFold(cmd[:len(prefix)], prefix) {
			suggestions = append(suggestions, cmd)
		}
	}
	return suggestions
}

// Commands returns every known name.
func (c *Completer) Commands() []string {
	return append([]string(nil), c.commands...)
}
