package repl

import (
	"slices"
	"sort"
	"strings"
)

// Commands lists the server commands known to the completer.
var Commands = []string{"PING", "SET", "GET", "HSET", "HGET", "HGETALL"}

// Builtins are handled by the REPL itself.
var Builtins = []string{"help", "history", "connect", "exit", "quit"}

// Completer provides command completion for the REPL.
type Completer struct {
	commands []string
}

// NewCompleter creates a new Completer.
func NewCompleter() *Completer {
	all := append(append([]string{}, Commands...), Builtins...)
	sort.Strings(all)
	return &Completer{commands: all}
}

// Complete returns the commands starting with prefix, ignoring case.
// Server commands are returned in the case the user started typing.
func (c *Completer) Complete(prefix string) []string {
	lower := strings.ToLower(prefix)
	var suggestions []string
	for _, cmd := range c.commands {
		if !strings.HasPrefix(strings.ToLower(cmd), lower) {
			continue
		}
		if prefix != "" && prefix == lower && slices.Contains(Commands, cmd) {
			cmd = strings.ToLower(cmd)
		}
		suggestions = append(suggestions, cmd)
	}
	return suggestions
}
