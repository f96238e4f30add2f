// Package repl implements the interactive mode of respkv-cli.
//
//   - repl.go: read-eval-print loop and builtins
//   - tokenize.go: shell-like splitting with quotes and escapes
//   - completer.go: command name completion
//   - history.go: command history persistence
package repl
