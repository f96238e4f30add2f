// Package command defines the respkv-cli command tree.
//
// Commands are built with urfave/cli/v2:
//
//   - root.go: application, global flags, shared runtime
//   - data.go: one command per server operation plus exec
//   - repl.go: interactive mode
//   - config.go: local CLI configuration
//
// Every data command connects lazily, sends one request and prints the
// reply with the formatter selected by --output.
package command
