package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/respkv/pkg/resp"
)

// PingCommand returns the ping command.
func PingCommand() *cli.Command {
	return &cli.Command{
		Name:      "ping",
		Usage:     "Check that the server is alive",
		ArgsUsage: "[MESSAGE]",
		Action: func(c *cli.Context) error {
			if c.NArg() > 1 {
				return usageError(c)
			}
			return send(c, append([]string{"PING"}, c.Args().Slice()...)...)
		},
	}
}

// SetCommand returns the set command.
func SetCommand() *cli.Command {
	return fixedCommand("set", "Set a string value", "KEY VALUE", "SET", 2)
}

// GetCommand returns the get command.
func GetCommand() *cli.Command {
	return fixedCommand("get", "Get a string value", "KEY", "GET", 1)
}

// HSetCommand returns the hset command.
func HSetCommand() *cli.Command {
	return fixedCommand("hset", "Set a hash field", "KEY FIELD VALUE", "HSET", 3)
}

// HGetCommand returns the hget command.
func HGetCommand() *cli.Command {
	return fixedCommand("hget", "Get a hash field", "KEY FIELD", "HGET", 2)
}

// HGetAllCommand returns the hgetall command.
func HGetAllCommand() *cli.Command {
	return fixedCommand("hgetall", "Get every field and value of a hash", "KEY", "HGETALL", 1)
}

// ExecCommand returns the exec command, which sends its arguments
// unchanged. The server does the arity checking.
func ExecCommand() *cli.Command {
	return &cli.Command{
		Name:      "exec",
		Usage:     "Send a raw command",
		ArgsUsage: "COMMAND [ARG...]",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return usageError(c)
			}
			return send(c, c.Args().Slice()...)
		},
	}
}

func fixedCommand(name, usage, argsUsage, verb string, nargs int) *cli.Command {
	return &cli.Command{
		Name:      name,
		Usage:     usage,
		ArgsUsage: argsUsage,
		Action: func(c *cli.Context) error {
			if c.NArg() != nargs {
				return usageError(c)
			}
			return send(c, append([]string{verb}, c.Args().Slice()...)...)
		},
	}
}

func usageError(c *cli.Context) error {
	return fmt.Errorf("usage: %s %s %s", c.App.Name, c.Command.Name, c.Command.ArgsUsage)
}

// send runs one request against the selected server and prints the reply.
func send(c *cli.Context, args ...string) error {
	rt, err := GetRuntime(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Context, rt.Timeout)
	defer cancel()

	if err := rt.ensureConnected(ctx); err != nil {
		return err
	}

	reply, err := rt.Conn.Do(ctx, args...)
	if err != nil {
		return err
	}

	if err := rt.Formatter.Format(c.App.Writer, reply); err != nil {
		return fmt.Errorf("format reply: %w", err)
	}
	if _, ok := reply.(resp.Error); ok {
		return ErrReply
	}
	return nil
}
