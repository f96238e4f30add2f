package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/respkv/internal/cli/config"
	"github.com/yndnr/respkv/internal/cli/connection"
	"github.com/yndnr/respkv/internal/cli/output"
	"github.com/yndnr/respkv/internal/infra/buildinfo"
)

// ErrReply is returned when the server answered with an error reply.
// The reply itself has already been printed.
var ErrReply = errors.New("server returned an error")

const runtimeKey = "runtime"

// Runtime is the state shared by every command of one invocation.
type Runtime struct {
	Config     *config.CLIConfig
	ConfigPath string
	Server     string
	Timeout    time.Duration
	Format     output.Format
	Formatter  output.Formatter
	Conn       *connection.Manager
}

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "respkv-cli",
		Usage:   "command-line client for respkv",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			PingCommand(),
			SetCommand(),
			GetCommand(),
			HSetCommand(),
			HGetCommand(),
			HGetAllCommand(),
			ExecCommand(),
			REPLCommand(),
			ConfigCommand(),
		},
		Before: setup,
		After: func(c *cli.Context) error {
			if rt, ok := c.App.Metadata[runtimeKey].(*Runtime); ok {
				rt.Conn.Disconnect()
			}
			return nil
		},
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "server address or alias from the config file",
			EnvVars: []string{"RESPKV_SERVER"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format: plain, json, yaml, table",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "per-request timeout",
		},
		&cli.StringFlag{
			Name:    "config",
			Usage:   "CLI config file",
			EnvVars: []string{"RESPKV_CLI_CONFIG"},
			Value:   config.DefaultConfigPath(),
		},
	}
}

// setup loads the CLI config and applies the global flags over it.
func setup(c *cli.Context) error {
	path := c.String("config")
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	format := cfg.DefaultOutput
	if c.IsSet("output") {
		format = c.String("output")
	}
	f, err := output.NewFormatter(output.Format(format))
	if err != nil {
		return err
	}

	timeout := cfg.Timeout
	if c.IsSet("timeout") {
		timeout = c.Duration("timeout")
	}
	if timeout <= 0 {
		timeout = connection.DefaultTimeout
	}

	if c.App.Metadata == nil {
		c.App.Metadata = make(map[string]any)
	}
	c.App.Metadata[runtimeKey] = &Runtime{
		Config:     cfg,
		ConfigPath: path,
		Server:     cfg.ResolveServer(c.String("server")),
		Timeout:    timeout,
		Format:     output.Format(format),
		Formatter:  f,
		Conn:       connection.NewManager(timeout),
	}
	return nil
}

// GetRuntime retrieves the runtime prepared by the application's Before hook.
func GetRuntime(c *cli.Context) (*Runtime, error) {
	if rt, ok := c.App.Metadata[runtimeKey].(*Runtime); ok {
		return rt, nil
	}
	return nil, errors.New("cli runtime not initialized")
}

// ensureConnected dials the selected server unless already connected.
func (rt *Runtime) ensureConnected(ctx context.Context) error {
	if rt.Conn.IsConnected() {
		return nil
	}
	return rt.Conn.Connect(ctx, rt.Server)
}

// PrintError prints an error message to w.
func PrintError(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "error: "+format+"\n", args...)
}
