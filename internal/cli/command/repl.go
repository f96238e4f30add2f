package command

import (
	"context"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/respkv/internal/cli/config"
	"github.com/yndnr/respkv/internal/cli/repl"
)

// REPLCommand returns the interactive mode command.
func REPLCommand() *cli.Command {
	return &cli.Command{
		Name:  "repl",
		Usage: "Start an interactive session",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "no-history",
				Usage: "do not read or write the history file",
			},
		},
		Action: runREPL,
	}
}

func runREPL(c *cli.Context) error {
	rt, err := GetRuntime(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Context, rt.Timeout)
	if err := rt.ensureConnected(ctx); err != nil {
		PrintError(c.App.ErrWriter, "%v", err)
	}
	cancel()

	historyFile := rt.Config.HistoryFile
	if historyFile == "" {
		historyFile = config.DefaultHistoryPath()
	}
	if c.Bool("no-history") {
		historyFile = ""
	}

	r := repl.New(rt.Conn, rt.Formatter,
		repl.WithIO(c.App.Reader, c.App.Writer),
		repl.WithHistory(repl.NewHistory(historyFile, repl.DefaultHistorySize)),
		repl.WithTimeout(rt.Timeout),
	)
	return r.Run(c.Context)
}
