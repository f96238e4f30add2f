package command

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/yndnr/respkv/internal/cli/config"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Local CLI configuration",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the effective CLI configuration",
				Action: configShow,
			},
			{
				Name:      "set-server",
				Usage:     "Set the default server, or define an alias with --name",
				ArgsUsage: "ADDR",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "name",
						Usage: "store ADDR under this alias instead of as the default",
					},
				},
				Action: configSetServer,
			},
			{
				Name:      "set-output",
				Usage:     "Set the default output format",
				ArgsUsage: "FORMAT",
				Action:    configSetOutput,
			},
		},
	}
}

func configShow(c *cli.Context) error {
	rt, err := GetRuntime(c)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "# %s\n", rt.ConfigPath)
	enc := yaml.NewEncoder(c.App.Writer)
	enc.SetIndent(2)
	if err := enc.Encode(rt.Config); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return enc.Close()
}

func configSetServer(c *cli.Context) error {
	rt, err := GetRuntime(c)
	if err != nil {
		return err
	}
	if c.NArg() != 1 {
		return usageError(c)
	}

	addr := c.Args().First()
	if err := config.ValidateAddr(addr); err != nil {
		return err
	}

	if name := c.String("name"); name != "" {
		rt.Config.Servers[name] = addr
		fmt.Fprintf(c.App.Writer, "server %q -> %s\n", name, addr)
	} else {
		rt.Config.DefaultServer = addr
		fmt.Fprintf(c.App.Writer, "default server: %s\n", addr)
	}
	return config.Save(rt.Config, rt.ConfigPath)
}

func configSetOutput(c *cli.Context) error {
	rt, err := GetRuntime(c)
	if err != nil {
		return err
	}
	if c.NArg() != 1 {
		return usageError(c)
	}

	format := c.Args().First()
	if !config.ValidOutput(format) {
		return fmt.Errorf("%w: %q", config.ErrInvalidOutput, format)
	}

	rt.Config.DefaultOutput = format
	fmt.Fprintf(c.App.Writer, "default output: %s\n", format)
	return config.Save(rt.Config, rt.ConfigPath)
}
