package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/respkv/internal/infra/buildinfo"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "respkv-server",
		Usage:   "in-memory key-value server speaking RESP",
		Version: buildinfo.String(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to configuration file",
				EnvVars: []string{"RESPKV_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "redis-addr",
				Usage: "RESP listen address (overrides server.redis.addr)",
			},
			&cli.StringFlag{
				Name:  "http-addr",
				Usage: "admin HTTP listen address (overrides server.http.addr)",
			},
			&cli.StringFlag{
				Name:  "socket",
				Usage: "also serve RESP on this Unix socket (enables server.local)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error (overrides log.level)",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "version",
				Usage: "Print version information",
				Action: func(c *cli.Context) error {
					fmt.Fprintf(c.App.Writer, "respkv-server %s\n", buildinfo.String())
					return nil
				},
			},
		},
		Action: func(c *cli.Context) error {
			overrides := flagOverrides(c)
			cfg, err := loadConfig(c.String("config"), overrides)
			if err != nil {
				return err
			}
			return run(c.Context, cfg, c.String("config"), overrides)
		},
	}
}

// flagOverrides maps explicitly set flags to configuration keys.
func flagOverrides(c *cli.Context) map[string]any {
	overrides := make(map[string]any)
	for flag, key := range map[string]string{
		"redis-addr": "server.redis.addr",
		"http-addr":  "server.http.addr",
		"log-level":  "log.level",
	} {
		if c.IsSet(flag) {
			overrides[key] = c.String(flag)
		}
	}
	if c.IsSet("socket") {
		overrides["server.local.enabled"] = true
		overrides["server.local.socket_path"] = c.String("socket")
	}
	return overrides
}
