package config

import "time"

// Output formats understood by the CLI.
const (
	OutputPlain = "plain"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
	OutputTable = "table"
)

// CLIConfig is the configuration for respkv-cli.
type CLIConfig struct {
	DefaultServer string        `yaml:"default_server"`
	DefaultOutput string        `yaml:"default_output"`
	Timeout       time.Duration `yaml:"timeout"`

	// Servers maps alias names to addresses; --server accepts either.
	Servers map[string]string `yaml:"servers,omitempty"`

	// HistoryFile is where the REPL keeps its history. Empty disables it.
	HistoryFile string `yaml:"history_file,omitempty"`
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		DefaultServer: "127.0.0.1:6379",
		DefaultOutput: OutputPlain,
		Timeout:       5 * time.Second,
		Servers:       make(map[string]string),
	}
}

// ResolveServer returns the address for an alias, or name itself when it
// is not an alias. An empty name yields DefaultServer.
func (c *CLIConfig) ResolveServer(name string) string {
	if name == "" {
		name = c.DefaultServer
	}
	if addr, ok := c.Servers[name]; ok {
		return addr
	}
	return name
}
