package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidOutput is returned for an unknown output format.
var ErrInvalidOutput = errors.New("invalid output format")

// DefaultDir returns the CLI state directory (~/.respkv).
func DefaultDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".respkv"
	}
	return filepath.Join(homeDir, ".respkv")
}

// DefaultConfigPath returns the default CLI config file path.
func DefaultConfigPath() string {
	return filepath.Join(DefaultDir(), "cli.yaml")
}

// DefaultHistoryPath returns the default REPL history file path.
func DefaultHistoryPath() string {
	return filepath.Join(DefaultDir(), "history")
}

// Load reads the configuration at path. A missing file yields defaults.
// Keys absent from the file keep their default values.
func Load(path string) (*CLIConfig, error) {
	if path == "" {
		path = DefaultConfigPath()
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Servers == nil {
		cfg.Servers = make(map[string]string)
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path with owner-only permissions.
func Save(cfg *CLIConfig, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}
	if err := Validate(cfg); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Validate checks the output format, timeout and server addresses.
func Validate(cfg *CLIConfig) error {
	if !ValidOutput(cfg.DefaultOutput) {
		return fmt.Errorf("%w: %q", ErrInvalidOutput, cfg.DefaultOutput)
	}
	if cfg.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	if err := ValidateAddr(cfg.DefaultServer); err != nil {
		if _, alias := cfg.Servers[cfg.DefaultServer]; !alias {
			return fmt.Errorf("default_server: %w", err)
		}
	}
	for name, addr := range cfg.Servers {
		if err := ValidateAddr(addr); err != nil {
			return fmt.Errorf("servers.%s: %w", name, err)
		}
	}
	return nil
}

// ValidateAddr checks that addr is a host:port pair or a unix:PATH socket.
func ValidateAddr(addr string) error {
	if path, ok := strings.CutPrefix(addr, "unix:"); ok {
		if path == "" {
			return fmt.Errorf("invalid address %q: empty socket path", addr)
		}
		return nil
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return fmt.Errorf("invalid address %q: %w", addr, err)
	}
	return nil
}

// ValidOutput reports whether format is a known output format.
func ValidOutput(format string) bool {
	switch format {
	case OutputPlain, OutputJSON, OutputYAML, OutputTable:
		return true
	}
	return false
}
