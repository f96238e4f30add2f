// Package config provides configuration for respkv-cli.
//
//   - spec.go: CLIConfig struct (~/.respkv/cli.yaml)
//   - loader.go: loading, saving and validation
//
// The file holds the default server address, the default output format,
// the request timeout and named server aliases.
package config
