// Package output renders RESP replies for respkv-cli.
//
//   - formatter.go: Formatter interface and factory
//   - plain.go: redis-cli style text
//   - json.go, yaml.go: machine-readable output
//   - table.go: field/value tables for hashes and arrays
package output
