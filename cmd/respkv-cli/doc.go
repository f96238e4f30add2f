// Package main provides the entry point for respkv-cli.
//
// respkv-cli sends single commands to a respkv server or, with the repl
// subcommand, runs an interactive session:
//
//	respkv-cli set greeting hello
//	respkv-cli -o json hgetall user:1
//	respkv-cli -s staging repl
package main
