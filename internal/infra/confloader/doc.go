// Package confloader loads layered configuration with koanf.
//
// Sources are merged in priority order (highest first):
//
//  1. Overrides from command-line flags (LoadMap)
//  2. Environment variables with the RESPKV_ prefix
//  3. A YAML configuration file
//  4. Defaults already present in the target struct
//
// Environment variable names are matched against the koanf tags of the
// target struct, so RESPKV_SERVER_REDIS_RATE_LIMIT resolves to
// server.redis.rate_limit rather than server.redis.rate.limit.
//
// Watcher reports changes to a configuration file so callers can reload
// the settings that are safe to change at runtime.
package confloader
