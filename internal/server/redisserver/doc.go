// Package redisserver serves the RESP key-value protocol over TCP.
//
// The Dispatcher maps one decoded request to one reply against a
// store.Store. The Server accepts connections, runs one goroutine per
// client and applies timeouts, a per-connection rate limit and a cap on
// concurrent clients.
//
// Supported commands (case-insensitive):
//
//	PING [message]
//	SET key value
//	GET key
//	HSET key field value
//	HGET key field
//	HGETALL key
package redisserver
