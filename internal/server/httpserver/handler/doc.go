// Package handler implements the JSON endpoints of the admin HTTP server.
package handler
