package handler

import (
	"time"

	"github.com/yndnr/respkv/internal/infra/buildinfo"
	"github.com/yndnr/respkv/internal/store"
)

// Response is the envelope for every JSON response.
type Response struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
	Timestamp int64  `json:"timestamp"`
	Data      any    `json:"data,omitempty"`
}

// NewResponse creates a success response.
func NewResponse(requestID string, data any) *Response {
	return &Response{
		Code:      "OK",
		Message:   "Success",
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Data:      data,
	}
}

// NewErrorResponse creates an error response.
func NewErrorResponse(requestID, code, message string) *Response {
	return &Response{
		Code:      code,
		Message:   message,
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
	}
}

// StatusResponse is the body of /health and /ready.
type StatusResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// StatsResponse is the body of /stats.
type StatsResponse struct {
	Keys          store.Stats    `json:"keys"`
	Connections   int            `json:"connections"`
	UptimeSeconds int64          `json:"uptime_seconds"`
	Build         buildinfo.Info `json:"build"`
}
