package resp

import (
	"errors"
	"fmt"
)

// ErrProtocol is wrapped by every decode error.
var ErrProtocol = errors.New("resp: protocol error")

// Decode error kinds.
var (
	ErrUnknownType       = fmt.Errorf("%w: unknown type", ErrProtocol)
	ErrMalformedLength   = fmt.Errorf("%w: malformed length", ErrProtocol)
	ErrMalformedInteger  = fmt.Errorf("%w: malformed integer", ErrProtocol)
	ErrStreamClosed      = fmt.Errorf("%w: stream closed", ErrProtocol)
	ErrTruncated         = fmt.Errorf("%w: truncated bulk string", ErrProtocol)
	ErrInvalidTerminator = fmt.Errorf("%w: invalid terminator", ErrProtocol)
	ErrLimitExceeded     = fmt.Errorf("%w: limit exceeded", ErrProtocol)
)

// ErrorKind returns a short label for a decode error, suitable for metrics.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrLimitExceeded):
		return "limit_exceeded"
	case errors.Is(err, ErrUnknownType):
		return "unknown_type"
	case errors.Is(err, ErrMalformedLength):
		return "malformed_length"
	case errors.Is(err, ErrMalformedInteger):
		return "malformed_integer"
	case errors.Is(err, ErrStreamClosed):
		return "stream_closed"
	case errors.Is(err, ErrTruncated):
		return "truncated"
	case errors.Is(err, ErrInvalidTerminator):
		return "invalid_terminator"
	case errors.Is(err, ErrProtocol):
		return "protocol"
	default:
		return "io"
	}
}
