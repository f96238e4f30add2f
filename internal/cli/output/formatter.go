package output

import (
	"fmt"
	"io"

	"github.com/yndnr/respkv/pkg/resp"
)

// Format represents the output format.
type Format string

const (
	FormatPlain Format = "plain"
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// Formatter writes a reply in one output format.
type Formatter interface {
	Format(w io.Writer, v resp.Value) error
}

// NewFormatter creates a formatter for the given format.
func NewFormatter(format Format) (Formatter, error) {
	switch format {
	case FormatPlain, "":
		return &PlainFormatter{}, nil
	case FormatJSON:
		return &JSONFormatter{}, nil
	case FormatYAML:
		return &YAMLFormatter{}, nil
	case FormatTable:
		return &TableFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// ToNative converts a reply into plain Go values for encoders.
// Error replies become {"error": message}.
func ToNative(v resp.Value) any {
	switch x := v.(type) {
	case resp.SimpleString:
		return string(x)
	case resp.BulkString:
		return string(x)
	case resp.Integer:
		return int64(x)
	case resp.Error:
		return map[string]string{"error": string(x)}
	case resp.Array:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = ToNative(item)
		}
		return out
	default:
		return nil
	}
}

// pairs returns the field/value pairs of a flat array of bulk strings with
// even length, as returned by HGETALL.
func pairs(v resp.Value) ([][2]string, bool) {
	arr, ok := v.(resp.Array)
	if !ok || len(arr)%2 != 0 {
		return nil, false
	}
	out := make([][2]string, 0, len(arr)/2)
	for i := 0; i < len(arr); i += 2 {
		f, ok1 := arr[i].(resp.BulkString)
		val, ok2 := arr[i+1].(resp.BulkString)
		if !ok1 || !ok2 {
			return nil, false
		}
		out = append(out, [2]string{string(f), string(val)})
	}
	return out, true
}
