package logger

import (
	"log/slog"
	"strconv"
	"strings"
)

// Attribute keys whose string values are never logged verbatim. Stored
// payloads fall under "value".
var sensitiveKeyPatterns = []string{
	"password",
	"secret",
	"credential",
	"auth",
	"value",
	"payload",
}

const redactedValue = "***REDACTED***"

// MaxAttrLen is the longest string attribute logged without truncation.
const MaxAttrLen = 256

func redactSensitive(a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindString:
		s := a.Value.String()
		if s != "" && IsSensitiveKey(a.Key) {
			return slog.String(a.Key, redactedValue)
		}
		if len(s) > MaxAttrLen {
			return slog.String(a.Key, Truncate(s, MaxAttrLen))
		}
	case slog.KindGroup:
		attrs := a.Value.Group()
		out := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			out[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	}
	return a
}

// Truncate shortens s to at most n bytes and notes the original length.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "...(" + strconv.Itoa(len(s)) + " bytes)"
}

// IsSensitiveKey reports whether an attribute key names sensitive content.
func IsSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(keyLower, pattern) {
			return true
		}
	}
	return false
}
