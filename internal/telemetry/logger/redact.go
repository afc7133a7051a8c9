package logger

import (
	"log/slog"
	"strings"
)

// Key patterns whose values are user data and must not be logged verbatim.
var sensitiveKeyPatterns = []string{
	"value",
	"payload",
	"args",
	"password",
	"secret",
}

// redactedValue is the placeholder for redacted data.
const redactedValue = "***REDACTED***"

// redactSensitive redacts an attribute whose key names user data.
func redactSensitive(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		newAttrs := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			newAttrs[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(newAttrs...)}
	}

	if IsSensitiveKey(a.Key) && !isEmptyValue(a.Value) {
		return slog.String(a.Key, redactedValue)
	}
	return a
}

// redactArgs redacts alternating key/value pairs in place of a copy.
func redactArgs(args []any) []any {
	if len(args) < 2 {
		return args
	}
	out := make([]any, len(args))
	copy(out, args)
	for i := 0; i+1 < len(out); i += 2 {
		key, ok := out[i].(string)
		if !ok {
			continue
		}
		if IsSensitiveKey(key) && !isEmptyAny(out[i+1]) {
			out[i+1] = redactedValue
		}
	}
	return out
}

func isEmptyValue(v slog.Value) bool {
	if v.Kind() == slog.KindString {
		return v.String() == ""
	}
	if v.Kind() == slog.KindAny {
		return isEmptyAny(v.Any())
	}
	return false
}

func isEmptyAny(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case []byte:
		return len(x) == 0
	default:
		return false
	}
}

// IsSensitiveKey checks if a key name suggests user data.
func IsSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(keyLower, pattern) {
			return true
		}
	}
	return false
}
