package logger

import (
	"log/slog"
	"strings"
)

// Values with these prefixes are password hashes and are masked wherever
// they appear.
var sensitiveValuePrefixes = []string{
	"$argon2id$",
	"$argon2i$",
}

// Keys whose names contain any of these are fully redacted.
var sensitiveKeyPatterns = []string{
	"password",
	"passwd",
	"secret",
	"hash",
	"credential",
	"token",
}

// redactedValue is the placeholder for redacted sensitive data.
const redactedValue = "***REDACTED***"

func redactSensitive(a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindString:
		v := a.Value.String()
		if v == "" {
			return a
		}
		if IsSensitiveValue(v) || IsSensitiveKey(a.Key) {
			return slog.String(a.Key, redactedValue)
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

// RedactLine masks the password of a CONNECT line so the line can be logged.
func RedactLine(line string) string {
	const verb = "CONNECT "
	if !strings.HasPrefix(line, verb) {
		return line
	}
	rest := line[len(verb):]
	if i := strings.IndexByte(rest, ' '); i >= 0 {
		return verb + rest[:i] + " " + redactedValue
	}
	return line
}

// IsSensitiveKey checks if a key name suggests sensitive content.
func IsSensitiveKey(key string) bool {
	k := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(k, pattern) {
			return true
		}
	}
	return false
}

// IsSensitiveValue checks if a value looks like a password hash.
func IsSensitiveValue(value string) bool {
	for _, prefix := range sensitiveValuePrefixes {
		if strings.HasPrefix(value, prefix) {
			return true
		}
	}
	return false
}
