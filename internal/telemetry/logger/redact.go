package logger

import (
	"fmt"
	"strings"
)

// Sensitive key patterns that should be redacted.
var sensitiveKeyPatterns = []string{
	"password",
	"secret",
	"token",
	"credential",
	"authorization",
	"bearer",
	"cookie",
}

// redactedValue is the placeholder for redacted sensitive data.
const redactedValue = "***REDACTED***"

// redactArgs returns a copy of the key/value pairs with sensitive values
// replaced. A trailing key without value is kept as is.
func redactArgs(args []any) []any {
	if len(args) == 0 {
		return nil
	}
	out := make([]any, len(args))
	copy(out, args)
	for i := 0; i+1 < len(out); i += 2 {
		key := fmt.Sprint(out[i])
		out[i+1] = redactValue(key, out[i+1])
	}
	return out
}

func redactValue(key string, v any) any {
	s, ok := v.(string)
	if !ok {
		if st, isStringer := v.(fmt.Stringer); isStringer && IsSensitiveKey(key) {
			s = st.String()
		} else {
			return v
		}
	}
	if looksLikeJWT(s) {
		return maskValue(s)
	}
	if s != "" && IsSensitiveKey(key) {
		return redactedValue
	}
	return s
}

// maskValue keeps the first and last three characters of value.
func maskValue(value string) string {
	if len(value) <= 12 {
		return "***"
	}
	return value[:3] + "..." + value[len(value)-3:]
}

// looksLikeJWT reports whether s has the shape of a compact JWS.
func looksLikeJWT(s string) bool {
	if !strings.HasPrefix(s, "eyJ") {
		return false
	}
	return strings.Count(s, ".") == 2 && !strings.ContainsAny(s, " \t\n")
}

// RedactString masks value if it looks like a bearer token.
func RedactString(value string) string {
	v := strings.TrimPrefix(value, "Bearer ")
	if looksLikeJWT(v) {
		if v != value {
			return "Bearer " + maskValue(v)
		}
		return maskValue(v)
	}
	return value
}

// IsSensitiveKey checks if a key name suggests sensitive content.
func IsSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(keyLower, pattern) {
			return true
		}
	}
	return false
}

// IsSensitiveValue checks if a value appears to be a token.
func IsSensitiveValue(value string) bool {
	return looksLikeJWT(strings.TrimPrefix(value, "Bearer "))
}
