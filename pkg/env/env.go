package env

import (
	"os"
	"strings"
)

// Get returns the value of the given environment variable or a fallback.
func Get(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

// IsSet reports whether the variable is present, even when empty.
func IsSet(key string) bool {
	_, ok := os.LookupEnv(key)
	return ok
}
