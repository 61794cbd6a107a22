package common

import "os"

const trueStr = "true"

// EnvOr returns the environment value for key, or fallback when unset or empty
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
