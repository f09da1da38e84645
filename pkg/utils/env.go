package utils

import "os"

// Getenv returns the environment variable named by key, or fallback when the
// variable is unset or empty. All hydrohub configuration is read through this.
func Getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
