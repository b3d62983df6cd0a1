package pkg

import "os"

// Getenv returns the value of the environment variable named by key, or
// defaultValue if the variable is not present. An empty value counts as present.
func Getenv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}
