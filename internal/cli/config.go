package cli

import (
	"os"
)

// Config holds CLI configuration
type Config struct {
	ServerURL string
	Username  string
	Secret    string
	Output    string
	Verbose   bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL: getEnvOrDefault("FTD_SERVER", "http://localhost:8000"),
		Username:  os.Getenv("FTD_USER"),
		Secret:    os.Getenv("FTD_PASS"),
		Output:    "text",
		Verbose:   false,
	}
}

// HasCredentials reports whether both halves of the Basic credential are set
func (c *Config) HasCredentials() bool {
	return c.Username != "" && c.Secret != ""
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
