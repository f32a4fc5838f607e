package sqlite

import (
	"fmt"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

type Config struct {
	DatabasePath string
}

func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("database path is required")
	}
	return nil
}

func (c *Config) GetType() string {
	return "sqlite"
}

func DefaultConfig() *Config {
	return &Config{
		DatabasePath: "./twilio_gateway.db",
	}
}
