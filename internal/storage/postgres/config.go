package postgres

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

type Config struct {
	// URL is a postgres:// connection string.
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func (c *Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("PostgreSQL connection URL is required")
	}
	u, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("invalid PostgreSQL URL: %w", err)
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return fmt.Errorf("PostgreSQL URL must use the postgres:// scheme")
	}
	if strings.TrimPrefix(u.Path, "/") == "" {
		return fmt.Errorf("PostgreSQL database name is required")
	}

	if c.MaxOpenConns <= 0 {
		c.MaxOpenConns = 10
	}
	if c.MaxIdleConns <= 0 {
		c.MaxIdleConns = 2
	}
	if c.ConnMaxLifetime <= 0 {
		c.ConnMaxLifetime = 30 * time.Minute
	}
	return nil
}

func (c *Config) GetType() string {
	return "postgres"
}

// Redacted returns the URL with the password masked, for logging.
func (c *Config) Redacted() string {
	u, err := url.Parse(c.URL)
	if err != nil {
		return ""
	}
	return u.Redacted()
}
