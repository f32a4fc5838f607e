package logging

import (
	"fmt"
	"os"
)

// NewDefaultLogger returns an info-level stdout logger.
func NewDefaultLogger() Logger {
	l, err := NewZapLogger(LogConfig{Level: ParseLevel(os.Getenv("LOG_LEVEL"))})
	if err != nil {
		panic(fmt.Sprintf("failed to initialize default logger: %v", err))
	}
	return l
}

// InitGlobalLogger configures the global logger from LOG_LEVEL and LOG_FILE.
// An empty LOG_FILE logs to stdout.
func InitGlobalLogger() {
	level := ParseLevel(os.Getenv("LOG_LEVEL"))
	cfg := LogConfig{Level: level}

	file := os.Getenv("LOG_FILE")
	if file != "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			panic(fmt.Sprintf("failed to open log file %s: %v", file, err))
		}
		cfg.Output = f
	}

	l, err := NewZapLogger(cfg)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	SetGlobalLogger(l)

	l.Info("Logger initialized",
		Field{"level", level.String()},
		Field{"log_file", file},
	)
}

// MustSync flushes the global logger before exit.
func MustSync() {
	if z, ok := GetGlobalLogger().(*ZapAdapter); ok {
		_ = z.Sync()
	}
}

// Err is shorthand for an "error" field.
func Err(err error) Field {
	return Field{"error", err}
}

// Redact hides a credential for logging. Short values are fully masked;
// longer ones keep a four character prefix and the length.
func Redact(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 8 {
		return "[REDACTED]"
	}
	return fmt.Sprintf("%s...(%d)", token[:4], len(token))
}
