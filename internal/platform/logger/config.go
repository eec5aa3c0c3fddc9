package logger

import (
	"strings"

	"go.uber.org/zap/zapcore"
)

// Config selects level, encoding and sink for the service logger.
type Config struct {
	Level      string
	Format     string // json | console
	OutputFile string // stdout, stderr or a file path
}

func (c Config) zapLevel() zapcore.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func (c Config) console() bool {
	f := strings.ToLower(c.Format)
	return f == "console" || f == "text"
}
