// Package logging builds the process-wide zap logger.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Output formats accepted by New.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// New builds a logger writing to stderr, leaving stdout to command output.
// level is a zap level name ("debug", "info", ...); format is json or console.
func New(level, format string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	var c zap.Config
	switch strings.ToLower(format) {
	case "", FormatJSON:
		c = zap.NewProductionConfig()
		c.EncoderConfig.TimeKey = "ts"
		c.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	case FormatConsole:
		c = zap.Config{
			Encoding:          "console",
			EncoderConfig:     zap.NewDevelopmentEncoderConfig(),
			DisableCaller:     true,
			DisableStacktrace: true,
		}
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}

	c.Level = zap.NewAtomicLevelAt(lvl)
	c.OutputPaths = []string{"stderr"}
	c.ErrorOutputPaths = []string{"stderr"}

	logger, err := c.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}
