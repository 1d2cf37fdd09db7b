// Package logging wraps zap for the uee binaries.
//
// Logging is silent unless UEE_LOG_LEVEL is set. The TUI owns the terminal,
// so when it runs the log is written to a file instead of stdout:
//
//	UEE_LOG_LEVEL=debug UEE_LOG_FILE=/var/log/uee.log uee
package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *zap.Logger

// LogLevelEnvVar controls verbosity: "debug", "info", "warn" or "error".
// Unset or empty means no output at all.
const LogLevelEnvVar = "UEE_LOG_LEVEL"

// LogFileEnvVar names the file log output goes to.
const LogFileEnvVar = "UEE_LOG_FILE"

// DefaultLogFile is used in full-screen mode when a level is set but no file.
const DefaultLogFile = "uee.log"

// Options selects level and destination. Empty fields fall back to the
// environment.
type Options struct {
	Level string
	// Path is a file path, or "stdout"/"stderr".
	Path string
	// FullScreen forces file output, since stdout belongs to the renderer.
	FullScreen bool
}

// Initialize builds the global logger.
func Initialize(opts Options) error {
	level := opts.Level
	if level == "" {
		level = os.Getenv(LogLevelEnvVar)
	}
	if level == "" {
		logger = zap.NewNop()
		return nil
	}

	path := opts.Path
	if path == "" {
		path = os.Getenv(LogFileEnvVar)
	}
	if path == "" {
		path = "stderr"
		if opts.FullScreen {
			path = DefaultLogFile
		}
	}
	if opts.FullScreen && (path == "stdout" || path == "stderr") {
		path = DefaultLogFile
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(parseLevel(level)),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{path},
		ErrorOutputPaths: []string{path},
	}
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	if path == "stdout" || path == "stderr" {
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	built, err := config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = built
	return nil
}

// InitializeFromEnv initializes from UEE_LOG_LEVEL and UEE_LOG_FILE only.
func InitializeFromEnv(fullScreen bool) error {
	return Initialize(Options{FullScreen: fullScreen})
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		// explicitly set to something unknown
		return zapcore.InfoLevel
	}
}

// GetLogger returns the global logger, a no-op one if never initialized.
func GetLogger() *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return logger
}

// Named returns a child logger for one component.
func Named(component string) *zap.Logger {
	return GetLogger().Named(component)
}

// Info logs an info message
func Info(msg string, fields ...zap.Field) {
	GetLogger().Info(msg, fields...)
}

// Debug logs a debug message
func Debug(msg string, fields ...zap.Field) {
	GetLogger().Debug(msg, fields...)
}

// Warn logs a warning message
func Warn(msg string, fields ...zap.Field) {
	GetLogger().Warn(msg, fields...)
}

// Error logs an error message
func Error(msg string, fields ...zap.Field) {
	GetLogger().Error(msg, fields...)
}

// Sync flushes any buffered log entries
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
