// logging/logger.go

package util

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	logFileName      = "accessledger.log"
	errorLogFileName = "accessledger_error.log"
)

// Log is a no-op logger until InitLogger replaces it, so packages and tests
// can log without any setup.
var Log = zap.NewNop()

// InitLogger installs the production logger as Log and as zap's global.
// LOG_LEVEL overrides the level.
func InitLogger(logDir string) error {
	l, err := NewLogger(logDir, os.Getenv("LOG_LEVEL"))
	if err != nil {
		return err
	}
	Log = l
	zap.ReplaceGlobals(Log)
	return nil
}

// NewLogger builds a JSON logger writing to stdout/stderr and, when logDir is
// set, to the log files inside it. An empty level keeps info.
func NewLogger(logDir, level string) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		config.Level.SetLevel(lvl)
	}

	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}
	if logDir != "" {
		if err := os.MkdirAll(logDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating log directory: %w", err)
		}
		config.OutputPaths = append(config.OutputPaths, filepath.Join(logDir, logFileName))
		config.ErrorOutputPaths = append(config.ErrorOutputPaths, filepath.Join(logDir, errorLogFileName))
	}

	config.EncoderConfig.CallerKey = "caller"
	config.EncoderConfig.StacktraceKey = "stacktrace"
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return config.Build(zap.AddCallerSkip(1))
}

func Info(msg string, fields ...zap.Field) {
	Log.Info(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	Log.Error(msg, fields...)
}

func Debug(msg string, fields ...zap.Field) {
	Log.Debug(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	Log.Warn(msg, fields...)
}

func Fatal(msg string, fields ...zap.Field) {
	Log.Fatal(msg, fields...)
}

// WithContext returns a child logger carrying fields on every entry.
func WithContext(fields ...zap.Field) *zap.Logger {
	return Log.With(fields...)
}

func Sync() error {
	return Log.Sync()
}
