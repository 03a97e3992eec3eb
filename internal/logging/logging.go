// Package logging holds the process-wide zap logger shared by the CLI
// commands and the HTTP server.
package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/piwi3910/QuoteCraft/internal/model"
)

var (
	// Logger is the global logger. It discards everything until Initialize runs.
	Logger = zap.NewNop()

	// logFile is the file behind Logger when logging to a path, nil otherwise.
	logFile *os.File
)

// New builds a logger from the logging section of the app config without
// touching the global instance. When cfg.Output is a path, the opened file is
// returned so the caller can close it; for stdout and stderr it is nil.
func New(cfg model.LoggingConfig) (*zap.Logger, *os.File, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	encoder := zapcore.NewConsoleEncoder(encoderConfig)
	if cfg.Format == "json" {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	var (
		sink zapcore.WriteSyncer
		file *os.File
	)
	switch cfg.Output {
	case "", "stderr":
		sink = zapcore.Lock(os.Stderr)
	case "stdout":
		sink = zapcore.Lock(os.Stdout)
	default:
		file, err = os.OpenFile(cfg.Output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		sink = zapcore.AddSync(file)
	}

	opts := []zap.Option{zap.AddCaller()}
	if cfg.Development {
		opts = append(opts, zap.Development(), zap.AddStacktrace(zapcore.ErrorLevel))
	}
	return zap.New(zapcore.NewCore(encoder, sink, level), opts...), file, nil
}

// Initialize replaces the global logger, closing the log file of the
// previous one if it wrote to a path.
func Initialize(cfg model.LoggingConfig) error {
	logger, file, err := New(cfg)
	if err != nil {
		return err
	}
	Close()
	Logger = logger
	logFile = file
	return nil
}

// Close flushes the global logger, closes its log file and resets it to a
// no-op logger.
func Close() {
	_ = Logger.Sync()
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
	Logger = zap.NewNop()
}

// Debug logs at debug level
func Debug(msg string, fields ...zap.Field) {
	Logger.Debug(msg, fields...)
}

// Info logs at info level
func Info(msg string, fields ...zap.Field) {
	Logger.Info(msg, fields...)
}

// Warn logs at warn level
func Warn(msg string, fields ...zap.Field) {
	Logger.Warn(msg, fields...)
}
