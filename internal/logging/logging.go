// Package logging builds the debug file logger shared by all subsystems.
//
// The MCP transport owns stdout, so logs go to a dated file under the
// configured log directory (debug-2024-01-05.log). Every record carries a
// session id so interleaved server runs can be told apart. Subsystems get
// named children via (*zap.Logger).Named.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates the root logger writing to a dated debug file in dir.
// The returned cleanup flushes and closes the file; it is always non-nil.
func New(dir, level string) (*zap.Logger, func(), error) {
	noop := func() {}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, noop, fmt.Errorf("logging: create log dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("debug-%s.log", time.Now().Format("2006-01-02")))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, noop, fmt.Errorf("logging: open log file: %w", err)
	}

	core := zapcore.NewCore(
		newEncoder(),
		zapcore.Lock(f),
		parseLevel(level),
	)

	logger := zap.New(core).With(
		zap.String("session_id", uuid.New().String()),
	)

	cleanup := func() {
		_ = logger.Sync()
		_ = f.Close()
	}
	return logger, cleanup, nil
}

func newEncoder() zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "ts"
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewConsoleEncoder(cfg)
}

func parseLevel(level string) zapcore.Level {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return zapcore.DebugLevel
	}
	return l
}
