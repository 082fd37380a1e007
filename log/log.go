// Package log provides the structured, leveled logging used across the
// Terminos core, in the key-value call shape the rest of the codebase
// expects (Trace/Debug/Warn/Error(msg, kv...)).
package log

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.RWMutex
	logger = newDefault()
)

func newDefault() *zap.Logger {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "ts"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.AddSync(os.Stderr), zap.InfoLevel)
	return zap.New(core)
}

// SetLogger replaces the process-wide logger. Intended for daemon/wallet
// collaborators that want JSON output or a different sink; never called
// from inside the core itself.
func SetLogger(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l
}

func get() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func fields(kv []any) []zap.Field {
	fs := make([]zap.Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		fs = append(fs, zap.Any(key, kv[i+1]))
	}
	return fs
}

// Trace logs at debug level (zap has no dedicated trace level); used for
// the high-volume per-transaction notes the teacher's staking package
// emits via log.Trace.
func Trace(msg string, kv ...any) { get().Debug(msg, fields(kv)...) }

// Debug logs at debug level.
func Debug(msg string, kv ...any) { get().Debug(msg, fields(kv)...) }

// Warn logs at warn level.
func Warn(msg string, kv ...any) { get().Warn(msg, fields(kv)...) }

// Error logs at error level.
func Error(msg string, kv ...any) { get().Error(msg, fields(kv)...) }

// Info logs at info level.
func Info(msg string, kv ...any) { get().Info(msg, fields(kv)...) }
