// README: Structured logging (zap) with request-scoped fields carried in context.
package log

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type contextKey string

const (
	RequestIDKey contextKey = "request_id"
	UIDKey       contextKey = "uid"
)

var (
	mu     sync.RWMutex
	global = zap.NewNop()
)

// New builds a production JSON logger. Unknown levels fall back to info.
func New(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stdout"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.MessageKey = "message"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
	cfg.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	return cfg.Build()
}

// Init replaces the process-wide logger returned by L.
func Init(level string) (*zap.Logger, error) {
	logger, err := New(level)
	if err != nil {
		return nil, err
	}
	SetGlobal(logger)
	return logger, nil
}

func SetGlobal(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	mu.Lock()
	global = logger
	mu.Unlock()
}

func NewNop() *zap.Logger {
	return zap.NewNop()
}

// L returns the global logger annotated with request_id and uid from ctx.
func L(ctx context.Context) *zap.Logger {
	mu.RLock()
	logger := global
	mu.RUnlock()

	if ctx == nil {
		return logger
	}
	if id, ok := ctx.Value(RequestIDKey).(string); ok && id != "" {
		logger = logger.With(zap.String("request_id", id))
	}
	if uid, ok := ctx.Value(UIDKey).(string); ok && uid != "" {
		logger = logger.With(zap.String("uid", uid))
	}
	return logger
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

func WithUID(ctx context.Context, uid string) context.Context {
	return context.WithValue(ctx, UIDKey, uid)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}
