package logger

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"github.com/mdobak/go-xerrors"
)

var (
	once     sync.Once
	instance *slog.Logger
)

// Get возвращает общий структурный логгер процесса.
func Get() *slog.Logger {
	once.Do(func() {
		handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
		instance = slog.New(handler)
	})
	return instance
}

// Error пишет ошибку со стеком вызовов.
func Error(ctx context.Context, msg string, err error, args ...any) {
	wrapped := xerrors.New(err)
	attrs := append([]any{slog.Any("error", wrapped)}, args...)
	Get().ErrorContext(ctx, msg, attrs...)
}
