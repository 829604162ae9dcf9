package logger

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"
)

type Logger struct {
	*slog.Logger
}

func New() *Logger {
	return NewWithWriter(os.Stdout, slog.LevelInfo)
}

func NewWithWriter(w io.Writer, level slog.Level) *Logger {
	log := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	}))

	return &Logger{Logger: log}
}

// ParseLevel maps a config level name onto a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func NewMiddleware(base *Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := base.With("method", r.Method, "path", r.URL.Path)
			ctx := NewContext(r.Context(), log)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			t := time.Now()
			next.ServeHTTP(rec, r.WithContext(ctx))

			log.Debug("request", "status", rec.status, "took", time.Since(t))
		})
	}
}

type loggerContextKey string

const contextKeyValue loggerContextKey = "context-logger"

func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKeyValue, l)
}

func FromContext(ctx context.Context) *Logger {
	if l := ctx.Value(contextKeyValue); l != nil {
		return l.(*Logger)
	}

	return New()
}
