package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

type contextKey string

const (
	JSONLoggingFormat = "json"

	LogLevelDebug   = "debug"
	LogLevelInfo    = "info"
	LogLevelWarn    = "warn"
	LogLevelWarning = "warning"
	LogLevelError   = "error"

	ContextKeyRequestID     contextKey = "requestID"
	ContextKeyCorrelationID contextKey = "correlationID"
	ContextKeyActor         contextKey = "actor"
)

var levels = map[string]zerolog.Level{
	LogLevelDebug:   zerolog.DebugLevel,
	LogLevelInfo:    zerolog.InfoLevel,
	LogLevelWarn:    zerolog.WarnLevel,
	LogLevelWarning: zerolog.WarnLevel,
	LogLevelError:   zerolog.ErrorLevel,
}

// Logger is the service-wide structured logger.
type Logger struct {
	zerolog.Logger
}

func New(level, format string) Logger {
	return NewWithWriter(level, format, os.Stdout)
}

// NewWithWriter builds a Logger writing to w. Unknown levels fall back to info.
func NewWithWriter(level, format string, w io.Writer) Logger {
	logLevel, ok := levels[strings.ToLower(strings.TrimSpace(level))]
	if !ok {
		logLevel = zerolog.InfoLevel
	}

	var base zerolog.Logger
	if format == JSONLoggingFormat {
		base = zerolog.New(w)
	} else {
		base = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339})
	}

	return Logger{
		Logger: base.Level(logLevel).With().Timestamp().Logger(),
	}
}

// WithActor stores the acting identity so that context-aware log lines carry it.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, ContextKeyActor, actor)
}

// WithContext returns a child logger carrying the request, correlation,
// actor and trace identifiers found in ctx.
func (l Logger) WithContext(ctx context.Context) *zerolog.Logger {
	fields := l.Logger.With()

	for key, field := range map[contextKey]string{
		ContextKeyCorrelationID: "correlation_id",
		ContextKeyRequestID:     "request_id",
		ContextKeyActor:         "actor",
	} {
		if value, ok := ctx.Value(key).(string); ok && value != "" {
			fields = fields.Str(field, value)
		}
	}

	if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
		fields = fields.
			Str("trace_id", span.SpanContext().TraceID().String()).
			Str("span_id", span.SpanContext().SpanID().String())
	}

	child := fields.Logger()

	return &child
}
