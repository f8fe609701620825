package lokalize

import (
	"context"
	"log/slog"
	"time"
)

// EvaluatorLogEvent describes an evaluation attempt for logging.
type EvaluatorLogEvent struct {
	Engine   string
	Expr     string
	Locale   string
	Rows     int
	Matched  int
	Duration time.Duration
	Err      error
}

// EvaluatorLogger records evaluator events.
type EvaluatorLogger interface {
	LogEvaluation(EvaluatorLogEvent)
}

// EvaluatorLoggerFunc adapts a function to EvaluatorLogger.
type EvaluatorLoggerFunc func(EvaluatorLogEvent)

// LogEvaluation implements EvaluatorLogger.
func (f EvaluatorLoggerFunc) LogEvaluation(event EvaluatorLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopEvaluatorLogger struct{}

func (noopEvaluatorLogger) LogEvaluation(EvaluatorLogEvent) {}

// SlogEvaluatorLogger reports evaluations at debug level, failures at warn.
func SlogEvaluatorLogger(logger *slog.Logger) EvaluatorLogger {
	if logger == nil {
		return noopEvaluatorLogger{}
	}
	return EvaluatorLoggerFunc(func(event EvaluatorLogEvent) {
		level := slog.LevelDebug
		attrs := []slog.Attr{
			slog.String("engine", event.Engine),
			slog.String("expr", event.Expr),
			slog.String("locale", event.Locale),
			slog.Int("rows", event.Rows),
			slog.Int("matched", event.Matched),
			slog.Duration("duration", event.Duration),
		}
		if event.Err != nil {
			level = slog.LevelWarn
			attrs = append(attrs, slog.Any("error", event.Err))
		}
		logger.LogAttrs(context.Background(), level, "filter evaluated", attrs...)
	})
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
