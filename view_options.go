package lokalize

import (
	"log/slog"

	"github.com/goliatone/go-lokalize/pkg/activity"
)

// ViewOption configures a View.
type ViewOption func(*viewConfig)

type viewConfig struct {
	evaluator    Evaluator
	programCache ProgramCache
	functions    *FunctionRegistry
	evalLogger   EvaluatorLogger
	logger       *slog.Logger
	activity     *activity.Emitter
}

func applyViewOptions(opts []ViewOption) viewConfig {
	cfg := viewConfig{
		evalLogger: noopEvaluatorLogger{},
		logger:     discardLogger(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithEvaluator sets the evaluator used by Filter. Without one, an expr
// evaluator is built on first use.
func WithEvaluator(e Evaluator) ViewOption {
	return func(cfg *viewConfig) {
		cfg.evaluator = e
	}
}

// WithProgramCache registers a cache for compiled filter programs.
func WithProgramCache(cache ProgramCache) ViewOption {
	return func(cfg *viewConfig) {
		cfg.programCache = cache
	}
}

// WithFunctionRegistry exposes the functions of registry to filter rules.
func WithFunctionRegistry(registry *FunctionRegistry) ViewOption {
	return func(cfg *viewConfig) {
		if registry == nil {
			return
		}
		cfg.functions = registry.Clone()
	}
}

// WithCustomFunction registers fn under name for filter rules.
func WithCustomFunction(name string, fn Function) ViewOption {
	return func(cfg *viewConfig) {
		if cfg.functions == nil {
			cfg.functions = NewFunctionRegistry()
		}
		_ = cfg.functions.Register(name, fn)
	}
}

// WithEvaluatorLogger attaches a logger for filter evaluations.
func WithEvaluatorLogger(logger EvaluatorLogger) ViewOption {
	return func(cfg *viewConfig) {
		if logger == nil {
			cfg.evalLogger = noopEvaluatorLogger{}
			return
		}
		cfg.evalLogger = logger
	}
}

// WithLogger sets the structured logger of the view.
func WithLogger(logger *slog.Logger) ViewOption {
	return func(cfg *viewConfig) {
		if logger == nil {
			logger = discardLogger()
		}
		cfg.logger = logger
	}
}
