package lokalize

import "time"

// JSEvaluatorOption configures the goja backed evaluator.
type JSEvaluatorOption func(*jsOptions)

type jsOptions struct {
	cache    ProgramCache
	registry *FunctionRegistry
	timeout  time.Duration
}

// JSWithProgramCache shares compiled scripts through cache.
func JSWithProgramCache(cache ProgramCache) JSEvaluatorOption {
	return func(o *jsOptions) {
		o.cache = cache
	}
}

// JSWithFunctionRegistry exposes the functions of registry to scripts.
func JSWithFunctionRegistry(registry *FunctionRegistry) JSEvaluatorOption {
	return func(o *jsOptions) {
		if registry != nil {
			o.registry = registry.Clone()
		}
	}
}

// JSWithTimeout interrupts a rule still running on one row after d.
func JSWithTimeout(d time.Duration) JSEvaluatorOption {
	return func(o *jsOptions) {
		o.timeout = d
	}
}

func newJSOptions(opts []JSEvaluatorOption) jsOptions {
	o := jsOptions{timeout: time.Second}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
