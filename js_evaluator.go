//go:build js_eval

package lokalize

import (
	"fmt"
	"time"

	"github.com/dop251/goja"
)

type jsEvaluator struct {
	cache    ProgramCache
	registry *FunctionRegistry
	timeout  time.Duration
}

// NewJSEvaluator constructs an Evaluator backed by goja. Every row runs in a
// fresh runtime.
func NewJSEvaluator(opts ...JSEvaluatorOption) Evaluator {
	o := newJSOptions(opts)
	return &jsEvaluator{
		cache:    withNamespace(o.cache, "js"),
		registry: o.registry,
		timeout:  o.timeout,
	}
}

func (e *jsEvaluator) Evaluate(ctx RuleContext, expression string) (any, error) {
	rule, err := e.Compile(expression)
	if err != nil {
		return nil, err
	}
	return rule.Evaluate(ctx)
}

func (e *jsEvaluator) Compile(expression string, opts ...CompileOption) (CompiledRule, error) {
	if expression == "" {
		return nil, wrapEvaluatorError("js", fmt.Errorf("expression must not be empty"))
	}
	program, err := e.loadOrCompile(expression, applyCompileOptions(opts))
	if err != nil {
		return nil, wrapEvaluationError("js", expression, "", err)
	}
	return &jsCompiledRule{
		evaluator:  e,
		expression: expression,
		program:    program,
	}, nil
}

func (e *jsEvaluator) loadOrCompile(expression string, cfg compileConfig) (*goja.Program, error) {
	cache := e.cache
	if cfg.skipCache {
		cache = nil
	}
	if cache != nil {
		if cached, ok := cache.Get(expression); ok {
			if program, ok := cached.(*goja.Program); ok {
				return program, nil
			}
		}
	}
	program, err := goja.Compile("", fmt.Sprintf("(function(){ return (%s); })()", expression), false)
	if err != nil {
		return nil, err
	}
	if cache != nil {
		cache.Set(expression, program)
	}
	return program, nil
}

func (e *jsEvaluator) run(ctx RuleContext, program *goja.Program) (any, error) {
	vm := goja.New()
	for key, value := range baseEnvironment(ctx) {
		if err := vm.Set(key, value); err != nil {
			return nil, err
		}
	}
	if e.registry != nil {
		if err := vm.Set("call", func(name string, arguments ...any) (any, error) {
			return e.registry.Call(name, arguments...)
		}); err != nil {
			return nil, err
		}
		for _, name := range e.registry.Names() {
			fn := name
			if err := vm.Set(fn, func(arguments ...any) (any, error) {
				return e.registry.Call(fn, arguments...)
			}); err != nil {
				return nil, err
			}
		}
	}
	if e.timeout > 0 {
		timer := time.AfterFunc(e.timeout, func() {
			vm.Interrupt(fmt.Sprintf("rule exceeded %s", e.timeout))
		})
		defer timer.Stop()
	}
	value, err := vm.RunProgram(program)
	if err != nil {
		return nil, err
	}
	return value.Export(), nil
}

type jsCompiledRule struct {
	evaluator  *jsEvaluator
	expression string
	program    *goja.Program
}

func (r *jsCompiledRule) Evaluate(ctx RuleContext) (any, error) {
	ctx = ctx.withDefaults()
	value, err := r.evaluator.run(ctx, r.program)
	if err != nil {
		return nil, wrapEvaluationError("js", r.expression, ctx.localeLabel(), err)
	}
	return value, nil
}

func jsEvaluatorAvailable() bool {
	return true
}
