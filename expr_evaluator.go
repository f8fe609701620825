package lokalize

import (
	"fmt"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
)

// ExprEvaluatorOption configures an expr evaluator instance.
type ExprEvaluatorOption func(*exprEvaluator)

// ExprWithProgramCache wires a ProgramCache into the expr evaluator.
func ExprWithProgramCache(cache ProgramCache) ExprEvaluatorOption {
	return func(e *exprEvaluator) {
		e.cache = withNamespace(cache, "expr")
	}
}

// ExprWithFunctionRegistry wires a FunctionRegistry into the expr evaluator.
func ExprWithFunctionRegistry(registry *FunctionRegistry) ExprEvaluatorOption {
	return func(e *exprEvaluator) {
		if registry == nil {
			return
		}
		e.registry = registry.Clone()
	}
}

// exprEvaluator runs filter rules with github.com/expr-lang/expr.
type exprEvaluator struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// NewExprEvaluator constructs an Evaluator backed by expr-lang/expr.
func NewExprEvaluator(opts ...ExprEvaluatorOption) Evaluator {
	e := &exprEvaluator{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Evaluate compiles and runs expression against the row in ctx.Snapshot.
func (e *exprEvaluator) Evaluate(ctx RuleContext, expression string) (any, error) {
	rule, err := e.Compile(expression)
	if err != nil {
		return nil, err
	}
	return rule.Evaluate(ctx)
}

// Compile returns a rule reusable across rows.
func (e *exprEvaluator) Compile(expression string, opts ...CompileOption) (CompiledRule, error) {
	if expression == "" {
		return nil, wrapEvaluatorError("expr", fmt.Errorf("expression must not be empty"))
	}
	program, err := e.loadOrCompile(expression, applyCompileOptions(opts))
	if err != nil {
		return nil, err
	}
	return &exprCompiledRule{
		evaluator:  e,
		program:    program,
		expression: expression,
	}, nil
}

func (e *exprEvaluator) loadOrCompile(expression string, cfg compileConfig) (*exprvm.Program, error) {
	cache := e.cache
	if cfg.skipCache {
		cache = nil
	}
	if cache != nil {
		if cached, ok := cache.Get(expression); ok {
			if program, ok := cached.(*exprvm.Program); ok {
				return program, nil
			}
		}
	}
	options := []exprlang.Option{
		exprlang.Env(map[string]any{}),
		exprlang.AllowUndefinedVariables(),
	}
	if e.registry != nil {
		options = append(options, exprlang.Function("call", e.callFunction))
		for _, name := range e.registry.Names() {
			options = append(options, exprlang.Function(name, e.registryFunction(name)))
		}
	}
	program, err := exprlang.Compile(expression, options...)
	if err != nil {
		return nil, wrapEvaluationError("expr", expression, "", err)
	}
	if cache != nil {
		cache.Set(expression, program)
	}
	return program, nil
}

func (e *exprEvaluator) registryFunction(name string) func(...any) (any, error) {
	return func(arguments ...any) (any, error) {
		return e.registry.Call(name, arguments...)
	}
}

func (e *exprEvaluator) callFunction(arguments ...any) (any, error) {
	if len(arguments) == 0 {
		return nil, fmt.Errorf("lokalize: call requires function name")
	}
	name, ok := arguments[0].(string)
	if !ok {
		return nil, fmt.Errorf("lokalize: call name must be string")
	}
	return e.registry.Call(name, arguments[1:]...)
}

type exprCompiledRule struct {
	evaluator  *exprEvaluator
	program    *exprvm.Program
	expression string
}

func (r *exprCompiledRule) Evaluate(ctx RuleContext) (any, error) {
	if r.evaluator == nil || r.program == nil {
		return nil, wrapEvaluatorError("expr", fmt.Errorf("compiled rule missing program"))
	}
	ctx = ctx.withDefaults()
	result, err := exprlang.Run(r.program, baseEnvironment(ctx))
	if err != nil {
		return nil, wrapEvaluationError("expr", r.expression, ctx.localeLabel(), err)
	}
	return result, nil
}

// baseEnvironment merges the shared bindings with the row variables.
func baseEnvironment(ctx RuleContext) map[string]any {
	env := map[string]any{
		"now":      ctx.timestamp(),
		"args":     ctx.Args,
		"metadata": ctx.Metadata,
		"locale":   ctx.localeLabel(),
	}
	for key, value := range snapshotAsMap(ctx.Snapshot) {
		env[key] = value
	}
	return env
}

func snapshotAsMap(value any) map[string]any {
	switch v := value.(type) {
	case map[string]any:
		return v
	case RowEnv:
		return v.Map()
	case *RowEnv:
		if v != nil {
			return v.Map()
		}
	}
	return map[string]any{}
}
