package lokalize

import (
	"fmt"

	celgo "github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
)

// CELEvaluatorOption configures the CEL evaluator.
type CELEvaluatorOption func(*celEvaluator)

// CELWithProgramCache wires a ProgramCache into the CEL evaluator.
func CELWithProgramCache(cache ProgramCache) CELEvaluatorOption {
	return func(e *celEvaluator) {
		e.cache = withNamespace(cache, "cel")
	}
}

// CELWithFunctionRegistry wires a FunctionRegistry into the CEL evaluator.
// Registered functions take one or two arguments and are also reachable as
// call(name, ...).
func CELWithFunctionRegistry(registry *FunctionRegistry) CELEvaluatorOption {
	return func(e *celEvaluator) {
		if registry == nil {
			return
		}
		e.registry = registry.Clone()
	}
}

type celEvaluator struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// NewCELEvaluator constructs an Evaluator backed by cel-go. Rules see the
// row variables with their concrete types.
func NewCELEvaluator(opts ...CELEvaluatorOption) Evaluator {
	e := &celEvaluator{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

func (e *celEvaluator) Evaluate(ctx RuleContext, expression string) (any, error) {
	rule, err := e.Compile(expression)
	if err != nil {
		return nil, err
	}
	return rule.Evaluate(ctx)
}

func (e *celEvaluator) Compile(expression string, opts ...CompileOption) (CompiledRule, error) {
	if expression == "" {
		return nil, wrapEvaluatorError("cel", fmt.Errorf("expression must not be empty"))
	}
	program, err := e.loadOrCompile(expression, applyCompileOptions(opts))
	if err != nil {
		return nil, wrapEvaluationError("cel", expression, "", err)
	}
	return &celCompiledRule{program: program, expression: expression}, nil
}

func (e *celEvaluator) loadOrCompile(expression string, cfg compileConfig) (celgo.Program, error) {
	cache := e.cache
	if cfg.skipCache {
		cache = nil
	}
	if cache != nil {
		if cached, ok := cache.Get(expression); ok {
			if program, ok := cached.(celgo.Program); ok {
				return program, nil
			}
		}
	}
	env, err := e.buildEnv()
	if err != nil {
		return nil, err
	}
	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, issues.Err()
	}
	program, err := env.Program(ast)
	if err != nil {
		return nil, err
	}
	if cache != nil {
		cache.Set(expression, program)
	}
	return program, nil
}

func (e *celEvaluator) buildEnv() (*celgo.Env, error) {
	opts := []celgo.EnvOption{
		celgo.Variable("now", celgo.TimestampType),
		celgo.Variable("args", celgo.MapType(celgo.StringType, celgo.DynType)),
		celgo.Variable("metadata", celgo.MapType(celgo.StringType, celgo.DynType)),
		celgo.Variable("locale", celgo.StringType),
	}
	for _, name := range rowStringVariables {
		opts = append(opts, celgo.Variable(name, celgo.StringType))
	}
	for _, name := range rowBoolVariables {
		opts = append(opts, celgo.Variable(name, celgo.BoolType))
	}
	if e.registry != nil {
		opts = append(opts, celgo.Function("call",
			celgo.Overload("call_string_dyn",
				[]*celgo.Type{celgo.StringType, celgo.DynType}, celgo.DynType,
				celgo.BinaryBinding(func(name, arg ref.Val) ref.Val {
					return e.invoke(name, arg)
				})),
			celgo.Overload("call_string_dyn_dyn",
				[]*celgo.Type{celgo.StringType, celgo.DynType, celgo.DynType}, celgo.DynType,
				celgo.FunctionBinding(func(values ...ref.Val) ref.Val {
					return e.invoke(values[0], values[1:]...)
				})),
		))
		for _, name := range e.registry.Names() {
			opts = append(opts, e.namedFunction(name))
		}
	}
	return celgo.NewEnv(opts...)
}

func (e *celEvaluator) namedFunction(name string) celgo.EnvOption {
	fnName := types.String(name)
	return celgo.Function(name,
		celgo.Overload(name+"_dyn",
			[]*celgo.Type{celgo.DynType}, celgo.DynType,
			celgo.UnaryBinding(func(arg ref.Val) ref.Val {
				return e.invoke(fnName, arg)
			})),
		celgo.Overload(name+"_dyn_dyn",
			[]*celgo.Type{celgo.DynType, celgo.DynType}, celgo.DynType,
			celgo.BinaryBinding(func(left, right ref.Val) ref.Val {
				return e.invoke(fnName, left, right)
			})),
	)
}

func (e *celEvaluator) invoke(name ref.Val, values ...ref.Val) ref.Val {
	fn, ok := name.Value().(string)
	if !ok {
		return types.NewErr("lokalize: call name must be string")
	}
	args := make([]any, 0, len(values))
	for _, val := range values {
		args = append(args, val.Value())
	}
	result, err := e.registry.Call(fn, args...)
	if err != nil {
		return types.NewErr("%s", err.Error())
	}
	if result == nil {
		return types.NullValue
	}
	return types.DefaultTypeAdapter.NativeToValue(result)
}

type celCompiledRule struct {
	program    celgo.Program
	expression string
}

func (r *celCompiledRule) Evaluate(ctx RuleContext) (any, error) {
	ctx = ctx.withDefaults()
	activation := baseEnvironment(ctx)
	for _, name := range rowStringVariables {
		if _, ok := activation[name]; !ok {
			activation[name] = ""
		}
	}
	for _, name := range rowBoolVariables {
		if _, ok := activation[name]; !ok {
			activation[name] = false
		}
	}
	out, _, err := r.program.Eval(activation)
	if err != nil {
		return nil, wrapEvaluationError("cel", r.expression, ctx.localeLabel(), err)
	}
	return out.Value(), nil
}
