package lokalize

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNoEvaluator is returned when no evaluator could be built.
var ErrNoEvaluator = errors.New("lokalize: evaluator not configured")

// ErrUnknownEngine is returned for an unsupported filter engine name.
var ErrUnknownEngine = errors.New("lokalize: unknown filter engine")

// Filter engine names.
const (
	EngineExpr = "expr"
	EngineCEL  = "cel"
	EngineJS   = "js"
)

var (
	rowStringVariables = []string{"key", "text", "comment", "parent_text", "parent_comment", "status"}
	rowBoolVariables   = []string{"modified", "here", "upstream"}
)

// RowEnv is what a filter rule sees of one row.
type RowEnv struct {
	Key           string
	Text          string
	Comment       string
	ParentText    string
	ParentComment string
	Status        KeyStatus
	Modified      bool
	Here          bool
	Upstream      bool
	Locale        string
}

// Map returns the rule variables of the row.
func (r RowEnv) Map() map[string]any {
	return map[string]any{
		"key":            r.Key,
		"text":           r.Text,
		"comment":        r.Comment,
		"parent_text":    r.ParentText,
		"parent_comment": r.ParentComment,
		"status":         r.Status.String(),
		"modified":       r.Modified,
		"here":           r.Here,
		"upstream":       r.Upstream,
		"locale":         r.Locale,
	}
}

// NewEvaluator builds the evaluator for engine with a shared cache and
// function registry. The js engine needs the js_eval build tag.
func NewEvaluator(engine string, cache ProgramCache, registry *FunctionRegistry) (Evaluator, error) {
	switch strings.ToLower(strings.TrimSpace(engine)) {
	case "", EngineExpr:
		return NewExprEvaluator(ExprWithProgramCache(cache), ExprWithFunctionRegistry(registry)), nil
	case EngineCEL:
		return NewCELEvaluator(CELWithProgramCache(cache), CELWithFunctionRegistry(registry)), nil
	case EngineJS:
		if !jsEvaluatorAvailable() {
			return nil, fmt.Errorf("%w: js (build with -tags js_eval)", ErrNoEvaluator)
		}
		return NewJSEvaluator(JSWithProgramCache(cache), JSWithFunctionRegistry(registry)), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, engine)
	}
}

// RowEnv returns the rule variables of key in the selected locale.
func (v *View) RowEnv(key string) RowEnv {
	here, upstream := v.presence(key)
	env := RowEnv{
		Key:      key,
		Status:   DetermineStatus(here, upstream),
		Modified: v.IsModified(key),
		Here:     here,
		Upstream: upstream,
		Locale:   v.localeCode(),
	}
	if store := v.local(); store != nil {
		env.Text, _ = store.Text(key)
		env.Comment, _ = store.Comment(key)
	}
	if parent := v.upstream(); parent != nil {
		env.ParentText, _ = parent.Text(key)
		env.ParentComment, _ = parent.Comment(key)
	}
	return env
}

// Filter returns the listed keys for which expression evaluates to true,
// in row order. A rule yielding a non-boolean value is an error.
func (v *View) Filter(expression string) ([]string, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, fmt.Errorf("lokalize: expression must not be empty")
	}
	evaluator, err := v.resolveEvaluator()
	if err != nil {
		return nil, err
	}
	engine := evaluatorEngineName(evaluator)
	locale := v.localeCode()
	start := time.Now()
	matched, err := v.filter(evaluator, expression)
	v.cfg.evalLogger.LogEvaluation(EvaluatorLogEvent{
		Engine:   engine,
		Expr:     expression,
		Locale:   locale,
		Rows:     len(v.keys),
		Matched:  len(matched),
		Duration: time.Since(start),
		Err:      err,
	})
	if err != nil {
		return nil, err
	}
	return matched, nil
}

func (v *View) filter(evaluator Evaluator, expression string) ([]string, error) {
	rule, err := evaluator.Compile(expression)
	if err != nil {
		return nil, err
	}
	locale, _ := v.tree.Locale(v.node)
	now := time.Now()
	matched := []string{}
	for _, key := range v.keys {
		ctx := RuleContext{Snapshot: v.RowEnv(key), Now: &now, Locale: locale}
		value, err := rule.Evaluate(ctx)
		if err != nil {
			return nil, err
		}
		ok, isBool := value.(bool)
		if !isBool {
			return nil, wrapEvaluationError(evaluatorEngineName(evaluator), expression, ctx.localeLabel(),
				fmt.Errorf("rule returned %T for key %q, want bool", value, key))
		}
		if ok {
			matched = append(matched, key)
		}
	}
	return matched, nil
}

// Evaluate runs expression against the row of key and returns its value.
// One-off expressions are not added to the program cache.
func (v *View) Evaluate(key, expression string) (Response[any], error) {
	if expression == "" {
		return Response[any]{}, fmt.Errorf("lokalize: expression must not be empty")
	}
	evaluator, err := v.resolveEvaluator()
	if err != nil {
		return Response[any]{}, err
	}
	locale, _ := v.tree.Locale(v.node)
	ctx := RuleContext{Snapshot: v.RowEnv(key), Locale: locale}.withDefaults()
	start := time.Now()
	var value any
	rule, evalErr := evaluator.Compile(expression, WithoutProgramCache())
	if evalErr == nil {
		value, evalErr = rule.Evaluate(ctx)
	}
	evalErr = wrapEvaluationError(evaluatorEngineName(evaluator), expression, ctx.localeLabel(), evalErr)
	v.cfg.evalLogger.LogEvaluation(EvaluatorLogEvent{
		Engine:   evaluatorEngineName(evaluator),
		Expr:     expression,
		Locale:   ctx.localeLabel(),
		Rows:     1,
		Duration: time.Since(start),
		Err:      evalErr,
	})
	if evalErr != nil {
		return Response[any]{}, evalErr
	}
	return Response[any]{Value: value}, nil
}

func (v *View) resolveEvaluator() (Evaluator, error) {
	if v.evaluator != nil {
		return v.evaluator, nil
	}
	if v.cfg.evaluator != nil {
		v.evaluator = v.cfg.evaluator
		return v.evaluator, nil
	}
	evaluator, err := NewEvaluator(EngineExpr, v.cfg.programCache, v.cfg.functions)
	if err != nil {
		return nil, err
	}
	if evaluator == nil {
		return nil, ErrNoEvaluator
	}
	v.evaluator = evaluator
	return evaluator, nil
}

func evaluatorEngineName(e Evaluator) string {
	if e == nil {
		return "unknown"
	}
	switch fmt.Sprintf("%T", e) {
	case "*lokalize.exprEvaluator":
		return EngineExpr
	case "*lokalize.celEvaluator":
		return EngineCEL
	case "*lokalize.jsEvaluator":
		return EngineJS
	default:
		return "custom"
	}
}
