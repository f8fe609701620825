package lokalize

import (
	"time"
)

// KeyEntry carries everything shown for one key: its text and comment in
// the selected locale and the defaults inherited from the parent locale.
type KeyEntry struct {
	Key            string
	Text           string
	Comment        string
	DefaultText    string
	DefaultComment string
	HasText        bool
	HasComment     bool
	HasDefault     bool
}

// Row is one line of the key list: the key, its status and whether it was
// modified since load.
type Row struct {
	Key      string    `json:"key"`
	Status   KeyStatus `json:"status"`
	Modified bool      `json:"modified"`
}

// StatusCounts tallies rows per status.
type StatusCounts struct {
	Everywhere     int `json:"everywhere"`
	OnlyHere       int `json:"only_here"`
	OnlyInParent   int `json:"only_in_parent"`
	AlreadyDeleted int `json:"already_deleted"`
}

// Total returns the number of counted rows.
func (c StatusCounts) Total() int {
	return c.Everywhere + c.OnlyHere + c.OnlyInParent + c.AlreadyDeleted
}

func (c *StatusCounts) add(status KeyStatus) {
	switch status {
	case Everywhere:
		c.Everywhere++
	case OnlyHere:
		c.OnlyHere++
	case OnlyInParent:
		c.OnlyInParent++
	case AlreadyDeleted:
		c.AlreadyDeleted++
	}
}

// Response stores a result produced by an evaluator.
type Response[T any] struct {
	Value T
}

// RuleContext carries inputs needed when evaluating a filter expression.
type RuleContext struct {
	Snapshot any
	Now      *time.Time
	Args     map[string]any
	Metadata map[string]any
	Locale   Locale
}

func (ctx RuleContext) withDefaultNow() RuleContext {
	if ctx.Now != nil {
		return ctx
	}
	now := time.Now()
	ctx.Now = &now
	return ctx
}

func (ctx RuleContext) timestamp() time.Time {
	ctx = ctx.withDefaultNow()
	return *ctx.Now
}

func (ctx RuleContext) withDefaultMaps() RuleContext {
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	if ctx.Metadata == nil {
		ctx.Metadata = map[string]any{}
	}
	return ctx
}

func (ctx RuleContext) withDefaults() RuleContext {
	return ctx.withDefaultNow().withDefaultMaps()
}

func (ctx RuleContext) localeLabel() string {
	if code := ctx.Locale.Code(); code != "" {
		return code
	}
	if ctx.Locale.Base != "" {
		return ctx.Locale.Base
	}
	return "unknown"
}

// Evaluator executes expressions against a rule context.
type Evaluator interface {
	Evaluate(ctx RuleContext, expr string) (any, error)
	Compile(expr string, opts ...CompileOption) (CompiledRule, error)
}

// CompiledRule represents a reusable expression program.
type CompiledRule interface {
	Evaluate(ctx RuleContext) (any, error)
}

// CompileOption configures evaluator compile behaviour.
type CompileOption interface {
	applyCompileOption(*compileConfig)
}

type compileConfig struct {
	skipCache bool
}

type compileOptionFunc func(*compileConfig)

func (f compileOptionFunc) applyCompileOption(cfg *compileConfig) {
	if f != nil {
		f(cfg)
	}
}

// WithoutProgramCache compiles the expression afresh and keeps the result
// out of the program cache. Used for one-off rules.
func WithoutProgramCache() CompileOption {
	return compileOptionFunc(func(cfg *compileConfig) {
		cfg.skipCache = true
	})
}

func applyCompileOptions(opts []CompileOption) compileConfig {
	var cfg compileConfig
	for _, opt := range opts {
		if opt != nil {
			opt.applyCompileOption(&cfg)
		}
	}
	return cfg
}
