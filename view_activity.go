package lokalize

import (
	"context"

	"github.com/goliatone/go-lokalize/pkg/activity"
)

// WithActivityHooks attaches activity hooks notified on key mutations.
// Hooks are cloned and nil entries dropped.
func WithActivityHooks(hooks activity.Hooks) ViewOption {
	normalized := activity.CloneHooks(hooks)
	return func(cfg *viewConfig) {
		cfg.activity = activity.NewEmitter(normalized, activity.Config{Enabled: true})
	}
}

// WithActivityEmitter attaches a preconfigured emitter.
func WithActivityEmitter(emitter *activity.Emitter) ViewOption {
	return func(cfg *viewConfig) {
		cfg.activity = emitter
	}
}

// ActivityEnabled reports whether key mutations are emitted.
func (v *View) ActivityEnabled() bool {
	return v != nil && v.cfg.activity.Enabled()
}

type keyEventBuilder func(activity.TranslationEventInput) activity.Event

func (v *View) emitKeyEvent(build keyEventBuilder, input activity.TranslationEventInput) {
	if !v.ActivityEnabled() {
		return
	}
	if input.Locale == "" {
		input.Locale = v.localeCode()
	}
	if err := v.cfg.activity.Emit(context.Background(), build(input)); err != nil {
		v.cfg.logger.Warn("activity hook failed", "key", input.Key, "error", err)
	}
}
