package activity

import (
	"context"
	"strings"
)

// DefaultChannel is applied to events emitted without a channel.
const DefaultChannel = "translations"

// Config controls emission defaults.
type Config struct {
	Enabled bool
	Channel string
	ActorID string
}

// Emitter fans out events to hooks while applying defaults.
type Emitter struct {
	hooks   Hooks
	enabled bool
	channel string
	actor   string
}

// NewEmitter constructs an emitter from hooks and configuration.
func NewEmitter(hooks Hooks, cfg Config) *Emitter {
	channel := strings.TrimSpace(cfg.Channel)
	if channel == "" {
		channel = DefaultChannel
	}
	normalized := CloneHooks(hooks)
	return &Emitter{
		hooks:   normalized,
		enabled: cfg.Enabled && len(normalized) > 0,
		channel: channel,
		actor:   strings.TrimSpace(cfg.ActorID),
	}
}

// Enabled reports whether emissions should be attempted.
func (e *Emitter) Enabled() bool {
	return e != nil && e.enabled && len(e.hooks) > 0
}

// Channel returns the default channel.
func (e *Emitter) Channel() string {
	if e == nil {
		return DefaultChannel
	}
	return e.channel
}

// Emit forwards event to all hooks, filling the channel and actor when
// missing.
func (e *Emitter) Emit(ctx context.Context, event Event) error {
	if !e.Enabled() {
		return nil
	}
	if strings.TrimSpace(event.Channel) == "" {
		event.Channel = e.channel
	}
	if strings.TrimSpace(event.ActorID) == "" {
		event.ActorID = e.actor
	}
	return e.hooks.Notify(ctx, event)
}

// CloneHooks copies hooks dropping nil entries.
func CloneHooks(hooks Hooks) Hooks {
	if len(hooks) == 0 {
		return nil
	}
	normalized := make(Hooks, 0, len(hooks))
	for _, hook := range hooks {
		if hook != nil {
			normalized = append(normalized, hook)
		}
	}
	if len(normalized) == 0 {
		return nil
	}
	return normalized
}
