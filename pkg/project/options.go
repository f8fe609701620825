package project

import (
	"log/slog"

	"github.com/goliatone/go-lokalize/pkg/activity"
	"github.com/goliatone/go-lokalize/pkg/resource"
	"golang.org/x/text/language"
)

// Option configures a Project.
type Option func(*Project)

// WithStore sets the resource store. Defaults to a FileStore.
func WithStore(store resource.Store) Option {
	return func(p *Project) {
		if store != nil {
			p.store = store
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Project) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithActivity sets the emitter notified of locale changes and saves. It is
// also handed to views created by the project.
func WithActivity(emitter *activity.Emitter) Option {
	return func(p *Project) {
		p.activity = emitter
	}
}

// WithDisplayLanguage sets the language locale names are shown in.
func WithDisplayLanguage(tag language.Tag) Option {
	return func(p *Project) {
		p.display = tag
	}
}

// WithExtension sets the extension used by CreateNew.
func WithExtension(ext string) Option {
	return func(p *Project) {
		if ext != "" {
			p.ext = ext
		}
	}
}
