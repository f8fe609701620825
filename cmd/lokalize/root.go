package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	lokalize "github.com/goliatone/go-lokalize"
	"github.com/goliatone/go-lokalize/internal/catalog"
	"github.com/goliatone/go-lokalize/internal/config"
	"github.com/goliatone/go-lokalize/internal/logging"
	"github.com/goliatone/go-lokalize/pkg/activity"
	"github.com/goliatone/go-lokalize/pkg/activity/usersink"
	"github.com/goliatone/go-lokalize/pkg/project"
	"github.com/goliatone/go-lokalize/pkg/resource"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
)

// app carries the flags and the services shared by every command.
type app struct {
	configPath  string
	logLevel    string
	uiLanguage  string
	displayLang string
	engine      string
	master      string
	locale      string
	jsonOut     bool

	cfg     config.Config
	logger  *slog.Logger
	catalog *catalog.Catalog
	emitter *activity.Emitter
	store   resource.Store
	display language.Tag
	out     io.Writer
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "lokalize",
		Short: "Inspect and edit hierarchical translation resources",
		Long: `lokalize works on the .properties resources of one base name, e.g.
app.properties, app_de.properties and app_de_AT.properties. Each locale
inherits the keys of its parent; the language locales inherit from the
master locale, which is the base resource unless --master says otherwise.

A resource argument may omit the extension and may name any locale of the
project: "lokalize keys i18n/app" and "lokalize keys i18n/app_de.properties"
open the same project.`,
		Version:       "0.1.0",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "TOML settings file")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.StringVar(&a.uiLanguage, "ui-lang", "", "Language of the messages printed by lokalize")
	flags.StringVar(&a.displayLang, "display-lang", "", "Language locale names are shown in")
	flags.StringVar(&a.engine, "engine", "", "Filter engine (expr, cel, js)")
	flags.StringVar(&a.master, "master", "", "Locale code used as master instead of the base resource")
	flags.StringVarP(&a.locale, "locale", "l", "", "Locale code to work on, the base resource when empty")
	flags.BoolVar(&a.jsonOut, "json", false, "Output in JSON format")

	root.AddCommand(
		newNewCmd(a),
		newTreeCmd(a),
		newKeysCmd(a),
		newGetCmd(a),
		newSetCmd(a),
		newRemoveCmd(a),
		newRenameCmd(a),
		newMissingCmd(a),
		newAddLocaleCmd(a),
		newRemoveLocaleCmd(a),
		newExportCmd(a),
		newImportCmd(a),
		newSchemaCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath, a.configPath != "")
	if err != nil {
		return err
	}
	overrides := map[*string]string{
		&cfg.LogLevel:        a.logLevel,
		&cfg.UILanguage:      a.uiLanguage,
		&cfg.DisplayLanguage: a.displayLang,
		&cfg.FilterEngine:    a.engine,
	}
	for target, value := range overrides {
		if value != "" {
			*target = value
		}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cmd.ErrOrStderr(), logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Color:  cfg.Color,
	})
	if err != nil {
		return err
	}
	cat, err := catalog.New(cfg.UILanguage)
	if err != nil {
		return err
	}
	display, err := language.Parse(cfg.DisplayLanguage)
	if err != nil {
		logger.Warn("unknown display language", "language", cfg.DisplayLanguage, "error", err)
		display = language.English
	}

	var hooks activity.Hooks
	if cfg.ActivityLog != "" {
		hooks = append(hooks, usersink.Hook{Sink: &auditLog{path: cfg.ActivityLog}})
	}

	a.cfg = cfg
	a.logger = logger
	a.catalog = cat
	a.display = display
	a.emitter = activity.NewEmitter(hooks, activity.Config{
		Enabled: len(hooks) > 0,
		Channel: cfg.ActivityChannel,
		ActorID: cfg.ActorID,
	})
	a.store = resource.NewFileStore(resource.WithFileLogger(logger))
	a.out = cmd.OutOrStdout()
	return nil
}

// resourcePath appends the configured extension when path has none.
func (a *app) resourcePath(path string) string {
	if filepath.Ext(path) != "" {
		return path
	}
	ext := a.cfg.Extension
	if ext != "" && ext[0] != '.' {
		ext = "." + ext
	}
	return path + ext
}

func (a *app) newProject(path string) *project.Project {
	_, _, ext := resource.SplitFileName(path)
	return project.New(
		project.WithStore(a.store),
		project.WithLogger(a.logger),
		project.WithActivity(a.emitter),
		project.WithDisplayLanguage(a.display),
		project.WithExtension(ext),
	)
}

func (a *app) open(ctx context.Context, path string) (*project.Project, error) {
	path = a.resourcePath(path)
	p := a.newProject(path)
	if err := p.Open(ctx, path); err != nil {
		return nil, err
	}
	if a.master != "" {
		id, err := a.node(p, a.master)
		if err != nil {
			return nil, err
		}
		if err := p.SetMaster(id); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// node finds the locale addressed by code. The base name addresses the
// root.
func (a *app) node(p *project.Project, code string) (lokalize.NodeID, error) {
	tree := p.Tree()
	if code == p.Base() {
		return tree.Root(), nil
	}
	codes, err := lokalize.ParseLocaleCode(code)
	if err != nil {
		return lokalize.NoNode, err
	}
	if len(codes) == 0 {
		return tree.Root(), nil
	}
	locale, err := lokalize.NewLocale(p.Base(), codes...)
	if err != nil {
		return lokalize.NoNode, err
	}
	id := tree.Find(locale)
	if id == lokalize.NoNode {
		return lokalize.NoNode, fmt.Errorf("%w: no locale %s in %s", lokalize.ErrUnknownNode, code, p.Base())
	}
	return id, nil
}

// view opens path and selects the --locale node.
func (a *app) view(ctx context.Context, path string) (*project.Project, *lokalize.View, error) {
	p, err := a.open(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	id, err := a.node(p, a.locale)
	if err != nil {
		return nil, nil, err
	}
	evaluator, err := lokalize.NewEvaluator(a.cfg.FilterEngine, lokalize.NewMemoryProgramCache(), lokalize.DefaultFunctions())
	if err != nil {
		return nil, nil, err
	}
	view := p.NewView(
		lokalize.WithEvaluator(evaluator),
		lokalize.WithEvaluatorLogger(lokalize.SlogEvaluatorLogger(a.logger)),
	)
	if err := view.Select(id); err != nil {
		return nil, nil, err
	}
	return p, view, nil
}

// label names a locale in messages: its code, the base for the root.
func label(p *project.Project, id lokalize.NodeID) string {
	locale, _ := p.Tree().Locale(id)
	if code := locale.Code(); code != "" {
		return code
	}
	return p.Base()
}

func (a *app) say(id string, data map[string]any) {
	fmt.Fprintln(a.out, a.catalog.Localize(id, data))
}

func (a *app) statusLabel(status lokalize.KeyStatus) string {
	return a.catalog.Localize("Status"+status.String(), nil)
}

func (a *app) printJSON(v any) error {
	encoder := json.NewEncoder(a.out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
