package cli

import (
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spacycoder/mdbook-insigno/internal/artifact"
	"github.com/spacycoder/mdbook-insigno/internal/book"
	"github.com/spacycoder/mdbook-insigno/internal/branding"
	"github.com/spacycoder/mdbook-insigno/internal/config"
	"github.com/spacycoder/mdbook-insigno/internal/directive"
	"github.com/spacycoder/mdbook-insigno/internal/mirror"
)

// runCommand executes sync shell-outs; nil uses mirror.ExecRunner.
var runCommand mirror.Runner

type preprocessOptions struct {
	configFile string
	noSync     bool
}

// preprocess handles one mdbook request: parse, sync, substitute, respond.
// Only protocol and output errors are returned; sync and directive failures
// are logged.
func preprocess(in io.Reader, out io.Writer, opts preprocessOptions, log *logrus.Logger) error {
	ctx, bk, err := book.ParseInput(in)
	if err != nil {
		return err
	}
	if err := book.CheckVersion(ctx.MdbookVersion, branding.MdbookConstraint()); err != nil {
		log.WithError(err).Warn("mdbook version check failed")
	}

	cfg, err := loadBookConfig(ctx, opts.configFile, log)
	if err != nil {
		return err
	}

	if cfg.Sync && !opts.noSync {
		if err := newSyncer(cfg, log).Sync(); err != nil {
			log.WithError(err).Warn("artifact sync failed, continuing with existing artifacts")
		}
	}

	log.Infof("Running '%s' preprocessor", branding.PreprocessorName())
	engine := newEngine(cfg, log)
	engine.Substitute(bk)

	stats := engine.Stats()
	log.WithFields(logrus.Fields{
		"directives": stats.Directives,
		"resolved":   stats.Resolved,
		"failed":     stats.Failed,
		"unknown":    stats.Unknown,
	}).Info("preprocessing finished")

	return book.WriteOutput(out, bk)
}

// loadBookConfig resolves settings for a book build. A user config file that
// cannot be read or decoded is logged and skipped, leaving the defaults, the
// environment and the book's own table.
func loadBookConfig(ctx *book.Context, configFile string, log logrus.FieldLogger) (*config.Config, error) {
	table := ctx.PreprocessorTable(branding.PreprocessorName())
	legacy := ctx.Setting(config.LegacyUMLCmdKey)

	v, err := config.New(configFile)
	if err == nil {
		var cfg *config.Config
		if cfg, err = config.Load(v, table, legacy); err == nil {
			return cfg, nil
		}
	}
	log.WithError(err).Warn("ignoring user config file")
	return config.Load(config.NewDefault(), table, legacy)
}

func newEngine(cfg *config.Config, log logrus.FieldLogger) *directive.Engine {
	engine := directive.New(directive.LogObserver{Logger: log})
	engine.Register("uml", artifact.NewDiagramResolver(cfg.UMLDir))
	engine.Register("src", artifact.NewSourceResolver(cfg.SrcDir))
	return engine
}

func newSyncer(cfg *config.Config, log logrus.FieldLogger) *mirror.Syncer {
	return &mirror.Syncer{
		Remote:    cfg.Remote,
		Branch:    cfg.Branch,
		Dir:       cfg.MirrorDir,
		UMLDir:    cfg.UMLDir,
		Generator: cfg.Generator(),
		Git:       cfg.Git,
		MaxAge:    cfg.MaxAge,
		Logger:    log,
		Run:       runCommand,
	}
}
