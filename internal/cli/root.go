package cli

import (
	"io"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spacycoder/mdbook-insigno/internal/branding"
	"github.com/spacycoder/mdbook-insigno/internal/config"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	configFile string
	bookDir    string
	verbose    bool
	noSync     bool
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (default ~/"+branding.HomeDir()+"/config.yaml)")
	flags.StringVar(&bookDir, "book", ".", "book directory whose book.toml supplies settings (ignored when run by mdbook)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "log every directive lookup")
	flags.BoolVar(&noSync, "no-sync", false, "skip the artifact mirror sync")
}

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` is an mdbook preprocessor. It replaces $uml(path) and $src(path)
markers in chapters with the matching PlantUML diagram or C# source file,
fenced as a code block.

mdbook runs it with the book on stdin and reads the rewritten book from
stdout. Enable it in book.toml:

  [preprocessor.` + branding.PreprocessorName() + `]
  uml-dir = "/tmp/uml"`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger(cmd.ErrOrStderr())
		return preprocess(cmd.InOrStdin(), cmd.OutOrStdout(), preprocessOptions{
			configFile: configFile,
			noSync:     noSync,
		}, log)
	},
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	rootCmd.Version = version
	return rootCmd.Execute()
}

// newLogger returns the diagnostics logger. Diagnostics never go to stdout,
// which carries the preprocessor response.
func newLogger(w io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	log.SetLevel(logrus.InfoLevel)
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

// loadSettings resolves settings for commands run outside mdbook, using the
// book.toml in --book when there is one.
func loadSettings() (*config.Config, error) {
	v, err := config.New(configFile)
	if err != nil {
		return nil, err
	}
	table, legacy, err := config.BookTable(filepath.Join(bookDir, "book.toml"), branding.PreprocessorName())
	if err != nil {
		return nil, err
	}
	return config.Load(v, table, legacy)
}
