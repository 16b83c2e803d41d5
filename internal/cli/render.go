package cli

import (
	"fmt"
	"os"

	"github.com/spacycoder/mdbook-insigno/internal/directive"
	"github.com/spf13/cobra"
)

var (
	renderInPlace bool
	renderSync    bool
)

func init() {
	renderCmd.Flags().BoolVarP(&renderInPlace, "inplace", "i", false, "rewrite the files instead of printing them")
	renderCmd.Flags().BoolVar(&renderSync, "sync", false, "sync the artifact mirror first")
	rootCmd.AddCommand(renderCmd)
}

var renderCmd = &cobra.Command{
	Use:   "render <file>...",
	Short: "Expand directives in Markdown files outside mdbook",
	Long: `Expand $uml(...) and $src(...) directives in plain Markdown files using the
configured artifact directories. The result is printed to stdout, or written
back to each file with --inplace.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadSettings()
		if err != nil {
			return err
		}
		log := newLogger(cmd.ErrOrStderr())
		if renderSync && !noSync {
			if err := newSyncer(cfg, log).Sync(); err != nil {
				log.WithError(err).Warn("artifact sync failed, continuing with existing artifacts")
			}
		}

		engine := newEngine(cfg, log)
		for _, path := range args {
			if err := renderFile(cmd, engine, path); err != nil {
				return err
			}
		}
		return nil
	},
}

func renderFile(cmd *cobra.Command, engine *directive.Engine, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	section := &directive.Section{Content: string(data)}
	engine.Substitute(section)

	if !renderInPlace {
		_, err := fmt.Fprint(cmd.OutOrStdout(), section.Content)
		return err
	}
	if section.Content == string(data) {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(section.Content), info.Mode().Perm()); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
