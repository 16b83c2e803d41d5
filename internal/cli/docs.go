package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	cobradoc "github.com/spf13/cobra/doc"
)

func init() {
	rootCmd.AddCommand(docsCmd)
}

var docsCmd = &cobra.Command{
	Use:   "gen-docs <directory>",
	Short: "Generate Markdown reference docs for the CLI",
	Long: `Write a Markdown file per command (suitable for publishing CLI docs).

Example:

  mdbook-insigno gen-docs ./docs/cli`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := args[0]
		if target == "" {
			return fmt.Errorf("target directory is required")
		}
		if err := os.MkdirAll(target, 0o755); err != nil {
			return err
		}
		root := cmd.Root()
		root.DisableAutoGenTag = true
		return cobradoc.GenMarkdownTree(root, target)
	},
}
