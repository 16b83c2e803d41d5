package cli

import "github.com/spf13/cobra"

func init() {
	rootCmd.AddCommand(supportsCmd)
}

// Every renderer receives plain Markdown fences, so all are supported.
var supportsCmd = &cobra.Command{
	Use:   "supports <renderer>",
	Short: "Check whether a renderer is supported by this preprocessor",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
}
