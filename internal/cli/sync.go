package cli

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spacycoder/mdbook-insigno/internal/mirror"
	"github.com/spf13/cobra"
)

func init() {
	syncCmd.AddCommand(syncStatusCmd)
	rootCmd.AddCommand(syncCmd)
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Clone or update the artifact mirror and rebuild diagrams",
	Long: `Bring the artifact mirror up to date without building a book.

If the mirror does not exist it is cloned from the configured remote;
otherwise it is fast-forwarded. The diagram generator then runs over the
mirror and writes .puml files into the uml directory.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadSettings()
		if err != nil {
			return err
		}
		log := newLogger(cmd.ErrOrStderr())
		syncer := newSyncer(cfg, log)
		// An explicit sync always runs, however fresh the mirror is.
		syncer.MaxAge = 0
		if err := syncer.Sync(); err != nil {
			return fmt.Errorf("syncing %s: %w", cfg.MirrorDir, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Mirror %s is up to date.\n", cfg.MirrorDir)
		return nil
	},
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show mirror location and freshness",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadSettings()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		st := mirror.Inspect(cfg.MirrorDir, cfg.MaxAge)

		fmt.Fprintf(out, "Remote:       %s\n", cfg.Remote)
		fmt.Fprintf(out, "Mirror path:  %s\n", st.Dir)
		fmt.Fprintf(out, "UML path:     %s\n", cfg.UMLDir)
		fmt.Fprintf(out, "Source path:  %s\n", cfg.SrcDir)

		if !st.Present {
			color.New(color.FgRed).Fprintln(out, "Status:       not cloned")
			fmt.Fprintf(out, "\nRun '%s sync' to clone it.\n", cmd.Root().Name())
			return nil
		}

		if st.LastSynced.IsZero() {
			fmt.Fprintln(out, "Last synced:  unknown")
		} else {
			age := time.Since(st.LastSynced).Truncate(time.Minute)
			fmt.Fprintf(out, "Last synced:  %s (%s ago)\n", st.LastSynced.Format(time.RFC3339), age)
		}

		if st.Stale {
			color.New(color.FgYellow).Fprintf(out, "Status:       stale (run '%s sync')\n", cmd.Root().Name())
		} else {
			color.New(color.FgGreen).Fprintln(out, "Status:       up to date")
		}
		return nil
	},
}
