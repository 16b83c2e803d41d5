package cli

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spacycoder/mdbook-insigno/internal/config"
	"github.com/spacycoder/mdbook-insigno/internal/mirror"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that sync tools and artifact directories are in place",
	Long: `Run diagnostic checks on the tools and directories the preprocessor
depends on: git, the diagram generator, the mirror and both artifact roots.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadSettings()
		if err != nil {
			return err
		}
		checks := runDoctorChecks(cfg, exec.LookPath)
		if failed := printDoctorChecks(cmd.OutOrStdout(), checks); failed > 0 {
			return fmt.Errorf("%d check(s) failed", failed)
		}
		return nil
	},
}

type doctorCheck struct {
	Name   string
	Detail string
	OK     bool
}

// runDoctorChecks inspects the environment described by cfg. lookPath is
// exec.LookPath outside tests.
func runDoctorChecks(cfg *config.Config, lookPath func(string) (string, error)) []doctorCheck {
	var checks []doctorCheck

	tool := func(name, bin string) {
		if bin == "" {
			checks = append(checks, doctorCheck{Name: name, Detail: "not configured"})
			return
		}
		path, err := lookPath(bin)
		if err != nil {
			checks = append(checks, doctorCheck{Name: name, Detail: bin + " not found in PATH"})
			return
		}
		checks = append(checks, doctorCheck{Name: name, Detail: path, OK: true})
	}
	tool("git", cfg.Git)
	generator := cfg.Generator()
	if len(generator) == 0 {
		tool("diagram generator", "")
	} else {
		tool("diagram generator", generator[0])
	}

	st := mirror.Inspect(cfg.MirrorDir, cfg.MaxAge)
	if st.Present {
		checks = append(checks, doctorCheck{Name: "mirror", Detail: st.Dir, OK: true})
	} else {
		checks = append(checks, doctorCheck{Name: "mirror", Detail: st.Dir + " is not a git checkout"})
	}

	checks = append(checks,
		artifactDirCheck("uml dir", cfg.UMLDir, ".puml"),
		artifactDirCheck("source dir", cfg.SrcDir, ".cs"),
	)
	return checks
}

// artifactDirCheck counts the files with ext below dir.
func artifactDirCheck(name, dir, ext string) doctorCheck {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return doctorCheck{Name: name, Detail: dir + " does not exist"}
	}
	count := 0
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err == nil && !d.IsDir() && filepath.Ext(path) == ext {
			count++
		}
		return nil
	})
	if count == 0 {
		return doctorCheck{Name: name, Detail: fmt.Sprintf("%s has no %s files", dir, ext)}
	}
	return doctorCheck{Name: name, Detail: fmt.Sprintf("%s (%d %s files)", dir, count, ext), OK: true}
}

func printDoctorChecks(w io.Writer, checks []doctorCheck) int {
	ok := color.New(color.FgGreen)
	bad := color.New(color.FgRed)
	failed := 0
	for _, c := range checks {
		if c.OK {
			ok.Fprint(w, "[ok] ")
		} else {
			failed++
			bad.Fprint(w, "[!!] ")
		}
		fmt.Fprintf(w, "%-18s %s\n", c.Name, c.Detail)
	}
	return failed
}
