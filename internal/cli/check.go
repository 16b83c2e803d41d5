package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spacycoder/mdbook-insigno/internal/directive"
	"github.com/spf13/cobra"
)

var checkStrict bool

func init() {
	checkCmd.Flags().BoolVar(&checkStrict, "strict", false, "exit non-zero if any directive cannot be resolved")
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check [path]...",
	Short: "List directives and whether their artifacts exist",
	Long: `Scan Markdown files (directories are searched for *.md) and report every
directive with its resolution status. Nothing is rewritten. Defaults to the
book's src directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadSettings()
		if err != nil {
			return err
		}
		if len(args) == 0 {
			args = []string{filepath.Join(bookDir, "src")}
		}
		files, err := markdownFiles(args)
		if err != nil {
			return err
		}

		engine := newEngine(cfg, newLogger(cmd.ErrOrStderr()))
		var results []checkResult
		for _, path := range files {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			results = append(results, checkText(engine, path, string(data))...)
		}

		failed := printCheckResults(cmd.OutOrStdout(), results, engine.Commands())
		if checkStrict && failed > 0 {
			return fmt.Errorf("%d of %d directives cannot be resolved", failed, len(results))
		}
		return nil
	},
}

type checkResult struct {
	Path      string
	Line      int
	Directive directive.Directive
	Err       error
}

// checkText resolves every directive in text without rewriting it.
func checkText(engine *directive.Engine, path, text string) []checkResult {
	var results []checkResult
	for _, d := range directive.Scan(text) {
		_, err := engine.Check(d)
		results = append(results, checkResult{
			Path:      path,
			Line:      strings.Count(text[:d.Start], "\n") + 1,
			Directive: d,
			Err:       err,
		})
	}
	return results
}

// printCheckResults writes one line per result and returns the number of
// failures. known lists the commands offered for unknown directives.
func printCheckResults(w io.Writer, results []checkResult, known []string) int {
	ok := color.New(color.FgGreen)
	bad := color.New(color.FgRed)
	unknown := color.New(color.FgYellow)

	failed := 0
	for _, r := range results {
		fmt.Fprintf(w, "%s:%d: %s ", r.Path, r.Line, r.Directive)
		switch {
		case r.Err == nil:
			ok.Fprintln(w, "ok")
		case errors.Is(r.Err, directive.ErrUnknownCommand):
			failed++
			unknown.Fprintf(w, "unknown command (known: %s)\n", strings.Join(known, ", "))
		default:
			failed++
			bad.Fprintf(w, "error: %v\n", r.Err)
		}
	}
	fmt.Fprintf(w, "%d directives, %d unresolved\n", len(results), failed)
	return failed
}

// markdownFiles expands directories in paths to the *.md files below them.
func markdownFiles(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".md") {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}
