package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spacycoder/mdbook-insigno/internal/config"
)

func TestCheckText(t *testing.T) {
	tb := setupBook(t)
	engine := newEngine(&config.Config{UMLDir: tb.umlDir, SrcDir: tb.srcDir}, testLogger(&bytes.Buffer{}))

	text := "# Title\n\n$uml(diagrams/flow)\n\ntext $src(Nope) and $zzz(q)\n"
	results := checkText(engine, "ch.md", text)
	if len(results) != 3 {
		t.Fatalf("checkText() returned %d results, want 3", len(results))
	}
	wantLines := []int{3, 5, 5}
	for i, r := range results {
		if r.Line != wantLines[i] {
			t.Errorf("result %d line = %d, want %d", i, r.Line, wantLines[i])
		}
	}
	if results[0].Err != nil {
		t.Errorf("uml directive error = %v", results[0].Err)
	}
	if results[1].Err == nil || results[2].Err == nil {
		t.Error("expected errors for missing source and unknown command")
	}

	color.NoColor = true
	var buf bytes.Buffer
	if failed := printCheckResults(&buf, results, engine.Commands()); failed != 2 {
		t.Errorf("printCheckResults() failed = %d, want 2", failed)
	}
	out := buf.String()
	for _, want := range []string{
		"ch.md:3: $uml(diagrams/flow) ok",
		"ch.md:5: $src(Nope) error:",
		"ch.md:5: $zzz(q) unknown command (known: src, uml)",
		"3 directives, 2 unresolved",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestMarkdownFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.md"), "")
	writeFile(t, filepath.Join(dir, "sub", "b.MD"), "")
	writeFile(t, filepath.Join(dir, "sub", "c.txt"), "")
	single := filepath.Join(dir, "sub", "c.txt")

	files, err := markdownFiles([]string{dir, single})
	if err != nil {
		t.Fatalf("markdownFiles() error = %v", err)
	}
	want := []string{filepath.Join(dir, "a.md"), filepath.Join(dir, "sub", "b.MD"), single}
	if strings.Join(files, ",") != strings.Join(want, ",") {
		t.Errorf("markdownFiles() = %v, want %v", files, want)
	}

	if _, err := markdownFiles([]string{filepath.Join(dir, "missing")}); err == nil {
		t.Error("markdownFiles() error = nil for a missing path")
	}
}

func TestRenderFileInPlace(t *testing.T) {
	tb := setupBook(t)
	engine := newEngine(&config.Config{UMLDir: tb.umlDir, SrcDir: tb.srcDir}, testLogger(&bytes.Buffer{}))
	path := filepath.Join(t.TempDir(), "page.md")
	writeFile(t, path, "before $uml(diagrams/flow) after")

	renderInPlace = true
	t.Cleanup(func() { renderInPlace = false })
	if err := renderFile(renderCmd, engine, path); err != nil {
		t.Fatalf("renderFile() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if want := "before \n```plantuml\nA->B\n```\n after"; string(data) != want {
		t.Errorf("file = %q, want %q", data, want)
	}
}

func TestRenderFileStdout(t *testing.T) {
	tb := setupBook(t)
	engine := newEngine(&config.Config{UMLDir: tb.umlDir, SrcDir: tb.srcDir}, testLogger(&bytes.Buffer{}))
	path := filepath.Join(t.TempDir(), "page.md")
	writeFile(t, path, "$src(Map)")

	var buf bytes.Buffer
	renderCmd.SetOut(&buf)
	t.Cleanup(func() { renderCmd.SetOut(nil) })
	if err := renderFile(renderCmd, engine, path); err != nil {
		t.Fatalf("renderFile() error = %v", err)
	}
	if want := "\n```cs\nclass Map {}\n```\n"; buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}
