package artifact

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

const (
	// DiagramExt and DiagramFence describe PlantUML artifacts.
	DiagramExt   = ".puml"
	DiagramFence = "plantuml"

	// SourceExt and SourceFence describe C# source artifacts.
	SourceExt   = ".cs"
	SourceFence = "cs"
)

var (
	// ErrNotFound means the artifact file does not exist.
	ErrNotFound = errors.New("artifact not found")
	// ErrRead means the artifact exists but could not be read.
	ErrRead = errors.New("reading artifact")
	// ErrOutsideRoot means the argument points outside the artifact root.
	ErrOutsideRoot = errors.New("artifact path escapes root")

	errInvalidUTF8 = errors.New("content is not valid UTF-8")
)

// Error describes a failed artifact lookup.
type Error struct {
	Path string
	Kind error // ErrNotFound, ErrRead or ErrOutsideRoot
	Err  error // underlying cause, may be nil
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Path)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Fetcher reads <Root>/<argument><Ext> and fences it with Fence.
type Fetcher struct {
	Root  string
	Ext   string
	Fence string
}

// NewDiagramResolver returns a Fetcher for PlantUML diagrams under root.
func NewDiagramResolver(root string) *Fetcher {
	return &Fetcher{Root: root, Ext: DiagramExt, Fence: DiagramFence}
}

// NewSourceResolver returns a Fetcher for C# sources under root.
func NewSourceResolver(root string) *Fetcher {
	return &Fetcher{Root: root, Ext: SourceExt, Fence: SourceFence}
}

// Path returns the file an argument maps to, or an error if it would leave
// the root.
func (f *Fetcher) Path(argument string) (string, error) {
	path := filepath.Join(f.Root, argument+f.Ext)
	rel, err := filepath.Rel(filepath.Clean(f.Root), path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", &Error{Path: path, Kind: ErrOutsideRoot}
	}
	return path, nil
}

// Resolve reads the artifact for argument and returns it as a fenced block.
// Content that is not valid UTF-8 is a read failure.
func (f *Fetcher) Resolve(argument string) (string, error) {
	path, err := f.Path(argument)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		kind := ErrRead
		if errors.Is(err, fs.ErrNotExist) {
			kind = ErrNotFound
		}
		return "", &Error{Path: path, Kind: kind, Err: err}
	}
	if !utf8.Valid(data) {
		return "", &Error{Path: path, Kind: ErrRead, Err: errInvalidUTF8}
	}
	return Fence(f.Fence, string(data)), nil
}

// Fence wraps body in a fenced code block tagged with lang, with a newline
// on each side of the block.
func Fence(lang, body string) string {
	var b strings.Builder
	b.Grow(len(body) + len(lang) + 10)
	b.WriteString("\n```")
	b.WriteString(lang)
	b.WriteString("\n")
	b.WriteString(body)
	b.WriteString("\n```\n")
	return b.String()
}
