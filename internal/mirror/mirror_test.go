package mirror

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

// fakeRunner records commands and simulates git clone by creating the
// target checkout.
type fakeRunner struct {
	calls [][]string
	fail  map[string]error
}

func (f *fakeRunner) run(name string, args ...string) ([]byte, error) {
	call := append([]string{name}, args...)
	f.calls = append(f.calls, call)
	key := name
	if len(args) > 0 {
		key = name + " " + args[0]
	}
	if err, ok := f.fail[key]; ok {
		return []byte("fatal: simulated"), err
	}
	if name == "git" && len(args) > 0 && args[0] == "clone" {
		target := args[len(args)-1]
		if err := os.MkdirAll(filepath.Join(target, ".git"), 0o755); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newSyncer(t *testing.T, f *fakeRunner) *Syncer {
	t.Helper()
	base := t.TempDir()
	return &Syncer{
		Remote:    "git@example.com:org/repo.git",
		Branch:    "master",
		Dir:       filepath.Join(base, "mirror"),
		UMLDir:    filepath.Join(base, "uml"),
		Generator: []string{"puml-gen"},
		Logger:    quietLogger(),
		Run:       f.run,
	}
}

func TestSync_ClonesMissingMirror(t *testing.T) {
	f := &fakeRunner{}
	s := newSyncer(t, f)

	if err := s.Sync(); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}

	want := [][]string{
		{"git", "clone", "--branch", "master", s.Remote, s.Dir + ".tmp"},
		{"puml-gen", s.Dir, "-dir", s.UMLDir},
	}
	if !reflect.DeepEqual(f.calls, want) {
		t.Errorf("calls = %v, want %v", f.calls, want)
	}
	if !Exists(s.Dir) {
		t.Error("mirror checkout missing after clone")
	}
	if _, err := os.Stat(s.Dir + ".tmp"); !os.IsNotExist(err) {
		t.Error("tmp clone dir left behind")
	}
	if ReadFreshnessMarker(s.Dir).IsZero() {
		t.Error("freshness marker not written")
	}
	if info, err := os.Stat(s.UMLDir); err != nil || !info.IsDir() {
		t.Error("uml dir not created")
	}
}

func TestSync_PullsExistingMirror(t *testing.T) {
	f := &fakeRunner{}
	s := newSyncer(t, f)
	if err := os.MkdirAll(filepath.Join(s.Dir, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}

	if err := s.Sync(); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}

	want := [][]string{
		{"git", "-C", s.Dir, "pull", "--ff-only", "origin", "master"},
		{"puml-gen", s.Dir, "-dir", s.UMLDir},
	}
	if !reflect.DeepEqual(f.calls, want) {
		t.Errorf("calls = %v, want %v", f.calls, want)
	}
}

func TestSync_PullFailureStillGenerates(t *testing.T) {
	f := &fakeRunner{fail: map[string]error{"git -C": errors.New("exit status 1")}}
	s := newSyncer(t, f)
	if err := os.MkdirAll(filepath.Join(s.Dir, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}

	err := s.Sync()
	var syncErr *SyncError
	if !errors.As(err, &syncErr) {
		t.Fatalf("Sync() error = %v, want *SyncError", err)
	}
	if len(syncErr.Steps) != 1 || !strings.Contains(syncErr.Steps[0].Error(), "pulling mirror updates") {
		t.Errorf("steps = %v", syncErr.Steps)
	}
	if len(f.calls) != 2 || f.calls[1][0] != "puml-gen" {
		t.Errorf("generator not run after pull failure: %v", f.calls)
	}
	if !ReadFreshnessMarker(s.Dir).IsZero() {
		t.Error("freshness marker written despite failed pull")
	}
}

func TestSync_CloneFailureSkipsGenerator(t *testing.T) {
	f := &fakeRunner{fail: map[string]error{"git clone": errors.New("exit status 128")}}
	s := newSyncer(t, f)

	err := s.Sync()
	if err == nil {
		t.Fatal("Sync() error = nil, want clone failure")
	}
	if !strings.Contains(err.Error(), "cloning mirror") {
		t.Errorf("error = %v, want cloning mirror", err)
	}
	if len(f.calls) != 1 {
		t.Errorf("calls = %v, want only the clone", f.calls)
	}
	if _, err := os.Stat(s.Dir + ".tmp"); !os.IsNotExist(err) {
		t.Error("tmp clone dir left behind")
	}
}

func TestSync_GeneratorFailure(t *testing.T) {
	f := &fakeRunner{fail: map[string]error{"dotnet puml-gen": errors.New("exit status 2")}}
	s := newSyncer(t, f)
	s.Generator = []string{"dotnet", "puml-gen"}
	if err := os.MkdirAll(filepath.Join(s.Dir, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}

	err := s.Sync()
	if err == nil || !strings.Contains(err.Error(), "running dotnet") {
		t.Fatalf("Sync() error = %v, want generator failure", err)
	}
	want := []string{"dotnet", "puml-gen", s.Dir, "-dir", s.UMLDir}
	if !reflect.DeepEqual(f.calls[1], want) {
		t.Errorf("generator call = %v, want %v", f.calls[1], want)
	}
}

func TestSync_GeneratorFailureKeepsMirrorStale(t *testing.T) {
	f := &fakeRunner{}
	s := newSyncer(t, f)
	s.MaxAge = time.Hour
	if err := os.MkdirAll(filepath.Join(s.Dir, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
	f.fail = map[string]error{"puml-gen " + s.Dir: errors.New("exit status 2")}

	if err := s.Sync(); err == nil {
		t.Fatal("Sync() error = nil, want generator failure")
	}
	if !ReadFreshnessMarker(s.Dir).IsZero() {
		t.Fatal("freshness marker written despite failed generator")
	}

	// The next run must not be skipped as fresh.
	f.calls = nil
	f.fail = nil
	if err := s.Sync(); err != nil {
		t.Fatalf("second Sync() error = %v", err)
	}
	if len(f.calls) != 2 {
		t.Errorf("calls = %v, want pull and generator", f.calls)
	}
	if ReadFreshnessMarker(s.Dir).IsZero() {
		t.Error("freshness marker missing after a complete sync")
	}
}

func TestSync_RefusesNonCheckoutDir(t *testing.T) {
	f := &fakeRunner{}
	s := newSyncer(t, f)
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		t.Fatal(err)
	}
	userFile := filepath.Join(s.Dir, "Handwritten.cs")
	if err := os.WriteFile(userFile, []byte("class Handwritten {}"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := s.Sync()
	var syncErr *SyncError
	if !errors.As(err, &syncErr) {
		t.Fatalf("Sync() error = %v, want *SyncError", err)
	}
	if !errors.Is(err, ErrNotCheckout) {
		t.Errorf("error = %v, want ErrNotCheckout", err)
	}
	if len(f.calls) != 0 {
		t.Errorf("calls = %v, want none", f.calls)
	}
	data, err := os.ReadFile(userFile)
	if err != nil || string(data) != "class Handwritten {}" {
		t.Errorf("user file after sync = %q, %v", data, err)
	}
}

func TestSync_ClonesIntoEmptyDir(t *testing.T) {
	f := &fakeRunner{}
	s := newSyncer(t, f)
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		t.Fatal(err)
	}

	if err := s.Sync(); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if !Exists(s.Dir) {
		t.Error("mirror checkout missing after clone into empty dir")
	}
}

func TestSync_NoGenerator(t *testing.T) {
	f := &fakeRunner{}
	s := newSyncer(t, f)
	s.Generator = nil

	if err := s.Sync(); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if len(f.calls) != 1 {
		t.Errorf("calls = %v, want only the clone", f.calls)
	}
}

func TestSync_FreshMirrorSkipped(t *testing.T) {
	f := &fakeRunner{}
	s := newSyncer(t, f)
	s.MaxAge = time.Hour
	if err := os.MkdirAll(filepath.Join(s.Dir, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
	WriteFreshnessMarker(s.Dir)

	if err := s.Sync(); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if len(f.calls) != 0 {
		t.Errorf("calls = %v, want none for a fresh mirror", f.calls)
	}
}

func TestSync_MissingDir(t *testing.T) {
	s := &Syncer{Logger: quietLogger(), Run: (&fakeRunner{}).run}
	if err := s.Sync(); err == nil {
		t.Fatal("Sync() error = nil, want configuration error")
	}
}

func TestIsStale(t *testing.T) {
	dir := t.TempDir()
	if !IsStale(dir, time.Hour) {
		t.Error("IsStale() = false without a marker")
	}

	WriteFreshnessMarker(dir)
	if IsStale(dir, time.Hour) {
		t.Error("IsStale() = true right after writing the marker")
	}

	old := strconv.FormatInt(time.Now().Add(-2*time.Hour).Unix(), 10)
	if err := os.WriteFile(filepath.Join(dir, freshnessFile), []byte(old), 0o644); err != nil {
		t.Fatal(err)
	}
	if !IsStale(dir, time.Hour) {
		t.Error("IsStale() = false for a two hour old marker")
	}

	if err := os.WriteFile(filepath.Join(dir, freshnessFile), []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}
	if !ReadFreshnessMarker(dir).IsZero() {
		t.Error("ReadFreshnessMarker() parsed garbage")
	}
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	st := Inspect(dir, 0)
	if st.Present || !st.Stale || !st.LastSynced.IsZero() {
		t.Errorf("Inspect(empty) = %+v", st)
	}

	if err := os.Mkdir(filepath.Join(dir, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
	WriteFreshnessMarker(dir)
	st = Inspect(dir, 0)
	if !st.Present || st.Stale || st.LastSynced.IsZero() {
		t.Errorf("Inspect(synced) = %+v", st)
	}
}
