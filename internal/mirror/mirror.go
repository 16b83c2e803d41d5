package mirror

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// freshnessFile is the name of the timestamp marker file.
	freshnessFile = ".insigno-synced"

	// DefaultMaxAge is the staleness threshold used for status reports.
	DefaultMaxAge = 24 * time.Hour

	// tmpSuffix is appended to the mirror dir during atomic clone.
	tmpSuffix = ".tmp"
)

// ErrNotCheckout means the mirror directory holds files but no git checkout.
var ErrNotCheckout = errors.New("mirror dir exists and is not a git checkout")

// Runner executes an external command and returns its combined output.
type Runner func(name string, args ...string) ([]byte, error)

// SyncError collects the steps that failed during a sync.
type SyncError struct {
	Steps []error
}

func (e *SyncError) Error() string {
	msgs := make([]string, len(e.Steps))
	for i, err := range e.Steps {
		msgs[i] = err.Error()
	}
	return "sync failed: " + strings.Join(msgs, "; ")
}

// Unwrap returns the individual step errors.
func (e *SyncError) Unwrap() []error { return e.Steps }

// Syncer clones or updates the mirror and runs the diagram generator.
type Syncer struct {
	Remote string
	Branch string
	// Dir is the local mirror of Remote.
	Dir string
	// UMLDir receives the generated .puml files.
	UMLDir string
	// Generator is the diagram generator executable followed by any leading
	// arguments. It is invoked as <Generator...> <Dir> -dir <UMLDir>.
	Generator []string
	Git       string
	// MaxAge skips the sync when the mirror was synced more recently. Zero
	// always syncs.
	MaxAge time.Duration

	Logger logrus.FieldLogger
	Run    Runner
}

// Sync brings the mirror up to date and regenerates diagrams. A nil error
// means every step succeeded; a *SyncError lists the steps that did not.
func (s *Syncer) Sync() error {
	log := s.logger()
	if s.Dir == "" {
		return &SyncError{Steps: []error{errors.New("mirror directory is not configured")}}
	}

	present := Exists(s.Dir)
	if present && s.MaxAge > 0 && !IsStale(s.Dir, s.MaxAge) {
		log.WithField("dir", s.Dir).Debug("mirror is fresh, skipping sync")
		return nil
	}

	var steps []error
	if present {
		log.WithField("remote", s.Remote).Info("Updating git repo")
		if err := s.pull(); err != nil {
			log.WithError(err).Warn("mirror update failed, using existing checkout")
			steps = append(steps, err)
		}
	} else {
		log.WithField("remote", s.Remote).Info("Cloning git repo")
		if err := s.clone(); err != nil {
			steps = append(steps, err)
			return &SyncError{Steps: steps}
		}
	}

	if len(s.Generator) > 0 {
		log.WithField("dir", s.UMLDir).Info("Building uml files")
		if err := s.generate(); err != nil {
			log.WithError(err).Warn("diagram generation failed")
			steps = append(steps, err)
		}
	}

	if len(steps) > 0 {
		return &SyncError{Steps: steps}
	}
	// Only complete syncs are marked fresh.
	WriteFreshnessMarker(s.Dir)
	return nil
}

// clone performs a full clone of Remote into Dir. The clone is atomic: it
// writes to a .tmp directory first, then renames on success. Dir must be
// missing or empty; existing content is never replaced.
func (s *Syncer) clone() error {
	if s.Remote == "" {
		return errors.New("cloning mirror: no remote configured")
	}
	empty, err := isEmptyDir(s.Dir)
	if err != nil {
		return fmt.Errorf("inspecting mirror dir: %w", err)
	}
	if !empty {
		return fmt.Errorf("%w: %s", ErrNotCheckout, s.Dir)
	}
	tmpDir := s.Dir + tmpSuffix

	// Clean up any leftover tmp dir from a previous failed attempt.
	_ = os.RemoveAll(tmpDir)

	if err := os.MkdirAll(filepath.Dir(tmpDir), 0o755); err != nil {
		return fmt.Errorf("creating parent directory: %w", err)
	}

	args := []string{"clone"}
	if s.Branch != "" {
		args = append(args, "--branch", s.Branch)
	}
	args = append(args, s.Remote, tmpDir)
	if output, err := s.run(s.git(), args...); err != nil {
		_ = os.RemoveAll(tmpDir)
		return fmt.Errorf("cloning mirror: %w\n%s", err, strings.TrimSpace(string(output)))
	}

	if err := os.Remove(s.Dir); err != nil && !errors.Is(err, fs.ErrNotExist) {
		_ = os.RemoveAll(tmpDir)
		return fmt.Errorf("removing empty mirror dir: %w", err)
	}
	if err := os.Rename(tmpDir, s.Dir); err != nil {
		_ = os.RemoveAll(tmpDir)
		return fmt.Errorf("finalizing mirror clone: %w", err)
	}
	return nil
}

// isEmptyDir reports whether dir is missing or an empty directory.
func isEmptyDir(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return len(entries) == 0, nil
}

// pull fast-forwards the mirror.
func (s *Syncer) pull() error {
	branch := s.Branch
	if branch == "" {
		branch = "HEAD"
	}
	output, err := s.run(s.git(), "-C", s.Dir, "pull", "--ff-only", "origin", branch)
	if err != nil {
		return fmt.Errorf("pulling mirror updates: %w\n%s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

// generate runs the diagram generator over the mirror.
func (s *Syncer) generate() error {
	if err := os.MkdirAll(s.UMLDir, 0o755); err != nil {
		return fmt.Errorf("creating uml directory: %w", err)
	}
	args := append(append([]string{}, s.Generator[1:]...), s.Dir, "-dir", s.UMLDir)
	output, err := s.run(s.Generator[0], args...)
	if err != nil {
		return fmt.Errorf("running %s: %w\n%s", s.Generator[0], err, strings.TrimSpace(string(output)))
	}
	return nil
}

func (s *Syncer) git() string {
	if s.Git == "" {
		return "git"
	}
	return s.Git
}

func (s *Syncer) run(name string, args ...string) ([]byte, error) {
	if s.Run != nil {
		return s.Run(name, args...)
	}
	return ExecRunner(name, args...)
}

func (s *Syncer) logger() logrus.FieldLogger {
	if s.Logger != nil {
		return s.Logger
	}
	return logrus.StandardLogger()
}

// ExecRunner runs name from PATH (or as given, if it contains a separator).
func ExecRunner(name string, args ...string) ([]byte, error) {
	if _, err := exec.LookPath(name); err != nil {
		return nil, fmt.Errorf("%s is required but not found in PATH", name)
	}
	return exec.Command(name, args...).CombinedOutput()
}

// Exists reports whether dir holds a git checkout.
func Exists(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil && info.IsDir()
}

// WriteFreshnessMarker writes the current Unix timestamp to the freshness file.
func WriteFreshnessMarker(dir string) {
	markerPath := filepath.Join(dir, freshnessFile)
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	_ = os.WriteFile(markerPath, []byte(ts), 0o644)
}

// ReadFreshnessMarker reads the timestamp from the freshness file.
// Returns zero time if the file doesn't exist or can't be parsed.
func ReadFreshnessMarker(dir string) time.Time {
	data, err := os.ReadFile(filepath.Join(dir, freshnessFile))
	if err != nil {
		return time.Time{}
	}
	ts, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(ts, 0)
}

// IsStale returns true if the mirror was last synced more than maxAge ago,
// or if it has never been synced.
func IsStale(dir string, maxAge time.Duration) bool {
	lastSynced := ReadFreshnessMarker(dir)
	if lastSynced.IsZero() {
		return true
	}
	return time.Since(lastSynced) > maxAge
}

// Status summarizes the state of a mirror directory.
type Status struct {
	Dir        string
	Present    bool
	LastSynced time.Time
	Stale      bool
}

// Inspect reports the status of the mirror at dir. A zero maxAge uses
// DefaultMaxAge.
func Inspect(dir string, maxAge time.Duration) Status {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return Status{
		Dir:        dir,
		Present:    Exists(dir),
		LastSynced: ReadFreshnessMarker(dir),
		Stale:      IsStale(dir, maxAge),
	}
}
