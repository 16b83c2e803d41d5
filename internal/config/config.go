package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/shlex"
	"github.com/spacycoder/mdbook-insigno/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"

	// LegacyUMLCmdKey is the top-level book.toml key older books use for the
	// diagram generator command.
	LegacyUMLCmdKey = "insigno-uml-cmd"
)

// Setting keys.
const (
	KeyRemote    = "remote"
	KeyBranch    = "branch"
	KeyMirrorDir = "mirror-dir"
	KeyUMLDir    = "uml-dir"
	KeySrcDir    = "src-dir"
	KeyUMLCmd    = "uml-cmd"
	KeyGit       = "git"
	KeySync      = "sync"
	KeyMaxAge    = "max-age"
)

// Config holds the resolved plugin settings.
type Config struct {
	Remote    string        `mapstructure:"remote"`
	Branch    string        `mapstructure:"branch"`
	MirrorDir string        `mapstructure:"mirror-dir"`
	UMLDir    string        `mapstructure:"uml-dir"`
	SrcDir    string        `mapstructure:"src-dir"`
	UMLCmd    string        `mapstructure:"uml-cmd"`
	Git       string        `mapstructure:"git"`
	Sync      bool          `mapstructure:"sync"`
	MaxAge    time.Duration `mapstructure:"max-age"`
}

// Generator returns the diagram generator command split into words with
// shell quoting rules, so a path containing spaces can be quoted:
//
//	uml-cmd = '"C:/Program Files/puml-gen/puml-gen.exe" -excludePaths bin'
//
// A command with unbalanced quotes is split on whitespace instead.
func (c *Config) Generator() []string {
	words, err := shlex.Split(c.UMLCmd)
	if err != nil {
		return strings.Fields(c.UMLCmd)
	}
	return words
}

func defaultValues() map[string]any {
	return map[string]any{
		KeyRemote:    branding.RemoteURL(),
		KeyBranch:    "master",
		KeyMirrorDir: filepath.Join(os.TempDir(), "insigno"),
		KeyUMLDir:    filepath.Join(os.TempDir(), "uml"),
		KeySrcDir:    "",
		KeyUMLCmd:    "puml-gen",
		KeyGit:       "git",
		KeySync:      true,
		KeyMaxAge:    time.Duration(0),
	}
}

// Keys returns every recognized setting key, sorted.
func Keys() []string {
	keys := make([]string, 0, len(defaultValues()))
	for k := range defaultValues() {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsKey reports whether key is a recognized setting.
func IsKey(key string) bool {
	_, ok := defaultValues()[key]
	return ok
}

// Dir returns the path to the config directory (~/.insigno/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.insigno/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// New returns a Viper instance with defaults, environment binding and the
// user config file loaded. An empty configFile uses FilePath(). A missing
// file is not an error.
func New(configFile string) (*viper.Viper, error) {
	if configFile == "" {
		configFile = FilePath()
	}
	v := NewDefault()
	v.SetConfigFile(configFile)
	v.SetConfigType(fileType)

	if err := v.ReadInConfig(); err != nil && !isNotExist(err) {
		return nil, fmt.Errorf("reading config file %s: %w", configFile, err)
	}
	return v, nil
}

// NewDefault returns a viper instance holding only the defaults and the
// environment, without reading the user config file.
func NewDefault() *viper.Viper {
	v := viper.New()
	for k, val := range defaultValues() {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(branding.EnvPrefix())
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Load merges the book's preprocessor table into v and decodes the result.
// legacyUMLCmd is the value of the top-level insigno-uml-cmd key, used when
// the table does not set uml-cmd itself.
func Load(v *viper.Viper, table map[string]any, legacyUMLCmd string) (*Config, error) {
	merged := make(map[string]any, len(table)+1)
	for k, val := range table {
		merged[k] = val
	}
	if _, ok := merged[KeyUMLCmd]; !ok && legacyUMLCmd != "" {
		merged[KeyUMLCmd] = legacyUMLCmd
	}
	if len(merged) > 0 {
		if err := v.MergeConfigMap(merged); err != nil {
			return nil, fmt.Errorf("merging book settings: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding settings: %w", err)
	}
	if cfg.SrcDir == "" {
		cfg.SrcDir = cfg.MirrorDir
	}
	return &cfg, nil
}

// Get returns a value from the user config file. Returns empty string if not
// set.
func Get(configFile, key string) (string, error) {
	v, err := New(configFile)
	if err != nil {
		return "", err
	}
	return v.GetString(key), nil
}

// Set writes a key-value pair to the user config file.
func Set(configFile, key, value string) error {
	if !IsKey(key) {
		return fmt.Errorf("unknown config key %q (known keys: %s)", key, strings.Join(Keys(), ", "))
	}
	if configFile == "" {
		configFile = FilePath()
	}
	if err := os.MkdirAll(filepath.Dir(configFile), 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", filepath.Dir(configFile), err)
	}

	// A bare instance so defaults are not written out.
	v := viper.New()
	v.SetConfigFile(configFile)
	v.SetConfigType(fileType)
	if err := v.ReadInConfig(); err != nil && !isNotExist(err) {
		return fmt.Errorf("reading config file %s: %w", configFile, err)
	}

	v.Set(key, value)

	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func isNotExist(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}
