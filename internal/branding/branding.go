// Package branding provides compile-time identity values for the CLI.
//
// The values live in branding.yaml next to this file and are baked into the
// binary with //go:embed, so a fork only has to edit one file.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName          string `yaml:"cli_name"`
	DisplayName      string `yaml:"display_name"`
	Description      string `yaml:"description"`
	PreprocessorName string `yaml:"preprocessor_name"`
	HomeDir          string `yaml:"home_dir"`
	EnvPrefix        string `yaml:"env_prefix"`
	RemoteURL        string `yaml:"remote_url"`
	MdbookConstraint string `yaml:"mdbook_constraint"`
}

func load() {
	once.Do(func() {
		// Set hard defaults in case the embedded file is missing/empty.
		defaults = brand{
			CLIName:          "mdbook-insigno",
			DisplayName:      "Insigno",
			Description:      "mdbook preprocessor that embeds PlantUML diagrams and C# sources",
			PreprocessorName: "insigno",
			HomeDir:          ".insigno",
			EnvPrefix:        "INSIGNO",
			RemoteURL:        "git@github.com:spacycoder/VectorMap.git",
			MdbookConstraint: ">= 0.4.0, < 0.5.0",
		}
		// Overlay with embedded YAML values.
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "mdbook-insigno").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name (e.g., "Insigno").
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// PreprocessorName returns the name of the book.toml table
// [preprocessor.<name>] the plugin reads its settings from.
func PreprocessorName() string { load(); return defaults.PreprocessorName }

// HomeDir returns the dot-directory name under $HOME (e.g., ".insigno").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "INSIGNO").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// RemoteURL returns the default git URL of the artifact repository.
func RemoteURL() string { load(); return defaults.RemoteURL }

// MdbookConstraint returns the semver range of supported mdbook versions.
func MdbookConstraint() string { load(); return defaults.MdbookConstraint }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("remote") → "INSIGNO_REMOTE".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(suffix, "-", "_"))
}
