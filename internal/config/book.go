package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// BookTable reads a book.toml and returns its [preprocessor.<name>] table and
// the legacy top-level insigno-uml-cmd value. A missing file yields an empty
// table and no error.
func BookTable(bookToml, name string) (map[string]any, string, error) {
	if _, err := os.Stat(bookToml); os.IsNotExist(err) {
		return nil, "", nil
	}
	v := viper.New()
	v.SetConfigFile(bookToml)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", bookToml, err)
	}
	return v.GetStringMap("preprocessor." + name), v.GetString(LegacyUMLCmdKey), nil
}
