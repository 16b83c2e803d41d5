// Package config resolves plugin settings from the environment, the book's
// [preprocessor.insigno] table and the user config file at
// ~/.insigno/config.yaml, in that order of precedence. It also reads and
// writes single keys of the user config file for the config command.
package config
