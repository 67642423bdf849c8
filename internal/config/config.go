// Package config loads the lx driver settings from a YAML file.
//
// The file is looked up at $LX_CONFIG, then ~/.lxrc.yaml. A missing file is
// not an error; every key has a default:
//
//	history: ~/.lx_history   # REPL history file, "" disables it
//	prompt: "λ> "
//	continuation: ".. "
//	color: true
//	max-depth: 10000         # 0 disables the evaluation depth bound
package config

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable that overrides the config path.
const EnvVar = "LX_CONFIG"

// Config holds driver settings.
type Config struct {
	History      string `yaml:"history"`
	Prompt       string `yaml:"prompt"`
	Continuation string `yaml:"continuation"`
	Color        bool   `yaml:"color"`
	MaxDepth     int    `yaml:"max-depth"`
}

// Default returns the settings used when no file is present.
func Default() *Config {
	return &Config{
		History:      "~/.lx_history",
		Prompt:       "λ> ",
		Continuation: ".. ",
		Color:        true,
		MaxDepth:     10000,
	}
}

// DefaultPath returns $LX_CONFIG if set, else ~/.lxrc.yaml.
func DefaultPath() string {
	if p := os.Getenv(EnvVar); p != "" {
		return p
	}
	return "~/.lxrc.yaml"
}

// Load reads the file at path over the defaults. A leading "~/" expands to
// the home directory. A path that does not exist yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(ExpandHome(path))
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := Parse(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML data into cfg. Unknown keys are rejected so a typo does
// not silently fall back to a default.
func Parse(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	if cfg.MaxDepth < 0 {
		return errors.New("max-depth must not be negative")
	}
	return nil
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
