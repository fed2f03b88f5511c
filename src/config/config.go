// Package config loads the interpreter's YAML settings file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is looked up in the user's home directory when no path is
// given on the command line.
const DefaultFileName = ".loxrc.yaml"

// Config holds the CLI and REPL settings.
type Config struct {
	Path         string `yaml:"-"`
	Prompt       string `yaml:"prompt"`
	HistoryFile  string `yaml:"history_file"`
	Color        bool   `yaml:"color"`
	EchoResults  bool   `yaml:"echo_results"`
	ContextLines int    `yaml:"context_lines"`
	Trace        bool   `yaml:"trace"`
}

// ValidationError aggregates config validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "config: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("config validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

func Default() *Config {
	return &Config{
		Prompt:       "lox> ",
		HistoryFile:  "~/.lox_history",
		Color:        true,
		EchoResults:  true,
		ContextLines: 2,
	}
}

// DefaultPath returns ~/.loxrc.yaml, or "" when the home directory is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, DefaultFileName)
}

// Load reads the file at path over the defaults. An empty path means the
// default file, and a missing default file is not an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
		if path == "" {
			return Default(), nil
		}
	}

	file, err := os.Open(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer file.Close()

	cfg, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode reads YAML from r over the defaults without validating. Unknown keys
// are rejected and an empty document yields the defaults.
func Decode(r io.Reader) (*Config, error) {
	cfg := Default()
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs ValidationError
	if c.Prompt == "" {
		errs.Issues = append(errs.Issues, "prompt must be a non-empty string")
	}
	if c.ContextLines < 0 {
		errs.Issues = append(errs.Issues, fmt.Sprintf("context_lines must be >= 0, got %d", c.ContextLines))
	}
	if strings.ContainsRune(c.HistoryFile, 0) {
		errs.Issues = append(errs.Issues, "history_file must not contain NUL bytes")
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

// HistoryPath expands a leading ~ in HistoryFile. An empty setting disables
// history.
func (c *Config) HistoryPath() string {
	path := c.HistoryFile
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
	}
	return path
}
