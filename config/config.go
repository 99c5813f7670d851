// Package config loads the optional .sktconfig.yaml sidecar that tunes
// compiler/VM knobs not covered by command-line flags, grounded on
// funvibe-funxy/internal/ext/config.go's yaml.Unmarshal + FindConfig shape.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level .sktconfig.yaml shape.
type Config struct {
	// MaxStackDepth caps the VM operand stack; 0 means unbounded (§4.5
	// "unbounded in principle, implementations may cap it").
	MaxStackDepth int `yaml:"max_stack_depth,omitempty"`

	// TabWidth is the column width a tab character advances, used by the
	// lexer when computing token line/column spans.
	TabWidth int `yaml:"tab_width,omitempty"`

	// EmitComments controls whether the lexer's token stream retains
	// Comment-kind tokens for downstream tools (§6.1) instead of
	// discarding them.
	EmitComments bool `yaml:"emit_comments,omitempty"`
}

// Default returns the configuration used when no .sktconfig.yaml is found.
func Default() Config {
	return Config{MaxStackDepth: 0, TabWidth: 4, EmitComments: false}
}

// Load reads and parses a .sktconfig.yaml file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// Find searches for .sktconfig.yaml starting from dir and walking up to
// parent directories. Returns an empty path and nil error if none is
// found anywhere up to the filesystem root.
func Find(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		candidate := filepath.Join(dir, ".sktconfig.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// LoadFromDir finds and loads the nearest .sktconfig.yaml starting at dir,
// falling back to Default() when none exists.
func LoadFromDir(dir string) (Config, error) {
	path, err := Find(dir)
	if err != nil {
		return Config{}, err
	}
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}
