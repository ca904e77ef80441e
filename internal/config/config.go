// Package config loads the optional bundler.yaml file SPEC_FULL.md's
// ambient-stack section describes. Merging it with command-line flags
// (flags win where both set a field) is done by cmd/bundler, not here.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nostopgmaming17/luabundle/internal/module"
)

// File is the on-disk shape of bundler.yaml.
type File struct {
	Output        string            `yaml:"output"`
	Minify        bool              `yaml:"minify"`
	Mangle        string            `yaml:"mangle"` // "none" | "mangle" | "auto"
	ExtensionsCfg *ExtensionsConfig `yaml:"extensions"`
	Define        map[string]string `yaml:"define"`
}

// ExtensionsConfig overrides the default .lua/.luau extension pair.
type ExtensionsConfig struct {
	Primary   string `yaml:"primary"`
	Secondary string `yaml:"secondary"`
}

// Load reads and parses path. A missing file is not an error: it returns a
// zero-value File so callers fall back entirely to flag defaults.
func Load(path string) (File, error) {
	var f File
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return f, nil
		}
		return f, err
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return f, err
	}
	return f, nil
}

// Extensions returns the configured extension pair, or module's default
// when the config file didn't set one.
func (f File) Extensions() module.Extensions {
	if f.ExtensionsCfg == nil {
		return module.DefaultExtensions
	}
	ext := module.DefaultExtensions
	if f.ExtensionsCfg.Primary != "" {
		ext.Primary = f.ExtensionsCfg.Primary
	}
	if f.ExtensionsCfg.Secondary != "" {
		ext.Secondary = f.ExtensionsCfg.Secondary
	}
	return ext
}
