// Package config loads grapelint configuration from YAML.
//
// The layout follows RuboCop: an AllCops section for global settings and one
// section per cop, keyed by the cop's name.
//
//	AllCops:
//	  BaseClasses: [Grape::API]
//	  Exclude: [vendor/**]
//	Grape/MissingDesc:
//	  TopLevel: true
//	  RequiredForResources: true
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the configuration file looked up when none is given.
const DefaultPath = ".grapelint.yml"

// DefaultBaseClass marks Grape API classes.
const DefaultBaseClass = "Grape::API"

// AllCops holds settings shared by every cop.
type AllCops struct {
	// BaseClasses lists superclasses whose subclasses are API declarations.
	BaseClasses []string `yaml:"BaseClasses,omitempty"`
	// Exclude lists gitignore-style patterns of files to skip.
	Exclude []string `yaml:"Exclude,omitempty"`
}

// CopConfig holds the settings of one cop. Unset fields take the cop's defaults.
type CopConfig struct {
	Enabled              *bool `yaml:"Enabled,omitempty"`
	TopLevel             *bool `yaml:"TopLevel,omitempty"`
	RequiredForResources *bool `yaml:"RequiredForResources,omitempty"`
}

// Config is a complete grapelint configuration.
type Config struct {
	AllCops AllCops              `yaml:"AllCops"`
	Cops    map[string]CopConfig `yaml:",inline"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		AllCops: AllCops{BaseClasses: []string{DefaultBaseClass}},
		Cops: map[string]CopConfig{
			"Grape/MissingDesc": {
				Enabled:              ptr(true),
				TopLevel:             ptr(true),
				RequiredForResources: ptr(true),
			},
			"Grape/EmptyRequestPath": {Enabled: ptr(true)},
			"Grape/StatusNoContent":  {Enabled: ptr(true)},
		},
	}
}

// Load reads the configuration at path. A missing file at DefaultPath yields
// the defaults; a missing file anywhere else is an error.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration. Settings absent from data keep their defaults.
func Parse(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	return merge(Default(), cfg), nil
}

func merge(base, over Config) Config {
	if len(over.AllCops.BaseClasses) > 0 {
		base.AllCops.BaseClasses = over.AllCops.BaseClasses
	}
	base.AllCops.Exclude = append(base.AllCops.Exclude, over.AllCops.Exclude...)

	for name, cc := range over.Cops {
		cur := base.Cops[name]
		if cc.Enabled != nil {
			cur.Enabled = cc.Enabled
		}
		if cc.TopLevel != nil {
			cur.TopLevel = cc.TopLevel
		}
		if cc.RequiredForResources != nil {
			cur.RequiredForResources = cc.RequiredForResources
		}
		base.Cops[name] = cur
	}
	return base
}

// Cop returns the settings for the named cop.
func (c Config) Cop(name string) CopConfig {
	return c.Cops[name]
}

// Enabled reports whether the named cop should run. Cops are enabled unless
// configured otherwise.
func (c Config) Enabled(name string) bool {
	return BoolOr(c.Cops[name].Enabled, true)
}

// BaseClasses returns the superclass names that mark API declarations.
func (c Config) BaseClasses() []string {
	if len(c.AllCops.BaseClasses) == 0 {
		return []string{DefaultBaseClass}
	}
	return c.AllCops.BaseClasses
}

// Unknown returns configured cop sections not listed in known, sorted.
func (c Config) Unknown(known []string) []string {
	var out []string
	for name := range c.Cops {
		if !slices.Contains(known, name) {
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return out
}

// Marshal renders c as YAML with two-space indentation.
func (c Config) Marshal() (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return "", fmt.Errorf("encoding config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encoding config: %w", err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// BoolOr dereferences p, falling back to def when p is nil.
func BoolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

func ptr[T any](v T) *T {
	return &v
}
