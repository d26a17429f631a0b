// Copyright 2024 Ross Light
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//		 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package config provides the configuration file format
// of the adoc command.
// Files are TOML unless their name ends in ".yaml" or ".yml".
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Output backends.
const (
	BackendHTML     = "html"
	BackendAsciiDoc = "adoc"
)

// Config is the set of options read from a configuration file.
type Config struct {
	// Backend is the output format: "html" or "adoc".
	Backend string `toml:"backend" yaml:"backend"`
	// IgnoreRaw skips raw passthrough blocks when rendering HTML.
	IgnoreRaw bool `toml:"ignore_raw" yaml:"ignore_raw"`
	// FilterTags escapes the tags disallowed by GitHub Flavored Markdown
	// in passthrough blocks when rendering HTML.
	FilterTags bool `toml:"filter_tags" yaml:"filter_tags"`
	// Highlight enables syntax highlighting of source blocks in HTML.
	Highlight bool `toml:"highlight" yaml:"highlight"`
	// HighlightStyle names the Chroma style for highlighting.
	// Empty means the highlighter's default.
	HighlightStyle string `toml:"highlight_style" yaml:"highlight_style"`
	// MaxIncludeDepth limits nested include directives.
	// Zero means the parser's default.
	MaxIncludeDepth int `toml:"max_include_depth" yaml:"max_include_depth"`
	// Attributes are applied before the document's own attribute entries.
	Attributes map[string]string `toml:"attributes" yaml:"attributes"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{Backend: BackendHTML}
}

// Load reads the configuration file at path.
// Keys missing from the file keep their [Default] values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	var cfg *Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		cfg, err = ParseYAML(data)
	default:
		cfg, err = Parse(data)
	}
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a TOML configuration.
// Unknown keys are an error.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("line %d, column %d: %w", row, col, err)
		}
		var serr *toml.StrictMissingError
		if errors.As(err, &serr) {
			return nil, fmt.Errorf("unknown keys:\n%s", serr.String())
		}
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseYAML decodes a YAML configuration
// with the same keys as the TOML format.
// Unknown keys are an error.
func ParseYAML(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports whether the configuration's values are in range.
func (cfg *Config) Validate() error {
	switch cfg.Backend {
	case BackendHTML, BackendAsciiDoc:
	default:
		return fmt.Errorf("unknown backend %q (want %q or %q)", cfg.Backend, BackendHTML, BackendAsciiDoc)
	}
	if cfg.MaxIncludeDepth < 0 {
		return fmt.Errorf("max_include_depth = %d; must not be negative", cfg.MaxIncludeDepth)
	}
	return nil
}

// SetAttribute applies an attribute assignment given on the command line.
// "name=value" sets name to value,
// "name" sets name to the empty string,
// and "name!" removes name.
func (cfg *Config) SetAttribute(arg string) error {
	name, value, _ := strings.Cut(arg, "=")
	name = strings.TrimSpace(name)
	unset := strings.HasSuffix(name, "!")
	name = strings.TrimSuffix(name, "!")
	if name == "" {
		return fmt.Errorf("attribute %q: missing name", arg)
	}
	if strings.ContainsAny(name, " \t{}:") {
		return fmt.Errorf("attribute %q: invalid name", arg)
	}
	if unset {
		delete(cfg.Attributes, name)
		return nil
	}
	if cfg.Attributes == nil {
		cfg.Attributes = make(map[string]string)
	}
	cfg.Attributes[name] = value
	return nil
}
