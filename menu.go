// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package navlink

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"
)

// MenuItem is one declarative link definition as it appears in a menu file.
type MenuItem struct {
	Href      string `yaml:"href" toml:"href" validate:"required"`
	Label     string `yaml:"label" toml:"label"`
	Match     string `yaml:"match" toml:"match" validate:"omitempty,oneof=exact startsWith includes pattern"`
	Pattern   string `yaml:"pattern" toml:"pattern"`
	ActiveURL string `yaml:"active_url" toml:"active_url"`
	Element   string `yaml:"element" toml:"element" validate:"omitempty,oneof=anchor span custom router"`
	Tag       string `yaml:"tag" toml:"tag"`
	Class     string `yaml:"class" toml:"class"`
	Active    string `yaml:"active_class" toml:"active_class"`
	Inactive  string `yaml:"inactive_class" toml:"inactive_class"`
	Disabled  bool   `yaml:"disabled" toml:"disabled"`
	Replace   bool   `yaml:"replace" toml:"replace"`
	NewTab    bool   `yaml:"new_tab" toml:"new_tab"`

	// Prefetch is the usual shorthand: a bool or a table with enabled,
	// delay, strategy keys. It is resolved through Normalize.
	Prefetch any `yaml:"prefetch" toml:"prefetch"`
}

// Menu is a declarative navigation menu, typically loaded from a YAML or
// TOML file alongside the application's other configuration.
type Menu struct {
	Items []MenuItem `yaml:"items" toml:"items" validate:"dive"`
}

var menuValidator = validator.New()

// LoadMenu reads and validates a menu file. The format is detected from the
// extension: .yaml/.yml or .toml.
func LoadMenu(path string) (*Menu, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read menu file: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseMenuYAML(data)
	case ".toml":
		return ParseMenuTOML(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrMenuFormat, path)
	}
}

// ParseMenuYAML parses and validates a YAML menu definition.
func ParseMenuYAML(data []byte) (*Menu, error) {
	var m Menu
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse menu yaml: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// ParseMenuTOML parses and validates a TOML menu definition.
func ParseMenuTOML(data []byte) (*Menu, error) {
	var m Menu
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse menu toml: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks every item against its constraints: href required, match
// and element restricted to their known values.
func (m *Menu) Validate() error {
	if err := menuValidator.Struct(m); err != nil {
		return fmt.Errorf("%w: %w", ErrMenuInvalid, err)
	}
	return nil
}

// Build constructs a Link per item. The shared options are applied to every
// link after the item's own, so per-call wiring (sinks, diagnostics,
// router context) wins over file content.
//
// Build never fails: a pattern that does not compile is reported through
// the shared options' diagnostics (once the link is built) and leaves the
// link in pattern mode with no pattern, which never activates.
func (m *Menu) Build(shared ...Option) []*Link {
	links := make([]*Link, 0, len(m.Items))
	for _, item := range m.Items {
		links = append(links, item.build(shared))
	}
	return links
}

func (item MenuItem) build(shared []Option) *Link {
	opts := make([]Option, 0, len(shared)+10)

	if item.Match != "" {
		opts = append(opts, WithMatchMode(MatchMode(item.Match)))
	}
	var badPattern error
	if item.Pattern != "" {
		re, err := regexp.Compile(item.Pattern)
		if err != nil {
			badPattern = err
			opts = append(opts, WithMatchMode(MatchPattern))
		} else {
			opts = append(opts, WithPattern(re))
		}
	}
	if item.ActiveURL != "" {
		opts = append(opts, WithActiveURL(item.ActiveURL))
	}
	if item.Label != "" {
		opts = append(opts, WithLabel(item.Label))
	}
	if item.Element != "" {
		opts = append(opts, WithElement(Element(item.Element)))
	}
	if item.Tag != "" {
		opts = append(opts, WithCustomTag(item.Tag))
	}
	if item.Class != "" || item.Active != "" || item.Inactive != "" {
		opts = append(opts, WithClasses(item.Class, item.Active, item.Inactive))
	}
	if item.Disabled {
		opts = append(opts, WithDisabled())
	}
	if item.Replace {
		opts = append(opts, WithReplace())
	}
	if item.NewTab {
		opts = append(opts, WithNewTab())
	}
	if item.Prefetch != nil {
		opts = append(opts, WithPrefetch(item.Prefetch))
	}
	opts = append(opts, shared...)

	l := New(item.Href, opts...)
	if badPattern != nil {
		emit(l.diagnostics, DiagMissingPattern, "menu pattern does not compile, link never activates", map[string]any{
			"href":    l.Href(),
			"pattern": item.Pattern,
			"error":   badPattern.Error(),
		})
	}
	return l
}
