// Package config loads an optional project-level YAML document that
// overrides fields of resolver.Options. This is read once at startup and
// never hot-reloaded, matching the resolver's own "load once, immutable"
// lifecycle (SPEC_FULL.md §10).
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gopnp/pnp/internal/resolver"
)

// FileName is the conventional name of the overlay file kept alongside the
// manifest; Load itself reads whatever path it is given.
const FileName = ".pnprc.yaml"

// Overlay is the on-disk shape of the optional configuration document; every
// field is a pointer (or nil-able slice/map) so that an absent key leaves
// the corresponding resolver.Options field untouched.
type Overlay struct {
	ExtensionOrder []string        `yaml:"extensionOrder"`
	IndexFilenames []string        `yaml:"indexFilenames"`
	Conditions     map[string]bool `yaml:"conditions"`
	UseExports     *bool           `yaml:"useExports"`
	EnableFallback *bool           `yaml:"enableFallback"`
	DebugLogs      *bool           `yaml:"debugLogs"`
}

// Load reads and parses path as a YAML Overlay. A missing file is not an
// error: it returns a zero Overlay, so Apply is a no-op.
func Load(path string) (Overlay, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Overlay{}, nil
	}
	if err != nil {
		return Overlay{}, err
	}

	var overlay Overlay
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return Overlay{}, err
	}
	return overlay, nil
}

// Apply layers overlay onto base, returning a new resolver.Options with
// every explicitly-set overlay field replacing base's, and every absent
// field left as base had it.
func (overlay Overlay) Apply(base resolver.Options) resolver.Options {
	out := base

	if overlay.ExtensionOrder != nil {
		out.ExtensionOrder = overlay.ExtensionOrder
	}
	if overlay.IndexFilenames != nil {
		out.IndexFilenames = overlay.IndexFilenames
	}
	if overlay.Conditions != nil {
		out.Conditions = overlay.Conditions
	}
	if overlay.UseExports != nil {
		out.UseExports = *overlay.UseExports
	}
	if overlay.EnableFallback != nil {
		out.EnableFallback = *overlay.EnableFallback
	}
	if overlay.DebugLogs != nil {
		out.DebugLogs = *overlay.DebugLogs
	}

	return out
}

// LoadOptions is the convenience entry point: DefaultOptions overlaid with
// whatever path contains, or DefaultOptions unchanged if path is absent.
func LoadOptions(path string) (resolver.Options, error) {
	overlay, err := Load(path)
	if err != nil {
		return resolver.Options{}, err
	}
	return overlay.Apply(resolver.DefaultOptions()), nil
}
