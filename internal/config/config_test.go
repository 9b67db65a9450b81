package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gopnp/pnp/internal/resolver"
)

func TestLoadMissingFileReturnsZeroOverlay(t *testing.T) {
	overlay, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if overlay.UseExports != nil || overlay.ExtensionOrder != nil {
		t.Errorf("expected a zero-value overlay for a missing file, got %+v", overlay)
	}
}

func TestLoadOverridesSelectively(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".pnprc.yaml")
	contents := "useExports: false\nextensionOrder: [\".mjs\", \".js\"]\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	opts, err := LoadOptions(path)
	if err != nil {
		t.Fatalf("LoadOptions: %v", err)
	}
	if opts.UseExports {
		t.Errorf("expected UseExports to be overridden to false")
	}
	if got := opts.ExtensionOrder; len(got) != 2 || got[0] != ".mjs" {
		t.Errorf("ExtensionOrder = %v", got)
	}
	// Fields the overlay didn't mention keep DefaultOptions' values.
	if !opts.EnableFallback {
		t.Errorf("expected EnableFallback to keep its default of true")
	}
}

func TestApplyLeavesBaseUntouchedWhenOverlayEmpty(t *testing.T) {
	base := resolver.DefaultOptions()
	applied := Overlay{}.Apply(base)
	if len(applied.ExtensionOrder) != len(base.ExtensionOrder) {
		t.Errorf("empty overlay changed ExtensionOrder")
	}
	if applied.UseExports != base.UseExports {
		t.Errorf("empty overlay changed UseExports")
	}
}
