package resolver

import (
	"errors"
	"testing"

	"github.com/gopnp/pnp/internal/manifest"
	"github.com/gopnp/pnp/internal/pnperr"
)

func mustParse(t *testing.T, raw string, dir string) *manifest.Manifest {
	t.Helper()
	m, err := manifest.Parse([]byte(raw), dir)
	if err != nil {
		t.Fatalf("manifest.Parse: %v", err)
	}
	return m
}

const directDepManifest = `{
	"packageRegistryData": [
		[null, [[null, {
			"packageLocation": "./",
			"packageDependencies": [["a", "npm:1.0.0"]]
		}]]],
		["a", [["npm:1.0.0", {"packageLocation": "./.yarn/cache/a-1/", "packageDependencies": []}]]]
	]
}`

func TestResolveToLocatorDirectDependency(t *testing.T) {
	m := mustParse(t, directDepManifest, "/proj")

	result, err := ResolveToLocator(m, "a", "/proj/src/x.js", DefaultOptions(), nil)
	if err != nil {
		t.Fatalf("ResolveToLocator: %v", err)
	}
	if result.Sentinel != NoSentinel {
		t.Fatalf("sentinel = %v, want NoSentinel", result.Sentinel)
	}
	want := manifest.Locator{Ident: "a", Reference: "npm:1.0.0"}
	if result.Locator != want {
		t.Errorf("locator = %+v, want %+v", result.Locator, want)
	}
}

func TestResolveToLocatorMissingPeer(t *testing.T) {
	raw := `{
		"packageRegistryData": [
			[null, [[null, {"packageLocation": "./", "packageDependencies": []}]]],
			["b", [["npm:1.0.0", {"packageLocation": "./.yarn/cache/b-1/", "packageDependencies": [["c", null]]}]]]
		]
	}`
	m := mustParse(t, raw, "/proj")

	_, err := ResolveToLocator(m, "c", "/proj/.yarn/cache/b-1/i.js", DefaultOptions(), nil)
	pe := asPnpErr(t, err)
	if pe.Kind.String() != "MissingPeerDependency" {
		t.Errorf("Kind = %v, want MissingPeerDependency", pe.Kind)
	}
}

func TestResolveToLocatorTopLevelFallback(t *testing.T) {
	raw := `{
		"packageRegistryData": [
			[null, [[null, {"packageLocation": "./", "packageDependencies": []}]]],
			["d", [["npm:2.0.0", {"packageLocation": "./.yarn/cache/d-2/", "packageDependencies": []}]]]
		],
		"enableTopLevelFallback": true,
		"fallbackPool": [["d", "npm:2.0.0"]]
	}`
	m := mustParse(t, raw, "/proj")

	result, err := ResolveToLocator(m, "d", "/proj/src/x.js", DefaultOptions(), nil)
	if err != nil {
		t.Fatalf("ResolveToLocator: %v", err)
	}
	want := manifest.Locator{Ident: "d", Reference: "npm:2.0.0"}
	if result.Locator != want {
		t.Errorf("locator = %+v, want %+v", result.Locator, want)
	}
}

func TestResolveToLocatorFallbackExclusion(t *testing.T) {
	raw := `{
		"packageRegistryData": [
			[null, [[null, {"packageLocation": "./", "packageDependencies": []}]]],
			["d", [["npm:2.0.0", {"packageLocation": "./.yarn/cache/d-2/", "packageDependencies": []}]]]
		],
		"enableTopLevelFallback": true,
		"fallbackPool": [["d", "npm:2.0.0"]],
		"fallbackExclusionList": [[null, ["<top>"]]]
	}`
	m := mustParse(t, raw, "/proj")

	_, err := ResolveToLocator(m, "d", "/proj/src/x.js", DefaultOptions(), nil)
	pe := asPnpErr(t, err)
	if pe.Kind.String() != "UndeclaredDependency" {
		t.Errorf("Kind = %v, want UndeclaredDependency", pe.Kind)
	}
}

func TestResolveToLocatorPortalPassThrough(t *testing.T) {
	raw := `{
		"packageRegistryData": [
			[null, [[null, {"packageLocation": "./", "packageDependencies": [["portal-pkg", "portal:..::locator=top"]]}]]],
			["portal-pkg", [["portal:..::locator=top", {
				"packageLocation": "../portal-pkg/",
				"packageDependencies": [],
				"linkType": "SOFT"
			}]]]
		]
	}`
	m := mustParse(t, raw, "/proj")

	result, err := ResolveToLocator(m, "e", "/portal-pkg/index.js", DefaultOptions(), nil)
	if err != nil {
		t.Fatalf("ResolveToLocator: %v", err)
	}
	if result.Sentinel != BypassSentinel {
		t.Errorf("sentinel = %v, want BypassSentinel", result.Sentinel)
	}
}

func TestResolveToLocatorIgnorePatternBypass(t *testing.T) {
	raw := `{
		"packageRegistryData": [
			[null, [[null, {"packageLocation": "./", "packageDependencies": []}]]]
		],
		"ignorePatternData": "^generated/"
	}`
	m := mustParse(t, raw, "/proj")

	result, err := ResolveToLocator(m, "whatever", "/proj/generated/foo.js", DefaultOptions(), nil)
	if err != nil {
		t.Fatalf("ResolveToLocator: %v", err)
	}
	if result.Sentinel != BypassSentinel {
		t.Errorf("sentinel = %v, want BypassSentinel", result.Sentinel)
	}
}

func TestResolveToLocatorRelativeAndAbsolutePaths(t *testing.T) {
	m := mustParse(t, directDepManifest, "/proj")

	rel, err := ResolveToLocator(m, "./y.js", "/proj/src/x.js", DefaultOptions(), nil)
	if err != nil || rel.Sentinel != PathSentinel || rel.Path != "./y.js" {
		t.Errorf("relative specifier: %+v, err=%v", rel, err)
	}

	abs, err := ResolveToLocator(m, "/abs/path.js", "/proj/src/x.js", DefaultOptions(), nil)
	if err != nil || abs.Sentinel != PathSentinel || abs.Path != "/abs/path.js" {
		t.Errorf("absolute specifier: %+v, err=%v", abs, err)
	}
}

func TestResolveToLocatorBuiltin(t *testing.T) {
	m := mustParse(t, directDepManifest, "/proj")

	for _, spec := range []string{"fs", "node:fs"} {
		result, err := ResolveToLocator(m, spec, "/proj/src/x.js", DefaultOptions(), nil)
		if err != nil || result.Sentinel != BuiltinSentinel {
			t.Errorf("specifier %q: %+v, err=%v", spec, result, err)
		}
	}
}

func TestResolveToLocatorUndeclared(t *testing.T) {
	m := mustParse(t, directDepManifest, "/proj")

	_, err := ResolveToLocator(m, "nonexistent", "/proj/src/x.js", DefaultOptions(), nil)
	pe := asPnpErr(t, err)
	if pe.Kind.String() != "UndeclaredDependency" {
		t.Errorf("Kind = %v, want UndeclaredDependency", pe.Kind)
	}
}

func TestParseBareIdentifier(t *testing.T) {
	cases := []struct {
		specifier   string
		wantIdent   string
		wantSubpath string
	}{
		{"lodash", "lodash", ""},
		{"lodash/fp", "lodash", "/fp"},
		{"@scope/name", "@scope/name", ""},
		{"@scope/name/sub", "@scope/name", "/sub"},
	}
	for _, c := range cases {
		ident, subpath := parseBareIdentifier(c.specifier)
		if string(ident) != c.wantIdent || subpath != c.wantSubpath {
			t.Errorf("parseBareIdentifier(%q) = (%q, %q), want (%q, %q)", c.specifier, ident, subpath, c.wantIdent, c.wantSubpath)
		}
	}
}

func asPnpErr(t *testing.T, err error) *pnperr.Error {
	t.Helper()
	if err == nil {
		t.Fatalf("expected an error, got nil")
	}
	var pe *pnperr.Error
	if !errors.As(err, &pe) {
		t.Fatalf("expected *pnperr.Error, got %T: %v", err, err)
	}
	return pe
}
