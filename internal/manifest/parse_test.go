package manifest

import "testing"

const minimalManifest = `{
	"packageRegistryData": [
		[null, [[null, {
			"packageLocation": "./",
			"packageDependencies": [["a", "npm:1.0.0"]]
		}]]],
		["a", [["npm:1.0.0", {
			"packageLocation": "./.yarn/cache/a-npm-1.0.0/",
			"packageDependencies": []
		}]]]
	],
	"enableTopLevelFallback": false,
	"fallbackExclusionList": [],
	"fallbackPool": [],
	"dependencyTreeRoots": [{"name": null, "reference": null}],
	"ignorePatternData": null
}`

func TestParseMinimalManifest(t *testing.T) {
	m, err := Parse([]byte(minimalManifest), "/proj")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	top := m.Lookup(Top)
	if top == nil {
		t.Fatalf("expected TOP locator in registry")
	}
	if top.PackageLocation != "/proj/" {
		t.Errorf("TOP packageLocation = %q, want %q", top.PackageLocation, "/proj/")
	}

	dep, ok := top.PackageDependencies["a"]
	if !ok {
		t.Fatalf("expected TOP to depend on %q", "a")
	}
	if dep.Missing || dep.Alias != nil {
		t.Fatalf("dep on %q should be a plain reference, got %+v", "a", dep)
	}
	if dep.Reference != "npm:1.0.0" {
		t.Errorf("dep reference = %q, want %q", dep.Reference, "npm:1.0.0")
	}

	aInfo := m.Lookup(Locator{Ident: "a", Reference: "npm:1.0.0"})
	if aInfo == nil {
		t.Fatalf("expected locator a@npm:1.0.0 in registry")
	}
	if aInfo.PackageLocation != "/proj/.yarn/cache/a-npm-1.0.0/" {
		t.Errorf("a packageLocation = %q", aInfo.PackageLocation)
	}
}

func TestParseMissingPeerDependency(t *testing.T) {
	raw := `{
		"packageRegistryData": [
			[null, [[null, {
				"packageLocation": "./",
				"packageDependencies": [["c", null]]
			}]]]
		]
	}`

	m, err := Parse([]byte(raw), "/proj")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	dep := m.Lookup(Top).PackageDependencies["c"]
	if !dep.Missing {
		t.Errorf("expected dependency %q to be Missing", "c")
	}
}

func TestParseAliasedDependency(t *testing.T) {
	raw := `{
		"packageRegistryData": [
			[null, [[null, {
				"packageLocation": "./",
				"packageDependencies": [["b", ["b-real", "npm:2.0.0"]]]
			}]]],
			["b-real", [["npm:2.0.0", {"packageLocation": "./.yarn/cache/b-real/", "packageDependencies": []}]]]
		]
	}`

	m, err := Parse([]byte(raw), "/proj")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	dep := m.Lookup(Top).PackageDependencies["b"]
	if dep.Alias == nil {
		t.Fatalf("expected dependency %q to be aliased", "b")
	}
	target := dep.Locator("b")
	want := Locator{Ident: "b-real", Reference: "npm:2.0.0"}
	if target != want {
		t.Errorf("aliased target = %+v, want %+v", target, want)
	}
}

func TestParseRejectsMissingTopLocator(t *testing.T) {
	raw := `{"packageRegistryData": []}`
	if _, err := Parse([]byte(raw), "/proj"); err == nil {
		t.Fatalf("expected error for manifest with no TOP locator")
	}
}

func TestParseEmptyPackageLocationIsManifestDir(t *testing.T) {
	raw := `{
		"packageRegistryData": [
			[null, [[null, {"packageLocation": "", "packageDependencies": []}]]]
		]
	}`
	m, err := Parse([]byte(raw), "/proj")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got, want := m.Lookup(Top).PackageLocation, "/proj/"; got != want {
		t.Errorf("empty packageLocation resolved to %q, want %q", got, want)
	}
}

func TestParseExtractsPnpCjsLiteral(t *testing.T) {
	blob := []byte("/* eslint-disable */\nconst RAW_RUNTIME_STATE = " + minimalManifest + ";\nmodule.exports = RAW_RUNTIME_STATE;\n")
	m, err := Parse(blob, "/proj")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if m.Lookup(Top) == nil {
		t.Fatalf("expected TOP locator after extracting .pnp.cjs literal")
	}
}

func TestParseTolerantOfComments(t *testing.T) {
	raw := `{
		// a comment a strict JSON decoder would reject
		"packageRegistryData": [
			[null, [[null, {
				"packageLocation": "./",
				"packageDependencies": [],
			}]]],
		],
	}`
	if _, err := Parse([]byte(raw), "/proj"); err != nil {
		t.Fatalf("Parse with comments/trailing commas: %v", err)
	}
}

func TestParseInvalidManifest(t *testing.T) {
	_, err := Parse([]byte("not json at all {{{"), "/proj")
	if err == nil {
		t.Fatalf("expected InvalidManifest error")
	}
}

func TestParsePackagePeers(t *testing.T) {
	raw := `{
		"packageRegistryData": [
			[null, [[null, {
				"packageLocation": "./",
				"packageDependencies": [],
				"packagePeers": ["react"]
			}]]]
		]
	}`
	m, err := Parse([]byte(raw), "/proj")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !m.Lookup(Top).PackagePeers["react"] {
		t.Errorf("expected %q to be recorded as a peer", "react")
	}
}

func TestParseSoftLinkType(t *testing.T) {
	raw := `{
		"packageRegistryData": [
			[null, [[null, {"packageLocation": "./", "packageDependencies": []}]]],
			["portal-pkg", [["portal:../portal-pkg::locator=top%3A%3A", {
				"packageLocation": "../portal-pkg/",
				"packageDependencies": [],
				"linkType": "SOFT"
			}]]]
		]
	}`
	m, err := Parse([]byte(raw), "/proj")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	info := m.Lookup(Locator{Ident: "portal-pkg", Reference: "portal:../portal-pkg::locator=top%3A%3A"})
	if info == nil {
		t.Fatalf("expected portal locator in registry")
	}
	if info.LinkType != SoftLink {
		t.Errorf("linkType = %v, want SoftLink", info.LinkType)
	}
}
