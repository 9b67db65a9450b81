// Package manifest models a parsed Yarn Plug'n'Play manifest: the package
// registry, the fallback pool, and the derived location index that the
// resolver queries to turn file paths into owning packages and back.
package manifest

// Ident is a package name, e.g. "lodash" or "@scope/name". It is treated
// opaquely by this package except when the caller splits a bare specifier.
type Ident string

// Reference uniquely identifies one installed instance of a package: a
// version, a URL, a workspace marker, or a portal marker. Opaque.
type Reference string

// Locator is the universal key identifying one node in the package graph.
type Locator struct {
	Ident     Ident
	Reference Reference
}

// Top is the sentinel locator representing the project root.
var Top = Locator{Ident: "", Reference: "<top>"}

// LinkType distinguishes ordinarily-installed packages from portals.
type LinkType uint8

const (
	// HardLink is an ordinary installed package.
	HardLink LinkType = iota
	// SoftLink is a portal: its location is user-authored code whose own
	// specifier resolution falls back to host rules for anything not found
	// in PackageDependencies.
	SoftLink
)

// Dependency is the value side of a PackageDependencies entry: either a
// plain reference, a missing-peer marker, or an aliased locator pointing at
// a dependency installed under a different name.
type Dependency struct {
	// Missing is true when the manifest recorded a literal null for this
	// dependency: declared but not installed (an unsatisfied peer).
	Missing bool

	// Reference is set when this dependency resolves to the same Ident,
	// a different Reference. Empty when Alias is set or Missing is true.
	Reference Reference

	// Alias is set when the manifest recorded a two-element
	// [ident, reference] pair: the dependency is installed under a
	// different package identity than the name it's imported as.
	Alias *Locator
}

// Locator resolves a Dependency against the Ident it was declared under,
// producing the locator it actually points to.
func (d Dependency) Locator(declaredAs Ident) Locator {
	if d.Alias != nil {
		return *d.Alias
	}
	return Locator{Ident: declaredAs, Reference: d.Reference}
}

// PackageInformation is everything the manifest records about one locator.
type PackageInformation struct {
	// PackageLocation is recorded in the manifest relative to Manifest.Dir;
	// the parser joins it onto Manifest.Dir, so the stored value is an
	// absolute path that always ends with a trailing separator.
	PackageLocation string

	// PackageDependencies maps a dependency's Ident to how it resolves.
	PackageDependencies map[Ident]Dependency

	// PackagePeers is the set of idents this package declares as peer
	// dependencies. It is parsed and stored only; the resolver does not
	// read it, and MissingPeerDependency errors do not report it.
	PackagePeers map[Ident]bool

	LinkType LinkType

	// DiscardFromLookup excludes this locator from the reverse path index
	// (C3) even though it still participates in dependency graph lookups.
	DiscardFromLookup bool
}

// Manifest is the fully parsed, immutable Yarn PnP manifest plus its
// derived index. Construct with Parse; never mutated afterward.
type Manifest struct {
	// Dir is the absolute directory containing the manifest file. All
	// relative PackageLocation values are resolved against it.
	Dir string

	// Registry maps Ident -> Reference -> PackageInformation. Iteration
	// order for index tie-breaking is captured separately in
	// registryOrder, since Go map iteration order is not stable.
	Registry map[Ident]map[Reference]*PackageInformation

	// FallbackPool maps an Ident to the Dependency consulted when a
	// lookup misses in the issuer's own PackageDependencies and fallback
	// is enabled for that issuer.
	FallbackPool map[Ident]Dependency

	// FallbackExclusionList is the set of locators for which fallback is
	// disabled, keyed by the full locator (not just the ident) per §12 of
	// the supplemented feature set.
	FallbackExclusionList map[Locator]bool

	// IgnorePattern matches paths (relative to Dir) that are outside PnP's
	// authority entirely; nil when the manifest declares no pattern.
	IgnorePattern *IgnorePattern

	EnableTopLevelFallback bool

	// DependencyTreeRoots is the set of locators considered workspace
	// roots; fallback also applies when the issuer is one of these.
	DependencyTreeRoots map[Locator]bool

	// index is the derived, sorted location index built once at the end
	// of parsing; see index.go.
	index []indexEntry
}

// Lookup returns the PackageInformation for a locator, or nil if unknown.
func (m *Manifest) Lookup(l Locator) *PackageInformation {
	refs, ok := m.Registry[l.Ident]
	if !ok {
		return nil
	}
	return refs[l.Reference]
}
