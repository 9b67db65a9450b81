// Package pnp is the public API for resolving JavaScript import/require
// specifiers through a Yarn Plug'n'Play manifest. See SPEC_FULL.md for the
// full design; this package is intentionally a thin facade over
// internal/manifest, internal/resolver, and internal/fs.
package pnp

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/gopnp/pnp/internal/config"
	"github.com/gopnp/pnp/internal/fs"
	"github.com/gopnp/pnp/internal/manifest"
	"github.com/gopnp/pnp/internal/resolver"
)

// Manifest is an opaque, immutable handle returned by Load.
type Manifest struct {
	inner *manifest.Manifest
	fsys  fs.FS
}

// ResultKind classifies what Resolve found.
type ResultKind uint8

const (
	// ResultFile means Result.Path holds a resolved absolute file path.
	ResultFile ResultKind = iota
	// ResultBuiltin means the specifier named a Node builtin module.
	ResultBuiltin
	// ResultBypass means the caller should resolve the specifier itself
	// using host (non-PnP) rules: the ignore pattern matched, or the
	// specifier belongs to a portal package's own undeclared dependency.
	ResultBypass
)

// Result is Resolve's return value.
type Result struct {
	Kind ResultKind
	Path string
}

// Options re-exports internal/resolver.Options so callers never need to
// import an internal package to configure the resolver.
type Options = resolver.Options

// DefaultOptions re-exports internal/resolver.DefaultOptions.
func DefaultOptions() Options {
	return resolver.DefaultOptions()
}

// LoadOptions reads manifestDir's config.FileName overlay, if present, and
// applies it on top of DefaultOptions(); a caller that doesn't want a
// project-local ".pnprc.yaml" honored should just call DefaultOptions
// instead. manifestDir is typically filepath.Dir of the path passed to Load.
func LoadOptions(manifestDir string) (Options, error) {
	return config.LoadOptions(filepath.Join(manifestDir, config.FileName))
}

// Load reads and parses the manifest at path (either a ".pnp.cjs" or a bare
// JSON ".pnp.data.json" file) using the real filesystem, wrapped with ZIP
// support so packages installed as zip archives resolve transparently.
func Load(path string) (*Manifest, error) {
	return LoadWithFS(fs.ZipFS(fs.RealFS()), path)
}

// LoadWithFS is Load, but with an explicit file oracle; tests use this with
// fs.MockFS to avoid touching the real filesystem.
func LoadWithFS(fsys fs.FS, path string) (*Manifest, error) {
	contents, err := fsys.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %q: %w", path, err)
	}

	dir := fsys.Dir(path)
	m, err := manifest.Parse([]byte(contents), dir)
	if err != nil {
		return nil, err
	}

	return &Manifest{inner: m, fsys: fsys}, nil
}

// FindClosestManifestPath walks upward from start looking for a file named
// ".pnp.cjs" or ".pnp.data.json", returning the first one found.
func FindClosestManifestPath(start string) (string, bool) {
	return fs.FindClosestManifestPath(fs.RealFS(), start, nil)
}

// Resolve resolves specifier as imported/required from parentPath against
// m. ctx is threaded through purely to carry a request-scoped structured
// logger (see internal/resolver/log.go); it is never checked for
// cancellation, since every resolution is O(log N) in manifest size plus a
// bounded number of filesystem probes.
func (m *Manifest) Resolve(ctx context.Context, specifier string, parentPath string, opts Options) (Result, error) {
	log := resolver.LoggerFromContext(ctx)

	dbg := (*resolver.DebugLogs)(nil)
	if opts.DebugLogs {
		dbg = resolver.NewDebugLogs()
	}

	locResult, err := resolver.ResolveToLocator(m.inner, specifier, parentPath, opts, dbg)
	if err != nil {
		log.Debug("resolve failed", "specifier", specifier, "parent", parentPath, "error", err)
		return Result{}, err
	}

	switch locResult.Sentinel {
	case resolver.BuiltinSentinel:
		return Result{Kind: ResultBuiltin}, nil
	case resolver.BypassSentinel:
		return Result{Kind: ResultBypass}, nil
	case resolver.PathSentinel:
		return Result{Kind: ResultFile, Path: locResult.Path}, nil
	}

	path, err := resolver.LocatorToFile(m.fsys, m.inner, locResult.Locator, locResult.Subpath, opts, dbg)
	if err != nil {
		log.Debug("path resolution failed", "specifier", specifier, "parent", parentPath, "error", err)
		return Result{}, err
	}

	log.Debug("resolved", "specifier", specifier, "parent", parentPath, "path", path)
	return Result{Kind: ResultFile, Path: path}, nil
}
