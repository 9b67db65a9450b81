package resolver

// Options is the programmatic configuration surface for the resolver: which
// extensions and index filenames to probe, which exports conditions are
// active, and whether the optional exports/fallback machinery is turned on.
// A zero Options is invalid; use DefaultOptions and override individual
// fields.
type Options struct {
	// ExtensionOrder is probed, in order, against a candidate path that did
	// not match exactly.
	ExtensionOrder []string

	// IndexFilenames is probed, in order, against a candidate directory.
	IndexFilenames []string

	// Conditions is the active condition set passed to the exports
	// resolver, e.g. {"import", "node", "default"}.
	Conditions map[string]bool

	// UseExports enables the package.json "exports" field. When false,
	// "exports" is ignored even when present, falling back straight to
	// "main"/index probing. Real Yarn installations always have this on;
	// turning it off exists for callers emulating older Node behavior.
	UseExports bool

	// EnableFallback enables C5's fallback-pool consultation. When false,
	// every fallback-eligible miss becomes UndeclaredDependency, for callers
	// that want strict "must be a declared dependency" checks.
	EnableFallback bool

	// ManifestFileNames is a list of manifest file names. No function in
	// this module reads it: fs.FindClosestManifestPath takes its names as an
	// explicit argument, and pnp.FindClosestManifestPath always uses
	// fs.ManifestFileNames.
	ManifestFileNames []string

	// DebugLogs turns on verbose indent-aware step tracing (see debuglog.go).
	DebugLogs bool
}

// DefaultOptions matches Node's own default extension/index probing order
// and enables both exports and fallback, which is the behavior of a real
// Yarn Plug'n'Play install.
func DefaultOptions() Options {
	return Options{
		ExtensionOrder: []string{".js", ".json", ".node"},
		IndexFilenames: []string{"index.js", "index.json", "index.node"},
		Conditions: map[string]bool{
			"node":    true,
			"import":  true,
			"require": true,
			"default": true,
		},
		UseExports:     true,
		EnableFallback: true,
	}
}
