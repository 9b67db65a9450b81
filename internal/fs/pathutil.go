package fs

import "path/filepath"

// ManifestFileNames is the default set of file names FindClosestManifestPath
// looks for at each directory level, in order. Callers may supply their own
// list for non-standard layouts.
var ManifestFileNames = []string{".pnp.cjs", ".pnp.data.json"}

// FindClosestManifestPath walks upward from start, checking at each
// directory for any of names (default ManifestFileNames), and returns the
// first manifest file found. It is iterative, not recursive, and always
// terminates at the filesystem root without panicking.
func FindClosestManifestPath(fsys FS, start string, names []string) (string, bool) {
	if len(names) == 0 {
		names = ManifestFileNames
	}

	dir := start
	if fsys.Stat(dir) != DirEntry {
		dir = fsys.Dir(dir)
	}

	for {
		for _, name := range names {
			candidate := fsys.Join(dir, name)
			if fsys.Stat(candidate) == FileEntry {
				return candidate, true
			}
		}

		parent := fsys.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// Normalize collapses "." and ".." segments and canonicalizes separators,
// without touching the filesystem. It preserves a leading separator (root)
// and a trailing separator when the input has one, mirroring the original
// Rust implementation's own normalize_path.
func Normalize(p string) string {
	if p == "" {
		return "."
	}

	hasTrailingSlash := p[len(p)-1] == '/' || p[len(p)-1] == '\\'
	cleaned := filepath.Clean(p)

	if hasTrailingSlash && cleaned != string(filepath.Separator) {
		cleaned += string(filepath.Separator)
	}
	return cleaned
}
