package fs

// The Yarn package manager (https://yarnpkg.com/) has a custom installation
// strategy called "Plug'n'Play" where they install packages as zip files
// instead of directory trees, and then modify Node to treat zip files like
// directories. This reduces package installation time because Yarn only has
// to copy a single file per package instead of a whole directory tree.
//
// This file wraps an inner FS and makes paths like "/cache/foo.zip/index.js"
// transparently resolve into the "index.js" entry of "foo.zip". The inner FS
// (real or mock) serves every path that is not inside a zip; the archive
// itself is always opened from the host filesystem by ziparchive.Open,
// whichever inner FS is wrapped. The central-directory indexing
// itself lives in internal/ziparchive; this file only owns the "does this
// path cross a zip boundary" decision and the Yarn virtual-path mangling.
//
// This file also implements another Yarn-specific behavior where certain
// path segments, "__virtual__" or "$$virtual", have unusual behavior: they
// encode how many directories to strip so that a package installed once can
// be presented at multiple virtual locations for different sets of peer
// dependencies. See ParseYarnPnPVirtualPath below for details.

import (
	"strconv"
	"strings"
	"sync"

	"github.com/gopnp/pnp/internal/ziparchive"
)

type zipFS struct {
	inner FS

	mu    sync.Mutex
	zips  map[string]*zipFS_entry
}

type zipFS_entry struct {
	archive *ziparchive.Archive
	err     error
	ready   sync.WaitGroup
}

// ZipFS wraps inner so that any path containing a ".zip" directory boundary
// is transparently served out of the archive instead of failing to exist.
func ZipFS(inner FS) FS {
	return &zipFS{inner: inner, zips: make(map[string]*zipFS_entry)}
}

func (f *zipFS) splitZipBoundary(path string, wantKind EntryKind) (zipPath string, pathTail string, ok bool) {
	normalized := strings.ReplaceAll(path, "\\", "/")
	if i := strings.Index(normalized, ".zip/"); i != -1 {
		return normalized[:i+len(".zip")], normalized[i+len(".zip/"):], true
	}
	if wantKind == DirEntry && strings.HasSuffix(normalized, ".zip") {
		return normalized, "", true
	}
	return "", "", false
}

func (f *zipFS) openArchive(zipPath string) (*ziparchive.Archive, error) {
	f.mu.Lock()
	entry := f.zips[zipPath]
	if entry != nil {
		f.mu.Unlock()
		entry.ready.Wait()
		return entry.archive, entry.err
	}
	entry = &zipFS_entry{}
	entry.ready.Add(1)
	f.zips[zipPath] = entry
	f.mu.Unlock()

	entry.archive, entry.err = ziparchive.Open(zipPath)
	entry.ready.Done()
	return entry.archive, entry.err
}

func (f *zipFS) Stat(path string) EntryKind {
	path = mangleYarnPnPVirtualPath(path)
	if kind := f.inner.Stat(path); kind != Absent {
		return kind
	}

	if zipPath, tail, ok := f.splitZipBoundary(path, FileEntry); ok {
		if archive, err := f.openArchive(zipPath); err == nil {
			if kind := archive.Stat(tail); kind != ziparchive.Absent {
				return EntryKind(kind)
			}
		}
	}
	if zipPath, tail, ok := f.splitZipBoundary(path, DirEntry); ok {
		if archive, err := f.openArchive(zipPath); err == nil {
			if kind := archive.Stat(tail); kind != ziparchive.Absent {
				return EntryKind(kind)
			}
		}
	}
	return Absent
}

func (f *zipFS) ReadFile(path string) (string, error) {
	path = mangleYarnPnPVirtualPath(path)

	contents, err := f.inner.ReadFile(path)
	if err == nil {
		return contents, nil
	}

	zipPath, tail, ok := f.splitZipBoundary(path, FileEntry)
	if !ok {
		return "", err
	}

	archive, archErr := f.openArchive(zipPath)
	if archErr != nil {
		return "", archErr
	}
	return archive.ReadFile(tail)
}

func (f *zipFS) ReadDir(path string) (map[string]EntryKind, error) {
	path = mangleYarnPnPVirtualPath(path)

	entries, err := f.inner.ReadDir(path)
	if err == nil {
		return entries, nil
	}

	zipPath, tail, ok := f.splitZipBoundary(path, DirEntry)
	if !ok {
		return nil, err
	}

	archive, archErr := f.openArchive(zipPath)
	if archErr != nil {
		return nil, archErr
	}
	zipEntries, found := archive.ReadDir(tail)
	if !found {
		return nil, err
	}

	out := make(map[string]EntryKind, len(zipEntries))
	for name, kind := range zipEntries {
		out[name] = EntryKind(kind)
	}
	return out, nil
}

func (f *zipFS) IsAbs(path string) bool { return f.inner.IsAbs(path) }

func (f *zipFS) Abs(path string) (string, bool) { return f.inner.Abs(path) }

func (f *zipFS) Dir(path string) string {
	if prefix, suffix, ok := ParseYarnPnPVirtualPath(path); ok && suffix == "" {
		return prefix
	}
	return f.inner.Dir(path)
}

func (f *zipFS) Base(path string) string { return f.inner.Base(path) }

func (f *zipFS) Ext(path string) string { return f.inner.Ext(path) }

func (f *zipFS) Join(parts ...string) string { return f.inner.Join(parts...) }

func (f *zipFS) Cwd() string { return f.inner.Cwd() }

func (f *zipFS) Rel(base string, target string) (string, bool) { return f.inner.Rel(base, target) }

func (f *zipFS) EvalSymlinks(path string) (string, bool) { return f.inner.EvalSymlinks(path) }

func (f *zipFS) CaseInsensitive() bool { return true }

// ParseYarnPnPVirtualPath splits a path into the portion before a
// "__virtual__"/"$$virtual" segment (after applying the requested number of
// ".." operations) and the portion after it. It returns ok=false if the path
// contains no such segment.
func ParseYarnPnPVirtualPath(path string) (string, string, bool) {
	i := 0

	for {
		start := i
		slash := strings.IndexAny(path[i:], "/\\")
		if slash == -1 {
			break
		}
		i += slash + 1

		// Replace the segments "__virtual__/<hash>/<n>" with N times the ".."
		// operation. The "__virtual__" folder name appeared with Yarn 3.0;
		// earlier releases used "$$virtual" but it was changed after
		// discovering that the pattern triggered bugs in software that used
		// paths as regexps or replacement strings: "$$" found in the second
		// argument of String.prototype.replace silently turns into "$".
		if segment := path[start : i-1]; segment == "__virtual__" || segment == "$$virtual" {
			if slash := strings.IndexAny(path[i:], "/\\"); slash != -1 {
				var count string
				var suffix string
				j := i + slash + 1

				if slash := strings.IndexAny(path[j:], "/\\"); slash != -1 {
					count = path[j : j+slash]
					suffix = path[j+slash:]
				} else {
					count = path[j:]
				}

				if n, err := strconv.ParseInt(count, 10, 64); err == nil {
					prefix := path[:start]

					for n > 0 && (strings.HasSuffix(prefix, "/") || strings.HasSuffix(prefix, "\\")) {
						slash := strings.LastIndexAny(prefix[:len(prefix)-1], "/\\")
						if slash == -1 {
							break
						}
						prefix = prefix[:slash+1]
						n--
					}

					if suffix == "" && strings.IndexAny(prefix, "/\\") != strings.LastIndexAny(prefix, "/\\") {
						prefix = prefix[:len(prefix)-1]
					} else if prefix == "" {
						prefix = "."
					} else if strings.HasPrefix(suffix, "/") || strings.HasPrefix(suffix, "\\") {
						suffix = suffix[1:]
					}

					return prefix, suffix, true
				}
			}
		}
	}

	return "", "", false
}

func mangleYarnPnPVirtualPath(path string) string {
	if prefix, suffix, ok := ParseYarnPnPVirtualPath(path); ok {
		return prefix + suffix
	}
	return path
}
