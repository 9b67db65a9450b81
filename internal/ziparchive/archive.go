// Package ziparchive indexes a zip file's central directory so the resolver
// can treat the archive as a directory tree without re-scanning it on every
// lookup. This is the Yarn PnP "packages are installed as zip files" trick
// (see SPEC_FULL.md §4.4/C4): Yarn's zero-install mode stores each package as
// a single .zip under .yarn/cache and the resolver has to open files that
// live inside it as if they were ordinary files on disk.
package ziparchive

import (
	"archive/zip"
	"io"
	"strings"
	"sync"

	"github.com/klauspost/compress/flate"

	"github.com/gopnp/pnp/internal/pnperr"
)

// EntryKind mirrors fs.EntryKind without importing the fs package, keeping
// this package usable independently of the resolver's file-oracle contract.
type EntryKind uint8

const (
	Absent EntryKind = iota
	FileEntry
	DirEntry
)

// Archive is a lazily-decompressing index over one zip file's contents. A
// zero Archive is not usable; construct one with Open.
type Archive struct {
	reader *zip.ReadCloser

	// dirs and files are both keyed by lower-cased path for case-insensitive
	// lookups, matching Yarn's own on-disk package naming which is never
	// case-sensitive in practice. The keys carry no leading or trailing
	// slash; the root directory is the empty string.
	dirs  map[string]map[string]EntryKind
	files map[string]*zip.File

	mu       sync.Mutex
	contents map[string]cachedFile
}

type cachedFile struct {
	data string
	err  error
}

// Open reads and indexes the zip file's central directory. It does not
// decompress any entry; that happens lazily in ReadFile.
func Open(path string) (*Archive, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, &pnperr.Error{Kind: pnperr.ZipCorrupted, Parent: path, Err: err}
	}

	// archive/zip's built-in flate decompressor is pure Go and allocates a new
	// reader state machine per call. klauspost/compress/flate implements the
	// same DEFLATE format with a faster decoder; registering it on this reader
	// swaps the decoder for every entry read through this Archive. archive/zip
	// already registers Deflate process-wide, so the package-level
	// zip.RegisterDecompressor would panic for it.
	reader.RegisterDecompressor(zip.Deflate, func(r io.Reader) io.ReadCloser {
		return flate.NewReader(r)
	})

	a := &Archive{
		reader:   reader,
		dirs:     make(map[string]map[string]EntryKind),
		files:    make(map[string]*zip.File),
		contents: make(map[string]cachedFile),
	}
	a.index()
	return a, nil
}

func (a *Archive) ensureDir(lowerDir string) map[string]EntryKind {
	dir, ok := a.dirs[lowerDir]
	if !ok {
		dir = make(map[string]EntryKind)
		a.dirs[lowerDir] = dir
	}
	return dir
}

func (a *Archive) index() {
	var leafDirs []string

	for _, file := range a.reader.File {
		name := strings.TrimSuffix(file.Name, "/")
		dirPath, baseName := splitPath(name)
		lowerDir := strings.ToLower(dirPath)

		if file.FileInfo().IsDir() {
			a.ensureDir(lowerDir)
			leafDirs = append(leafDirs, lowerDir)
			continue
		}

		a.files[strings.ToLower(name)] = file
		a.ensureDir(lowerDir)[strings.ToLower(baseName)] = FileEntry
	}

	// Every directory implied by a file or directory path but never listed
	// explicitly in the central directory (common for files added by
	// command-line zip tools) still needs a DirEntry in its own parent.
	for _, lowerDir := range leafDirs {
		a.linkAncestors(lowerDir)
	}
	for lowerDir := range a.dirs {
		a.linkAncestors(lowerDir)
	}
}

func (a *Archive) linkAncestors(lowerDir string) {
	for lowerDir != "" {
		parent, base := splitPath(lowerDir)
		a.ensureDir(parent)[base] = DirEntry
		lowerDir = parent
	}
}

func splitPath(p string) (dir string, base string) {
	if slash := strings.LastIndexByte(p, '/'); slash != -1 {
		return p[:slash], p[slash+1:]
	}
	return "", p
}

// Stat reports whether subPath (no leading slash, "/"-separated, relative to
// the archive root) names a file, a directory, or nothing.
func (a *Archive) Stat(subPath string) EntryKind {
	subPath = strings.Trim(subPath, "/")
	lower := strings.ToLower(subPath)
	if _, ok := a.files[lower]; ok {
		return FileEntry
	}
	if _, ok := a.dirs[lower]; ok {
		return DirEntry
	}
	return Absent
}

// ReadDir lists the entries of the directory at subPath, with base names
// lower-cased to match the case-insensitive index; the caller's file oracle
// is responsible for case display if it needs original casing preserved.
func (a *Archive) ReadDir(subPath string) (map[string]EntryKind, bool) {
	subPath = strings.Trim(subPath, "/")
	dir, ok := a.dirs[strings.ToLower(subPath)]
	if !ok {
		return nil, false
	}
	out := make(map[string]EntryKind, len(dir))
	for k, v := range dir {
		out[k] = v
	}
	return out, true
}

// ReadFile decompresses and returns the contents of subPath, caching the
// result so repeated reads of the same archive entry (common when a
// resolution walk probes index.js, index.json, package.json in sequence
// inside the same package) only pay the inflate cost once.
func (a *Archive) ReadFile(subPath string) (string, error) {
	lower := strings.ToLower(strings.Trim(subPath, "/"))

	a.mu.Lock()
	if cached, ok := a.contents[lower]; ok {
		a.mu.Unlock()
		return cached.data, cached.err
	}
	a.mu.Unlock()

	file, ok := a.files[lower]
	if !ok {
		return "", &pnperr.Error{Kind: pnperr.ZipMissingEntry, Specifier: subPath}
	}

	reader, err := file.Open()
	if err != nil {
		wrapped := &pnperr.Error{Kind: pnperr.ZipCorrupted, Specifier: subPath, Err: err}
		a.store(lower, "", wrapped)
		return "", wrapped
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		wrapped := &pnperr.Error{Kind: pnperr.ZipCorrupted, Specifier: subPath, Err: err}
		a.store(lower, "", wrapped)
		return "", wrapped
	}

	contents := string(data)
	a.store(lower, contents, nil)
	return contents, nil
}

func (a *Archive) store(lower string, data string, err error) {
	a.mu.Lock()
	a.contents[lower] = cachedFile{data: data, err: err}
	a.mu.Unlock()
}

// Close releases the underlying zip file handle.
func (a *Archive) Close() error {
	return a.reader.Close()
}
