// Package fs is the file oracle the rest of this module consumes (see §6 of
// SPEC_FULL.md): given a path it reports whether a file, a directory, or
// nothing lives there, and it can read file contents. The real filesystem,
// an in-memory mock used by tests, and the ZIP-aware wrapper in fs_zip.go
// all implement the same interface so the resolver never has to care which
// one it's talking to.
package fs

import "strings"

// EntryKind is the file-oracle's three-way answer to "what's at this path?".
type EntryKind uint8

const (
	Absent EntryKind = iota
	FileEntry
	DirEntry
)

func (k EntryKind) String() string {
	switch k {
	case FileEntry:
		return "file"
	case DirEntry:
		return "dir"
	default:
		return "absent"
	}
}

// FS is the file oracle. Path arguments and return values are always owned
// strings; no implementation here hands back a borrowed path type.
type FS interface {
	// Stat reports whether path is a file, a directory, or absent. It never
	// returns an error; an inaccessible path is reported as Absent.
	Stat(path string) EntryKind

	ReadFile(path string) (contents string, err error)
	ReadDir(path string) (entries map[string]EntryKind, err error)

	IsAbs(path string) bool
	Abs(path string) (string, bool)
	Dir(path string) string
	Base(path string) string
	Ext(path string) string
	Join(parts ...string) string
	Cwd() string
	Rel(base string, target string) (string, bool)
	EvalSymlinks(path string) (string, bool)

	// CaseInsensitive reports whether path comparisons on this filesystem
	// should be done on a case-normalized key. The original casing is always
	// preserved in returned paths; only comparisons are folded.
	CaseInsensitive() bool
}

// CaseNormalize produces the comparison key used by the manifest index (C3)
// and by path-prefix comparisons in C1 on case-insensitive filesystems. This
// implementation folds on ASCII case only, matching the choice esbuild's own
// fs_zip.go makes (strings.ToLower) for the same problem; Unicode case
// folding is deliberately not attempted since package and path names are
// overwhelmingly ASCII and Unicode folding has its own surprising edge cases.
func CaseNormalize(s string) string {
	return strings.ToLower(s)
}
