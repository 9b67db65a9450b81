package fs

// mockFS is the in-memory file oracle used by the test suite. It never
// touches the real filesystem; it serves a fixed map of path -> contents
// handed to MockFS, the same "mock implementation of the fs module" idea
// the teacher codebase uses for its own resolver tests.

import (
	"errors"
	"path"
	"strings"
)

type MockKind uint8

const (
	MockUnix MockKind = iota
	MockWindows
)

type mockFS struct {
	kind          MockKind
	absWorkingDir string
	files         map[string]string
	dirs          map[string]map[string]EntryKind
}

// MockFS builds a file oracle out of a flat map of absolute path -> file
// contents. Parent directories are synthesized automatically.
func MockFS(input map[string]string, kind MockKind, absWorkingDir string) FS {
	files := make(map[string]string, len(input))
	dirs := make(map[string]map[string]EntryKind)

	keyOf := func(p string) string {
		if kind == MockWindows {
			return "C:" + strings.ReplaceAll(p, "/", "\\")
		}
		return p
	}

	for original, contents := range input {
		files[keyOf(original)] = contents

		child := original
		for {
			parent := path.Dir(child)
			parentKey := keyOf(parent)
			if _, ok := dirs[parentKey]; !ok {
				dirs[parentKey] = make(map[string]EntryKind)
			}
			if parent == child {
				break
			}
			kind := DirEntry
			if child == original {
				kind = FileEntry
			}
			dirs[parentKey][path.Base(child)] = kind
			child = parent
		}
	}

	return &mockFS{kind: kind, absWorkingDir: absWorkingDir, files: files, dirs: dirs}
}

func (f *mockFS) normalize(p string) string {
	if f.kind == MockWindows {
		return strings.ReplaceAll(p, "/", "\\")
	}
	return p
}

func (f *mockFS) Stat(p string) EntryKind {
	p = f.normalize(p)
	if _, ok := f.files[p]; ok {
		return FileEntry
	}
	if _, ok := f.dirs[p]; ok {
		return DirEntry
	}
	return Absent
}

func (f *mockFS) ReadFile(p string) (string, error) {
	p = f.normalize(p)
	if contents, ok := f.files[p]; ok {
		return contents, nil
	}
	return "", errors.New("file does not exist")
}

func (f *mockFS) ReadDir(p string) (map[string]EntryKind, error) {
	p = f.normalize(p)
	if dir, ok := f.dirs[p]; ok {
		return dir, nil
	}
	return nil, errors.New("directory does not exist")
}

func win2unix(p string) string {
	if strings.HasPrefix(p, "C:\\") || strings.HasPrefix(p, "c:\\") {
		p = p[2:]
	}
	return strings.ReplaceAll(p, "\\", "/")
}

func unix2win(p string) string {
	p = strings.ReplaceAll(p, "/", "\\")
	if strings.HasPrefix(p, "\\") {
		p = "C:" + p
	}
	return p
}

func (f *mockFS) IsAbs(p string) bool {
	if f.kind == MockWindows {
		p = win2unix(p)
	}
	return path.IsAbs(p)
}

func (f *mockFS) Abs(p string) (string, bool) {
	if f.kind == MockWindows {
		p = win2unix(p)
	}
	p = path.Clean(path.Join("/", p))
	if f.kind == MockWindows {
		p = unix2win(p)
	}
	return p, true
}

func (f *mockFS) Dir(p string) string {
	if f.kind == MockWindows {
		return unix2win(path.Dir(win2unix(p)))
	}
	return path.Dir(p)
}

func (f *mockFS) Base(p string) string {
	if f.kind == MockWindows {
		p = win2unix(p)
	}
	return path.Base(p)
}

func (f *mockFS) Ext(p string) string {
	if f.kind == MockWindows {
		p = win2unix(p)
	}
	return path.Ext(p)
}

func (f *mockFS) Join(parts ...string) string {
	if f.kind == MockWindows {
		converted := make([]string, len(parts))
		for i, part := range parts {
			converted[i] = win2unix(part)
		}
		parts = converted
	}
	p := path.Clean(path.Join(parts...))
	if f.kind == MockWindows {
		p = unix2win(p)
	}
	return p
}

func (f *mockFS) Cwd() string { return f.absWorkingDir }

func splitOnSlash(p string) (string, string) {
	if slash := strings.IndexByte(p, '/'); slash != -1 {
		return p[:slash], p[slash+1:]
	}
	return p, ""
}

func (f *mockFS) Rel(base string, target string) (string, bool) {
	if f.kind == MockWindows {
		base = win2unix(base)
		target = win2unix(target)
	}
	base = path.Clean(base)
	target = path.Clean(target)

	if base == target {
		return ".", true
	}
	if base == "." {
		base = ""
	}
	if (len(base) > 0 && base[0] == '/') != (len(target) > 0 && target[0] == '/') {
		return "", false
	}

	for {
		bHead, bTail := splitOnSlash(base)
		tHead, tTail := splitOnSlash(target)
		if bHead != tHead {
			break
		}
		base = bTail
		target = tTail
	}

	result := ""
	if base == "" {
		result = target
	} else {
		commonParent := strings.Repeat("../", strings.Count(base, "/")+1)
		if target == "" {
			result = commonParent[:len(commonParent)-1]
		} else {
			result = commonParent + target
		}
	}

	if f.kind == MockWindows {
		result = unix2win(result)
	}
	return result, true
}

func (f *mockFS) EvalSymlinks(p string) (string, bool) {
	return p, true
}

func (f *mockFS) CaseInsensitive() bool {
	return f.kind == MockWindows
}
