package resolver

import (
	"strings"

	"github.com/gopnp/pnp/internal/fs"
	"github.com/gopnp/pnp/internal/manifest"
	"github.com/gopnp/pnp/internal/pnperr"
)

// LocatorToFile implements C6's public contract: locator_to_file. fsys is
// the file oracle (a real filesystem, or one wrapped with fs.ZipFS so that
// ".zip"-segmented package roots resolve transparently).
func LocatorToFile(fsys fs.FS, m *manifest.Manifest, locator manifest.Locator, subpath string, opts Options, dbg *DebugLogs) (string, error) {
	dbg.addNotef("handing off to path resolution for (%q, %q) subpath %q", locator.Ident, locator.Reference, subpath)
	dbg.increaseIndent()
	defer dbg.decreaseIndent()

	info := m.Lookup(locator)
	if info == nil {
		return "", &pnperr.Error{Kind: pnperr.UndeclaredDependency, Ident: string(locator.Ident)}
	}

	root := strings.TrimSuffix(info.PackageLocation, "/")
	root = strings.TrimSuffix(root, "\\")
	dbg.addNotef("package root for (%q, %q) is %q", locator.Ident, locator.Reference, root)

	if subpath == "" || subpath == "/" {
		return resolvePackageRoot(fsys, root, opts, dbg)
	}

	pkg, hasPkg, err := loadPackageJSON(fsys, root)
	if err != nil {
		return "", err
	}

	if opts.UseExports && hasPkg && pkg.hasExports {
		request := "." + subpath
		resolved, ok := ResolveExports(pkg.Exports, request, opts.Conditions)
		if !ok {
			return "", &pnperr.Error{Kind: pnperr.ExportsNotFound, Ident: string(locator.Ident), Specifier: subpath}
		}
		return fsys.Join(root, resolved), nil
	}

	candidate := fsys.Join(root, strings.TrimPrefix(subpath, "/"))
	return probeCandidate(fsys, candidate, opts, dbg)
}

func resolvePackageRoot(fsys fs.FS, root string, opts Options, dbg *DebugLogs) (string, error) {
	pkg, hasPkg, err := loadPackageJSON(fsys, root)
	if err != nil {
		return "", err
	}

	if hasPkg {
		if opts.UseExports && pkg.hasExports {
			resolved, ok := ResolveExports(pkg.Exports, ".", opts.Conditions)
			if ok {
				return fsys.Join(root, resolved), nil
			}
			return "", &pnperr.Error{Kind: pnperr.ExportsNotFound, Specifier: "."}
		}
		if pkg.Main != "" {
			candidate := fsys.Join(root, pkg.Main)
			return probeCandidate(fsys, candidate, opts, dbg)
		}
	}

	return probeCandidate(fsys, root, opts, dbg)
}

// probeCandidate implements §4.6 step 5: try the exact candidate, then each
// extension, then each index filename, in that order; the first path that
// exists (as reported by the file oracle) wins.
func probeCandidate(fsys fs.FS, candidate string, opts Options, dbg *DebugLogs) (string, error) {
	var probed []string

	try := func(path string) (string, bool) {
		probed = append(probed, path)
		kind := fsys.Stat(path)
		dbg.addNotef("probing %q -> %v", path, kind)
		return path, kind == fs.FileEntry
	}

	if path, ok := try(candidate); ok {
		return path, nil
	}

	for _, ext := range opts.ExtensionOrder {
		if path, ok := try(candidate + ext); ok {
			return path, nil
		}
	}

	for _, index := range opts.IndexFilenames {
		if path, ok := try(fsys.Join(candidate, index)); ok {
			return path, nil
		}
	}

	return "", &pnperr.Error{Kind: pnperr.QualifiedPathResolutionFailed, Probed: probed}
}
