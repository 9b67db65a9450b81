package resolver

import (
	"encoding/json"

	"github.com/tidwall/jsonc"

	"github.com/gopnp/pnp/internal/fs"
	"github.com/gopnp/pnp/internal/pnperr"
)

// packageJSON is the subset of package.json fields C6's path resolution
// needs: "main" for the classic entry-point fallback, and "exports" for the
// modern conditional-exports algorithm. This is deliberately far narrower
// than the teacher's own packageJSON (package_json.go), which additionally
// parses "browser" remapping and "sideEffects" for bundler tree-shaking —
// concerns that belong to esbuild's bundling mission and are out of scope
// here (see DESIGN.md).
type packageJSON struct {
	Main    string
	Exports exportsNode
	hasExports bool
}

type rawPackageJSONFields struct {
	Main    string          `json:"main"`
	Exports json.RawMessage `json:"exports"`
}

// loadPackageJSON reads and parses "package.json" inside dir via fsys,
// tolerating comments/trailing commas the way internal/manifest's parser
// does for the PnP manifest itself. Returns ok=false (no error) when the
// file simply doesn't exist, matching the teacher's "no package.json is not
// a failure" convention for probing package roots.
func loadPackageJSON(fsys fs.FS, dir string) (*packageJSON, bool, error) {
	path := fsys.Join(dir, "package.json")
	if fsys.Stat(path) != fs.FileEntry {
		return nil, false, nil
	}

	contents, err := fsys.ReadFile(path)
	if err != nil {
		return nil, false, &pnperr.Error{Kind: pnperr.IoError, Parent: path, Err: err}
	}

	var raw rawPackageJSONFields
	if err := json.Unmarshal(jsonc.ToJSON([]byte(contents)), &raw); err != nil {
		return nil, false, &pnperr.Error{Kind: pnperr.InvalidManifest, Parent: path, Err: err}
	}

	pkg := &packageJSON{Main: raw.Main}
	if len(raw.Exports) > 0 {
		if err := pkg.Exports.UnmarshalJSON(raw.Exports); err != nil {
			return nil, false, &pnperr.Error{Kind: pnperr.InvalidManifest, Parent: path, Err: err}
		}
		pkg.hasExports = true
	}

	return pkg, true, nil
}
