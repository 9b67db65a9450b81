package manifest

import "regexp"

// IgnorePattern wraps the manifest's optional ignorePatternData regex. Files
// whose project-relative path matches are treated as outside PnP's
// authority: the resolver defers to the host resolver instead of raising.
//
// The Rust implementation this spec was distilled from compiles this field
// with fancy_regex for backtracking support; no corpus example wires an
// equivalent backtracking engine for Go, and Yarn's own ignore patterns in
// practice are anchored alternations that RE2 (stdlib regexp) handles
// natively, so this stays on the standard library (see DESIGN.md).
type IgnorePattern struct {
	re *regexp.Regexp
}

// CompileIgnorePattern compiles the raw regex source recorded in the
// manifest's ignorePatternData field.
func CompileIgnorePattern(source string) (*IgnorePattern, error) {
	re, err := regexp.Compile(source)
	if err != nil {
		return nil, err
	}
	return &IgnorePattern{re: re}, nil
}

// Match reports whether relPath (relative to the manifest directory) falls
// outside PnP's authority.
func (p *IgnorePattern) Match(relPath string) bool {
	if p == nil {
		return false
	}
	return p.re.MatchString(relPath)
}
