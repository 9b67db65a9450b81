package manifest

import (
	"sort"
	"strings"
)

// indexEntry is one row of the derived location index described in §3: a
// location prefix paired with the locator that owns it.
type indexEntry struct {
	// key is the case-normalized form of PackageLocation used for
	// comparisons; casing in Locator/PackageLocation itself is untouched.
	key      string
	locator  Locator
	location string
}

// buildIndex constructs the sorted index once, immediately after parsing.
// registryOrder is the insertion order recorded while walking
// packageRegistryData, used to break ties when two locators share a
// location (§3: "insertion order from the registry; the test suite pins
// this behavior").
func (m *Manifest) buildIndex(registryOrder []Locator) {
	entries := make([]indexEntry, 0, len(registryOrder))

	for _, locator := range registryOrder {
		info := m.Lookup(locator)
		if info == nil || info.DiscardFromLookup {
			continue
		}
		entries = append(entries, indexEntry{
			key:      caseNormalize(info.PackageLocation),
			locator:  locator,
			location: info.PackageLocation,
		})
	}

	// A stable sort preserves registryOrder among entries with an equal
	// key, which is exactly the tie-break rule §3 requires.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].key < entries[j].key
	})

	m.index = entries
}

// caseNormalize is the index's own ASCII-lowercasing comparison key; kept
// local to this package (rather than imported from internal/fs) so that
// manifest has no dependency on the file-oracle package, matching the
// teacher's own layering where yarnpnp.go doesn't import the fs package's
// case-folding helper either.
func caseNormalize(s string) string {
	return strings.ToLower(s)
}

// FindOwningLocator returns the locator whose PackageLocation is the
// longest prefix of path, aligned on a path separator, or ok=false if no
// package claims path.
//
// Binary search over the sorted index locates the predecessor in O(log N);
// because a directory's own entry always sorts after its parent's (it
// shares the parent's prefix plus more characters), the predecessor is the
// deepest *candidate* ancestor. A candidate can still turn out not to
// actually be a prefix — a sibling directory whose name happens to sort
// between a package and its true ancestor, e.g. "/a/b-extra/" landing
// between "/a/" and "/a/b/" — in which case any true owner must be a
// separator-terminated prefix of both the path and that candidate, so the
// search key is cut back to their shared directory prefix and the search
// retries below the candidate. Each retry drops at least one directory
// level, so the number of retries is bounded by the path's directory depth,
// not by the index size.
func (m *Manifest) FindOwningLocator(path string) (Locator, bool) {
	key := caseNormalize(path)
	end := len(m.index)

	for end > 0 {
		i := sort.Search(end, func(i int) bool {
			return m.index[i].key > key
		})
		if i == 0 {
			return Locator{}, false
		}
		entry := m.index[i-1]
		if strings.HasPrefix(key, entry.key) {
			return entry.locator, true
		}
		common := 0
		for common < len(key) && common < len(entry.key) && key[common] == entry.key[common] {
			common++
		}
		key = key[:strings.LastIndexAny(key[:common], "/\\")+1]
		end = i - 1
	}
	return Locator{}, false
}
