package manifest

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/gopnp/pnp/internal/pnperr"
)

// sentinelPrefix and sentinelSuffix bracket the embedded JSON literal in a
// ".pnp.cjs" manifest. The JS source around them is otherwise ignored.
const (
	sentinelPrefix = "const RAW_RUNTIME_STATE = "
	sentinelSuffix = ";"
)

// Parse decodes a manifest blob, either a bare JSON document or a ".pnp.cjs"
// file embedding one between the RAW_RUNTIME_STATE sentinels, and resolves
// every PackageLocation against dir.
func Parse(blob []byte, dir string) (*Manifest, error) {
	literal := extractLiteral(blob)

	sanitized := jsonc.ToJSON(literal)

	var raw rawManifest
	if err := json.Unmarshal(sanitized, &raw); err != nil {
		return nil, &pnperr.Error{Kind: pnperr.InvalidManifest, Err: err}
	}

	return build(&raw, dir)
}

// extractLiteral finds the JSON literal in a ".pnp.cjs" file between the
// sentinels: it runs from the opening sentinel to the first ";" after it.
// If the sentinel is absent, the whole blob is assumed to already be bare
// JSON (the ".pnp.data.json" form).
func extractLiteral(blob []byte) []byte {
	text := string(blob)
	start := strings.Index(text, sentinelPrefix)
	if start == -1 {
		return blob
	}
	start += len(sentinelPrefix)

	end := strings.Index(text[start:], sentinelSuffix)
	if end == -1 {
		return blob
	}

	literal := strings.TrimSpace(text[start : start+end])
	// Yarn wraps the literal in a JSON.parse(`...`) JS string in some
	// generator versions; strip a single layer of backtick/quote wrapping
	// if present so the JSON decoder sees a bare object.
	literal = strings.TrimPrefix(literal, "JSON.parse(")
	literal = strings.TrimSuffix(literal, ")")
	literal = strings.Trim(literal, "`")
	return []byte(literal)
}

// rawManifest mirrors the on-disk schema; encoding/json already preserves
// JSON array order when decoding into Go slices, which is what the index's
// tie-break rule (§3, "insertion order from the registry") depends on.
type rawManifest struct {
	DependencyTreeRoots   []rawLocatorPair `json:"dependencyTreeRoots"`
	EnableTopLevelFallback bool            `json:"enableTopLevelFallback"`
	FallbackExclusionList []rawExclusion   `json:"fallbackExclusionList"`
	FallbackPool          []rawPoolEntry   `json:"fallbackPool"`
	IgnorePatternData     *string          `json:"ignorePatternData"`
	PackageRegistryData   []rawIdentGroup  `json:"packageRegistryData"`
}

type rawLocatorPair struct {
	Name      string `json:"name"`
	Reference string `json:"reference"`
}

// rawExclusion is [ident, [reference, ...]].
type rawExclusion struct {
	Ident      *string
	References []string
}

func (e *rawExclusion) UnmarshalJSON(data []byte) error {
	var tuple [2]json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return err
	}
	if err := json.Unmarshal(tuple[0], &e.Ident); err != nil {
		return err
	}
	return json.Unmarshal(tuple[1], &e.References)
}

// rawPoolEntry is [ident, dependencyValue].
type rawPoolEntry struct {
	Ident *string
	Value json.RawMessage
}

func (e *rawPoolEntry) UnmarshalJSON(data []byte) error {
	var tuple [2]json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return err
	}
	if err := json.Unmarshal(tuple[0], &e.Ident); err != nil {
		return err
	}
	e.Value = tuple[1]
	return nil
}

// rawIdentGroup is [ident, [[reference, packageInfo], ...]].
type rawIdentGroup struct {
	Ident *string
	Refs  []rawRefEntry
}

func (g *rawIdentGroup) UnmarshalJSON(data []byte) error {
	var tuple [2]json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return err
	}
	if err := json.Unmarshal(tuple[0], &g.Ident); err != nil {
		return err
	}
	return json.Unmarshal(tuple[1], &g.Refs)
}

// rawRefEntry is [reference, packageInfo].
type rawRefEntry struct {
	Reference *string
	Info      rawPackageInfo
}

func (e *rawRefEntry) UnmarshalJSON(data []byte) error {
	var tuple [2]json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return err
	}
	if err := json.Unmarshal(tuple[0], &e.Reference); err != nil {
		return err
	}
	return json.Unmarshal(tuple[1], &e.Info)
}

type rawPackageInfo struct {
	PackageLocation     string               `json:"packageLocation"`
	PackageDependencies []rawPoolEntry       `json:"packageDependencies"`
	PackagePeers        []string             `json:"packagePeers"`
	LinkType            string               `json:"linkType"`
	DiscardFromLookup   bool                 `json:"discardFromLookup"`
}

func parseDependencyValue(raw json.RawMessage) (Dependency, error) {
	if raw == nil || string(raw) == "null" {
		return Dependency{Missing: true}, nil
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return Dependency{Reference: Reference(asString)}, nil
	}

	var asPair [2]string
	if err := json.Unmarshal(raw, &asPair); err == nil {
		alias := Locator{Ident: Ident(asPair[0]), Reference: Reference(asPair[1])}
		return Dependency{Alias: &alias}, nil
	}

	return Dependency{}, fmt.Errorf("unrecognized dependency value: %s", raw)
}

func identOf(name *string) Ident {
	if name == nil {
		return ""
	}
	return Ident(*name)
}

func referenceOf(ref *string) Reference {
	if ref == nil {
		return Top.Reference
	}
	return Reference(*ref)
}

func build(raw *rawManifest, dir string) (*Manifest, error) {
	m := &Manifest{
		Dir:                   filepath.Clean(dir),
		Registry:              make(map[Ident]map[Reference]*PackageInformation),
		FallbackPool:          make(map[Ident]Dependency),
		FallbackExclusionList: make(map[Locator]bool),
		DependencyTreeRoots:   make(map[Locator]bool),
		EnableTopLevelFallback: raw.EnableTopLevelFallback,
	}

	var registryOrder []Locator

	for _, group := range raw.PackageRegistryData {
		ident := identOf(group.Ident)
		for _, entry := range group.Refs {
			reference := referenceOf(entry.Reference)
			locator := Locator{Ident: ident, Reference: reference}

			info, err := convertPackageInfo(&entry.Info, m.Dir)
			if err != nil {
				return nil, &pnperr.Error{Kind: pnperr.InvalidManifest, Ident: string(ident), Err: err}
			}

			if m.Registry[ident] == nil {
				m.Registry[ident] = make(map[Reference]*PackageInformation)
			}
			m.Registry[ident][reference] = info
			registryOrder = append(registryOrder, locator)
		}
	}

	for _, entry := range raw.FallbackPool {
		dep, err := parseDependencyValue(entry.Value)
		if err != nil {
			return nil, &pnperr.Error{Kind: pnperr.InvalidManifest, Err: err}
		}
		m.FallbackPool[identOf(entry.Ident)] = dep
	}

	for _, excl := range raw.FallbackExclusionList {
		ident := identOf(excl.Ident)
		for _, ref := range excl.References {
			m.FallbackExclusionList[Locator{Ident: ident, Reference: Reference(ref)}] = true
		}
	}

	for _, root := range raw.DependencyTreeRoots {
		m.DependencyTreeRoots[Locator{Ident: Ident(root.Name), Reference: Reference(root.Reference)}] = true
	}

	if raw.IgnorePatternData != nil && *raw.IgnorePatternData != "" {
		pattern, err := CompileIgnorePattern(*raw.IgnorePatternData)
		if err != nil {
			return nil, &pnperr.Error{Kind: pnperr.InvalidManifest, Err: err}
		}
		m.IgnorePattern = pattern
	}

	if _, ok := m.Registry[Top.Ident][Top.Reference]; !ok {
		return nil, &pnperr.Error{Kind: pnperr.InvalidManifest, Err: fmt.Errorf("manifest has no TOP locator entry")}
	}

	m.buildIndex(registryOrder)

	return m, nil
}

func convertPackageInfo(raw *rawPackageInfo, dir string) (*PackageInformation, error) {
	deps := make(map[Ident]Dependency, len(raw.PackageDependencies))
	for _, entry := range raw.PackageDependencies {
		dep, err := parseDependencyValue(entry.Value)
		if err != nil {
			return nil, err
		}
		deps[identOf(entry.Ident)] = dep
	}

	peers := make(map[Ident]bool, len(raw.PackagePeers))
	for _, p := range raw.PackagePeers {
		peers[Ident(p)] = true
	}

	location := raw.PackageLocation
	if location == "" {
		location = "."
	}
	if !filepath.IsAbs(location) {
		location = filepath.Join(dir, location)
	}
	location = filepath.Clean(location)
	if !strings.HasSuffix(location, string(filepath.Separator)) {
		location += string(filepath.Separator)
	}

	linkType := HardLink
	if strings.EqualFold(raw.LinkType, "soft") {
		linkType = SoftLink
	}

	return &PackageInformation{
		PackageLocation:     location,
		PackageDependencies: deps,
		PackagePeers:        peers,
		LinkType:            linkType,
		DiscardFromLookup:   raw.DiscardFromLookup,
	}, nil
}
