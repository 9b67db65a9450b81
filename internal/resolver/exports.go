package resolver

import "strings"

// ResolveExports implements the default "exports" helper contract described
// in SPEC_FULL.md §6: subpath pattern expansion with at most one "*",
// ordered condition-object matching, array-of-fallbacks, and "null" meaning
// blocked. request is "." for a package-root import or "./sub/path" for a
// subpath import. It returns the resolved path relative to the package
// root (without a leading "./") and ok=false on no match.
func ResolveExports(root exportsNode, request string, conditions map[string]bool) (string, bool) {
	if root.kind == exportsString || root.kind == exportsArray {
		if request != "." {
			return "", false
		}
		return resolveTarget(root, "", conditions)
	}

	if root.kind != exportsObject {
		return "", false
	}

	if isConditionsObject(root.objKeys) {
		if request != "." {
			return "", false
		}
		return resolveConditions(root, "", conditions)
	}

	return resolveSubpathExports(root, request, conditions)
}

// resolveSubpathExports handles the "./foo": "./dist/foo.js" style object,
// including pattern keys containing a single "*".
func resolveSubpathExports(root exportsNode, request string, conditions map[string]bool) (string, bool) {
	// Exact match first.
	if node, ok := root.objVals[request]; ok {
		return resolveTarget(node, "", conditions)
	}

	// Then the longest matching pattern key, per Node's own
	// "best match" rule: among all "*"-containing keys whose non-star
	// portions are both prefix and suffix of request, the one with the
	// longest literal prefix wins.
	bestKey := ""
	bestPrefixLen := -1
	bestStar := ""
	for _, key := range root.objKeys {
		star := strings.IndexByte(key, '*')
		if star == -1 {
			continue
		}
		prefix, suffix := key[:star], key[star+1:]
		if !strings.HasPrefix(request, prefix) || !strings.HasSuffix(request, suffix) {
			continue
		}
		if len(request) < len(prefix)+len(suffix) {
			continue
		}
		if len(prefix) > bestPrefixLen {
			bestKey = key
			bestPrefixLen = len(prefix)
			bestStar = request[len(prefix) : len(request)-len(suffix)]
		}
	}

	if bestKey == "" {
		return "", false
	}
	return resolveTarget(root.objVals[bestKey], bestStar, conditions)
}

// resolveTarget dereferences a matched node (a string target, a nested
// conditions object, or an array of fallbacks), substituting star into any
// "*" found in a string target.
func resolveTarget(node exportsNode, star string, conditions map[string]bool) (string, bool) {
	switch node.kind {
	case exportsNull:
		return "", false

	case exportsString:
		target := node.str
		if star != "" {
			target = strings.ReplaceAll(target, "*", star)
		}
		return strings.TrimPrefix(target, "./"), true

	case exportsArray:
		for _, item := range node.arr {
			if path, ok := resolveTarget(item, star, conditions); ok {
				return path, true
			}
		}
		return "", false

	case exportsObject:
		return resolveConditions(node, star, conditions)
	}
	return "", false
}

// resolveConditions evaluates a conditions object: keys are tried in
// declaration order, and the first key that is either "default" or present
// (and true) in the active condition set wins.
func resolveConditions(node exportsNode, star string, conditions map[string]bool) (string, bool) {
	for _, key := range node.objKeys {
		if key != "default" && !conditions[key] {
			continue
		}
		if path, ok := resolveTarget(node.objVals[key], star, conditions); ok {
			return path, true
		}
	}
	return "", false
}
