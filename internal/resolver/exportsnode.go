package resolver

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// exportsKind is the JSON shape of one node in a package.json "exports"
// tree. Declaration order of object keys is semantically meaningful (first
// matching condition wins), so this package never decodes an exports tree
// into a plain Go map.
type exportsKind uint8

const (
	exportsNull exportsKind = iota
	exportsString
	exportsArray
	exportsObject
)

// exportsNode is one node of a parsed "exports" field, preserving object
// key order via objKeys.
type exportsNode struct {
	kind    exportsKind
	str     string
	arr     []exportsNode
	objKeys []string
	objVals map[string]exportsNode
}

func (n *exportsNode) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		n.kind = exportsNull
		return nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		n.kind = exportsString
		n.str = s
		return nil

	case '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return err
		}
		n.kind = exportsArray
		n.arr = make([]exportsNode, len(raw))
		for i, item := range raw {
			if err := n.arr[i].UnmarshalJSON(item); err != nil {
				return err
			}
		}
		return nil

	case '{':
		keys, vals, err := decodeOrderedObject(trimmed)
		if err != nil {
			return err
		}
		n.kind = exportsObject
		n.objKeys = keys
		n.objVals = vals
		return nil

	default:
		return fmt.Errorf("unsupported exports node: %s", trimmed)
	}
}

// decodeOrderedObject walks data's top-level object with a streaming
// decoder so the original key order survives, which a plain
// map[string]json.RawMessage decode would lose.
func decodeOrderedObject(data []byte) ([]string, map[string]exportsNode, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil, fmt.Errorf("expected object, got %v", tok)
	}

	var keys []string
	vals := make(map[string]exportsNode)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("expected string key, got %v", keyTok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, nil, err
		}

		var node exportsNode
		if err := node.UnmarshalJSON(raw); err != nil {
			return nil, nil, err
		}

		if _, exists := vals[key]; !exists {
			keys = append(keys, key)
		}
		vals[key] = node
	}

	return keys, vals, nil
}

func isConditionsObject(keys []string) bool {
	for _, k := range keys {
		if len(k) > 0 && k[0] == '.' {
			return false
		}
	}
	return true
}
