// Package jsonpath evaluates JSONPath expressions against JSON documents,
// backed by gjson. It supports the dotted subset used by journey conditions
// and extractions: $.a.b, bracket notation, array indexes, and [*] wildcards.
package jsonpath

import (
	"strings"

	"github.com/tidwall/gjson"
)

// Lookup evaluates a JSONPath expression against a JSON document and returns
// the matched value as a decoded Go value (string, float64, bool, nil,
// []interface{}, or map[string]interface{}).
//
// The second return value reports whether the path matched anything. An
// invalid document or an empty match both return (nil, false); lookups never
// fail with an error.
//
// Wildcard matches follow collapse semantics: a wildcard path that matches
// exactly one element yields that element as a scalar, while multi-element
// matches stay arrays. An explicit (non-wildcard) path to an array returns
// the array untouched.
func Lookup(doc, path string) (interface{}, bool) {
	if doc == "" || path == "" {
		return nil, false
	}
	if !gjson.Valid(doc) {
		return nil, false
	}

	result := gjson.Get(doc, toGjsonPath(path))
	if !result.Exists() {
		return nil, false
	}

	value := result.Value()

	if isWildcard(path) {
		arr, ok := value.([]interface{})
		if !ok {
			return value, true
		}
		switch len(arr) {
		case 0:
			return nil, false
		case 1:
			return arr[0], true
		default:
			return arr, true
		}
	}

	return value, true
}

// Exists reports whether the path matches a non-null value in the document.
func Exists(doc, path string) bool {
	v, ok := Lookup(doc, path)
	return ok && v != nil
}

// isWildcard reports whether the path contains a multi-match construct.
func isWildcard(path string) bool {
	return strings.Contains(path, "[*]")
}

// toGjsonPath converts a JSONPath expression into gjson path syntax.
//
//	JSONPath: $.users[0].name   gjson: users.0.name
//	JSONPath: $.items[*].id     gjson: items.#.id
func toGjsonPath(path string) string {
	if path == "$" {
		return "@this"
	}

	path = strings.TrimPrefix(path, "$")
	path = strings.TrimPrefix(path, ".")
	if path == "" {
		return "@this"
	}

	// Bracket notation: ['name'] / ["name"] -> .name
	replacer := strings.NewReplacer(
		"['", ".", "']", "",
		`["`, ".", `"]`, "",
	)
	path = replacer.Replace(path)

	// Wildcards before plain indexes so [*] doesn't become .*
	path = strings.ReplaceAll(path, "[*]", ".#")

	// Array indexes: [0] -> .0
	path = strings.ReplaceAll(path, "[", ".")
	path = strings.ReplaceAll(path, "]", "")

	// A trailing # would be a gjson length query; $.items[*] means the
	// elements themselves, which is the array.
	path = strings.TrimSuffix(path, ".#")

	return strings.TrimPrefix(path, ".")
}
