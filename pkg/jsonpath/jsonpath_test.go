package jsonpath

import (
	"reflect"
	"testing"
)

const userDoc = `{
	"user": {
		"id": 42,
		"name": "alice",
		"active": true,
		"address": {"city": "Oslo"}
	},
	"items": [
		{"id": "a1", "qty": 2},
		{"id": "b2", "qty": 0}
	],
	"tags": ["x"],
	"nothing": null
}`

func TestLookup(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		want  interface{}
		found bool
	}{
		{"nested field", "$.user.name", "alice", true},
		{"numeric field", "$.user.id", float64(42), true},
		{"boolean field", "$.user.active", true, true},
		{"deep field", "$.user.address.city", "Oslo", true},
		{"array index", "$.items[0].id", "a1", true},
		{"second index", "$.items[1].qty", float64(0), true},
		{"bracket notation", `$['user']['name']`, "alice", true},
		{"missing field", "$.user.email", nil, false},
		{"missing index", "$.items[9].id", nil, false},
		{"null value", "$.nothing", nil, true},
		{"without dollar prefix", "user.name", "alice", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := Lookup(userDoc, tt.path)
			if found != tt.found {
				t.Fatalf("Lookup(%q) found = %v, want %v", tt.path, found, tt.found)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Lookup(%q) = %#v, want %#v", tt.path, got, tt.want)
			}
		})
	}
}

func TestLookupWildcard(t *testing.T) {
	// Multi-element wildcard matches stay arrays.
	got, found := Lookup(userDoc, "$.items[*].id")
	if !found {
		t.Fatal("Expected wildcard path to match")
	}
	want := []interface{}{"a1", "b2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	// A single-element match collapses to the scalar.
	got, found = Lookup(userDoc, "$.tags[*]")
	if !found {
		t.Fatal("Expected single-element wildcard to match")
	}
	if got != "x" {
		t.Errorf("Expected collapsed scalar \"x\", got %#v", got)
	}
}

func TestLookupWholeArray(t *testing.T) {
	// An explicit path to an array returns the array untouched.
	got, found := Lookup(userDoc, "$.items")
	if !found {
		t.Fatal("Expected array path to match")
	}
	arr, ok := got.([]interface{})
	if !ok {
		t.Fatalf("Expected []interface{}, got %T", got)
	}
	if len(arr) != 2 {
		t.Errorf("Expected 2 elements, got %d", len(arr))
	}
}

func TestLookupRoot(t *testing.T) {
	got, found := Lookup(`{"a": 1}`, "$")
	if !found {
		t.Fatal("Expected root path to match")
	}
	m, ok := got.(map[string]interface{})
	if !ok {
		t.Fatalf("Expected map, got %T", got)
	}
	if m["a"] != float64(1) {
		t.Errorf("Expected a=1, got %v", m["a"])
	}
}

func TestLookupInvalidInput(t *testing.T) {
	if _, found := Lookup("not json", "$.a"); found {
		t.Error("Expected no match on invalid JSON")
	}
	if _, found := Lookup("", "$.a"); found {
		t.Error("Expected no match on empty document")
	}
	if _, found := Lookup(`{"a": 1}`, ""); found {
		t.Error("Expected no match on empty path")
	}
}

func TestExists(t *testing.T) {
	if !Exists(userDoc, "$.user.name") {
		t.Error("Expected $.user.name to exist")
	}
	if Exists(userDoc, "$.user.email") {
		t.Error("Expected $.user.email to not exist")
	}
	// null values do not count as present
	if Exists(userDoc, "$.nothing") {
		t.Error("Expected $.nothing to not exist")
	}
}

func TestToGjsonPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"$.users[0].name", "users.0.name"},
		{"$.items[*].id", "items.#.id"},
		{"$.items[*]", "items"},
		{`$['a']['b']`, "a.b"},
		{"$", "@this"},
		{"a.b", "a.b"},
	}
	for _, tt := range tests {
		if got := toGjsonPath(tt.in); got != tt.want {
			t.Errorf("toGjsonPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
