// Package refcontext holds the conversation-scoped pronoun map: after the
// assistant touches a file, terms like "it" or "that file" resolve to it on
// later turns. The map is persisted per interaction as JSON and re-seeded
// from history at the start of each turn.
package refcontext

import (
	"strconv"
)

// FileRef is the standardized value stored under every reference term.
type FileRef struct {
	Id   int64  `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// Context maps reference terms ("this", "it", "1", ...) to file references.
// Values may be FileRef structs, their JSON map form after a round-trip
// through the database, plain names/ids, or lists of any of those.
type Context map[string]interface{}

// Terms is the fixed set of keys rewritten whenever a file is acted upon.
var Terms = []string{"this", "it", "that", "this file", "that file", "the file", "the document", "1"}

// Update returns a copy of ctx with every reference term pointing at ref.
// The input context is never mutated; each turn folds a fresh value.
func Update(ctx Context, ref FileRef) Context {
	out := make(Context, len(ctx)+len(Terms))
	for k, v := range ctx {
		out[k] = v
	}
	for _, term := range Terms {
		out[term] = ref
	}
	return out
}

// Seed derives the working context from conversation history, newest first.
// The default contract is "latest non-empty wins".
func Seed(history []Context) Context {
	for _, ctx := range history {
		if len(ctx) > 0 {
			return ctx
		}
	}
	return Context{}
}

// SeedUnion merges all contexts in history, oldest first, so newer turns
// overwrite older bindings term by term.
func SeedUnion(history []Context) Context {
	out := Context{}
	for i := len(history) - 1; i >= 0; i-- {
		for k, v := range history[i] {
			out[k] = v
		}
	}
	return out
}

// SeedWithStrategy selects the merge behavior from config.
func SeedWithStrategy(history []Context, strategy string) Context {
	if strategy == "union" {
		return SeedUnion(history)
	}
	return Seed(history)
}

// AsFileRef normalizes a stored context value back into a FileRef. It
// accepts the struct form, the JSON map form (ids arrive as float64 after
// unmarshalling), and lists, from which the first resolvable item is taken.
func AsFileRef(v interface{}) (FileRef, bool) {
	switch val := v.(type) {
	case FileRef:
		return val, val.Id != 0
	case *FileRef:
		if val == nil {
			return FileRef{}, false
		}
		return *val, val.Id != 0
	case map[string]interface{}:
		id, ok := asInt64(val["id"])
		if !ok {
			return FileRef{}, false
		}
		ref := FileRef{Id: id}
		if name, ok := val["name"].(string); ok {
			ref.Name = name
		}
		if typ, ok := val["type"].(string); ok {
			ref.Type = typ
		}
		return ref, true
	case []interface{}:
		for _, item := range val {
			if ref, ok := AsFileRef(item); ok {
				return ref, true
			}
		}
		return FileRef{}, false
	default:
		return FileRef{}, false
	}
}

func asInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	case string:
		id, err := strconv.ParseInt(n, 10, 64)
		return id, err == nil
	default:
		return 0, false
	}
}
