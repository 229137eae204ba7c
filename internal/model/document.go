package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// IDField is the key every stored document keeps its identifier under.
const IDField = "_id"

// Document is a schema-less record as stored in a collection.
// Values are whatever JSON decoding produced (string, float64, bool, nil,
// []any, map[string]any) plus ID for the "_id" key.
type Document map[string]any

// Clone returns a shallow copy.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Without returns a copy of the document with the given keys removed.
func (d Document) Without(keys ...string) Document {
	out := d.Clone()
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

// ForTransport returns a copy with every top-level identifier rendered as its
// string form. Responses are always built from this copy.
func (d Document) ForTransport() Document {
	out := make(Document, len(d))
	for k, v := range d {
		switch id := v.(type) {
		case ID:
			out[k] = id.String()
		case primitive.ObjectID:
			out[k] = id.Hex()
		default:
			out[k] = v
		}
	}
	return out
}

// String returns the value of key when it holds a string.
func (d Document) String(key string) (string, bool) {
	s, ok := d[key].(string)
	return s, ok
}

// Truthy reports whether a decoded JSON value counts as given under the
// historical rules: zero numbers, empty strings, false and empty containers
// don't.
func Truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case float64:
		return val != 0
	case string:
		return val != ""
	case []any:
		return len(val) > 0
	case map[string]any:
		return len(val) > 0
	}
	return true
}
