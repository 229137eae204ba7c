// Package model defines the data structures used throughout the application.
//
// Stored entities are schema-less documents (see Document). The only typed
// value is ID, the opaque identifier every document carries under "_id".
package model

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrInvalidID is returned by ParseID for anything that is not a 24-char hex string.
var ErrInvalidID = errors.New("model: invalid identifier")

// ID is the server-generated identifier of a document.
//
// Internally it is a 12-byte ObjectID (the same value MongoDB stores in _id).
// At the API boundary it is always the 24-character hex string returned by String.
type ID struct {
	oid primitive.ObjectID
}

// NewID generates a fresh identifier.
func NewID() ID {
	return ID{oid: primitive.NewObjectID()}
}

// ParseID converts the string form back into an ID.
func ParseID(s string) (ID, error) {
	oid, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return ID{}, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	return ID{oid: oid}, nil
}

// IDFromObjectID wraps an ObjectID read from the database.
func IDFromObjectID(oid primitive.ObjectID) ID {
	return ID{oid: oid}
}

// ObjectID returns the database representation.
func (id ID) ObjectID() primitive.ObjectID {
	return id.oid
}

// String returns the 24-character hex form.
func (id ID) String() string {
	return id.oid.Hex()
}

// IsZero reports whether the ID was never assigned.
func (id ID) IsZero() bool {
	return id.oid.IsZero()
}

// MarshalJSON always renders the string form, so an ID can never leak
// into a response in its binary shape.
func (id ID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.String() + `"`), nil
}

// MarshalBSONValue stores the ID as a native ObjectID.
func (id ID) MarshalBSONValue() (bsontype.Type, []byte, error) {
	b := make([]byte, len(id.oid))
	copy(b, id.oid[:])
	return bsontype.ObjectID, b, nil
}
