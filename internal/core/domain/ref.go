package domain

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Ref points at a reference record either by id or by display name.
// The zero value is an absent reference.
type Ref struct {
	id   string
	name string
}

// RefByID builds an id reference
func RefByID(id string) Ref {
	return Ref{id: id}
}

// RefByName builds a name reference
func RefByName(name string) Ref {
	return Ref{name: name}
}

// ParseRef classifies a client supplied value. Values shaped like a
// 24 character hex object id are ids, anything else is a name.
func ParseRef(value string) Ref {
	value = strings.TrimSpace(value)
	if value == "" {
		return Ref{}
	}
	if primitive.IsValidObjectID(value) {
		return RefByID(value)
	}
	return RefByName(value)
}

// ByID returns the id and true when r is an id reference
func (r Ref) ByID() (string, bool) {
	return r.id, r.id != ""
}

// ByName returns the name and true when r is a name reference
func (r Ref) ByName() (string, bool) {
	return r.name, r.name != ""
}

// IsZero reports an absent reference
func (r Ref) IsZero() bool {
	return r.id == "" && r.name == ""
}

func (r Ref) String() string {
	if r.id != "" {
		return r.id
	}
	return r.name
}
