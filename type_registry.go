package smithy

import (
	"fmt"
	"strings"
	"unicode"
)

// TypeRegistry creates an instance of a type based on its Smithy IDL shape ID.
//
// Generated clients have an exported package-level registry (named
// TypeRegistry) that holds all structure types for the service.
type TypeRegistry struct {
	Entries map[string]*TypeRegistryEntry
}

// RegistryEntry creates a type registry entry.
func RegistryEntry[T any](schema *Schema) *TypeRegistryEntry {
	return &TypeRegistryEntry{
		Schema: schema,
		New: func() any {
			return new(T)
		},
	}
}

// DeserializableError provides an instance of a deserializable error structure
// for a given shape ID.
//
// The ID is given as a string here since this will be called in a context where
// a shape ID is a discriminator read in from some wire payload.
func (t *TypeRegistry) DeserializableError(id string) (DeserializableError, bool) {
	return typeRegistryLookup[DeserializableError](t, id)
}

// Deserializable provides an instance of a deserializable structure for a
// given shape ID, as resolved by ParseDiscriminator.
func (t *TypeRegistry) Deserializable(id string) (Deserializable, bool) {
	return typeRegistryLookup[Deserializable](t, id)
}

// Merge returns a new TypeRegistry holding the union of t's entries and
// other's. Entries in other take precedence on a colliding shape ID. Merge is
// how a generated client composes its own registry with ones from shared or
// vendored model packages without either needing to know about the other at
// codegen time.
func (t *TypeRegistry) Merge(other *TypeRegistry) *TypeRegistry {
	merged := &TypeRegistry{Entries: make(map[string]*TypeRegistryEntry, len(t.Entries)+len(other.Entries))}
	for k, v := range t.Entries {
		merged.Entries[k] = v
	}
	for k, v := range other.Entries {
		merged.Entries[k] = v
	}
	return merged
}

type TypeRegistryEntry struct {
	Schema *Schema
	New    func() any
}

func typeRegistryLookup[T any](t *TypeRegistry, id string) (T, bool) {
	entry, ok := t.Entries[id]
	if !ok {
		var v T
		return v, false
	}

	v, ok := entry.New().(T)
	return v, ok
}

// ParseDiscriminator resolves a document's `__type` discriminator text to a
// fully-qualified ShapeID, per spec §4.5:
//
//  1. A qualified discriminator ("ns#Name") is used as-is.
//  2. A bare discriminator ("Name") is qualified with defaultNamespace.
//  3. An empty discriminator, or one with no defaultNamespace to fall back
//     on, is a DiscriminatorError.
func ParseDiscriminator(text, defaultNamespace string) (ShapeID, error) {
	if text == "" {
		return ShapeID{}, &DiscriminatorError{Message: "missing discriminator"}
	}

	if ns, name, ok := strings.Cut(text, "#"); ok {
		if ns == "" || name == "" || !isValidNamespace(ns) || !isValidIdentifier(name) {
			return ShapeID{}, &DiscriminatorError{Message: fmt.Sprintf("unable to parse the document discriminator into a valid shape ID: %q", text)}
		}
		return ShapeID{Namespace: ns, Name: name}, nil
	}

	if defaultNamespace == "" {
		return ShapeID{}, &DiscriminatorError{Message: fmt.Sprintf("unqualified discriminator %q with no default namespace was configured", text)}
	}
	if !isValidIdentifier(text) {
		return ShapeID{}, &DiscriminatorError{Message: fmt.Sprintf("unable to parse the document discriminator into a valid shape ID: %q", text)}
	}
	return ShapeID{Namespace: defaultNamespace, Name: text}, nil
}

// isValidIdentifier reports whether s matches the Smithy IDL identifier
// grammar: (ALPHA | '_') (ALPHA | DIGIT | '_')*.
func isValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case unicode.IsLetter(r) || r == '_':
		case unicode.IsDigit(r) && i > 0:
		default:
			return false
		}
	}
	return true
}

// isValidNamespace reports whether s is a dot-separated sequence of valid
// identifiers, per the Smithy IDL namespace grammar.
func isValidNamespace(s string) bool {
	for _, part := range strings.Split(s, ".") {
		if !isValidIdentifier(part) {
			return false
		}
	}
	return true
}
