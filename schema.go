package smithy

import (
	"fmt"
	"maps"
	"strings"
)

// ShapeID fields of a Smithy shape ID.
type ShapeID struct {
	Namespace, Name, Member string
}

// String returns the IDL microformat for the shape ID.
func (s ShapeID) String() string {
	if s.Member == "" {
		return fmt.Sprintf("%s#%s", s.Namespace, s.Name)
	}
	return fmt.Sprintf("%s#%s$%s", s.Namespace, s.Name, s.Member)
}

// stoid parses the IDL microformat for a shape ID.
func stoid(s string) ShapeID {
	ns, n, _ := strings.Cut(s, "#")
	n, m, _ := strings.Cut(n, "$")
	return ShapeID{ns, n, m}
}

// Schema encodes information about a shape from a Smithy model.
//
// Generated clients use schemas at runtime to dynamically (de)serialize
// request/responses. A Schema is immutable once returned from Builder.Build;
// it is shared by every holder (documents, codecs, generated types) for the
// lifetime of the process.
type Schema struct {
	ID     ShapeID
	Type   ShapeType
	Traits map[string]Trait // trait ID -> trait

	// Members holds the schema's members (if any) keyed by member name. For
	// LIST/SET shapes the single entry is keyed "member"; for MAP shapes the
	// entries are keyed "key" and "value"; for STRUCTURE/UNION/ENUM/INT_ENUM
	// shapes the entries are keyed by the declared member name.
	Members map[string]*Schema

	// memberOrder is the declaration order of Members, used to assign and
	// iterate by MemberIndex.
	memberOrder []*Schema

	// MemberTarget is set only on schemas that are themselves a member: it
	// is the schema of the type the member targets. It may point back to an
	// ancestor schema that is still under construction, which is how
	// recursive shapes are represented.
	MemberTarget *Schema

	// MemberIndex is the declaration-order index of this schema among its
	// owner's members. Only meaningful when MemberTarget != nil.
	MemberIndex int
}

// Member looks up a member schema by name in O(1).
func (s *Schema) Member(name string) (*Schema, bool) {
	m, ok := s.Members[name]
	return m, ok
}

// MembersInOrder returns the schema's members in declaration order. Indices
// into the returned slice equal each member's MemberIndex.
func (s *Schema) MembersInOrder() []*Schema {
	return s.memberOrder
}

// ListMember returns the element schema of a LIST/SET shape.
func (s *Schema) ListMember() *Schema {
	return s.Members["member"]
}

// MapKeyMember returns the key schema of a MAP shape.
func (s *Schema) MapKeyMember() *Schema {
	return s.Members["key"]
}

// MapValueMember returns the value schema of a MAP shape.
func (s *Schema) MapValueMember() *Schema {
	return s.Members["value"]
}

// GetTrait returns the opaque trait value stored under key, if any.
func (s *Schema) GetTrait(key string) (Trait, bool) {
	t, ok := s.Traits[key]
	return t, ok
}

// HasTrait reports whether a trait is present under key. It is always
// consistent with GetTrait: HasTrait(k) == true iff GetTrait(k) returns ok.
func (s *Schema) HasTrait(key string) bool {
	_, ok := s.Traits[key]
	return ok
}

// IsRequired reports whether the member schema carries smithy.api#required.
func (s *Schema) IsRequired() bool {
	return s.HasTrait("smithy.api#required")
}

// NewMember creates a member schema from a target schema, overriding traits.
//
// Traits provided for the member override any traits on the target if there
// is a collision. The returned schema shares the target's Members map (a
// member schema delegates structural lookups to its target) and records the
// target as MemberTarget so recursive graphs can be walked.
func NewMember(name string, target *Schema, traits ...Trait) *Schema {
	m := &Schema{
		ID:           ShapeID{Member: name},
		Type:         target.Type,
		Members:      target.Members,
		Traits:       maps.Clone(target.Traits),
		MemberTarget: target,
	}

	if len(m.Traits) == 0 && len(traits) != 0 {
		m.Traits = map[string]Trait{}
	}
	for _, t := range traits {
		m.Traits[t.TraitID()] = t
	}

	return m
}

// SchemaTrait returns the target trait on the schema if it exists.
func SchemaTrait[T Trait](s *Schema) (T, bool) {
	var trait T

	opaque, ok := s.Traits[trait.TraitID()]
	if !ok {
		return trait, false
	}

	tt, ok := opaque.(T)
	return tt, ok
}

// Builder constructs a Schema.
//
// Builder supports the two-phase construction recursive shapes require:
// Builder.Schema returns a pointer to the schema under construction before
// Build is called, so a member can target it (or an ancestor currently being
// built) to form a cycle. Build then assigns dense, declaration-ordered
// member indices and validates shape-specific structural invariants.
type Builder struct {
	schema  *Schema
	members []*Schema
	err     error
}

// NewBuilder allocates the shell of a new schema and returns a Builder bound
// to it. The shell (obtainable via Builder.Schema) may immediately be used as
// a member target elsewhere, even though construction is not yet complete.
func NewBuilder(id ShapeID, typ ShapeType) *Builder {
	return &Builder{
		schema: &Schema{
			ID:      id,
			Type:    typ,
			Traits:  map[string]Trait{},
			Members: map[string]*Schema{},
		},
	}
}

// Schema returns the schema under construction. The returned pointer is
// stable across the lifetime of the builder, including after Build is
// called.
func (b *Builder) Schema() *Schema {
	return b.schema
}

// PutTrait attaches a trait to the schema being built (not to any member).
func (b *Builder) PutTrait(t Trait) *Builder {
	b.schema.Traits[t.TraitID()] = t
	return b
}

// PutMember adds a member in call order. The member's index is its position
// among prior PutMember calls on this builder.
func (b *Builder) PutMember(name string, target *Schema, traits ...Trait) *Builder {
	if target == nil {
		b.err = &SchemaBuildError{Schema: b.schema.ID, Reason: fmt.Sprintf("member %q: nil target", name)}
		return b
	}

	m := NewMember(name, target, traits...)
	m.MemberIndex = len(b.members)
	b.members = append(b.members, m)
	b.schema.Members[name] = m
	return b
}

// Build finalizes the schema: freezes member order and validates
// shape-specific structural invariants. It returns the same pointer
// Builder.Schema returned, now safe to treat as complete and immutable.
func (b *Builder) Build() (*Schema, error) {
	if b.err != nil {
		return nil, b.err
	}

	b.schema.memberOrder = b.members

	switch b.schema.Type {
	case ShapeTypeList, ShapeTypeSet:
		if _, ok := b.schema.Members["member"]; !ok {
			return nil, &SchemaBuildError{Schema: b.schema.ID, Reason: `list/set shape missing "member"`}
		}
	case ShapeTypeMap:
		if _, ok := b.schema.Members["key"]; !ok {
			return nil, &SchemaBuildError{Schema: b.schema.ID, Reason: `map shape missing "key"`}
		}
		if _, ok := b.schema.Members["value"]; !ok {
			return nil, &SchemaBuildError{Schema: b.schema.ID, Reason: `map shape missing "value"`}
		}
	}

	return b.schema, nil
}

// MustBuild is Build but panics on error. Intended for package-level prelude
// and generated-code schema initialization, where a build failure is a
// programming error caught at init time, not a runtime condition.
func (b *Builder) MustBuild() *Schema {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}

// Walk visits schema and, recursively, every schema reachable from it through
// list/set elements, map keys/values, and structure/union members. visit is
// called once per distinct schema (by pointer identity); if visit returns
// false, Walk does not recurse into that schema's members. A visited set
// keyed by pointer identity guards against infinite recursion through cyclic
// (self-referential) shape graphs.
func Walk(schema *Schema, visit func(*Schema) bool) {
	walk(schema, visit, map[*Schema]bool{})
}

func walk(schema *Schema, visit func(*Schema) bool, seen map[*Schema]bool) {
	if schema == nil || seen[schema] {
		return
	}
	seen[schema] = true

	if !visit(schema) {
		return
	}

	for _, m := range schema.MembersInOrder() {
		walk(m, visit, seen)
	}
}
