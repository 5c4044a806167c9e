package smithy

import (
	"testing"

	"github.com/smithy-lang/schema-runtime/traits"
)

func TestShapeIDStringRoundTrip(t *testing.T) {
	id := stoid("com.example#Widget")
	if got, want := id.String(), "com.example#Widget"; got != want {
		t.Errorf("id.String() = %q, want %q", got, want)
	}

	member := stoid("com.example#Widget$name")
	if got, want := member.String(), "com.example#Widget$name"; got != want {
		t.Errorf("member.String() = %q, want %q", got, want)
	}
	if member.Member != "name" {
		t.Errorf("member.Member = %q, want %q", member.Member, "name")
	}
}

func TestSchemaBuilderMemberOrderAndIndex(t *testing.T) {
	b := NewBuilder(ShapeID{Namespace: "com.example", Name: "Person"}, ShapeTypeStructure)
	b.PutMember("name", PreludeString, &traits.Required{})
	b.PutMember("age", PreludeInteger)
	b.PutMember("birthday", PreludeTimestamp, &traits.Sensitive{})

	schema, err := b.Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	members := schema.MembersInOrder()
	if len(members) != 3 {
		t.Fatalf("len(members) = %d, want 3", len(members))
	}
	wantNames := []string{"name", "age", "birthday"}
	for i, m := range members {
		if m.ID.Member != wantNames[i] {
			t.Errorf("members[%d].ID.Member = %q, want %q", i, m.ID.Member, wantNames[i])
		}
		if m.MemberIndex != i {
			t.Errorf("members[%d].MemberIndex = %d, want %d", i, m.MemberIndex, i)
		}
	}

	nameMember, ok := schema.Member("name")
	if !ok {
		t.Fatalf("schema.Member(%q) not found", "name")
	}
	if !nameMember.IsRequired() {
		t.Errorf("name member should be required")
	}

	birthday, ok := schema.Member("birthday")
	if !ok {
		t.Fatalf("schema.Member(%q) not found", "birthday")
	}
	if _, ok := SchemaTrait[*traits.Sensitive](birthday); !ok {
		t.Errorf("birthday member should carry Sensitive trait")
	}
}

func TestSchemaTraitMonotonicity(t *testing.T) {
	b := NewBuilder(ShapeID{Namespace: "com.example", Name: "Thing"}, ShapeTypeStructure)
	b.PutTrait(&traits.Documentation{Value: "a thing"})
	schema, err := b.Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	for _, key := range []string{"smithy.api#documentation", "smithy.api#required", "smithy.api#sparse"} {
		_, ok := schema.GetTrait(key)
		if schema.HasTrait(key) != ok {
			t.Errorf("HasTrait(%q) = %v, GetTrait ok = %v; want equal", key, schema.HasTrait(key), ok)
		}
	}
	if !schema.HasTrait("smithy.api#documentation") {
		t.Errorf("expected documentation trait to be present")
	}
}

func TestSchemaBuilderListRequiresMember(t *testing.T) {
	b := NewBuilder(ShapeID{Namespace: "com.example", Name: "Names"}, ShapeTypeList)
	if _, err := b.Build(); err == nil {
		t.Fatalf("Build() with no list member: got nil error, want SchemaBuildError")
	}
}

func TestSchemaBuilderMapRequiresKeyAndValue(t *testing.T) {
	b := NewBuilder(ShapeID{Namespace: "com.example", Name: "Params"}, ShapeTypeMap)
	b.PutMember("key", PreludeString)
	if _, err := b.Build(); err == nil {
		t.Fatalf("Build() with no map value: got nil error, want SchemaBuildError")
	}

	b2 := NewBuilder(ShapeID{Namespace: "com.example", Name: "Params2"}, ShapeTypeMap)
	b2.PutMember("key", PreludeString)
	b2.PutMember("value", PreludeString)
	schema, err := b2.Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	if schema.MapKeyMember() == nil || schema.MapValueMember() == nil {
		t.Errorf("expected key and value members to be accessible")
	}
}

func TestSchemaBuilderNilTargetFails(t *testing.T) {
	b := NewBuilder(ShapeID{Namespace: "com.example", Name: "Broken"}, ShapeTypeStructure)
	b.PutMember("x", nil)
	if _, err := b.Build(); err == nil {
		t.Fatalf("Build() with nil member target: got nil error, want SchemaBuildError")
	}
}

// TestRecursiveSchemaGraph exercises the two-phase construction the spec
// requires for recursive shapes: a tree node's "children" member targets the
// same schema that is still under construction.
func TestRecursiveSchemaGraph(t *testing.T) {
	b := NewBuilder(ShapeID{Namespace: "com.example", Name: "TreeNode"}, ShapeTypeStructure)
	self := b.Schema()

	listBuilder := NewBuilder(ShapeID{Namespace: "com.example", Name: "TreeNodeList"}, ShapeTypeList)
	listBuilder.PutMember("member", self)
	listSchema, err := listBuilder.Build()
	if err != nil {
		t.Fatalf("list Build() failed: %v", err)
	}

	b.PutMember("value", PreludeString)
	b.PutMember("children", listSchema)
	schema, err := b.Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	if schema != self {
		t.Fatalf("Builder.Schema() pointer should be stable across Build()")
	}

	children, ok := schema.Member("children")
	if !ok {
		t.Fatalf("missing children member")
	}
	grandchildTarget := children.MemberTarget.ListMember().MemberTarget
	if grandchildTarget != schema {
		t.Errorf("recursive member target should point back to the owning schema")
	}

	// Walk must terminate instead of recursing forever.
	visited := map[*Schema]bool{}
	Walk(schema, func(s *Schema) bool {
		visited[s] = true
		return true
	})
	if !visited[schema] || !visited[children] {
		t.Errorf("Walk should visit the root and its members")
	}
}

func TestPreludeSchemasCompareByIdentity(t *testing.T) {
	m1 := NewMember("x", PreludeString)
	m2 := NewMember("y", PreludeString)
	if m1.MemberTarget != m2.MemberTarget {
		t.Errorf("two members targeting the same prelude schema should share identity")
	}
	if m1.MemberTarget != PreludeString {
		t.Errorf("member target should be the exact prelude singleton")
	}
}
