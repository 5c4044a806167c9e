package document_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	smithy "github.com/smithy-lang/schema-runtime"
	"github.com/smithy-lang/schema-runtime/document"
	"github.com/smithy-lang/schema-runtime/traits"
)

type person struct {
	Name string
	Age  *int32
}

var personSchema = smithy.NewBuilder(smithy.ShapeID{Namespace: "example", Name: "Person"}, smithy.ShapeTypeStructure).
	PutMember("name", smithy.PreludeString).
	PutMember("age", smithy.PreludeInteger).
	MustBuild()

func (p *person) Serialize(s smithy.ShapeSerializer) {
	s.WriteStruct(personSchema, (*serializePerson)(p))
}

type serializePerson person

func (p *serializePerson) Serialize(s smithy.ShapeSerializer) {
	s.WriteString(personSchema.Members["name"], p.Name)
	s.WriteInt32Ptr(personSchema.Members["age"], p.Age)
}

func (p *person) Deserialize(d smithy.ShapeDeserializer) error {
	return smithy.ReadStruct(d, personSchema, func(m *smithy.Schema) error {
		switch m.ID.Member {
		case "name":
			return d.ReadString(m, &p.Name)
		case "age":
			return d.ReadInt32Ptr(m, &p.Age)
		}
		return nil
	})
}

func TestStructRoundTrip(t *testing.T) {
	age := int32(30)
	in := &person{Name: "Ada", Age: &age}

	doc, err := document.NewFromShape(in)
	if err != nil {
		t.Fatalf("NewFromShape: %v", err)
	}
	if doc.Type() != smithy.ShapeTypeStructure {
		t.Fatalf("Type() = %v, want structure", doc.Type())
	}

	var out person
	if err := document.AsShape(doc, &out); err != nil {
		t.Fatalf("AsShape: %v", err)
	}

	if diff := cmp.Diff(in.Name, out.Name); diff != "" {
		t.Errorf("Name mismatch (-want +got):\n%s", diff)
	}
	if *out.Age != age {
		t.Errorf("Age = %d, want %d", *out.Age, age)
	}
}

func TestStructRoundTripAbsentOptional(t *testing.T) {
	in := &person{Name: "Grace"}

	doc, err := document.NewFromShape(in)
	if err != nil {
		t.Fatalf("NewFromShape: %v", err)
	}

	var out person
	if err := document.AsShape(doc, &out); err != nil {
		t.Fatalf("AsShape: %v", err)
	}
	if out.Age != nil {
		t.Errorf("Age = %v, want nil", out.Age)
	}
}

func TestDocumentEqualityIgnoresMapOrder(t *testing.T) {
	a := smithy.NewStringMap([]smithy.MapEntry{
		{Key: "a", Value: smithy.NewString("1")},
		{Key: "b", Value: smithy.NewString("2")},
	})
	b := smithy.NewStringMap([]smithy.MapEntry{
		{Key: "b", Value: smithy.NewString("2")},
		{Key: "a", Value: smithy.NewString("1")},
	})
	if !smithy.Equal(a, b) {
		t.Errorf("Equal(a, b) = false, want true (key order should not matter)")
	}
}

func TestDocumentEqualityNaN(t *testing.T) {
	a := smithy.NewDouble(nan())
	b := smithy.NewDouble(nan())
	if !smithy.Equal(a, b) {
		t.Errorf("Equal(NaN, NaN) = false, want true")
	}
}

func nan() float64 {
	var zero float64
	return zero / zero
}

func TestDeserializePolymorphicResolvesByDiscriminator(t *testing.T) {
	doc := smithy.NewStruct(personSchema, []smithy.MapEntry{
		{Key: document.DiscriminatorMember, Value: smithy.NewString("example#Person")},
		{Key: "name", Value: smithy.NewString("Ada")},
	})

	registry := &smithy.TypeRegistry{Entries: map[string]*smithy.TypeRegistryEntry{
		"example#Person": smithy.RegistryEntry[person](personSchema),
	}}

	resolved, err := document.DeserializePolymorphic(registry, doc, "")
	if err != nil {
		t.Fatalf("DeserializePolymorphic: %v", err)
	}
	p, ok := resolved.(*person)
	if !ok {
		t.Fatalf("resolved type = %T, want *person", resolved)
	}
	if p.Name != "Ada" {
		t.Errorf("Name = %q, want %q", p.Name, "Ada")
	}
}

func TestDeserializePolymorphicUnqualifiedDiscriminator(t *testing.T) {
	doc := smithy.NewStruct(personSchema, []smithy.MapEntry{
		{Key: document.DiscriminatorMember, Value: smithy.NewString("Person")},
		{Key: "name", Value: smithy.NewString("Grace")},
	})

	registry := &smithy.TypeRegistry{Entries: map[string]*smithy.TypeRegistryEntry{
		"example#Person": smithy.RegistryEntry[person](personSchema),
	}}

	if _, err := document.DeserializePolymorphic(registry, doc, ""); err == nil {
		t.Fatalf("DeserializePolymorphic with unqualified discriminator and no default namespace: got nil error")
	}

	resolved, err := document.DeserializePolymorphic(registry, doc, "example")
	if err != nil {
		t.Fatalf("DeserializePolymorphic: %v", err)
	}
	if resolved.(*person).Name != "Grace" {
		t.Errorf("Name = %q, want %q", resolved.(*person).Name, "Grace")
	}
}

var denseTagList = smithy.NewBuilder(smithy.ShapeID{Namespace: "example", Name: "TagList"}, smithy.ShapeTypeList).
	PutMember("member", smithy.PreludeString).
	MustBuild()

var sparseTagList = smithy.NewBuilder(smithy.ShapeID{Namespace: "example", Name: "SparseTagList"}, smithy.ShapeTypeList).
	PutTrait(&traits.Sparse{}).
	PutMember("member", smithy.PreludeString).
	MustBuild()

func TestParserDropsNullsFromNonSparseList(t *testing.T) {
	p := document.New()
	p.WriteList(denseTagList)
	member := denseTagList.ListMember()
	p.WriteString(member, "a")
	p.WriteNil(member)
	p.WriteString(member, "b")
	p.CloseList()

	doc, err := p.Document()
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	items, err := doc.AsList()
	if err != nil {
		t.Fatalf("AsList: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2 (null should be dropped)", len(items))
	}
}

func TestParserKeepsNullsInSparseList(t *testing.T) {
	p := document.New()
	p.WriteList(sparseTagList)
	member := sparseTagList.ListMember()
	p.WriteString(member, "a")
	p.WriteNil(member)
	p.WriteString(member, "b")
	p.CloseList()

	doc, err := p.Document()
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	items, err := doc.AsList()
	if err != nil {
		t.Fatalf("AsList: %v", err)
	}
	if len(items) != 3 || !items[1].IsNull() {
		t.Fatalf("items = %v, want 3 elements with a null in the middle", items)
	}
}

var eventSchema = smithy.NewBuilder(smithy.ShapeID{Namespace: "example", Name: "Event"}, smithy.ShapeTypeStructure).
	PutMember("moment", smithy.PreludeTimestamp, &traits.TimestampFormat{Format: "date-time"}).
	MustBuild()

type event struct {
	Moment time.Time
}

func (e *event) Deserialize(d smithy.ShapeDeserializer) error {
	return smithy.ReadStruct(d, eventSchema, func(m *smithy.Schema) error {
		if m.ID.Member == "moment" {
			return d.ReadTime(m, &e.Moment)
		}
		return nil
	})
}

func TestReadTimeHonorsSchemaFormatForLazilyTypedString(t *testing.T) {
	doc := smithy.NewStruct(eventSchema, []smithy.MapEntry{
		{Key: "moment", Value: smithy.NewString("2024-03-01T12:30:00Z")},
	})

	var out event
	if err := document.AsShape(doc, &out); err != nil {
		t.Fatalf("AsShape: %v", err)
	}
	want := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	if !out.Moment.Equal(want) {
		t.Errorf("Moment = %v, want %v", out.Moment, want)
	}
}

func TestDeserializePolymorphicMissingDiscriminator(t *testing.T) {
	doc := smithy.NewStruct(personSchema, []smithy.MapEntry{
		{Key: "name", Value: smithy.NewString("No Type")},
	})
	registry := &smithy.TypeRegistry{Entries: map[string]*smithy.TypeRegistryEntry{}}
	if _, err := document.DeserializePolymorphic(registry, doc, ""); err == nil {
		t.Fatalf("DeserializePolymorphic with no discriminator member: got nil error")
	}
}
