// Package document bridges the schema-driven ShapeSerializer/ShapeDeserializer
// visitor protocol to smithy.Document: it lets a generated type be turned
// into an untyped Document (NewFromShape), and a Document be driven back
// into a generated type (AsShape).
package document

import (
	smithy "github.com/smithy-lang/schema-runtime"
)

type noSerde interface {
	noSmithyDocumentSerde()
}

// DiscriminatorMember is the on-wire field name carrying a struct or union
// document's concrete shape ID, per spec §4.5/§4.6.
const DiscriminatorMember = "__type"

// DeserializePolymorphic resolves doc's concrete shape via its "__type"
// discriminator member and drives a freshly-built instance from types.
//
// defaultNamespace qualifies an unqualified discriminator value, mirroring
// the codec setting of the same name (encoding/json.Settings.DefaultNamespace,
// encoding/cbor.Settings.DefaultNamespace) used when the value was decoded
// off the wire rather than assembled in memory.
func DeserializePolymorphic(types *smithy.TypeRegistry, doc smithy.Document, defaultNamespace string) (smithy.Deserializable, error) {
	member, ok := doc.GetMember(DiscriminatorMember)
	if !ok {
		return nil, &smithy.DiscriminatorError{Message: "missing discriminator member \"__type\""}
	}
	text, err := member.AsString()
	if err != nil {
		return nil, err
	}

	id, err := smithy.ParseDiscriminator(text, defaultNamespace)
	if err != nil {
		return nil, err
	}

	target, ok := types.Deserializable(id.String())
	if !ok {
		return nil, &smithy.DiscriminatorError{Message: "no registered type for discriminator " + id.String()}
	}

	if err := AsShape(doc, target); err != nil {
		return nil, err
	}
	return target, nil
}

// NoSerde is a sentinel embedded in a generated type to indicate that it
// should never be marshaled into, or unmarshaled out of, a protocol
// document. Generated code for a recursive or streaming member that has no
// sensible document representation embeds this.
type NoSerde struct{}

func (NoSerde) noSmithyDocumentSerde() {}

var _ noSerde = (*NoSerde)(nil)

// IsNoSerde returns whether x opted out of document (de)serialization.
func IsNoSerde(x interface{}) bool {
	_, ok := x.(noSerde)
	return ok
}
