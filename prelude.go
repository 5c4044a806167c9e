package smithy

// Prelude schemas for every primitive shape type, plus the untyped DOCUMENT
// type. These are process-wide singletons: generated schemas for scalar
// members reference these pointers directly, so identity comparison (==)
// between two prelude schema pointers is always equivalent to comparing
// their (namespace, name) — there is exactly one boolean schema, ever.
var (
	PreludeBoolean = &Schema{ID: ShapeID{Namespace: "smithy.api", Name: "Boolean"}, Type: ShapeTypeBoolean, Traits: map[string]Trait{}}
	PreludeByte    = &Schema{ID: ShapeID{Namespace: "smithy.api", Name: "Byte"}, Type: ShapeTypeByte, Traits: map[string]Trait{}}
	PreludeShort   = &Schema{ID: ShapeID{Namespace: "smithy.api", Name: "Short"}, Type: ShapeTypeShort, Traits: map[string]Trait{}}
	PreludeInteger = &Schema{ID: ShapeID{Namespace: "smithy.api", Name: "Integer"}, Type: ShapeTypeInteger, Traits: map[string]Trait{}}
	PreludeLong    = &Schema{ID: ShapeID{Namespace: "smithy.api", Name: "Long"}, Type: ShapeTypeLong, Traits: map[string]Trait{}}
	PreludeFloat   = &Schema{ID: ShapeID{Namespace: "smithy.api", Name: "Float"}, Type: ShapeTypeFloat, Traits: map[string]Trait{}}
	PreludeDouble  = &Schema{ID: ShapeID{Namespace: "smithy.api", Name: "Double"}, Type: ShapeTypeDouble, Traits: map[string]Trait{}}

	PreludeBigInteger = &Schema{ID: ShapeID{Namespace: "smithy.api", Name: "BigInteger"}, Type: ShapeTypeBigInteger, Traits: map[string]Trait{}}
	PreludeBigDecimal = &Schema{ID: ShapeID{Namespace: "smithy.api", Name: "BigDecimal"}, Type: ShapeTypeBigDecimal, Traits: map[string]Trait{}}

	PreludeString    = &Schema{ID: ShapeID{Namespace: "smithy.api", Name: "String"}, Type: ShapeTypeString, Traits: map[string]Trait{}}
	PreludeBlob      = &Schema{ID: ShapeID{Namespace: "smithy.api", Name: "Blob"}, Type: ShapeTypeBlob, Traits: map[string]Trait{}}
	PreludeTimestamp = &Schema{ID: ShapeID{Namespace: "smithy.api", Name: "Timestamp"}, Type: ShapeTypeTimestamp, Traits: map[string]Trait{}}
	PreludeDocument  = &Schema{ID: ShapeID{Namespace: "smithy.api", Name: "Document"}, Type: ShapeTypeDocument, Traits: map[string]Trait{}}
)

// preludeFor returns the prelude schema for a scalar ShapeType, if one
// exists. Used by the document package to wrap lazily-typed scalar values
// with a schema suitable for timestamp-format resolution.
func preludeFor(t ShapeType) (*Schema, bool) {
	switch t {
	case ShapeTypeBoolean:
		return PreludeBoolean, true
	case ShapeTypeByte:
		return PreludeByte, true
	case ShapeTypeShort:
		return PreludeShort, true
	case ShapeTypeInteger:
		return PreludeInteger, true
	case ShapeTypeLong:
		return PreludeLong, true
	case ShapeTypeFloat:
		return PreludeFloat, true
	case ShapeTypeDouble:
		return PreludeDouble, true
	case ShapeTypeBigInteger:
		return PreludeBigInteger, true
	case ShapeTypeBigDecimal:
		return PreludeBigDecimal, true
	case ShapeTypeString:
		return PreludeString, true
	case ShapeTypeBlob:
		return PreludeBlob, true
	case ShapeTypeTimestamp:
		return PreludeTimestamp, true
	case ShapeTypeDocument:
		return PreludeDocument, true
	default:
		return nil, false
	}
}
