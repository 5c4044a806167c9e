package smithy

// ShapeType is a type of Smithy shape.
// See https://smithy.io/2.0/spec/idl.html#defining-shapes.
type ShapeType int

// Enumerates ShapeType per the Smithy IDL.
const (
	ShapeTypeBoolean ShapeType = iota
	ShapeTypeByte
	ShapeTypeShort
	ShapeTypeInteger
	ShapeTypeLong
	ShapeTypeFloat
	ShapeTypeDouble
	ShapeTypeBigInteger
	ShapeTypeBigDecimal
	ShapeTypeString
	ShapeTypeBlob
	ShapeTypeTimestamp
	ShapeTypeDocument
	ShapeTypeList
	ShapeTypeSet
	ShapeTypeMap
	ShapeTypeStructure
	ShapeTypeUnion
	ShapeTypeEnum
	ShapeTypeIntEnum
)

// String returns the Smithy IDL keyword for the type.
func (t ShapeType) String() string {
	switch t {
	case ShapeTypeBoolean:
		return "boolean"
	case ShapeTypeByte:
		return "byte"
	case ShapeTypeShort:
		return "short"
	case ShapeTypeInteger:
		return "integer"
	case ShapeTypeLong:
		return "long"
	case ShapeTypeFloat:
		return "float"
	case ShapeTypeDouble:
		return "double"
	case ShapeTypeBigInteger:
		return "bigInteger"
	case ShapeTypeBigDecimal:
		return "bigDecimal"
	case ShapeTypeString:
		return "string"
	case ShapeTypeBlob:
		return "blob"
	case ShapeTypeTimestamp:
		return "timestamp"
	case ShapeTypeDocument:
		return "document"
	case ShapeTypeList:
		return "list"
	case ShapeTypeSet:
		return "set"
	case ShapeTypeMap:
		return "map"
	case ShapeTypeStructure:
		return "structure"
	case ShapeTypeUnion:
		return "union"
	case ShapeTypeEnum:
		return "enum"
	case ShapeTypeIntEnum:
		return "intEnum"
	default:
		return "unknown"
	}
}

// IsNumeric returns true for the numeric ShapeTypes (integral or floating).
func (t ShapeType) IsNumeric() bool {
	switch t {
	case ShapeTypeByte, ShapeTypeShort, ShapeTypeInteger, ShapeTypeLong,
		ShapeTypeFloat, ShapeTypeDouble, ShapeTypeBigInteger, ShapeTypeBigDecimal:
		return true
	default:
		return false
	}
}

// numericRank orders the integral/floating widening lattice
// byte -> short -> integer -> long -> float -> double.
//
// BigInteger/BigDecimal sit outside the lattice: anything widens into them,
// but they never implicitly narrow.
var numericRank = map[ShapeType]int{
	ShapeTypeByte:    0,
	ShapeTypeShort:   1,
	ShapeTypeInteger: 2,
	ShapeTypeLong:    3,
	ShapeTypeFloat:   4,
	ShapeTypeDouble:  5,
}

// Widens reports whether a value of type `from` always converts to `to`
// without loss of information, per the partial order in spec §3.1.
func Widens(from, to ShapeType) bool {
	if from == to {
		return true
	}
	fr, fok := numericRank[from]
	tr, tok := numericRank[to]
	if fok && tok {
		return fr <= tr
	}
	// integral/float types always widen into the arbitrary-precision types.
	if fok && (to == ShapeTypeBigInteger || to == ShapeTypeBigDecimal) {
		return true
	}
	return false
}
