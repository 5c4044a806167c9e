package cbor

// MajorType is one of the seven CBOR major types (RFC 8949 §3).
type MajorType byte

const (
	MajorTypeUint MajorType = iota
	MajorTypeNegInt
	MajorTypeSlice
	MajorTypeString
	MajorTypeList
	MajorTypeMap
	MajorTypeTag
	MajorType7
)

const (
	minorArg1 = 24
	minorArg2 = 25
	minorArg4 = 26
	minorArg8 = 27
)
