package cbor

import (
	smithy "github.com/smithy-lang/schema-runtime"
	"github.com/smithy-lang/schema-runtime/logging"
)

// tagEpochTimestamp is the RFC 8949 §3.4.2 standard date/time tag, used here
// with a Float64 epoch-seconds payload (the RPCv2-CBOR wire format never
// uses any other timestamp representation).
const tagEpochTimestamp = 1

// tagPositiveBignum and tagNegativeBignum are the RFC 8949 §3.4.3 bignum
// tags, used for BigInteger members whose value doesn't fit an int64.
const (
	tagPositiveBignum = 2
	tagNegativeBignum = 3
)

// tagDecimalFraction is the RFC 8949 §3.4.4 decimal fraction tag: a 2-item
// array of [exponent, mantissa], used for BigDecimal members.
const tagDecimalFraction = 4

// Settings configures a Codec's behavior. The zero value is a reasonable
// default: no __type discriminator on documents.
type Settings struct {
	// ForbidUnknownUnionMembers is not read by the deserializer: ReadUnion
	// fails with an UnknownMemberError for any union map key the schema
	// doesn't declare, whether or not this field is set.
	ForbidUnknownUnionMembers bool

	// SerializeTypeInDocuments writes a "__type" discriminator entry
	// (qualified shape ID) into every Struct document nested inside a
	// ShapeTypeDocument member.
	SerializeTypeInDocuments bool

	// DefaultNamespace qualifies a bare "__type" discriminator encountered
	// during deserialization.
	DefaultNamespace string

	// Logger receives diagnostic messages. Defaults to a no-op logger.
	Logger logging.Logger
}

func defaultSettings() Settings {
	return Settings{Logger: logging.Noop{}}
}

// Codec is a CBOR codec implementing smithy.Codec, targeting the Smithy
// RPCv2-CBOR protocol wire format.
type Codec struct {
	Settings Settings
}

var _ smithy.Codec = (*Codec)(nil)

// NewCodec returns a Codec configured by optFns over the default Settings.
func NewCodec(optFns ...func(*Settings)) *Codec {
	settings := defaultSettings()
	for _, fn := range optFns {
		fn(&settings)
	}
	return &Codec{Settings: settings}
}

func (c *Codec) Serializer() smithy.ShapeSerializer {
	return &ShapeSerializer{settings: c.Settings}
}

func (c *Codec) Deserializer(p []byte) smithy.ShapeDeserializer {
	return &ShapeDeserializer{src: p, settings: c.Settings}
}
