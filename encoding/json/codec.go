package json

import (
	smithy "github.com/smithy-lang/schema-runtime"
	"github.com/smithy-lang/schema-runtime/logging"
	"github.com/smithy-lang/schema-runtime/traits"
)

// resolveTimestampFormat picks the wire format for a timestamp member,
// shared by the serializer and deserializer so reads and writes of the same
// schema always agree.
func resolveTimestampFormat(s *smithy.Schema, settings Settings) string {
	if settings.UseTimestampFormat {
		if tf, ok := smithy.SchemaTrait[*traits.TimestampFormat](s); ok {
			return tf.Format
		}
	}
	if settings.DefaultTimestampFormat != "" {
		return settings.DefaultTimestampFormat
	}
	return "epoch-seconds"
}

// Settings configures a Codec's behavior. The zero value is a reasonable
// default: no smithy.api#jsonName, epoch-seconds timestamps, no __type
// discriminator on documents.
type Settings struct {
	// UseJSONName honors smithy.api#jsonName on member shapes when present,
	// instead of the member's declared name.
	UseJSONName bool

	// DefaultTimestampFormat is used for any timestamp member that doesn't
	// carry smithy.api#timestampFormat (or when UseTimestampFormat is
	// false). One of "date-time", "http-date", "epoch-seconds". Defaults to
	// "epoch-seconds", matching the AWS JSON protocols' wire format.
	DefaultTimestampFormat string

	// UseTimestampFormat honors a member's smithy.api#timestampFormat trait
	// when present, overriding DefaultTimestampFormat for that member.
	UseTimestampFormat bool

	// ForbidUnknownUnionMembers is not read by the deserializer: ReadUnion
	// fails with an UnknownMemberError for any union member key the schema
	// doesn't declare, whether or not this field is set.
	ForbidUnknownUnionMembers bool

	// SerializeTypeInDocuments writes a "__type" discriminator member
	// (qualified shape ID) on every Struct document nested inside a
	// ShapeTypeDocument member.
	SerializeTypeInDocuments bool

	// DefaultNamespace qualifies a bare (unqualified) "__type" discriminator
	// encountered during deserialization.
	DefaultNamespace string

	// WriteZeroValues is not read by the serializer: every Write* call for a
	// struct member writes that member, zero values (empty string, 0, false)
	// included, whether or not this field is set.
	WriteZeroValues bool

	// Logger receives diagnostic messages (e.g. unknown members skipped
	// during deserialization). Defaults to a no-op logger.
	Logger logging.Logger
}

func defaultSettings() Settings {
	return Settings{
		DefaultTimestampFormat: "epoch-seconds",
		Logger:                 logging.Noop{},
	}
}

// Codec is a JSON codec implementing smithy.Codec.
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

// Serializer returns a JSON shape serializer.
func (c *Codec) Serializer() smithy.ShapeSerializer {
	return &ShapeSerializer{
		root:     NewEncoder(),
		settings: c.Settings,
	}
}

// Deserializer returns a JSON shape deserializer.
func (c *Codec) Deserializer(p []byte) smithy.ShapeDeserializer {
	return NewShapeDeserializer(p, c.Settings)
}

type stack struct {
	values []any
}

type empty struct{}

func (s *stack) Top() any {
	if len(s.values) == 0 {
		return empty{}
	}
	return s.values[len(s.values)-1]
}

func (s *stack) Push(v any) {
	s.values = append(s.values, v)
}

func (s *stack) Pop() {
	s.values = s.values[:len(s.values)-1]
}

func (s *stack) Len() int {
	return len(s.values)
}
