package smithy

import "fmt"

// ErrorTag classifies a SerializationError by cause, per the error taxonomy.
type ErrorTag string

// Enumerates the SerializationError taxonomy.
const (
	IoFailure          ErrorTag = "IoFailure"
	MalformedWire      ErrorTag = "MalformedWire"
	TypeMismatch       ErrorTag = "TypeMismatch"
	RangeError         ErrorTag = "RangeError"
	Base64Error        ErrorTag = "Base64Error"
	TimestampError     ErrorTag = "TimestampError"
	UnknownMemberError ErrorTag = "UnknownMember"
	Discriminator      ErrorTag = "DiscriminatorError"
	SerializedNothing  ErrorTag = "SerializedNothing"
	SchemaBuild        ErrorTag = "SchemaBuildError"
)

// SerializationError is the umbrella error type every codec and document
// operation returns. Position, when non-empty, names a byte offset or path
// the wire-level codec observed the failure at.
type SerializationError struct {
	Tag      ErrorTag
	Message  string
	Position string
	Err      error
}

func (e *SerializationError) Error() string {
	if e.Position != "" {
		return fmt.Sprintf("%s at %s: %s", e.Tag, e.Position, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Tag, e.Message)
}

// Unwrap exposes the underlying I/O or format-library error, if any.
func (e *SerializationError) Unwrap() error {
	return e.Err
}

// NewTypeMismatch builds a TypeMismatch error describing what the schema
// expected versus what the wire actually held.
func NewTypeMismatch(schema *Schema, observed string) *SerializationError {
	want := "unknown"
	if schema != nil {
		want = schema.Type.String()
	}
	return &SerializationError{
		Tag:     TypeMismatch,
		Message: fmt.Sprintf("expected %s, got %s", want, observed),
	}
}

// SchemaBuildError reports that constructing a schema violated one of
// Builder's structural invariants.
type SchemaBuildError struct {
	Schema ShapeID
	Reason string
}

func (e *SchemaBuildError) Error() string {
	return fmt.Sprintf("build schema %s: %s", e.Schema.String(), e.Reason)
}

// DiscriminatorError reports a missing, unqualified, or syntactically
// invalid document discriminator, per ParseDiscriminator's rules.
type DiscriminatorError struct {
	Message string
}

func (e *DiscriminatorError) Error() string {
	return e.Message
}

// DeserializationError wraps a lower-level error encountered while
// deserializing a response, optionally carrying a snapshot of the bytes
// being parsed at the time of failure (useful for diagnostics when the
// underlying reader cannot be rewound).
type DeserializationError struct {
	Err      error
	Snapshot []byte
}

func (e *DeserializationError) Error() string {
	if len(e.Snapshot) == 0 {
		return fmt.Sprintf("deserialize: %v", e.Err)
	}
	return fmt.Sprintf("deserialize: %v\nsnapshot: %s", e.Err, e.Snapshot)
}

func (e *DeserializationError) Unwrap() error {
	return e.Err
}

// GenericAPIError is the fallback error shape for a modeled error whose
// discriminator did not resolve to any type registered in a TypeRegistry.
// Generated error-handling code constructs this directly; the core never
// dispatches it itself (dispatch is a generated-client concern).
type GenericAPIError struct {
	Code    string
	Message string
}

func (e *GenericAPIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}
