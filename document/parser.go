package document

import (
	"math/big"
	"time"

	smithy "github.com/smithy-lang/schema-runtime"
	"github.com/smithy-lang/schema-runtime/traits"
)

// DocumentParser implements smithy.ShapeSerializer by building an in-memory
// smithy.Document instead of writing to a wire format. It is how a generated
// type becomes a Document (NewFromShape), and how an untyped member
// (ShapeTypeDocument) of one generated type is populated from another.
//
// DocumentParser tracks the same push/pop container discipline as a
// wire-format ShapeSerializer: WriteList/WriteMap push a frame that
// subsequent Write* calls append into, and CloseList/CloseMap pop it and
// hand the assembled Document to the (possibly absent) enclosing frame.
type DocumentParser struct {
	stack  []*frame
	result *smithy.Document
	wrote  bool
}

type frameKind int

const (
	frameList frameKind = iota
	frameMap
	frameStruct
)

type frame struct {
	kind       frameKind
	schema     *smithy.Schema
	items      []smithy.Document
	entries    []smithy.MapEntry
	pendingKey string
}

// New returns an empty DocumentParser ready to receive Write* calls.
func New() *DocumentParser {
	return &DocumentParser{}
}

// NewFromShape drives v through a fresh DocumentParser and returns the
// resulting Document.
func NewFromShape(v smithy.Serializable) (smithy.Document, error) {
	p := New()
	v.Serialize(p)
	return p.Document()
}

// Document returns the Document tree assembled from the Write* calls made so
// far. It fails with a SerializedNothing error if nothing was ever written,
// which happens when a Serializable's Serialize method makes no Write* call
// at all. A structure written through WriteStruct always produces a Struct
// document, even when it has no members.
func (p *DocumentParser) Document() (smithy.Document, error) {
	if !p.wrote {
		return smithy.Document{}, &smithy.SerializationError{
			Tag:     smithy.SerializedNothing,
			Message: "no value was serialized",
		}
	}
	return *p.result, nil
}

// isSparse reports whether schema (a LIST/SET/MAP shape) carries
// smithy.api#sparse, meaning explicit null elements/values are kept rather
// than dropped.
func isSparse(schema *smithy.Schema) bool {
	if schema == nil {
		return false
	}
	_, ok := smithy.SchemaTrait[*traits.Sparse](schema)
	return ok
}

func (p *DocumentParser) push(f *frame) {
	p.stack = append(p.stack, f)
}

func (p *DocumentParser) pop() *frame {
	n := len(p.stack) - 1
	f := p.stack[n]
	p.stack = p.stack[:n]
	return f
}

func (p *DocumentParser) emit(schema *smithy.Schema, d smithy.Document) {
	p.wrote = true

	if len(p.stack) == 0 {
		p.result = &d
		return
	}

	top := p.stack[len(p.stack)-1]
	switch top.kind {
	case frameList:
		if d.IsNull() && !isSparse(top.schema) {
			return
		}
		top.items = append(top.items, d)
	case frameMap:
		if d.IsNull() && !isSparse(top.schema) {
			top.pendingKey = ""
			return
		}
		top.entries = append(top.entries, smithy.MapEntry{Key: top.pendingKey, Value: d})
		top.pendingKey = ""
	case frameStruct:
		name := ""
		if schema != nil {
			name = schema.ID.Member
		}
		top.entries = append(top.entries, smithy.MapEntry{Key: name, Value: d})
	}
}

// Bytes satisfies smithy.ShapeSerializer. DocumentParser never produces a
// byte encoding; callers that want the assembled Document call Document
// instead.
func (p *DocumentParser) Bytes() []byte {
	panic("document.DocumentParser does not serialize to bytes; call Document() instead")
}

func (p *DocumentParser) WriteInt8(s *smithy.Schema, v int8)   { p.emit(s, smithy.NewByte(v)) }
func (p *DocumentParser) WriteInt16(s *smithy.Schema, v int16) { p.emit(s, smithy.NewShort(v)) }
func (p *DocumentParser) WriteInt32(s *smithy.Schema, v int32) { p.emit(s, smithy.NewInt(v)) }
func (p *DocumentParser) WriteInt64(s *smithy.Schema, v int64) { p.emit(s, smithy.NewLong(v)) }

func (p *DocumentParser) WriteInt8Ptr(s *smithy.Schema, v *int8) {
	if v == nil {
		p.WriteNil(s)
		return
	}
	p.WriteInt8(s, *v)
}
func (p *DocumentParser) WriteInt16Ptr(s *smithy.Schema, v *int16) {
	if v == nil {
		p.WriteNil(s)
		return
	}
	p.WriteInt16(s, *v)
}
func (p *DocumentParser) WriteInt32Ptr(s *smithy.Schema, v *int32) {
	if v == nil {
		p.WriteNil(s)
		return
	}
	p.WriteInt32(s, *v)
}
func (p *DocumentParser) WriteInt64Ptr(s *smithy.Schema, v *int64) {
	if v == nil {
		p.WriteNil(s)
		return
	}
	p.WriteInt64(s, *v)
}

func (p *DocumentParser) WriteFloat32(s *smithy.Schema, v float32) { p.emit(s, smithy.NewFloat(v)) }
func (p *DocumentParser) WriteFloat64(s *smithy.Schema, v float64) { p.emit(s, smithy.NewDouble(v)) }

func (p *DocumentParser) WriteFloat32Ptr(s *smithy.Schema, v *float32) {
	if v == nil {
		p.WriteNil(s)
		return
	}
	p.WriteFloat32(s, *v)
}
func (p *DocumentParser) WriteFloat64Ptr(s *smithy.Schema, v *float64) {
	if v == nil {
		p.WriteNil(s)
		return
	}
	p.WriteFloat64(s, *v)
}

func (p *DocumentParser) WriteBool(s *smithy.Schema, v bool) { p.emit(s, smithy.NewBoolean(v)) }
func (p *DocumentParser) WriteBoolPtr(s *smithy.Schema, v *bool) {
	if v == nil {
		p.WriteNil(s)
		return
	}
	p.WriteBool(s, *v)
}

func (p *DocumentParser) WriteString(s *smithy.Schema, v string) { p.emit(s, smithy.NewString(v)) }
func (p *DocumentParser) WriteStringPtr(s *smithy.Schema, v *string) {
	if v == nil {
		p.WriteNil(s)
		return
	}
	p.WriteString(s, *v)
}

func (p *DocumentParser) WriteBigInteger(s *smithy.Schema, v big.Int) {
	p.emit(s, smithy.NewBigInteger(new(big.Int).Set(&v)))
}
func (p *DocumentParser) WriteBigDecimal(s *smithy.Schema, v big.Float) {
	p.emit(s, smithy.NewBigDecimal(new(big.Float).Set(&v)))
}

func (p *DocumentParser) WriteBlob(s *smithy.Schema, v []byte) { p.emit(s, smithy.NewBlob(v)) }

func (p *DocumentParser) WriteTime(s *smithy.Schema, v time.Time) {
	p.emit(s, smithy.NewTimestamp(v))
}
func (p *DocumentParser) WriteTimePtr(s *smithy.Schema, v *time.Time) {
	if v == nil {
		p.WriteNil(s)
		return
	}
	p.WriteTime(s, *v)
}

func (p *DocumentParser) WriteStruct(s *smithy.Schema, v smithy.Serializable) {
	p.push(&frame{kind: frameStruct, schema: s})
	v.Serialize(p)
	f := p.pop()
	p.emit(f.schema, smithy.NewStruct(s, f.entries))
}

func (p *DocumentParser) WriteUnion(schema, variant *smithy.Schema, v smithy.Serializable) {
	p.push(&frame{kind: frameStruct, schema: schema})
	v.Serialize(p)
	f := p.pop()
	p.emit(f.schema, smithy.NewStruct(schema, f.entries))
}

func (p *DocumentParser) WriteDocument(s *smithy.Schema, d smithy.Document) {
	p.emit(s, d)
}

func (p *DocumentParser) WriteNil(s *smithy.Schema) {
	p.emit(s, smithy.NewNull())
}

func (p *DocumentParser) WriteList(s *smithy.Schema) {
	p.push(&frame{kind: frameList, schema: s})
}

func (p *DocumentParser) CloseList() {
	f := p.pop()
	p.emit(f.schema, smithy.NewList(f.items))
}

func (p *DocumentParser) WriteMap(s *smithy.Schema) {
	p.push(&frame{kind: frameMap, schema: s})
}

func (p *DocumentParser) WriteKey(s *smithy.Schema, key string) {
	p.stack[len(p.stack)-1].pendingKey = key
}

func (p *DocumentParser) CloseMap() {
	f := p.pop()
	p.emit(f.schema, smithy.NewStringMap(f.entries))
}

var _ smithy.ShapeSerializer = (*DocumentParser)(nil)
