package document

import (
	"math/big"
	"time"

	smithy "github.com/smithy-lang/schema-runtime"
)

// DocumentDeserializer implements smithy.ShapeDeserializer by replaying an
// already-assembled smithy.Document instead of reading from a wire format.
// It is how a Document is driven back into a generated type (AsShape).
//
// Unlike a wire-format deserializer, there is nothing to scan: DocumentDeserializer
// just tracks which Document value is "selected" for the next scalar Read*
// call, updating the selection as ReadStructMember/ReadListItem/ReadMapKey
// advance through a container.
type DocumentDeserializer struct {
	cur   smithy.Document
	stack []*rframe
}

type rframeKind int

const (
	rframeStruct rframeKind = iota
	rframeList
	rframeMap
)

type rframe struct {
	kind    rframeKind
	members []*smithy.Schema // struct only
	fields  *smithy.Fields   // struct/map
	items   []smithy.Document // list only
	idx     int
}

// New returns a DocumentDeserializer positioned at the root of d.
func New(d smithy.Document) *DocumentDeserializer {
	return &DocumentDeserializer{cur: d}
}

// AsShape drives target's Deserialize method from d.
func AsShape(d smithy.Document, target smithy.Deserializable) error {
	return target.Deserialize(New(d))
}

func (p *DocumentDeserializer) push(f *rframe) { p.stack = append(p.stack, f) }
func (p *DocumentDeserializer) top() *rframe   { return p.stack[len(p.stack)-1] }
func (p *DocumentDeserializer) pop() *rframe {
	n := len(p.stack) - 1
	f := p.stack[n]
	p.stack = p.stack[:n]
	return f
}

func (p *DocumentDeserializer) IsNull(*smithy.Schema) bool { return p.cur.IsNull() }

func (p *DocumentDeserializer) ReadNull(schema *smithy.Schema) error {
	if !p.cur.IsNull() {
		return smithy.NewTypeMismatch(schema, "non-null document")
	}
	return nil
}

func (p *DocumentDeserializer) ReadInt8(_ *smithy.Schema, out *int8) error {
	v, err := p.cur.AsByte()
	if err != nil {
		return err
	}
	*out = v
	return nil
}
func (p *DocumentDeserializer) ReadInt16(_ *smithy.Schema, out *int16) error {
	v, err := p.cur.AsShort()
	if err != nil {
		return err
	}
	*out = v
	return nil
}
func (p *DocumentDeserializer) ReadInt32(_ *smithy.Schema, out *int32) error {
	v, err := p.cur.AsInt()
	if err != nil {
		return err
	}
	*out = v
	return nil
}
func (p *DocumentDeserializer) ReadInt64(_ *smithy.Schema, out *int64) error {
	v, err := p.cur.AsLong()
	if err != nil {
		return err
	}
	*out = v
	return nil
}

func (p *DocumentDeserializer) ReadInt8Ptr(s *smithy.Schema, out **int8) error {
	if p.cur.IsNull() {
		*out = nil
		return nil
	}
	var v int8
	if err := p.ReadInt8(s, &v); err != nil {
		return err
	}
	*out = &v
	return nil
}
func (p *DocumentDeserializer) ReadInt16Ptr(s *smithy.Schema, out **int16) error {
	if p.cur.IsNull() {
		*out = nil
		return nil
	}
	var v int16
	if err := p.ReadInt16(s, &v); err != nil {
		return err
	}
	*out = &v
	return nil
}
func (p *DocumentDeserializer) ReadInt32Ptr(s *smithy.Schema, out **int32) error {
	if p.cur.IsNull() {
		*out = nil
		return nil
	}
	var v int32
	if err := p.ReadInt32(s, &v); err != nil {
		return err
	}
	*out = &v
	return nil
}
func (p *DocumentDeserializer) ReadInt64Ptr(s *smithy.Schema, out **int64) error {
	if p.cur.IsNull() {
		*out = nil
		return nil
	}
	var v int64
	if err := p.ReadInt64(s, &v); err != nil {
		return err
	}
	*out = &v
	return nil
}

func (p *DocumentDeserializer) ReadFloat32(_ *smithy.Schema, out *float32) error {
	v, err := p.cur.AsFloat()
	if err != nil {
		return err
	}
	*out = v
	return nil
}
func (p *DocumentDeserializer) ReadFloat64(_ *smithy.Schema, out *float64) error {
	v, err := p.cur.AsDouble()
	if err != nil {
		return err
	}
	*out = v
	return nil
}

func (p *DocumentDeserializer) ReadFloat32Ptr(s *smithy.Schema, out **float32) error {
	if p.cur.IsNull() {
		*out = nil
		return nil
	}
	var v float32
	if err := p.ReadFloat32(s, &v); err != nil {
		return err
	}
	*out = &v
	return nil
}
func (p *DocumentDeserializer) ReadFloat64Ptr(s *smithy.Schema, out **float64) error {
	if p.cur.IsNull() {
		*out = nil
		return nil
	}
	var v float64
	if err := p.ReadFloat64(s, &v); err != nil {
		return err
	}
	*out = &v
	return nil
}

func (p *DocumentDeserializer) ReadBool(_ *smithy.Schema, out *bool) error {
	v, err := p.cur.AsBoolean()
	if err != nil {
		return err
	}
	*out = v
	return nil
}
func (p *DocumentDeserializer) ReadBoolPtr(s *smithy.Schema, out **bool) error {
	if p.cur.IsNull() {
		*out = nil
		return nil
	}
	var v bool
	if err := p.ReadBool(s, &v); err != nil {
		return err
	}
	*out = &v
	return nil
}

func (p *DocumentDeserializer) ReadString(_ *smithy.Schema, out *string) error {
	v, err := p.cur.AsString()
	if err != nil {
		return err
	}
	*out = v
	return nil
}
func (p *DocumentDeserializer) ReadStringPtr(s *smithy.Schema, out **string) error {
	if p.cur.IsNull() {
		*out = nil
		return nil
	}
	var v string
	if err := p.ReadString(s, &v); err != nil {
		return err
	}
	*out = &v
	return nil
}

func (p *DocumentDeserializer) ReadBigInteger(_ *smithy.Schema, out *big.Int) error {
	v, err := p.cur.AsBigInteger()
	if err != nil {
		return err
	}
	out.Set(v)
	return nil
}
func (p *DocumentDeserializer) ReadBigDecimal(_ *smithy.Schema, out *big.Float) error {
	v, err := p.cur.AsBigDecimal()
	if err != nil {
		return err
	}
	out.Set(v)
	return nil
}

func (p *DocumentDeserializer) ReadBlob(_ *smithy.Schema, out *[]byte) error {
	v, err := p.cur.AsBlob()
	if err != nil {
		return err
	}
	*out = v
	return nil
}

func (p *DocumentDeserializer) ReadTime(s *smithy.Schema, out *time.Time) error {
	v, err := p.cur.AsTimestampWithSchema(s)
	if err != nil {
		return err
	}
	*out = v
	return nil
}
func (p *DocumentDeserializer) ReadTimePtr(s *smithy.Schema, out **time.Time) error {
	if p.cur.IsNull() {
		*out = nil
		return nil
	}
	var v time.Time
	if err := p.ReadTime(s, &v); err != nil {
		return err
	}
	*out = &v
	return nil
}

func (p *DocumentDeserializer) ReadList(*smithy.Schema) error {
	items, err := p.cur.AsList()
	if err != nil {
		return err
	}
	p.push(&rframe{kind: rframeList, items: items})
	return nil
}

func (p *DocumentDeserializer) ReadListItem(*smithy.Schema) (bool, error) {
	f := p.top()
	if f.idx >= len(f.items) {
		p.pop()
		return false, nil
	}
	p.cur = f.items[f.idx]
	f.idx++
	return true, nil
}

func (p *DocumentDeserializer) ReadMap(*smithy.Schema) error {
	fields, err := p.cur.AsStringMap()
	if err != nil {
		return err
	}
	p.push(&rframe{kind: rframeMap, fields: fields})
	return nil
}

func (p *DocumentDeserializer) ReadMapKey(*smithy.Schema) (string, bool, error) {
	f := p.top()
	if f.idx >= f.fields.Len() {
		p.pop()
		return "", false, nil
	}
	e := f.fields.At(f.idx)
	f.idx++
	p.cur = e.Value
	return e.Key, true, nil
}

func (p *DocumentDeserializer) ReadStruct(schema *smithy.Schema) error {
	fields, err := p.cur.AsStringMap()
	if err != nil {
		return err
	}
	p.push(&rframe{kind: rframeStruct, fields: fields, members: schema.MembersInOrder()})
	return nil
}

func (p *DocumentDeserializer) ReadStructMember() (*smithy.Schema, error) {
	f := p.top()
	for f.idx < len(f.members) {
		m := f.members[f.idx]
		f.idx++
		v, ok := f.fields.Get(m.ID.Member)
		if !ok {
			continue
		}
		p.cur = v
		return m, nil
	}
	p.pop()
	return nil, nil
}

func (p *DocumentDeserializer) ReadUnion(schema *smithy.Schema) (*smithy.Schema, error) {
	fields, err := p.cur.AsStringMap()
	if err != nil {
		return nil, err
	}
	if fields.Len() != 1 {
		return nil, &smithy.SerializationError{
			Tag:     smithy.MalformedWire,
			Message: "union document must have exactly one member set",
		}
	}
	e := fields.At(0)
	member, ok := schema.Member(e.Key)
	if !ok {
		return nil, &smithy.SerializationError{
			Tag:     smithy.UnknownMemberError,
			Message: "unknown union member: " + e.Key,
		}
	}
	p.cur = e.Value
	return member, nil
}

func (p *DocumentDeserializer) ReadDocument(_ *smithy.Schema, out *smithy.Document) error {
	*out = p.cur
	return nil
}

var _ smithy.ShapeDeserializer = (*DocumentDeserializer)(nil)
