package cbor

import (
	"fmt"
	"math/big"
	"time"

	smithy "github.com/smithy-lang/schema-runtime"
	"github.com/smithy-lang/schema-runtime/logging"
)

type dframeKind int

const (
	dframeList dframeKind = iota
	dframeMap
	dframeStruct
)

// dframe tracks progress through one List/Map/Struct Value being consumed
// by the Read* calls.
type dframe struct {
	kind    dframeKind
	items   []Value
	idx     int
	keys    []string
	values  map[string]Value
	members []*smithy.Schema
}

// ShapeDeserializer implements unmarshaling of CBOR into Smithy shapes.
type ShapeDeserializer struct {
	src       []byte
	cur       Value
	peeked    bool
	peekedLen int    // bytes cur consumed from src, valid only when peeked && top() == nil
	pending   *Value // the union member value selected by ReadUnion, consumed by the next peek()
	stack     []*dframe
	settings  Settings
}

var _ smithy.ShapeDeserializer = (*ShapeDeserializer)(nil)

func (d *ShapeDeserializer) top() *dframe {
	if len(d.stack) == 0 {
		return nil
	}
	return d.stack[len(d.stack)-1]
}

// peek decodes the current slot's Value (byte stream, pending union member,
// or open container) into d.cur without consuming it, so repeated peek()
// calls (e.g. IsNull followed by a Read) see the same value. next() is the
// only thing that consumes it.
func (d *ShapeDeserializer) peek() (Value, error) {
	if d.peeked {
		return d.cur, nil
	}

	if d.pending != nil {
		d.cur = *d.pending
		d.peeked = true
		return d.cur, nil
	}

	f := d.top()
	if f == nil {
		v, n, err := decode(d.src)
		if err != nil {
			return nil, decodeErr(err)
		}
		d.cur = v
		d.peekedLen = n
		d.peeked = true
		return v, nil
	}

	switch f.kind {
	case dframeList:
		d.cur = f.items[f.idx]
	case dframeMap, dframeStruct:
		d.cur = f.values[f.keys[f.idx]]
	}
	d.peeked = true
	return d.cur, nil
}

// next decodes the next Value off either the byte stream (top level), a
// pending union member, or the currently open container, and stores it in
// d.cur for the following Read* call to consume. A container slot is
// consumed exactly once: next() advances its frame's index immediately, so
// whether the slot holds a scalar or is about to become a nested
// container frame makes no difference to the parent's bookkeeping.
func (d *ShapeDeserializer) next() error {
	if _, err := d.peek(); err != nil {
		return err
	}
	d.peeked = false

	if d.pending != nil {
		d.pending = nil
		return nil
	}

	f := d.top()
	if f == nil {
		d.src = d.src[d.peekedLen:]
		return nil
	}

	f.idx++
	return nil
}

func decodeErr(err error) *smithy.SerializationError {
	return &smithy.SerializationError{Tag: smithy.MalformedWire, Message: "decoding CBOR", Err: err}
}

func typeMismatch(s *smithy.Schema, v Value) error {
	return smithy.NewTypeMismatch(s, fmt.Sprintf("%T", v))
}

func unwrapTag(v Value, id uint64) (Value, bool) {
	t, ok := v.(*Tag)
	if !ok || t.ID != id {
		return nil, false
	}
	return t.Value, true
}

func asInt64(v Value) (int64, bool) {
	switch n := v.(type) {
	case Uint:
		if uint64(n) > (1<<63 - 1) {
			return 0, false
		}
		return int64(n), true
	case NegInt:
		return -int64(n), true
	}
	return 0, false
}

func (d *ShapeDeserializer) IsNull(*smithy.Schema) bool {
	v, err := d.peek()
	if err != nil {
		return false
	}
	_, isNil := v.(*Nil)
	return isNil
}

func (d *ShapeDeserializer) ReadNull(s *smithy.Schema) error {
	if err := d.next(); err != nil {
		return err
	}
	if _, ok := d.cur.(*Nil); !ok {
		return typeMismatch(s, d.cur)
	}
	return nil
}

func (d *ShapeDeserializer) readInt(s *smithy.Schema, min, max int64) (int64, error) {
	if err := d.next(); err != nil {
		return 0, err
	}

	n, ok := asInt64(d.cur)
	if !ok {
		return 0, typeMismatch(s, d.cur)
	}
	if n < min || n > max {
		return 0, &smithy.SerializationError{Tag: smithy.RangeError, Message: fmt.Sprintf("%d exceeds range [%d, %d]", n, min, max)}
	}

	return n, nil
}

func (d *ShapeDeserializer) ReadInt8(s *smithy.Schema, v *int8) error {
	n, err := d.readInt(s, -128, 127)
	*v = int8(n)
	return err
}
func (d *ShapeDeserializer) ReadInt16(s *smithy.Schema, v *int16) error {
	n, err := d.readInt(s, -32768, 32767)
	*v = int16(n)
	return err
}
func (d *ShapeDeserializer) ReadInt32(s *smithy.Schema, v *int32) error {
	n, err := d.readInt(s, -2147483648, 2147483647)
	*v = int32(n)
	return err
}
func (d *ShapeDeserializer) ReadInt64(s *smithy.Schema, v *int64) error {
	n, err := d.readInt(s, -1<<63, 1<<63-1)
	*v = n
	return err
}

func (d *ShapeDeserializer) ReadInt8Ptr(s *smithy.Schema, v **int8) error {
	if d.IsNull(s) {
		return d.ReadNull(s)
	}
	var n int8
	if err := d.ReadInt8(s, &n); err != nil {
		return err
	}
	*v = &n
	return nil
}
func (d *ShapeDeserializer) ReadInt16Ptr(s *smithy.Schema, v **int16) error {
	if d.IsNull(s) {
		return d.ReadNull(s)
	}
	var n int16
	if err := d.ReadInt16(s, &n); err != nil {
		return err
	}
	*v = &n
	return nil
}
func (d *ShapeDeserializer) ReadInt32Ptr(s *smithy.Schema, v **int32) error {
	if d.IsNull(s) {
		return d.ReadNull(s)
	}
	var n int32
	if err := d.ReadInt32(s, &n); err != nil {
		return err
	}
	*v = &n
	return nil
}
func (d *ShapeDeserializer) ReadInt64Ptr(s *smithy.Schema, v **int64) error {
	if d.IsNull(s) {
		return d.ReadNull(s)
	}
	var n int64
	if err := d.ReadInt64(s, &n); err != nil {
		return err
	}
	*v = &n
	return nil
}

func (d *ShapeDeserializer) readFloat(s *smithy.Schema) (float64, error) {
	if err := d.next(); err != nil {
		return 0, err
	}

	var f float64
	switch n := d.cur.(type) {
	case Float32:
		f = float64(n)
	case Float64:
		f = float64(n)
	default:
		if i, ok := asInt64(d.cur); ok {
			f = float64(i)
			break
		}
		return 0, typeMismatch(s, d.cur)
	}

	return f, nil
}

func (d *ShapeDeserializer) ReadFloat32(s *smithy.Schema, v *float32) error {
	f, err := d.readFloat(s)
	*v = float32(f)
	return err
}
func (d *ShapeDeserializer) ReadFloat64(s *smithy.Schema, v *float64) error {
	f, err := d.readFloat(s)
	*v = f
	return err
}

func (d *ShapeDeserializer) ReadFloat32Ptr(s *smithy.Schema, v **float32) error {
	if d.IsNull(s) {
		return d.ReadNull(s)
	}
	var f float32
	if err := d.ReadFloat32(s, &f); err != nil {
		return err
	}
	*v = &f
	return nil
}
func (d *ShapeDeserializer) ReadFloat64Ptr(s *smithy.Schema, v **float64) error {
	if d.IsNull(s) {
		return d.ReadNull(s)
	}
	var f float64
	if err := d.ReadFloat64(s, &f); err != nil {
		return err
	}
	*v = &f
	return nil
}

func (d *ShapeDeserializer) ReadBool(s *smithy.Schema, v *bool) error {
	if err := d.next(); err != nil {
		return err
	}
	b, ok := d.cur.(Bool)
	if !ok {
		return typeMismatch(s, d.cur)
	}
	*v = bool(b)
	return nil
}

func (d *ShapeDeserializer) ReadBoolPtr(s *smithy.Schema, v **bool) error {
	if d.IsNull(s) {
		return d.ReadNull(s)
	}
	var b bool
	if err := d.ReadBool(s, &b); err != nil {
		return err
	}
	*v = &b
	return nil
}

func (d *ShapeDeserializer) ReadString(s *smithy.Schema, v *string) error {
	if err := d.next(); err != nil {
		return err
	}
	str, ok := d.cur.(String)
	if !ok {
		return typeMismatch(s, d.cur)
	}
	*v = string(str)
	return nil
}

func (d *ShapeDeserializer) ReadStringPtr(s *smithy.Schema, v **string) error {
	if d.IsNull(s) {
		return d.ReadNull(s)
	}
	var str string
	if err := d.ReadString(s, &str); err != nil {
		return err
	}
	*v = &str
	return nil
}

func (d *ShapeDeserializer) ReadBigInteger(s *smithy.Schema, v *big.Int) error {
	if err := d.next(); err != nil {
		return err
	}

	if i, ok := asInt64(d.cur); ok {
		v.SetInt64(i)
		return nil
	}

	if slice, ok := unwrapTag(d.cur, tagPositiveBignum); ok {
		bs, ok := slice.(Slice)
		if !ok {
			return typeMismatch(s, d.cur)
		}
		v.SetBytes([]byte(bs))
		return nil
	}
	if slice, ok := unwrapTag(d.cur, tagNegativeBignum); ok {
		bs, ok := slice.(Slice)
		if !ok {
			return typeMismatch(s, d.cur)
		}
		v.SetBytes([]byte(bs))
		v.Neg(v)
		return nil
	}

	return typeMismatch(s, d.cur)
}

func (d *ShapeDeserializer) ReadBigDecimal(s *smithy.Schema, v *big.Float) error {
	if err := d.next(); err != nil {
		return err
	}

	inner, ok := unwrapTag(d.cur, tagDecimalFraction)
	if !ok {
		return typeMismatch(s, d.cur)
	}

	l, ok := inner.(List)
	if !ok || len(l) != 2 {
		return &smithy.SerializationError{Tag: smithy.MalformedWire, Message: "decimal fraction must be a 2-item array"}
	}

	exp, ok := asInt64(l[0])
	if !ok {
		return &smithy.SerializationError{Tag: smithy.MalformedWire, Message: "decimal fraction exponent must be an integer"}
	}

	var mantissa big.Int
	switch m := l[1].(type) {
	case Uint, NegInt:
		n, _ := asInt64(m)
		mantissa.SetInt64(n)
	case *Tag:
		bs, ok := m.Value.(Slice)
		if !ok {
			return &smithy.SerializationError{Tag: smithy.MalformedWire, Message: "decimal fraction mantissa must be an integer or bignum"}
		}
		mantissa.SetBytes([]byte(bs))
		if m.ID == tagNegativeBignum {
			mantissa.Neg(&mantissa)
		}
	default:
		return &smithy.SerializationError{Tag: smithy.MalformedWire, Message: "decimal fraction mantissa must be an integer or bignum"}
	}

	*v = *decimalValue(&mantissa, int(exp))
	return nil
}

func (d *ShapeDeserializer) ReadBlob(s *smithy.Schema, v *[]byte) error {
	if err := d.next(); err != nil {
		return err
	}
	bs, ok := d.cur.(Slice)
	if !ok {
		return typeMismatch(s, d.cur)
	}
	*v = []byte(bs)
	return nil
}

func (d *ShapeDeserializer) ReadTime(s *smithy.Schema, v *time.Time) error {
	if err := d.next(); err != nil {
		return err
	}

	inner, ok := unwrapTag(d.cur, tagEpochTimestamp)
	if !ok {
		return typeMismatch(s, d.cur)
	}

	var seconds float64
	switch n := inner.(type) {
	case Float64:
		seconds = float64(n)
	case Float32:
		seconds = float64(n)
	default:
		i, ok := asInt64(inner)
		if !ok {
			return &smithy.SerializationError{Tag: smithy.TimestampError, Message: "timestamp tag payload must be numeric"}
		}
		seconds = float64(i)
	}

	*v = time.Unix(0, int64(seconds*1e9)).UTC()
	return nil
}

func (d *ShapeDeserializer) ReadTimePtr(s *smithy.Schema, v **time.Time) error {
	if d.IsNull(s) {
		return d.ReadNull(s)
	}
	var t time.Time
	if err := d.ReadTime(s, &t); err != nil {
		return err
	}
	*v = &t
	return nil
}

func (d *ShapeDeserializer) ReadList(s *smithy.Schema) error {
	if err := d.next(); err != nil {
		return err
	}
	l, ok := d.cur.(List)
	if !ok {
		return typeMismatch(s, d.cur)
	}
	d.stack = append(d.stack, &dframe{kind: dframeList, items: l})
	return nil
}

func (d *ShapeDeserializer) ReadListItem(*smithy.Schema) (bool, error) {
	f := d.top()
	if f.idx >= len(f.items) {
		d.stack = d.stack[:len(d.stack)-1]
		return false, nil
	}
	return true, nil
}

func (d *ShapeDeserializer) ReadMap(s *smithy.Schema) error {
	if err := d.next(); err != nil {
		return err
	}
	m, ok := d.cur.(Map)
	if !ok {
		return typeMismatch(s, d.cur)
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	d.stack = append(d.stack, &dframe{kind: dframeMap, values: m, keys: keys})
	return nil
}

func (d *ShapeDeserializer) ReadMapKey(*smithy.Schema) (string, bool, error) {
	f := d.top()
	if f.idx >= len(f.keys) {
		d.stack = d.stack[:len(d.stack)-1]
		return "", false, nil
	}
	return f.keys[f.idx], true, nil
}

func (d *ShapeDeserializer) ReadStruct(s *smithy.Schema) error {
	if err := d.next(); err != nil {
		return err
	}
	m, ok := d.cur.(Map)
	if !ok {
		return typeMismatch(s, d.cur)
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	d.stack = append(d.stack, &dframe{
		kind:    dframeStruct,
		values:  m,
		keys:    keys,
		members: s.MembersInOrder(),
	})
	return nil
}

func (d *ShapeDeserializer) ReadStructMember() (*smithy.Schema, error) {
	f := d.top()
	for f.idx < len(f.keys) {
		key := f.keys[f.idx]

		for _, m := range f.members {
			if m.ID.Member == key {
				return m, nil
			}
		}

		d.settings.Logger.Logf(logging.Debug, "skipping unknown member %q", key)
		f.idx++
	}

	d.stack = d.stack[:len(d.stack)-1]
	return nil, nil
}

func (d *ShapeDeserializer) ReadUnion(s *smithy.Schema) (*smithy.Schema, error) {
	if err := d.next(); err != nil {
		return nil, err
	}
	m, ok := d.cur.(Map)
	if !ok || len(m) != 1 {
		return nil, &smithy.SerializationError{Tag: smithy.MalformedWire, Message: fmt.Sprintf("union %s must have exactly one member set", s.ID)}
	}

	var key string
	for k := range m {
		key = k
	}

	member, ok := s.Member(key)
	if !ok {
		return nil, &smithy.SerializationError{Tag: smithy.UnknownMemberError, Message: fmt.Sprintf("unknown union variant %q of %s", key, s.ID)}
	}

	val := m[key]
	d.pending = &val
	return member, nil
}

func (d *ShapeDeserializer) ReadDocument(_ *smithy.Schema, out *smithy.Document) error {
	if err := d.next(); err != nil {
		return err
	}
	doc, err := readDocumentValue(d.cur)
	if err != nil {
		return err
	}
	*out = doc
	return nil
}

func readDocumentValue(v Value) (smithy.Document, error) {
	switch t := v.(type) {
	case *Nil:
		return smithy.NewNull(), nil
	case *Undefined:
		return smithy.NewNull(), nil
	case Bool:
		return smithy.NewBoolean(bool(t)), nil
	case Uint:
		return smithy.NewLong(int64(t)), nil
	case NegInt:
		return smithy.NewLong(-int64(t)), nil
	case Float32:
		return smithy.NewDouble(float64(t)), nil
	case Float64:
		return smithy.NewDouble(float64(t)), nil
	case String:
		return smithy.NewString(string(t)), nil
	case Slice:
		return smithy.NewBlob([]byte(t)), nil
	case List:
		items := make([]smithy.Document, len(t))
		for i, item := range t {
			d, err := readDocumentValue(item)
			if err != nil {
				return smithy.Document{}, err
			}
			items[i] = d
		}
		return smithy.NewList(items), nil
	case Map:
		entries := make([]smithy.MapEntry, 0, len(t))
		for k, item := range t {
			d, err := readDocumentValue(item)
			if err != nil {
				return smithy.Document{}, err
			}
			entries = append(entries, smithy.MapEntry{Key: k, Value: d})
		}
		return smithy.NewStringMap(entries), nil
	case *Tag:
		switch t.ID {
		case tagEpochTimestamp:
			n, ok := asInt64(t.Value)
			var seconds float64
			if ok {
				seconds = float64(n)
			} else if f, ok := t.Value.(Float64); ok {
				seconds = float64(f)
			}
			return smithy.NewTimestamp(time.Unix(0, int64(seconds*1e9)).UTC()), nil
		default:
			return readDocumentValue(t.Value)
		}
	default:
		return smithy.Document{}, &smithy.SerializationError{Tag: smithy.MalformedWire, Message: fmt.Sprintf("unsupported CBOR value %T in document", v)}
	}
}
