package cbor

import (
	"math/big"
	"time"

	smithy "github.com/smithy-lang/schema-runtime"
)

type frameKind int

const (
	frameList frameKind = iota
	frameMap
	frameStruct
)

// frame accumulates the items of one in-progress List, Map, or Struct: CBOR
// containers are definite-length, so the full item set has to be known
// before the container's header can be encoded.
type frame struct {
	kind       frameKind
	schema     *smithy.Schema // the schema passed to WriteList/WriteMap that opened this frame
	items      []Value
	fields     map[string]Value
	pendingKey string
}

// ShapeSerializer implements marshaling of Smithy shapes to CBOR.
type ShapeSerializer struct {
	stack    []*frame
	result   Value
	wrote    bool
	settings Settings
}

var _ smithy.ShapeSerializer = (*ShapeSerializer)(nil)

func (ss *ShapeSerializer) Bytes() []byte {
	return Encode(ss.result)
}

func (ss *ShapeSerializer) top() *frame {
	return ss.stack[len(ss.stack)-1]
}

func (ss *ShapeSerializer) push(f *frame) {
	ss.stack = append(ss.stack, f)
}

func (ss *ShapeSerializer) pop() *frame {
	f := ss.top()
	ss.stack = ss.stack[:len(ss.stack)-1]
	return f
}

// emit delivers v as the value for schema s into the current container, or
// stores it as the document root if nothing is open.
func (ss *ShapeSerializer) emit(s *smithy.Schema, v Value) {
	if len(ss.stack) == 0 {
		ss.result = v
		ss.wrote = true
		return
	}

	top := ss.top()
	switch top.kind {
	case frameList:
		top.items = append(top.items, v)
	case frameMap:
		top.fields[top.pendingKey] = v
		top.pendingKey = ""
	case frameStruct:
		top.fields[s.ID.Member] = v
	}
}

func cborInt(v int64) Value {
	if v < 0 {
		return NegInt(uint64(-v))
	}
	return Uint(uint64(v))
}

func (ss *ShapeSerializer) WriteBool(s *smithy.Schema, v bool) { ss.emit(s, Bool(v)) }
func (ss *ShapeSerializer) WriteBoolPtr(s *smithy.Schema, v *bool) {
	if v == nil {
		ss.WriteNil(s)
		return
	}
	ss.WriteBool(s, *v)
}

func (ss *ShapeSerializer) WriteInt8(s *smithy.Schema, v int8)   { ss.emit(s, cborInt(int64(v))) }
func (ss *ShapeSerializer) WriteInt16(s *smithy.Schema, v int16) { ss.emit(s, cborInt(int64(v))) }
func (ss *ShapeSerializer) WriteInt32(s *smithy.Schema, v int32) { ss.emit(s, cborInt(int64(v))) }
func (ss *ShapeSerializer) WriteInt64(s *smithy.Schema, v int64) { ss.emit(s, cborInt(v)) }

func (ss *ShapeSerializer) WriteInt8Ptr(s *smithy.Schema, v *int8) {
	if v == nil {
		ss.WriteNil(s)
		return
	}
	ss.WriteInt8(s, *v)
}
func (ss *ShapeSerializer) WriteInt16Ptr(s *smithy.Schema, v *int16) {
	if v == nil {
		ss.WriteNil(s)
		return
	}
	ss.WriteInt16(s, *v)
}
func (ss *ShapeSerializer) WriteInt32Ptr(s *smithy.Schema, v *int32) {
	if v == nil {
		ss.WriteNil(s)
		return
	}
	ss.WriteInt32(s, *v)
}
func (ss *ShapeSerializer) WriteInt64Ptr(s *smithy.Schema, v *int64) {
	if v == nil {
		ss.WriteNil(s)
		return
	}
	ss.WriteInt64(s, *v)
}

func (ss *ShapeSerializer) WriteFloat32(s *smithy.Schema, v float32) { ss.emit(s, Float32(v)) }
func (ss *ShapeSerializer) WriteFloat64(s *smithy.Schema, v float64) { ss.emit(s, Float64(v)) }

func (ss *ShapeSerializer) WriteFloat32Ptr(s *smithy.Schema, v *float32) {
	if v == nil {
		ss.WriteNil(s)
		return
	}
	ss.WriteFloat32(s, *v)
}
func (ss *ShapeSerializer) WriteFloat64Ptr(s *smithy.Schema, v *float64) {
	if v == nil {
		ss.WriteNil(s)
		return
	}
	ss.WriteFloat64(s, *v)
}

func (ss *ShapeSerializer) WriteString(s *smithy.Schema, v string) { ss.emit(s, String(v)) }
func (ss *ShapeSerializer) WriteStringPtr(s *smithy.Schema, v *string) {
	if v == nil {
		ss.WriteNil(s)
		return
	}
	ss.WriteString(s, *v)
}

func (ss *ShapeSerializer) WriteBlob(s *smithy.Schema, v []byte) {
	if v == nil {
		ss.WriteNil(s)
		return
	}
	ss.emit(s, Slice(v))
}

func bignumTag(v *big.Int) *Tag {
	if v.Sign() < 0 {
		return &Tag{ID: tagNegativeBignum, Value: Slice(new(big.Int).Neg(v).Bytes())}
	}
	return &Tag{ID: tagPositiveBignum, Value: Slice(v.Bytes())}
}

func (ss *ShapeSerializer) WriteBigInteger(s *smithy.Schema, v big.Int) {
	if v.IsInt64() {
		ss.emit(s, cborInt(v.Int64()))
		return
	}
	ss.emit(s, bignumTag(&v))
}

// WriteBigDecimal encodes v as an RFC 8949 decimal fraction: the shortest
// decimal text that rounds back to v, split into an integer mantissa and a power-of-ten
// exponent, since CBOR has no native arbitrary-precision binary float.
func (ss *ShapeSerializer) WriteBigDecimal(s *smithy.Schema, v big.Float) {
	mantissa, exponent := decimalParts(&v)
	ss.emit(s, &Tag{ID: tagDecimalFraction, Value: List{cborInt(int64(exponent)), bignumOrInt(mantissa)}})
}

func bignumOrInt(v *big.Int) Value {
	if v.IsInt64() {
		return cborInt(v.Int64())
	}
	return bignumTag(v)
}

func (ss *ShapeSerializer) WriteTime(s *smithy.Schema, v time.Time) {
	ss.emit(s, &Tag{ID: tagEpochTimestamp, Value: Float64(float64(v.UnixNano()) / 1e9)})
}

func (ss *ShapeSerializer) WriteTimePtr(s *smithy.Schema, v *time.Time) {
	if v == nil {
		ss.WriteNil(s)
		return
	}
	ss.WriteTime(s, *v)
}

func (ss *ShapeSerializer) WriteNil(s *smithy.Schema) { ss.emit(s, &Nil{}) }

func (ss *ShapeSerializer) WriteList(s *smithy.Schema) {
	ss.push(&frame{kind: frameList, schema: s})
}

func (ss *ShapeSerializer) CloseList() {
	f := ss.pop()
	items := f.items
	if items == nil {
		items = List{}
	}
	ss.emit(f.schema, List(items))
}

func (ss *ShapeSerializer) WriteMap(s *smithy.Schema) {
	ss.push(&frame{kind: frameMap, schema: s, fields: map[string]Value{}})
}

func (ss *ShapeSerializer) WriteKey(_ *smithy.Schema, key string) {
	ss.top().pendingKey = key
}

func (ss *ShapeSerializer) CloseMap() {
	f := ss.pop()
	ss.emit(f.schema, Map(f.fields))
}

func (ss *ShapeSerializer) WriteStruct(s *smithy.Schema, v smithy.Serializable) {
	ss.push(&frame{kind: frameStruct, fields: map[string]Value{}})
	v.Serialize(ss)
	f := ss.pop()
	ss.emit(s, Map(f.fields))
}

func (ss *ShapeSerializer) WriteUnion(schema, _ *smithy.Schema, v smithy.Serializable) {
	ss.push(&frame{kind: frameStruct, fields: map[string]Value{}})
	v.Serialize(ss)
	f := ss.pop()
	ss.emit(schema, Map(f.fields))
}

func (ss *ShapeSerializer) WriteDocument(s *smithy.Schema, d smithy.Document) {
	ss.emit(s, writeDocumentValue(d, ss.settings))
}

func writeDocumentValue(d smithy.Document, settings Settings) Value {
	if d.IsNull() {
		return &Nil{}
	}

	switch d.Type() {
	case smithy.ShapeTypeBoolean:
		b, _ := d.AsBoolean()
		return Bool(b)
	case smithy.ShapeTypeByte:
		n, _ := d.AsByte()
		return cborInt(int64(n))
	case smithy.ShapeTypeShort:
		n, _ := d.AsShort()
		return cborInt(int64(n))
	case smithy.ShapeTypeInteger:
		n, _ := d.AsInt()
		return cborInt(int64(n))
	case smithy.ShapeTypeLong:
		n, _ := d.AsLong()
		return cborInt(n)
	case smithy.ShapeTypeFloat:
		f, _ := d.AsFloat()
		return Float32(f)
	case smithy.ShapeTypeDouble:
		f, _ := d.AsDouble()
		return Float64(f)
	case smithy.ShapeTypeBigInteger:
		bi, _ := d.AsBigInteger()
		if bi.IsInt64() {
			return cborInt(bi.Int64())
		}
		return bignumTag(bi)
	case smithy.ShapeTypeBigDecimal:
		bd, _ := d.AsBigDecimal()
		mantissa, exponent := decimalParts(bd)
		return &Tag{ID: tagDecimalFraction, Value: List{cborInt(int64(exponent)), bignumOrInt(mantissa)}}
	case smithy.ShapeTypeString:
		s, _ := d.AsString()
		return String(s)
	case smithy.ShapeTypeBlob:
		b, _ := d.AsBlob()
		return Slice(b)
	case smithy.ShapeTypeTimestamp:
		ts, _ := d.AsTimestamp()
		return &Tag{ID: tagEpochTimestamp, Value: Float64(float64(ts.UnixNano()) / 1e9)}
	case smithy.ShapeTypeList, smithy.ShapeTypeSet:
		items, _ := d.AsList()
		l := make(List, len(items))
		for i, item := range items {
			l[i] = writeDocumentValue(item, settings)
		}
		return l
	case smithy.ShapeTypeMap:
		fields, _ := d.AsStringMap()
		m := Map{}
		for _, e := range fields.Entries() {
			m[e.Key] = writeDocumentValue(e.Value, settings)
		}
		return m
	case smithy.ShapeTypeStructure:
		fields, _ := d.AsStringMap()
		m := Map{}
		if settings.SerializeTypeInDocuments {
			if schema, ok := d.Schema(); ok {
				m["__type"] = String(schema.ID.String())
			}
		}
		for _, e := range fields.Entries() {
			m[e.Key] = writeDocumentValue(e.Value, settings)
		}
		return m
	default:
		return &Nil{}
	}
}
