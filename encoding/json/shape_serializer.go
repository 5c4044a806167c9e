package json

import (
	"math/big"
	"time"

	smithy "github.com/smithy-lang/schema-runtime"
	smithytime "github.com/smithy-lang/schema-runtime/time"
	"github.com/smithy-lang/schema-runtime/traits"
)

// ShapeSerializer implements marshaling of Smithy shapes to JSON.
type ShapeSerializer struct {
	root     *Encoder
	head     stack
	settings Settings
}

var _ smithy.ShapeSerializer = (*ShapeSerializer)(nil)

func (ss *ShapeSerializer) Bytes() []byte {
	return ss.root.Bytes()
}

// slot returns the Value the next scalar write should target: a pending
// object-value slot produced by WriteKey, the next array element, a fresh
// object key, or the document root.
func (ss *ShapeSerializer) slot(s *smithy.Schema) Value {
	switch enc := ss.head.Top().(type) {
	case Value:
		ss.head.Pop()
		return enc
	case *Object:
		return enc.Key(memberName(s, ss.settings))
	case *Array:
		return enc.Value()
	default:
		return ss.root.Value
	}
}

func memberName(s *smithy.Schema, settings Settings) string {
	if settings.UseJSONName {
		if jn, ok := smithy.SchemaTrait[*traits.JSONName](s); ok {
			return jn.Name
		}
	}
	return s.ID.Member
}

func (ss *ShapeSerializer) WriteBool(s *smithy.Schema, v bool) { ss.slot(s).Boolean(v) }
func (ss *ShapeSerializer) WriteBoolPtr(s *smithy.Schema, v *bool) {
	if v == nil {
		ss.WriteNil(s)
		return
	}
	ss.WriteBool(s, *v)
}

func (ss *ShapeSerializer) WriteInt8(s *smithy.Schema, v int8)   { ss.slot(s).Byte(v) }
func (ss *ShapeSerializer) WriteInt16(s *smithy.Schema, v int16) { ss.slot(s).Short(v) }
func (ss *ShapeSerializer) WriteInt32(s *smithy.Schema, v int32) { ss.slot(s).Integer(v) }
func (ss *ShapeSerializer) WriteInt64(s *smithy.Schema, v int64) { ss.slot(s).Long(v) }

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

func (ss *ShapeSerializer) WriteFloat32(s *smithy.Schema, v float32) { ss.slot(s).Float(v) }
func (ss *ShapeSerializer) WriteFloat64(s *smithy.Schema, v float64) { ss.slot(s).Double(v) }

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

func (ss *ShapeSerializer) WriteString(s *smithy.Schema, v string) { ss.slot(s).String(v) }
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
	ss.slot(s).Base64EncodeBytes(v)
}

func (ss *ShapeSerializer) WriteBigInteger(s *smithy.Schema, v big.Int) {
	ss.slot(s).BigInteger(&v)
}

func (ss *ShapeSerializer) WriteBigDecimal(s *smithy.Schema, v big.Float) {
	ss.slot(s).BigDecimal(&v)
}

func (ss *ShapeSerializer) WriteTime(s *smithy.Schema, v time.Time) {
	slot := ss.slot(s)
	switch resolveTimestampFormat(s, ss.settings) {
	case "date-time":
		slot.String(smithytime.FormatDateTime(v))
	case "http-date":
		slot.String(smithytime.FormatHTTPDate(v))
	default:
		slot.Double(smithytime.FormatEpochSeconds(v))
	}
}

func (ss *ShapeSerializer) WriteTimePtr(s *smithy.Schema, v *time.Time) {
	if v == nil {
		ss.WriteNil(s)
		return
	}
	ss.WriteTime(s, *v)
}

func (ss *ShapeSerializer) WriteNil(s *smithy.Schema) {
	ss.slot(s).Null()
}

func (ss *ShapeSerializer) WriteList(s *smithy.Schema) {
	ss.head.Push(ss.slot(s).Array())
}

func (ss *ShapeSerializer) CloseList() {
	arr := ss.head.Top().(*Array)
	arr.Close()
	ss.head.Pop()
}

func (ss *ShapeSerializer) WriteMap(s *smithy.Schema) {
	ss.head.Push(ss.slot(s).Object())
}

func (ss *ShapeSerializer) WriteKey(_ *smithy.Schema, key string) {
	obj := ss.head.Top().(*Object)
	ss.head.Push(obj.Key(key))
}

func (ss *ShapeSerializer) CloseMap() {
	obj := ss.head.Top().(*Object)
	obj.Close()
	ss.head.Pop()
}

func (ss *ShapeSerializer) WriteStruct(s *smithy.Schema, v smithy.Serializable) {
	ss.head.Push(ss.slot(s).Object())
	v.Serialize(ss)
	obj := ss.head.Top().(*Object)
	obj.Close()
	ss.head.Pop()
}

func (ss *ShapeSerializer) WriteUnion(schema, variant *smithy.Schema, v smithy.Serializable) {
	ss.head.Push(ss.slot(schema).Object())
	v.Serialize(ss)
	obj := ss.head.Top().(*Object)
	obj.Close()
	ss.head.Pop()
}

func (ss *ShapeSerializer) WriteDocument(s *smithy.Schema, d smithy.Document) {
	writeDocumentValue(ss.slot(s), d, ss.settings)
}

// writeDocumentValue recursively encodes a schema-free smithy.Document,
// since a document carries its own shape information rather than relying on
// a caller-supplied member schema.
func writeDocumentValue(v Value, d smithy.Document, settings Settings) {
	if d.IsNull() {
		v.Null()
		return
	}

	switch d.Type() {
	case smithy.ShapeTypeBoolean:
		b, _ := d.AsBoolean()
		v.Boolean(b)
	case smithy.ShapeTypeByte:
		n, _ := d.AsByte()
		v.Byte(n)
	case smithy.ShapeTypeShort:
		n, _ := d.AsShort()
		v.Short(n)
	case smithy.ShapeTypeInteger:
		n, _ := d.AsInt()
		v.Integer(n)
	case smithy.ShapeTypeLong:
		n, _ := d.AsLong()
		v.Long(n)
	case smithy.ShapeTypeFloat:
		f, _ := d.AsFloat()
		v.Float(f)
	case smithy.ShapeTypeDouble:
		f, _ := d.AsDouble()
		v.Double(f)
	case smithy.ShapeTypeBigInteger:
		bi, _ := d.AsBigInteger()
		v.BigInteger(bi)
	case smithy.ShapeTypeBigDecimal:
		bd, _ := d.AsBigDecimal()
		v.BigDecimal(bd)
	case smithy.ShapeTypeString:
		s, _ := d.AsString()
		v.String(s)
	case smithy.ShapeTypeBlob:
		b, _ := d.AsBlob()
		v.Base64EncodeBytes(b)
	case smithy.ShapeTypeTimestamp:
		// Unlike a schema-driven WriteTime call (which picks epoch-seconds
		// vs. date-time per the member's timestampFormat trait), a
		// document-level timestamp has no trait to consult and a bare JSON
		// number here would be indistinguishable on read from a Long/Double
		// document. date-time is the only JSON representation with a shape
		// (a string matching RFC3339) a reader can recognize, so document
		// timestamps always use it, regardless of settings.
		ts, _ := d.AsTimestamp()
		v.String(smithytime.FormatDateTime(ts))
	case smithy.ShapeTypeList, smithy.ShapeTypeSet:
		items, _ := d.AsList()
		arr := v.Array()
		for _, item := range items {
			writeDocumentValue(arr.Value(), item, settings)
		}
		arr.Close()
	case smithy.ShapeTypeMap:
		fields, _ := d.AsStringMap()
		obj := v.Object()
		for _, e := range fields.Entries() {
			writeDocumentValue(obj.Key(e.Key), e.Value, settings)
		}
		obj.Close()
	case smithy.ShapeTypeStructure:
		fields, _ := d.AsStringMap()
		obj := v.Object()
		if settings.SerializeTypeInDocuments {
			if schema, ok := d.Schema(); ok {
				obj.Key("__type").String(schema.ID.String())
			}
		}
		for _, e := range fields.Entries() {
			writeDocumentValue(obj.Key(e.Key), e.Value, settings)
		}
		obj.Close()
	}
}
