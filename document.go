package smithy

import (
	"bytes"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"time"

	smithytime "github.com/smithy-lang/schema-runtime/time"
	"github.com/smithy-lang/schema-runtime/traits"
)

// shapeTypeNull is an internal sentinel distinguishing an explicit null
// Document from a zero-valued Boolean (ShapeTypeBoolean == 0). It is never
// exposed through the public ShapeType enumeration.
const shapeTypeNull ShapeType = -1

// Document is a polymorphic, schema-optional value: a tagged union mirroring
// ShapeType, used for untyped payloads, discriminated unions, type-coerced
// tool inputs, and round-tripping between codecs.
//
// Document is a value type. Copying a Document copies the variant tag and,
// for aggregates, shares the underlying slice/fields (cheap, and safe since
// Documents are immutable once constructed).
type Document struct {
	typ    ShapeType
	schema *Schema // set for Struct documents (and optionally others), used for round-tripping

	b    bool
	i    int64 // Byte/Short/Integer/Long
	f    float64
	bigI *big.Int
	bigD *big.Float
	s    string
	blob []byte
	ts   time.Time

	list   []Document
	fields *Fields
}

// MapEntry is one key/value pair of a StringMap or Struct document, in
// declaration/insertion order.
type MapEntry struct {
	Key   string
	Value Document
}

// Fields is an ordered mapping from member/key name to Document, backing the
// StringMap and Struct variants. Key order is preserved from construction;
// lookup is O(1).
type Fields struct {
	entries []MapEntry
	index   map[string]int
}

// NewFields builds a Fields value preserving the given entry order.
func NewFields(entries []MapEntry) *Fields {
	f := &Fields{
		entries: entries,
		index:   make(map[string]int, len(entries)),
	}
	for i, e := range entries {
		f.index[e.Key] = i
	}
	return f
}

// Len returns the number of entries.
func (f *Fields) Len() int {
	if f == nil {
		return 0
	}
	return len(f.entries)
}

// At returns the i'th entry in declaration order.
func (f *Fields) At(i int) MapEntry {
	return f.entries[i]
}

// Get looks up a value by key.
func (f *Fields) Get(key string) (Document, bool) {
	if f == nil {
		return Document{}, false
	}
	i, ok := f.index[key]
	if !ok {
		return Document{}, false
	}
	return f.entries[i].Value, true
}

// Entries returns the entries in declaration order. The returned slice must
// not be mutated.
func (f *Fields) Entries() []MapEntry {
	if f == nil {
		return nil
	}
	return f.entries
}

// Type returns the Document's variant tag exactly.
func (d Document) Type() ShapeType {
	return d.typ
}

// IsNull reports whether d represents an explicit null, as produced by
// writeNull or a sparse list/map element.
func (d Document) IsNull() bool {
	return d.typ == shapeTypeNull
}

// Schema returns the schema the document was constructed with, if any. Only
// Struct documents (and documents produced via a typed write path) reliably
// carry one.
func (d Document) Schema() (*Schema, bool) {
	return d.schema, d.schema != nil
}

// Constructors. Each produces an immutable Document of the named variant.

func NewNull() Document { return Document{typ: shapeTypeNull} }

func NewBoolean(v bool) Document { return Document{typ: ShapeTypeBoolean, b: v} }
func NewByte(v int8) Document    { return Document{typ: ShapeTypeByte, i: int64(v)} }
func NewShort(v int16) Document  { return Document{typ: ShapeTypeShort, i: int64(v)} }
func NewInt(v int32) Document    { return Document{typ: ShapeTypeInteger, i: int64(v)} }
func NewLong(v int64) Document   { return Document{typ: ShapeTypeLong, i: v} }
func NewFloat(v float32) Document {
	return Document{typ: ShapeTypeFloat, f: float64(v)}
}
func NewDouble(v float64) Document { return Document{typ: ShapeTypeDouble, f: v} }

func NewBigInteger(v *big.Int) Document { return Document{typ: ShapeTypeBigInteger, bigI: v} }
func NewBigDecimal(v *big.Float) Document {
	return Document{typ: ShapeTypeBigDecimal, bigD: v}
}

func NewString(v string) Document { return Document{typ: ShapeTypeString, s: v} }
func NewBlob(v []byte) Document   { return Document{typ: ShapeTypeBlob, blob: v} }
func NewTimestamp(v time.Time) Document {
	return Document{typ: ShapeTypeTimestamp, ts: v}
}

func NewList(items []Document) Document {
	return Document{typ: ShapeTypeList, list: items}
}

func NewStringMap(entries []MapEntry) Document {
	return Document{typ: ShapeTypeMap, fields: NewFields(entries)}
}

// NewStruct builds a Struct document. schema is required: it is what lets
// the document be round-tripped back through asShape and what a codec uses
// to emit the __type discriminator.
func NewStruct(schema *Schema, entries []MapEntry) Document {
	return Document{typ: ShapeTypeStructure, schema: schema, fields: NewFields(entries)}
}

// GetMember returns the named member's value. Only defined for Struct and
// StringMap documents; returns (zero, false) otherwise or if absent.
func (d Document) GetMember(name string) (Document, bool) {
	if d.typ != ShapeTypeStructure && d.typ != ShapeTypeMap {
		return Document{}, false
	}
	return d.fields.Get(name)
}

// --- coercions ---
//
// Every As* method fails with a *SerializationError on an impossible
// coercion, per the authoritative matrix in spec §4.3. Integral narrowing
// (e.g. Long -> Byte) truncates silently; only conversions sourced from the
// arbitrary-precision BigInteger/BigDecimal variants range-check against the
// requested width.

func typeMismatchDoc(d Document, want string) *SerializationError {
	return &SerializationError{
		Tag:     TypeMismatch,
		Message: fmt.Sprintf("document of type %s cannot convert to %s", documentTypeName(d), want),
	}
}

func documentTypeName(d Document) string {
	if d.IsNull() {
		return "null"
	}
	return d.typ.String()
}

func (d Document) toRangedInt(min, max int64) (int64, error) {
	switch d.typ {
	case ShapeTypeByte, ShapeTypeShort, ShapeTypeInteger, ShapeTypeLong:
		return d.i, nil
	case ShapeTypeFloat, ShapeTypeDouble:
		return int64(d.f), nil
	case ShapeTypeBigInteger:
		lo, hi := big.NewInt(min), big.NewInt(max)
		if d.bigI.Cmp(lo) < 0 || d.bigI.Cmp(hi) > 0 {
			return 0, &SerializationError{Tag: RangeError, Message: fmt.Sprintf("big integer %s out of range [%d, %d]", d.bigI.String(), min, max)}
		}
		return d.bigI.Int64(), nil
	case ShapeTypeBigDecimal:
		lo, hi := new(big.Float).SetInt64(min), new(big.Float).SetInt64(max)
		if d.bigD.Cmp(lo) < 0 || d.bigD.Cmp(hi) > 0 {
			return 0, &SerializationError{Tag: RangeError, Message: fmt.Sprintf("big decimal %s out of range [%d, %d]", d.bigD.Text('g', -1), min, max)}
		}
		i, _ := d.bigD.Int64()
		return i, nil
	default:
		return 0, typeMismatchDoc(d, "integer")
	}
}

func (d Document) AsBoolean() (bool, error) {
	if d.typ != ShapeTypeBoolean {
		return false, typeMismatchDoc(d, "boolean")
	}
	return d.b, nil
}

func (d Document) AsByte() (int8, error) {
	v, err := d.toRangedInt(math.MinInt8, math.MaxInt8)
	return int8(v), err
}

func (d Document) AsShort() (int16, error) {
	v, err := d.toRangedInt(math.MinInt16, math.MaxInt16)
	return int16(v), err
}

func (d Document) AsInt() (int32, error) {
	v, err := d.toRangedInt(math.MinInt32, math.MaxInt32)
	return int32(v), err
}

func (d Document) AsLong() (int64, error) {
	return d.toRangedInt(math.MinInt64, math.MaxInt64)
}

// AsNumber returns the document's numeric value widened to float64, for
// callers that don't care about the exact numeric shape type.
func (d Document) AsNumber() (float64, error) {
	return d.AsDouble()
}

func (d Document) AsDouble() (float64, error) {
	switch d.typ {
	case ShapeTypeByte, ShapeTypeShort, ShapeTypeInteger, ShapeTypeLong:
		return float64(d.i), nil
	case ShapeTypeFloat, ShapeTypeDouble:
		return d.f, nil
	case ShapeTypeBigInteger:
		f := new(big.Float).SetInt(d.bigI)
		v, _ := f.Float64()
		return v, nil
	case ShapeTypeBigDecimal:
		v, _ := d.bigD.Float64()
		return v, nil
	default:
		return 0, typeMismatchDoc(d, "double")
	}
}

func (d Document) AsFloat() (float32, error) {
	v, err := d.AsDouble()
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return float32(v), nil
	}
	f32 := float32(v)
	if math.IsInf(float64(f32), 0) {
		return 0, &SerializationError{Tag: RangeError, Message: fmt.Sprintf("double %v overflows float32 range", v)}
	}
	return f32, nil
}

func (d Document) AsBigInteger() (*big.Int, error) {
	switch d.typ {
	case ShapeTypeByte, ShapeTypeShort, ShapeTypeInteger, ShapeTypeLong:
		return big.NewInt(d.i), nil
	case ShapeTypeFloat, ShapeTypeDouble:
		bi, _ := big.NewFloat(d.f).Int(nil)
		return bi, nil
	case ShapeTypeBigInteger:
		return d.bigI, nil
	case ShapeTypeBigDecimal:
		bi, _ := d.bigD.Int(nil)
		return bi, nil
	default:
		return nil, typeMismatchDoc(d, "big integer")
	}
}

func (d Document) AsBigDecimal() (*big.Float, error) {
	switch d.typ {
	case ShapeTypeByte, ShapeTypeShort, ShapeTypeInteger, ShapeTypeLong:
		return new(big.Float).SetInt64(d.i), nil
	case ShapeTypeFloat, ShapeTypeDouble:
		return big.NewFloat(d.f), nil
	case ShapeTypeBigInteger:
		return new(big.Float).SetInt(d.bigI), nil
	case ShapeTypeBigDecimal:
		return d.bigD, nil
	default:
		return nil, typeMismatchDoc(d, "big decimal")
	}
}

// AsString returns the document's string value. A Blob document exposes its
// UTF-8 decode.
func (d Document) AsString() (string, error) {
	switch d.typ {
	case ShapeTypeString:
		return d.s, nil
	case ShapeTypeBlob:
		return string(d.blob), nil
	default:
		return "", typeMismatchDoc(d, "string")
	}
}

// AsBlob returns the document's byte value. A String document exposes its
// UTF-8 bytes.
func (d Document) AsBlob() ([]byte, error) {
	switch d.typ {
	case ShapeTypeBlob:
		return d.blob, nil
	case ShapeTypeString:
		return []byte(d.s), nil
	default:
		return nil, typeMismatchDoc(d, "blob")
	}
}

// AsTimestamp returns the document's timestamp value, per the coercion
// matrix in spec §4.3: a lazily-typed String document is parsed trying, in
// turn, the date-time, http-date, and epoch-seconds formats; a numeric
// document is interpreted as Unix epoch seconds. AsTimestampWithSchema
// should be preferred when a schema is in hand, since it honors the
// schema's smithy.api#timestampFormat trait instead of guessing.
func (d Document) AsTimestamp() (time.Time, error) {
	switch d.typ {
	case ShapeTypeTimestamp:
		return d.ts, nil
	case ShapeTypeString:
		return parseTimestampString(d.s)
	case ShapeTypeByte, ShapeTypeShort, ShapeTypeInteger, ShapeTypeLong:
		return smithytime.ParseEpochSeconds(float64(d.i)), nil
	case ShapeTypeFloat, ShapeTypeDouble:
		return smithytime.ParseEpochSeconds(d.f), nil
	default:
		return time.Time{}, typeMismatchDoc(d, "timestamp")
	}
}

// AsTimestampWithSchema is AsTimestamp, but for a lazily-typed (String)
// document honors schema's smithy.api#timestampFormat trait instead of
// trying every known format in turn. schema may be nil, in which case it
// behaves exactly like AsTimestamp.
func (d Document) AsTimestampWithSchema(schema *Schema) (time.Time, error) {
	if d.typ != ShapeTypeString {
		return d.AsTimestamp()
	}
	if schema == nil {
		schema, _ = preludeFor(d.typ)
	}
	if schema != nil {
		if tf, ok := SchemaTrait[*traits.TimestampFormat](schema); ok {
			switch tf.Format {
			case "date-time":
				return smithytime.ParseDateTimeFormat(d.s)
			case "http-date":
				return smithytime.ParseHTTPDate(d.s)
			case "epoch-seconds":
				f, err := strconv.ParseFloat(d.s, 64)
				if err != nil {
					return time.Time{}, &SerializationError{Tag: TimestampError, Message: fmt.Sprintf("string %q is not a valid epoch-seconds timestamp", d.s)}
				}
				return smithytime.ParseEpochSeconds(f), nil
			}
		}
	}
	return d.AsTimestamp()
}

// parseTimestampString resolves a lazily-typed timestamp string with no
// schema to consult, trying each recognized wire format in turn.
func parseTimestampString(s string) (time.Time, error) {
	if ts, err := smithytime.ParseDateTimeFormat(s); err == nil {
		return ts, nil
	}
	if ts, err := smithytime.ParseHTTPDate(s); err == nil {
		return ts, nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return smithytime.ParseEpochSeconds(f), nil
	}
	return time.Time{}, &SerializationError{Tag: TimestampError, Message: fmt.Sprintf("string %q does not match a recognized timestamp format", s)}
}

// AsList returns the document's element sequence.
func (d Document) AsList() ([]Document, error) {
	if d.typ != ShapeTypeList && d.typ != ShapeTypeSet {
		return nil, typeMismatchDoc(d, "list")
	}
	return d.list, nil
}

// AsStringMap returns the document's ordered fields. Defined for StringMap
// and Struct documents alike, since both share the same backing Fields.
func (d Document) AsStringMap() (*Fields, error) {
	if d.typ != ShapeTypeMap && d.typ != ShapeTypeStructure {
		return nil, typeMismatchDoc(d, "map")
	}
	return d.fields, nil
}

// Equal implements the normalized equality relation from spec §4.3: both
// operands must share a type; scalars compare by value (NaN == NaN for
// floats); lists compare pairwise in order; maps/structs compare by key set,
// ignoring order.
func Equal(a, b Document) bool {
	if a.IsNull() || b.IsNull() {
		return a.IsNull() && b.IsNull()
	}
	if a.typ != b.typ {
		return false
	}

	switch a.typ {
	case ShapeTypeBoolean:
		return a.b == b.b
	case ShapeTypeByte, ShapeTypeShort, ShapeTypeInteger, ShapeTypeLong:
		return a.i == b.i
	case ShapeTypeFloat, ShapeTypeDouble:
		if math.IsNaN(a.f) && math.IsNaN(b.f) {
			return true
		}
		return a.f == b.f
	case ShapeTypeBigInteger:
		return a.bigI.Cmp(b.bigI) == 0
	case ShapeTypeBigDecimal:
		return a.bigD.Cmp(b.bigD) == 0
	case ShapeTypeString:
		return a.s == b.s
	case ShapeTypeBlob:
		return bytes.Equal(a.blob, b.blob)
	case ShapeTypeTimestamp:
		return a.ts.Equal(b.ts)
	case ShapeTypeList, ShapeTypeSet:
		if len(a.list) != len(b.list) {
			return false
		}
		for i := range a.list {
			if !Equal(a.list[i], b.list[i]) {
				return false
			}
		}
		return true
	case ShapeTypeMap, ShapeTypeStructure:
		if a.fields.Len() != b.fields.Len() {
			return false
		}
		for _, e := range a.fields.Entries() {
			bv, ok := b.fields.Get(e.Key)
			if !ok || !Equal(e.Value, bv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
