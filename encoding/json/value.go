package json

import (
	"bytes"
	"math"
	"math/big"
	"strconv"
)

// Value is a single JSON value position: a scalar write destination handed
// out by Object.Key, Array.Value, or held by an Encoder's root.
//
// Unlike the XML encoder this package is modeled on, a JSON Value needs no
// open/close tag hooks: a value is self-delimiting, so the only punctuation
// it owns is the leading quote pair for strings.
type Value struct {
	w       *bytes.Buffer
	scratch *[]byte
}

func newValue(w *bytes.Buffer, scratch *[]byte) Value {
	return Value{w: w, scratch: scratch}
}

// Boolean encodes v as a JSON true/false literal.
func (jv Value) Boolean(v bool) {
	*jv.scratch = strconv.AppendBool((*jv.scratch)[:0], v)
	jv.w.Write(*jv.scratch)
}

// Byte encodes v as a JSON number.
func (jv Value) Byte(v int8) { jv.Long(int64(v)) }

// Short encodes v as a JSON number.
func (jv Value) Short(v int16) { jv.Long(int64(v)) }

// Integer encodes v as a JSON number.
func (jv Value) Integer(v int32) { jv.Long(int64(v)) }

// Long encodes v as a JSON number.
func (jv Value) Long(v int64) {
	*jv.scratch = strconv.AppendInt((*jv.scratch)[:0], v, 10)
	jv.w.Write(*jv.scratch)
}

// Float encodes v as a JSON number, or as one of the quoted special string
// literals "NaN"/"Infinity"/"-Infinity" when v is not finite.
func (jv Value) Float(v float32) { jv.float(float64(v), 32) }

// Double encodes v as a JSON number, or as one of the quoted special string
// literals "NaN"/"Infinity"/"-Infinity" when v is not finite.
func (jv Value) Double(v float64) { jv.float(v, 64) }

func (jv Value) float(v float64, bits int) {
	switch {
	case math.IsNaN(v):
		jv.w.WriteString(`"NaN"`)
	case math.IsInf(v, 1):
		jv.w.WriteString(`"Infinity"`)
	case math.IsInf(v, -1):
		jv.w.WriteString(`"-Infinity"`)
	default:
		*jv.scratch = strconv.AppendFloat((*jv.scratch)[:0], v, 'g', -1, bits)
		jv.w.Write(*jv.scratch)
	}
}

// BigInteger encodes v as a bare (unquoted) JSON number of arbitrary
// precision.
func (jv Value) BigInteger(v *big.Int) {
	jv.w.WriteString(v.Text(10))
}

// BigDecimal encodes v as a bare (unquoted) JSON number of arbitrary
// precision.
func (jv Value) BigDecimal(v *big.Float) {
	jv.w.WriteString(v.Text('g', -1))
}

// String encodes v as an escaped, quoted JSON string.
func (jv Value) String(v string) {
	escapeString(jv.w, v)
}

// Base64EncodeBytes writes v as a base64-encoded, quoted JSON string.
func (jv Value) Base64EncodeBytes(v []byte) {
	jv.w.WriteByte('"')
	encodeByteSlice(jv.w, (*jv.scratch)[:0], v)
	jv.w.WriteByte('"')
}

// Null writes the JSON null literal.
func (jv Value) Null() {
	jv.w.WriteString("null")
}

// Object opens a JSON object at this value's position and returns an
// encoder for its keys. The caller must call Object.Close.
func (jv Value) Object() *Object {
	jv.w.WriteByte('{')
	return newObject(jv.w, jv.scratch)
}

// Array opens a JSON array at this value's position and returns an encoder
// for its elements. The caller must call Array.Close.
func (jv Value) Array() *Array {
	jv.w.WriteByte('[')
	return newArray(jv.w, jv.scratch)
}
