package json

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strings"
	"time"

	smithy "github.com/smithy-lang/schema-runtime"
	"github.com/smithy-lang/schema-runtime/logging"
	smithytime "github.com/smithy-lang/schema-runtime/time"
)

// ShapeDeserializer implements unmarshaling of JSON into Smithy shapes.
type ShapeDeserializer struct {
	dec      *json.Decoder
	head     stack
	settings Settings

	peeked    *json.Token
	peekedErr error
}

// NewShapeDeserializer returns a ShapeDeserializer reading p.
func NewShapeDeserializer(p []byte, settings Settings) *ShapeDeserializer {
	dec := json.NewDecoder(bytes.NewReader(p))
	dec.UseNumber()
	return &ShapeDeserializer{dec: dec, settings: settings}
}

var _ smithy.ShapeDeserializer = (*ShapeDeserializer)(nil)

func (d *ShapeDeserializer) token() (json.Token, error) {
	if d.peeked != nil {
		t, err := *d.peeked, d.peekedErr
		d.peeked, d.peekedErr = nil, nil
		return t, err
	}
	return d.dec.Token()
}

func (d *ShapeDeserializer) peek() (json.Token, error) {
	if d.peeked == nil {
		t, err := d.dec.Token()
		d.peeked, d.peekedErr = &t, err
	}
	return *d.peeked, d.peekedErr
}

func malformed(format string, args ...any) *smithy.SerializationError {
	return &smithy.SerializationError{Tag: smithy.MalformedWire, Message: fmt.Sprintf(format, args...)}
}

func wrapIO(err error) *smithy.SerializationError {
	return &smithy.SerializationError{Tag: smithy.IoFailure, Message: "reading JSON", Err: err}
}

func (d *ShapeDeserializer) expectDelim(e json.Delim) error {
	tok, err := d.token()
	if err != nil {
		return wrapIO(err)
	}

	a, ok := tok.(json.Delim)
	if !ok || a != e {
		return malformed("expected %q, got %v", e, tok)
	}
	return nil
}

// IsNull reports whether the next value is a JSON null, without consuming it.
func (d *ShapeDeserializer) IsNull(*smithy.Schema) bool {
	tok, err := d.peek()
	return err == nil && tok == nil
}

// ReadNull consumes a JSON null.
func (d *ShapeDeserializer) ReadNull(s *smithy.Schema) error {
	tok, err := d.token()
	if err != nil {
		return wrapIO(err)
	}
	if tok != nil {
		return smithy.NewTypeMismatch(s, fmt.Sprintf("%T", tok))
	}
	return nil
}

func (d *ShapeDeserializer) ReadInt8(s *smithy.Schema, v *int8) error {
	n, err := d.readInt(math.MinInt8, math.MaxInt8)
	*v = int8(n)
	return err
}
func (d *ShapeDeserializer) ReadInt16(s *smithy.Schema, v *int16) error {
	n, err := d.readInt(math.MinInt16, math.MaxInt16)
	*v = int16(n)
	return err
}
func (d *ShapeDeserializer) ReadInt32(s *smithy.Schema, v *int32) error {
	n, err := d.readInt(math.MinInt32, math.MaxInt32)
	*v = int32(n)
	return err
}
func (d *ShapeDeserializer) ReadInt64(s *smithy.Schema, v *int64) error {
	n, err := d.readInt(math.MinInt64, math.MaxInt64)
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

func (d *ShapeDeserializer) readInt(min, max int64) (int64, error) {
	tok, err := d.token()
	if err != nil {
		return 0, wrapIO(err)
	}

	num, ok := tok.(json.Number)
	if !ok {
		return 0, malformed("expected number, got %T", tok)
	}

	n, err := num.Int64()
	if err != nil {
		return 0, &smithy.SerializationError{Tag: smithy.RangeError, Message: fmt.Sprintf("%s is not an integer", num), Err: err}
	}
	if n < min || n > max {
		return 0, &smithy.SerializationError{Tag: smithy.RangeError, Message: fmt.Sprintf("%d exceeds range [%d, %d]", n, min, max)}
	}

	return n, nil
}

func (d *ShapeDeserializer) ReadFloat32(s *smithy.Schema, v *float32) error {
	n, err := d.readFloat()
	*v = float32(n)
	return err
}
func (d *ShapeDeserializer) ReadFloat64(s *smithy.Schema, v *float64) error {
	n, err := d.readFloat()
	*v = n
	return err
}

func (d *ShapeDeserializer) ReadFloat32Ptr(s *smithy.Schema, v **float32) error {
	if d.IsNull(s) {
		return d.ReadNull(s)
	}
	var n float32
	if err := d.ReadFloat32(s, &n); err != nil {
		return err
	}
	*v = &n
	return nil
}
func (d *ShapeDeserializer) ReadFloat64Ptr(s *smithy.Schema, v **float64) error {
	if d.IsNull(s) {
		return d.ReadNull(s)
	}
	var n float64
	if err := d.ReadFloat64(s, &n); err != nil {
		return err
	}
	*v = &n
	return nil
}

func (d *ShapeDeserializer) readFloat() (float64, error) {
	tok, err := d.token()
	if err != nil {
		return 0, wrapIO(err)
	}

	switch v := tok.(type) {
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, malformed("%s is not a float: %v", v, err)
		}
		return f, nil
	case string:
		switch {
		case strings.EqualFold(v, "NaN"):
			return math.NaN(), nil
		case strings.EqualFold(v, "Infinity"):
			return math.Inf(1), nil
		case strings.EqualFold(v, "-Infinity"):
			return math.Inf(-1), nil
		default:
			return 0, malformed("unexpected string value for float: %s", v)
		}
	default:
		return 0, malformed("expected number, got %T", tok)
	}
}

func (d *ShapeDeserializer) ReadBool(s *smithy.Schema, v *bool) error {
	tok, err := d.token()
	if err != nil {
		return wrapIO(err)
	}

	b, ok := tok.(bool)
	if !ok {
		return smithy.NewTypeMismatch(s, fmt.Sprintf("%T", tok))
	}

	*v = b
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
	tok, err := d.token()
	if err != nil {
		return wrapIO(err)
	}

	str, ok := tok.(string)
	if !ok {
		return smithy.NewTypeMismatch(s, fmt.Sprintf("%T", tok))
	}

	*v = str
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
	tok, err := d.token()
	if err != nil {
		return wrapIO(err)
	}

	num, ok := tok.(json.Number)
	if !ok {
		return smithy.NewTypeMismatch(s, fmt.Sprintf("%T", tok))
	}

	bi, ok := new(big.Int).SetString(num.String(), 10)
	if !ok {
		return malformed("%s is not a big integer", num)
	}
	*v = *bi
	return nil
}

func (d *ShapeDeserializer) ReadBigDecimal(s *smithy.Schema, v *big.Float) error {
	tok, err := d.token()
	if err != nil {
		return wrapIO(err)
	}

	num, ok := tok.(json.Number)
	if !ok {
		return smithy.NewTypeMismatch(s, fmt.Sprintf("%T", tok))
	}

	bf, ok := new(big.Float).SetString(num.String())
	if !ok {
		return malformed("%s is not a big decimal", num)
	}
	*v = *bf
	return nil
}

func (d *ShapeDeserializer) ReadBlob(s *smithy.Schema, v *[]byte) error {
	tok, err := d.token()
	if err != nil {
		return wrapIO(err)
	}

	if tok == nil {
		*v = nil
		return nil
	}

	str, ok := tok.(string)
	if !ok {
		return smithy.NewTypeMismatch(s, fmt.Sprintf("%T", tok))
	}

	decoded, err := base64.StdEncoding.DecodeString(str)
	if err != nil {
		return &smithy.SerializationError{Tag: smithy.Base64Error, Message: "decoding blob", Err: err}
	}

	*v = decoded
	return nil
}

func (d *ShapeDeserializer) ReadTime(s *smithy.Schema, v *time.Time) error {
	tok, err := d.token()
	if err != nil {
		return wrapIO(err)
	}

	switch t := tok.(type) {
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return &smithy.SerializationError{Tag: smithy.TimestampError, Message: fmt.Sprintf("%s is not a timestamp", t), Err: err}
		}
		*v = smithytime.ParseEpochSeconds(f)
		return nil
	case string:
		switch resolveTimestampFormat(s, d.settings) {
		case "http-date":
			tv, err := smithytime.ParseHTTPDate(t)
			if err != nil {
				return &smithy.SerializationError{Tag: smithy.TimestampError, Message: "parsing http-date", Err: err}
			}
			*v = tv
		default:
			tv, err := smithytime.ParseDateTimeFormat(t)
			if err != nil {
				return &smithy.SerializationError{Tag: smithy.TimestampError, Message: "parsing date-time", Err: err}
			}
			*v = tv
		}
		return nil
	default:
		return smithy.NewTypeMismatch(s, fmt.Sprintf("%T", tok))
	}
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
	if err := d.expectDelim('['); err != nil {
		return err
	}
	return nil
}

func (d *ShapeDeserializer) ReadListItem(s *smithy.Schema) (bool, error) {
	if !d.dec.More() {
		return false, d.expectDelim(']')
	}
	return true, nil
}

func (d *ShapeDeserializer) ReadMap(s *smithy.Schema) error {
	return d.expectDelim('{')
}

func (d *ShapeDeserializer) ReadMapKey(s *smithy.Schema) (string, bool, error) {
	if !d.dec.More() {
		return "", false, d.expectDelim('}')
	}

	tok, err := d.token()
	if err != nil {
		return "", false, wrapIO(err)
	}

	key, ok := tok.(string)
	if !ok {
		return "", false, malformed("expected string key, got %T", tok)
	}

	return key, true, nil
}

func (d *ShapeDeserializer) ReadStruct(s *smithy.Schema) error {
	if err := d.expectDelim('{'); err != nil {
		return err
	}
	d.head.Push(s)
	return nil
}

func (d *ShapeDeserializer) ReadStructMember() (*smithy.Schema, error) {
	if !d.dec.More() {
		d.head.Pop()
		return nil, d.expectDelim('}')
	}

	tok, err := d.token()
	if err != nil {
		return nil, wrapIO(err)
	}

	key, ok := tok.(string)
	if !ok {
		return nil, malformed("expected string key, got %T", tok)
	}

	schema, ok := d.head.Top().(*smithy.Schema)
	if !ok {
		return nil, malformed("ReadStructMember called without ReadStruct")
	}

	for _, m := range schema.MembersInOrder() {
		if memberName(m, d.settings) == key {
			return m, nil
		}
	}

	d.settings.Logger.Logf(logging.Debug, "skipping unknown member %q of %s", key, schema.ID)
	if err := d.skip(); err != nil {
		return nil, err
	}
	return d.ReadStructMember()
}

func (d *ShapeDeserializer) ReadUnion(s *smithy.Schema) (*smithy.Schema, error) {
	if err := d.expectDelim('{'); err != nil {
		return nil, err
	}

	if !d.dec.More() {
		return nil, malformed("union %s must have exactly one member set", s.ID)
	}

	tok, err := d.token()
	if err != nil {
		return nil, wrapIO(err)
	}

	key, ok := tok.(string)
	if !ok {
		return nil, malformed("expected string key, got %T", tok)
	}

	member, ok := s.Member(key)
	if !ok {
		return nil, &smithy.SerializationError{
			Tag:     smithy.UnknownMemberError,
			Message: fmt.Sprintf("unknown union variant %q of %s", key, s.ID),
		}
	}

	return member, nil
}

func (d *ShapeDeserializer) ReadDocument(_ *smithy.Schema, out *smithy.Document) error {
	doc, err := d.readDocumentValue()
	if err != nil {
		return err
	}
	*out = doc
	return nil
}

// readDocumentValue reads the next JSON value as an untyped smithy.Document,
// with no schema to consult: numbers that parse as an exact int64 become a
// Long document, everything else a Double. A string matching the date-time
// wire format becomes a Timestamp document rather than a String document,
// the mirror image of how writeDocumentValue encodes one (see its
// ShapeTypeTimestamp case) — the only way a document-level timestamp
// round-trips through JSON, which has no native timestamp representation.
func (d *ShapeDeserializer) readDocumentValue() (smithy.Document, error) {
	tok, err := d.token()
	if err != nil {
		return smithy.Document{}, wrapIO(err)
	}

	switch v := tok.(type) {
	case nil:
		return smithy.NewNull(), nil
	case bool:
		return smithy.NewBoolean(v), nil
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return smithy.NewLong(i), nil
		}
		f, err := v.Float64()
		if err != nil {
			return smithy.Document{}, malformed("%s is not a number", v)
		}
		return smithy.NewDouble(f), nil
	case string:
		if ts, err := smithytime.ParseDateTimeFormat(v); err == nil {
			return smithy.NewTimestamp(ts), nil
		}
		return smithy.NewString(v), nil
	case json.Delim:
		switch v {
		case '[':
			var items []smithy.Document
			for d.dec.More() {
				item, err := d.readDocumentValue()
				if err != nil {
					return smithy.Document{}, err
				}
				items = append(items, item)
			}
			if _, err := d.token(); err != nil {
				return smithy.Document{}, wrapIO(err)
			}
			return smithy.NewList(items), nil
		case '{':
			var entries []smithy.MapEntry
			for d.dec.More() {
				ktok, err := d.token()
				if err != nil {
					return smithy.Document{}, wrapIO(err)
				}
				key, ok := ktok.(string)
				if !ok {
					return smithy.Document{}, malformed("expected string key, got %T", ktok)
				}
				val, err := d.readDocumentValue()
				if err != nil {
					return smithy.Document{}, err
				}
				entries = append(entries, smithy.MapEntry{Key: key, Value: val})
			}
			if _, err := d.token(); err != nil {
				return smithy.Document{}, wrapIO(err)
			}
			return smithy.NewStringMap(entries), nil
		}
	}

	return smithy.Document{}, malformed("unexpected token %v reading document", tok)
}

// used to skip over a struct member that we didn't have a schema for, though
// it also calls itself
func (d *ShapeDeserializer) skip() error {
	tok, err := d.token()
	if err != nil {
		return wrapIO(err)
	}

	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			for d.dec.More() {
				if _, err := d.token(); err != nil { // the key
					return wrapIO(err)
				}
				if err := d.skip(); err != nil { // the value
					return err
				}
			}
			_, err := d.token() // the '}'
			return wrapIO(err)
		case '[':
			for d.dec.More() {
				if err := d.skip(); err != nil {
					return err
				}
			}
			_, err := d.token() // the ']'
			return wrapIO(err)
		default:
			return malformed("unexpected delimiter: %v", v)
		}
	default:
		return nil // scalar, nothing else to do
	}
}
