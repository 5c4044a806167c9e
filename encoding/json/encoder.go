package json

import "bytes"

// Encoder is the root of a JSON document under construction. It embeds
// Value so a single scalar can be written directly at the document root
// (e.g. a top-level string or number document), alongside Object/Array for
// structured roots.
type Encoder struct {
	Value
}

// NewEncoder returns an empty Encoder.
func NewEncoder() *Encoder {
	w := &bytes.Buffer{}
	scratch := make([]byte, 64)
	return &Encoder{Value: newValue(w, &scratch)}
}

// Bytes returns the encoded document so far.
func (e *Encoder) Bytes() []byte {
	return e.w.Bytes()
}
