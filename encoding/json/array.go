package json

import "bytes"

// Array represents the encoding of a JSON array.
type Array struct {
	w       *bytes.Buffer
	scratch *[]byte
	n       int
}

func newArray(w *bytes.Buffer, scratch *[]byte) *Array {
	return &Array{w: w, scratch: scratch}
}

// Value returns a Value encoder for the next element. Commas between
// elements are inserted automatically.
func (a *Array) Value() Value {
	if a.n > 0 {
		a.w.WriteByte(',')
	}
	a.n++
	return newValue(a.w, a.scratch)
}

// Close writes the closing bracket.
func (a *Array) Close() {
	a.w.WriteByte(']')
}
