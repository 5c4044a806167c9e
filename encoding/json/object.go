package json

import "bytes"

// Object represents the encoding of a JSON object.
type Object struct {
	w       *bytes.Buffer
	scratch *[]byte
	n       int
}

func newObject(w *bytes.Buffer, scratch *[]byte) *Object {
	return &Object{w: w, scratch: scratch}
}

// Key writes name as an object key and returns a Value encoder for the
// associated value. Commas between entries are inserted automatically.
func (o *Object) Key(name string) Value {
	if o.n > 0 {
		o.w.WriteByte(',')
	}
	o.n++

	escapeString(o.w, name)
	o.w.WriteByte(':')

	return newValue(o.w, o.scratch)
}

// Close writes the closing brace.
func (o *Object) Close() {
	o.w.WriteByte('}')
}
