package json

import (
	"bytes"
	"encoding/base64"
	"unicode/utf8"
)

const hex = "0123456789abcdef"

// escapeString writes v to w as a quoted, escaped JSON string.
func escapeString(w *bytes.Buffer, v string) {
	w.WriteByte('"')

	start := 0
	for i := 0; i < len(v); {
		if b := v[i]; b < utf8.RuneSelf {
			if b >= 0x20 && b != '"' && b != '\\' {
				i++
				continue
			}
			if start < i {
				w.WriteString(v[start:i])
			}
			switch b {
			case '"', '\\':
				w.WriteByte('\\')
				w.WriteByte(b)
			case '\n':
				w.WriteString(`\n`)
			case '\r':
				w.WriteString(`\r`)
			case '\t':
				w.WriteString(`\t`)
			default:
				w.WriteString(`\u00`)
				w.WriteByte(hex[b>>4])
				w.WriteByte(hex[b&0xF])
			}
			i++
			start = i
			continue
		}

		c, size := utf8.DecodeRuneInString(v[i:])
		if c == utf8.RuneError && size == 1 {
			if start < i {
				w.WriteString(v[start:i])
			}
			w.WriteString(`�`)
			i += size
			start = i
			continue
		}
		i += size
	}

	if start < len(v) {
		w.WriteString(v[start:])
	}

	w.WriteByte('"')
}

// encodeByteSlice base64-encodes v into w, reusing scratch when it's large
// enough to hold the encoded output.
func encodeByteSlice(w *bytes.Buffer, scratch []byte, v []byte) {
	if v == nil {
		return
	}

	encodedLen := base64.StdEncoding.EncodedLen(len(v))
	if encodedLen <= len(scratch) {
		dst := scratch[:encodedLen]
		base64.StdEncoding.Encode(dst, v)
		w.Write(dst)
	} else if encodedLen <= 1024 {
		dst := make([]byte, encodedLen)
		base64.StdEncoding.Encode(dst, v)
		w.Write(dst)
	} else {
		enc := base64.NewEncoder(base64.StdEncoding, w)
		enc.Write(v)
		enc.Close()
	}
}
