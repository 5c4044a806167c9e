package testing

import (
	"testing"
)

func TestAssertJSON(t *testing.T) {
	cases := map[string]struct {
		X, Y  []byte
		Equal bool
	}{
		"equal": {
			X:     []byte(`{"RecursiveStruct":{"RecursiveMap":{"foo":{"NoRecurse":"foo"},"bar":{"NoRecurse":"bar"}}}}`),
			Y:     []byte(`{"RecursiveStruct":{"RecursiveMap":{"bar":{"NoRecurse":"bar"},"foo":{"NoRecurse":"foo"}}}}`),
			Equal: true,
		},
		"not equal": {
			X:     []byte(`{"RecursiveStruct":{"RecursiveMap":{"foo":{"NoRecurse":"foo"},"bar":{"NoRecurse":"bar"}}}}`),
			Y:     []byte(`{"RecursiveStruct":{"RecursiveMap":{"foo":{"NoRecurse":"foo"}}}}`),
			Equal: false,
		},
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			err := JSONEqual(c.X, c.Y)
			if c.Equal {
				if err != nil {
					t.Fatalf("expect JSON to be equal, %v", err)
				}
			} else if err == nil {
				t.Fatalf("expect JSON to not be equal, %v", err)
			}
		})
	}
}

func TestAssertCBOR(t *testing.T) {
	// {"foo": 1, "bar": 2} encoded with keys in each order.
	fooFirst := []byte{0xa2, 0x63, 'f', 'o', 'o', 0x01, 0x63, 'b', 'a', 'r', 0x02}
	barFirst := []byte{0xa2, 0x63, 'b', 'a', 'r', 0x02, 0x63, 'f', 'o', 'o', 0x01}
	fooOnly := []byte{0xa1, 0x63, 'f', 'o', 'o', 0x01}

	if err := CBOREqual(fooFirst, barFirst); err != nil {
		t.Fatalf("expect CBOR to be equal, %v", err)
	}
	if err := CBOREqual(fooFirst, fooOnly); err == nil {
		t.Fatalf("expect CBOR to not be equal")
	}
}
