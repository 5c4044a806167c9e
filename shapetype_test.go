package smithy

import "testing"

func TestShapeTypeString(t *testing.T) {
	cases := []struct {
		typ  ShapeType
		want string
	}{
		{ShapeTypeBoolean, "boolean"},
		{ShapeTypeLong, "long"},
		{ShapeTypeBigDecimal, "bigDecimal"},
		{ShapeTypeStructure, "structure"},
		{ShapeType(999), "unknown"},
	}
	for _, c := range cases {
		if got := c.typ.String(); got != c.want {
			t.Errorf("ShapeType(%d).String() = %q, want %q", c.typ, got, c.want)
		}
	}
}

func TestWidensPartialOrder(t *testing.T) {
	// byte -> short -> integer -> long -> float -> double
	chain := []ShapeType{ShapeTypeByte, ShapeTypeShort, ShapeTypeInteger, ShapeTypeLong, ShapeTypeFloat, ShapeTypeDouble}
	for i := range chain {
		for j := range chain {
			want := i <= j
			if got := Widens(chain[i], chain[j]); got != want {
				t.Errorf("Widens(%v, %v) = %v, want %v", chain[i], chain[j], got, want)
			}
		}
	}
}

func TestWidensIntoArbitraryPrecision(t *testing.T) {
	for _, from := range []ShapeType{ShapeTypeByte, ShapeTypeLong, ShapeTypeDouble} {
		if !Widens(from, ShapeTypeBigInteger) {
			t.Errorf("Widens(%v, BigInteger) = false, want true", from)
		}
		if !Widens(from, ShapeTypeBigDecimal) {
			t.Errorf("Widens(%v, BigDecimal) = false, want true", from)
		}
	}
	// The reverse never holds: arbitrary-precision types never implicitly narrow.
	if Widens(ShapeTypeBigInteger, ShapeTypeLong) {
		t.Errorf("Widens(BigInteger, Long) = true, want false")
	}
}

func TestIsNumeric(t *testing.T) {
	for _, typ := range []ShapeType{ShapeTypeByte, ShapeTypeShort, ShapeTypeInteger, ShapeTypeLong, ShapeTypeFloat, ShapeTypeDouble, ShapeTypeBigInteger, ShapeTypeBigDecimal} {
		if !typ.IsNumeric() {
			t.Errorf("%v.IsNumeric() = false, want true", typ)
		}
	}
	for _, typ := range []ShapeType{ShapeTypeString, ShapeTypeBlob, ShapeTypeStructure, ShapeTypeList} {
		if typ.IsNumeric() {
			t.Errorf("%v.IsNumeric() = true, want false", typ)
		}
	}
}
