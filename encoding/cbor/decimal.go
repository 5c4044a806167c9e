package cbor

import (
	"math/big"
	"strings"
)

// decimalParts splits v into an integer mantissa and a base-10 exponent
// such that mantissa * 10^exponent rounds back to v at v's precision, by
// reading v's shortest decimal text: big.Float.Text("f", -1) produces the
// fewest digits that identify v uniquely at its precision, which is not
// necessarily v's exact binary value (e.g. 0.1).
func decimalParts(v *big.Float) (*big.Int, int) {
	text := v.Text('f', -1)

	neg := strings.HasPrefix(text, "-")
	if neg {
		text = text[1:]
	}

	exponent := 0
	if i := strings.IndexByte(text, '.'); i >= 0 {
		frac := text[i+1:]
		exponent = -len(frac)
		text = text[:i] + frac
	}

	mantissa, ok := new(big.Int).SetString(text, 10)
	if !ok {
		mantissa = new(big.Int)
	}
	if neg {
		mantissa.Neg(mantissa)
	}

	return mantissa, exponent
}

// decimalValue reconstructs a big.Float from the mantissa/exponent produced
// by decimalParts (or read off the wire as a decimal fraction tag).
func decimalValue(mantissa *big.Int, exponent int) *big.Float {
	v := new(big.Float).SetPrec(uint(mantissa.BitLen() + 64)).SetInt(mantissa)
	if exponent == 0 {
		return v
	}

	scale := new(big.Float).SetPrec(v.Prec())
	ten := big.NewFloat(10)
	if exponent > 0 {
		scale.SetInt64(1)
		for i := 0; i < exponent; i++ {
			scale.Mul(scale, ten)
		}
		v.Mul(v, scale)
	} else {
		scale.SetInt64(1)
		for i := 0; i < -exponent; i++ {
			scale.Mul(scale, ten)
		}
		v.Quo(v, scale)
	}
	return v
}
