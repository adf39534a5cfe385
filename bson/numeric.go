package bson

import (
	"math/big"
	"strconv"

	"golang.org/x/exp/constraints"

	"github.com/corbindb/bsondoc/decimal128"
)

// inRange reports whether v falls within [lo, hi], generic over any sized
// integer so the same check serves both the Int32 and future narrower
// coercions without duplicating the comparison per width.
func inRange[T constraints.Integer](v, lo, hi T) bool {
	return v >= lo && v <= hi
}

// decimalToInt64 reports whether d holds an exact integer representable
// in an int64, returning it if so.
func decimalToInt64(d decimal128.Decimal128) (int64, bool) {
	if d.IsNaN() || d.IsInfinite() {
		return 0, false
	}
	f, _, err := big.ParseFloat(d.String(), 10, 200, big.ToNearestEven)
	if err != nil || !f.IsInt() {
		return 0, false
	}
	i, acc := f.Int64()
	if acc != big.Exact {
		return 0, false
	}
	return i, true
}

// parseFloatFromDecimalString converts a decimal128 textual form to the
// nearest float64; used for the Decimal128->Double coercion.
func parseFloatFromDecimalString(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

func itoaInt64(i int64) string {
	return strconv.FormatInt(i, 10)
}
