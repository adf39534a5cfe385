package decimal128

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAndStringRoundTrip(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"0", "0"},
		{"-0", "-0"},
		{"1", "1"},
		{"-1", "-1"},
		{"1.5", "1.5"},
		{"123.456", "123.456"},
		{"0.1", "0.1"},
		{"0.0001234", "0.0001234"},
		{"100", "100"},
		{"10E3", "1.0E+4"},
		{"1E+6111", "1E+6111"},
		{"-1E-6176", "-1E-6176"},
		{"NaN", "NaN"},
		{"nan", "NaN"},
		{"Infinity", "Infinity"},
		{"-Infinity", "-Infinity"},
		{"inf", "Infinity"},
	}
	for _, c := range cases {
		t.Run(c.input, func(t *testing.T) {
			d, err := Parse(c.input)
			require.NoError(t, err)
			assert.Equal(t, c.want, d.String())
		})
	}
}

func TestParseRoundTripsThroughBits(t *testing.T) {
	d, err := Parse("79228162514264337593543950335")
	require.NoError(t, err)
	hi, lo := d.Bits()
	d2 := FromBits(hi, lo)
	assert.True(t, d.Equal(d2))
	assert.Equal(t, d.String(), d2.String())
}

func TestOverflow(t *testing.T) {
	// Padding with trailing zeros can absorb a modest excess exponent
	// (1E+6112 == 10E+6111, which is in range); an excess that would
	// require more than 34 total digits cannot be absorbed.
	_, err := Parse("1E+6146")
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, Overflow, pe.Kind)
}

func TestUnderflowClampsZero(t *testing.T) {
	d, err := Parse("0E-6177")
	require.NoError(t, err)
	assert.Equal(t, "0E-6176", d.String())
}

func TestUnderflowNonZeroDigitsIsError(t *testing.T) {
	_, err := Parse("1E-6177")
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, Underflow, pe.Kind)
}

func TestMaxDigitsOverflow(t *testing.T) {
	// 35 nines cannot be represented even at exponent 0.
	_, err := Parse("99999999999999999999999999999999999")
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, Overflow, pe.Kind)
}

func TestSyntaxErrors(t *testing.T) {
	for _, in := range []string{"", "+", "-", ".", "1.2.3", "1e", "abc", "1E+-5"} {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(in)
			assert.Error(t, err)
		})
	}
}

func TestNaNIsNaN(t *testing.T) {
	d, err := Parse("NaN")
	require.NoError(t, err)
	assert.True(t, d.IsNaN())
	assert.False(t, d.IsInfinite())
}

func TestInfinityIsInfinite(t *testing.T) {
	d, err := Parse("-Infinity")
	require.NoError(t, err)
	assert.True(t, d.IsInfinite())
	assert.True(t, d.Sign())
}
