package extjson

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corbindb/bsondoc/bson"
	"github.com/corbindb/bsondoc/decimal128"
)

func TestEmptyDocumentExtendedJSON(t *testing.T) {
	d := bson.NewDocument()

	canon, err := ToCanonicalExtendedJSON(d)
	require.NoError(t, err)
	assert.Equal(t, "{}", canon)

	back, err := FromJSON(canon)
	require.NoError(t, err)
	assert.True(t, d.BytesEqual(back))
}

func TestInt32WrapperRoundTrip(t *testing.T) {
	d := bson.NewDocument()
	require.NoError(t, d.Set("a", bson.NewInt32(5)))

	canon, err := ToCanonicalExtendedJSON(d)
	require.NoError(t, err)
	assert.Equal(t, `{"a":{"$numberInt":"5"}}`, canon)

	relaxed, err := ToRelaxedExtendedJSON(d)
	require.NoError(t, err)
	assert.Equal(t, `{"a":5}`, relaxed)

	fromCanon, err := FromJSON(canon)
	require.NoError(t, err)
	assert.True(t, d.BytesEqual(fromCanon))

	fromRelaxed, err := FromJSON(relaxed)
	require.NoError(t, err)
	assert.True(t, d.BytesEqual(fromRelaxed))
}

func TestInt64AndDoubleRelaxedPrecedence(t *testing.T) {
	d := bson.NewDocument()
	require.NoError(t, d.Set("big", bson.NewInt64(9223372036854775807)))
	require.NoError(t, d.Set("pi", bson.NewDouble(3.5)))

	relaxed, err := ToRelaxedExtendedJSON(d)
	require.NoError(t, err)
	assert.Equal(t, `{"big":9223372036854775807,"pi":3.5}`, relaxed)

	back, err := FromJSON(relaxed)
	require.NoError(t, err)
	assert.True(t, d.BytesEqual(back))
}

func TestRegexOptionsSortedInExtendedJSON(t *testing.T) {
	d := bson.NewDocument()
	require.NoError(t, d.Set("r", bson.NewRegex("^a", "xi")))

	canon, err := ToCanonicalExtendedJSON(d)
	require.NoError(t, err)
	assert.Equal(t, `{"r":{"$regularExpression":{"pattern":"^a","options":"ix"}}}`, canon)

	back, err := FromJSON(canon)
	require.NoError(t, err)
	assert.True(t, d.BytesEqual(back))
}

func TestDecimal128CanonicalFixedForm(t *testing.T) {
	dec, err := decimal128.Parse("0.000001234")
	require.NoError(t, err)

	d := bson.NewDocument()
	require.NoError(t, d.Set("x", bson.NewDecimal128(dec)))

	canon, err := ToCanonicalExtendedJSON(d)
	require.NoError(t, err)
	assert.Equal(t, `{"x":{"$numberDecimal":"0.000001234"}}`, canon)

	relaxed, err := ToRelaxedExtendedJSON(d)
	require.NoError(t, err)
	assert.Equal(t, canon, relaxed, "Decimal128 has no relaxed native form")
}

func TestObjectIDRoundTrip(t *testing.T) {
	id, err := bson.ObjectIDFromHex("507f1f77bcf86cd799439011")
	require.NoError(t, err)

	d := bson.NewDocument()
	require.NoError(t, d.Set("_id", bson.NewObjectIDValue(id)))

	canon, err := ToCanonicalExtendedJSON(d)
	require.NoError(t, err)
	assert.Equal(t, `{"_id":{"$oid":"507f1f77bcf86cd799439011"}}`, canon)

	back, err := FromJSON(canon)
	require.NoError(t, err)
	assert.True(t, d.BytesEqual(back))
}

func TestBinarySubtypeRoundTrip(t *testing.T) {
	v, err := bson.NewBinaryValue(0x00, []byte{0xDE, 0xAD, 0xBE, 0xEF})
	require.NoError(t, err)

	d := bson.NewDocument()
	require.NoError(t, d.Set("b", v))

	canon, err := ToCanonicalExtendedJSON(d)
	require.NoError(t, err)
	assert.Equal(t, `{"b":{"$binary":{"base64":"3q2+7w==","subType":"00"}}}`, canon)

	back, err := FromJSON(canon)
	require.NoError(t, err)
	assert.True(t, d.BytesEqual(back))
}

func TestTimestampRoundTrip(t *testing.T) {
	d := bson.NewDocument()
	require.NoError(t, d.Set("t", bson.NewTimestamp(bson.Timestamp{T: 1, I: 2})))

	canon, err := ToCanonicalExtendedJSON(d)
	require.NoError(t, err)
	assert.Equal(t, `{"t":{"$timestamp":{"t":1,"i":2}}}`, canon)

	back, err := FromJSON(canon)
	require.NoError(t, err)
	assert.True(t, d.BytesEqual(back))
}

func TestDateTimeRelaxedAndCanonical(t *testing.T) {
	tm := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	dt := bson.DateTimeFromTime(tm)

	d := bson.NewDocument()
	require.NoError(t, d.Set("at", bson.NewDateTime(dt)))

	relaxed, err := ToRelaxedExtendedJSON(d)
	require.NoError(t, err)
	assert.Equal(t, `{"at":{"$date":"2020-01-01T00:00:00Z"}}`, relaxed)

	canon, err := ToCanonicalExtendedJSON(d)
	require.NoError(t, err)
	assert.Contains(t, canon, `"$numberLong"`)

	fromRelaxed, err := FromJSON(relaxed)
	require.NoError(t, err)
	assert.True(t, d.BytesEqual(fromRelaxed))

	fromCanon, err := FromJSON(canon)
	require.NoError(t, err)
	assert.True(t, d.BytesEqual(fromCanon))
}

func TestDateTimeOutsideRelaxedRangeFallsBackToCanonical(t *testing.T) {
	// Year 10000 is outside the relaxed range [1970-01-01, 10000-01-01).
	tm := time.Date(10000, 1, 1, 0, 0, 0, 0, time.UTC)
	dt := bson.DateTimeFromTime(tm)

	d := bson.NewDocument()
	require.NoError(t, d.Set("at", bson.NewDateTime(dt)))

	relaxed, err := ToRelaxedExtendedJSON(d)
	require.NoError(t, err)
	assert.Contains(t, relaxed, `"$numberLong"`)

	back, err := FromJSON(relaxed)
	require.NoError(t, err)
	assert.True(t, d.BytesEqual(back))
}

func TestLegacyRegexFallbackParsesAsRegex(t *testing.T) {
	back, err := FromJSON(`{"r":{"$regex":"^a","$options":"i"}}`)
	require.NoError(t, err)

	v, ok := back.Get("r")
	require.True(t, ok)
	r, ok := v.RegexValue()
	require.True(t, ok)
	assert.Equal(t, "^a", r.Pattern)
	assert.Equal(t, "i", r.Options)
}

func TestNestedDocumentAndArrayRoundTrip(t *testing.T) {
	inner := bson.NewDocument()
	require.NoError(t, inner.Set("y", bson.NewInt32(7)))

	d := bson.NewDocument()
	require.NoError(t, d.Set("x", bson.NewDocumentValue(inner)))
	require.NoError(t, d.Set("arr", bson.NewArrayValue([]bson.Value{bson.NewInt32(1), bson.NewString("two")})))

	canon, err := ToCanonicalExtendedJSON(d)
	require.NoError(t, err)
	assert.Equal(t, `{"x":{"y":{"$numberInt":"7"}},"arr":[{"$numberInt":"1"},"two"]}`, canon)

	back, err := FromJSON(canon)
	require.NoError(t, err)
	assert.True(t, d.BytesEqual(back))
}

func TestCodeWithScopeRoundTrip(t *testing.T) {
	scope := bson.NewDocument()
	require.NoError(t, scope.Set("x", bson.NewInt32(1)))

	d := bson.NewDocument()
	require.NoError(t, d.Set("fn", bson.NewCodeWithScope(bson.CodeWithScope{Code: "function() {}", Scope: scope})))

	canon, err := ToCanonicalExtendedJSON(d)
	require.NoError(t, err)
	assert.Equal(t, `{"fn":{"$code":"function() {}","$scope":{"x":{"$numberInt":"1"}}}}`, canon)

	back, err := FromJSON(canon)
	require.NoError(t, err)
	assert.True(t, d.BytesEqual(back))
}

func TestUndefinedMinMaxKeyRoundTrip(t *testing.T) {
	d := bson.NewDocument()
	require.NoError(t, d.Set("u", bson.NewUndefined()))
	require.NoError(t, d.Set("lo", bson.NewMinKey()))
	require.NoError(t, d.Set("hi", bson.NewMaxKey()))

	canon, err := ToCanonicalExtendedJSON(d)
	require.NoError(t, err)
	assert.Equal(t, `{"u":{"$undefined":true},"lo":{"$minKey":1},"hi":{"$maxKey":1}}`, canon)

	back, err := FromJSON(canon)
	require.NoError(t, err)
	assert.True(t, d.BytesEqual(back))
}

func TestMalformedWrapperReportsDecodingErrorPath(t *testing.T) {
	_, err := FromJSON(`{"a":{"$numberInt":"not a number"}}`)
	require.Error(t, err)

	var decErr *Error
	require.ErrorAs(t, err, &decErr)
	assert.Equal(t, []string{"a"}, decErr.Path)
}

func TestTopLevelNonObjectIsDecodingError(t *testing.T) {
	_, err := FromJSON(`5`)
	require.Error(t, err)
	var decErr *Error
	require.ErrorAs(t, err, &decErr)
}

func TestBareNumberPrecedencePrefersInt32ThenInt64ThenDouble(t *testing.T) {
	back, err := FromJSON(`{"a":5,"b":9223372036854775807,"c":5.5}`)
	require.NoError(t, err)

	a, _ := back.Get("a")
	assert.Equal(t, bson.NewInt32(5), a)

	b, _ := back.Get("b")
	assert.Equal(t, bson.NewInt64(9223372036854775807), b)

	c, _ := back.Get("c")
	assert.Equal(t, bson.NewDouble(5.5), c)
}
