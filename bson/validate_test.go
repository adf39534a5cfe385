package bson

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corbindb/bsondoc/bsontype"
)

func TestValueValidatePlainScalarsOK(t *testing.T) {
	assert.NoError(t, NewString("hello").Validate())
	assert.NoError(t, NewInt32(7).Validate())
	assert.NoError(t, NewBool(true).Validate())
	assert.NoError(t, NewNull().Validate())
}

func TestValueValidateRegexRejectsEmbeddedNUL(t *testing.T) {
	bad := Value{tag: NewRegex("a", "i").Type(), payload: Regex{Pattern: "a\x00b", Options: "i"}}
	assert.Error(t, bad.Validate())
}

func TestValueValidateRegexRejectsUnsortedOptions(t *testing.T) {
	bad := Value{tag: NewRegex("a", "i").Type(), payload: Regex{Pattern: "a", Options: "xi"}}
	assert.Error(t, bad.Validate())
}

func TestValueValidateRegexAcceptsSortedOptions(t *testing.T) {
	assert.NoError(t, NewRegex("a", "imsx").Validate())
}

func TestValueValidateBinaryUUIDRequiresSixteenBytes(t *testing.T) {
	v, err := NewBinaryValue(bsontype.SubtypeUUID, []byte{1, 2, 3})
	require.NoError(t, err)
	assert.Error(t, v.Validate())
}

func TestValueValidateNestedDocumentRecurses(t *testing.T) {
	inner := NewDocument()
	require.NoError(t, inner.Set("ok", NewString("fine")))
	assert.NoError(t, NewDocumentValue(inner).Validate())

	badString := Value{tag: NewString("").Type(), payload: string([]byte{0xff, 0xfe})}
	require.NoError(t, inner.Set("bad", badString))
	assert.Error(t, NewDocumentValue(inner).Validate())
}

func TestValueValidateCodeWithScopeRecursesIntoScope(t *testing.T) {
	scope := NewDocument()
	require.NoError(t, scope.Set("x", NewInt32(1)))
	v := NewCodeWithScope(CodeWithScope{Code: "function() {}", Scope: scope})
	assert.NoError(t, v.Validate())
}
