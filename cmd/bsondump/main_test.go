package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corbindb/bsondoc/bson"
)

func TestReadDocumentsConcatenated(t *testing.T) {
	a := bson.NewDocument()
	require.NoError(t, a.Set("x", bson.NewInt32(1)))
	b := bson.NewDocument()
	require.NoError(t, b.Set("y", bson.NewInt32(2)))

	var buf bytes.Buffer
	buf.Write(a.ToBytes())
	buf.Write(b.ToBytes())

	docs, err := readDocuments(&buf)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	v, ok := docs[0].Get("x")
	require.True(t, ok)
	i, _ := v.Int32Value()
	assert.Equal(t, int32(1), i)

	v, ok = docs[1].Get("y")
	require.True(t, ok)
	i, _ = v.Int32Value()
	assert.Equal(t, int32(2), i)
}

func TestReadDocumentsEmptyStreamIsEmptySlice(t *testing.T) {
	docs, err := readDocuments(&bytes.Buffer{})
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestReadDocumentsTruncatedBodyIsError(t *testing.T) {
	a := bson.NewDocument()
	require.NoError(t, a.Set("x", bson.NewInt32(1)))
	raw := a.ToBytes()

	truncated := bytes.NewBuffer(raw[:len(raw)-2])
	_, err := readDocuments(truncated)
	assert.Error(t, err)
}

func TestRenderDocTypes(t *testing.T) {
	d := bson.NewDocument()
	require.NoError(t, d.Set("a", bson.NewInt32(5)))

	relaxed, err := renderDoc(d, "json")
	require.NoError(t, err)
	assert.Equal(t, `{"a":5}`, relaxed)

	canonical, err := renderDoc(d, "canonical")
	require.NoError(t, err)
	assert.Equal(t, `{"a":{"$numberInt":"5"}}`, canonical)

	debug, err := renderDoc(d, "debug")
	require.NoError(t, err)
	assert.Equal(t, `{"a": 5}`, debug)

	_, err = renderDoc(d, "nonsense")
	assert.Error(t, err)
}
