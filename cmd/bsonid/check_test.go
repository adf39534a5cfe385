package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corbindb/bsondoc/bson"
)

func TestCheckRoundTripSucceedsOnPlainDocument(t *testing.T) {
	doc := bson.NewDocument()
	require.NoError(t, doc.Set("name", bson.NewString("ferret")))
	require.NoError(t, doc.Set("count", bson.NewInt32(3)))
	require.NoError(t, doc.Set("id", bson.NewObjectIDValue(bson.NewObjectID())))

	r := checkRoundTrip(doc)
	assert.True(t, r.OK, r.Detail)
	assert.NotEmpty(t, r.Canonical)
}

func TestCheckRoundTripSucceedsOnNestedDocument(t *testing.T) {
	inner := bson.NewDocument()
	require.NoError(t, inner.Set("x", bson.NewDouble(1.5)))

	outer := bson.NewDocument()
	require.NoError(t, outer.Set("inner", bson.NewDocumentValue(inner)))
	require.NoError(t, outer.Set("tags", bson.NewArrayValue([]bson.Value{
		bson.NewString("a"), bson.NewString("b"),
	})))

	r := checkRoundTrip(outer)
	assert.True(t, r.OK, r.Detail)
}

func TestCheckFileReadsConcatenatedDocuments(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "docs.bson")

	a := bson.NewDocument()
	require.NoError(t, a.Set("a", bson.NewInt32(1)))
	b := bson.NewDocument()
	require.NoError(t, b.Set("b", bson.NewInt32(2)))

	var buf bytes.Buffer
	buf.Write(a.ToBytes())
	buf.Write(b.ToBytes())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	results, err := checkFile(path)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.True(t, results[0].OK)
	assert.True(t, results[1].OK)
}

func TestCheckFileMissingFileIsError(t *testing.T) {
	_, err := checkFile(filepath.Join(t.TempDir(), "does-not-exist.bson"))
	assert.Error(t, err)
}
