package bson

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/corbindb/bsondoc/bsontype"
)

// TestFromBytesRoundTripPreservesKeyOrderAndBytes builds a document with
// one element of every scalar type, round-trips it through FromBytes, and
// diffs both the key order and the raw bytes with cmp so a mismatch names
// the exact divergent element instead of just failing an Equal assertion.
func TestFromBytesRoundTripPreservesKeyOrderAndBytes(t *testing.T) {
	original := NewDocument()
	require.NoError(t, original.Set("double", NewDouble(3.25)))
	require.NoError(t, original.Set("string", NewString("hi")))
	require.NoError(t, original.Set("bool", NewBool(true)))
	require.NoError(t, original.Set("int32", NewInt32(-7)))
	require.NoError(t, original.Set("int64", NewInt64(1<<40)))
	require.NoError(t, original.Set("null", NewNull()))
	require.NoError(t, original.Set("oid", NewObjectIDValue(NewObjectID())))
	require.NoError(t, original.Set("array", NewArrayValue([]Value{NewInt32(1), NewInt32(2)})))

	reparsed, err := FromBytes(original.ToBytes())
	require.NoError(t, err)

	if diff := cmp.Diff(original.Keys(), reparsed.Keys()); diff != "" {
		t.Fatalf("key order mismatch (-original +reparsed):\n%s", diff)
	}
	if diff := cmp.Diff(original.ToBytes(), reparsed.ToBytes()); diff != "" {
		t.Fatalf("byte encoding mismatch (-original +reparsed):\n%s", diff)
	}
}

func TestFromBytesRoundTripEveryBinarySubtype(t *testing.T) {
	subtypes := []bsontype.BinarySubtype{
		bsontype.SubtypeGeneric,
		bsontype.SubtypeBinaryOld,
		bsontype.SubtypeUUIDOld,
		bsontype.SubtypeUUID,
		bsontype.SubtypeMD5,
		bsontype.SubtypeEncrypted,
		bsontype.SubtypeColumn,
	}

	original := NewDocument()
	for i, st := range subtypes {
		v, err := NewBinaryValue(st, []byte{byte(i), byte(i + 1)})
		require.NoError(t, err)
		require.NoError(t, original.Set(itoaInt64(int64(i)), v))
	}

	reparsed, err := FromBytes(original.ToBytes())
	require.NoError(t, err)

	if diff := cmp.Diff(original.ToBytes(), reparsed.ToBytes()); diff != "" {
		t.Fatalf("byte encoding mismatch across binary subtypes (-original +reparsed):\n%s", diff)
	}
}
