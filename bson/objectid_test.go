package bson

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectIDFromHexRoundTrip(t *testing.T) {
	id := NewObjectID()
	parsed, err := ObjectIDFromHex(id.Hex())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)
}

func TestObjectIDFromHexRejectsWrongLength(t *testing.T) {
	_, err := ObjectIDFromHex("deadbeef")
	assert.Error(t, err)
}

func TestObjectIDFromHexRejectsNonHex(t *testing.T) {
	_, err := ObjectIDFromHex("zzzzzzzzzzzzzzzzzzzzzzzz")
	assert.Error(t, err)
}

func TestObjectIDIsZero(t *testing.T) {
	assert.True(t, NilObjectID.IsZero())
	assert.False(t, NewObjectID().IsZero())
}

func TestObjectIDCounterIncrementsAndWraps(t *testing.T) {
	g := newObjectIDGenerator()
	g.random.reseed([5]byte{1, 2, 3, 4, 5})
	g.counter = 0x00FFFFFE

	first := g.next()
	second := g.next()
	third := g.next()

	assert.Equal(t, [3]byte{0xFF, 0xFF, 0xFF}, [3]byte{first[9], first[10], first[11]})
	assert.Equal(t, [3]byte{0x00, 0x00, 0x00}, [3]byte{second[9], second[10], second[11]})
	assert.Equal(t, [3]byte{0x00, 0x00, 0x01}, [3]byte{third[9], third[10], third[11]})

	assert.Equal(t, []byte{1, 2, 3, 4, 5}, first[4:9])
}
