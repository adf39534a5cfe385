package bson

import (
	"github.com/corbindb/bsondoc/bsontype"
	"github.com/google/uuid"
)

// NewBinaryValue validates subtype and wraps (subtype, data) as a Binary
// Value. Subtypes in the reserved range [0x07, 0x7F] that are not one of
// the explicit well-known values are rejected.
func NewBinaryValue(subtype bsontype.BinarySubtype, data []byte) (Value, error) {
	if !subtype.Valid() {
		return Value{}, invalidArgf("binary: subtype 0x%02X is reserved", byte(subtype))
	}
	return NewBinary(Binary{Subtype: subtype, Data: data}), nil
}

// NewUUIDValue builds a Binary value of subtype 0x04 from a UUID,
// validating the standard 16-byte length.
func NewUUIDValue(id uuid.UUID) Value {
	b := make([]byte, 16)
	copy(b, id[:])
	return NewBinary(Binary{Subtype: bsontype.SubtypeUUID, Data: b})
}

// UUID interprets a Binary value of subtype 0x04 (or the legacy 0x03) as
// a UUID, failing if the payload is not exactly 16 bytes.
func (b Binary) UUID() (uuid.UUID, error) {
	if b.Subtype != bsontype.SubtypeUUID && b.Subtype != bsontype.SubtypeUUIDOld {
		return uuid.UUID{}, invalidArgf("binary: subtype 0x%02X is not a uuid subtype", byte(b.Subtype))
	}
	if len(b.Data) != 16 {
		return uuid.UUID{}, invalidArgf("binary: uuid payload must be 16 bytes, got %d", len(b.Data))
	}
	var u uuid.UUID
	copy(u[:], b.Data)
	return u, nil
}
