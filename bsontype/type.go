// Package bsontype defines the BSON element type tags (the 1-byte "kind"
// that precedes every element's key in the wire format) and the
// well-known Binary subtype values.
package bsontype

import "fmt"

// Type is the 1-byte tag identifying a BSON element's payload kind.
type Type byte

// The 19 BSON element types, per the BSON 1.1 specification.
const (
	Double        Type = 0x01
	String        Type = 0x02
	EmbeddedDoc   Type = 0x03
	Array         Type = 0x04
	Binary        Type = 0x05
	Undefined     Type = 0x06 // deprecated, preserved on read
	ObjectID      Type = 0x07
	Boolean       Type = 0x08
	DateTime      Type = 0x09
	Null          Type = 0x0A
	Regex         Type = 0x0B
	DBPointer     Type = 0x0C // deprecated, preserved on read
	JavaScript    Type = 0x0D
	Symbol        Type = 0x0E // deprecated, preserved on read
	CodeWithScope Type = 0x0F
	Int32         Type = 0x10
	Timestamp     Type = 0x11
	Int64         Type = 0x12
	Decimal128    Type = 0x13
	MinKey        Type = 0xFF
	MaxKey        Type = 0x7F
)

var typeNames = map[Type]string{
	Double:        "double",
	String:        "string",
	EmbeddedDoc:   "embedded document",
	Array:         "array",
	Binary:        "binData",
	Undefined:     "undefined",
	ObjectID:      "objectId",
	Boolean:       "bool",
	DateTime:      "date",
	Null:          "null",
	Regex:         "regex",
	DBPointer:     "dbPointer",
	JavaScript:    "javascript",
	Symbol:        "symbol",
	CodeWithScope: "javascriptWithScope",
	Int32:         "int",
	Timestamp:     "timestamp",
	Int64:         "long",
	Decimal128:    "decimal",
	MinKey:        "minKey",
	MaxKey:        "maxKey",
}

// String returns the canonical MongoDB type-name for t, or a hex
// placeholder if t is not one of the 19 known types.
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type(0x%02X)", byte(t))
}

// IsValid reports whether t is one of the 19 defined element types.
func (t Type) IsValid() bool {
	_, ok := typeNames[t]
	return ok
}

// BinarySubtype is the 1-byte subtype discriminator carried inside a
// Binary element's payload.
type BinarySubtype byte

// Well-known Binary subtypes. The range [0x07, 0x7F] is reserved for
// future well-known subtypes and is rejected on construction unless it
// is one of these explicit values; [0x80, 0xFF] is open for user-defined
// subtypes and is always accepted.
const (
	SubtypeGeneric    BinarySubtype = 0x00
	SubtypeFunction   BinarySubtype = 0x01
	SubtypeBinaryOld  BinarySubtype = 0x02
	SubtypeUUIDOld    BinarySubtype = 0x03
	SubtypeUUID       BinarySubtype = 0x04
	SubtypeMD5        BinarySubtype = 0x05
	SubtypeEncrypted  BinarySubtype = 0x06
	SubtypeColumn     BinarySubtype = 0x07
	subtypeReservedLo BinarySubtype = 0x07
	subtypeReservedHi BinarySubtype = 0x7F
	subtypeUserLo     BinarySubtype = 0x80
)

var wellKnownSubtypes = map[BinarySubtype]string{
	SubtypeGeneric:   "generic",
	SubtypeFunction:  "function",
	SubtypeBinaryOld: "binary (old)",
	SubtypeUUIDOld:   "uuid (old)",
	SubtypeUUID:      "uuid",
	SubtypeMD5:       "md5",
	SubtypeEncrypted: "encrypted",
	SubtypeColumn:    "column",
}

// Valid reports whether s is an acceptable Binary subtype: a well-known
// value, or any value in the user-defined range [0x80, 0xFF].
func (s BinarySubtype) Valid() bool {
	if s >= subtypeUserLo {
		return true
	}
	_, ok := wellKnownSubtypes[s]
	return ok
}

func (s BinarySubtype) String() string {
	if name, ok := wellKnownSubtypes[s]; ok {
		return name
	}
	if s >= subtypeUserLo {
		return fmt.Sprintf("user-defined(0x%02X)", byte(s))
	}
	return fmt.Sprintf("reserved(0x%02X)", byte(s))
}
