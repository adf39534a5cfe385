package bson

import (
	"math"

	"github.com/corbindb/bsondoc/bsontype"
	"github.com/corbindb/bsondoc/decimal128"
)

// readValue decodes the payload for tag from c, advancing the cursor past
// it. It never panics on malformed input; ok is false on any structural
// problem (short buffer, bad length, invalid UTF-8, unknown tag, …).
func readValue(tag bsontype.Type, c *cursor) (Value, bool) {
	switch tag {
	case bsontype.Double:
		bits, ok := c.readUint64()
		if !ok {
			return Value{}, false
		}
		return NewDouble(math.Float64frombits(bits)), true

	case bsontype.String:
		s, ok := c.readLengthPrefixedString()
		if !ok {
			return Value{}, false
		}
		return NewString(s), true

	case bsontype.EmbeddedDoc, bsontype.Array:
		d, ok := readDocumentFromCursor(c)
		if !ok {
			return Value{}, false
		}
		return Value{tag, d}, true

	case bsontype.Binary:
		b, ok := readBinaryPayload(c)
		if !ok {
			return Value{}, false
		}
		return NewBinary(b), true

	case bsontype.Undefined:
		return NewUndefined(), true

	case bsontype.ObjectID:
		raw, ok := c.readBytes(12)
		if !ok {
			return Value{}, false
		}
		var id ObjectID
		copy(id[:], raw)
		return NewObjectIDValue(id), true

	case bsontype.Boolean:
		b, ok := c.readByte()
		if !ok || (b != 0x00 && b != 0x01) {
			return Value{}, false
		}
		return NewBool(b == 0x01), true

	case bsontype.DateTime:
		ms, ok := c.readInt64()
		if !ok {
			return Value{}, false
		}
		return NewDateTime(DateTime(ms)), true

	case bsontype.Null:
		return NewNull(), true

	case bsontype.Regex:
		pattern, ok := c.readCString()
		if !ok {
			return Value{}, false
		}
		options, ok := c.readCString()
		if !ok {
			return Value{}, false
		}
		return Value{bsontype.Regex, Regex{Pattern: pattern, Options: options}}, true

	case bsontype.DBPointer:
		ns, ok := c.readLengthPrefixedString()
		if !ok {
			return Value{}, false
		}
		raw, ok := c.readBytes(12)
		if !ok {
			return Value{}, false
		}
		var id ObjectID
		copy(id[:], raw)
		return NewDBPointer(DBPointer{Namespace: ns, ID: id}), true

	case bsontype.JavaScript:
		s, ok := c.readLengthPrefixedString()
		if !ok {
			return Value{}, false
		}
		return NewJavaScript(s), true

	case bsontype.Symbol:
		s, ok := c.readLengthPrefixedString()
		if !ok {
			return Value{}, false
		}
		return NewSymbol(s), true

	case bsontype.CodeWithScope:
		c2, ok := readCodeWithScope(c)
		if !ok {
			return Value{}, false
		}
		return NewCodeWithScope(c2), true

	case bsontype.Int32:
		i, ok := c.readInt32()
		if !ok {
			return Value{}, false
		}
		return NewInt32(i), true

	case bsontype.Timestamp:
		inc, ok := c.readUint32()
		if !ok {
			return Value{}, false
		}
		secs, ok := c.readUint32()
		if !ok {
			return Value{}, false
		}
		return NewTimestamp(Timestamp{T: secs, I: inc}), true

	case bsontype.Int64:
		i, ok := c.readInt64()
		if !ok {
			return Value{}, false
		}
		return NewInt64(i), true

	case bsontype.Decimal128:
		lo, ok := c.readUint64()
		if !ok {
			return Value{}, false
		}
		hi, ok := c.readUint64()
		if !ok {
			return Value{}, false
		}
		return NewDecimal128(decimal128.FromBits(hi, lo)), true

	case bsontype.MinKey:
		return NewMinKey(), true

	case bsontype.MaxKey:
		return NewMaxKey(), true

	default:
		return Value{}, false
	}
}

// readBinaryPayload handles subtype 0x02's redundant inner length: the
// outer i32 is payload+4, and the inner i32 must equal payload exactly.
func readBinaryPayload(c *cursor) (Binary, bool) {
	outerLen, ok := c.readInt32()
	if !ok || outerLen < 0 {
		return Binary{}, false
	}
	subtypeByte, ok := c.readByte()
	if !ok {
		return Binary{}, false
	}
	subtype := bsontype.BinarySubtype(subtypeByte)

	if subtype == bsontype.SubtypeBinaryOld {
		innerLen, ok := c.readInt32()
		if !ok || innerLen < 0 || innerLen+4 != outerLen {
			return Binary{}, false
		}
		data, ok := c.readBytes(int(innerLen))
		if !ok {
			return Binary{}, false
		}
		out := make([]byte, len(data))
		copy(out, data)
		return Binary{Subtype: subtype, Data: out}, true
	}

	data, ok := c.readBytes(int(outerLen))
	if !ok {
		return Binary{}, false
	}
	out := make([]byte, len(data))
	copy(out, data)
	return Binary{Subtype: subtype, Data: out}, true
}

// readCodeWithScope enforces the 14-byte minimum total size and that the
// declared length equals the bytes actually consumed.
func readCodeWithScope(c *cursor) (CodeWithScope, bool) {
	start := c.pos
	total, ok := c.readInt32()
	if !ok || total < 14 {
		return CodeWithScope{}, false
	}
	code, ok := c.readLengthPrefixedString()
	if !ok {
		return CodeWithScope{}, false
	}
	scope, ok := readDocumentFromCursor(c)
	if !ok {
		return CodeWithScope{}, false
	}
	if c.pos-start != int(total) {
		return CodeWithScope{}, false
	}
	return CodeWithScope{Code: code, Scope: scope}, true
}
