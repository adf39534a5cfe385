package bson

import (
	"math"

	"github.com/corbindb/bsondoc/bsontype"
	"github.com/corbindb/bsondoc/decimal128"
)

// appendElement appends a full (tag, key, value) element to buf: the
// 1-byte tag, the key as a C-string, then the value's payload.
func appendElement(buf []byte, key string, v Value) []byte {
	buf = appendByte(buf, byte(v.tag))
	buf = appendCString(buf, key)
	return appendValuePayload(buf, v)
}

// appendValuePayload appends only the payload bytes for v, per its tag's
// wire rules in §3.1/§4.4.
func appendValuePayload(buf []byte, v Value) []byte {
	switch v.tag {
	case bsontype.Double:
		f, _ := v.payload.(float64)
		return appendUint64(buf, math.Float64bits(f))

	case bsontype.String:
		s, _ := v.payload.(string)
		return appendLengthPrefixedString(buf, s)

	case bsontype.EmbeddedDoc, bsontype.Array:
		d, _ := v.payload.(*Document)
		if d == nil {
			d = NewDocument()
		}
		return append(buf, d.ToBytes()...)

	case bsontype.Binary:
		b, _ := v.payload.(Binary)
		return appendBinaryPayload(buf, b)

	case bsontype.Undefined, bsontype.Null, bsontype.MinKey, bsontype.MaxKey:
		return buf

	case bsontype.ObjectID:
		id, _ := v.payload.(ObjectID)
		return append(buf, id[:]...)

	case bsontype.Boolean:
		b, _ := v.payload.(bool)
		if b {
			return appendByte(buf, 0x01)
		}
		return appendByte(buf, 0x00)

	case bsontype.DateTime:
		d, _ := v.payload.(DateTime)
		return appendInt64(buf, int64(d))

	case bsontype.Regex:
		r, _ := v.payload.(Regex)
		buf = appendCString(buf, r.Pattern)
		return appendCString(buf, sortRegexOptions(r.Options))

	case bsontype.DBPointer:
		p, _ := v.payload.(DBPointer)
		buf = appendLengthPrefixedString(buf, p.Namespace)
		return append(buf, p.ID[:]...)

	case bsontype.JavaScript, bsontype.Symbol:
		s, _ := v.payload.(string)
		return appendLengthPrefixedString(buf, s)

	case bsontype.CodeWithScope:
		c, _ := v.payload.(CodeWithScope)
		return appendCodeWithScope(buf, c)

	case bsontype.Int32:
		i, _ := v.payload.(int32)
		return appendInt32(buf, i)

	case bsontype.Timestamp:
		t, _ := v.payload.(Timestamp)
		buf = appendUint32(buf, t.I)
		return appendUint32(buf, t.T)

	case bsontype.Int64:
		i, _ := v.payload.(int64)
		return appendInt64(buf, i)

	case bsontype.Decimal128:
		d, _ := v.payload.(decimal128.Decimal128)
		hi, lo := d.Bits()
		buf = appendUint64(buf, lo)
		return appendUint64(buf, hi)

	default:
		return buf
	}
}

func appendBinaryPayload(buf []byte, b Binary) []byte {
	if b.Subtype == bsontype.SubtypeBinaryOld {
		buf = appendInt32(buf, int32(len(b.Data)+4))
		buf = appendByte(buf, byte(b.Subtype))
		buf = appendInt32(buf, int32(len(b.Data)))
		return append(buf, b.Data...)
	}
	buf = appendInt32(buf, int32(len(b.Data)))
	buf = appendByte(buf, byte(b.Subtype))
	return append(buf, b.Data...)
}

func appendCodeWithScope(buf []byte, c CodeWithScope) []byte {
	lengthPos := len(buf)
	buf = appendInt32(buf, 0) // placeholder, patched below
	buf = appendLengthPrefixedString(buf, c.Code)
	scope := c.Scope
	if scope == nil {
		scope = NewDocument()
	}
	buf = append(buf, scope.ToBytes()...)

	total := len(buf) - lengthPos
	patchInt32(buf, lengthPos, int32(total))
	return buf
}

// elementEncodedLen returns the byte length appendElement(nil, key, v)
// would produce, without actually encoding it; used by Document.Set to
// reject an oversized mutation before paying for the splice allocation.
func elementEncodedLen(key string, v Value) int {
	return 1 + len(key) + 1 + valuePayloadLen(v)
}

func valuePayloadLen(v Value) int {
	switch v.tag {
	case bsontype.Double, bsontype.DateTime, bsontype.Timestamp, bsontype.Int64, bsontype.Decimal128:
		if v.tag == bsontype.Decimal128 {
			return 16
		}
		return 8
	case bsontype.String:
		s, _ := v.payload.(string)
		return 4 + len(s) + 1
	case bsontype.EmbeddedDoc, bsontype.Array:
		d, _ := v.payload.(*Document)
		if d == nil {
			return len(emptyDocumentBytes)
		}
		return d.ByteLen()
	case bsontype.Binary:
		b, _ := v.payload.(Binary)
		if b.Subtype == bsontype.SubtypeBinaryOld {
			return 4 + 1 + 4 + len(b.Data)
		}
		return 4 + 1 + len(b.Data)
	case bsontype.Undefined, bsontype.Null, bsontype.MinKey, bsontype.MaxKey:
		return 0
	case bsontype.ObjectID:
		return 12
	case bsontype.Boolean:
		return 1
	case bsontype.Regex:
		r, _ := v.payload.(Regex)
		return len(r.Pattern) + 1 + len(r.Options) + 1
	case bsontype.DBPointer:
		p, _ := v.payload.(DBPointer)
		return 4 + len(p.Namespace) + 1 + 12
	case bsontype.JavaScript, bsontype.Symbol:
		s, _ := v.payload.(string)
		return 4 + len(s) + 1
	case bsontype.CodeWithScope:
		c, _ := v.payload.(CodeWithScope)
		scopeLen := len(emptyDocumentBytes)
		if c.Scope != nil {
			scopeLen = c.Scope.ByteLen()
		}
		return 4 + (4 + len(c.Code) + 1) + scopeLen
	case bsontype.Int32:
		return 4
	default:
		return 0
	}
}

func patchInt32(buf []byte, at int, v int32) {
	u := uint32(v)
	buf[at] = byte(u)
	buf[at+1] = byte(u >> 8)
	buf[at+2] = byte(u >> 16)
	buf[at+3] = byte(u >> 24)
}
