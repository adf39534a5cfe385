package bson

import "github.com/corbindb/bsondoc/bsontype"

// Iterator is a forward, allocation-light walk over a Document's byte
// buffer. It never panics on corrupt input: a malformed element simply
// ends iteration (Next returns ok=false), mirroring the lazy-validation
// contract of FromBytesUnchecked.
type Iterator struct {
	buf []byte
	pos int
}

// newIterator positions the cursor at offset 4, past the length prefix.
func newIterator(buf []byte) *Iterator {
	return &Iterator{buf: buf, pos: 4}
}

// Next returns the next (key, value) pair, or ok=false when the
// terminating 0x00 is reached or the buffer is malformed.
func (it *Iterator) Next() (key string, val Value, ok bool) {
	if it.pos >= len(it.buf) {
		return "", Value{}, false
	}
	tag := it.buf[it.pos]
	if tag == 0x00 {
		return "", Value{}, false
	}
	if !bsontype.Type(tag).IsValid() {
		return "", Value{}, false
	}

	c := newCursor(it.buf, it.pos+1)
	key, ok = c.readCString()
	if !ok {
		return "", Value{}, false
	}
	val, ok = readValue(bsontype.Type(tag), c)
	if !ok {
		return "", Value{}, false
	}
	it.pos = c.pos
	return key, val, true
}

// FindValue scans for key, leaving no useful cursor state on return (each
// call starts a fresh walk via a new Iterator internally through
// Document.Get); on miss it skips every intervening value using only tag
// and length-prefix bytes rather than fully decoding it.
func (it *Iterator) FindValue(key string) (Value, bool) {
	for {
		if it.pos >= len(it.buf) {
			return Value{}, false
		}
		tag := it.buf[it.pos]
		if tag == 0x00 {
			return Value{}, false
		}
		if !bsontype.Type(tag).IsValid() {
			return Value{}, false
		}

		c := newCursor(it.buf, it.pos+1)
		k, ok := c.readCString()
		if !ok {
			return Value{}, false
		}
		if k == key {
			val, ok := readValue(bsontype.Type(tag), c)
			if !ok {
				return Value{}, false
			}
			it.pos = c.pos
			return val, true
		}
		if !it.skipValue(bsontype.Type(tag), c) {
			return Value{}, false
		}
		it.pos = c.pos
	}
}

// skipValue advances c past a value of the given tag using only its
// fixed width or length-prefix bytes, without materializing a Value.
func (it *Iterator) skipValue(tag bsontype.Type, c *cursor) bool {
	switch tag {
	case bsontype.Double, bsontype.DateTime, bsontype.Timestamp, bsontype.Int64:
		_, ok := c.readBytes(8)
		return ok
	case bsontype.Int32:
		_, ok := c.readBytes(4)
		return ok
	case bsontype.Boolean:
		_, ok := c.readBytes(1)
		return ok
	case bsontype.ObjectID:
		_, ok := c.readBytes(12)
		return ok
	case bsontype.Decimal128:
		_, ok := c.readBytes(16)
		return ok
	case bsontype.Undefined, bsontype.Null, bsontype.MinKey, bsontype.MaxKey:
		return true
	case bsontype.String, bsontype.JavaScript, bsontype.Symbol:
		length, ok := c.readInt32()
		if !ok || length < 1 {
			return false
		}
		_, ok = c.readBytes(int(length))
		return ok
	case bsontype.EmbeddedDoc, bsontype.Array:
		length, ok := c.readInt32()
		if !ok || length < 5 {
			return false
		}
		_, ok = c.readBytes(int(length) - 4)
		return ok
	case bsontype.Binary:
		length, ok := c.readInt32()
		if !ok || length < 0 {
			return false
		}
		_, ok = c.readBytes(1 + int(length))
		return ok
	case bsontype.Regex:
		if _, ok := c.readCString(); !ok {
			return false
		}
		_, ok := c.readCString()
		return ok
	case bsontype.DBPointer:
		length, ok := c.readInt32()
		if !ok || length < 1 {
			return false
		}
		_, ok = c.readBytes(int(length) + 12)
		return ok
	case bsontype.CodeWithScope:
		length, ok := c.readInt32()
		if !ok || length < 14 {
			return false
		}
		_, ok = c.readBytes(int(length) - 4)
		return ok
	default:
		return false
	}
}

// ByteRange returns the [start, end) byte offsets of the full element
// (tag + key + value) for key, used by Document's splicing mutators.
func (it *Iterator) ByteRange(key string) (start, end int, ok bool) {
	pos := 4
	for pos < len(it.buf) {
		tag := it.buf[pos]
		if tag == 0x00 {
			return 0, 0, false
		}
		if !bsontype.Type(tag).IsValid() {
			return 0, 0, false
		}
		c := newCursor(it.buf, pos+1)
		k, ok := c.readCString()
		if !ok {
			return 0, 0, false
		}
		if !it.skipValue(bsontype.Type(tag), c) {
			return 0, 0, false
		}
		if k == key {
			return pos, c.pos, true
		}
		pos = c.pos
	}
	return 0, 0, false
}

// readDocumentFromCursor reads a self-delimiting nested Document or Array
// starting at c.pos (the nested length prefix), advancing c past it.
func readDocumentFromCursor(c *cursor) (*Document, bool) {
	if c.remaining() < 5 {
		return nil, false
	}
	start := c.pos
	length, ok := c.readInt32()
	if !ok || length < 5 {
		return nil, false
	}
	end := start + int(length)
	if end > len(c.buf) || end < start {
		return nil, false
	}
	raw := c.buf[start:end]
	if raw[len(raw)-1] != 0x00 {
		return nil, false
	}
	c.pos = end
	out := make([]byte, len(raw))
	copy(out, raw)
	return &Document{buf: out}, true
}
