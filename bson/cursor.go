package bson

import (
	"encoding/binary"
	"unicode/utf8"
)

// cursor is a read-only forward scanner over a BSON byte buffer. All
// cursor methods report failure by returning ok=false rather than
// panicking, so that corrupt input surfaces as a decode failure (or, in
// the Iterator, as a silent end-of-iteration) instead of a crash.
type cursor struct {
	buf []byte
	pos int
}

func newCursor(buf []byte, pos int) *cursor {
	return &cursor{buf: buf, pos: pos}
}

func (c *cursor) remaining() int { return len(c.buf) - c.pos }

func (c *cursor) readByte() (byte, bool) {
	if c.remaining() < 1 {
		return 0, false
	}
	b := c.buf[c.pos]
	c.pos++
	return b, true
}

func (c *cursor) readBytes(n int) ([]byte, bool) {
	if n < 0 || c.remaining() < n {
		return nil, false
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, true
}

func (c *cursor) readInt32() (int32, bool) {
	b, ok := c.readBytes(4)
	if !ok {
		return 0, false
	}
	return int32(binary.LittleEndian.Uint32(b)), true
}

func (c *cursor) readUint32() (uint32, bool) {
	b, ok := c.readBytes(4)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint32(b), true
}

func (c *cursor) readInt64() (int64, bool) {
	b, ok := c.readBytes(8)
	if !ok {
		return 0, false
	}
	return int64(binary.LittleEndian.Uint64(b)), true
}

func (c *cursor) readUint64() (uint64, bool) {
	b, ok := c.readBytes(8)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint64(b), true
}

// readCString reads bytes up to (and consuming) the next 0x00, returning
// the content without the terminator.
func (c *cursor) readCString() (string, bool) {
	start := c.pos
	for c.pos < len(c.buf) {
		if c.buf[c.pos] == 0x00 {
			s := string(c.buf[start:c.pos])
			c.pos++
			return s, true
		}
		c.pos++
	}
	c.pos = start
	return "", false
}

// readLengthPrefixedString reads the BSON "string" wire shape: i32 LE
// length (including the trailing NUL), that many bytes, and validates
// the final byte is 0x00 and the content is valid UTF-8.
func (c *cursor) readLengthPrefixedString() (string, bool) {
	length, ok := c.readInt32()
	if !ok || length < 1 {
		return "", false
	}
	b, ok := c.readBytes(int(length))
	if !ok {
		return "", false
	}
	if b[len(b)-1] != 0x00 {
		return "", false
	}
	content := b[:len(b)-1]
	if !utf8.Valid(content) {
		return "", false
	}
	return string(content), true
}

// --- append-side (write) primitives ---

func appendByte(buf []byte, b byte) []byte {
	return append(buf, b)
}

func appendInt32(buf []byte, v int32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], uint32(v))
	return append(buf, tmp[:]...)
}

func appendUint32(buf []byte, v uint32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return append(buf, tmp[:]...)
}

func appendInt64(buf []byte, v int64) []byte {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], uint64(v))
	return append(buf, tmp[:]...)
}

func appendUint64(buf []byte, v uint64) []byte {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	return append(buf, tmp[:]...)
}

func appendCString(buf []byte, s string) []byte {
	buf = append(buf, s...)
	return append(buf, 0x00)
}

// appendLengthPrefixedString appends the BSON "string" wire shape.
func appendLengthPrefixedString(buf []byte, s string) []byte {
	buf = appendInt32(buf, int32(len(s)+1))
	buf = append(buf, s...)
	return append(buf, 0x00)
}
