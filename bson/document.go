package bson

import (
	"encoding/binary"
	"unicode/utf8"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/samber/lo"

	"github.com/corbindb/bsondoc/bsontype"
)

// emptyDocumentBytes is the canonical empty document: a length prefix of
// 5 followed by the terminating NUL.
var emptyDocumentBytes = []byte{0x05, 0x00, 0x00, 0x00, 0x00}

const maxDocumentLength = 2147483647 // i32 max

// Document is an ordered, byte-buffer-backed sequence of (key, value)
// pairs. The zero Document is not valid; use NewDocument or one of the
// From* constructors.
type Document struct {
	buf []byte
}

// NewDocument returns a new empty Document.
func NewDocument() *Document {
	buf := make([]byte, len(emptyDocumentBytes))
	copy(buf, emptyDocumentBytes)
	return &Document{buf: buf}
}

// FromBytes parses and fully validates b: the length prefix must match
// len(b), the buffer must end in 0x00, every element header must be
// well-formed, every key must be valid UTF-8 with no embedded NUL, keys
// must be unique, and nested documents/arrays are validated recursively.
func FromBytes(b []byte) (*Document, error) {
	if err := validateDocumentBytes(b); err != nil {
		return nil, err
	}
	out := make([]byte, len(b))
	copy(out, b)
	return &Document{buf: out}, nil
}

// FromBytesUnchecked validates only the outer length prefix; malformed
// elements surface lazily as iteration/lookup failures rather than here.
func FromBytesUnchecked(b []byte) (*Document, error) {
	if len(b) < 5 {
		return nil, invalidArgf("document: buffer too short (%d bytes)", len(b))
	}
	length := int32(binary.LittleEndian.Uint32(b[0:4]))
	if int(length) != len(b) {
		return nil, invalidArgf("document: declared length %d does not match buffer length %d", length, len(b))
	}
	out := make([]byte, len(b))
	copy(out, b)
	return &Document{buf: out}, nil
}

func validateDocumentBytes(b []byte) error {
	if len(b) < 5 {
		return invalidArgf("document: buffer too short (%d bytes)", len(b))
	}
	length := int32(binary.LittleEndian.Uint32(b[0:4]))
	if int(length) != len(b) {
		return invalidArgf("document: declared length %d does not match buffer length %d", length, len(b))
	}
	if b[len(b)-1] != 0x00 {
		return invalidArgf("document: buffer does not end in 0x00")
	}

	seen := mapset.NewThreadUnsafeSet[string]()
	pos := 4
	for pos < len(b)-1 {
		tag := b[pos]
		if !bsontype.Type(tag).IsValid() {
			return invalidArgf("document: invalid element tag 0x%02X at offset %d", tag, pos)
		}
		c := newCursor(b, pos+1)
		key, ok := c.readCString()
		if !ok {
			return invalidArgf("document: unterminated key at offset %d", pos+1)
		}
		if !utf8.ValidString(key) {
			return invalidArgf("document: key %q is not valid UTF-8", key)
		}
		if seen.Contains(key) {
			return invalidArgf("document: duplicate key %q", key)
		}
		seen.Add(key)

		val, ok := readValue(bsontype.Type(tag), c)
		if !ok {
			return invalidArgf("document: malformed value for key %q", key)
		}
		if d, isDoc := val.payload.(*Document); isDoc && (bsontype.Type(tag) == bsontype.EmbeddedDoc || bsontype.Type(tag) == bsontype.Array) {
			if err := validateDocumentBytes(d.buf); err != nil {
				return wrapError(InvalidArgument, "document: nested document under key "+key, err)
			}
		}
		pos = c.pos
	}
	if pos != len(b)-1 {
		return invalidArgf("document: trailing byte mismatch at offset %d", pos)
	}
	return nil
}

// Iterator returns a fresh forward Iterator over d's buffer.
func (d *Document) Iterator() *Iterator {
	return newIterator(d.buf)
}

// Get returns the first value stored under key, if any.
func (d *Document) Get(key string) (Value, bool) {
	return d.Iterator().FindValue(key)
}

// ContainsKey reports whether key is present.
func (d *Document) ContainsKey(key string) bool {
	_, ok := d.Get(key)
	return ok
}

// Keys returns keys in insertion order.
func (d *Document) Keys() []string {
	var keys []string
	it := d.Iterator()
	for {
		k, _, ok := it.Next()
		if !ok {
			break
		}
		keys = append(keys, k)
	}
	return keys
}

// Values returns values in insertion order.
func (d *Document) Values() []Value {
	var values []Value
	it := d.Iterator()
	for {
		_, v, ok := it.Next()
		if !ok {
			break
		}
		values = append(values, v)
	}
	return values
}

// Len returns the number of elements.
func (d *Document) Len() int {
	n := 0
	it := d.Iterator()
	for {
		_, _, ok := it.Next()
		if !ok {
			break
		}
		n++
	}
	return n
}

// ByteLen returns the encoded length in bytes, including the length
// prefix and trailing NUL.
func (d *Document) ByteLen() int { return len(d.buf) }

// ToBytes returns the document's wire encoding. The returned slice must
// not be mutated by the caller.
func (d *Document) ToBytes() []byte { return d.buf }

// Set inserts key with value v if absent (appended before the trailing
// NUL), or replaces its existing element in place (splicing the new
// encoded element into the same byte range, preserving position).
func (d *Document) Set(key string, v Value) error {
	if err := validateKey(key); err != nil {
		return err
	}
	start, end, ok := d.Iterator().ByteRange(key)
	elementLen := elementEncodedLen(key, v)

	prospective := len(d.buf) + elementLen
	if ok {
		prospective -= end - start
	}
	if prospective > maxDocumentLength {
		return tooLargef("document: setting key %q would grow the document to %d bytes, exceeding the i32 maximum", key, prospective)
	}

	element := appendElement(nil, key, v)
	if ok {
		d.buf = spliceReplace(d.buf, start, end, element)
	} else {
		d.buf = spliceAppend(d.buf, element)
	}
	return nil
}

// Remove splices out key's element, if present; removing an absent key
// is a no-op.
func (d *Document) Remove(key string) error {
	start, end, ok := d.Iterator().ByteRange(key)
	if !ok {
		return nil
	}
	d.buf = spliceReplace(d.buf, start, end, nil)
	return nil
}

func validateKey(key string) error {
	for i := 0; i < len(key); i++ {
		if key[i] == 0x00 {
			return invalidArgf("document: key %q contains an embedded NUL byte", key)
		}
	}
	return nil
}

// spliceReplace rebuilds buf with [start,end) replaced by replacement,
// updating the length prefix.
func spliceReplace(buf []byte, start, end int, replacement []byte) []byte {
	out := make([]byte, 0, len(buf)-(end-start)+len(replacement))
	out = append(out, buf[:start]...)
	out = append(out, replacement...)
	out = append(out, buf[end:]...)
	patchInt32(out, 0, int32(len(out)))
	return out
}

// spliceAppend overwrites the trailing NUL with element and writes a
// fresh terminator, updating the length prefix.
func spliceAppend(buf []byte, element []byte) []byte {
	out := make([]byte, 0, len(buf)+len(element))
	out = append(out, buf[:len(buf)-1]...)
	out = append(out, element...)
	out = append(out, 0x00)
	patchInt32(out, 0, int32(len(out)))
	return out
}

// WithID returns a copy of d with an ObjectID "_id" prepended, unless one
// already exists, in which case a plain copy is returned.
func (d *Document) WithID() *Document {
	if d.ContainsKey("_id") {
		return d.Clone()
	}
	idElement := appendElement(nil, "_id", NewObjectIDValue(NewObjectID()))

	out := make([]byte, 0, len(d.buf)+len(idElement))
	out = append(out, d.buf[:4]...)
	out = append(out, idElement...)
	out = append(out, d.buf[4:]...)
	patchInt32(out, 0, int32(len(out)))
	return &Document{buf: out}
}

// Clone returns an independent copy of d.
func (d *Document) Clone() *Document {
	out := make([]byte, len(d.buf))
	copy(out, d.buf)
	return &Document{buf: out}
}

// Filter returns a new Document containing only the (key, value) pairs
// for which keep returns true, preserving relative order.
func (d *Document) Filter(keep func(key string, v Value) bool) *Document {
	var kept []lo.Tuple2[string, Value]
	it := d.Iterator()
	for {
		k, v, ok := it.Next()
		if !ok {
			break
		}
		if keep(k, v) {
			kept = append(kept, lo.Tuple2[string, Value]{A: k, B: v})
		}
	}

	out := NewDocument()
	for _, kv := range kept {
		// Filter only ever narrows an already-valid document, so Set
		// cannot fail here.
		_ = out.Set(kv.A, kv.B)
	}
	return out
}

// BytesEqual reports whether d and other have byte-identical encodings.
func (d *Document) BytesEqual(other *Document) bool {
	if other == nil {
		return false
	}
	return string(d.buf) == string(other.buf)
}

// EqualsIgnoringOrder reports whether d and other contain the same
// (key, value) pairs irrespective of order, recursing into nested
// Document/Array values.
func (d *Document) EqualsIgnoringOrder(other *Document) bool {
	if other == nil {
		return false
	}
	a, b := d.Values(), other.Values()
	if len(a) != len(b) {
		return false
	}
	ak, bk := d.Keys(), other.Keys()
	remaining := make([]bool, len(bk))
	for i := range bk {
		remaining[i] = true
	}
	for i, k := range ak {
		matched := false
		for j, k2 := range bk {
			if !remaining[j] || k2 != k {
				continue
			}
			if a[i].EqualIgnoringOrder(b[j]) {
				remaining[j] = false
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

// Lookup walks successive keys through nested documents (and arrays,
// treated as documents with numeric-string keys), returning the value at
// the end of the path.
func (d *Document) Lookup(keys ...string) (Value, error) {
	if len(keys) == 0 {
		return Value{}, invalidArgf("document: Lookup requires at least one key")
	}
	cur := d
	for i, k := range keys {
		v, ok := cur.Get(k)
		if !ok {
			return Value{}, invalidArgf("document: key %q not found", k)
		}
		if i == len(keys)-1 {
			return v, nil
		}
		next, ok := v.payload.(*Document)
		if !ok {
			return Value{}, invalidArgf("document: key %q is not a document or array, cannot descend further", k)
		}
		cur = next
	}
	panic("unreachable")
}

// Elements decodes every (key, value) pair, returning as many as could be
// read before the first malformed element along with an error describing
// the failure (nil if the whole document decoded cleanly). This mirrors
// bsoncore.Document's partial-results-plus-error shape for callers that
// want best-effort access to an otherwise-corrupt buffer.
func (d *Document) Elements() ([]Element, error) {
	var elements []Element
	it := d.Iterator()
	for {
		k, v, ok := it.Next()
		if !ok {
			break
		}
		elements = append(elements, Element{Key: k, Value: v})
	}
	if it.pos != len(d.buf)-1 {
		return elements, invalidArgf("document: malformed element at byte offset %d", it.pos)
	}
	return elements, nil
}

// Element is a decoded (key, value) pair, as returned by Elements.
type Element struct {
	Key   string
	Value Value
}

// DebugString renders d as a human-readable, MongoDB-shell-like string
// (not valid Extended JSON; intended for logs and test failure output).
func (d *Document) DebugString() string {
	var b []byte
	b = append(b, '{')
	it := d.Iterator()
	first := true
	for {
		k, v, ok := it.Next()
		if !ok {
			break
		}
		if !first {
			b = append(b, ',', ' ')
		}
		first = false
		b = append(b, '"')
		b = append(b, k...)
		b = append(b, '"', ':', ' ')
		b = append(b, debugValueString(v)...)
	}
	b = append(b, '}')
	return string(b)
}

func debugValueString(v Value) string {
	switch v.tag {
	case bsontype.EmbeddedDoc, bsontype.Array:
		d, _ := v.payload.(*Document)
		if d == nil {
			return "null"
		}
		return d.DebugString()
	case bsontype.String:
		s, _ := v.StringValue()
		return `"` + s + `"`
	default:
		return v.debugScalarString()
	}
}
