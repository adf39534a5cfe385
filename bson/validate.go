package bson

import (
	"strings"
	"unicode/utf8"

	"github.com/corbindb/bsondoc/bsontype"
)

// Validate checks v's own invariants in isolation, without requiring a
// full document walk. It is meant for values pulled out individually, e.g.
// via Iterator.FindValue, where re-validating the whole enclosing document
// would be wasted work. Embedded documents and arrays recurse into their
// own elements' Validate.
func (v Value) Validate() error {
	switch v.tag {
	case bsontype.String, bsontype.JavaScript, bsontype.Symbol:
		s, _ := v.payload.(string)
		if !utf8.ValidString(s) {
			return invalidArgf("value: %s is not valid UTF-8", v.tag)
		}
	case bsontype.EmbeddedDoc, bsontype.Array:
		d, _ := v.payload.(*Document)
		return validateElements(d)
	case bsontype.Binary:
		b, _ := v.payload.(Binary)
		if !bsontype.BinarySubtype(b.Subtype).Valid() {
			return invalidArgf("value: invalid binary subtype 0x%02X", b.Subtype)
		}
		if b.Subtype == bsontype.SubtypeUUIDOld || b.Subtype == bsontype.SubtypeUUID {
			if len(b.Data) != 16 {
				return invalidArgf("value: uuid binary subtype requires 16 bytes, got %d", len(b.Data))
			}
		}
	case bsontype.Regex:
		r, _ := v.payload.(Regex)
		if strings.IndexByte(r.Pattern, 0x00) >= 0 {
			return invalidArgf("value: regex pattern contains an embedded NUL")
		}
		if strings.IndexByte(r.Options, 0x00) >= 0 {
			return invalidArgf("value: regex options contain an embedded NUL")
		}
		if r.Options != sortRegexOptions(r.Options) {
			return invalidArgf("value: regex options %q are not sorted", r.Options)
		}
	case bsontype.DBPointer:
		p, _ := v.payload.(DBPointer)
		if !utf8.ValidString(p.Namespace) {
			return invalidArgf("value: dbpointer namespace is not valid UTF-8")
		}
	case bsontype.CodeWithScope:
		c, _ := v.payload.(CodeWithScope)
		if !utf8.ValidString(c.Code) {
			return invalidArgf("value: code is not valid UTF-8")
		}
		return validateElements(c.Scope)
	}
	return nil
}

// validateElements decodes every element of d and re-checks each via
// Value.Validate, recursing into nested documents/arrays; an element that
// cannot be decoded at all (e.g. a string that is not valid UTF-8) is
// reported as an error rather than ending the walk early.
func validateElements(d *Document) error {
	if d == nil {
		return invalidArgf("value: missing embedded document payload")
	}
	elements, err := d.Elements()
	if err != nil {
		return wrapError(InvalidArgument, "value: malformed embedded document", err)
	}
	for _, e := range elements {
		if err := e.Value.Validate(); err != nil {
			return wrapError(InvalidArgument, "value: invalid element under key "+e.Key, err)
		}
	}
	return nil
}
