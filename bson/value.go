package bson

import (
	"fmt"
	"hash/fnv"
	"time"

	"github.com/corbindb/bsondoc/bsontype"
	"github.com/corbindb/bsondoc/decimal128"
)

// Value is a tagged union over the 19 BSON element types plus Array. The
// zero Value is not meaningful; always construct with one of the New*
// functions.
type Value struct {
	tag     bsontype.Type
	payload any
}

// Type returns the BSON wire tag of v.
func (v Value) Type() bsontype.Type { return v.tag }

// Binary is the payload of a Binary element.
type Binary struct {
	Subtype bsontype.BinarySubtype
	Data    []byte
}

// Regex is the payload of a Regex element. Options are expected sorted
// alphabetically by the time they reach the wire; Regex itself does not
// enforce that (NewRegex does).
type Regex struct {
	Pattern string
	Options string
}

// DBPointer is the payload of a deprecated DBPointer element.
type DBPointer struct {
	Namespace string
	ID        ObjectID
}

// CodeWithScope is the payload of a CodeWithScope element.
type CodeWithScope struct {
	Code  string
	Scope *Document
}

// Timestamp is the payload of a Timestamp element: T is the seconds
// component, I the increment. Note that on the wire the increment
// precedes the seconds.
type Timestamp struct {
	T uint32
	I uint32
}

// DateTime is milliseconds since the Unix epoch, may be negative.
type DateTime int64

// Time converts a DateTime to a time.Time in UTC.
func (d DateTime) Time() time.Time {
	return time.UnixMilli(int64(d)).UTC()
}

// DateTimeFromTime truncates t to millisecond precision.
func DateTimeFromTime(t time.Time) DateTime {
	return DateTime(t.UnixMilli())
}

type undefinedPayload struct{}
type nullPayload struct{}
type minKeyPayload struct{}
type maxKeyPayload struct{}

// Constructors. Each wraps the payload with its BSON tag.

func NewDouble(f float64) Value                   { return Value{bsontype.Double, f} }
func NewString(s string) Value                    { return Value{bsontype.String, s} }
func NewDocumentValue(d *Document) Value          { return Value{bsontype.EmbeddedDoc, d} }
func NewBinary(b Binary) Value                     { return Value{bsontype.Binary, b} }
func NewUndefined() Value                          { return Value{bsontype.Undefined, undefinedPayload{}} }
func NewObjectIDValue(id ObjectID) Value           { return Value{bsontype.ObjectID, id} }
func NewBool(b bool) Value                         { return Value{bsontype.Boolean, b} }
func NewDateTime(d DateTime) Value                 { return Value{bsontype.DateTime, d} }
func NewNull() Value                               { return Value{bsontype.Null, nullPayload{}} }
func NewDBPointer(p DBPointer) Value                { return Value{bsontype.DBPointer, p} }
func NewJavaScript(code string) Value               { return Value{bsontype.JavaScript, code} }
func NewSymbol(s string) Value                      { return Value{bsontype.Symbol, s} }
func NewCodeWithScope(c CodeWithScope) Value        { return Value{bsontype.CodeWithScope, c} }
func NewInt32(i int32) Value                        { return Value{bsontype.Int32, i} }
func NewTimestamp(t Timestamp) Value                { return Value{bsontype.Timestamp, t} }
func NewInt64(i int64) Value                        { return Value{bsontype.Int64, i} }
func NewDecimal128(d decimal128.Decimal128) Value   { return Value{bsontype.Decimal128, d} }
func NewMinKey() Value                              { return Value{bsontype.MinKey, minKeyPayload{}} }
func NewMaxKey() Value                              { return Value{bsontype.MaxKey, maxKeyPayload{}} }

// NewRegex sorts Options alphabetically, matching the wire-write rule, so
// that a Value constructed directly is already in canonical form.
func NewRegex(pattern, options string) Value {
	return Value{bsontype.Regex, Regex{Pattern: pattern, Options: sortRegexOptions(options)}}
}

// NewArrayValue builds an Array value from an ordered slice of elements;
// the underlying Document's keys are regenerated as "0", "1", ….
func NewArrayValue(values []Value) Value {
	d := NewDocument()
	for i, v := range values {
		d = mustSetArrayIndex(d, i, v)
	}
	return Value{bsontype.Array, d}
}

func mustSetArrayIndex(d *Document, i int, v Value) *Document {
	if err := d.Set(arrayIndexKey(i), v); err != nil {
		// arrayIndexKey never produces an invalid key and values() never
		// overflow i32 for any slice that already fit in memory; this is
		// an unreachable state reachable only via a sequence-length bug.
		panic(err)
	}
	return d
}

// Accessors. Each returns (value, ok); ok is false when the tag does not
// match.

func (v Value) Double() (float64, bool) {
	f, ok := v.payload.(float64)
	return f, ok
}

func (v Value) StringValue() (string, bool) {
	if v.tag != bsontype.String {
		return "", false
	}
	s, ok := v.payload.(string)
	return s, ok
}

func (v Value) DocumentValue() (*Document, bool) {
	if v.tag != bsontype.EmbeddedDoc {
		return nil, false
	}
	d, ok := v.payload.(*Document)
	return d, ok
}

// ArrayValue decodes the underlying Document's values in key order.
func (v Value) ArrayValue() ([]Value, bool) {
	if v.tag != bsontype.Array {
		return nil, false
	}
	d, ok := v.payload.(*Document)
	if !ok {
		return nil, false
	}
	return d.Values(), true
}

// ArrayDocument returns the backing Document for an Array value, whose
// keys are the conventional "0".."n-1" index strings.
func (v Value) ArrayDocument() (*Document, bool) {
	if v.tag != bsontype.Array {
		return nil, false
	}
	d, ok := v.payload.(*Document)
	return d, ok
}

func (v Value) BinaryValue() (Binary, bool) {
	b, ok := v.payload.(Binary)
	return b, ok
}

func (v Value) IsUndefined() bool { return v.tag == bsontype.Undefined }

func (v Value) ObjectIDValue() (ObjectID, bool) {
	id, ok := v.payload.(ObjectID)
	return id, ok
}

func (v Value) BoolValue() (bool, bool) {
	b, ok := v.payload.(bool)
	return b, ok
}

func (v Value) DateTimeValue() (DateTime, bool) {
	d, ok := v.payload.(DateTime)
	return d, ok
}

func (v Value) IsNull() bool { return v.tag == bsontype.Null }

func (v Value) RegexValue() (Regex, bool) {
	r, ok := v.payload.(Regex)
	return r, ok
}

func (v Value) DBPointerValue() (DBPointer, bool) {
	p, ok := v.payload.(DBPointer)
	return p, ok
}

// JavaScriptValue returns the Code payload (tag 0x0D).
func (v Value) JavaScriptValue() (string, bool) {
	if v.tag != bsontype.JavaScript {
		return "", false
	}
	s, ok := v.payload.(string)
	return s, ok
}

func (v Value) SymbolValue() (string, bool) {
	if v.tag != bsontype.Symbol {
		return "", false
	}
	s, ok := v.payload.(string)
	return s, ok
}

func (v Value) CodeWithScopeValue() (CodeWithScope, bool) {
	c, ok := v.payload.(CodeWithScope)
	return c, ok
}

func (v Value) Int32Value() (int32, bool) {
	i, ok := v.payload.(int32)
	return i, ok
}

func (v Value) TimestampValue() (Timestamp, bool) {
	t, ok := v.payload.(Timestamp)
	return t, ok
}

func (v Value) Int64Value() (int64, bool) {
	i, ok := v.payload.(int64)
	return i, ok
}

func (v Value) Decimal128Value() (decimal128.Decimal128, bool) {
	d, ok := v.payload.(decimal128.Decimal128)
	return d, ok
}

func (v Value) IsMinKey() bool { return v.tag == bsontype.MinKey }
func (v Value) IsMaxKey() bool { return v.tag == bsontype.MaxKey }

// Numeric coercions. AsInt64/AsInt32 accept Int32, Int64, a Double that is
// exactly integral, and an integral Decimal128, when the value fits the
// target width. AsFloat64 converts Int32, Int64 and Decimal128 to the
// nearest float64, so large values may round. AsDecimal128 accepts Int32,
// Int64 and Decimal128; a Double is not converted.

func (v Value) AsInt64() (int64, bool) {
	switch v.tag {
	case bsontype.Int32:
		i, _ := v.payload.(int32)
		return int64(i), true
	case bsontype.Int64:
		i, _ := v.payload.(int64)
		return i, true
	case bsontype.Double:
		f, _ := v.payload.(float64)
		if f != float64(int64(f)) {
			return 0, false
		}
		return int64(f), true
	case bsontype.Decimal128:
		d, _ := v.payload.(decimal128.Decimal128)
		return decimalToInt64(d)
	default:
		return 0, false
	}
}

func (v Value) AsInt32() (int32, bool) {
	i64, ok := v.AsInt64()
	if !ok {
		return 0, false
	}
	if !inRange(i64, int64(minInt32), int64(maxInt32)) {
		return 0, false
	}
	return int32(i64), true
}

const (
	minInt32 = -2147483648
	maxInt32 = 2147483647
)

func (v Value) AsFloat64() (float64, bool) {
	switch v.tag {
	case bsontype.Double:
		f, _ := v.payload.(float64)
		return f, true
	case bsontype.Int32:
		i, _ := v.payload.(int32)
		return float64(i), true
	case bsontype.Int64:
		i, _ := v.payload.(int64)
		return float64(i), true
	case bsontype.Decimal128:
		d, _ := v.payload.(decimal128.Decimal128)
		f, err := parseFloatFromDecimalString(d.String())
		return f, err == nil
	default:
		return 0, false
	}
}

func (v Value) AsDecimal128() (decimal128.Decimal128, bool) {
	switch v.tag {
	case bsontype.Decimal128:
		d, _ := v.payload.(decimal128.Decimal128)
		return d, true
	case bsontype.Int32:
		i, _ := v.payload.(int32)
		d, err := decimal128.Parse(itoaInt64(int64(i)))
		return d, err == nil
	case bsontype.Int64:
		i, _ := v.payload.(int64)
		d, err := decimal128.Parse(itoaInt64(i))
		return d, err == nil
	default:
		return decimal128.Decimal128{}, false
	}
}

// Equal reports exact structural equality (tag and payload must match;
// nested Document/Array payloads compare byte-exact).
func (v Value) Equal(other Value) bool {
	return valueEqual(v, other, false)
}

// EqualIgnoringOrder is like Equal but nested Document/Array payloads
// compare as multisets, recursively.
func (v Value) EqualIgnoringOrder(other Value) bool {
	return valueEqual(v, other, true)
}

func valueEqual(a, b Value, ignoreOrder bool) bool {
	if a.tag != b.tag {
		return false
	}
	switch a.tag {
	case bsontype.EmbeddedDoc, bsontype.Array:
		da, _ := a.payload.(*Document)
		db, _ := b.payload.(*Document)
		if da == nil || db == nil {
			return da == db
		}
		if ignoreOrder {
			return da.EqualsIgnoringOrder(db)
		}
		return da.BytesEqual(db)
	case bsontype.CodeWithScope:
		ca, _ := a.payload.(CodeWithScope)
		cb, _ := b.payload.(CodeWithScope)
		if ca.Code != cb.Code {
			return false
		}
		if ca.Scope == nil || cb.Scope == nil {
			return ca.Scope == cb.Scope
		}
		if ignoreOrder {
			return ca.Scope.EqualsIgnoringOrder(cb.Scope)
		}
		return ca.Scope.BytesEqual(cb.Scope)
	case bsontype.Binary:
		ba, _ := a.payload.(Binary)
		bb, _ := b.payload.(Binary)
		return ba.Subtype == bb.Subtype && string(ba.Data) == string(bb.Data)
	case bsontype.Decimal128:
		da, _ := a.payload.(decimal128.Decimal128)
		db, _ := b.payload.(decimal128.Decimal128)
		return da.Equal(db)
	default:
		return a.payload == b.payload
	}
}

// debugScalarString renders non-document, non-string variants for
// Document.DebugString.
func (v Value) debugScalarString() string {
	switch v.tag {
	case bsontype.Double:
		f, _ := v.Double()
		return fmt.Sprintf("%v", f)
	case bsontype.Binary:
		b, _ := v.BinaryValue()
		return fmt.Sprintf("Binary(%d, %x)", b.Subtype, b.Data)
	case bsontype.Undefined:
		return "undefined"
	case bsontype.ObjectID:
		id, _ := v.ObjectIDValue()
		return fmt.Sprintf("ObjectID(%q)", id.Hex())
	case bsontype.Boolean:
		b, _ := v.BoolValue()
		return fmt.Sprintf("%v", b)
	case bsontype.DateTime:
		d, _ := v.DateTimeValue()
		return fmt.Sprintf("ISODate(%q)", d.Time().Format(time.RFC3339Nano))
	case bsontype.Null:
		return "null"
	case bsontype.Regex:
		r, _ := v.RegexValue()
		return fmt.Sprintf("/%s/%s", r.Pattern, r.Options)
	case bsontype.DBPointer:
		p, _ := v.DBPointerValue()
		return fmt.Sprintf("DBPointer(%q, %q)", p.Namespace, p.ID.Hex())
	case bsontype.JavaScript:
		s, _ := v.JavaScriptValue()
		return fmt.Sprintf("Code(%q)", s)
	case bsontype.Symbol:
		s, _ := v.SymbolValue()
		return fmt.Sprintf("Symbol(%q)", s)
	case bsontype.CodeWithScope:
		c, _ := v.CodeWithScopeValue()
		return fmt.Sprintf("Code(%q, %s)", c.Code, debugValueString(NewDocumentValue(c.Scope)))
	case bsontype.Int32:
		i, _ := v.Int32Value()
		return fmt.Sprintf("%d", i)
	case bsontype.Timestamp:
		t, _ := v.TimestampValue()
		return fmt.Sprintf("Timestamp(%d, %d)", t.T, t.I)
	case bsontype.Int64:
		i, _ := v.Int64Value()
		return fmt.Sprintf("%dL", i)
	case bsontype.Decimal128:
		d, _ := v.Decimal128Value()
		return fmt.Sprintf("Decimal128(%q)", d.String())
	case bsontype.MinKey:
		return "MinKey"
	case bsontype.MaxKey:
		return "MaxKey"
	default:
		return fmt.Sprintf("<%s>", v.tag)
	}
}

// Hash returns an FNV-1a hash over the element's encoded payload bytes,
// suitable for use as a set/map key alongside its key string.
func (v Value) Hash() uint64 {
	h := fnv.New64a()
	buf := appendValuePayload(nil, v)
	_, _ = h.Write(buf)
	return h.Sum64()
}
