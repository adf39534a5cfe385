package extjson

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/corbindb/bsondoc/bson"
	"github.com/corbindb/bsondoc/bsontype"
)

// Mode selects between Canonical (every typed value wrapped, per spec
// §4.5) and Relaxed (native JSON scalars for Int32/Int64/finite Double, an
// ISO-8601 $date string for in-range DateTime, canonical form otherwise)
// Extended JSON emission.
type Mode int

const (
	Canonical Mode = iota
	Relaxed
)

// relaxedDateFloor/Ceil bound the range in which Relaxed emits DateTime as
// {"$date":"<ISO-8601 string>"} rather than falling back to the canonical
// {"$date":{"$numberLong":...}} form (spec §4.5: "[1970-01-01, 10000-01-01)").
var (
	relaxedDateFloor = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	relaxedDateCeil  = time.Date(10000, 1, 1, 0, 0, 0, 0, time.UTC)
)

// ToCanonicalExtendedJSON renders d as Canonical Extended JSON text. This
// is a free function rather than a bson.Document method so that bson need
// not import extjson.
func ToCanonicalExtendedJSON(d *bson.Document) (string, error) {
	return emitDocument(d, Canonical)
}

// ToRelaxedExtendedJSON renders d as Relaxed Extended JSON text.
func ToRelaxedExtendedJSON(d *bson.Document) (string, error) {
	return emitDocument(d, Relaxed)
}

func emitDocument(d *bson.Document, mode Mode) (string, error) {
	var buf bytes.Buffer
	if err := writeDocument(&buf, d, mode); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func writeDocument(buf *bytes.Buffer, d *bson.Document, mode Mode) error {
	buf.WriteByte('{')
	it := d.Iterator()
	first := true
	for {
		k, v, ok := it.Next()
		if !ok {
			break
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		writeJSONString(buf, k)
		buf.WriteByte(':')
		if err := writeValue(buf, v, mode); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

func writeArray(buf *bytes.Buffer, d *bson.Document, mode Mode) error {
	buf.WriteByte('[')
	it := d.Iterator()
	first := true
	for {
		_, v, ok := it.Next()
		if !ok {
			break
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		if err := writeValue(buf, v, mode); err != nil {
			return err
		}
	}
	buf.WriteByte(']')
	return nil
}

func writeValue(buf *bytes.Buffer, v bson.Value, mode Mode) error {
	switch v.Type() {
	case bsontype.Double:
		f, _ := v.Double()
		return writeDouble(buf, f, mode)

	case bsontype.String:
		s, _ := v.StringValue()
		writeJSONString(buf, s)
		return nil

	case bsontype.EmbeddedDoc:
		nested, _ := v.DocumentValue()
		return writeDocument(buf, nested, mode)

	case bsontype.Array:
		nested, _ := v.ArrayDocument()
		return writeArray(buf, nested, mode)

	case bsontype.Binary:
		b, _ := v.BinaryValue()
		writeWrapperObject(buf, keyBinary, func() {
			buf.WriteByte('{')
			writeJSONString(buf, keyBinaryBase64)
			buf.WriteByte(':')
			writeJSONString(buf, base64Encode(b.Data))
			buf.WriteByte(',')
			writeJSONString(buf, keyBinarySubtype)
			buf.WriteByte(':')
			writeJSONString(buf, hexByte(byte(b.Subtype)))
			buf.WriteByte('}')
		})
		return nil

	case bsontype.Undefined:
		writeWrapperObject(buf, keyUndefined, func() { buf.WriteString("true") })
		return nil

	case bsontype.ObjectID:
		id, _ := v.ObjectIDValue()
		writeSimpleWrapper(buf, keyOID, id.Hex())
		return nil

	case bsontype.Boolean:
		b, _ := v.BoolValue()
		if b {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
		return nil

	case bsontype.DateTime:
		d, _ := v.DateTimeValue()
		return writeDateTime(buf, d, mode)

	case bsontype.Null:
		buf.WriteString("null")
		return nil

	case bsontype.Regex:
		r, _ := v.RegexValue()
		// Re-wrapping through NewRegex sorts the options for output.
		r, _ = bson.NewRegex(r.Pattern, r.Options).RegexValue()
		writeWrapperObject(buf, keyRegex, func() {
			buf.WriteByte('{')
			writeJSONString(buf, keyRegexPattern)
			buf.WriteByte(':')
			writeJSONString(buf, r.Pattern)
			buf.WriteByte(',')
			writeJSONString(buf, keyRegexOptions)
			buf.WriteByte(':')
			writeJSONString(buf, r.Options)
			buf.WriteByte('}')
		})
		return nil

	case bsontype.DBPointer:
		p, _ := v.DBPointerValue()
		writeWrapperObject(buf, keyDBPointer, func() {
			buf.WriteByte('{')
			writeJSONString(buf, keyDBPointerRef)
			buf.WriteByte(':')
			writeJSONString(buf, p.Namespace)
			buf.WriteByte(',')
			writeJSONString(buf, keyDBPointerID)
			buf.WriteByte(':')
			writeSimpleWrapper(buf, keyOID, p.ID.Hex())
			buf.WriteByte('}')
		})
		return nil

	case bsontype.JavaScript:
		s, _ := v.JavaScriptValue()
		writeSimpleWrapper(buf, keyCode, s)
		return nil

	case bsontype.Symbol:
		s, _ := v.SymbolValue()
		writeSimpleWrapper(buf, keySymbol, s)
		return nil

	case bsontype.CodeWithScope:
		c, _ := v.CodeWithScopeValue()
		buf.WriteByte('{')
		writeJSONString(buf, keyCode)
		buf.WriteByte(':')
		writeJSONString(buf, c.Code)
		buf.WriteByte(',')
		writeJSONString(buf, keyScope)
		buf.WriteByte(':')
		scope := c.Scope
		if scope == nil {
			scope = bson.NewDocument()
		}
		if err := writeDocument(buf, scope, mode); err != nil {
			return err
		}
		buf.WriteByte('}')
		return nil

	case bsontype.Int32:
		i, _ := v.Int32Value()
		if mode == Relaxed {
			buf.WriteString(strconv.FormatInt(int64(i), 10))
			return nil
		}
		writeSimpleWrapper(buf, keyNumberInt, strconv.FormatInt(int64(i), 10))
		return nil

	case bsontype.Timestamp:
		t, _ := v.TimestampValue()
		writeWrapperObject(buf, keyTimestamp, func() {
			buf.WriteByte('{')
			writeJSONString(buf, keyTimestampT)
			buf.WriteByte(':')
			buf.WriteString(strconv.FormatUint(uint64(t.T), 10))
			buf.WriteByte(',')
			writeJSONString(buf, keyTimestampI)
			buf.WriteByte(':')
			buf.WriteString(strconv.FormatUint(uint64(t.I), 10))
			buf.WriteByte('}')
		})
		return nil

	case bsontype.Int64:
		i, _ := v.Int64Value()
		if mode == Relaxed {
			buf.WriteString(strconv.FormatInt(i, 10))
			return nil
		}
		writeSimpleWrapper(buf, keyNumberLong, strconv.FormatInt(i, 10))
		return nil

	case bsontype.Decimal128:
		d, _ := v.Decimal128Value()
		writeSimpleWrapper(buf, keyNumberDecimal, d.String())
		return nil

	case bsontype.MinKey:
		writeWrapperObject(buf, keyMinKey, func() { buf.WriteByte('1') })
		return nil

	case bsontype.MaxKey:
		writeWrapperObject(buf, keyMaxKey, func() { buf.WriteByte('1') })
		return nil

	default:
		return errors.Errorf("emit: unsupported value tag %s", v.Type())
	}
}

func base64Encode(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

func hexByte(b byte) string {
	return fmt.Sprintf("%02x", b)
}

func writeDouble(buf *bytes.Buffer, f float64, mode Mode) error {
	text := formatDoubleText(f)
	if mode == Relaxed && !math.IsNaN(f) && !math.IsInf(f, 0) {
		buf.WriteString(text)
		return nil
	}
	writeSimpleWrapper(buf, keyNumberDouble, text)
	return nil
}

// formatDoubleText renders f the way Extended JSON expects: the shortest
// round-tripping decimal, with a '.0' suffix forced on when the result
// would otherwise look like an integer, and the special NaN/Infinity
// spellings spec §4.6 also uses for Decimal128.
func formatDoubleText(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	if math.IsInf(f, 1) {
		return "Infinity"
	}
	if math.IsInf(f, -1) {
		return "-Infinity"
	}
	s := strconv.FormatFloat(f, 'G', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func writeDateTime(buf *bytes.Buffer, d bson.DateTime, mode Mode) error {
	t := d.Time()
	if mode == Relaxed && !t.Before(relaxedDateFloor) && t.Before(relaxedDateCeil) {
		writeWrapperObject(buf, keyDate, func() {
			writeJSONString(buf, formatRelaxedDate(t))
		})
		return nil
	}
	writeWrapperObject(buf, keyDate, func() {
		writeSimpleWrapper(buf, keyNumberLong, strconv.FormatInt(int64(d), 10))
	})
	return nil
}

// formatRelaxedDate renders t as millisecond-precision ISO-8601, omitting
// the fractional part entirely when it is zero (spec §4.5).
func formatRelaxedDate(t time.Time) string {
	if t.Nanosecond() == 0 {
		return t.Format("2006-01-02T15:04:05Z")
	}
	return t.Format("2006-01-02T15:04:05.000Z")
}

func writeSimpleWrapper(buf *bytes.Buffer, key, value string) {
	buf.WriteByte('{')
	writeJSONString(buf, key)
	buf.WriteByte(':')
	writeJSONString(buf, value)
	buf.WriteByte('}')
}

func writeWrapperObject(buf *bytes.Buffer, key string, writeValueFn func()) {
	buf.WriteByte('{')
	writeJSONString(buf, key)
	buf.WriteByte(':')
	writeValueFn()
	buf.WriteByte('}')
}

// writeJSONString delegates escaping to encoding/json: hand-rolling JSON
// string escaping (surrogate pairs, control characters, the U+2028/U+2029
// HTML-unsafe code points) is easy to get subtly wrong and impossible to
// check here without running the result through a reference decoder.
func writeJSONString(buf *bytes.Buffer, s string) {
	b, err := json.Marshal(s)
	if err != nil {
		// json.Marshal on a string only fails for invalid UTF-8, which
		// bson.Document's own validation already excludes for keys, and
		// which this package's Value payloads are constructed to avoid.
		buf.WriteString(`"<invalid utf-8>"`)
		return
	}
	buf.Write(b)
}
