package extjson

import (
	"encoding/base64"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/corbindb/bsondoc/bson"
	"github.com/corbindb/bsondoc/bsontype"
	"github.com/corbindb/bsondoc/decimal128"
)

// FromJSON parses Extended JSON text (Canonical, Relaxed, or a mix of the
// two — the wrapper-key dispatch table recognizes both) into a Document.
func FromJSON(text string) (*bson.Document, error) {
	ast, err := parseJSON(text)
	if err != nil {
		return nil, wrapDecodingErr(nil, "malformed JSON", err)
	}
	if ast.kind != kindObject {
		return nil, decodingErr(nil, "top-level Extended JSON value must be an object")
	}
	return documentFromObject(ast.obj, nil)
}

func documentFromObject(obj *orderedObject, path []string) (*bson.Document, error) {
	d := bson.NewDocument()
	for _, k := range obj.Keys() {
		v, _ := obj.get(k)
		val, err := valueFromAST(v, withKey(path, k))
		if err != nil {
			return nil, err
		}
		if err := d.Set(k, val); err != nil {
			return nil, wrapDecodingErr(path, "setting key "+strconv.Quote(k), err)
		}
	}
	return d, nil
}

func valueFromAST(ast astValue, path []string) (bson.Value, error) {
	switch ast.kind {
	case kindNull:
		return bson.NewNull(), nil
	case kindBool:
		return bson.NewBool(ast.b), nil
	case kindNumber:
		return parseNumberText(ast.num, path)
	case kindString:
		return bson.NewString(ast.str), nil
	case kindArray:
		vals := make([]bson.Value, 0, len(ast.arr))
		for i, elem := range ast.arr {
			v, err := valueFromAST(elem, withIndex(path, i))
			if err != nil {
				return bson.Value{}, err
			}
			vals = append(vals, v)
		}
		return bson.NewArrayValue(vals), nil
	case kindObject:
		return valueFromObject(ast.obj, path)
	default:
		return bson.Value{}, decodingErr(path, "unrecognized JSON node")
	}
}

// parseNumberText applies the "first type that round-trips exactly wins"
// precedence rule (spec §4.5): a pure integer literal is tried as Int32
// then Int64; anything with a fractional part or exponent is a Double.
func parseNumberText(text string, path []string) (bson.Value, error) {
	if isIntegerLiteral(text) {
		i64, err := strconv.ParseInt(text, 10, 64)
		if err == nil {
			if i64 >= -2147483648 && i64 <= 2147483647 {
				return bson.NewInt32(int32(i64)), nil
			}
			return bson.NewInt64(i64), nil
		}
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return bson.Value{}, wrapDecodingErr(path, "malformed number "+strconv.Quote(text), err)
	}
	return bson.NewDouble(f), nil
}

func isIntegerLiteral(s string) bool {
	if s == "" {
		return false
	}
	i := 0
	if s[0] == '+' || s[0] == '-' {
		i++
	}
	if i == len(s) {
		return false
	}
	for ; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// valueFromObject dispatches a JSON object to a typed BSON value if its
// shape matches a canonical wrapper (or the legacy $regex/$options form),
// falling back to an ordinary embedded document.
func valueFromObject(obj *orderedObject, path []string) (bson.Value, error) {
	keys := obj.Keys()

	if len(keys) == 1 && wrapperKeys[keys[0]] {
		return parseWrapper(keys[0], obj, path)
	}

	if len(keys) == 2 {
		has := make(map[string]bool, 2)
		for _, k := range keys {
			has[k] = true
		}
		if has[keyCode] && has[keyScope] {
			return parseCodeWithScope(obj, path)
		}
	}

	if v, ok := legacyRegexValue(obj); ok {
		return v, nil
	}

	nested, err := documentFromObject(obj, path)
	if err != nil {
		return bson.Value{}, err
	}
	return bson.NewDocumentValue(nested), nil
}

func parseWrapper(key string, obj *orderedObject, path []string) (bson.Value, error) {
	switch key {
	case keyNumberInt:
		return parseNumberIntWrapper(obj, path)
	case keyNumberLong:
		return parseNumberLongWrapper(obj, path)
	case keyNumberDouble:
		return parseNumberDoubleWrapper(obj, path)
	case keyNumberDecimal:
		return parseNumberDecimalWrapper(obj, path)
	case keyOID:
		return parseOIDWrapper(obj, path)
	case keyBinary:
		return parseBinaryWrapper(obj, path)
	case keyDate:
		return parseDateWrapper(obj, path)
	case keyTimestamp:
		return parseTimestampWrapper(obj, path)
	case keyRegex:
		return parseRegexWrapper(obj, path)
	case keyCode:
		return parseCodeWrapper(obj, path)
	case keySymbol:
		return parseSymbolWrapper(obj, path)
	case keyDBPointer:
		return parseDBPointerWrapper(obj, path)
	case keyUndefined:
		return bson.NewUndefined(), nil
	case keyMinKey:
		return bson.NewMinKey(), nil
	case keyMaxKey:
		return bson.NewMaxKey(), nil
	case keyUUID:
		return parseUUIDWrapper(obj, path)
	default:
		return bson.Value{}, decodingErr(path, "unknown wrapper key "+strconv.Quote(key))
	}
}

func wrapperString(obj *orderedObject, key string, path []string) (string, error) {
	v, _ := obj.get(key)
	if v.kind != kindString {
		return "", decodingErr(path, strconv.Quote(key)+" must be a string")
	}
	return v.str, nil
}

func parseNumberIntWrapper(obj *orderedObject, path []string) (bson.Value, error) {
	s, err := wrapperString(obj, keyNumberInt, path)
	if err != nil {
		return bson.Value{}, err
	}
	i, convErr := strconv.ParseInt(s, 10, 32)
	if convErr != nil {
		return bson.Value{}, wrapDecodingErr(path, "malformed $numberInt", convErr)
	}
	return bson.NewInt32(int32(i)), nil
}

func parseNumberLongWrapper(obj *orderedObject, path []string) (bson.Value, error) {
	s, err := wrapperString(obj, keyNumberLong, path)
	if err != nil {
		return bson.Value{}, err
	}
	i, convErr := strconv.ParseInt(s, 10, 64)
	if convErr != nil {
		return bson.Value{}, wrapDecodingErr(path, "malformed $numberLong", convErr)
	}
	return bson.NewInt64(i), nil
}

func parseNumberDoubleWrapper(obj *orderedObject, path []string) (bson.Value, error) {
	s, err := wrapperString(obj, keyNumberDouble, path)
	if err != nil {
		return bson.Value{}, err
	}
	f, convErr := strconv.ParseFloat(s, 64)
	if convErr != nil {
		return bson.Value{}, wrapDecodingErr(path, "malformed $numberDouble", convErr)
	}
	return bson.NewDouble(f), nil
}

func parseNumberDecimalWrapper(obj *orderedObject, path []string) (bson.Value, error) {
	s, err := wrapperString(obj, keyNumberDecimal, path)
	if err != nil {
		return bson.Value{}, err
	}
	d, convErr := decimal128.Parse(s)
	if convErr != nil {
		return bson.Value{}, wrapDecodingErr(path, "malformed $numberDecimal", convErr)
	}
	return bson.NewDecimal128(d), nil
}

func parseOIDWrapper(obj *orderedObject, path []string) (bson.Value, error) {
	s, err := wrapperString(obj, keyOID, path)
	if err != nil {
		return bson.Value{}, err
	}
	id, convErr := bson.ObjectIDFromHex(s)
	if convErr != nil {
		return bson.Value{}, wrapDecodingErr(path, "malformed $oid", convErr)
	}
	return bson.NewObjectIDValue(id), nil
}

func parseBinaryWrapper(obj *orderedObject, path []string) (bson.Value, error) {
	v, _ := obj.get(keyBinary)
	if v.kind != kindObject {
		return bson.Value{}, decodingErr(path, "$binary must be an object with base64/subType")
	}
	b64, ok := v.obj.get(keyBinaryBase64)
	if !ok || b64.kind != kindString {
		return bson.Value{}, decodingErr(withKey(path, keyBinary), "missing or non-string \"base64\"")
	}
	subTypeAST, ok := v.obj.get(keyBinarySubtype)
	if !ok || subTypeAST.kind != kindString {
		return bson.Value{}, decodingErr(withKey(path, keyBinary), "missing or non-string \"subType\"")
	}
	data, convErr := base64.StdEncoding.DecodeString(b64.str)
	if convErr != nil {
		return bson.Value{}, wrapDecodingErr(withKey(path, keyBinary), "malformed base64", convErr)
	}
	subtypeByte, convErr := strconv.ParseUint(subTypeAST.str, 16, 8)
	if convErr != nil {
		return bson.Value{}, wrapDecodingErr(withKey(path, keyBinary), "malformed subType", convErr)
	}
	val, bsonErr := bson.NewBinaryValue(bsontype.BinarySubtype(subtypeByte), data)
	if bsonErr != nil {
		return bson.Value{}, wrapDecodingErr(withKey(path, keyBinary), "invalid binary subtype", bsonErr)
	}
	return val, nil
}

func parseUUIDWrapper(obj *orderedObject, path []string) (bson.Value, error) {
	s, err := wrapperString(obj, keyUUID, path)
	if err != nil {
		return bson.Value{}, err
	}
	id, convErr := uuid.Parse(s)
	if convErr != nil {
		return bson.Value{}, wrapDecodingErr(path, "malformed $uuid", convErr)
	}
	return bson.NewUUIDValue(id), nil
}

var dateLayouts = []string{
	"2006-01-02T15:04:05.999Z07:00",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05.999Z",
	"2006-01-02T15:04:05Z",
}

func parseDateWrapper(obj *orderedObject, path []string) (bson.Value, error) {
	v, _ := obj.get(keyDate)
	switch v.kind {
	case kindString:
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, v.str); err == nil {
				return bson.NewDateTime(bson.DateTimeFromTime(t)), nil
			}
		}
		return bson.Value{}, decodingErr(withKey(path, keyDate), "unrecognized ISO-8601 date "+strconv.Quote(v.str))
	case kindObject:
		inner, ok := v.obj.get(keyNumberLong)
		if !ok || inner.kind != kindString {
			return bson.Value{}, decodingErr(withKey(path, keyDate), "canonical $date must wrap $numberLong")
		}
		ms, convErr := strconv.ParseInt(inner.str, 10, 64)
		if convErr != nil {
			return bson.Value{}, wrapDecodingErr(withKey(path, keyDate), "malformed $date.$numberLong", convErr)
		}
		return bson.NewDateTime(bson.DateTime(ms)), nil
	default:
		return bson.Value{}, decodingErr(withKey(path, keyDate), "$date must be a string or {$numberLong}")
	}
}

func parseTimestampWrapper(obj *orderedObject, path []string) (bson.Value, error) {
	v, _ := obj.get(keyTimestamp)
	if v.kind != kindObject {
		return bson.Value{}, decodingErr(path, "$timestamp must be an object with t/i")
	}
	t, err := wrapperUint32(v.obj, keyTimestampT, withKey(path, keyTimestamp))
	if err != nil {
		return bson.Value{}, err
	}
	i, err := wrapperUint32(v.obj, keyTimestampI, withKey(path, keyTimestamp))
	if err != nil {
		return bson.Value{}, err
	}
	return bson.NewTimestamp(bson.Timestamp{T: t, I: i}), nil
}

func wrapperUint32(obj *orderedObject, key string, path []string) (uint32, error) {
	v, ok := obj.get(key)
	if !ok || v.kind != kindNumber {
		return 0, decodingErr(path, "missing or non-numeric "+strconv.Quote(key))
	}
	u, err := strconv.ParseUint(v.num, 10, 32)
	if err != nil {
		return 0, wrapDecodingErr(path, "malformed "+strconv.Quote(key), err)
	}
	return uint32(u), nil
}

func parseRegexWrapper(obj *orderedObject, path []string) (bson.Value, error) {
	v, _ := obj.get(keyRegex)
	if v.kind != kindObject {
		return bson.Value{}, decodingErr(path, "$regularExpression must be an object")
	}
	pattern, ok := v.obj.get(keyRegexPattern)
	if !ok || pattern.kind != kindString {
		return bson.Value{}, decodingErr(withKey(path, keyRegex), "missing or non-string \"pattern\"")
	}
	options, ok := v.obj.get(keyRegexOptions)
	if !ok || options.kind != kindString {
		return bson.Value{}, decodingErr(withKey(path, keyRegex), "missing or non-string \"options\"")
	}
	return bson.NewRegex(pattern.str, options.str), nil
}

func parseCodeWrapper(obj *orderedObject, path []string) (bson.Value, error) {
	s, err := wrapperString(obj, keyCode, path)
	if err != nil {
		return bson.Value{}, err
	}
	return bson.NewJavaScript(s), nil
}

func parseCodeWithScope(obj *orderedObject, path []string) (bson.Value, error) {
	codeAST, _ := obj.get(keyCode)
	if codeAST.kind != kindString {
		return bson.Value{}, decodingErr(path, "$code must be a string")
	}
	scopeAST, _ := obj.get(keyScope)
	if scopeAST.kind != kindObject {
		return bson.Value{}, decodingErr(withKey(path, keyScope), "$scope must be an object")
	}
	scope, err := documentFromObject(scopeAST.obj, withKey(path, keyScope))
	if err != nil {
		return bson.Value{}, err
	}
	return bson.NewCodeWithScope(bson.CodeWithScope{Code: codeAST.str, Scope: scope}), nil
}

func parseSymbolWrapper(obj *orderedObject, path []string) (bson.Value, error) {
	s, err := wrapperString(obj, keySymbol, path)
	if err != nil {
		return bson.Value{}, err
	}
	return bson.NewSymbol(s), nil
}

func parseDBPointerWrapper(obj *orderedObject, path []string) (bson.Value, error) {
	v, _ := obj.get(keyDBPointer)
	if v.kind != kindObject {
		return bson.Value{}, decodingErr(path, "$dbPointer must be an object")
	}
	ref, ok := v.obj.get(keyDBPointerRef)
	if !ok || ref.kind != kindString {
		return bson.Value{}, decodingErr(withKey(path, keyDBPointer), "missing or non-string \"$ref\"")
	}
	idAST, ok := v.obj.get(keyDBPointerID)
	if !ok || idAST.kind != kindObject {
		return bson.Value{}, decodingErr(withKey(path, keyDBPointer), "missing \"$id\"")
	}
	idVal, err := parseOIDWrapper(idAST.obj, withKey(path, keyDBPointer))
	if err != nil {
		return bson.Value{}, err
	}
	id, _ := idVal.ObjectIDValue()
	return bson.NewDBPointer(bson.DBPointer{Namespace: ref.str, ID: id}), nil
}

