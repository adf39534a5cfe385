package extjson

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

// kind discriminates an astValue, the generic JSON AST the extended JSON
// codec is built against (spec §6.4: an external collaborator). Since the
// retrieval pack does not carry a ready-made order-preserving JSON AST, this
// one is built directly on encoding/json's token-level Decoder, which is
// the one part of this package grounded on the standard library rather than
// a pack dependency — preserving object key order and raw number text
// (via json.Number) is exactly what Decoder.Token/UseNumber is for, and
// hand-rolling a JSON tokenizer would risk subtle lexing bugs with no way
// to exercise them against a reference parser.
type kind int

const (
	kindNull kind = iota
	kindBool
	kindNumber
	kindString
	kindArray
	kindObject
)

// astValue is one node of the parsed JSON tree. Numbers are kept as their
// original source text (num) so that e.g. "1.50" is not silently rounded or
// reformatted before the wrapper-key dispatch gets a chance to interpret it.
type astValue struct {
	kind kind
	b    bool
	num  string
	str  string
	arr  []astValue
	obj  *orderedObject
}

// orderedObject is a JSON object that remembers the order its keys were
// first seen in, required for canonical round-trip equality (spec §6.4).
type orderedObject struct {
	keys []string
	vals map[string]astValue
}

func newOrderedObject() *orderedObject {
	return &orderedObject{vals: make(map[string]astValue)}
}

func (o *orderedObject) set(key string, v astValue) {
	if _, exists := o.vals[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.vals[key] = v
}

func (o *orderedObject) get(key string) (astValue, bool) {
	v, ok := o.vals[key]
	return v, ok
}

func (o *orderedObject) Keys() []string { return o.keys }

func (o *orderedObject) Len() int { return len(o.keys) }

// parseJSON parses text into an astValue, verifying there is no trailing
// non-whitespace content after the single top-level value.
func parseJSON(text string) (astValue, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return astValue{}, err
	}

	if _, err := dec.Token(); err != io.EOF {
		return astValue{}, errors.New("trailing content after top-level JSON value")
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (astValue, error) {
	tok, err := dec.Token()
	if err != nil {
		return astValue{}, errors.Wrap(err, "malformed JSON")
	}
	return valueFromToken(dec, tok)
}

func valueFromToken(dec *json.Decoder, tok json.Token) (astValue, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		default:
			return astValue{}, errors.Errorf("unexpected delimiter %q", t)
		}
	case nil:
		return astValue{kind: kindNull}, nil
	case bool:
		return astValue{kind: kindBool, b: t}, nil
	case json.Number:
		return astValue{kind: kindNumber, num: t.String()}, nil
	case string:
		return astValue{kind: kindString, str: t}, nil
	default:
		return astValue{}, errors.Errorf("unrecognized JSON token %T", tok)
	}
}

func decodeObject(dec *json.Decoder) (astValue, error) {
	obj := newOrderedObject()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return astValue{}, errors.Wrap(err, "malformed object key")
		}
		key, ok := keyTok.(string)
		if !ok {
			return astValue{}, errors.Errorf("object key is not a string: %v", keyTok)
		}
		val, err := decodeValue(dec)
		if err != nil {
			return astValue{}, err
		}
		obj.set(key, val)
	}
	// consume the closing '}'
	if _, err := dec.Token(); err != nil {
		return astValue{}, errors.Wrap(err, "unterminated object")
	}
	return astValue{kind: kindObject, obj: obj}, nil
}

func decodeArray(dec *json.Decoder) (astValue, error) {
	var arr []astValue
	for dec.More() {
		val, err := decodeValue(dec)
		if err != nil {
			return astValue{}, err
		}
		arr = append(arr, val)
	}
	if _, err := dec.Token(); err != nil {
		return astValue{}, errors.Wrap(err, "unterminated array")
	}
	return astValue{kind: kindArray, arr: arr}, nil
}
