package extjson

import "github.com/corbindb/bsondoc/bson"

// legacyRegexValue recognizes the non-canonical {"$regex": "...", "$options":
// "..."} shape (spec §4.5), absorbed from the teacher's
// ConvertLegacyExtJSONValueToBSON and rewritten against this module's own
// bson.Value. It is tried only as a fallback once no canonical wrapper key
// has matched an object, since a bare "$regex" key can also appear as an
// ordinary query-operator field inside an otherwise plain document (e.g.
// {"field": {"$regex": "^a", "$ne": "abc"}} nested under a larger query
// document, which stays a plain embedded document) — the
// two-key shape here is deliberately narrow so it only fires when $regex
// (optionally with $options) is the object's entire content.
func legacyRegexValue(obj *orderedObject) (bson.Value, bool) {
	keys := obj.Keys()
	if len(keys) == 0 || len(keys) > 2 {
		return bson.Value{}, false
	}
	hasRegex := false
	for _, k := range keys {
		if k != legacyRegex && k != legacyOptions {
			return bson.Value{}, false
		}
		if k == legacyRegex {
			hasRegex = true
		}
	}
	if !hasRegex {
		return bson.Value{}, false
	}
	patternAST, _ := obj.get(legacyRegex)
	if patternAST.kind != kindString {
		return bson.Value{}, false
	}
	options := ""
	if optAST, ok := obj.get(legacyOptions); ok {
		if optAST.kind != kindString {
			return bson.Value{}, false
		}
		options = optAST.str
	}
	return bson.NewRegex(patternAST.str, options), true
}
