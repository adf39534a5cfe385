package extjson

// Canonical wrapper keys, per spec §4.5. A single-keyed object whose key is
// one of these (or the $code/$scope pair) is interpreted as the wrapped
// BSON type rather than an ordinary document; everything else decodes as a
// plain embedded document.
const (
	keyNumberInt     = "$numberInt"
	keyNumberLong    = "$numberLong"
	keyNumberDouble  = "$numberDouble"
	keyNumberDecimal = "$numberDecimal"
	keyOID           = "$oid"
	keyBinary        = "$binary"
	keyBinaryBase64  = "base64"
	keyBinarySubtype = "subType"
	keyDate          = "$date"
	keyTimestamp     = "$timestamp"
	keyTimestampT    = "t"
	keyTimestampI    = "i"
	keyRegex         = "$regularExpression"
	keyRegexPattern  = "pattern"
	keyRegexOptions  = "options"
	keyCode          = "$code"
	keyScope         = "$scope"
	keySymbol        = "$symbol"
	keyDBPointer     = "$dbPointer"
	keyDBPointerRef  = "$ref"
	keyDBPointerID   = "$id"
	keyUndefined     = "$undefined"
	keyMinKey        = "$minKey"
	keyMaxKey        = "$maxKey"
	keyUUID          = "$uuid"

	// Legacy wrapper keys. These never gate dispatch by themselves (spec
	// §4.5: they may appear as ordinary fields, e.g. inside a MongoDB
	// $regex query operator) and are consulted only as a fallback when no
	// canonical wrapper key matched.
	legacyRegex   = "$regex"
	legacyOptions = "$options"
)

// wrapperKeys is the complete set of canonical dispatch keys, used to
// decide whether a JSON object is a typed wrapper (single recognized key,
// or exactly {$code} / {$code,$scope}) or a plain document.
var wrapperKeys = map[string]bool{
	keyNumberInt:     true,
	keyNumberLong:    true,
	keyNumberDouble:  true,
	keyNumberDecimal: true,
	keyOID:           true,
	keyBinary:        true,
	keyDate:          true,
	keyTimestamp:     true,
	keyRegex:         true,
	keyCode:          true,
	keySymbol:        true,
	keyDBPointer:     true,
	keyUndefined:     true,
	keyMinKey:        true,
	keyMaxKey:        true,
	keyUUID:          true,
}
