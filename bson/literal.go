package bson

// Pair is an ordered (key, value) entry used to build a Document without
// relying on a host language's dictionary-literal syntax.
type Pair struct {
	Key   string
	Value Value
}

// P is shorthand for constructing a Pair.
func P(key string, v Value) Pair { return Pair{Key: key, Value: v} }

// FromPairs builds a Document from an ordered sequence of pairs,
// rejecting duplicate keys (the literal-construction replacement named
// in the design notes: dictionary-literal equivalence without silently
// tolerating duplicate keys the way read-path construction does).
func FromPairs(pairs ...Pair) (*Document, error) {
	d := NewDocument()
	for _, p := range pairs {
		if d.ContainsKey(p.Key) {
			return nil, invalidArgf("document: duplicate key %q in literal construction", p.Key)
		}
		if err := d.Set(p.Key, p.Value); err != nil {
			return nil, err
		}
	}
	return d, nil
}
