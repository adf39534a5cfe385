package main

import (
	"fmt"
	"os"

	"github.com/corbindb/bsondoc/bson"
	"github.com/corbindb/bsondoc/extjson"
)

// roundTripResult reports the outcome of pushing one document through the
// bson -> canonical ejson -> bson loop described by the BSON Corpus
// acceptance-test conventions: a conforming encoder/decoder pair must
// reproduce the exact same bytes on the way back out.
type roundTripResult struct {
	Index     int
	OK        bool
	Detail    string
	Canonical string
}

func checkRoundTrip(doc *bson.Document) roundTripResult {
	canonical, err := extjson.ToCanonicalExtendedJSON(doc)
	if err != nil {
		return roundTripResult{OK: false, Detail: fmt.Sprintf("encode to canonical extended JSON: %s", err)}
	}

	reparsed, err := extjson.FromJSON(canonical)
	if err != nil {
		return roundTripResult{OK: false, Canonical: canonical, Detail: fmt.Sprintf("decode canonical extended JSON: %s", err)}
	}

	if !doc.BytesEqual(reparsed) {
		return roundTripResult{OK: false, Canonical: canonical, Detail: "round-tripped document does not match the original byte-for-byte"}
	}
	return roundTripResult{OK: true, Canonical: canonical}
}

// checkFile runs checkRoundTrip over every document in a concatenated
// .bson file, in order, stopping at the first read/decode failure.
func checkFile(path string) ([]roundTripResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("couldn't open BSON file: %w", err)
	}
	defer f.Close()

	docs, err := readDocuments(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	results := make([]roundTripResult, len(docs))
	for i, doc := range docs {
		r := checkRoundTrip(doc)
		r.Index = i
		results[i] = r
	}
	return results, nil
}
