package main

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/corbindb/bsondoc/bson"
)

// readDocuments reads a sequence of concatenated top-level BSON documents
// from r, each self-delimited by its own length prefix (spec §3.2), until
// EOF at a document boundary. Shared in spirit with cmd/bsondump's reader
// of the same name; kept as a separate small copy rather than a shared
// package, the way the teacher's own tool binaries each carry their own
// thin file-reading glue.
func readDocuments(r io.Reader) ([]*bson.Document, error) {
	br := bufio.NewReader(r)
	var docs []*bson.Document

	for {
		header := make([]byte, 4)
		if _, err := io.ReadFull(br, header); err != nil {
			if err == io.EOF {
				break
			}
			return docs, fmt.Errorf("reading length prefix: %w", err)
		}

		length := int32(binary.LittleEndian.Uint32(header))
		if length < 5 {
			return docs, fmt.Errorf("invalid document length %d", length)
		}

		body := make([]byte, length-4)
		if _, err := io.ReadFull(br, body); err != nil {
			return docs, fmt.Errorf("reading document body: %w", err)
		}

		full := append(header, body...)
		doc, err := bson.FromBytes(full)
		if err != nil {
			return docs, fmt.Errorf("decoding document: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
