// Command bsondump reads BSON documents from a file (or stdin) and writes
// each one to stdout as Extended JSON or as a human-readable debug tree,
// adapted from the teacher's bsondump/ tool onto this module's own bson
// and extjson packages.
package main

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	flags "github.com/jessevdk/go-flags"
	"github.com/mitchellh/go-wordwrap"

	"github.com/corbindb/bsondoc/bson"
	"github.com/corbindb/bsondoc/extjson"
	"github.com/corbindb/bsondoc/internal/dlog"
)

func main() {
	opts, _, err := parseOptions(os.Args[1:])
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return
		}
		fmt.Fprintln(os.Stderr, wordwrap.WrapString(err.Error(), 80))
		os.Exit(1)
	}

	dlog.SetVerbosity(opts.verbosity())

	if err := run(opts); err != nil {
		fmt.Fprintln(os.Stderr, wordwrap.WrapString(err.Error(), 80))
		os.Exit(1)
	}
}

func run(opts *outputOptions) error {
	in, err := openInput(opts.BSONFileName)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := openOutput(opts.OutFileName)
	if err != nil {
		return err
	}
	defer out.Close()

	docs, err := readDocuments(in)
	if err != nil {
		return fmt.Errorf("reading %s: %w", describeSource(opts.BSONFileName), err)
	}
	dlog.Logf(dlog.Info, "read %d document(s) from %s", len(docs), describeSource(opts.BSONFileName))

	for i, doc := range docs {
		text, err := renderDoc(doc, opts.Type)
		if err != nil {
			return fmt.Errorf("document %d: %w", i, err)
		}
		if _, err := fmt.Fprintln(out, text); err != nil {
			return err
		}
		dlog.Logf(dlog.DebugLow, "dumped document %d", i)
	}
	return nil
}

func renderDoc(doc *bson.Document, outType string) (string, error) {
	switch outType {
	case "debug":
		return doc.DebugString(), nil
	case "canonical":
		return extjson.ToCanonicalExtendedJSON(doc)
	case "relaxed", "json":
		return extjson.ToRelaxedExtendedJSON(doc)
	default:
		return "", fmt.Errorf("unsupported output type %q", outType)
	}
}

func describeSource(fileName string) string {
	if fileName == "" {
		return "stdin"
	}
	return fileName
}

func openInput(fileName string) (*os.File, error) {
	if fileName == "" {
		return os.Stdin, nil
	}
	f, err := os.Open(fileName)
	if err != nil {
		return nil, fmt.Errorf("couldn't open BSON file: %w", err)
	}
	return f, nil
}

func openOutput(fileName string) (*os.File, error) {
	if fileName == "" {
		return os.Stdout, nil
	}
	f, err := os.Create(fileName)
	if err != nil {
		return nil, fmt.Errorf("couldn't create output file: %w", err)
	}
	return f, nil
}

// readDocuments reads a sequence of concatenated top-level BSON documents
// from r, each self-delimited by its own length prefix (spec §3.2), until
// EOF at a document boundary.
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
