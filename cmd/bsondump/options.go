package main

import (
	"fmt"

	flags "github.com/jessevdk/go-flags"
)

// usage mirrors the teacher's bsondump usage banner, adapted to this
// module's supported output types.
const usage = `<options> <file>

View and debug .bson files.

Reads BSON documents from a file (or stdin) and writes each one to stdout,
either as Extended JSON (canonical or relaxed) or as a human-readable debug
tree.`

// outputOptions is the go-flags option struct for cmd/bsondump, adapted
// from bsondump/options.go's OutputOptions.
type outputOptions struct {
	// Type selects the rendering: "json" (relaxed extended JSON, the
	// teacher's default), "canonical", "relaxed", or "debug".
	Type string `long:"type" value-name:"<type>" default:"json" description:"type of output: debug, json, canonical, relaxed"`

	BSONFileName string `long:"bsonFile" description:"path to BSON file to dump; default is stdin"`
	OutFileName  string `long:"outFile" description:"path to output file; default is stdout"`

	Verbose []bool `short:"v" long:"verbose" description:"increase logging verbosity (may be repeated, e.g. -vv)"`
}

func (o *outputOptions) verbosity() int { return len(o.Verbose) }

func (o *outputOptions) validate() error {
	switch o.Type {
	case "json", "canonical", "relaxed", "debug":
		return nil
	default:
		return fmt.Errorf("unsupported output type %q: must be one of debug, json, canonical, relaxed", o.Type)
	}
}

// parseOptions parses rawArgs (normally os.Args[1:]), returning the parsed
// options and any positional arguments (at most one: the input file).
func parseOptions(rawArgs []string) (*outputOptions, []string, error) {
	opts := &outputOptions{}
	parser := flags.NewParser(opts, flags.Default)
	parser.Usage = usage

	positional, err := parser.ParseArgs(rawArgs)
	if err != nil {
		return nil, nil, err
	}
	if len(positional) > 1 {
		return nil, nil, fmt.Errorf("too many positional arguments: %v", positional)
	}
	if len(positional) == 1 {
		if opts.BSONFileName != "" {
			return nil, nil, fmt.Errorf("cannot specify both a positional argument and --bsonFile")
		}
		opts.BSONFileName = positional[0]
	}
	if err := opts.validate(); err != nil {
		return nil, nil, err
	}
	return opts, positional, nil
}
