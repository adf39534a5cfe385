// Command bsonid is a small companion to cmd/bsondump: it mints new
// ObjectIDs and runs ad hoc BSON files through a bson -> ejson -> bson
// round-trip check, the way the BSON Corpus acceptance tests validate a
// codec against itself.
package main

import (
	"fmt"
	"os"

	"github.com/mitchellh/go-wordwrap"
	"github.com/urfave/cli/v2"

	"github.com/corbindb/bsondoc/bson"
)

func main() {
	app := &cli.App{
		Name:  "bsonid",
		Usage: "generate ObjectIDs and validate BSON files with a round-trip check",
		Commands: []*cli.Command{
			newCommand(),
			checkCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, wordwrap.WrapString(err.Error(), 80))
		os.Exit(1)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "new",
		Usage: "print a freshly generated ObjectID",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "count", Aliases: []string{"n"}, Value: 1, Usage: "number of ids to print"},
		},
		Action: func(c *cli.Context) error {
			n := c.Int("count")
			if n < 1 {
				return fmt.Errorf("count must be at least 1")
			}
			for i := 0; i < n; i++ {
				fmt.Println(bson.NewObjectID().Hex())
			}
			return nil
		},
	}
}

func checkCommand() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "round-trip every document in a .bson file through canonical extended JSON",
		ArgsUsage: "<file>",
		Action: func(c *cli.Context) error {
			if c.Args().Len() != 1 {
				return fmt.Errorf("check requires exactly one .bson file argument")
			}
			path := c.Args().First()

			results, err := checkFile(path)
			if err != nil {
				return err
			}

			failures := 0
			for _, r := range results {
				if r.OK {
					continue
				}
				failures++
				fmt.Fprintf(os.Stderr, "document %d: FAIL: %s\n", r.Index, r.Detail)
			}

			fmt.Printf("%d document(s) checked, %d failed\n", len(results), failures)
			if failures > 0 {
				return fmt.Errorf("%d of %d documents failed the round-trip check", failures, len(results))
			}
			return nil
		},
	}
}
