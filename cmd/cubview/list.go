package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/cubview/internal/listing"
)

func listCmd() *cli.Command {
	var asJSON bool

	return &cli.Command{
		Name:      "list",
		Usage:     "Print the table of contents of one or more cub files",
		ArgsUsage: "<file>...",
		Flags: append(logFlags(),
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "emit JSON instead of a table",
				Destination: &asJSON,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyLogConfig(cmd, LoadConfig())

			args := cmd.Args().Slice()
			if len(args) == 0 {
				return cli.Exit("usage: cubview list [--json] <file>...", 2)
			}

			// An unreadable or malformed file is reported but never aborts
			// the rest of the batch.
			var failed bool
			for _, path := range args {
				fmt.Printf("%s :\n", path)
				f, err := os.Open(path)
				if err != nil {
					fmt.Fprintln(os.Stderr, err)
					failed = true
					continue
				}
				if asJSON {
					err = listing.WriteJSON(f, os.Stdout)
					if err != nil {
						fmt.Fprintln(os.Stderr, listing.ErrorName(err))
					}
				} else {
					err = listing.Write(f, os.Stdout)
				}
				_ = f.Close()
				if err != nil {
					failed = true
				}
			}
			if failed {
				return cli.Exit("", 1)
			}
			return nil
		},
	}
}
