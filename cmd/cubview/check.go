package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/cubview/internal/listing"
	"github.com/samcharles93/cubview/pkg/cub"
)

func checkCmd() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Validate a cub file header and print its summary",
		ArgsUsage: "<file>",
		Flags:     logFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyLogConfig(cmd, LoadConfig())

			if cmd.Args().Len() != 1 {
				return cli.Exit("usage: cubview check <file>", 2)
			}
			path := cmd.Args().First()

			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()

			sum, err := cub.Check(f)
			if err != nil {
				return fmt.Errorf("%s: %s", path, listing.ErrorName(err))
			}
			fmt.Printf("%s: %d blocks, %s, swap=%v\n",
				path, sum.EntryCount, sum.Order, sum.NeedsSwap)
			return nil
		},
	}
}
