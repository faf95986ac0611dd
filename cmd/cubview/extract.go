package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/cubview/internal/listing"
	"github.com/samcharles93/cubview/pkg/cub"
)

func extractCmd() *cli.Command {
	var (
		index    int
		typeName string
		outPath  string
		atomic   bool
	)

	return &cli.Command{
		Name:      "extract",
		Usage:     "Copy one block's raw bytes out of a cub file",
		ArgsUsage: "<file>",
		Flags: append(logFlags(),
			&cli.IntFlag{
				Name:        "index",
				Aliases:     []string{"i"},
				Usage:       "block index, as printed by 'cubview list'",
				Value:       -1,
				Destination: &index,
			},
			&cli.StringFlag{
				Name:        "type",
				Aliases:     []string{"t"},
				Usage:       "block type name or numeric value",
				Destination: &typeName,
			},
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "output path (defaults to stdout)",
				Destination: &outPath,
			},
			&cli.BoolFlag{
				Name:        "atomic",
				Usage:       "write to a temp file and rename into place on success",
				Destination: &atomic,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyLogConfig(cmd, LoadConfig())
			log := newLog()

			if cmd.Args().Len() != 1 {
				return cli.Exit("usage: cubview extract (--index N | --type NAME) <file>", 2)
			}
			if (index < 0) == (typeName == "") {
				return cli.Exit("exactly one of --index or --type is required", 2)
			}
			path := cmd.Args().First()

			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()

			extract := func(w io.Writer) error {
				if typeName != "" {
					typ, err := cub.ParseBlockType(typeName)
					if err != nil {
						return err
					}
					return cub.ExtractType(f, w, typ)
				}
				return cub.ExtractBlock(f, w, index)
			}

			if outPath == "" {
				if err := extract(os.Stdout); err != nil {
					return fmt.Errorf("%s: %s", path, listing.ErrorName(err))
				}
				return nil
			}

			if atomic {
				err = extractAtomic(outPath, extract)
			} else {
				err = extractTo(outPath, extract)
			}
			if err != nil {
				return fmt.Errorf("%s: %s", path, listing.ErrorName(err))
			}
			log.Info("block extracted", "file", path, "out", outPath)
			return nil
		},
	}
}

// extractTo streams the block straight into path. On failure a partial
// file is left behind, matching the non-transactional extract contract.
func extractTo(path string, extract func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := extract(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// extractAtomic writes to a uniquely named temp file next to path and
// renames it into place only after a fully successful copy, so the
// destination never holds a truncated block.
func extractAtomic(path string, extract func(io.Writer) error) error {
	tmp := filepath.Join(filepath.Dir(path),
		"."+filepath.Base(path)+"."+uuid.NewString()+".tmp")

	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := extract(f); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
