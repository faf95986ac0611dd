// Package listing renders cub tables of contents for humans and machines.
package listing

import (
	"errors"
	"fmt"
	"io"

	json "github.com/goccy/go-json"

	"github.com/samcharles93/cubview/pkg/cub"
)

// ErrorName returns the fixed display name the cub tooling has always
// used for format errors. I/O errors keep their own message.
func ErrorName(err error) string {
	switch {
	case err == nil:
		return "OKAY"
	case errors.Is(err, cub.ErrInvalidFile):
		return "INVALID FILE"
	case errors.Is(err, cub.ErrCorruptFile):
		return "CORRUPT FILE"
	case errors.Is(err, cub.ErrOverflow):
		return "OVERFLOW"
	case errors.Is(err, cub.ErrNotFound):
		return "NOT FOUND"
	default:
		return err.Error()
	}
}

// Write prints the table of contents of r as an aligned table. On a
// decode failure it prints the fixed error name and returns the error so
// callers can set an exit status.
func Write(r io.ReadSeeker, w io.Writer) error {
	sum, err := cub.Check(r)
	if err != nil {
		fmt.Fprintln(w, ErrorName(err))
		return err
	}
	if sum.EntryCount == 0 {
		fmt.Fprintln(w, "Table of contents is empty")
		return nil
	}

	blocks, err := cub.ReadTOC(r, sum.EntryCount)
	if err != nil {
		fmt.Fprintln(w, ErrorName(err))
		return err
	}

	fmt.Fprintln(w, "Idx  Type Name  Type      Offset      Length")
	fmt.Fprintln(w, "---  ---------  ----  ----------  ----------")
	for i, b := range blocks {
		fmt.Fprintf(w, "%3d  %9s  %4d  %10d  %10d\n",
			i, b.Type, uint32(b.Type), b.Offset, b.Length)
	}
	return nil
}

// TOC is the machine-readable form of a cub table of contents.
type TOC struct {
	ByteOrder  string      `json:"byte_order"`
	NeedsSwap  bool        `json:"needs_swap"`
	EntryCount int         `json:"entry_count"`
	Blocks     []BlockInfo `json:"blocks"`
}

type BlockInfo struct {
	Index    int    `json:"index"`
	TypeName string `json:"type_name"`
	Type     uint32 `json:"type"`
	Offset   uint32 `json:"offset"`
	Length   uint32 `json:"length"`
}

// Describe decodes the header and TOC of r into a TOC document.
func Describe(r io.ReadSeeker) (*TOC, error) {
	sum, err := cub.Check(r)
	if err != nil {
		return nil, err
	}
	blocks, err := cub.ReadTOC(r, sum.EntryCount)
	if err != nil {
		return nil, err
	}

	toc := &TOC{
		ByteOrder:  sum.Order.String(),
		NeedsSwap:  sum.NeedsSwap,
		EntryCount: sum.EntryCount,
		Blocks:     make([]BlockInfo, len(blocks)),
	}
	for i, b := range blocks {
		toc.Blocks[i] = BlockInfo{
			Index:    i,
			TypeName: b.Type.String(),
			Type:     uint32(b.Type),
			Offset:   b.Offset,
			Length:   b.Length,
		}
	}
	return toc, nil
}

// WriteJSON prints the table of contents of r as an indented JSON
// document.
func WriteJSON(r io.ReadSeeker, w io.Writer) error {
	toc, err := Describe(r)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(toc)
}
