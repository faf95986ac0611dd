// Package cub implements read-only access to CUBIT .cub mesh containers.
//
// A cub file is a fixed header followed by a table of contents describing
// typed, opaque byte ranges. The package validates the header, normalizes
// byte order, decodes the TOC and copies individual block payloads out.
// It never interprets payload bytes.
package cub

import (
	"fmt"
	"strconv"
	"strings"
)

// Cub wire constants. The values come from the CUBIT sources and must
// never change.
const (
	// MagicCube is the four-byte signature at the start of every cub file.
	MagicCube = "CUBE"

	// Byte-order marks stored in the header word following the magic.
	MarkBigEndian    uint32 = 0xFFFFFFFF
	MarkLittleEndian uint32 = 0x00000000
)

const (
	headerWords = 6
	headerSize  = 4 + headerWords*4
	entrySize   = 12 // u32 type, u32 offset, u32 length
)

// BlockType tags the kind of data a block holds. On-disk values outside
// the known range are preserved verbatim; only display logic folds them
// into the unknown label.
type BlockType uint32

const (
	TypeUnknown  BlockType = 0
	TypeACIS     BlockType = 1
	TypeMesh     BlockType = 2
	TypeFacet    BlockType = 3
	TypeFreeMesh BlockType = 4
	TypeGranite  BlockType = 5
	TypeAssembly BlockType = 6
)

func (t BlockType) String() string {
	switch t {
	case TypeACIS:
		return "ACIS"
	case TypeMesh:
		return "MESH"
	case TypeFacet:
		return "FACET"
	case TypeFreeMesh:
		return "FREE MESH"
	case TypeGranite:
		return "GRANITE"
	case TypeAssembly:
		return "ASSEMBLY"
	default:
		return "?"
	}
}

// ParseBlockType resolves a block type from its display name or its raw
// numeric value. Names are matched case-insensitively and may use either
// spaces or underscores ("FREE MESH", "free_mesh").
func ParseBlockType(s string) (BlockType, error) {
	switch strings.ToUpper(strings.ReplaceAll(s, "_", " ")) {
	case "ACIS":
		return TypeACIS, nil
	case "MESH":
		return TypeMesh, nil
	case "FACET":
		return TypeFacet, nil
	case "FREE MESH":
		return TypeFreeMesh, nil
	case "GRANITE":
		return TypeGranite, nil
	case "ASSEMBLY":
		return TypeAssembly, nil
	}
	if v, err := strconv.ParseUint(s, 10, 32); err == nil {
		return BlockType(v), nil
	}
	return 0, fmt.Errorf("unknown block type %q", s)
}

// Block describes one TOC entry: a contiguous byte range in the file.
// Offset is absolute from the start of the file.
type Block struct {
	Type   BlockType
	Offset uint32
	Length uint32
}

// Summary is the cheap result of validating a cub header without touching
// the table of contents.
type Summary struct {
	Order      ByteOrder
	NeedsSwap  bool
	EntryCount int
}
