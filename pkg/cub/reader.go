package cub

import (
	"encoding/binary"
	"fmt"
	"io"
)

// fileInfo carries everything header validation learns, including the TOC
// offset that is not part of the public summary.
type fileInfo struct {
	order     ByteOrder
	needsSwap bool
	count     int
	tocOffset uint32
}

// checkFile seeks to the start of r, validates the magic and byte-order
// mark and decodes the six-word header block. It never touches the TOC.
func checkFile(r io.ReadSeeker) (fileInfo, error) {
	var info fileInfo

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return info, err
	}

	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			// Too short to even hold a signature: not a cub file.
			return info, ErrInvalidFile
		}
		return info, err
	}
	if string(magic[:]) != MagicCube {
		return info, ErrInvalidFile
	}

	var words [headerWords * 4]byte
	if _, err := io.ReadFull(r, words[:]); err != nil {
		return info, fmt.Errorf("read header: %w", err)
	}

	// The mark is all-ones or all-zeros, so it reads the same in either
	// order. Validate it before normalizing the rest of the header.
	mark := binary.NativeEndian.Uint32(words[0:4])
	order, ok := orderForMark(mark)
	if !ok {
		return info, ErrCorruptFile
	}

	info.order = order
	info.needsSwap = mark != nativeMark()
	if info.needsSwap {
		swapFields(words[:], 4)
	}

	// words[1], words[4] and words[5] are reserved; they are swapped with
	// the block for cursor consistency but carry no contract.
	info.count = int(binary.NativeEndian.Uint32(words[8:12]))
	info.tocOffset = binary.NativeEndian.Uint32(words[12:16])
	return info, nil
}

// Check validates the cub header of r and reports whether multi-byte
// fields need swapping and how many TOC entries the file declares. It is
// cheap: only the 28-byte header is read.
func Check(r io.ReadSeeker) (Summary, error) {
	info, err := checkFile(r)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		Order:      info.order,
		NeedsSwap:  info.needsSwap,
		EntryCount: info.count,
	}, nil
}

// ReadTOC decodes the table of contents of r. capacity is the number of
// entries the caller is prepared to receive; if it is smaller than the
// file's entry count, ReadTOC fails with ErrOverflow before any TOC bytes
// are read. A capacity exactly equal to the entry count is accepted.
//
// Entries are returned in on-disk order; the slice index is the block
// index used by ExtractBlock.
func ReadTOC(r io.ReadSeeker, capacity int) ([]Block, error) {
	info, err := checkFile(r)
	if err != nil {
		return nil, err
	}
	if capacity < info.count {
		return nil, ErrOverflow
	}
	return readTOC(r, info)
}

func readTOC(r io.ReadSeeker, info fileInfo) ([]Block, error) {
	if _, err := r.Seek(int64(info.tocOffset), io.SeekStart); err != nil {
		return nil, err
	}

	blocks := make([]Block, info.count)
	var raw [entrySize]byte
	for i := range blocks {
		if _, err := io.ReadFull(r, raw[:]); err != nil {
			return nil, fmt.Errorf("read toc entry %d: %w", i, err)
		}
		if info.needsSwap {
			swapFields(raw[:], 4)
		}
		blocks[i] = Block{
			Type:   BlockType(binary.NativeEndian.Uint32(raw[0:4])),
			Offset: binary.NativeEndian.Uint32(raw[4:8]),
			Length: binary.NativeEndian.Uint32(raw[8:12]),
		}
	}
	return blocks, nil
}
