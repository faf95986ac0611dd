package cub

import (
	"fmt"
	"io"
)

// copyBufSize bounds the transient buffer used when copying block
// payloads, so arbitrarily large blocks never force a large allocation.
const copyBufSize = 32 * 1024

// ExtractBlock copies the payload of the TOC entry at index to w.
// It fails with ErrCorruptFile on an empty TOC and with ErrNotFound when
// index is out of range or the entry has zero length.
//
// Extraction is not transactional: on an I/O failure mid-copy, w may
// already hold a truncated payload. Callers that need atomicity should
// write to a temporary sink and promote it after success.
func ExtractBlock(r io.ReadSeeker, w io.Writer, index int) error {
	blocks, err := fullTOC(r)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(blocks) || blocks[index].Length == 0 {
		return ErrNotFound
	}
	return copyRange(r, w, blocks[index].Offset, blocks[index].Length)
}

// ExtractType copies the payload of the first TOC entry whose type equals
// t to w. When several blocks share a type only the first is reachable
// here; use ExtractBlock with an index from ReadTOC for the rest. The
// same ErrCorruptFile/ErrNotFound and non-transactional-sink rules as
// ExtractBlock apply.
func ExtractType(r io.ReadSeeker, w io.Writer, t BlockType) error {
	blocks, err := fullTOC(r)
	if err != nil {
		return err
	}
	for i := range blocks {
		if blocks[i].Type == t {
			if blocks[i].Length == 0 {
				return ErrNotFound
			}
			return copyRange(r, w, blocks[i].Offset, blocks[i].Length)
		}
	}
	return ErrNotFound
}

// fullTOC decodes the complete TOC with exactly the capacity the file
// declares, rejecting empty containers.
func fullTOC(r io.ReadSeeker) ([]Block, error) {
	info, err := checkFile(r)
	if err != nil {
		return nil, err
	}
	if info.count == 0 {
		return nil, ErrCorruptFile
	}
	return readTOC(r, info)
}

func copyRange(r io.ReadSeeker, w io.Writer, offset, length uint32) error {
	if _, err := r.Seek(int64(offset), io.SeekStart); err != nil {
		return err
	}

	buf := make([]byte, copyBufSize)
	remaining := int64(length)
	for remaining > 0 {
		n := int64(len(buf))
		if remaining < n {
			n = remaining
		}
		if _, err := io.ReadFull(r, buf[:n]); err != nil {
			return fmt.Errorf("read block payload: %w", err)
		}
		if _, err := w.Write(buf[:n]); err != nil {
			return fmt.Errorf("write block payload: %w", err)
		}
		remaining -= n
	}
	return nil
}
