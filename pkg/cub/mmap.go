package cub

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// MappedFile is a whole-file view of a cub container for read-heavy
// consumers. Block payloads are served as zero-copy slices of the
// underlying mapping, so repeated lookups avoid the per-call header and
// TOC decode of the streaming API.
type MappedFile struct {
	data    []byte
	summary Summary
	blocks  []Block
	mmapped bool
}

// OpenMapped maps path read-only and validates its structure. If mmap is
// unavailable, it falls back to ReadAt-based loading. The returned file
// must be closed to release any mapping.
func OpenMapped(path string) (*MappedFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}

	size64 := stat.Size()
	if size64 < 0 || size64 > int64(int(^uint(0)>>1)) {
		// cannot index this file safely as []byte on this architecture.
		return nil, ErrCorruptFile
	}
	size := int(size64)

	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err == nil {
		mf, parseErr := parseMapped(data, true)
		if parseErr != nil {
			_ = unix.Munmap(data)
			return nil, parseErr
		}
		return mf, nil
	}

	// Fallback path that does not require mmap support.
	data, err = readAllAt(f, size)
	if err != nil {
		return nil, err
	}
	return parseMapped(data, false)
}

// OpenReaderAt loads and validates a cub container from a random-access
// reader without mmap.
func OpenReaderAt(r io.ReaderAt, size int64) (*MappedFile, error) {
	if size < 0 || size > int64(int(^uint(0)>>1)) {
		return nil, ErrCorruptFile
	}
	data, err := readAllAt(r, int(size))
	if err != nil {
		return nil, err
	}
	return parseMapped(data, false)
}

func readAllAt(r io.ReaderAt, size int) ([]byte, error) {
	if size == 0 {
		return []byte{}, nil
	}
	out := make([]byte, size)
	var off int64
	for off < int64(size) {
		n, err := r.ReadAt(out[off:], off)
		off += int64(n)
		if err == nil {
			continue
		}
		if err == io.EOF && off == int64(size) {
			break
		}
		return nil, err
	}
	return out, nil
}

func parseMapped(data []byte, mmapped bool) (*MappedFile, error) {
	r := bytes.NewReader(data)

	info, err := checkFile(r)
	if err != nil {
		return nil, err
	}
	blocks, err := readTOC(r, info)
	if err != nil {
		// The whole file is in memory, so a short TOC read means the
		// file is truncated relative to its declared entry count.
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: truncated table of contents", ErrCorruptFile)
		}
		return nil, err
	}

	for i := range blocks {
		end := uint64(blocks[i].Offset) + uint64(blocks[i].Length)
		if end > uint64(len(data)) {
			return nil, fmt.Errorf("%w: block %d out of bounds", ErrCorruptFile, i)
		}
	}

	return &MappedFile{
		data: data,
		summary: Summary{
			Order:      info.order,
			NeedsSwap:  info.needsSwap,
			EntryCount: info.count,
		},
		blocks:  blocks,
		mmapped: mmapped,
	}, nil
}

// Summary returns the header summary decoded at open time.
func (f *MappedFile) Summary() Summary {
	return f.summary
}

// Blocks returns the decoded TOC in on-disk order. The caller must not
// modify the returned slice.
func (f *MappedFile) Blocks() []Block {
	return f.blocks
}

// Block returns the TOC entry at index, or nil if index is out of range.
func (f *MappedFile) Block(index int) *Block {
	if index < 0 || index >= len(f.blocks) {
		return nil
	}
	return &f.blocks[index]
}

// BlockByType returns the first TOC entry of the given type, or nil if no
// block has that type.
func (f *MappedFile) BlockByType(t BlockType) *Block {
	for i := range f.blocks {
		if f.blocks[i].Type == t {
			return &f.blocks[i]
		}
	}
	return nil
}

// BlockData returns a zero-copy slice covering the block payload.
// The caller must not retain the slice after Close.
func (f *MappedFile) BlockData(b *Block) []byte {
	if f == nil || b == nil || f.data == nil {
		return nil
	}
	start := uint64(b.Offset)
	end := start + uint64(b.Length)
	if end > uint64(len(f.data)) {
		return nil
	}
	return f.data[int(start):int(end)]
}

// Close releases file resources and any mmap backing.
func (f *MappedFile) Close() error {
	if f == nil {
		return nil
	}
	var err error
	if f.data != nil && f.mmapped {
		err = unix.Munmap(f.data)
	}
	f.data = nil
	f.blocks = nil
	f.mmapped = false
	return err
}
