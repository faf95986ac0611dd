package cub

import "errors"

var (
	// ErrInvalidFile means the magic signature did not match: the file is
	// not a cub container at all.
	ErrInvalidFile = errors.New("cub: not a cub file")

	// ErrCorruptFile means the file looks like a cub container but is
	// internally inconsistent.
	ErrCorruptFile = errors.New("cub: corrupt cub file")

	// ErrOverflow means a caller-supplied capacity cannot hold the table
	// of contents. It is raised before any TOC bytes are read.
	ErrOverflow = errors.New("cub: capacity too small for table of contents")

	// ErrNotFound means a requested index or type does not resolve to a
	// present, non-empty block.
	ErrNotFound = errors.New("cub: block not found")
)
