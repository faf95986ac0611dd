package cub

import "encoding/binary"

// ByteOrder identifies the byte order a cub file was written with.
type ByteOrder int

const (
	LittleEndian ByteOrder = iota
	BigEndian
)

func (o ByteOrder) String() string {
	if o == BigEndian {
		return "big-endian"
	}
	return "little-endian"
}

// orderForMark maps the header byte-order mark to its order. Any other
// mark value means the file is corrupt.
func orderForMark(mark uint32) (ByteOrder, bool) {
	switch mark {
	case MarkLittleEndian:
		return LittleEndian, true
	case MarkBigEndian:
		return BigEndian, true
	}
	return 0, false
}

// nativeMark returns the mark a file written in this machine's byte order
// would carry.
func nativeMark() uint32 {
	var probe [4]byte
	binary.NativeEndian.PutUint32(probe[:], 1)
	if probe[0] == 1 {
		return MarkLittleEndian
	}
	return MarkBigEndian
}

// swapFields reverses the bytes of each width-sized field in buf while
// leaving the fields' relative order untouched. len(buf) must be a
// multiple of width. Applying it twice restores the original bytes.
func swapFields(buf []byte, width int) {
	for base := 0; base+width <= len(buf); base += width {
		for i, j := base, base+width-1; i < j; i, j = i+1, j-1 {
			buf[i], buf[j] = buf[j], buf[i]
		}
	}
}
