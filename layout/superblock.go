package layout

import "encoding/binary"

// superBlockFieldCount is the number of uint32 fields packed into the super
// block. It lives at block 0 and is read-only once an image has been
// formatted.
const superBlockFieldCount = 10

// SuperBlockSize is the packed size, in bytes, of SuperBlock. It is far
// smaller than BlockSize; the remainder of block 0 is unused padding.
const SuperBlockSize = superBlockFieldCount * 4

// SuperBlock describes the fixed regions of an image: where the inode and
// data bitmaps live, where the inode table and data region live, and how
// many inodes/data blocks the image was formatted with.
type SuperBlock struct {
	InodeBitmapAddr uint32
	InodeBitmapLen  uint32
	DataBitmapAddr  uint32
	DataBitmapLen   uint32
	InodeRegionAddr uint32
	InodeRegionLen  uint32
	DataRegionAddr  uint32
	DataRegionLen   uint32
	NumInodes       uint32
	NumData         uint32
}

// Encode packs the super block into the first SuperBlockSize bytes of a
// BlockSize-sized buffer. The caller must pass a buffer of exactly
// BlockSize bytes; the remainder is left untouched (callers should zero it
// first if they want a clean block).
func (s *SuperBlock) Encode(buf []byte) {
	if len(buf) < SuperBlockSize {
		panic("layout: buffer too small to hold a super block")
	}
	fields := []uint32{
		s.InodeBitmapAddr, s.InodeBitmapLen,
		s.DataBitmapAddr, s.DataBitmapLen,
		s.InodeRegionAddr, s.InodeRegionLen,
		s.DataRegionAddr, s.DataRegionLen,
		s.NumInodes, s.NumData,
	}
	for i, v := range fields {
		binary.LittleEndian.PutUint32(buf[i*4:], v)
	}
}

// DecodeSuperBlock unpacks a super block from a raw block buffer.
func DecodeSuperBlock(buf []byte) SuperBlock {
	if len(buf) < SuperBlockSize {
		panic("layout: buffer too small to hold a super block")
	}
	read := func(i int) uint32 { return binary.LittleEndian.Uint32(buf[i*4:]) }
	return SuperBlock{
		InodeBitmapAddr: read(0),
		InodeBitmapLen:  read(1),
		DataBitmapAddr:  read(2),
		DataBitmapLen:   read(3),
		InodeRegionAddr: read(4),
		InodeRegionLen:  read(5),
		DataRegionAddr:  read(6),
		DataRegionLen:   read(7),
		NumInodes:       read(8),
		NumData:         read(9),
	}
}

// InodesPerBlock returns how many packed inodes fit in a single block.
func InodesPerBlock() int {
	return BlockSize / InodeSize
}

// InodeBlockAndOffset returns the block index (relative to InodeRegionAddr)
// and the byte offset within that block at which inode n's packed bytes
// begin.
func InodeBlockAndOffset(n int) (block, offset int) {
	perBlock := InodesPerBlock()
	return n / perBlock, (n % perBlock) * InodeSize
}
