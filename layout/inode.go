package layout

import "encoding/binary"

// InodeSize is the packed size, in bytes, of a single Inode: a 4-byte type
// tag, a 4-byte size, and DirectPtrs 4-byte block pointers.
const InodeSize = 4 + 4 + DirectPtrs*4

// Inode is the fixed-size on-disk metadata record for a file or directory.
// Direct holds absolute data-region block numbers; unused slots carry
// SentinelBlock.
type Inode struct {
	Type   FileType
	Size   uint32
	Direct [DirectPtrs]uint32
}

// NewEmptyInode returns an Inode with every direct pointer set to the
// unallocated sentinel, ready to be populated by create() or writeData().
func NewEmptyInode(t FileType) Inode {
	inode := Inode{Type: t}
	for i := range inode.Direct {
		inode.Direct[i] = SentinelBlock
	}
	return inode
}

// Encode packs the inode into the first InodeSize bytes of buf.
func (n *Inode) Encode(buf []byte) {
	if len(buf) < InodeSize {
		panic("layout: buffer too small to hold an inode")
	}
	binary.LittleEndian.PutUint32(buf[0:], uint32(n.Type))
	binary.LittleEndian.PutUint32(buf[4:], n.Size)
	for i, block := range n.Direct {
		binary.LittleEndian.PutUint32(buf[8+i*4:], block)
	}
}

// DecodeInode unpacks an inode from buf.
func DecodeInode(buf []byte) Inode {
	if len(buf) < InodeSize {
		panic("layout: buffer too small to hold an inode")
	}
	inode := Inode{
		Type: FileType(binary.LittleEndian.Uint32(buf[0:])),
		Size: binary.LittleEndian.Uint32(buf[4:]),
	}
	for i := range inode.Direct {
		inode.Direct[i] = binary.LittleEndian.Uint32(buf[8+i*4:])
	}
	return inode
}

// BlocksInUse returns ceil(Size / BlockSize), the number of direct pointers
// that should be non-sentinel for this inode's current size.
func (n *Inode) BlocksInUse() int {
	return CeilDiv(int(n.Size), BlockSize)
}
