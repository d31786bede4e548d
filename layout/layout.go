// Package layout defines the packed on-disk byte layout of the UFS file
// system — the super block, inode, and directory entry structs — along with
// the codecs that translate them to and from raw block bytes. Nothing in
// this package touches a BlockDevice; it only knows how to pack and unpack
// []byte.
package layout

// BlockSize is the fixed size of a single block, in bytes. It is a
// compile-time constant by design: the on-disk format has no field recording
// it, so every tool built against this module must agree on it.
const BlockSize = 4096

// DirectPtrs is the number of direct block pointers carried by a single
// inode (spec calls this K). There are no indirect blocks, so this is also
// the maximum number of blocks a file or directory can occupy.
const DirectPtrs = 30

// SentinelBlock is the reserved "no block assigned" value for a slot in
// Inode.Direct. It must never be treated as a real block number.
const SentinelBlock uint32 = 0xFFFFFFFF

// DirentNameSize is the size, in bytes, of the fixed name field in a
// directory entry, including its terminating NUL. Names must be shorter
// than this.
const DirentNameSize = 28

// DirentSize is the total packed size of a directory entry: the name field
// plus a 4-byte inode number.
const DirentSize = DirentNameSize + 4

// FileType distinguishes regular files from directories. There is no third
// kind: no symlinks, no devices.
type FileType uint32

const (
	RegularFile FileType = 0
	Directory   FileType = 1
)

func (t FileType) String() string {
	switch t {
	case RegularFile:
		return "file"
	case Directory:
		return "directory"
	default:
		return "unknown"
	}
}

// CeilDiv returns ceil(a / b) for non-negative a and positive b.
func CeilDiv(a, b int) int {
	return (a + b - 1) / b
}
