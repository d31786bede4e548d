package ufsfs

import (
	"github.com/Dieg0raf/ufs/layout"
	"github.com/Dieg0raf/ufs/ufserr"
)

// readDirectory decodes a directory inode's data blocks into its entries.
func (fs *FileSystem) readDirectory(dir layout.Inode) ([]layout.DirEntry, error) {
	blocks := dir.BlocksInUse()
	buf := make([]byte, blocks*layout.BlockSize)
	for i := 0; i < blocks; i++ {
		start := i * layout.BlockSize
		if err := fs.device.ReadBlock(dir.Direct[i], buf[start:start+layout.BlockSize]); err != nil {
			return nil, err
		}
	}
	return layout.DecodeDirEntries(buf[:dir.Size]), nil
}

// writeDirectory encodes entries and replaces dir's data via writeData, the
// same engine a regular file's Write goes through. Unlike a file write, a
// short write is an error: it fails with StatusOutOfSpace if not every entry
// could be placed.
func (fs *FileSystem) writeDirectory(dir *layout.Inode, entries []layout.DirEntry) error {
	raw := layout.EncodeDirEntries(entries)
	n, err := fs.writeData(dir, raw)
	if err != nil {
		return err
	}
	if n < len(raw) {
		return ufserr.New(ufserr.StatusOutOfSpace)
	}
	return nil
}

// writeData replaces an inode's entire block-backed content with data,
// allocating or freeing direct blocks as needed. It must run inside an
// already-open transaction; callers are responsible for Commit/Rollback.
//
// If the device cannot supply enough free blocks for the whole of data, or
// data would need more blocks than an inode's direct pointers can hold,
// writeData stops allocating at the first failure and writes whatever
// prefix of data it was able to place, updating Size to match exactly what
// was written. It never errors out of a short write; it only errors if an
// already-allocated block can't be read or written.
func (fs *FileSystem) writeData(inode *layout.Inode, data []byte) (int, error) {
	oldBlocks := inode.BlocksInUse()

	wantBlocks := layout.CeilDiv(len(data), layout.BlockSize)
	if wantBlocks > layout.DirectPtrs {
		wantBlocks = layout.DirectPtrs
	}

	haveBlocks := oldBlocks
	if haveBlocks > wantBlocks {
		haveBlocks = wantBlocks
	}
	for haveBlocks < wantBlocks {
		block, err := fs.alloc.AllocateDataBlock()
		if err != nil {
			break
		}
		inode.Direct[haveBlocks] = block
		haveBlocks++
	}

	for i := haveBlocks; i < oldBlocks; i++ {
		if err := fs.alloc.FreeDataBlock(inode.Direct[i]); err != nil {
			return 0, err
		}
		inode.Direct[i] = layout.SentinelBlock
	}

	written := haveBlocks * layout.BlockSize
	if written > len(data) {
		written = len(data)
	}

	buf := make([]byte, layout.BlockSize)
	for i := 0; i < haveBlocks; i++ {
		for j := range buf {
			buf[j] = 0
		}
		start := i * layout.BlockSize
		if start < len(data) {
			end := start + layout.BlockSize
			if end > len(data) {
				end = len(data)
			}
			copy(buf, data[start:end])
		}
		if err := fs.device.WriteBlock(inode.Direct[i], buf); err != nil {
			return 0, err
		}
	}

	inode.Size = uint32(written)
	return written, nil
}
