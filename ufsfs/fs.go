// Package ufsfs implements the file system core: the inode/directory
// operations the HTTP façade and admin CLIs are built on. Every exported
// method addresses objects purely by inode number; path resolution lives in
// the callers (ds3http and the cmd/ mains), one Lookup call per path
// component.
package ufsfs

import (
	"github.com/Dieg0raf/ufs/alloc"
	"github.com/Dieg0raf/ufs/blockdev"
	"github.com/Dieg0raf/ufs/layout"
	"github.com/Dieg0raf/ufs/ufserr"
)

// RootInode is the inode number of the top-level directory, fixed at format
// time.
const RootInode uint32 = 0

// FileSystem is a mounted image: a BlockDevice plus the super block read
// from it and the allocator built on top of both.
type FileSystem struct {
	device blockdev.BlockDevice
	super  layout.SuperBlock
	alloc  *alloc.Allocator
}

// New mounts an already-formatted image by reading its super block from
// block 0.
func New(device blockdev.BlockDevice) (*FileSystem, error) {
	buf := make([]byte, layout.BlockSize)
	if err := device.ReadBlock(0, buf); err != nil {
		return nil, err
	}
	super := layout.DecodeSuperBlock(buf)

	fs := &FileSystem{device: device, super: super}
	fs.alloc = alloc.New(device, &fs.super)
	return fs, nil
}

// SuperBlock returns a copy of the mounted image's super block, useful for
// admin tools that report capacity (ds3bits).
func (fs *FileSystem) SuperBlock() layout.SuperBlock {
	return fs.super
}

func (fs *FileSystem) readInode(n uint32) (layout.Inode, error) {
	blockOff, byteOff := layout.InodeBlockAndOffset(int(n))
	blockNum := fs.super.InodeRegionAddr + uint32(blockOff)
	buf := make([]byte, layout.BlockSize)
	if err := fs.device.ReadBlock(blockNum, buf); err != nil {
		return layout.Inode{}, err
	}
	return layout.DecodeInode(buf[byteOff:]), nil
}

func (fs *FileSystem) writeInode(n uint32, inode layout.Inode) error {
	blockOff, byteOff := layout.InodeBlockAndOffset(int(n))
	blockNum := fs.super.InodeRegionAddr + uint32(blockOff)
	buf := make([]byte, layout.BlockSize)
	if err := fs.device.ReadBlock(blockNum, buf); err != nil {
		return err
	}
	inode.Encode(buf[byteOff:])
	return fs.device.WriteBlock(blockNum, buf)
}

// InodeBitmap returns the raw inode-allocation bitmap bytes, for admin tools
// that need to report it directly.
func (fs *FileSystem) InodeBitmap() ([]byte, error) {
	return fs.alloc.InodeBitmapBytes()
}

// DataBitmap returns the raw data-allocation bitmap bytes, for admin tools
// that need to report it directly.
func (fs *FileSystem) DataBitmap() ([]byte, error) {
	return fs.alloc.DataBitmapBytes()
}

// Stat returns the inode record for inum. It only range-checks inum against
// the inode count; it does not consult the inode bitmap, so it will happily
// return a freed inode's stale on-disk contents.
func (fs *FileSystem) Stat(inum uint32) (layout.Inode, error) {
	if inum >= fs.super.NumInodes {
		return layout.Inode{}, ufserr.New(ufserr.StatusInvalidInode)
	}
	return fs.readInode(inum)
}

// DirEntryInfo pairs a directory entry's name and inode number with the
// type of the object it points at, saving callers a second Stat call when
// they need to know how to format a listing.
type DirEntryInfo struct {
	Name string
	Inum uint32
	Type layout.FileType
}

// ReadDir lists the directory at inum, including "." and "..".
func (fs *FileSystem) ReadDir(inum uint32) ([]DirEntryInfo, error) {
	dir, err := fs.Stat(inum)
	if err != nil {
		return nil, err
	}
	if dir.Type != layout.Directory {
		return nil, ufserr.New(ufserr.StatusInvalidInode)
	}

	entries, err := fs.readDirectory(dir)
	if err != nil {
		return nil, err
	}

	out := make([]DirEntryInfo, 0, len(entries))
	for _, entry := range entries {
		child, err := fs.readInode(entry.Inum)
		if err != nil {
			return nil, err
		}
		out = append(out, DirEntryInfo{Name: entry.NameString(), Inum: entry.Inum, Type: child.Type})
	}
	return out, nil
}

// Lookup resolves a single path component name inside the directory at
// parent, returning the child's inode number.
func (fs *FileSystem) Lookup(parent uint32, name string) (uint32, error) {
	dir, err := fs.Stat(parent)
	if err != nil {
		return 0, err
	}
	if dir.Type != layout.Directory {
		return 0, ufserr.New(ufserr.StatusInvalidInode)
	}
	if dir.Size < 2*layout.DirentSize {
		return 0, ufserr.New(ufserr.StatusInvalidInode)
	}

	entries, err := fs.readDirectory(dir)
	if err != nil {
		return 0, err
	}
	for _, entry := range entries {
		if entry.NameString() == name {
			return entry.Inum, nil
		}
	}
	return 0, ufserr.New(ufserr.StatusNotFound)
}

// Read returns min(size, inode.size) bytes from the start of the regular
// file at inum. A negative size is rejected with StatusInvalidSize; Read
// never returns a short read for any other reason, either the full
// min(size, inode.size) bytes come back or an error does.
func (fs *FileSystem) Read(inum uint32, size int) ([]byte, error) {
	if size < 0 {
		return nil, ufserr.New(ufserr.StatusInvalidSize)
	}

	inode, err := fs.Stat(inum)
	if err != nil {
		return nil, err
	}
	if inode.Type != layout.RegularFile {
		return nil, ufserr.New(ufserr.StatusInvalidType)
	}

	blocks := inode.BlocksInUse()
	buf := make([]byte, blocks*layout.BlockSize)
	for i := 0; i < blocks; i++ {
		start := i * layout.BlockSize
		if err := fs.device.ReadBlock(inode.Direct[i], buf[start:start+layout.BlockSize]); err != nil {
			return nil, err
		}
	}

	n := int(inode.Size)
	if size < n {
		n = size
	}
	return buf[:n], nil
}

// Write replaces the entire contents of the regular file at inum with data.
// len(data) must be strictly less than DirectPtrs*BlockSize; that much data
// could never fit regardless of free space, so it is rejected outright
// before any allocation is attempted. Within that limit, if the device runs
// out of free data blocks before all of data is placed, Write commits
// whatever prefix it managed to allocate space for and reports how many
// bytes that was; it never returns fewer bytes than actually persisted.
func (fs *FileSystem) Write(inum uint32, data []byte) (int, error) {
	inode, err := fs.Stat(inum)
	if err != nil {
		return 0, err
	}
	if inode.Type != layout.RegularFile {
		return 0, ufserr.New(ufserr.StatusInvalidType)
	}
	if len(data) >= layout.DirectPtrs*layout.BlockSize {
		return 0, ufserr.New(ufserr.StatusInvalidSize)
	}

	if err := fs.device.BeginTransaction(); err != nil {
		return 0, err
	}

	written, err := fs.writeData(&inode, data)
	if err != nil {
		fs.device.Rollback()
		return 0, err
	}
	if err := fs.writeInode(inum, inode); err != nil {
		fs.device.Rollback()
		return 0, err
	}
	if err := fs.device.Commit(); err != nil {
		return 0, err
	}
	return written, nil
}

// Create adds name to the directory at parent, pointing at a freshly
// allocated inode of type t. If name already exists and refers to an object
// of the same type, Create is a no-op and returns the existing inode number;
// if it exists with a different type, Create fails with StatusInvalidType.
func (fs *FileSystem) Create(parent uint32, name string, t layout.FileType) (uint32, error) {
	parentInode, err := fs.Stat(parent)
	if err != nil {
		return 0, err
	}
	if parentInode.Type != layout.Directory {
		return 0, ufserr.New(ufserr.StatusInvalidInode)
	}

	entries, err := fs.readDirectory(parentInode)
	if err != nil {
		return 0, err
	}
	for _, entry := range entries {
		if entry.NameString() != name {
			continue
		}
		existing, err := fs.readInode(entry.Inum)
		if err != nil {
			return 0, err
		}
		if existing.Type == t {
			return entry.Inum, nil
		}
		return 0, ufserr.New(ufserr.StatusInvalidType)
	}

	newEntry, err := layout.NewDirEntry(name, 0)
	if err != nil {
		return 0, ufserr.Newf(ufserr.StatusInvalidName, "%s", err)
	}

	if err := fs.device.BeginTransaction(); err != nil {
		return 0, err
	}

	childInum, err := fs.alloc.AllocateInode()
	if err != nil {
		fs.device.Rollback()
		return 0, err
	}

	child := layout.NewEmptyInode(t)
	if t == layout.Directory {
		selfEntry, _ := layout.NewDirEntry(".", childInum)
		parentEntry, _ := layout.NewDirEntry("..", parent)
		if err := fs.writeDirectory(&child, []layout.DirEntry{selfEntry, parentEntry}); err != nil {
			fs.device.Rollback()
			return 0, err
		}
	}
	if err := fs.writeInode(childInum, child); err != nil {
		fs.device.Rollback()
		return 0, err
	}

	newEntry.Inum = childInum
	entries = append(entries, newEntry)
	if err := fs.writeDirectory(&parentInode, entries); err != nil {
		fs.device.Rollback()
		return 0, err
	}
	if err := fs.writeInode(parent, parentInode); err != nil {
		fs.device.Rollback()
		return 0, err
	}

	if err := fs.device.Commit(); err != nil {
		return 0, err
	}
	return childInum, nil
}

// Unlink removes name from the directory at parent, freeing the target
// inode and its data blocks. Directories may only be unlinked if they
// contain nothing beyond "." and "..". The names "." and ".." themselves
// can never be unlinked.
func (fs *FileSystem) Unlink(parent uint32, name string) error {
	if name == "." || name == ".." {
		return ufserr.New(ufserr.StatusInvalidName)
	}

	parentInode, err := fs.Stat(parent)
	if err != nil {
		return err
	}
	if parentInode.Type != layout.Directory {
		return ufserr.New(ufserr.StatusInvalidInode)
	}

	entries, err := fs.readDirectory(parentInode)
	if err != nil {
		return err
	}

	idx := -1
	for i, entry := range entries {
		if entry.NameString() == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ufserr.New(ufserr.StatusNotFound)
	}
	if entries[idx].Inum == RootInode {
		return ufserr.New(ufserr.StatusUnlinkNotAllowed)
	}

	target, err := fs.readInode(entries[idx].Inum)
	if err != nil {
		return err
	}

	if target.Type == layout.Directory {
		children, err := fs.readDirectory(target)
		if err != nil {
			return err
		}
		for _, entry := range children {
			n := entry.NameString()
			if n != "." && n != ".." {
				return ufserr.New(ufserr.StatusDirNotEmpty)
			}
		}
	}

	if err := fs.device.BeginTransaction(); err != nil {
		return err
	}

	blocks := target.BlocksInUse()
	for i := 0; i < blocks; i++ {
		if err := fs.alloc.FreeDataBlock(target.Direct[i]); err != nil {
			fs.device.Rollback()
			return err
		}
	}
	if err := fs.alloc.FreeInode(entries[idx].Inum); err != nil {
		fs.device.Rollback()
		return err
	}

	entries = append(entries[:idx], entries[idx+1:]...)
	if err := fs.writeDirectory(&parentInode, entries); err != nil {
		fs.device.Rollback()
		return err
	}
	if err := fs.writeInode(parent, parentInode); err != nil {
		fs.device.Rollback()
		return err
	}

	return fs.device.Commit()
}
