package ufsfs

import (
	"fmt"

	"github.com/Dieg0raf/ufs/alloc"
	"github.com/Dieg0raf/ufs/blockdev"
	"github.com/Dieg0raf/ufs/layout"
	"github.com/Dieg0raf/ufs/ufserr"
	multierror "github.com/hashicorp/go-multierror"
)

// FormatOptions sizes a fresh image's inode and data regions.
type FormatOptions struct {
	NumInodes uint32
	NumData   uint32
}

// validate checks opts and the device's capacity against the layout opts
// implies, aggregating every problem found with go-multierror so a caller
// fixing up a mkfs invocation sees all of them at once instead of fixing one
// and re-running into the next.
func validate(device blockdev.BlockDevice, opts FormatOptions, super layout.SuperBlock) error {
	var result *multierror.Error
	if opts.NumInodes == 0 {
		result = multierror.Append(result, fmt.Errorf("inode count must be positive"))
	}
	if opts.NumData == 0 {
		result = multierror.Append(result, fmt.Errorf("data block count must be positive"))
	}
	needed := int(super.DataRegionAddr + super.DataRegionLen)
	if device.TotalBlocks() < needed {
		result = multierror.Append(result, fmt.Errorf(
			"image has %d blocks, layout needs at least %d", device.TotalBlocks(), needed))
	}
	if err := result.ErrorOrNil(); err != nil {
		return ufserr.Newf(ufserr.StatusBadRequest, "%s", err)
	}
	return nil
}

// Format lays out the super block, bitmaps, and inode region on a freshly
// created (or reused) device, then creates the root directory at inode 0
// with "." and ".." both pointing at itself. device must already have
// enough blocks to hold the computed layout; ds3mkfs is responsible for
// sizing the underlying image before calling Format.
func Format(device blockdev.BlockDevice, opts FormatOptions) error {
	bitsPerBlock := 8 * layout.BlockSize
	inodeBitmapLen := uint32(layout.CeilDiv(int(opts.NumInodes), bitsPerBlock))
	dataBitmapLen := uint32(layout.CeilDiv(int(opts.NumData), bitsPerBlock))
	inodeRegionLen := uint32(layout.CeilDiv(int(opts.NumInodes), layout.InodesPerBlock()))

	super := layout.SuperBlock{
		InodeBitmapAddr: 1,
		InodeBitmapLen:  inodeBitmapLen,
		DataBitmapAddr:  1 + inodeBitmapLen,
		DataBitmapLen:   dataBitmapLen,
		InodeRegionAddr: 1 + inodeBitmapLen + dataBitmapLen,
		InodeRegionLen:  inodeRegionLen,
		DataRegionAddr:  1 + inodeBitmapLen + dataBitmapLen + inodeRegionLen,
		DataRegionLen:   opts.NumData,
		NumInodes:       opts.NumInodes,
		NumData:         opts.NumData,
	}

	if err := validate(device, opts, super); err != nil {
		return err
	}

	for i := uint32(0); i < super.DataRegionAddr; i++ {
		if err := blockdev.ZeroBlock(device, i); err != nil {
			return err
		}
	}

	buf := make([]byte, layout.BlockSize)
	super.Encode(buf)
	if err := device.WriteBlock(0, buf); err != nil {
		return err
	}

	fs := &FileSystem{device: device, super: super}
	fs.alloc = alloc.New(device, &fs.super)

	rootInum, err := fs.alloc.AllocateInode()
	if err != nil {
		return err
	}
	if rootInum != RootInode {
		return ufserr.Newf(ufserr.StatusInternalError, "expected root inode %d, got %d", RootInode, rootInum)
	}

	root := layout.NewEmptyInode(layout.Directory)
	selfEntry, _ := layout.NewDirEntry(".", RootInode)
	parentEntry, _ := layout.NewDirEntry("..", RootInode)
	if err := fs.writeDirectory(&root, []layout.DirEntry{selfEntry, parentEntry}); err != nil {
		return err
	}
	return fs.writeInode(RootInode, root)
}
