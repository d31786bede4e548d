// Package alloc implements first-fit allocation and deallocation over the
// inode and data bitmaps, generalizing the bitmap-scan algorithm
// drivers/common/allocatormap.go uses in-memory to bitmaps that are
// read-through/write-through from a BlockDevice: there is no in-memory
// cache layer beyond a single transaction's scratch.
package alloc

import (
	"github.com/Dieg0raf/ufs/blockdev"
	"github.com/Dieg0raf/ufs/layout"
	"github.com/Dieg0raf/ufs/ufserr"
)

// Allocator manages the inode and data bitmaps of a single mounted image. It
// holds no allocation state of its own between calls: every operation reads
// the canonical bitmap bytes from the device, mutates them, and writes them
// straight back.
type Allocator struct {
	device blockdev.BlockDevice
	super  *layout.SuperBlock
}

// New creates an Allocator bound to device and super. The caller owns
// super's lifetime; the allocator only reads its region addresses/lengths
// and counts.
func New(device blockdev.BlockDevice, super *layout.SuperBlock) *Allocator {
	return &Allocator{device: device, super: super}
}

func readRegion(device blockdev.BlockDevice, addr, lenBlocks uint32) ([]byte, error) {
	buf := make([]byte, int(lenBlocks)*layout.BlockSize)
	for i := uint32(0); i < lenBlocks; i++ {
		start := i * layout.BlockSize
		if err := device.ReadBlock(addr+i, buf[start:start+layout.BlockSize]); err != nil {
			return nil, err
		}
	}
	return buf, nil
}

func writeRegion(device blockdev.BlockDevice, addr uint32, buf []byte) error {
	lenBlocks := len(buf) / layout.BlockSize
	for i := 0; i < lenBlocks; i++ {
		start := i * layout.BlockSize
		if err := device.WriteBlock(addr+uint32(i), buf[start:start+layout.BlockSize]); err != nil {
			return err
		}
	}
	return nil
}

func (a *Allocator) readInodeBitmap() ([]byte, layout.Bitmap, error) {
	raw, err := readRegion(a.device, a.super.InodeBitmapAddr, a.super.InodeBitmapLen)
	if err != nil {
		return nil, layout.Bitmap{}, err
	}
	return raw, layout.WrapBitmap(raw, int(a.super.NumInodes)), nil
}

func (a *Allocator) readDataBitmap() ([]byte, layout.Bitmap, error) {
	raw, err := readRegion(a.device, a.super.DataBitmapAddr, a.super.DataBitmapLen)
	if err != nil {
		return nil, layout.Bitmap{}, err
	}
	return raw, layout.WrapBitmap(raw, int(a.super.NumData)), nil
}

// InodeBitmapBytes returns the raw inode bitmap, truncated to just the bytes
// needed to cover NumInodes bits.
func (a *Allocator) InodeBitmapBytes() ([]byte, error) {
	raw, _, err := a.readInodeBitmap()
	if err != nil {
		return nil, err
	}
	n := layout.CeilDiv(int(a.super.NumInodes), 8)
	return raw[:n], nil
}

// DataBitmapBytes returns the raw data bitmap, truncated to just the bytes
// needed to cover NumData bits.
func (a *Allocator) DataBitmapBytes() ([]byte, error) {
	raw, _, err := a.readDataBitmap()
	if err != nil {
		return nil, err
	}
	n := layout.CeilDiv(int(a.super.NumData), 8)
	return raw[:n], nil
}

// AllocateInode finds the lowest-index free inode slot, marks it in use, and
// returns its index.
func (a *Allocator) AllocateInode() (uint32, error) {
	raw, bm, err := a.readInodeBitmap()
	if err != nil {
		return 0, err
	}

	idx := bm.FirstFit(int(a.super.NumInodes))
	if idx < 0 {
		return 0, ufserr.New(ufserr.StatusOutOfSpace)
	}

	bm.SetBit(idx, true)
	if err := writeRegion(a.device, a.super.InodeBitmapAddr, raw); err != nil {
		return 0, err
	}
	return uint32(idx), nil
}

// FreeInode clears inode i's bit in the inode bitmap.
func (a *Allocator) FreeInode(i uint32) error {
	if i >= a.super.NumInodes {
		return ufserr.Newf(ufserr.StatusInvalidInode, "inode %d out of range", i)
	}

	raw, bm, err := a.readInodeBitmap()
	if err != nil {
		return err
	}
	bm.SetBit(int(i), false)
	return writeRegion(a.device, a.super.InodeBitmapAddr, raw)
}

// AllocateDataBlock finds the lowest-index free data slot, marks it in use,
// zeroes its contents, and returns its absolute block number (already
// offset by DataRegionAddr).
func (a *Allocator) AllocateDataBlock() (uint32, error) {
	raw, bm, err := a.readDataBitmap()
	if err != nil {
		return 0, err
	}

	idx := bm.FirstFit(int(a.super.NumData))
	if idx < 0 {
		return 0, ufserr.New(ufserr.StatusOutOfSpace)
	}

	bm.SetBit(idx, true)
	if err := writeRegion(a.device, a.super.DataBitmapAddr, raw); err != nil {
		return 0, err
	}

	absolute := a.super.DataRegionAddr + uint32(idx)
	if err := blockdev.ZeroBlock(a.device, absolute); err != nil {
		return 0, err
	}
	return absolute, nil
}

// FreeDataBlock clears the bit for the data block at absolute block number
// block, persists the bitmap, and zeroes the freed block.
func (a *Allocator) FreeDataBlock(block uint32) error {
	if block < a.super.DataRegionAddr {
		return ufserr.Newf(ufserr.StatusBadRequest, "invalid block %d", block)
	}
	idx := block - a.super.DataRegionAddr
	if idx >= a.super.NumData {
		return ufserr.Newf(ufserr.StatusBadRequest, "invalid block %d", block)
	}

	raw, bm, err := a.readDataBitmap()
	if err != nil {
		return err
	}
	bm.SetBit(int(idx), false)
	if err := writeRegion(a.device, a.super.DataBitmapAddr, raw); err != nil {
		return err
	}

	return blockdev.ZeroBlock(a.device, block)
}
