// Package blockdev provides concrete block device implementations: a
// fixed-size block read/write contract plus a transactional wrapper that
// snapshots every block written since BeginTransaction and can restore them
// all on Rollback.
//
// Nested transactions are not supported.
package blockdev

import (
	"fmt"
	"io"

	"github.com/Dieg0raf/ufs/layout"
	multierror "github.com/hashicorp/go-multierror"
)

// BlockDevice is the contract the file system core consumes. Every mutating
// FS operation opens exactly one transaction, performs its writes, and
// either commits or rolls back before returning.
type BlockDevice interface {
	BlockSize() int
	TotalBlocks() int
	ReadBlock(n uint32, buf []byte) error
	WriteBlock(n uint32, buf []byte) error
	BeginTransaction() error
	Commit() error
	Rollback() error
}

// core implements BlockDevice on top of any io.ReadWriteSeeker. Both
// FileBlockDevice and MemBlockDevice embed it; they differ only in how the
// underlying stream is created and torn down.
//
// Dirty tracking during a transaction mirrors the loaded/dirty bitmap
// bookkeeping in drivers/common/blockcache.BlockCache, except here the
// "cache" is the snapshot of pre-transaction bytes rather than the blocks
// themselves.
type core struct {
	stream      io.ReadWriteSeeker
	blockSize   int
	totalBlocks int

	txnActive bool
	snapshots map[uint32][]byte
}

func newCore(stream io.ReadWriteSeeker, blockSize, totalBlocks int) *core {
	return &core{
		stream:      stream,
		blockSize:   blockSize,
		totalBlocks: totalBlocks,
	}
}

func (c *core) BlockSize() int   { return c.blockSize }
func (c *core) TotalBlocks() int { return c.totalBlocks }

func (c *core) checkBounds(n uint32) error {
	if int(n) >= c.totalBlocks {
		return fmt.Errorf("block %d not in [0, %d)", n, c.totalBlocks)
	}
	return nil
}

func (c *core) seekToBlock(n uint32) error {
	_, err := c.stream.Seek(int64(n)*int64(c.blockSize), io.SeekStart)
	return err
}

// ReadBlock fills buf (which must be at least BlockSize bytes) with the
// contents of block n.
func (c *core) ReadBlock(n uint32, buf []byte) error {
	if err := c.checkBounds(n); err != nil {
		return err
	}
	if len(buf) < c.blockSize {
		return fmt.Errorf("buffer too small: need %d bytes, got %d", c.blockSize, len(buf))
	}
	if err := c.seekToBlock(n); err != nil {
		return err
	}
	_, err := io.ReadFull(c.stream, buf[:c.blockSize])
	return err
}

// WriteBlock overwrites block n with buf[:BlockSize]. If a transaction is
// open and this is the first write to n since BeginTransaction, the
// pre-write contents of n are snapshotted first so Rollback can restore
// them.
func (c *core) WriteBlock(n uint32, buf []byte) error {
	if err := c.checkBounds(n); err != nil {
		return err
	}
	if len(buf) < c.blockSize {
		return fmt.Errorf("buffer too small: need %d bytes, got %d", c.blockSize, len(buf))
	}

	if c.txnActive {
		if _, seen := c.snapshots[n]; !seen {
			original := make([]byte, c.blockSize)
			if err := c.ReadBlock(n, original); err != nil {
				return err
			}
			c.snapshots[n] = original
		}
	}

	if err := c.seekToBlock(n); err != nil {
		return err
	}
	_, err := c.stream.Write(buf[:c.blockSize])
	return err
}

// BeginTransaction opens a new transaction. It fails if one is already open.
func (c *core) BeginTransaction() error {
	if c.txnActive {
		return fmt.Errorf("transaction already in progress")
	}
	c.txnActive = true
	c.snapshots = make(map[uint32][]byte)
	return nil
}

// Commit closes the current transaction, discarding the snapshot. All
// writes made during the transaction remain in place.
func (c *core) Commit() error {
	if !c.txnActive {
		return fmt.Errorf("no transaction in progress")
	}
	c.txnActive = false
	c.snapshots = nil
	return nil
}

// Rollback restores every block written since BeginTransaction to its
// pre-transaction contents. Failures restoring individual blocks are
// aggregated with go-multierror so the caller learns about all of them, not
// just the first.
func (c *core) Rollback() error {
	if !c.txnActive {
		return fmt.Errorf("no transaction in progress")
	}

	var result *multierror.Error
	for blockNum, original := range c.snapshots {
		if err := c.seekToBlock(blockNum); err != nil {
			result = multierror.Append(result, fmt.Errorf("block %d: %w", blockNum, err))
			continue
		}
		if _, err := c.stream.Write(original); err != nil {
			result = multierror.Append(result, fmt.Errorf("block %d: %w", blockNum, err))
		}
	}

	c.txnActive = false
	c.snapshots = nil
	return result.ErrorOrNil()
}

// ZeroBlock writes a block of all-zero bytes, the way Allocator is required
// to zero a data block immediately after allocating or freeing it.
func ZeroBlock(device BlockDevice, n uint32) error {
	buf := make([]byte, layout.BlockSize)
	return device.WriteBlock(n, buf)
}
