package layout_test

import (
	"testing"

	"github.com/Dieg0raf/ufs/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuperBlockRoundTrip(t *testing.T) {
	sb := layout.SuperBlock{
		InodeBitmapAddr: 1,
		InodeBitmapLen:  1,
		DataBitmapAddr:  2,
		DataBitmapLen:   1,
		InodeRegionAddr: 3,
		InodeRegionLen:  4,
		DataRegionAddr:  7,
		DataRegionLen:   100,
		NumInodes:       128,
		NumData:         800,
	}

	buf := make([]byte, layout.BlockSize)
	sb.Encode(buf)

	decoded := layout.DecodeSuperBlock(buf)
	assert.Equal(t, sb, decoded)
}

func TestInodeRoundTrip(t *testing.T) {
	inode := layout.NewEmptyInode(layout.RegularFile)
	inode.Size = 9000
	inode.Direct[0] = 42
	inode.Direct[1] = 43

	buf := make([]byte, layout.InodeSize)
	inode.Encode(buf)

	decoded := layout.DecodeInode(buf)
	assert.Equal(t, inode, decoded)
	assert.Equal(t, layout.CeilDiv(9000, layout.BlockSize), decoded.BlocksInUse())
}

func TestInodeSentinelSlotsSurviveRoundTrip(t *testing.T) {
	inode := layout.NewEmptyInode(layout.Directory)
	buf := make([]byte, layout.InodeSize)
	inode.Encode(buf)
	decoded := layout.DecodeInode(buf)
	for _, block := range decoded.Direct {
		assert.Equal(t, layout.SentinelBlock, block)
	}
}

func TestInodesPerBlockAndAddressing(t *testing.T) {
	perBlock := layout.InodesPerBlock()
	require.Greater(t, perBlock, 0)

	block, offset := layout.InodeBlockAndOffset(perBlock + 2)
	assert.Equal(t, 1, block)
	assert.Equal(t, 2*layout.InodeSize, offset)
}

func TestDirEntryRoundTrip(t *testing.T) {
	entry, err := layout.NewDirEntry("hello.txt", 7)
	require.NoError(t, err)

	buf := make([]byte, layout.DirentSize)
	entry.Encode(buf)

	decoded := layout.DecodeDirEntry(buf)
	assert.Equal(t, "hello.txt", decoded.NameString())
	assert.EqualValues(t, 7, decoded.Inum)
}

func TestDirEntryNameLengthBoundary(t *testing.T) {
	ok27 := "abcdefghijklmnopqrstuvwxyz1" // 27 bytes
	require.Len(t, ok27, 27)
	_, err := layout.NewDirEntry(ok27, 1)
	assert.NoError(t, err)

	bad28 := "abcdefghijklmnopqrstuvwxyz12" // 28 bytes
	require.Len(t, bad28, 28)
	_, err = layout.NewDirEntry(bad28, 1)
	assert.Error(t, err)
}

func TestDirEntriesRoundTrip(t *testing.T) {
	a, _ := layout.NewDirEntry(".", 0)
	b, _ := layout.NewDirEntry("..", 0)
	buf := layout.EncodeDirEntries([]layout.DirEntry{a, b})
	assert.Len(t, buf, 2*layout.DirentSize)

	entries := layout.DecodeDirEntries(buf)
	require.Len(t, entries, 2)
	assert.Equal(t, ".", entries[0].NameString())
	assert.Equal(t, "..", entries[1].NameString())
}

func TestBitmapFirstFitSkipsFullBytes(t *testing.T) {
	raw := make([]byte, 4)
	raw[0] = 0xFF // first 8 bits all in use
	bm := layout.WrapBitmap(raw, 32)

	idx := bm.FirstFit(32)
	assert.Equal(t, 8, idx)
}

func TestBitmapFirstFitRespectsLimit(t *testing.T) {
	raw := make([]byte, 1)
	bm := layout.WrapBitmap(raw, 8)

	idx := bm.FirstFit(3)
	assert.Equal(t, 0, idx)

	bm.SetBit(0, true)
	bm.SetBit(1, true)
	bm.SetBit(2, true)
	assert.Equal(t, -1, bm.FirstFit(3))
}
