package blockdev_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/Dieg0raf/ufs/blockdev"
	"github.com/Dieg0raf/ufs/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemBlockDeviceReadWriteRoundTrip(t *testing.T) {
	dev := blockdev.NewMemBlockDevice(4)

	payload := bytes.Repeat([]byte{0xAB}, layout.BlockSize)
	require.NoError(t, dev.WriteBlock(2, payload))

	out := make([]byte, layout.BlockSize)
	require.NoError(t, dev.ReadBlock(2, out))
	assert.Equal(t, payload, out)
}

func TestMemBlockDeviceOutOfBounds(t *testing.T) {
	dev := blockdev.NewMemBlockDevice(2)
	buf := make([]byte, layout.BlockSize)
	assert.Error(t, dev.ReadBlock(2, buf))
	assert.Error(t, dev.WriteBlock(5, buf))
}

func TestTransactionCommitKeepsWrites(t *testing.T) {
	dev := blockdev.NewMemBlockDevice(2)
	require.NoError(t, dev.BeginTransaction())

	payload := bytes.Repeat([]byte{0x11}, layout.BlockSize)
	require.NoError(t, dev.WriteBlock(0, payload))
	require.NoError(t, dev.Commit())

	out := make([]byte, layout.BlockSize)
	require.NoError(t, dev.ReadBlock(0, out))
	assert.Equal(t, payload, out)
}

func TestTransactionRollbackRestoresOriginal(t *testing.T) {
	dev := blockdev.NewMemBlockDevice(2)

	original := bytes.Repeat([]byte{0x22}, layout.BlockSize)
	require.NoError(t, dev.WriteBlock(1, original))

	require.NoError(t, dev.BeginTransaction())
	changed := bytes.Repeat([]byte{0x33}, layout.BlockSize)
	require.NoError(t, dev.WriteBlock(1, changed))
	require.NoError(t, dev.Rollback())

	out := make([]byte, layout.BlockSize)
	require.NoError(t, dev.ReadBlock(1, out))
	assert.Equal(t, original, out)
}

func TestTransactionRollbackOnlyRestoresTouchedBlocks(t *testing.T) {
	dev := blockdev.NewMemBlockDevice(3)
	untouched := bytes.Repeat([]byte{0x44}, layout.BlockSize)
	require.NoError(t, dev.WriteBlock(2, untouched))

	require.NoError(t, dev.BeginTransaction())
	require.NoError(t, dev.WriteBlock(0, bytes.Repeat([]byte{0x55}, layout.BlockSize)))
	require.NoError(t, dev.Rollback())

	out := make([]byte, layout.BlockSize)
	require.NoError(t, dev.ReadBlock(2, out))
	assert.Equal(t, untouched, out)
}

func TestNestedTransactionsRejected(t *testing.T) {
	dev := blockdev.NewMemBlockDevice(1)
	require.NoError(t, dev.BeginTransaction())
	assert.Error(t, dev.BeginTransaction())
	require.NoError(t, dev.Commit())
}

func TestFileBlockDeviceCreateAndReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "image.img")

	dev, err := blockdev.CreateFile(path, 4)
	require.NoError(t, err)

	payload := bytes.Repeat([]byte{0x99}, layout.BlockSize)
	require.NoError(t, dev.WriteBlock(1, payload))
	require.NoError(t, dev.Close())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.EqualValues(t, 4*layout.BlockSize, info.Size())

	reopened, err := blockdev.OpenFile(path)
	require.NoError(t, err)
	defer reopened.Close()

	out := make([]byte, layout.BlockSize)
	require.NoError(t, reopened.ReadBlock(1, out))
	assert.Equal(t, payload, out)
}

func TestOpenFileRejectsMisalignedSize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.img")
	require.NoError(t, os.WriteFile(path, make([]byte, layout.BlockSize+1), 0o644))

	_, err := blockdev.OpenFile(path)
	assert.Error(t, err)
}
