package blockdev

import (
	"github.com/Dieg0raf/ufs/layout"
	"github.com/xaionaro-go/bytesextra"
)

// MemBlockDevice is an in-memory BlockDevice, used by the package test
// suites (blockdev, alloc, ufsfs, ds3http) so they don't need temp files on
// disk. The
// backing store is a plain byte slice wrapped as an io.ReadWriteSeeker via
// bytesextra, the same pattern dargueta/disko's own testing helpers use.
type MemBlockDevice struct {
	*core
	data []byte
}

// NewMemBlockDevice creates a zero-filled in-memory device with the given
// capacity.
func NewMemBlockDevice(totalBlocks int) *MemBlockDevice {
	data := make([]byte, totalBlocks*layout.BlockSize)
	stream := bytesextra.NewReadWriteSeeker(data)
	return &MemBlockDevice{
		core: newCore(stream, layout.BlockSize, totalBlocks),
		data: data,
	}
}

// NewMemBlockDeviceFromBytes wraps an existing byte slice (its length must
// be an exact multiple of layout.BlockSize) as an in-memory device, useful
// for seeding a test with a pre-built image.
func NewMemBlockDeviceFromBytes(data []byte) *MemBlockDevice {
	totalBlocks := len(data) / layout.BlockSize
	stream := bytesextra.NewReadWriteSeeker(data)
	return &MemBlockDevice{
		core: newCore(stream, layout.BlockSize, totalBlocks),
		data: data,
	}
}

// Bytes returns the device's current backing storage. Callers must not
// retain it across further writes if they want a stable snapshot; take a
// copy first.
func (d *MemBlockDevice) Bytes() []byte {
	return d.data
}
