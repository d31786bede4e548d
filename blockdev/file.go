package blockdev

import (
	"fmt"
	"os"

	"github.com/Dieg0raf/ufs/layout"
)

// FileBlockDevice is a BlockDevice backed by a real disk image file on the
// host file system. This is what the admin CLIs and ds3serve use against
// real .img files.
type FileBlockDevice struct {
	*core
	file *os.File
}

// OpenFile opens an existing disk image. The image's size must be an exact
// multiple of layout.BlockSize; there is no magic number or version field to
// validate beyond that.
func OpenFile(path string) (*FileBlockDevice, error) {
	file, err := os.OpenFile(path, os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open image %q: %w", path, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("stat image %q: %w", path, err)
	}
	if info.Size()%layout.BlockSize != 0 {
		file.Close()
		return nil, fmt.Errorf(
			"image %q size %d is not a multiple of block size %d",
			path, info.Size(), layout.BlockSize,
		)
	}

	totalBlocks := int(info.Size() / layout.BlockSize)
	return &FileBlockDevice{
		core: newCore(file, layout.BlockSize, totalBlocks),
		file: file,
	}, nil
}

// CreateFile creates a brand-new disk image of the given capacity, filled
// with zero bytes, ready to be formatted by ufsfs.Format.
func CreateFile(path string, totalBlocks int) (*FileBlockDevice, error) {
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create image %q: %w", path, err)
	}

	size := int64(totalBlocks) * layout.BlockSize
	if err := file.Truncate(size); err != nil {
		file.Close()
		return nil, fmt.Errorf("allocate image %q: %w", path, err)
	}

	return &FileBlockDevice{
		core: newCore(file, layout.BlockSize, totalBlocks),
		file: file,
	}, nil
}

// Close releases the underlying file handle. It must not be called while a
// transaction is open.
func (d *FileBlockDevice) Close() error {
	return d.file.Close()
}
