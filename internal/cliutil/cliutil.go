// Package cliutil holds the handful of things every admin CLI repeats:
// opening a disk image, mounting it, and reporting a single "Error ..."
// line to stderr before exiting 1.
package cliutil

import (
	"fmt"
	"os"
	"strconv"

	"github.com/Dieg0raf/ufs/blockdev"
	"github.com/Dieg0raf/ufs/ufsfs"
)

// Mounted bundles an open device with the file system mounted on top of it,
// so callers have one thing to Close.
type Mounted struct {
	FS     *ufsfs.FileSystem
	device *blockdev.FileBlockDevice
}

// Close releases the underlying image file.
func (m *Mounted) Close() error {
	return m.device.Close()
}

// OpenImage opens an existing disk image file and mounts it.
func OpenImage(path string) (*Mounted, error) {
	dev, err := blockdev.OpenFile(path)
	if err != nil {
		return nil, err
	}
	fs, err := ufsfs.New(dev)
	if err != nil {
		dev.Close()
		return nil, err
	}
	return &Mounted{FS: fs, device: dev}, nil
}

// Usage prints a one-line usage banner naming prog (conventionally
// os.Args[0]) to stderr and exits with status 1.
func Usage(prog, argsDescription string) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", prog, argsDescription)
	os.Exit(1)
}

// Fail reports a single error line to stderr and exits with status 1.
func Fail(err error) {
	fmt.Fprintf(os.Stderr, "Error %s\n", err)
	os.Exit(1)
}

// ParseInodeNumber parses a command-line argument as a non-negative inode
// number.
func ParseInodeNumber(s string) (uint32, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid inode number %q", s)
	}
	return uint32(n), nil
}
