package layout

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
)

// DirEntry pairs a NUL-terminated name with the inode number it refers to.
type DirEntry struct {
	Name [DirentNameSize]byte
	Inum uint32
}

// NewDirEntry builds a DirEntry from a Go string, validating that it fits in
// the fixed name field (including the terminating NUL) the way
// ufsfs.Create's name validation requires.
func NewDirEntry(name string, inum uint32) (DirEntry, error) {
	if len(name) == 0 {
		return DirEntry{}, fmt.Errorf("empty name")
	}
	if len(name) >= DirentNameSize {
		return DirEntry{}, fmt.Errorf("name %q too long: max %d bytes", name, DirentNameSize-1)
	}
	if strings.Contains(name, "/") {
		return DirEntry{}, fmt.Errorf("name %q contains '/'", name)
	}
	var entry DirEntry
	copy(entry.Name[:], name)
	entry.Inum = inum
	return entry, nil
}

// NameString returns the entry's name as a Go string, trimmed at the first
// NUL byte.
func (d *DirEntry) NameString() string {
	idx := bytes.IndexByte(d.Name[:], 0)
	if idx < 0 {
		idx = len(d.Name)
	}
	return string(d.Name[:idx])
}

// Encode packs the directory entry into the first DirentSize bytes of buf.
func (d *DirEntry) Encode(buf []byte) {
	if len(buf) < DirentSize {
		panic("layout: buffer too small to hold a directory entry")
	}
	copy(buf[:DirentNameSize], d.Name[:])
	binary.LittleEndian.PutUint32(buf[DirentNameSize:], d.Inum)
}

// DecodeDirEntry unpacks a directory entry from buf.
func DecodeDirEntry(buf []byte) DirEntry {
	if len(buf) < DirentSize {
		panic("layout: buffer too small to hold a directory entry")
	}
	var entry DirEntry
	copy(entry.Name[:], buf[:DirentNameSize])
	entry.Inum = binary.LittleEndian.Uint32(buf[DirentNameSize:])
	return entry
}

// EncodeDirEntries packs a slice of entries back-to-back into a new buffer.
func EncodeDirEntries(entries []DirEntry) []byte {
	buf := make([]byte, len(entries)*DirentSize)
	for i := range entries {
		entries[i].Encode(buf[i*DirentSize:])
	}
	return buf
}

// DecodeDirEntries unpacks as many whole entries as fit in buf.
func DecodeDirEntries(buf []byte) []DirEntry {
	count := len(buf) / DirentSize
	entries := make([]DirEntry, count)
	for i := 0; i < count; i++ {
		entries[i] = DecodeDirEntry(buf[i*DirentSize:])
	}
	return entries
}
