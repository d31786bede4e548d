// Command ds3rm unlinks a named entry from a directory.
package main

import (
	"os"

	"github.com/Dieg0raf/ufs/internal/cliutil"
)

func main() {
	if len(os.Args) != 4 {
		cliutil.Usage(os.Args[0], "diskImageFile parentInode entryName")
	}

	mounted, err := cliutil.OpenImage(os.Args[1])
	if err != nil {
		cliutil.Fail(err)
	}
	defer mounted.Close()

	parentInode, err := cliutil.ParseInodeNumber(os.Args[2])
	if err != nil {
		cliutil.Fail(err)
	}

	if err := mounted.FS.Unlink(parentInode, os.Args[3]); err != nil {
		cliutil.Fail(err)
	}
}
