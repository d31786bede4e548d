// Command ds3touch creates a regular file in an existing directory.
package main

import (
	"os"

	"github.com/Dieg0raf/ufs/internal/cliutil"
	"github.com/Dieg0raf/ufs/layout"
)

func main() {
	if len(os.Args) != 4 {
		cliutil.Usage(os.Args[0], "diskImageFile parentInode fileName")
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

	if _, err := mounted.FS.Create(parentInode, os.Args[3], layout.RegularFile); err != nil {
		cliutil.Fail(err)
	}
}
