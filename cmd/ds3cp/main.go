// Command ds3cp copies a host file's contents into an existing inode.
package main

import (
	"os"

	"github.com/Dieg0raf/ufs/internal/cliutil"
)

func main() {
	if len(os.Args) != 4 {
		cliutil.Usage(os.Args[0], "diskImageFile srcHostFile dstInode")
	}

	mounted, err := cliutil.OpenImage(os.Args[1])
	if err != nil {
		cliutil.Fail(err)
	}
	defer mounted.Close()

	dstInode, err := cliutil.ParseInodeNumber(os.Args[3])
	if err != nil {
		cliutil.Fail(err)
	}

	data, err := os.ReadFile(os.Args[2])
	if err != nil {
		cliutil.Fail(err)
	}

	if _, err := mounted.FS.Write(dstInode, data); err != nil {
		cliutil.Fail(err)
	}
}
