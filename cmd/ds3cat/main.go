// Command ds3cat dumps a regular file's direct block list and raw contents.
package main

import (
	"fmt"
	"os"

	"github.com/Dieg0raf/ufs/internal/cliutil"
	"github.com/Dieg0raf/ufs/layout"
)

func main() {
	if len(os.Args) != 3 {
		cliutil.Usage(os.Args[0], "diskImageFile inodeNumber")
	}

	mounted, err := cliutil.OpenImage(os.Args[1])
	if err != nil {
		cliutil.Fail(err)
	}
	defer mounted.Close()

	inum, err := cliutil.ParseInodeNumber(os.Args[2])
	if err != nil {
		cliutil.Fail(err)
	}

	stat, err := mounted.FS.Stat(inum)
	if err != nil {
		cliutil.Fail(err)
	}
	if stat.Type != layout.RegularFile {
		cliutil.Fail(fmt.Errorf("inode %d is not a regular file", inum))
	}

	data, err := mounted.FS.Read(inum, int(stat.Size))
	if err != nil {
		cliutil.Fail(err)
	}

	fmt.Println("File blocks")
	for i := 0; i < stat.BlocksInUse(); i++ {
		fmt.Println(stat.Direct[i])
	}
	fmt.Println()

	fmt.Println("File data")
	os.Stdout.Write(data)
}
