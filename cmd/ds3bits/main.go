// Command ds3bits dumps a disk image's super block fields and bitmaps.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Dieg0raf/ufs/internal/cliutil"
)

func printBitmap(label string, bitmap []byte) {
	fmt.Println(label)
	parts := make([]string, len(bitmap))
	for i, b := range bitmap {
		parts[i] = strconv.Itoa(int(b))
	}
	fmt.Println(strings.Join(parts, " "))
}

func main() {
	if len(os.Args) != 2 {
		cliutil.Usage(os.Args[0], "diskImageFile")
	}

	mounted, err := cliutil.OpenImage(os.Args[1])
	if err != nil {
		cliutil.Fail(err)
	}
	defer mounted.Close()

	super := mounted.FS.SuperBlock()
	fmt.Printf("inode_bitmap_addr %d\n", super.InodeBitmapAddr)
	fmt.Printf("inode_bitmap_len %d\n", super.InodeBitmapLen)
	fmt.Printf("data_bitmap_addr %d\n", super.DataBitmapAddr)
	fmt.Printf("data_bitmap_len %d\n", super.DataBitmapLen)
	fmt.Printf("inode_region_addr %d\n", super.InodeRegionAddr)
	fmt.Printf("inode_region_len %d\n", super.InodeRegionLen)
	fmt.Printf("data_region_addr %d\n", super.DataRegionAddr)
	fmt.Printf("data_region_len %d\n", super.DataRegionLen)
	fmt.Printf("num_inodes %d\n", super.NumInodes)
	fmt.Printf("num_data %d\n", super.NumData)

	inodeBitmap, err := mounted.FS.InodeBitmap()
	if err != nil {
		cliutil.Fail(err)
	}
	printBitmap("Inode bitmap", inodeBitmap)

	dataBitmap, err := mounted.FS.DataBitmap()
	if err != nil {
		cliutil.Fail(err)
	}
	printBitmap("Data bitmap", dataBitmap)
}
