// Command ds3mkfs creates and formats a fresh disk image.
package main

import (
	"os"
	"strconv"

	"github.com/Dieg0raf/ufs/blockdev"
	"github.com/Dieg0raf/ufs/internal/cliutil"
	"github.com/Dieg0raf/ufs/layout"
	"github.com/Dieg0raf/ufs/ufsfs"
)

func main() {
	if len(os.Args) != 4 {
		cliutil.Usage(os.Args[0], "diskImageFile inodeCount dataBlockCount")
	}

	numInodes, err := strconv.ParseUint(os.Args[2], 10, 32)
	if err != nil {
		cliutil.Fail(err)
	}
	numData, err := strconv.ParseUint(os.Args[3], 10, 32)
	if err != nil {
		cliutil.Fail(err)
	}

	bitsPerBlock := uint64(8 * layout.BlockSize)
	inodeBitmapLen := layout.CeilDiv(int(numInodes), int(bitsPerBlock))
	dataBitmapLen := layout.CeilDiv(int(numData), int(bitsPerBlock))
	inodeRegionLen := layout.CeilDiv(int(numInodes), layout.InodesPerBlock())
	totalBlocks := 1 + inodeBitmapLen + dataBitmapLen + inodeRegionLen + int(numData)

	dev, err := blockdev.CreateFile(os.Args[1], totalBlocks)
	if err != nil {
		cliutil.Fail(err)
	}
	defer dev.Close()

	opts := ufsfs.FormatOptions{NumInodes: uint32(numInodes), NumData: uint32(numData)}
	if err := ufsfs.Format(dev, opts); err != nil {
		cliutil.Fail(err)
	}
}
