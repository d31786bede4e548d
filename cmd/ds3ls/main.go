// Command ds3ls lists a directory or a single file by absolute path.
package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/Dieg0raf/ufs/internal/cliutil"
	"github.com/Dieg0raf/ufs/layout"
	"github.com/Dieg0raf/ufs/ufsfs"
)

func resolvePath(fs *ufsfs.FileSystem, path string) (uint32, string, error) {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return ufsfs.RootInode, ".", nil
	}

	parts := strings.Split(trimmed, "/")
	cur := ufsfs.RootInode
	for _, name := range parts {
		next, err := fs.Lookup(cur, name)
		if err != nil {
			return 0, "", err
		}
		cur = next
	}
	return cur, parts[len(parts)-1], nil
}

func main() {
	if len(os.Args) != 3 {
		cliutil.Usage(os.Args[0], "diskImageFile directory")
	}

	mounted, err := cliutil.OpenImage(os.Args[1])
	if err != nil {
		cliutil.Fail(err)
	}
	defer mounted.Close()

	inum, name, err := resolvePath(mounted.FS, os.Args[2])
	if err != nil {
		cliutil.Fail(err)
	}

	stat, err := mounted.FS.Stat(inum)
	if err != nil {
		cliutil.Fail(err)
	}

	if stat.Type != layout.Directory {
		fmt.Printf("%d\t%s\n", inum, name)
		return
	}

	entries, err := mounted.FS.ReadDir(inum)
	if err != nil {
		cliutil.Fail(err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	for _, entry := range entries {
		fmt.Printf("%d\t%s\n", entry.Inum, entry.Name)
	}
}
