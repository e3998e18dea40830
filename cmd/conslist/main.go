// Conslist converts persistent lists between YAML and their binary encoding,
// and keeps versioned snapshots of them in a bbolt database.
package main

import (
	"os"

	"github.com/elves/conslist/pkg/listtool"
	"github.com/elves/conslist/pkg/prog"
)

func main() {
	os.Exit(prog.Run(
		[3]*os.File{os.Stdin, os.Stdout, os.Stderr}, os.Args, listtool.Program))
}
