package listtool

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"os"

	"github.com/elves/conslist/pkg/errutil"
	"github.com/elves/conslist/pkg/persistent/conslist"
	"github.com/elves/conslist/pkg/prog"
	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"
)

var errTerminal = errors.New("refusing to write binary data to a terminal; use -out or -force")

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func readInput(stdin *os.File, f *prog.Flags) ([]byte, error) {
	if f.In == "" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(f.In)
}

// writeOutput calls write with a buffered writer for the output of a command,
// which is the file named by -out or stdout. Output that is binary is not
// written to a terminal unless -force is given. If write fails, the partial
// output file is removed.
func writeOutput(stdout *os.File, f *prog.Flags, binary bool, write func(io.Writer) error) error {
	if f.Out == "" {
		if binary && !f.Force && isTerminal(stdout) {
			return errTerminal
		}
		bw := bufio.NewWriter(stdout)
		return errutil.Multi(write(bw), bw.Flush())
	}

	file, err := os.Create(f.Out)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(file)
	err = errutil.Multi(write(bw), bw.Flush(), file.Close())
	if err != nil {
		logger.Printf("removing partial output %s", f.Out)
		os.Remove(f.Out)
	}
	return err
}

func writeList(w io.Writer, l conslist.List[any], asJSON bool) error {
	if asJSON {
		return json.NewEncoder(w).Encode(l)
	}
	return writeYAML(w, l.Slice())
}

func writeValue(w io.Writer, v any, asJSON bool) error {
	if asJSON {
		return json.NewEncoder(w).Encode(v)
	}
	return writeYAML(w, v)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
