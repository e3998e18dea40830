// Package listtool implements the commands of the conslist tool, which
// converts lists between YAML and their binary encoding and keeps snapshots
// of them in a database.
package listtool

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/elves/conslist/pkg/errutil"
	"github.com/elves/conslist/pkg/logutil"
	"github.com/elves/conslist/pkg/persistent/conslist"
	"github.com/elves/conslist/pkg/prog"
	"github.com/elves/conslist/pkg/store"
	"github.com/elves/conslist/pkg/store/storedefs"
)

var logger = logutil.GetLogger("[listtool] ")

// Program runs the command named by the first argument. A -kind not accepted
// by prog.Run is reported as bad usage when Program is run directly.
var Program = prog.Composite(
	command{"encode", 0, 0, encode},
	command{"decode", 0, 0, decode},
	command{"info", 0, 0, info},
	command{"put", 1, 1, withStore(put)},
	command{"get", 1, 2, withStore(get)},
	command{"ls", 0, 1, withStore(ls)},
	badCommand{})

// command is a subprogram that runs when the first argument is its name.
type command struct {
	name             string
	minArgs, maxArgs int
	run              func(fds [3]*os.File, f *prog.Flags, args []string) error
}

func (c command) Run(fds [3]*os.File, f *prog.Flags, args []string) error {
	if len(args) == 0 || args[0] != c.name {
		return prog.ErrNotSuitable
	}
	args = args[1:]
	if len(args) < c.minArgs || len(args) > c.maxArgs {
		return prog.BadUsage(c.name + ": wrong number of arguments")
	}
	if err := c.run(fds, f, args); err != nil {
		return fmt.Errorf("%s: %w", c.name, err)
	}
	return nil
}

type badCommand struct{}

func (badCommand) Run(fds [3]*os.File, f *prog.Flags, args []string) error {
	if len(args) == 0 {
		return prog.BadUsage("no command given")
	}
	return prog.BadUsage(fmt.Sprintf("unknown command %q", args[0]))
}

func encode(fds [3]*os.File, f *prog.Flags, _ []string) error {
	kind, err := kindByName(f.Kind)
	if err != nil {
		return err
	}
	text, err := readInput(fds[0], f)
	if err != nil {
		return err
	}
	return writeOutput(fds[1], f, true, func(w io.Writer) error {
		return kind.encode(w, text)
	})
}

func decode(fds [3]*os.File, f *prog.Flags, _ []string) error {
	kind, err := kindByName(f.Kind)
	if err != nil {
		return err
	}
	data, err := readInput(fds[0], f)
	if err != nil {
		return err
	}
	l, err := kind.decode(bytes.NewReader(data))
	if err != nil {
		return err
	}
	logger.Printf("decoded %d %s elements", l.Len(), f.Kind)
	return writeOutput(fds[1], f, false, func(w io.Writer) error {
		return writeList(w, l, f.JSON)
	})
}

// Description of an encoded list, printed by info and ls.
type description struct {
	Seq    int    `yaml:"seq,omitempty" json:"seq,omitempty"`
	Flavor string `yaml:"flavor" json:"flavor"`
	Len    int64  `yaml:"length" json:"length"`
}

func info(fds [3]*os.File, f *prog.Flags, _ []string) error {
	data, err := readInput(fds[0], f)
	if err != nil {
		return err
	}
	h, err := conslist.ReadHeader(bytes.NewReader(data))
	if err != nil {
		return err
	}
	return writeOutput(fds[1], f, false, func(w io.Writer) error {
		return writeValue(w, description{Flavor: h.Flavor.String(), Len: h.Len}, f.JSON)
	})
}

// withStore opens the database named by -db for the duration of a command.
func withStore(run func(fds [3]*os.File, f *prog.Flags, s storedefs.Store, args []string) error) func([3]*os.File, *prog.Flags, []string) error {
	return func(fds [3]*os.File, f *prog.Flags, args []string) (err error) {
		if f.DB == "" {
			return prog.BadUsage("-db is required")
		}
		s, err := store.NewStore(f.DB)
		if err != nil {
			return err
		}
		defer func() { err = errutil.Multi(err, s.Close()) }()
		return run(fds, f, s, args)
	}
}

func put(fds [3]*os.File, f *prog.Flags, s storedefs.Store, args []string) error {
	kind, err := kindByName(f.Kind)
	if err != nil {
		return err
	}
	text, err := readInput(fds[0], f)
	if err != nil {
		return err
	}
	seq, err := kind.put(s, args[0], text)
	if err != nil {
		return err
	}
	return writeOutput(fds[1], f, false, func(w io.Writer) error {
		_, err := fmt.Fprintln(w, seq)
		return err
	})
}

func get(fds [3]*os.File, f *prog.Flags, s storedefs.Store, args []string) error {
	seq := store.Latest
	if len(args) == 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n <= 0 {
			return prog.BadUsage(fmt.Sprintf("invalid sequence number %q", args[1]))
		}
		seq = n
	}
	kind, err := kindByName(f.Kind)
	if err != nil {
		return err
	}
	l, err := kind.get(s, args[0], seq)
	if err != nil {
		return err
	}
	return writeOutput(fds[1], f, false, func(w io.Writer) error {
		return writeList(w, l, f.JSON)
	})
}

func ls(fds [3]*os.File, f *prog.Flags, s storedefs.Store, args []string) error {
	var v any
	if len(args) == 0 {
		names, err := s.Names()
		if err != nil {
			return err
		}
		v = append([]string{}, names...)
	} else {
		infos, err := s.Snapshots(args[0])
		if err != nil {
			return err
		}
		descs := []description{}
		for _, info := range infos {
			descs = append(descs, description{info.Seq, info.Flavor.String(), info.Len})
		}
		v = descs
	}
	return writeOutput(fds[1], f, false, func(w io.Writer) error {
		return writeValue(w, v, f.JSON)
	})
}
