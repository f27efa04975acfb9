// cmd/tbplus/main.go
//
// tbplus is an interactive shell over a single named tree.
//
// Usage:
//
//	tbplus [-store=mem|leveldb] [-path=DIR] tree-name
//
// With -store=leveldb, -path names the database directory (created if
// absent). -store=mem (the default) keeps everything in memory for the
// life of the process.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattbenjamin/tbplus/pkg/bplus"
)

func main() {
	store := flag.String("store", "mem", "object store backend: mem or leveldb")
	path := flag.String("path", "", "leveldb database directory (required for -store=leveldb)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: tbplus [-store=mem|leveldb] [-path=DIR] tree-name")
		os.Exit(1)
	}
	treeName := flag.Arg(0)

	objStore, closeStore, err := openStore(*store, *path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening store: %v\n", err)
		os.Exit(1)
	}
	defer closeStore()

	tree := bplus.NewTree(treeName, 0, 0, objStore, nil)

	repl := &REPL{tree: tree, input: bufio.NewScanner(os.Stdin), output: os.Stdout, errOutput: os.Stderr}
	repl.Run()
}

func openStore(kind, path string) (bplus.ObjectStore, func() error, error) {
	switch kind {
	case "mem":
		return bplus.NewMemoryObjectStore(), func() error { return nil }, nil
	case "leveldb":
		if path == "" {
			return nil, nil, fmt.Errorf("-path is required for -store=leveldb")
		}
		s, err := bplus.NewLevelDBObjectStore(path)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store kind %q", kind)
	}
}

// REPL provides a Read-Eval-Print loop for interactive tree manipulation.
type REPL struct {
	tree      *bplus.Tree
	input     *bufio.Scanner
	output    io.Writer
	errOutput io.Writer
}

// Run reads commands from input until EOF or ".exit", executing one per
// line.
func (r *REPL) Run() {
	fmt.Fprintln(r.output, "tbplus shell. Enter \".help\" for usage hints.")

	for {
		fmt.Fprint(r.output, "tbplus> ")
		if !r.input.Scan() {
			fmt.Fprintln(r.output)
			return
		}
		line := strings.TrimSpace(r.input.Text())
		if line == "" {
			continue
		}
		if line == ".exit" || line == ".quit" {
			return
		}
		if line == ".help" {
			r.printHelp()
			continue
		}
		if err := r.execute(line); err != nil {
			fmt.Fprintf(r.errOutput, "error: %v\n", err)
		}
	}
}

func (r *REPL) execute(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	switch strings.ToLower(fields[0]) {
	case "put":
		if len(fields) < 3 {
			return fmt.Errorf("usage: put KEY VALUE")
		}
		return r.tree.Insert([]byte(fields[1]), []byte(strings.Join(fields[2:], " ")))
	case "get":
		if len(fields) != 2 {
			return fmt.Errorf("usage: get KEY")
		}
		value, ok, err := r.tree.Get([]byte(fields[1]))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(r.output, "(not found)")
			return nil
		}
		fmt.Fprintf(r.output, "%s\n", value)
		return nil
	case "del":
		if len(fields) != 2 {
			return fmt.Errorf("usage: del KEY")
		}
		return r.tree.Remove([]byte(fields[1]))
	case "list":
		var prefix []byte
		if len(fields) == 2 {
			prefix = []byte(fields[1])
		}
		count, err := r.tree.List(prefix, func(k, v []byte) uint32 {
			fmt.Fprintf(r.output, "%s = %s\n", k, v)
			return bplus.FlagNone
		}, nil, bplus.FlagRequirePrefix)
		if err != nil {
			return err
		}
		fmt.Fprintf(r.output, "%d entr(y/ies)\n", count)
		return nil
	default:
		return fmt.Errorf("unknown command: %s", fields[0])
	}
}

func (r *REPL) printHelp() {
	help := `
put KEY VALUE      Insert a key/value pair
get KEY            Fetch the value for KEY
del KEY            Remove KEY
list [PREFIX]      List entries, optionally restricted to PREFIX
.exit              Exit this program
.help              Show this help message
`
	fmt.Fprintln(r.output, help)
}
