// Command goteco runs the goteco text-editing command interpreter (spec
// §6): its arguments are joined with the program name into a single string
// placed in the initial buffer, so a startup macro can parse them.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/jcorbin/goteco"
	"github.com/jcorbin/goteco/internal/logio"
	"github.com/jcorbin/goteco/internal/runeio"
	"github.com/jcorbin/goteco/internal/watch"
)

func main() {
	var (
		memLimit uint
		trace    bool
		watchTTY bool
		dump     bool
	)
	flag.UintVar(&memLimit, "mem-limit", 0, "record a text buffer size limit (not checked by any command; 0 = unbounded)")
	flag.BoolVar(&trace, "trace", false, "start with the `?` trace flag on")
	flag.BoolVar(&watchTTY, "watch", false, "enable a live terminal watch display")
	flag.BoolVar(&dump, "dump", false, "print a state dump on exit")
	flag.Parse()

	log := logio.Logger{}
	log.SetOutput(os.Stderr)
	defer func() { os.Exit(log.ExitCode()) }()

	echo := &runeio.ANSIWriter{Writer: os.Stdout}
	opts := []goteco.Option{
		goteco.WithLogf(log.Printf),
		goteco.WithMemLimit(memLimit),
		goteco.WithTrace(trace),
		goteco.WithOutput(echo),
		goteco.WithInput(os.Stdin),
		goteco.WithSearchPath(searchPath()...),
	}
	if watchTTY {
		fd := int(os.Stdout.Fd())
		sink := watch.NewTerminalSink(os.Stdout, fd)
		opts = append(opts, goteco.WithWatch(sink))
	}

	in := goteco.New(opts...)
	defer log.ErrorIf(in.Close())
	if dump {
		defer in.Dump(os.Stderr)
	}

	args := strings.Join(append([]string{os.Args[0]}, flag.Args()...), " ")
	in.SeedBuffer(args)

	if startup, ok := readStartup(); ok {
		if err := in.Execute(startup); err != nil {
			log.Errorf("%s", err.Error())
		}
	}

	// The built-in bootstrap (spec §6: "the bootstrap provides the top-level
	// 'command-line as editor command' behavior"): assemble and execute one
	// command line at a time from the terminal until end of file.
	la := goteco.NewLineAssembler(runeio.NewReader(os.Stdin), func(s string) {
		fmt.Fprint(echo, s)
	})
	for {
		fmt.Fprint(echo, "*")
		cmd, ok := la.ReadLine()
		if !ok {
			break
		}
		if err := in.Execute(cmd); err != nil {
			log.Errorf("%s", err.Error())
		}
	}
}

// searchPath builds the TECO_PATH/PATH/host-default chain spec §6
// describes for both the startup file and EI.
func searchPath() []string {
	if p := os.Getenv("TECO_PATH"); p != "" {
		return strings.Split(p, string(os.PathListSeparator))
	}
	if p := os.Getenv("PATH"); p != "" {
		return strings.Split(p, string(os.PathListSeparator))
	}
	return []string{"/usr/local/lib/teco", "/usr/lib/teco"}
}

// readStartup looks for teco.tec in the current directory and then along
// searchPath, per spec §6's "attempts
// to read a file named teco.tec via the same search-path logic used by EI".
func readStartup() (string, bool) {
	dirs := append([]string{"."}, searchPath()...)
	for _, dir := range dirs {
		data, err := os.ReadFile(dir + string(os.PathSeparator) + "teco.tec")
		if err == nil {
			return string(data), true
		}
	}
	return "", false
}
