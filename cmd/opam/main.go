// Command opam is a client for a source-based package index: it mediates
// between the user, an external dependency solver, remote index servers,
// and a local install tree rooted at $OPAM_ROOT.
package main

import (
	"bufio"
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	opam "github.com/silene/opam"
)

type command interface {
	Name() string           // "foobar"
	Args() string           // "<baz> [quux...]"
	ShortHelp() string      // "Foo the first bar"
	LongHelp() string       // "Foo the first bar meeting the following conditions..."
	Register(*flag.FlagSet) // command-specific flags
	Hidden() bool           // indicates whether the command should be hidden from help output
	Run(rt *runtime, args []string) error
}

// runtime is what every subcommand needs: loggers, the process environment,
// and stdin for confirmation prompts. It is the CLI-layer analog of the
// library's opam.Environment, kept separate so the library stays ignorant
// of flag.FlagSet and os.Args. Stdin is a single *bufio.Reader shared across
// every prompt a command issues, so a multi-prompt command (install,
// remove, upgrade) never loses bytes buffered by an earlier read.
type runtime struct {
	Env     opam.Environment
	Stdin   *bufio.Reader
	WorkDir string
}

func main() {
	wd, err := os.Getwd()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to get working directory:", err)
		os.Exit(1)
	}
	c := &Config{
		Args:       os.Args,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		Stdin:      os.Stdin,
		WorkingDir: wd,
		Env:        os.Environ(),
	}
	os.Exit(c.Run())
}

// Config specifies a full configuration for an opam execution.
type Config struct {
	WorkingDir     string
	Args           []string
	Env            []string
	Stdout, Stderr io.Writer
	Stdin          io.Reader
}

func (c *Config) Run() (exitCode int) {
	commands := []command{
		&initCommand{},
		&listCommand{},
		&infoCommand{},
		&installCommand{},
		&removeCommand{},
		&updateCommand{},
		&upgradeCommand{},
		&uploadCommand{},
		&configCommand{},
		&remoteCommand{},
	}

	outLogger := log.New(c.Stdout, "", 0)
	errLogger := log.New(c.Stderr, "", 0)

	usage := func() {
		errLogger.Println("opam is a client for a source-based package index")
		errLogger.Println()
		errLogger.Println("Usage: opam <command>")
		errLogger.Println()
		errLogger.Println("Commands:")
		errLogger.Println()
		w := tabwriter.NewWriter(c.Stderr, 0, 4, 2, ' ', 0)
		for _, cmd := range commands {
			if !cmd.Hidden() {
				fmt.Fprintf(w, "\t%s\t%s\n", cmd.Name(), cmd.ShortHelp())
			}
		}
		w.Flush()
		errLogger.Println()
		errLogger.Println(`Use "opam help <command>" for more information about a command.`)
	}

	cmdName, printCommandHelp, exit := parseArgs(c.Args)
	if exit {
		usage()
		exitCode = 1
		return
	}

	for _, cmd := range commands {
		if cmd.Name() != cmdName {
			continue
		}

		fs := flag.NewFlagSet(cmdName, flag.ContinueOnError)
		fs.SetOutput(c.Stderr)
		verbose := fs.Bool("v", false, "enable verbose logging")
		cmd.Register(fs)
		resetUsage(errLogger, fs, cmdName, cmd.Args(), cmd.LongHelp())

		if printCommandHelp {
			fs.Usage()
			exitCode = 1
			return
		}

		if err := fs.Parse(c.Args[2:]); err != nil {
			exitCode = 1
			return
		}

		env, err := opam.NewEnvironment(c.Env, &opam.Loggers{Out: outLogger, Err: errLogger, Verbose: *verbose})
		if err != nil {
			errLogger.Printf("opam: %v\n", err)
			exitCode = 1
			return
		}

		rt := &runtime{Env: env, Stdin: bufio.NewReader(c.Stdin), WorkDir: c.WorkingDir}
		if err := cmd.Run(rt, fs.Args()); err != nil {
			errLogger.Printf("opam: %v\n", err)
			exitCode = 1
			return
		}
		return
	}

	errLogger.Printf("opam: %s: no such command\n", cmdName)
	usage()
	exitCode = 1
	return
}

func resetUsage(logger *log.Logger, fs *flag.FlagSet, name, args, longHelp string) {
	var (
		hasFlags   bool
		flagBlock  bytes.Buffer
		flagWriter = tabwriter.NewWriter(&flagBlock, 0, 4, 2, ' ', 0)
	)
	fs.VisitAll(func(f *flag.Flag) {
		hasFlags = true
		defValue := f.DefValue
		if defValue == "" {
			defValue = "<none>"
		}
		fmt.Fprintf(flagWriter, "\t-%s\t%s (default: %s)\n", f.Name, f.Usage, defValue)
	})
	flagWriter.Flush()
	fs.Usage = func() {
		logger.Printf("Usage: opam %s %s\n", name, args)
		logger.Println()
		logger.Println(strings.TrimSpace(longHelp))
		logger.Println()
		if hasFlags {
			logger.Println("Flags:")
			logger.Println()
			logger.Println(flagBlock.String())
		}
	}
}

// parseArgs determines the name of the opam command and whether the user
// asked for help.
func parseArgs(args []string) (cmdName string, printCmdUsage bool, exit bool) {
	isHelpArg := func() bool {
		return strings.Contains(strings.ToLower(args[1]), "help") || strings.ToLower(args[1]) == "-h"
	}

	switch len(args) {
	case 0, 1:
		exit = true
	case 2:
		if isHelpArg() {
			exit = true
		}
		cmdName = args[1]
	default:
		if isHelpArg() {
			cmdName = args[2]
			printCmdUsage = true
		} else {
			cmdName = args[1]
		}
	}
	return cmdName, printCmdUsage, exit
}
