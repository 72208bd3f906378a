package main

import (
	"flag"
	"fmt"

	"github.com/pkg/errors"
	opam "github.com/silene/opam"
)

const configShortHelp = `Print compiler flags for installed packages`
const configLongHelp = `
Config emits a space-separated concatenation of per-package flag strings
for the requested kind: -include, -bytelink, or -asmlink. With -r, the
target set is expanded to the transitive backward-dependency closure.
`

type configCommand struct {
	recursive bool
	include   bool
	bytelink  bool
	asmlink   bool
	linkOpts  string
}

func (cmd *configCommand) Name() string      { return "config" }
func (cmd *configCommand) Args() string      { return "[-r] {--include|--bytelink|--asmlink} <name>..." }
func (cmd *configCommand) ShortHelp() string { return configShortHelp }
func (cmd *configCommand) LongHelp() string  { return configLongHelp }
func (cmd *configCommand) Hidden() bool      { return false }

func (cmd *configCommand) Register(fs *flag.FlagSet) {
	fs.BoolVar(&cmd.recursive, "r", false, "expand to the backward dependency closure")
	fs.BoolVar(&cmd.include, "include", false, "emit -I <library path>")
	fs.BoolVar(&cmd.bytelink, "bytelink", false, "emit bytecode link flags")
	fs.BoolVar(&cmd.asmlink, "asmlink", false, "emit native link flags")
	fs.StringVar(&cmd.linkOpts, "link-opts", "", "extra link options to splice in")
}

func (cmd *configCommand) Run(rt *runtime, args []string) error {
	if len(args) == 0 {
		return errors.New("config requires at least one package name")
	}

	var kind opam.ConfigKind
	switch {
	case cmd.bytelink:
		kind = opam.ConfigBytelink
	case cmd.asmlink:
		kind = opam.ConfigAsmlink
	default:
		kind = opam.ConfigInclude
	}

	t, err := opam.Load(rt.Env)
	if err != nil {
		return err
	}

	var solver opam.Solver
	if cmd.recursive {
		solver, err = requireSolver()
		if err != nil {
			return err
		}
	}

	out, err := opam.Config(t, solver, kind, cmd.recursive, args, cmd.linkOpts)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}
