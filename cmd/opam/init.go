package main

import (
	"flag"

	"github.com/pkg/errors"
	opam "github.com/silene/opam"
)

const initShortHelp = `Initialize a fresh client root`
const initLongHelp = `
Create $OPAM_ROOT (or the default root) with an empty install set and the
given remotes, then perform an initial update from each of them.
`

type initCommand struct{}

func (cmd *initCommand) Name() string      { return "init" }
func (cmd *initCommand) Args() string      { return "<url>..." }
func (cmd *initCommand) ShortHelp() string { return initShortHelp }
func (cmd *initCommand) LongHelp() string  { return initLongHelp }
func (cmd *initCommand) Hidden() bool      { return false }
func (cmd *initCommand) Register(fs *flag.FlagSet) {}

func (cmd *initCommand) Run(rt *runtime, args []string) error {
	if len(args) == 0 {
		return errors.New("init requires at least one remote url")
	}

	remotes := make([]opam.Remote, 0, len(args))
	for _, a := range args {
		r, err := opam.ParseRemote(a)
		if err != nil {
			return err
		}
		remotes = append(remotes, r)
	}

	_, err := opam.Init(rt.Env, remotes)
	return err
}
