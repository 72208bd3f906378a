package main

import (
	"flag"
	"os"

	"github.com/pkg/errors"
	opam "github.com/silene/opam"
)

const removeShortHelp = `Remove one or more packages`
const removeLongHelp = `
Remove resolves a solution that satisfies removing every given name,
including any packages that transitively depend on it, and applies it
after confirmation.
`

type removeCommand struct{}

func (cmd *removeCommand) Name() string              { return "remove" }
func (cmd *removeCommand) Args() string              { return "<name>..." }
func (cmd *removeCommand) ShortHelp() string         { return removeShortHelp }
func (cmd *removeCommand) LongHelp() string          { return removeLongHelp }
func (cmd *removeCommand) Hidden() bool              { return false }
func (cmd *removeCommand) Register(fs *flag.FlagSet) {}

func (cmd *removeCommand) Run(rt *runtime, args []string) error {
	if len(args) == 0 {
		return errors.New("remove requires at least one package name")
	}
	t, err := opam.Load(rt.Env)
	if err != nil {
		return err
	}
	solver, err := requireSolver()
	if err != nil {
		return err
	}

	var wish []opam.WishItem
	for _, a := range args {
		wish = append(wish, opam.WishItem{Name: a})
	}

	sol, accepted, err := opam.Resolve(t, solver, opam.Request{WishRemove: wish}, os.Stdout, rt.Stdin)
	if err == opam.ErrNoSolution {
		rt.Env.Out.Out.Println("no solution")
		return nil
	}
	if err != nil {
		return err
	}
	if !accepted {
		return nil
	}
	return opam.ApplySolution(t, sol, os.Stdout, rt.Stdin)
}
