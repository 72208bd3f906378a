package main

import (
	"flag"
	"os"

	"github.com/pkg/errors"
	opam "github.com/silene/opam"
)

const installShortHelp = `Install one or more packages`
const installLongHelp = `
Install resolves a solution that satisfies installing every given name (or
name-version) and, after an interactive confirmation on any destructive
step, applies it.
`

type installCommand struct{}

func (cmd *installCommand) Name() string              { return "install" }
func (cmd *installCommand) Args() string              { return "<name | name-version>..." }
func (cmd *installCommand) ShortHelp() string         { return installShortHelp }
func (cmd *installCommand) LongHelp() string          { return installLongHelp }
func (cmd *installCommand) Hidden() bool              { return false }
func (cmd *installCommand) Register(fs *flag.FlagSet) {}

func (cmd *installCommand) Run(rt *runtime, args []string) error {
	if len(args) == 0 {
		return errors.New("install requires at least one package")
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
		if nv, err := opam.ParseNV(a); err == nil {
			v := nv.Version.String()
			wish = append(wish, opam.WishItem{Name: nv.Name, Constraint: &opam.Constraint{Version: v}})
		} else {
			wish = append(wish, opam.WishItem{Name: a})
		}
	}

	sol, accepted, err := opam.Resolve(t, solver, opam.Request{WishInstall: wish}, os.Stdout, rt.Stdin)
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
