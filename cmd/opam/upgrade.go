package main

import (
	"flag"
	"os"

	opam "github.com/silene/opam"
)

const upgradeShortHelp = `Upgrade installed packages to their latest solvable versions`
const upgradeLongHelp = `
Upgrade asks the solver to move every installed package forward as far as
possible, including refreshing git-tracked packages whose remote has new
commits.
`

type upgradeCommand struct{}

func (cmd *upgradeCommand) Name() string              { return "upgrade" }
func (cmd *upgradeCommand) Args() string              { return "" }
func (cmd *upgradeCommand) ShortHelp() string         { return upgradeShortHelp }
func (cmd *upgradeCommand) LongHelp() string          { return upgradeLongHelp }
func (cmd *upgradeCommand) Hidden() bool              { return false }
func (cmd *upgradeCommand) Register(fs *flag.FlagSet) {}

func (cmd *upgradeCommand) Run(rt *runtime, args []string) error {
	t, err := opam.Load(rt.Env)
	if err != nil {
		return err
	}
	solver, err := requireSolver()
	if err != nil {
		return err
	}

	installed, err := opam.Installed(t)
	if err != nil {
		return err
	}
	var wish []opam.WishItem
	for name := range installed {
		wish = append(wish, opam.WishItem{Name: name})
	}

	sol, accepted, err := opam.Resolve(t, solver, opam.Request{WishUpgrade: wish}, os.Stdout, rt.Stdin)
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
