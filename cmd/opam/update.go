package main

import (
	"flag"

	opam "github.com/silene/opam"
)

const updateShortHelp = `Refresh the local index from all remotes`
const updateLongHelp = `
Update fetches the package list and any new specs from every configured
remote. A single remote's failure does not stop the others from updating.
`

type updateCommand struct{}

func (cmd *updateCommand) Name() string             { return "update" }
func (cmd *updateCommand) Args() string              { return "" }
func (cmd *updateCommand) ShortHelp() string         { return updateShortHelp }
func (cmd *updateCommand) LongHelp() string          { return updateLongHelp }
func (cmd *updateCommand) Hidden() bool              { return false }
func (cmd *updateCommand) Register(fs *flag.FlagSet) {}

func (cmd *updateCommand) Run(rt *runtime, args []string) error {
	t, err := opam.Load(rt.Env)
	if err != nil {
		return err
	}
	return opam.Update(&t)
}
