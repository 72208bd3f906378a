package main

import (
	"flag"
	"os"

	opam "github.com/silene/opam"
)

const listShortHelp = `List known packages`
const listLongHelp = `
List prints one row per package name known to the index: the installed
version if any, else "--", followed by the first line of its description.
`

type listCommand struct{}

func (cmd *listCommand) Name() string              { return "list" }
func (cmd *listCommand) Args() string              { return "" }
func (cmd *listCommand) ShortHelp() string         { return listShortHelp }
func (cmd *listCommand) LongHelp() string          { return listLongHelp }
func (cmd *listCommand) Hidden() bool              { return false }
func (cmd *listCommand) Register(fs *flag.FlagSet) {}

func (cmd *listCommand) Run(rt *runtime, args []string) error {
	t, err := opam.Load(rt.Env)
	if err != nil {
		return err
	}
	entries, err := opam.List(t)
	if err != nil {
		return err
	}
	opam.RenderList(os.Stdout, entries)
	return nil
}
