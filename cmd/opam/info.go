package main

import (
	"flag"
	"fmt"

	"github.com/pkg/errors"
	opam "github.com/silene/opam"
)

const infoShortHelp = `Show details about one package`
const infoLongHelp = `
Info prints the installed version (if any), the other known versions, and
a description of the installed (or else the highest known) version.
`

type infoCommand struct{}

func (cmd *infoCommand) Name() string              { return "info" }
func (cmd *infoCommand) Args() string              { return "<name>" }
func (cmd *infoCommand) ShortHelp() string         { return infoShortHelp }
func (cmd *infoCommand) LongHelp() string          { return infoLongHelp }
func (cmd *infoCommand) Hidden() bool              { return false }
func (cmd *infoCommand) Register(fs *flag.FlagSet) {}

func (cmd *infoCommand) Run(rt *runtime, args []string) error {
	if len(args) != 1 {
		return errors.New("info takes exactly one package name")
	}
	t, err := opam.Load(rt.Env)
	if err != nil {
		return err
	}
	info, err := opam.ResolveInfo(t, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("package: %s\n", info.Name)
	if info.InstalledVersion != nil {
		fmt.Printf("installed-version: %s\n", info.InstalledVersion)
	} else {
		fmt.Println("installed-version: --")
	}
	for _, v := range info.OtherVersions {
		fmt.Printf("available-version: %s\n", v)
	}
	fmt.Printf("description: %s\n", info.Description)
	return nil
}
