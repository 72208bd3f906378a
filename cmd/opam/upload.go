package main

import (
	"flag"
	"os"

	"github.com/pkg/errors"
	opam "github.com/silene/opam"
)

const uploadShortHelp = `Publish a package spec and archive to the configured remotes`
const uploadLongHelp = `
Upload reads <spec> (the .spec suffix is added if missing) from the current
directory, locates or synthesizes its archive, and pushes both to every
non-git remote plus the local mirror.
`

type uploadCommand struct{}

func (cmd *uploadCommand) Name() string              { return "upload" }
func (cmd *uploadCommand) Args() string              { return "<spec>" }
func (cmd *uploadCommand) ShortHelp() string         { return uploadShortHelp }
func (cmd *uploadCommand) LongHelp() string          { return uploadLongHelp }
func (cmd *uploadCommand) Hidden() bool              { return false }
func (cmd *uploadCommand) Register(fs *flag.FlagSet) {}

func (cmd *uploadCommand) Run(rt *runtime, args []string) error {
	if len(args) != 1 {
		return errors.New("upload takes exactly one spec file or package name")
	}
	t, err := opam.Load(rt.Env)
	if err != nil {
		return err
	}
	return opam.Upload(t, args[0], rt.WorkDir, os.Stdout, rt.Stdin)
}
