package main

import (
	"flag"
	"fmt"

	"github.com/pkg/errors"
	opam "github.com/silene/opam"
)

const remoteShortHelp = `Manage configured remotes`
const remoteLongHelp = `
remote list            print configured remotes
remote add <url>       add an opam-scheme remote
remote add-git <url>   add a git-scheme remote
remote rm <url-or-host> remove every remote matching the given url or hostname
`

type remoteCommand struct{}

func (cmd *remoteCommand) Name() string              { return "remote" }
func (cmd *remoteCommand) Args() string              { return "list | add <url> | add-git <url> | rm <url-or-host>" }
func (cmd *remoteCommand) ShortHelp() string         { return remoteShortHelp }
func (cmd *remoteCommand) LongHelp() string          { return remoteLongHelp }
func (cmd *remoteCommand) Hidden() bool              { return false }
func (cmd *remoteCommand) Register(fs *flag.FlagSet) {}

func (cmd *remoteCommand) Run(rt *runtime, args []string) error {
	if len(args) == 0 {
		return errors.New("remote requires a subcommand: list, add, add-git, or rm")
	}

	t, err := opam.Load(rt.Env)
	if err != nil {
		return err
	}

	switch args[0] {
	case "list":
		for _, line := range opam.RemoteList(t) {
			fmt.Println(line)
		}
		return nil
	case "add":
		if len(args) != 2 {
			return errors.New("remote add requires exactly one url")
		}
		return opam.RemoteAdd(&t, args[1])
	case "add-git":
		if len(args) != 2 {
			return errors.New("remote add-git requires exactly one url")
		}
		return opam.RemoteAddGit(&t, args[1])
	case "rm":
		if len(args) != 2 {
			return errors.New("remote rm requires exactly one url or hostname")
		}
		return opam.RemoteRm(&t, args[1])
	default:
		return errors.Errorf("remote: %s: no such subcommand", args[0])
	}
}
