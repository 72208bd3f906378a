package main

import (
	"github.com/pkg/errors"
	opam "github.com/silene/opam"
)

// requireSolver is the extension point every command that needs to call
// the external dependency solver goes through. The solver itself is out
// of scope for this module (see the library's solver.go and DESIGN.md):
// a real deployment links in a concrete opam.Solver here. Until one is
// wired in, commands that need it fail with a clear message instead of a
// nil-pointer panic.
func requireSolver() (opam.Solver, error) {
	if solverImpl != nil {
		return solverImpl, nil
	}
	return nil, errors.New("no dependency solver configured; link a concrete opam.Solver into cmd/opam")
}

// solverImpl is nil in this module. It exists so a downstream build can
// set it (via an init() in an additional file compiled into this binary)
// without touching the dispatch logic in main.go.
var solverImpl opam.Solver
