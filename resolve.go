package opam

import (
	"bufio"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// AvailablePackages scans index/ and the installed set into the
// []CandidatePackage shape the Solver contract expects (spec §4.3: "Builds
// a solver-ready package list from (index_list, installed_map)").
func AvailablePackages(t T) ([]CandidatePackage, error) {
	installed, err := Installed(t)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(t.indexDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "reading index")
	}

	var out []CandidatePackage
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		nv, err := ParseNV(e.Name())
		if err != nil {
			continue
		}
		if ok, err := IsRegular(filepath.Join(t.indexDir(), e.Name(), "spec")); err != nil || !ok {
			continue
		}
		cur, isInstalled := installed[nv.Name]
		out = append(out, CandidatePackage{
			NV:                 nv,
			CurrentlyInstalled: isInstalled && cur.Version.Compare(nv.Version) == 0,
		})
	}
	return out, nil
}

// Resolve sends req to solver over the current index+installed snapshot and
// runs the interactive solution-selection protocol (spec §4.3). It returns
// the accepted solution, or (nil, false, nil) if every candidate solution
// was rejected, or ErrNoSolution if the solver returned none at all.
func Resolve(t T, solver Solver, req Request, out io.Writer, in *bufio.Reader) (Solution, bool, error) {
	packages, err := AvailablePackages(t)
	if err != nil {
		return nil, false, err
	}

	solutions, err := solver.Resolve(packages, req)
	if err != nil {
		return nil, false, errors.Wrap(err, "solving")
	}
	if len(solutions) == 0 {
		return nil, false, ErrNoSolution
	}

	for i, sol := range solutions {
		printSolution(out, sol)

		if !sol.HasDestructive() {
			return sol, true, nil
		}

		question := "Continue ?"
		if i > 0 {
			question = "Continue ? (press [n] to try another solution)"
		}
		ok, err := confirm(out, in, question)
		if err != nil {
			return nil, false, err
		}
		if ok {
			return sol, true, nil
		}
	}
	return nil, false, nil
}

func printSolution(out io.Writer, sol Solution) {
	for _, batch := range sol {
		for _, a := range batch {
			io.WriteString(out, a.String()+"\n")
		}
	}
}
