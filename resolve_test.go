package opam

import (
	"bufio"
	"bytes"
	"strings"
	"testing"
)

type fakeSolver struct {
	solutions []Solution
}

func (f *fakeSolver) Resolve(packages []CandidatePackage, req Request) ([]Solution, error) {
	return f.solutions, nil
}
func (f *fakeSolver) FilterForwardDependencies(packages []CandidatePackage, names []string) ([]CandidatePackage, error) {
	return packages, nil
}
func (f *fakeSolver) FilterBackwardDependencies(packages []CandidatePackage, names []string) ([]CandidatePackage, error) {
	return packages, nil
}

func mustV(t *testing.T, s string) Version {
	t.Helper()
	v, err := ParseVersion(s)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func TestResolveAutoAcceptsNonDestructive(t *testing.T) {
	root := t.TempDir()
	env := Environment{Root: root, Out: testLoggers()}
	tt, err := Init(env, nil)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	sol := Solution{{{Kind: ActionChange, NV: NV{Name: "foo", Version: mustV(t, "1.0.0")}}}}
	solver := &fakeSolver{solutions: []Solution{sol}}

	var out bytes.Buffer
	accepted, ok, err := Resolve(tt, solver, Request{}, &out, bufio.NewReader(strings.NewReader("")))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !ok {
		t.Fatalf("non-destructive solution should auto-accept")
	}
	if len(accepted) != 1 {
		t.Errorf("accepted solution = %v, want the single batch", accepted)
	}
}

func TestResolveDestructivePromptRejection(t *testing.T) {
	root := t.TempDir()
	env := Environment{Root: root, Out: testLoggers()}
	tt, err := Init(env, nil)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	sol := Solution{{{Kind: ActionDelete, NV: NV{Name: "foo", Version: mustV(t, "1.0.0")}}}}
	solver := &fakeSolver{solutions: []Solution{sol}}

	var out bytes.Buffer
	_, ok, err := Resolve(tt, solver, Request{}, &out, bufio.NewReader(strings.NewReader("n\n")))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if ok {
		t.Errorf("rejecting the only destructive solution should leave nothing accepted")
	}
}

func TestResolveNoSolution(t *testing.T) {
	root := t.TempDir()
	env := Environment{Root: root, Out: testLoggers()}
	tt, err := Init(env, nil)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	solver := &fakeSolver{}
	var out bytes.Buffer
	_, _, err = Resolve(tt, solver, Request{}, &out, bufio.NewReader(strings.NewReader("")))
	if err != ErrNoSolution {
		t.Errorf("Resolve with no candidate solutions = %v, want ErrNoSolution", err)
	}
}
