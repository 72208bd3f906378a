package opam

import (
	"bytes"
	"strings"
	"testing"
)

func TestRenderListPadding(t *testing.T) {
	entries := []ListEntry{
		{Name: "a", Version: "--"},
		{Name: "longname", Version: "1.2.3"},
	}
	var out bytes.Buffer
	RenderList(&out, entries)
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("RenderList produced %d lines, want 2", len(lines))
	}

	if !strings.HasPrefix(lines[0], "a       ") {
		t.Errorf("first line = %q, want name column padded to width of %q", lines[0], "longname")
	}
	if !strings.HasPrefix(lines[1], "longname") {
		t.Errorf("second line = %q, want to start with the longer name", lines[1])
	}
}

func TestListProjectsSpecDescriptionNotBuildScript(t *testing.T) {
	root := t.TempDir()
	env := Environment{Root: root, Out: testLoggers()}
	tt, err := Init(env, nil)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	nv := NV{Name: "foo", Version: mustV(t, "1.0.0")}
	raw, err := WriteSpec(Spec{
		Name:        nv.Name,
		Version:     nv.Version.String(),
		Description: "does the foo thing\nmore detail",
		Build:       []string{"sh -c 'make'"},
	})
	if err != nil {
		t.Fatalf("WriteSpec: %v", err)
	}
	if err := WriteSpecFile(tt, nv, raw); err != nil {
		t.Fatalf("WriteSpecFile: %v", err)
	}

	entries, err := List(tt)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("List = %v, want 1 entry", entries)
	}
	if got, want := entries[0].FirstDescriptionLine, "does the foo thing"; got != want {
		t.Errorf("FirstDescriptionLine = %q, want %q (not the build script)", got, want)
	}
}

func TestRemoteListPrefixes(t *testing.T) {
	root := t.TempDir()
	env := Environment{Root: root, Out: testLoggers()}
	tt, err := Init(env, nil)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := RemoteAdd(&tt, "https://opam.example.com/repo"); err != nil {
		t.Fatalf("RemoteAdd: %v", err)
	}
	if err := RemoteAddGit(&tt, "https://github.com/example/repo"); err != nil {
		t.Fatalf("RemoteAddGit: %v", err)
	}

	lines := RemoteList(tt)
	if len(lines) != 2 {
		t.Fatalf("RemoteList = %v, want 2 entries", lines)
	}
	var sawOpam, sawGit bool
	for _, l := range lines {
		if len(l) >= 5 && l[:5] == "OPAM " {
			sawOpam = true
		}
		if len(l) >= 4 && l[:4] == "git " {
			sawGit = true
		}
	}
	if !sawOpam || !sawGit {
		t.Errorf("RemoteList = %v, want one OPAM-prefixed and one git-prefixed line", lines)
	}
}
