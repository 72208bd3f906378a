package opam

import "testing"

func TestRemoteAddRejectsDuplicate(t *testing.T) {
	root := t.TempDir()
	env := Environment{Root: root, Out: testLoggers()}
	tt, err := Init(env, nil)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	if err := RemoteAdd(&tt, "https://opam.example.com/repo"); err != nil {
		t.Fatalf("first RemoteAdd: %v", err)
	}
	if err := RemoteAdd(&tt, "https://opam.example.com/repo"); err == nil {
		t.Errorf("second RemoteAdd with the same url should fail with ErrDuplicateRemote")
	}
	if len(tt.Remotes) != 1 {
		t.Errorf("Remotes = %v, want exactly one entry", tt.Remotes)
	}
}

func TestRemoteAddThenRmRoundTrip(t *testing.T) {
	root := t.TempDir()
	env := Environment{Root: root, Out: testLoggers()}
	tt, err := Init(env, nil)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	before, err := readConfig(root)
	if err != nil {
		t.Fatalf("readConfig before: %v", err)
	}

	if err := RemoteAdd(&tt, "https://opam.example.com/repo"); err != nil {
		t.Fatalf("RemoteAdd: %v", err)
	}
	if err := RemoteRm(&tt, "opam.example.com"); err != nil {
		t.Fatalf("RemoteRm: %v", err)
	}

	after, err := readConfig(root)
	if err != nil {
		t.Fatalf("readConfig after: %v", err)
	}
	if len(after.Remotes) != len(before.Remotes) {
		t.Errorf("remote add+rm should restore the remote list, got %v want %v", after.Remotes, before.Remotes)
	}
}

func TestRemoteRmNoMatchIsNotError(t *testing.T) {
	root := t.TempDir()
	env := Environment{Root: root, Out: testLoggers()}
	tt, err := Init(env, nil)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := RemoteRm(&tt, "nothing-configured.example.com"); err != nil {
		t.Errorf("RemoteRm with no match should not error, got %v", err)
	}
}
