package opam

import (
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
)

func testLoggers() *Loggers {
	return &Loggers{Out: log.New(os.Stdout, "", 0), Err: log.New(os.Stderr, "", 0)}
}

func TestInitThenLoad(t *testing.T) {
	root := t.TempDir()
	env := Environment{Root: root, Out: testLoggers()}

	tt, err := Init(env, nil)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if len(tt.Remotes) != 0 {
		t.Errorf("Init with no remotes should produce an empty remote list, got %v", tt.Remotes)
	}

	for _, dir := range []string{indexDirName, buildDirName, libDirName, binDirName, keysDirName, toInstallDirName} {
		if ok, _ := IsDir(filepath.Join(root, dir)); !ok {
			t.Errorf("Init should create %s", dir)
		}
	}

	loaded, err := Load(env)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Env.Root != root {
		t.Errorf("Load root = %q, want %q", loaded.Env.Root, root)
	}
}

func TestInitTwiceFails(t *testing.T) {
	root := t.TempDir()
	env := Environment{Root: root, Out: testLoggers()}

	if _, err := Init(env, nil); err != nil {
		t.Fatalf("first Init: %v", err)
	}
	if _, err := Init(env, nil); errors.Cause(err) != ErrAlreadyInitialized {
		t.Errorf("second Init = %v, want ErrAlreadyInitialized", err)
	}
}

func TestInitNonEmptyRootFails(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "preexisting"), []byte("x"), 0644); err != nil {
		t.Fatalf("seeding root: %v", err)
	}
	env := Environment{Root: root, Out: testLoggers()}

	if _, err := Init(env, nil); errors.Cause(err) != ErrRootNotEmpty {
		t.Errorf("Init on a non-empty foreign root = %v, want ErrRootNotEmpty", err)
	}
}

func TestLoadMissingConfig(t *testing.T) {
	root := t.TempDir()
	env := Environment{Root: root, Out: testLoggers()}
	if _, err := Load(env); errors.Cause(err) != ErrConfigMissing {
		t.Errorf("Load on empty root = %v, want ErrConfigMissing", err)
	}
}
