package opam

import (
	"log"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/theckman/go-flock"
)

// RootEnvVar is the single environment variable that selects the client
// root (spec §6: "a single root-directory environment variable selects the
// client root; no other environment inputs").
const RootEnvVar = "OPAM_ROOT"

const (
	configFileName    = "config"
	installedFileName = "installed"
	indexDirName      = "index"
	buildDirName      = "build"
	libDirName        = "lib"
	binDirName        = "bin"
	keysDirName       = "keys"
	toInstallDirName  = "to_install"
	lockFileName      = ".lock"
)

// Environment is the immutable value passed into Load/Init — it carries no
// process-wide mutable state (spec §9's "global mutable configuration"
// redesign note).
type Environment struct {
	Root string
	Out  *Loggers
}

// Loggers is a pair of *log.Logger plus a verbosity flag, threaded through
// every operation instead of writing to package-level globals.
type Loggers struct {
	Out, Err *log.Logger
	Verbose  bool
}

// NewEnvironment builds an Environment from the process environment, per
// spec §6: the root directory comes from RootEnvVar, or is ~/.opam when
// RootEnvVar is unset or empty.
func NewEnvironment(env []string, out *Loggers) (Environment, error) {
	root := getEnv(env, RootEnvVar)
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Environment{}, errors.Wrap(err, "determining default root")
		}
		root = filepath.Join(home, ".opam")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return Environment{}, errors.Wrapf(err, "resolving root %q", root)
	}
	return Environment{Root: abs, Out: out}, nil
}

func getEnv(env []string, key string) string {
	for i := len(env) - 1; i >= 0; i-- {
		kv := env[i]
		if len(kv) > len(key) && kv[len(key)] == '=' && kv[:len(key)] == key {
			return kv[len(key)+1:]
		}
	}
	return ""
}

// T is the in-memory state snapshot (spec §3): the ordered remote list plus
// a handle on the root. All other data is re-derived from disk on demand.
type T struct {
	Env     Environment
	Remotes []Remote
}

func (t T) indexDir() string     { return filepath.Join(t.Env.Root, indexDirName) }
func (t T) buildDir() string     { return filepath.Join(t.Env.Root, buildDirName) }
func (t T) libDir() string       { return filepath.Join(t.Env.Root, libDirName) }
func (t T) binDir() string       { return filepath.Join(t.Env.Root, binDirName) }
func (t T) keysDir() string      { return filepath.Join(t.Env.Root, keysDirName) }
func (t T) toInstallDir() string { return filepath.Join(t.Env.Root, toInstallDirName) }
func (t T) configPath() string   { return filepath.Join(t.Env.Root, configFileName) }
func (t T) installedPath() string {
	return filepath.Join(t.Env.Root, installedFileName)
}

func (t T) packageIndexDir(nv NV) string {
	return filepath.Join(t.indexDir(), nv.String())
}

func (t T) packageBuildDir(nv NV) string {
	return filepath.Join(t.buildDir(), nv.String())
}

func (t T) packageLibDir(name string) string {
	return filepath.Join(t.libDir(), name)
}

func (t T) packageToInstallPath(nv NV) string {
	return filepath.Join(t.toInstallDir(), nv.String())
}

func (t T) packageKeyPath(name string) string {
	return filepath.Join(t.keysDir(), name)
}

// Load reads `config` from root and produces an in-memory snapshot. It
// performs no network I/O (spec §4.1). Fails with ErrConfigMissing if
// `config` doesn't exist.
func Load(env Environment) (T, error) {
	cfg, err := readConfig(env.Root)
	if err != nil {
		return T{}, err
	}
	return T{Env: env, Remotes: cfg.Remotes}, nil
}

// Init creates the root if absent and writes an initial config + empty
// installed set, then synchronously refreshes from the given remotes
// (spec §4.1). Fails with ErrAlreadyInitialized if config already exists.
func Init(env Environment, remotes []Remote) (T, error) {
	if _, err := os.Stat(filepath.Join(env.Root, configFileName)); err == nil {
		return T{}, ErrAlreadyInitialized
	} else if !os.IsNotExist(err) {
		return T{}, errors.Wrapf(err, "checking for existing config at %s", env.Root)
	}

	empty, err := IsEmptyDirOrNotExist(env.Root)
	if err != nil {
		return T{}, errors.Wrapf(err, "checking root %s", env.Root)
	}
	if !empty {
		return T{}, errors.Wrapf(ErrRootNotEmpty, "%s", env.Root)
	}

	for _, dir := range []string{
		env.Root,
		filepath.Join(env.Root, indexDirName),
		filepath.Join(env.Root, buildDirName),
		filepath.Join(env.Root, libDirName),
		filepath.Join(env.Root, binDirName),
		filepath.Join(env.Root, keysDirName),
		filepath.Join(env.Root, toInstallDirName),
	} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return T{}, errors.Wrapf(err, "creating %s", dir)
		}
	}

	cfg := config{APIVersion: clientAPIVersion, Remotes: remotes}
	if err := writeConfig(env.Root, cfg); err != nil {
		return T{}, err
	}
	if err := writeInstalled(env.Root, map[string]NV{}); err != nil {
		return T{}, err
	}

	t := T{Env: env, Remotes: remotes}
	if err := Update(&t); err != nil {
		return T{}, err
	}
	return t, nil
}

// withRootLock takes the coarse root-level advisory lock spec §5
// recommends around any mutating command, runs fn, and releases it.
func withRootLock(env Environment, fn func() error) error {
	fl := flock.NewFlock(filepath.Join(env.Root, lockFileName))
	if err := fl.Lock(); err != nil {
		return errors.Wrap(err, "acquiring root lock")
	}
	defer fl.Unlock()
	return fn()
}
