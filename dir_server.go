package opam

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/karrick/godirwalk"
	"github.com/pkg/errors"
)

// dirServer implements Server by reading a git checkout's working tree
// directly: one subdirectory per NV, each holding a `spec` file and
// optionally an `archive` file — the same shape index/ uses locally. This
// is how a git-scheme remote is consumed once syncGitRemote has it cloned
// or pulled up to date (spec §4.2: "a git-scheme remote ... new packages
// are detected from updated spec files").
type dirServer struct {
	root string
}

func newDirServer(root string) Server {
	return &dirServer{root: root}
}

func (d *dirServer) List() ([]NV, error) {
	var out []NV
	if _, err := os.Stat(d.root); os.IsNotExist(err) {
		return out, nil
	}
	entries, err := godirwalk.ReadDirents(d.root, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "listing git remote checkout %s", d.root)
	}
	for _, e := range entries {
		if !e.IsDir() || e.Name() == ".git" {
			continue
		}
		nv, err := ParseNV(e.Name())
		if err != nil {
			continue
		}
		if ok, err := IsRegular(filepath.Join(d.root, e.Name(), "spec")); err == nil && ok {
			out = append(out, nv)
		}
	}
	return out, nil
}

func (d *dirServer) GetSpec(nv NV) ([]byte, error) {
	return ioutil.ReadFile(filepath.Join(d.root, nv.String(), "spec"))
}

func (d *dirServer) GetArchive(nv NV) ([]byte, bool, error) {
	p := filepath.Join(d.root, nv.String(), "archive")
	ok, err := IsRegular(p)
	if err != nil || !ok {
		return nil, false, err
	}
	b, err := ioutil.ReadFile(p)
	return b, true, err
}

// NewArchive and UpdateArchive are no-ops for git-scheme remotes: the spec
// module doesn't model pushing to a read-only git checkout, only pulling
// from one. Upload skips git-scheme remotes, so these always return an
// error.
func (d *dirServer) NewArchive(nv NV, spec, archive []byte) (string, error) {
	return "", errors.Errorf("cannot publish to a git-scheme remote (%s)", d.root)
}

func (d *dirServer) UpdateArchive(nv NV, spec, archive []byte, key string) error {
	return errors.Errorf("cannot publish to a git-scheme remote (%s)", d.root)
}
