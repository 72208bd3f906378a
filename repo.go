package opam

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/vcs"
	"github.com/pkg/errors"
)

// gitCheckoutsDirName holds one working clone per git-scheme remote, kept
// alongside (but outside) index/ so its .git directories never collide with
// the plain-file opam-scheme layout index/(n,v)/spec expects.
const gitCheckoutsDirName = ".git-remotes"

func (t T) gitCheckoutDir(r Remote) string {
	return filepath.Join(t.Env.Root, gitCheckoutsDirName, r.Hostname)
}

// serverFor returns the Server this remote exposes. Git remotes are synced
// to a local clone first (see syncGitRemote) and then read as a plain
// directory tree; opam remotes talk HTTP directly.
func (t T) serverFor(r Remote) (Server, error) {
	switch r.Scheme {
	case SchemeGit:
		return newDirServer(t.gitCheckoutDir(r)), nil
	default:
		return NewHTTPServer(r.String()), nil
	}
}

// Update refreshes the local index from every configured remote (spec
// §4.2). Remotes are processed independently: a failure on one remote is
// logged and does not prevent the others from updating. The call returns
// an error only when every configured remote failed; if at least one
// remote updated, the failures of the others are logged but not returned
// (see DESIGN.md's "update() failure policy").
func Update(t *T) error {
	var errs []string
	for _, r := range t.Remotes {
		if err := t.updateRemote(r); err != nil {
			msg := errors.Wrapf(err, "updating remote %s", r).Error()
			if t.Env.Out != nil && t.Env.Out.Err != nil {
				t.Env.Out.Err.Println(msg)
			}
			errs = append(errs, msg)
		}
	}
	if len(errs) == len(t.Remotes) && len(t.Remotes) > 0 {
		return errors.Errorf("all remotes failed to update: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (t T) updateRemote(r Remote) error {
	if r.Scheme == SchemeGit {
		if err := syncGitRemote(t.gitCheckoutDir(r), r); err != nil {
			return err
		}
	}

	srv, err := t.serverFor(r)
	if err != nil {
		return err
	}

	nvs, err := srv.List()
	if err != nil {
		return err
	}

	for _, nv := range nvs {
		exists, err := SpecExists(t, nv)
		if err != nil {
			return errors.Wrapf(err, "checking existing spec for %s", nv)
		}
		if exists {
			// Specs already present are never re-fetched (spec §4.2).
			continue
		}
		spec, err := srv.GetSpec(nv)
		if err != nil {
			return errors.Wrapf(err, "fetching spec for %s", nv)
		}
		if err := WriteSpecFile(t, nv, spec); err != nil {
			return err
		}
		if t.Env.Out != nil && t.Env.Out.Verbose && t.Env.Out.Out != nil {
			t.Env.Out.Out.Printf("new package %s from %s", nv, r)
		}
	}
	return nil
}

// syncGitRemote clones dir fresh if it doesn't exist yet, or pulls it
// up to date otherwise, using github.com/Masterminds/vcs for both. This is
// the client-side half of a git-scheme remote: the repository itself is
// expected to hold one spec file per package release, laid out the same
// way index/ does locally (dirServer reads it with that assumption).
func syncGitRemote(dir string, r Remote) error {
	url := strings.TrimPrefix(r.String(), "git+")
	repo, err := vcs.NewGitRepo(url, dir)
	if err != nil {
		return errors.Wrapf(ErrUnknownGitRepo, "%s: %s", r, err)
	}
	if !repo.CheckLocal() {
		if err := os.MkdirAll(filepath.Dir(dir), 0755); err != nil {
			return err
		}
		return errors.Wrapf(repo.Get(), "cloning %s", r)
	}
	return errors.Wrapf(repo.Update(), "pulling %s", r)
}
