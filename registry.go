package opam

import "github.com/pkg/errors"

// RemoteList renders each remote the way `remote list` does (spec §4.7):
// git remotes prefixed "git ", others "OPAM ".
func RemoteList(t T) []string {
	out := make([]string, 0, len(t.Remotes))
	for _, r := range t.Remotes {
		prefix := "OPAM "
		if r.Scheme == SchemeGit {
			prefix = "git "
		}
		out = append(out, prefix+r.String())
	}
	return out
}

// RemoteAdd prepends a new opam-scheme remote, rejecting duplicates.
func RemoteAdd(t *T, url string) error {
	return remoteAdd(t, url, SchemeOpam)
}

// RemoteAddGit prepends a new git-scheme remote, rejecting duplicates.
func RemoteAddGit(t *T, url string) error {
	return remoteAdd(t, url, SchemeGit)
}

func remoteAdd(t *T, url string, scheme Scheme) error {
	r, err := ParseRemote(url)
	if err != nil {
		return err
	}
	r.Scheme = scheme
	for _, existing := range t.Remotes {
		if existing.Equal(r) {
			return errors.Wrapf(ErrDuplicateRemote, "%s", url)
		}
	}
	t.Remotes = append([]Remote{r}, t.Remotes...)
	return persistRemotes(*t)
}

// RemoteRm removes every remote whose rendered URL or hostname equals s. It
// is not an error for nothing to match (spec §4.7).
func RemoteRm(t *T, s string) error {
	kept := t.Remotes[:0:0]
	for _, r := range t.Remotes {
		if !r.Matches(s) {
			kept = append(kept, r)
		}
	}
	t.Remotes = kept
	return persistRemotes(*t)
}

func persistRemotes(t T) error {
	cfg, err := readConfig(t.Env.Root)
	if err != nil {
		return err
	}
	cfg.Remotes = t.Remotes
	return writeConfig(t.Env.Root, cfg)
}
