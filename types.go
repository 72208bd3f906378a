package opam

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/pkg/errors"
)

// HeadState describes how a git-tracked package's checked-out revision
// relates to its remote.
type HeadState int

const (
	// HeadUnknown means the relationship to the remote has not been checked.
	HeadUnknown HeadState = iota
	// HeadUpToDate means the local clone matches the remote's tip.
	HeadUpToDate
	// HeadBehind means the remote has commits the local clone lacks.
	HeadBehind
)

func (s HeadState) String() string {
	switch s {
	case HeadUpToDate:
		return "uptodate"
	case HeadBehind:
		return "behind"
	default:
		return "unknown"
	}
}

// Version is either an ordinary, totally-ordered release version, or the
// distinguished Head tag used for git-tracked packages.
type Version struct {
	ordinary string
	semver   *semver.Version
	isHead   bool
	head     HeadState
}

// ParseVersion parses an ordinary version string. Use Head to construct the
// distinguished git-tracked sentinel instead.
func ParseVersion(v string) (Version, error) {
	if v == "" {
		return Version{}, errors.New("empty version")
	}
	sv, err := semver.NewVersion(v)
	if err != nil {
		// Not every package spec's version string is semver-shaped (the
		// upstream opam corpus allows arbitrary tokens); fall back to a
		// lexically-ordered version rather than rejecting it outright.
		return Version{ordinary: v}, nil
	}
	return Version{ordinary: v, semver: sv}, nil
}

// Head returns the distinguished Head version with the given sub-state.
func Head(state HeadState) Version {
	return Version{ordinary: "Head", isHead: true, head: state}
}

// IsHead reports whether this is the git-tracked sentinel version.
func (v Version) IsHead() bool { return v.isHead }

// HeadState returns the git-tracked sub-state. Meaningless if !IsHead().
func (v Version) HeadState() HeadState { return v.head }

// WithHeadState returns a copy of a Head version with a new sub-state.
func (v Version) WithHeadState(s HeadState) Version {
	v.head = s
	return v
}

// String renders the version the way it appears on disk (in NV strings,
// directory names, etc).
func (v Version) String() string {
	if v.isHead {
		return "Head"
	}
	return v.ordinary
}

// Compare orders two versions. Head sorts after every ordinary version,
// comparing only by sub-state (behind < unknown < uptodate) against
// another Head; comparing an ordinary version against Head is undefined
// by the domain spec module and here resolves to "ordinary < Head".
func (v Version) Compare(o Version) int {
	if v.isHead && o.isHead {
		rank := func(s HeadState) int {
			switch s {
			case HeadBehind:
				return 0
			case HeadUnknown:
				return 1
			default:
				return 2
			}
		}
		return rank(v.head) - rank(o.head)
	}
	if v.isHead != o.isHead {
		if v.isHead {
			return 1
		}
		return -1
	}
	if v.semver != nil && o.semver != nil {
		return v.semver.Compare(o.semver)
	}
	return strings.Compare(v.ordinary, o.ordinary)
}

// NV is a package identity: a (Name, Version) pair.
type NV struct {
	Name    string
	Version Version
}

func (nv NV) String() string {
	return fmt.Sprintf("%s-%s", nv.Name, nv.Version)
}

// ParseNV parses a "name-version" user-supplied string, as accepted by
// `install name-version`. Name is taken greedily up to the last '-' that
// leaves a parseable version remainder, since package names may themselves
// contain hyphens.
func ParseNV(s string) (NV, error) {
	idx := strings.LastIndex(s, "-")
	for idx > 0 {
		name, rest := s[:idx], s[idx+1:]
		if v, err := ParseVersion(rest); err == nil {
			return NV{Name: name, Version: v}, nil
		}
		idx = strings.LastIndex(s[:idx], "-")
	}
	return NV{}, errors.Wrapf(ErrInvalidNVString, "%q", s)
}

// Scheme identifies the wire protocol a Remote speaks.
type Scheme int

const (
	// SchemeOpam is the plain HTTP index-server protocol.
	SchemeOpam Scheme = iota
	// SchemeGit is a git-hosted index, cloned and pulled directly.
	SchemeGit
)

// Remote is a configured package index server.
type Remote struct {
	Hostname string
	Port     string // optional, empty if default
	Scheme   Scheme
	raw      string // the URL exactly as the user supplied it
}

// ParseRemote parses a remote URL string into a Remote, tagging it opam or
// git based on the scheme prefix ("git://", ".git" suffix, or an explicit
// "git+http(s)://" wrapper all count as git-scheme).
func ParseRemote(raw string) (Remote, error) {
	scheme := SchemeOpam
	rest := raw
	switch {
	case strings.HasPrefix(raw, "git+"):
		scheme = SchemeGit
		rest = strings.TrimPrefix(raw, "git+")
	case strings.HasPrefix(raw, "git://"):
		scheme = SchemeGit
	case strings.HasSuffix(raw, ".git"):
		scheme = SchemeGit
	}

	host, port := rest, ""
	if i := strings.Index(rest, "://"); i >= 0 {
		host = rest[i+3:]
	}
	if i := strings.IndexAny(host, "/"); i >= 0 {
		host = host[:i]
	}
	if i := strings.LastIndex(host, ":"); i >= 0 {
		port = host[i+1:]
		host = host[:i]
	}
	if host == "" {
		return Remote{}, errors.Errorf("remote URL %q has no hostname", raw)
	}

	return Remote{Hostname: host, Port: port, Scheme: scheme, raw: raw}, nil
}

// String renders the remote's original URL form.
func (r Remote) String() string { return r.raw }

// Equal implements the §3 equality rule: two remotes are equal iff their
// rendered string form is equal OR their hostnames match.
func (r Remote) Equal(o Remote) bool {
	return r.raw == o.raw || (r.Hostname != "" && r.Hostname == o.Hostname)
}

// Matches reports whether s names this remote, either by exact rendered
// URL or by bare hostname — the lookup rule `remote rm` uses (§4.7).
func (r Remote) Matches(s string) bool {
	return r.raw == s || r.Hostname == s
}
