package opam

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
)

// installedEntry is one row of the `installed` file (spec §3: "a mapping
// Name → Version; keys unique; at most one installed version per name").
type installedEntry struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
	IsHead  bool   `toml:"head,omitempty"`
	Head    string `toml:"head-state,omitempty"`
}

type rawInstalled struct {
	Packages []installedEntry `toml:"package"`
}

func readInstalled(root string) (map[string]NV, error) {
	path := filepath.Join(root, installedFileName)
	b, err := ioutil.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]NV{}, nil
		}
		return nil, errors.Wrap(err, "reading installed set")
	}
	var raw rawInstalled
	if err := toml.Unmarshal(b, &raw); err != nil {
		return nil, errors.Wrap(err, "parsing installed set as TOML")
	}

	out := make(map[string]NV, len(raw.Packages))
	for _, e := range raw.Packages {
		var v Version
		if e.IsHead {
			var hs HeadState
			switch e.Head {
			case "uptodate":
				hs = HeadUpToDate
			case "behind":
				hs = HeadBehind
			default:
				hs = HeadUnknown
			}
			v = Head(hs)
		} else {
			v, err = ParseVersion(e.Version)
			if err != nil {
				return nil, errors.Wrapf(err, "parsing installed version for %s", e.Name)
			}
		}
		out[e.Name] = NV{Name: e.Name, Version: v}
	}
	return out, nil
}

// writeInstalled rewrites the installed set atomically (spec §5 invariant).
func writeInstalled(root string, installed map[string]NV) error {
	names := make([]string, 0, len(installed))
	for n := range installed {
		names = append(names, n)
	}
	sort.Strings(names)

	raw := rawInstalled{Packages: make([]installedEntry, 0, len(names))}
	for _, n := range names {
		nv := installed[n]
		e := installedEntry{Name: n}
		if nv.Version.IsHead() {
			e.IsHead = true
			e.Head = nv.Version.HeadState().String()
		} else {
			e.Version = nv.Version.String()
		}
		raw.Packages = append(raw.Packages, e)
	}

	b, err := toml.Marshal(raw)
	if err != nil {
		return errors.Wrap(err, "marshaling installed set to TOML")
	}
	return writeFileAtomic(filepath.Join(root, installedFileName), b, 0644)
}

// Installed returns the current installed mapping, re-derived from disk —
// the snapshot T holds no package data itself (spec §3).
func Installed(t T) (map[string]NV, error) {
	return readInstalled(t.Env.Root)
}
