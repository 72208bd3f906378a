package opam

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Spec is the declarative description of a package release. Its on-disk
// format is, per spec §6, "owned by the external spec module" — this type
// is the narrow shape the core actually reads off of it: dependencies
// aren't modeled here at all, since only the external solver (§1 non-goal)
// ever needs them.
type Spec struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description,omitempty"`
	URLs        []string `json:"urls,omitempty"`
	Patches     []Patch  `json:"patches,omitempty"`
	Build       []string `json:"build"`
}

// Patch is one patch file declared by a spec, tagged local or external so
// the publisher can tell whether it can repack the source tree itself
// (spec §4.5's "all patches are local" / "mixed local+external" rule).
type Patch struct {
	Path       string `json:"path"`
	ExternalURL string `json:"external_url,omitempty"`
}

// IsExternal reports whether this patch must be fetched from a URL rather
// than read from the local working directory.
func (p Patch) IsExternal() bool { return p.ExternalURL != "" }

// ToInstallManifest is produced by a package's build step and consumed by
// the installer/remover (spec §3 glossary: "to_install manifest").
type ToInstallManifest struct {
	Lib  []MoveDescriptor `json:"lib,omitempty"`
	Bin  []BinDescriptor  `json:"bin,omitempty"`
	Misc []MoveDescriptor `json:"misc,omitempty"`
}

// MoveDescriptor names a source (relative to the build tree) and an
// optional list of absolute destinations it should be copied to (misc) or
// a single implied destination under lib/<n>/ (lib).
type MoveDescriptor struct {
	Source       string   `json:"source"`
	Destinations []string `json:"destinations,omitempty"`
}

// String renders a MoveDescriptor the way the installer's confirmation
// prompt shows it (spec §4.4 step 6: `"Copy <move descriptor>."`).
func (m MoveDescriptor) String() string {
	if len(m.Destinations) == 0 {
		return m.Source
	}
	s := m.Source + " ->"
	for _, d := range m.Destinations {
		s += " " + d
	}
	return s
}

// BinDescriptor is one `bin` entry: a source path resolved from the build
// tree (possibly a glob) and the destination program name it installs as.
type BinDescriptor struct {
	Source      string `json:"source"`
	ProgramName string `json:"program_name"`
}

// ReadSpec parses spec bytes (spec §6: "read ... find, find_err semantics").
func ReadSpec(b []byte) (Spec, error) {
	var s Spec
	if err := json.Unmarshal(b, &s); err != nil {
		return Spec{}, errors.Wrap(err, "parsing spec")
	}
	return s, nil
}

// WriteSpec serializes a spec back to bytes, used by the publisher when it
// needs to re-emit a spec alongside a synthesized archive.
func WriteSpec(s Spec) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// FindSpec looks up the spec file for nv under index/, returning
// (nil, nil) if absent — the "find" (non-erroring) half of §6's contract.
func FindSpec(t T, nv NV) (*Spec, error) {
	path := filepath.Join(t.packageIndexDir(nv), "spec")
	b, err := ioutil.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "reading spec for %s", nv)
	}
	s, err := ReadSpec(b)
	if err != nil {
		return nil, errors.Wrapf(err, "spec for %s", nv)
	}
	return &s, nil
}

// FindSpecErr is FindSpec's "err" variant: absence is itself the error
// (§6's "find_err ... failing when absent").
func FindSpecErr(t T, nv NV) (Spec, error) {
	s, err := FindSpec(t, nv)
	if err != nil {
		return Spec{}, err
	}
	if s == nil {
		return Spec{}, errors.Wrapf(&UnknownPackageError{Name: nv.Name}, "no spec for %s", nv)
	}
	return *s, nil
}

// WriteSpecFile atomically writes spec bytes under index/(n,v)/spec (spec
// §4.2: "write it atomically").
func WriteSpecFile(t T, nv NV, raw []byte) error {
	dir := t.packageIndexDir(nv)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "creating index dir for %s", nv)
	}
	return writeFileAtomic(filepath.Join(dir, "spec"), raw, 0644)
}

// SpecExists reports whether index/(n,v)/spec is already present, without
// reading it — used by the aggregator to decide whether a fetch is needed
// (spec §4.2: "specs already present are never re-fetched").
func SpecExists(t T, nv NV) (bool, error) {
	return IsRegular(filepath.Join(t.packageIndexDir(nv), "spec"))
}

// FindToInstall loads the to_install manifest for an installed nv.
func FindToInstall(t T, nv NV) (*ToInstallManifest, error) {
	b, err := ioutil.ReadFile(t.packageToInstallPath(nv))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "reading to_install manifest for %s", nv)
	}
	var m ToInstallManifest
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, errors.Wrapf(err, "parsing to_install manifest for %s", nv)
	}
	return &m, nil
}

// WriteToInstall persists the manifest a build step produced, ready for
// the installer to consume (spec §3: "consumed by installer/remover").
func WriteToInstall(t T, nv NV, m ToInstallManifest) error {
	if err := os.MkdirAll(t.toInstallDir(), 0755); err != nil {
		return err
	}
	if err := writeJSONAtomic(t.packageToInstallPath(nv), m); err != nil {
		return errors.Wrapf(err, "writing to_install manifest for %s", nv)
	}
	return nil
}

// RemoveToInstall deletes the manifest once its package has been removed.
func RemoveToInstall(t T, nv NV) error {
	err := os.Remove(t.packageToInstallPath(nv))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "removing to_install manifest for %s", nv)
	}
	return nil
}
