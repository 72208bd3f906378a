package opam

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

const notInstalledMarker = "--"

// ListEntry is one projected row of `list` (spec §4.6).
type ListEntry struct {
	Name               string
	Version            string // notInstalledMarker if nothing is installed
	Installed          bool
	FirstDescriptionLine string
}

// List projects the index into one row per package name: the installed
// version if any, else the first version seen (spec §4.6 "list").
func List(t T) ([]ListEntry, error) {
	installed, err := Installed(t)
	if err != nil {
		return nil, err
	}
	pkgs, err := AvailablePackages(t)
	if err != nil {
		return nil, err
	}

	chosen := map[string]NV{}
	for _, p := range pkgs {
		if cur, ok := installed[p.NV.Name]; ok {
			chosen[p.NV.Name] = cur
			continue
		}
		if _, ok := chosen[p.NV.Name]; !ok {
			chosen[p.NV.Name] = p.NV
		}
	}

	names := make([]string, 0, len(chosen))
	for n := range chosen {
		names = append(names, n)
	}
	sort.Strings(names)

	out := make([]ListEntry, 0, len(names))
	for _, n := range names {
		nv := chosen[n]
		_, isInstalled := installed[n]
		entry := ListEntry{Name: n, Installed: isInstalled}
		if isInstalled {
			entry.Version = nv.Version.String()
		} else {
			entry.Version = notInstalledMarker
		}
		if s, err := FindSpec(t, nv); err == nil && s != nil {
			entry.FirstDescriptionLine = firstLine(s.Description)
		}
		out = append(out, entry)
	}
	return out, nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// RenderList formats entries the way spec §4.6 describes: names left-padded
// to the max name width, versions right-padded to max(installed-version
// width, width of "--"). This is computed by hand rather than via
// text/tabwriter — see DESIGN.md's Open Question decision.
func RenderList(out io.Writer, entries []ListEntry) {
	nameWidth, verWidth := 0, len(notInstalledMarker)
	for _, e := range entries {
		if len(e.Name) > nameWidth {
			nameWidth = len(e.Name)
		}
		if len(e.Version) > verWidth {
			verWidth = len(e.Version)
		}
	}
	for _, e := range entries {
		fmt.Fprintf(out, "%-*s  %-*s  %s\n", nameWidth, e.Name, verWidth, e.Version, e.FirstDescriptionLine)
	}
}

// Info resolves spec §4.6's `info name`.
type Info struct {
	Name             string
	InstalledVersion *Version
	OtherVersions    []Version
	Description      string
}

func ResolveInfo(t T, name string) (Info, error) {
	installed, err := Installed(t)
	if err != nil {
		return Info{}, err
	}
	pkgs, err := AvailablePackages(t)
	if err != nil {
		return Info{}, err
	}

	var versions []Version
	for _, p := range pkgs {
		if p.NV.Name == name {
			versions = append(versions, p.NV.Version)
		}
	}
	if len(versions) == 0 {
		return Info{}, errors.Wrapf(&UnknownPackageError{Name: name}, "info")
	}
	sort.Slice(versions, func(i, j int) bool { return versions[i].Compare(versions[j]) < 0 })

	info := Info{Name: name}
	cur, isInstalled := installed[name]
	descTarget := versions[len(versions)-1]
	if isInstalled {
		v := cur.Version
		info.InstalledVersion = &v
		descTarget = v
	}
	for _, v := range versions {
		if isInstalled && v.Compare(cur.Version) == 0 {
			continue
		}
		info.OtherVersions = append(info.OtherVersions, v)
	}
	if s, err := FindSpec(t, NV{Name: name, Version: descTarget}); err == nil && s != nil {
		info.Description = firstLine(s.Description)
	}
	return info, nil
}

// ConfigKind selects the flag kind of `config [-r]
// {--include|--bytelink|--asmlink} names...` (spec §4.6).
type ConfigKind int

const (
	ConfigInclude ConfigKind = iota
	ConfigBytelink
	ConfigAsmlink
)

// Config renders the `-I`/link-flag string for the requested names,
// expanding to the backward-dependency closure first when recursive is
// set (spec §4.6: "computed by the external solver").
func Config(t T, solver Solver, kind ConfigKind, recursive bool, names []string, linkOpts string) (string, error) {
	installed, err := Installed(t)
	if err != nil {
		return "", err
	}

	targets := names
	if recursive {
		pkgs, err := AvailablePackages(t)
		if err != nil {
			return "", err
		}
		expanded, err := solver.FilterBackwardDependencies(pkgs, names)
		if err != nil {
			return "", err
		}
		seen := map[string]bool{}
		targets = nil
		for _, p := range expanded {
			if !seen[p.NV.Name] {
				seen[p.NV.Name] = true
				targets = append(targets, p.NV.Name)
			}
		}
	}

	var parts []string
	for _, n := range targets {
		if _, ok := installed[n]; !ok {
			return "", errors.Wrapf(&UnknownPackageError{Name: n}, "config")
		}
		libPath := t.packageLibDir(n)
		switch kind {
		case ConfigInclude:
			parts = append(parts, fmt.Sprintf("-I %s", libPath))
		case ConfigBytelink:
			// NOTE: per spec §9, bytelink and asmlink are both populated
			// from the same link_options field upstream — preserved
			// literally here rather than fixed. See DESIGN.md.
			parts = append(parts, fmt.Sprintf("-I %s %s %s.cma", libPath, linkOpts, n))
		case ConfigAsmlink:
			parts = append(parts, fmt.Sprintf("-I %s %s %s.cmxa", libPath, linkOpts, n))
		}
	}
	return strings.Join(parts, " "), nil
}
