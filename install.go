package opam

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	shutil "github.com/termie/go-shutil"
)

// copyTreeOpts routes lib/misc installs through go-shutil's CopyTree rather
// than a hand-rolled walk, so symlinked build artifacts survive the copy.
var copyTreeOpts = &shutil.CopyTreeOptions{
	Symlinks:               true,
	IgnoreDanglingSymlinks: true,
}

// installManifest applies a build's to_install manifest into lib/, bin/
// (spec §4.4 step 6). Misc entries are confirmed interactively before
// copying, matching "print Copy <descriptor>. and prompt Continue ?".
func installManifest(t T, nv NV, m ToInstallManifest, buildDir string, out io.Writer, in *bufio.Reader) error {
	libDest := t.packageLibDir(nv.Name)
	for _, d := range m.Lib {
		src := filepath.Join(buildDir, d.Source)
		dest := filepath.Join(libDest, filepath.Base(d.Source))
		if err := os.MkdirAll(libDest, 0755); err != nil {
			return errors.Wrapf(err, "creating lib dir for %s", nv.Name)
		}
		if isDir, _ := IsDir(src); isDir {
			if err := shutil.CopyTree(src, dest, copyTreeOpts); err != nil {
				return errors.Wrapf(err, "copying %s into lib/%s", d.Source, nv.Name)
			}
		} else if err := shutil.CopyFile(src, dest, false); err != nil {
			return errors.Wrapf(err, "copying %s into lib/%s", d.Source, nv.Name)
		}
	}

	for _, b := range m.Bin {
		matches, err := filepath.Glob(filepath.Join(buildDir, b.Source))
		if err != nil {
			return errors.Wrapf(ErrInvalidBinPattern, "%s: %s", b.Source, err)
		}
		if len(matches) != 1 {
			return errors.Wrapf(ErrInvalidBinPattern, "%q resolved to %d files, want exactly 1", b.Source, len(matches))
		}
		if b.ProgramName == "" || filepath.Base(b.ProgramName) != b.ProgramName {
			return errors.Wrapf(ErrInvalidProgramName, "%q", b.ProgramName)
		}
		if err := os.MkdirAll(t.binDir(), 0755); err != nil {
			return err
		}
		dest := filepath.Join(t.binDir(), b.ProgramName)
		if err := shutil.CopyFile(matches[0], dest, true); err != nil {
			return errors.Wrapf(err, "installing bin %s", b.ProgramName)
		}
		if err := os.Chmod(dest, 0755); err != nil {
			return err
		}
	}

	for _, d := range m.Misc {
		ok, err := confirm(out, in, fmt.Sprintf("Copy %s.\nContinue ?", d))
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		src := filepath.Join(buildDir, d.Source)
		for _, dest := range d.Destinations {
			if isDir, _ := IsDir(src); isDir {
				if err := shutil.CopyTree(src, dest, copyTreeOpts); err != nil {
					return errors.Wrapf(err, "copying %s to %s", d.Source, dest)
				}
			} else if err := shutil.CopyFile(src, dest, true); err != nil {
				return errors.Wrapf(err, "copying %s to %s", d.Source, dest)
			}
		}
	}

	return WriteToInstall(t, nv, m)
}

// removeManifest undoes installManifest for a package being deleted (spec
// §4.4 "Delete"): remove lib/<n>/, every installed binary, and prompt per
// absolute misc destination before removing it.
func removeManifest(t T, nv NV, out io.Writer, in *bufio.Reader) error {
	m, err := FindToInstall(t, nv)
	if err != nil {
		return err
	}
	if m == nil {
		return os.RemoveAll(t.packageLibDir(nv.Name))
	}

	if err := os.RemoveAll(t.packageLibDir(nv.Name)); err != nil {
		return errors.Wrapf(err, "removing lib/%s", nv.Name)
	}

	for _, b := range m.Bin {
		if err := os.Remove(filepath.Join(t.binDir(), b.ProgramName)); err != nil && !os.IsNotExist(err) {
			return errors.Wrapf(err, "removing bin/%s", b.ProgramName)
		}
	}

	for _, d := range m.Misc {
		for _, dest := range d.Destinations {
			ok, err := confirm(out, in, fmt.Sprintf("The complete directory '%s' will be removed. Continue ?", dest))
			if err != nil {
				return err
			}
			if ok {
				if err := os.RemoveAll(dest); err != nil {
					return errors.Wrapf(err, "removing %s", dest)
				}
			}
		}
	}

	return RemoveToInstall(t, nv)
}
