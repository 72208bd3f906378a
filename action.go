package opam

import (
	"archive/tar"
	"bufio"
	"bytes"
	"compress/gzip"
	"io"
	"io/ioutil"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/pkg/errors"
)

// ApplySolution runs every batch of sol in order, every action of a batch
// in order (spec §4.4). It holds the coarse root lock for the whole
// solution, matching §5's "no internal scheduling" synchronous model.
func ApplySolution(t T, sol Solution, out io.Writer, in *bufio.Reader) error {
	return withRootLock(t.Env, func() error {
		for _, batch := range sol {
			for _, a := range batch {
				if err := applyAction(t, a, out, in); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func applyAction(t T, a Action, out io.Writer, in *bufio.Reader) error {
	switch a.Kind {
	case ActionDelete:
		return deleteNV(t, a.NV.Name, a.NV.Version, out, in)
	case ActionRecompile:
		return changeNV(t, &a.NV, a.NV, out, in)
	default:
		return changeNV(t, a.WasInstalled, a.NV, out, in)
	}
}

// deleteNV is spec §4.4's Delete(n, v0): a no-op if installed[n] isn't v0.
func deleteNV(t T, n string, v0 Version, out io.Writer, in *bufio.Reader) error {
	installed, err := Installed(t)
	if err != nil {
		return err
	}
	cur, ok := installed[n]
	if !ok || cur.Version.Compare(v0) != 0 {
		return nil
	}

	if err := removeManifest(t, NV{Name: n, Version: v0}, out, in); err != nil {
		return err
	}

	delete(installed, n)
	return writeInstalled(t.Env.Root, installed)
}

// changeNV is spec §4.4's Change(was, (n,v)).
func changeNV(t T, was *NV, nv NV, out io.Writer, in *bufio.Reader) error {
	if was != nil {
		if err := deleteNV(t, was.Name, was.Version, out, in); err != nil {
			return err
		}
	}

	spec, err := FindSpecErr(t, nv)
	if err != nil {
		return err
	}

	buildDir := t.packageBuildDir(nv)
	if err := os.RemoveAll(buildDir); err != nil {
		return errors.Wrapf(err, "clearing build dir for %s", nv)
	}
	if err := os.MkdirAll(buildDir, 0755); err != nil {
		return err
	}

	archive, err := fetchArchive(t, nv, spec)
	if err != nil {
		return err
	}
	if err := extractTarGz(archive, buildDir); err != nil {
		return errors.Wrapf(err, "extracting archive for %s", nv)
	}
	if err := applyLocalPatches(spec, buildDir); err != nil {
		return err
	}

	if err := runBuild(t, nv, spec, buildDir, out); err != nil {
		return err
	}

	m, err := FindToInstall(t, nv)
	if err != nil {
		return err
	}
	if m == nil {
		m = &ToInstallManifest{}
	}
	if err := installManifest(t, nv, *m, buildDir, out, in); err != nil {
		return err
	}

	installed, err := Installed(t)
	if err != nil {
		return err
	}
	installed[nv.Name] = nv
	return writeInstalled(t.Env.Root, installed)
}

// fetchArchive probes configured remotes in order (spec §4.4 step 3), then
// falls back to the spec's declared urls.
func fetchArchive(t T, nv NV, spec Spec) ([]byte, error) {
	for _, r := range t.Remotes {
		srv, err := t.serverFor(r)
		if err != nil {
			return nil, err
		}
		b, ok, err := srv.GetArchive(nv)
		if err != nil {
			continue
		}
		if ok {
			return b, nil
		}
	}

	for _, u := range spec.URLs {
		resp, err := http.Get(u)
		if err != nil {
			continue
		}
		b, err := ioutil.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil || resp.StatusCode != http.StatusOK {
			continue
		}
		return b, nil
	}

	return nil, errors.Errorf("no location specified for %s.tar.gz", nv)
}

// applyLocalPatches runs `patch -p1` for each non-external patch in the
// freshly extracted source tree. External patches are not fetched here —
// they're an upload-time (§4.5) local/external distinction, not something
// C4 resolves for you at install time.
func applyLocalPatches(spec Spec, dir string) error {
	for _, p := range spec.Patches {
		if p.IsExternal() {
			continue
		}
		cmd := exec.Command("patch", "-p1", "-i", p.Path)
		cmd.Dir = dir
		if out, err := cmd.CombinedOutput(); err != nil {
			return errors.Wrapf(err, "applying patch %s: %s", p.Path, out)
		}
	}
	return nil
}

func runBuild(t T, nv NV, spec Spec, buildDir string, out io.Writer) error {
	for _, line := range spec.Build {
		cmd := exec.Command("sh", "-c", line)
		cmd.Dir = buildDir
		cmd.Stdout = out
		cmd.Stderr = out
		if err := cmd.Run(); err != nil {
			code := 1
			if ee, ok := err.(*exec.ExitError); ok {
				code = ee.ExitCode()
			}
			return &BuildFailedError{NV: nv, Code: code}
		}
	}
	return nil
}

func extractTarGz(archive []byte, dest string) error {
	gz, err := gzip.NewReader(bytes.NewReader(archive))
	if err != nil {
		return err
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		target := filepath.Join(dest, hdr.Name)
		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, os.FileMode(hdr.Mode)); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return err
			}
			f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(hdr.Mode))
			if err != nil {
				return err
			}
			if _, err := io.Copy(f, tr); err != nil {
				f.Close()
				return err
			}
			f.Close()
		}
	}
}
