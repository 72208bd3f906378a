package opam

import (
	"archive/tar"
	"bufio"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Upload implements spec §4.5's upload(name_or_file): resolve the spec,
// locate or synthesize its archive, then push to every configured
// non-git remote plus the local mirror.
func Upload(t T, specArg, workDir string, out io.Writer, in *bufio.Reader) error {
	specPath := specArg
	if !strings.HasSuffix(specPath, ".spec") {
		specPath += ".spec"
	}
	if !filepath.IsAbs(specPath) {
		specPath = filepath.Join(workDir, specPath)
	}
	raw, err := ioutil.ReadFile(specPath)
	if err != nil {
		return errors.Wrapf(err, "reading spec %s", specPath)
	}
	spec, err := ReadSpec(raw)
	if err != nil {
		return err
	}
	nv := NV{Name: spec.Name}
	nv.Version, err = ParseVersion(spec.Version)
	if err != nil {
		return errors.Wrapf(err, "spec %s has invalid version", specPath)
	}

	archive, err := locateOrBuildArchive(spec, nv, workDir)
	if err != nil {
		return err
	}

	nonGit := make([]Remote, 0, len(t.Remotes))
	for _, r := range t.Remotes {
		if r.Scheme != SchemeGit {
			nonGit = append(nonGit, r)
		}
	}

	type target struct {
		label string
		srv   Server
	}
	targets := make([]target, 0, len(nonGit)+1)
	for _, r := range nonGit {
		ok := true
		if len(nonGit) > 1 {
			ok, err = confirm(out, in, fmt.Sprintf("Upload to %s ?", r.Hostname))
			if err != nil {
				return err
			}
		}
		if ok {
			srv, err := t.serverFor(r)
			if err != nil {
				return err
			}
			targets = append(targets, target{label: r.Hostname, srv: srv})
		}
	}
	targets = append(targets, target{label: "local", srv: LocalMirror(t)})

	key, hasKey, err := findKey(t, nv.Name)
	if err != nil {
		return err
	}

	if !hasKey {
		var issued string
		for _, tg := range targets {
			k, err := tg.srv.NewArchive(nv, raw, archive)
			if err != nil {
				return errors.Wrapf(err, "publishing to %s", tg.label)
			}
			if k == "" {
				continue
			}
			if issued == "" {
				issued = k
			} else if issued != k {
				return errors.Wrapf(ErrKeyMismatch, "%s and a prior remote disagree", tg.label)
			}
		}
		if issued != "" {
			if err := storeKey(t, nv.Name, issued); err != nil {
				return err
			}
		}
		return nil
	}

	for _, tg := range targets {
		if err := tg.srv.UpdateArchive(nv, raw, archive, key); err != nil {
			return errors.Wrapf(err, "publishing to %s", tg.label)
		}
	}
	return nil
}

// locateOrBuildArchive finds name-version.tar.gz in workDir, or
// synthesizes one from the spec's declared urls + local patches (spec
// §4.5 step 2).
func locateOrBuildArchive(spec Spec, nv NV, workDir string) ([]byte, error) {
	archivePath := filepath.Join(workDir, nv.String()+".tar.gz")
	if b, err := ioutil.ReadFile(archivePath); err == nil {
		return b, nil
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	if len(spec.URLs) == 0 {
		return nil, errors.Errorf("no location specified for %s.tar.gz", nv)
	}

	var hasLocal, hasExternal bool
	for _, p := range spec.Patches {
		if p.IsExternal() {
			hasExternal = true
		} else {
			hasLocal = true
		}
	}
	if hasLocal && hasExternal {
		return nil, ErrMixedPatchesUnsupported
	}
	if hasExternal {
		// Only external patches: publish without a locally-repacked archive.
		return nil, nil
	}

	td, err := ioutil.TempDir("", "opam-publish")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(td)

	var first []byte
	for _, u := range spec.URLs {
		b, err := fetchURL(u)
		if err == nil {
			first = b
			break
		}
	}
	if first == nil {
		return nil, errors.Errorf("could not fetch any of %v", spec.URLs)
	}
	if err := extractTarGz(first, td); err != nil {
		return nil, errors.Wrap(err, "extracting source for repack")
	}
	if err := applyLocalPatches(spec, td); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tarGzDir(td, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func fetchURL(u string) ([]byte, error) {
	resp, err := http.Get(u)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("%s: %s", u, resp.Status)
	}
	return ioutil.ReadAll(resp.Body)
}

// tarGzDir tars and gzips src into w, grounded on cmd/dep/publish.go's
// tarFiles walk-and-write pattern.
func tarGzDir(src string, w io.Writer) error {
	gzw := gzip.NewWriter(w)
	defer gzw.Close()
	tw := tar.NewWriter(gzw)
	defer tw.Close()

	return filepath.Walk(src, func(file string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		hdr, err := tar.FileInfoHeader(fi, fi.Name())
		if err != nil {
			return err
		}
		hdr.Name = strings.TrimPrefix(strings.TrimPrefix(file, src), string(filepath.Separator))
		if hdr.Name == "" {
			return nil
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if fi.IsDir() {
			return nil
		}
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(tw, f)
		return err
	})
}
