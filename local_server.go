package opam

import (
	"crypto/rand"
	"encoding/hex"
	"path/filepath"

	"github.com/pkg/errors"
)

// localServer is the "local mirror" spec §4.5 step 4 calls out: an
// in-process Server rooted at the client's own index/, so every published
// package is immediately available to this client without a round trip.
type localServer struct {
	t T
}

// LocalMirror returns the local mirror Server for t.
func LocalMirror(t T) Server { return &localServer{t: t} }

func (s *localServer) List() ([]NV, error) {
	pkgs, err := AvailablePackages(s.t)
	if err != nil {
		return nil, err
	}
	out := make([]NV, 0, len(pkgs))
	for _, p := range pkgs {
		out = append(out, p.NV)
	}
	return out, nil
}

func (s *localServer) GetSpec(nv NV) ([]byte, error) {
	b, err := FindSpec(s.t, nv)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, errors.Wrapf(&UnknownPackageError{Name: nv.Name}, "no local spec for %s", nv)
	}
	return WriteSpec(*b)
}

func (s *localServer) GetArchive(nv NV) ([]byte, bool, error) {
	srv := newDirServer(s.t.indexDir())
	return srv.GetArchive(nv)
}

func (s *localServer) NewArchive(nv NV, spec, archive []byte) (string, error) {
	if err := s.store(nv, spec, archive); err != nil {
		return "", err
	}
	return newKey()
}

func (s *localServer) UpdateArchive(nv NV, spec, archive []byte, key string) error {
	return s.store(nv, spec, archive)
}

func (s *localServer) store(nv NV, spec, archive []byte) error {
	if err := WriteSpecFile(s.t, nv, spec); err != nil {
		return err
	}
	return writeFileAtomic(filepath.Join(s.t.packageIndexDir(nv), "archive"), archive, 0644)
}

func newKey() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Wrap(err, "generating key")
	}
	return hex.EncodeToString(b), nil
}
