package opam

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"path"

	"github.com/pkg/errors"
)

// Server is the remote server contract (spec §6): "both opam and git
// backends expose the opam contract." The wire protocol itself is out of
// scope (spec §1) — this is one concrete, reasonable implementation of it
// over plain HTTP/JSON, grounded on cmd/dep/publish.go's
// net/http-with-bearer-token upload pattern.
type Server interface {
	List() ([]NV, error)
	GetSpec(nv NV) ([]byte, error)
	// GetArchive returns (nil, false, nil) when the remote has no archive
	// for nv — "get_archive((n,v)) → archive bytes or none" (§6).
	GetArchive(nv NV) ([]byte, bool, error)
	NewArchive(nv NV, spec, archive []byte) (key string, err error)
	UpdateArchive(nv NV, spec, archive []byte, key string) error
}

// httpServer is the default Server backed by an HTTP index server.
type httpServer struct {
	base string
}

// NewHTTPServer builds the default opam-scheme Server client for baseURL.
func NewHTTPServer(baseURL string) Server {
	return &httpServer{base: baseURL}
}

func (s *httpServer) endpoint(parts ...string) (string, error) {
	u, err := url.Parse(s.base)
	if err != nil {
		return "", errors.Wrapf(err, "parsing remote URL %q", s.base)
	}
	segs := append([]string{u.Path}, parts...)
	u.Path = path.Join(segs...)
	return u.String(), nil
}

type indexEntry struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

func (s *httpServer) List() ([]NV, error) {
	ep, err := s.endpoint("index")
	if err != nil {
		return nil, err
	}
	resp, err := http.Get(ep)
	if err != nil {
		return nil, errors.Wrapf(ErrRemoteUnreachable, "%s: %s", ep, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(ErrRemoteUnreachable, "%s: %s", ep, resp.Status)
	}

	var entries []indexEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, errors.Wrapf(err, "decoding index from %s", ep)
	}

	out := make([]NV, 0, len(entries))
	for _, e := range entries {
		v, err := ParseVersion(e.Version)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing version for %s in index from %s", e.Name, ep)
		}
		out = append(out, NV{Name: e.Name, Version: v})
	}
	return out, nil
}

func (s *httpServer) GetSpec(nv NV) ([]byte, error) {
	ep, err := s.endpoint("spec", nv.Name, nv.Version.String())
	if err != nil {
		return nil, err
	}
	resp, err := http.Get(ep)
	if err != nil {
		return nil, errors.Wrapf(ErrRemoteUnreachable, "%s: %s", ep, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(ErrRemoteUnreachable, "%s: %s", ep, resp.Status)
	}
	return ioutil.ReadAll(resp.Body)
}

func (s *httpServer) GetArchive(nv NV) ([]byte, bool, error) {
	ep, err := s.endpoint("archive", nv.Name, nv.Version.String())
	if err != nil {
		return nil, false, err
	}
	resp, err := http.Get(ep)
	if err != nil {
		return nil, false, errors.Wrapf(ErrRemoteUnreachable, "%s: %s", ep, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, errors.Wrapf(ErrRemoteUnreachable, "%s: %s", ep, resp.Status)
	}
	b, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

type newArchiveResponse struct {
	Key string `json:"key"`
}

func (s *httpServer) NewArchive(nv NV, spec, archive []byte) (string, error) {
	ep, err := s.endpoint("archive", nv.Name, nv.Version.String())
	if err != nil {
		return "", err
	}
	req, err := newPublishRequest(http.MethodPost, ep, spec, archive)
	if err != nil {
		return "", err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", errors.Wrapf(ErrRemoteUnreachable, "%s: %s", ep, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", errors.Errorf("%s: %s", ep, resp.Status)
	}
	var r newArchiveResponse
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return "", errors.Wrapf(err, "decoding new_archive response from %s", ep)
	}
	return r.Key, nil
}

func (s *httpServer) UpdateArchive(nv NV, spec, archive []byte, key string) error {
	ep, err := s.endpoint("archive", nv.Name, nv.Version.String())
	if err != nil {
		return err
	}
	ep = ep + "?key=" + url.QueryEscape(key)
	req, err := newPublishRequest(http.MethodPut, ep, spec, archive)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return errors.Wrapf(ErrRemoteUnreachable, "%s: %s", ep, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return errors.Errorf("%s: %s", ep, resp.Status)
	}
	return nil
}

// newPublishRequest builds the multipart-free envelope used for new/update
// archive requests: a length-prefixed spec followed by the archive bytes.
func newPublishRequest(method, ep string, spec, archive []byte) (*http.Request, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%d\n", len(spec))
	buf.Write(spec)
	buf.Write(archive)

	req, err := http.NewRequest(method, ep, &buf)
	if err != nil {
		return nil, errors.Wrapf(err, "building %s request to %s", method, ep)
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	return req, nil
}
