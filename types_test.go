package opam

import "testing"

func TestParseNV(t *testing.T) {
	cases := []struct {
		in      string
		name    string
		version string
		wantErr bool
	}{
		{in: "foo-1.0.0", name: "foo", version: "1.0.0"},
		{in: "foo-bar-2.1.3", name: "foo-bar", version: "2.1.3"},
		{in: "justname", wantErr: true},
	}
	for _, c := range cases {
		nv, err := ParseNV(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("ParseNV(%q): expected error, got %v", c.in, nv)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseNV(%q): unexpected error: %v", c.in, err)
		}
		if nv.Name != c.name || nv.Version.String() != c.version {
			t.Errorf("ParseNV(%q) = %+v, want name=%s version=%s", c.in, nv, c.name, c.version)
		}
	}
}

func TestVersionCompareHead(t *testing.T) {
	v1, _ := ParseVersion("1.0.0")
	head := Head(HeadUpToDate)

	if v1.Compare(head) >= 0 {
		t.Errorf("ordinary version should sort before Head")
	}
	if head.Compare(v1) <= 0 {
		t.Errorf("Head should sort after an ordinary version")
	}

	behind := Head(HeadBehind)
	uptodate := Head(HeadUpToDate)
	if behind.Compare(uptodate) >= 0 {
		t.Errorf("Head(behind) should sort before Head(uptodate)")
	}
}

func TestParseRemoteScheme(t *testing.T) {
	cases := []struct {
		url    string
		scheme Scheme
		host   string
	}{
		{"https://opam.example.com/repo", SchemeOpam, "opam.example.com"},
		{"git://github.com/foo/bar", SchemeGit, "github.com"},
		{"https://github.com/foo/bar.git", SchemeGit, "github.com"},
		{"git+https://github.com/foo/bar", SchemeGit, "github.com"},
	}
	for _, c := range cases {
		r, err := ParseRemote(c.url)
		if err != nil {
			t.Fatalf("ParseRemote(%q): %v", c.url, err)
		}
		if r.Scheme != c.scheme {
			t.Errorf("ParseRemote(%q).Scheme = %v, want %v", c.url, r.Scheme, c.scheme)
		}
		if r.Hostname != c.host {
			t.Errorf("ParseRemote(%q).Hostname = %q, want %q", c.url, r.Hostname, c.host)
		}
	}
}

func TestRemoteEqual(t *testing.T) {
	a, _ := ParseRemote("https://opam.example.com/repo")
	b, _ := ParseRemote("https://opam.example.com/other-path")
	c, _ := ParseRemote("https://other.example.com/repo")

	if !a.Equal(b) {
		t.Errorf("remotes sharing a hostname should be Equal")
	}
	if a.Equal(c) {
		t.Errorf("remotes with different hostnames and raw URLs should not be Equal")
	}
}
