package opam

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
)

// clientAPIVersion is written into every freshly initialized config, and is
// otherwise opaque to the core (spec §3: "config — API version, remote
// list, compiler version").
const clientAPIVersion = "2.0"

type config struct {
	APIVersion string   `toml:"api-version"`
	Compiler   string   `toml:"compiler,omitempty"`
	Remotes    []Remote `toml:"-"`
	RawRemotes []rawRemote `toml:"remotes"`
}

type rawRemote struct {
	URL    string `toml:"url"`
	Scheme string `toml:"scheme"`
}

func (c *config) toRaw() {
	c.RawRemotes = make([]rawRemote, len(c.Remotes))
	for i, r := range c.Remotes {
		scheme := "opam"
		if r.Scheme == SchemeGit {
			scheme = "git"
		}
		c.RawRemotes[i] = rawRemote{URL: r.String(), Scheme: scheme}
	}
}

func (c *config) fromRaw() error {
	c.Remotes = make([]Remote, len(c.RawRemotes))
	for i, rr := range c.RawRemotes {
		r, err := ParseRemote(rr.URL)
		if err != nil {
			return errors.Wrapf(err, "parsing remote %q from config", rr.URL)
		}
		if rr.Scheme == "git" {
			r.Scheme = SchemeGit
		}
		c.Remotes[i] = r
	}
	return nil
}

func readConfig(root string) (config, error) {
	b, err := ioutil.ReadFile(filepath.Join(root, configFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return config{}, ErrConfigMissing
		}
		return config{}, errors.Wrap(err, "reading config")
	}
	var c config
	if err := toml.Unmarshal(b, &c); err != nil {
		return config{}, errors.Wrap(err, "parsing config as TOML")
	}
	if err := c.fromRaw(); err != nil {
		return config{}, err
	}
	return c, nil
}

// writeConfig serializes c and rewrites `config` atomically (spec §5: the
// installed file and, by the same rule, config MUST be rewritten
// write-temp-then-rename).
func writeConfig(root string, c config) error {
	c.toRaw()
	b, err := toml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshaling config to TOML")
	}
	return writeFileAtomic(filepath.Join(root, configFileName), b, 0644)
}
