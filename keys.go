package opam

import (
	"io/ioutil"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// findKey reads keys/<name>, returning ("", false, nil) if no key has been
// issued yet for that package.
func findKey(t T, name string) (string, bool, error) {
	b, err := ioutil.ReadFile(t.packageKeyPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, errors.Wrapf(err, "reading key for %s", name)
	}
	return strings.TrimSpace(string(b)), true, nil
}

// storeKey persists the key issued the first time a package is published
// (spec §4.5 step 4). Keys are never rotated once stored.
func storeKey(t T, name, key string) error {
	if err := os.MkdirAll(t.keysDir(), 0755); err != nil {
		return err
	}
	return writeFileAtomic(t.packageKeyPath(name), []byte(key), 0600)
}
