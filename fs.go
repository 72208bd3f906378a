package opam

import (
	"encoding/json"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/karrick/godirwalk"
	"github.com/pkg/errors"
)

// IsRegular is true if name is a regular file.
func IsRegular(name string) (bool, error) {
	fi, err := os.Stat(name)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if fi.IsDir() {
		return false, errors.Errorf("%q is a directory, should be a file", name)
	}
	return true, nil
}

// IsDir is true if name is a directory.
func IsDir(name string) (bool, error) {
	fi, err := os.Stat(name)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !fi.IsDir() {
		return false, errors.Errorf("%q is not a directory", name)
	}
	return true, nil
}

// IsEmptyDirOrNotExist is true if name is a directory and is empty, or
// doesn't exist at all.
func IsEmptyDirOrNotExist(name string) (bool, error) {
	files, err := ioutil.ReadDir(name)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, err
	}
	return len(files) == 0, nil
}

// writeFileAtomic writes data to a temp file beside path, then renames it
// over path. A crash can only ever leave the old content or the new
// content in place at path, never a partial write — the invariant §5
// requires for the installed-set file and friends.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := ioutil.TempFile(dir, ".tmp-"+filepath.Base(path))
	if err != nil {
		return errors.Wrapf(err, "creating temp file beside %s", path)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrapf(err, "writing temp file for %s", path)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, "closing temp file for %s", path)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, "chmod temp file for %s", path)
	}
	if err := renameWithFallback(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, "renaming temp file into place at %s", path)
	}
	return nil
}

func writeJSONAtomic(path string, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "marshaling %s", path)
	}
	return writeFileAtomic(path, b, 0644)
}

// renameWithFallback attempts to rename a file or directory, but falls back
// to copying in the event of a cross-device link error. If the fallback
// copy succeeds, src is still removed, emulating normal rename behavior.
func renameWithFallback(src, dest string) error {
	fi, err := os.Lstat(src)
	if err != nil {
		return err
	}

	if runtime.GOOS == "windows" && fi.IsDir() {
		if err := CopyDir(src, dest); err != nil {
			return err
		}
		return os.RemoveAll(src)
	}

	err = os.Rename(src, dest)
	if err == nil {
		return nil
	}

	terr, ok := err.(*os.LinkError)
	if !ok {
		return err
	}

	var cerr error
	if terr.Err == syscall.EXDEV {
		if fi.IsDir() {
			cerr = CopyDir(src, dest)
		} else {
			cerr = CopyFile(src, dest)
		}
	} else {
		return terr
	}

	if cerr != nil {
		return cerr
	}
	return os.RemoveAll(src)
}

// CopyDir recursively copies src to dest, preserving file modes. Directory
// traversal uses godirwalk, which avoids the extra per-entry os.Lstat calls
// os.Readdir forces and scales to the large vendor/build trees this client
// moves around under build/ and lib/.
func CopyDir(src, dest string) error {
	srcInfo, err := os.Lstat(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dest, srcInfo.Mode()); err != nil {
		return err
	}

	return godirwalk.Walk(src, &godirwalk.Options{
		Callback: func(path string, de *godirwalk.Dirent) error {
			rel, err := filepath.Rel(src, path)
			if err != nil {
				return err
			}
			if rel == "." {
				return nil
			}
			target := filepath.Join(dest, rel)

			if de.IsSymlink() {
				return nil
			}
			if de.IsDir() {
				fi, err := os.Lstat(path)
				if err != nil {
					return err
				}
				return os.MkdirAll(target, fi.Mode())
			}
			return CopyFile(path, target)
		},
		Unsorted: false,
	})
}

// CopyFile copies a single file, preserving its permission bits.
func CopyFile(src, dest string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}

	destFile, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, srcFile); err != nil {
		return err
	}

	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}
	return os.Chmod(dest, srcInfo.Mode())
}
