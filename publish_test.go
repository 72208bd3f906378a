package opam

import (
	"testing"

	"github.com/pkg/errors"
)

func TestLocateOrBuildArchiveMissingLocationErrors(t *testing.T) {
	workDir := t.TempDir()
	nv := NV{Name: "foo", Version: mustV(t, "1.0.0")}

	_, err := locateOrBuildArchive(Spec{Name: nv.Name, Version: nv.Version.String()}, nv, workDir)
	if err == nil {
		t.Fatal("locateOrBuildArchive with no local archive, no urls, and no patches should error")
	}
	want := "no location specified for " + nv.String() + ".tar.gz"
	if errors.Cause(err).Error() != want {
		t.Errorf("err = %q, want %q", err, want)
	}
}

func TestLocateOrBuildArchivePatchesWithoutURLsErrors(t *testing.T) {
	workDir := t.TempDir()
	nv := NV{Name: "foo", Version: mustV(t, "1.0.0")}

	spec := Spec{
		Name:    nv.Name,
		Version: nv.Version.String(),
		Patches: []Patch{{Path: "fix.patch"}},
	}
	_, err := locateOrBuildArchive(spec, nv, workDir)
	if err == nil {
		t.Fatal("locateOrBuildArchive with patches but no urls should error")
	}
}
