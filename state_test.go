package opam

import "testing"

func TestInstalledRoundTrip(t *testing.T) {
	root := t.TempDir()

	v1, _ := ParseVersion("1.2.3")
	want := map[string]NV{
		"foo": {Name: "foo", Version: v1},
		"bar": {Name: "bar", Version: Head(HeadBehind)},
	}
	if err := writeInstalled(root, want); err != nil {
		t.Fatalf("writeInstalled: %v", err)
	}

	got, err := readInstalled(root)
	if err != nil {
		t.Fatalf("readInstalled: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("readInstalled returned %d entries, want %d", len(got), len(want))
	}
	if got["foo"].Version.String() != "1.2.3" {
		t.Errorf("foo version = %s, want 1.2.3", got["foo"].Version)
	}
	if !got["bar"].Version.IsHead() || got["bar"].Version.HeadState() != HeadBehind {
		t.Errorf("bar version = %+v, want Head(behind)", got["bar"].Version)
	}
}

func TestReadInstalledMissingFileIsEmpty(t *testing.T) {
	root := t.TempDir()
	got, err := readInstalled(root)
	if err != nil {
		t.Fatalf("readInstalled on fresh root: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("readInstalled on fresh root = %v, want empty", got)
	}
}
