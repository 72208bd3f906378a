package opam

import (
	"strconv"

	"github.com/pkg/errors"
)

// Sentinel errors for the kinds enumerated in spec §7. Wrap with
// errors.Wrap/Wrapf for context; compare with errors.Cause(err) == ErrX.
var (
	ErrConfigMissing        = errors.New("config missing")
	ErrAlreadyInitialized   = errors.New("already initialized")
	ErrUnknownGitRepo       = errors.New("unknown git repository")
	ErrRemoteUnreachable    = errors.New("remote unreachable")
	ErrInvalidNVString      = errors.New("invalid name-version string")
	ErrNoSolution           = errors.New("no solution")
	ErrInvalidBinPattern    = errors.New("invalid bin pattern")
	ErrInvalidProgramName   = errors.New("invalid program name")
	ErrMixedPatchesUnsupported = errors.New("mixed local and external patches are unsupported")
	ErrKeyMismatch          = errors.New("key mismatch between remotes")
	ErrDuplicateRemote      = errors.New("remote already configured")
	ErrRootNotEmpty         = errors.New("root directory exists and is not empty")
)

// UnknownPackageError reports that name could not be located in the index
// or installed set.
type UnknownPackageError struct {
	Name string
}

func (e *UnknownPackageError) Error() string {
	return "unknown package: " + e.Name
}

// BuildFailedError reports a non-zero exit from a package's build script.
type BuildFailedError struct {
	NV   NV
	Code int
}

func (e *BuildFailedError) Error() string {
	return e.NV.String() + ": build failed with exit code " + strconv.Itoa(e.Code)
}
