package gpu

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/gputypes"
)

// SurfaceErrorKind is the closed set of acquisition failure classes the frame loop reacts to.
type SurfaceErrorKind int

const (
	// SurfaceErrorFatal cannot be recovered by retrying or reconfiguring.
	SurfaceErrorFatal SurfaceErrorKind = iota
	// SurfaceErrorTimeout means the next texture was not ready in time.
	SurfaceErrorTimeout
	// SurfaceErrorOutdatedOrLost means the swap chain no longer matches the surface
	// (resize, compositor change, lost surface or swap chain memory exhaustion).
	SurfaceErrorOutdatedOrLost
)

func (k SurfaceErrorKind) String() string {
	switch k {
	case SurfaceErrorTimeout:
		return "Timeout"
	case SurfaceErrorOutdatedOrLost:
		return "OutdatedOrLost"
	default:
		return "Fatal"
	}
}

// SurfaceError is the only error type Surface.CurrentTexture returns.
type SurfaceError struct {
	Kind SurfaceErrorKind
	Err  error
}

func (e *SurfaceError) Error() string {
	if e.Err == nil {
		return "surface: " + e.Kind.String()
	}
	return fmt.Sprintf("surface: %s: %v", e.Kind, e.Err)
}

func (e *SurfaceError) Unwrap() error {
	return e.Err
}

// NewSurfaceError wraps err with the given kind.
func NewSurfaceError(kind SurfaceErrorKind, err error) *SurfaceError {
	return &SurfaceError{Kind: kind, Err: err}
}

// KindOf extracts the SurfaceErrorKind from err. Errors that are not a *SurfaceError are Fatal.
//
// Parameters:
//   - err: the error returned by an acquisition attempt
//
// Returns:
//   - SurfaceErrorKind: the classified kind
func KindOf(err error) SurfaceErrorKind {
	var se *SurfaceError
	if errors.As(err, &se) {
		return se.Kind
	}
	return SurfaceErrorFatal
}

// KindFromStatus maps a gputypes surface status to the error taxonomy.
// Good and Suboptimal are not failures and are never passed here by backends.
func KindFromStatus(status gputypes.SurfaceStatus) SurfaceErrorKind {
	switch status {
	case gputypes.SurfaceStatusTimeout:
		return SurfaceErrorTimeout
	case gputypes.SurfaceStatusOutdated, gputypes.SurfaceStatusLost:
		return SurfaceErrorOutdatedOrLost
	default:
		return SurfaceErrorFatal
	}
}

// ClassifyMessage classifies a backend error by its message, for backends that only
// report acquisition failures as text.
//
// Parameters:
//   - msg: the backend error message
//
// Returns:
//   - SurfaceErrorKind: Timeout, OutdatedOrLost, or Fatal when nothing matches
func ClassifyMessage(msg string) SurfaceErrorKind {
	m := strings.ToLower(msg)
	switch {
	case strings.Contains(m, "timeout"), strings.Contains(m, "timed out"):
		return SurfaceErrorTimeout
	case strings.Contains(m, "outdated"),
		strings.Contains(m, "lost"),
		strings.Contains(m, "out of memory"),
		strings.Contains(m, "outofmemory"):
		return SurfaceErrorOutdatedOrLost
	default:
		return SurfaceErrorFatal
	}
}
