package surface

import (
	"runtime"

	"github.com/Carmen-Shannon/oxy-frame/engine/window"
)

// Platform is the surface behavior profile of the host operating system.
type Platform int

const (
	// PlatformDesktop keeps surfaces valid across suspend.
	PlatformDesktop Platform = iota
	// PlatformMobile invalidates surfaces on suspend and starts on the first resume.
	PlatformMobile
	// PlatformWeb needs the surface before the adapter is requested.
	PlatformWeb
)

// CurrentPlatform derives the profile from the build target.
func CurrentPlatform() Platform {
	return platformFor(runtime.GOOS, runtime.GOARCH)
}

func platformFor(goos, goarch string) Platform {
	switch {
	case goos == "android" || goos == "ios":
		return PlatformMobile
	case goos == "js" || goarch == "wasm":
		return PlatformWeb
	default:
		return PlatformDesktop
	}
}

// SurfaceBeforeAdapter reports whether surfaces must exist before adapter selection.
func (p Platform) SurfaceBeforeAdapter() bool {
	return p == PlatformWeb
}

// SuspendInvalidatesSurface reports whether a suspended surface loses its native handle.
func (p Platform) SuspendInvalidatesSurface() bool {
	return p == PlatformMobile
}

// StartEvent returns the event after which the device may be used to activate surfaces.
func (p Platform) StartEvent() window.EventKind {
	if p == PlatformMobile {
		return window.EventResumed
	}
	return window.EventInit
}

func (p Platform) String() string {
	switch p {
	case PlatformMobile:
		return "mobile"
	case PlatformWeb:
		return "web"
	default:
		return "desktop"
	}
}
