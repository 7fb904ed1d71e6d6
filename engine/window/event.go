package window

import (
	"fmt"

	"github.com/gogpu/gpucontext"
)

// EventKind is the closed set of platform events the runner reacts to.
type EventKind int

const (
	// EventInit is delivered once, before any other event, when the platform is ready.
	EventInit EventKind = iota
	// EventResumed means the application may render again (mobile foreground, desktop restore).
	EventResumed
	// EventSuspended means rendering must stop (mobile background, desktop minimize).
	EventSuspended
	// EventResized carries the new framebuffer size of one window.
	EventResized
	// EventRedrawRequested asks for one frame of one window.
	EventRedrawRequested
	// EventCloseRequested means the user asked to close one window.
	EventCloseRequested
	// EventKeyPressed carries one key press in one window.
	EventKeyPressed
)

func (k EventKind) String() string {
	switch k {
	case EventInit:
		return "Init"
	case EventResumed:
		return "Resumed"
	case EventSuspended:
		return "Suspended"
	case EventResized:
		return "Resized"
	case EventRedrawRequested:
		return "RedrawRequested"
	case EventCloseRequested:
		return "CloseRequested"
	case EventKeyPressed:
		return "KeyPressed"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is one platform event. Application-wide events (Init, Resumed, Suspended)
// have a zero Window.
type Event struct {
	Kind   EventKind
	Window ID

	// Width and Height are set for EventResized, in physical pixels.
	Width  int
	Height int

	// Key and Mods are set for EventKeyPressed.
	Key  gpucontext.Key
	Mods gpucontext.Modifiers
}

// Resized builds an EventResized for window id.
func Resized(id ID, width, height int) Event {
	return Event{Kind: EventResized, Window: id, Width: width, Height: height}
}

// RedrawRequested builds an EventRedrawRequested for window id.
func RedrawRequested(id ID) Event {
	return Event{Kind: EventRedrawRequested, Window: id}
}

// CloseRequested builds an EventCloseRequested for window id.
func CloseRequested(id ID) Event {
	return Event{Kind: EventCloseRequested, Window: id}
}

// KeyPressed builds an EventKeyPressed for window id.
func KeyPressed(id ID, key gpucontext.Key, mods gpucontext.Modifiers) Event {
	return Event{Kind: EventKeyPressed, Window: id, Key: key, Mods: mods}
}

func (e Event) String() string {
	switch e.Kind {
	case EventResized:
		return fmt.Sprintf("%s(window=%d, %dx%d)", e.Kind, e.Window, e.Width, e.Height)
	case EventKeyPressed:
		return fmt.Sprintf("%s(window=%d, key=%d)", e.Kind, e.Window, e.Key)
	case EventInit, EventResumed, EventSuspended:
		return e.Kind.String()
	default:
		return fmt.Sprintf("%s(window=%d)", e.Kind, e.Window)
	}
}
