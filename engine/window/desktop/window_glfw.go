package desktop

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/Carmen-Shannon/oxy-frame/common"
	"github.com/Carmen-Shannon/oxy-frame/engine/window"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// ErrNotInitialized is returned when a window is created after Terminate.
var ErrNotInitialized = errors.New("desktop: platform not initialized")

// Platform owns the GLFW library and the windows created through it.
// GLFW requires every call to happen on the thread that initialized it, so a
// Platform must be used from a single, OS-locked goroutine.
type Platform struct {
	windows map[window.ID]*desktopWindow
	order   []window.ID
	queue   []window.Event
	nextID  window.ID

	initialized bool
	initSent    bool
	iconified   map[window.ID]bool
	suspended   bool
}

var _ window.Poller = &Platform{}

// NewPlatform locks the calling goroutine to its OS thread and initializes GLFW.
//
// GLFW reference: https://www.glfw.org/docs/latest/intro_guide.html#intro_init
//
// Returns:
//   - *Platform: the initialized platform
//   - error: error if GLFW fails to initialize
func NewPlatform() (*Platform, error) {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("desktop: initialize GLFW: %w", err)
	}
	return &Platform{
		windows:     make(map[window.ID]*desktopWindow),
		iconified:   make(map[window.ID]bool),
		initialized: true,
	}, nil
}

// NewWindow creates and shows a native window.
// Applies default values first, then each option in order.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - window.Window: the created window
//   - error: error if GLFW cannot create the window
func (p *Platform) NewWindow(options ...WindowBuilderOption) (window.Window, error) {
	if !p.initialized {
		return nil, ErrNotInitialized
	}

	w := &desktopWindow{
		title:     "Window",
		width:     800,
		height:    600,
		resizable: true,
		platform:  p,
	}
	for _, opt := range options {
		opt(w)
	}

	// WebGPU provides its own graphics API, so disable OpenGL context creation.
	// Reference: https://www.glfw.org/docs/latest/window_guide.html#window_hints_ctx
	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfwBool(w.resizable))

	var monitor *glfw.Monitor
	if w.fullscreen {
		monitor = glfw.GetPrimaryMonitor()
		if mode := monitor.GetVideoMode(); mode != nil {
			w.width, w.height = mode.Width, mode.Height
		}
	}

	handle, err := glfw.CreateWindow(common.AtLeast(w.width, 1), common.AtLeast(w.height, 1), w.title, monitor, nil)
	if err != nil {
		return nil, fmt.Errorf("desktop: create window %q: %w", w.title, err)
	}
	w.handle = handle

	handle.SetSizeLimits(limit(w.minWidth), limit(w.minHeight), limit(w.maxWidth), limit(w.maxHeight))
	if w.position != nil && monitor == nil {
		handle.SetPos(w.position.X, w.position.Y)
	}

	p.nextID++
	w.id = p.nextID
	p.windows[w.id] = w
	p.order = append(p.order, w.id)
	p.register(w)

	common.Logger().Info("window created", "id", w.id, "title", w.title, "width", w.width, "height", w.height)
	return w, nil
}

// register installs the GLFW callbacks that translate native events into window.Events.
//
// go-gl/glfw: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw
func (p *Platform) register(w *desktopWindow) {
	id := w.id

	// Use framebuffer size callback for pixel-accurate resize events.
	// On high-DPI displays (e.g., macOS Retina), framebuffer size differs from window size.
	w.handle.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		p.push(window.Resized(id, width, height))
	})

	w.handle.SetRefreshCallback(func(_ *glfw.Window) {
		w.redraw = true
	})

	w.handle.SetCloseCallback(func(_ *glfw.Window) {
		p.push(window.CloseRequested(id))
	})

	w.handle.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, mods glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		p.push(window.KeyPressed(id, toKey(key), toModifiers(mods)))
	})

	// Minimizing every window suspends the application; restoring any resumes it.
	w.handle.SetIconifyCallback(func(_ *glfw.Window, iconified bool) {
		if iconified {
			p.iconified[id] = true
		} else {
			delete(p.iconified, id)
		}
		p.updateSuspended()
	})
}

func (p *Platform) updateSuspended() {
	all := len(p.windows) > 0 && len(p.iconified) == len(p.windows)
	switch {
	case all && !p.suspended:
		p.suspended = true
		p.push(window.Event{Kind: window.EventSuspended})
	case !all && p.suspended:
		p.suspended = false
		p.push(window.Event{Kind: window.EventResumed})
	}
}

func (p *Platform) push(ev window.Event) {
	p.queue = append(p.queue, ev)
}

func (p *Platform) forget(id window.ID) {
	delete(p.windows, id)
	delete(p.iconified, id)
	for i, v := range p.order {
		if v == id {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
}

// PollEvents waits for GLFW events unless a redraw is pending, in which case it
// only polls, so continuous rendering never blocks.
//
// Reference: https://www.glfw.org/docs/latest/input_guide.html#events
func (p *Platform) PollEvents(handle func(window.Event)) bool {
	if !p.initialized {
		return false
	}
	if !p.initSent {
		p.initSent = true
		handle(window.Event{Kind: window.EventInit})
	}

	if p.redrawPending() || len(p.queue) > 0 {
		glfw.PollEvents()
	} else {
		glfw.WaitEvents()
	}

	for _, id := range p.order {
		if w := p.windows[id]; w.redraw {
			w.redraw = false
			p.push(window.RedrawRequested(id))
		}
	}

	queue := p.queue
	p.queue = nil
	for _, ev := range queue {
		handle(ev)
	}
	return len(p.windows) > 0
}

func (p *Platform) redrawPending() bool {
	for _, w := range p.windows {
		if w.redraw {
			return true
		}
	}
	return false
}

// Terminate destroys every remaining window and terminates GLFW.
func (p *Platform) Terminate() {
	if !p.initialized {
		return
	}
	for _, id := range append([]window.ID(nil), p.order...) {
		if w := p.windows[id]; w != nil {
			_ = w.Close()
		}
	}
	glfw.Terminate()
	p.initialized = false
}

func glfwBool(b bool) int {
	if b {
		return glfw.True
	}
	return glfw.False
}

func limit(v int) int {
	if v <= 0 {
		return glfw.DontCare
	}
	return v
}
