package engine

import "errors"

// Application error kinds. Errors returned from Start and Runner.Run wrap one of these.
var (
	ErrInitialization    = errors.New("engine: initialization failed")
	ErrWindowCreation    = errors.New("engine: window creation failed")
	ErrSurfaceCreation   = errors.New("engine: surface creation failed")
	ErrGPUInitialization = errors.New("engine: gpu initialization failed")
	ErrEventLoop         = errors.New("engine: event loop failed")
)
