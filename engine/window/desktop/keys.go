package desktop

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/gogpu/gpucontext"
)

var namedKeys = map[glfw.Key]gpucontext.Key{
	glfw.KeyEscape:       gpucontext.KeyEscape,
	glfw.KeyTab:          gpucontext.KeyTab,
	glfw.KeyBackspace:    gpucontext.KeyBackspace,
	glfw.KeyEnter:        gpucontext.KeyEnter,
	glfw.KeySpace:        gpucontext.KeySpace,
	glfw.KeyInsert:       gpucontext.KeyInsert,
	glfw.KeyDelete:       gpucontext.KeyDelete,
	glfw.KeyHome:         gpucontext.KeyHome,
	glfw.KeyEnd:          gpucontext.KeyEnd,
	glfw.KeyPageUp:       gpucontext.KeyPageUp,
	glfw.KeyPageDown:     gpucontext.KeyPageDown,
	glfw.KeyLeft:         gpucontext.KeyLeft,
	glfw.KeyRight:        gpucontext.KeyRight,
	glfw.KeyUp:           gpucontext.KeyUp,
	glfw.KeyDown:         gpucontext.KeyDown,
	glfw.KeyLeftShift:    gpucontext.KeyLeftShift,
	glfw.KeyRightShift:   gpucontext.KeyRightShift,
	glfw.KeyLeftControl:  gpucontext.KeyLeftControl,
	glfw.KeyRightControl: gpucontext.KeyRightControl,
	glfw.KeyLeftAlt:      gpucontext.KeyLeftAlt,
	glfw.KeyRightAlt:     gpucontext.KeyRightAlt,
	glfw.KeyLeftSuper:    gpucontext.KeyLeftSuper,
	glfw.KeyRightSuper:   gpucontext.KeyRightSuper,
	glfw.KeyMinus:        gpucontext.KeyMinus,
	glfw.KeyEqual:        gpucontext.KeyEqual,
	glfw.KeyLeftBracket:  gpucontext.KeyLeftBracket,
	glfw.KeyRightBracket: gpucontext.KeyRightBracket,
	glfw.KeyBackslash:    gpucontext.KeyBackslash,
	glfw.KeySemicolon:    gpucontext.KeySemicolon,
	glfw.KeyApostrophe:   gpucontext.KeyApostrophe,
	glfw.KeyGraveAccent:  gpucontext.KeyGrave,
	glfw.KeyComma:        gpucontext.KeyComma,
	glfw.KeyPeriod:       gpucontext.KeyPeriod,
	glfw.KeySlash:        gpucontext.KeySlash,
}

// toKey maps a GLFW key code to the platform-independent gpucontext.Key.
// Letters, digits, function keys and the numpad are contiguous in both schemes.
func toKey(k glfw.Key) gpucontext.Key {
	switch {
	case k >= glfw.KeyA && k <= glfw.KeyZ:
		return gpucontext.KeyA + gpucontext.Key(k-glfw.KeyA)
	case k >= glfw.Key0 && k <= glfw.Key9:
		return gpucontext.Key0 + gpucontext.Key(k-glfw.Key0)
	case k >= glfw.KeyF1 && k <= glfw.KeyF12:
		return gpucontext.KeyF1 + gpucontext.Key(k-glfw.KeyF1)
	case k >= glfw.KeyKP0 && k <= glfw.KeyKP9:
		return gpucontext.KeyNumpad0 + gpucontext.Key(k-glfw.KeyKP0)
	}
	if key, ok := namedKeys[k]; ok {
		return key
	}
	return gpucontext.KeyUnknown
}

func toModifiers(m glfw.ModifierKey) gpucontext.Modifiers {
	var mods gpucontext.Modifiers
	if m&glfw.ModShift != 0 {
		mods |= gpucontext.ModShift
	}
	if m&glfw.ModControl != 0 {
		mods |= gpucontext.ModControl
	}
	if m&glfw.ModAlt != 0 {
		mods |= gpucontext.ModAlt
	}
	if m&glfw.ModSuper != 0 {
		mods |= gpucontext.ModSuper
	}
	return mods
}
