package window

import (
	"testing"

	"github.com/gogpu/gpucontext"
)

func TestEventString(t *testing.T) {
	tests := []struct {
		ev   Event
		want string
	}{
		{Event{Kind: EventInit}, "Init"},
		{Resized(2, 800, 600), "Resized(window=2, 800x600)"},
		{RedrawRequested(1), "RedrawRequested(window=1)"},
		{CloseRequested(3), "CloseRequested(window=3)"},
		{KeyPressed(1, gpucontext.KeyA, 0), "KeyPressed(window=1, key=1)"},
		{Event{Kind: EventKind(42)}, "EventKind(42)(window=0)"},
	}
	for _, tt := range tests {
		if got := tt.ev.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
