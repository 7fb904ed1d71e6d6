package gpu_test

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-frame/engine/gpu"
	"github.com/Carmen-Shannon/oxy-frame/engine/gpu/gputest"
)

func TestNewInstanceByName(t *testing.T) {
	fake := gputest.NewInstance()
	gpu.RegisterBackend("gputest", func() gpu.Instance { return fake })
	defer gpu.UnregisterBackend("gputest")

	got, err := gpu.NewInstance("gputest")
	if err != nil {
		t.Fatalf("NewInstance(gputest) error = %v", err)
	}
	if got != fake {
		t.Errorf("NewInstance(gputest) = %v, want the registered fake", got)
	}

	found := false
	for _, name := range gpu.Backends() {
		if name == "gputest" {
			found = true
		}
	}
	if !found {
		t.Errorf("Backends() = %v, want it to include gputest", gpu.Backends())
	}
}

func TestNewInstanceUnknown(t *testing.T) {
	if _, err := gpu.NewInstance("vulkan-direct"); !errors.Is(err, gpu.ErrNoBackend) {
		t.Errorf("NewInstance(unknown) err = %v, want ErrNoBackend", err)
	}
}

func TestNewInstanceNilFactory(t *testing.T) {
	gpu.RegisterBackend("broken", func() gpu.Instance { return nil })
	defer gpu.UnregisterBackend("broken")

	if _, err := gpu.NewInstance("broken"); !errors.Is(err, gpu.ErrNoBackend) {
		t.Errorf("NewInstance(broken) err = %v, want ErrNoBackend", err)
	}
}
