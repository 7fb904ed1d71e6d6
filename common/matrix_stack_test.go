package common

import "testing"

func TestMatrixStackPushCopiesTop(t *testing.T) {
	s := NewMatrixStack()
	s.Translate(5, 0, 0)
	s.Push()
	if s.Top() != Translation(5, 0, 0) {
		t.Errorf("Top after Push = %v, want copy of previous top", s.Top())
	}
	s.Scale(2, 2, 2)
	s.Pop()
	if s.Top() != Translation(5, 0, 0) {
		t.Errorf("Top after Pop = %v, want %v", s.Top(), Translation(5, 0, 0))
	}
	if s.Depth() != 1 {
		t.Errorf("Depth = %d, want 1", s.Depth())
	}
}

func TestMatrixStackUnderflowPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Pop on base entry did not panic")
		}
	}()
	NewMatrixStack().Pop()
}

func TestMatrixStackReset(t *testing.T) {
	s := NewMatrixStack()
	s.Push()
	s.Push()
	s.Translate(1, 1, 1)
	s.Reset()
	if s.Depth() != 1 || s.Top() != Identity4() {
		t.Errorf("Reset = depth %d top %v, want depth 1 identity", s.Depth(), s.Top())
	}
}

func TestMatrixStackLoadIdentity(t *testing.T) {
	s := NewMatrixStack()
	s.Rotate(1, 0, 0, 1)
	s.LoadIdentity()
	if s.Top() != Identity4() {
		t.Errorf("Top = %v, want identity", s.Top())
	}
}
