package common

// MatrixStack is a stack of transforms whose top is the current model matrix.
// The bottom entry always exists; popping it is a programming error and panics.
type MatrixStack struct {
	stack []Mat4
}

// NewMatrixStack creates a stack holding a single identity matrix.
//
// Returns:
//   - *MatrixStack: the new stack
func NewMatrixStack() *MatrixStack {
	return &MatrixStack{stack: []Mat4{Identity4()}}
}

// Top returns a copy of the current matrix.
func (s *MatrixStack) Top() Mat4 {
	return s.stack[len(s.stack)-1]
}

// Depth returns the number of entries on the stack.
func (s *MatrixStack) Depth() int {
	return len(s.stack)
}

// Push duplicates the current matrix onto the stack.
func (s *MatrixStack) Push() {
	s.stack = append(s.stack, s.Top())
}

// Pop restores the previous matrix. It panics on underflow.
func (s *MatrixStack) Pop() {
	if len(s.stack) <= 1 {
		panic("common: matrix stack underflow")
	}
	s.stack = s.stack[:len(s.stack)-1]
}

// Reset collapses the stack to a single identity matrix.
func (s *MatrixStack) Reset() {
	s.stack = append(s.stack[:0], Identity4())
}

// LoadIdentity replaces the current matrix with the identity.
func (s *MatrixStack) LoadIdentity() {
	s.stack[len(s.stack)-1] = Identity4()
}

// Mult post-multiplies the current matrix by m.
func (s *MatrixStack) Mult(m Mat4) {
	top := &s.stack[len(s.stack)-1]
	Mul4(top[:], top[:], m[:])
}

// Translate post-multiplies the current matrix by a translation.
func (s *MatrixStack) Translate(x, y, z float32) {
	s.Mult(Translation(x, y, z))
}

// Scale post-multiplies the current matrix by a scale.
func (s *MatrixStack) Scale(x, y, z float32) {
	s.Mult(Scaling(x, y, z))
}

// Rotate post-multiplies the current matrix by a rotation of theta radians around (x, y, z).
func (s *MatrixStack) Rotate(theta, x, y, z float32) {
	s.Mult(Rotation(theta, x, y, z))
}
