package common

import (
	"math"
	"unsafe"
)

// Mat4 is a 4x4 matrix stored in column-major order (WebGPU convention).
type Mat4 [16]float32

// Identity4 returns a new identity matrix.
func Identity4() Mat4 {
	var m Mat4
	Identity(m[:])
	return m
}

// Identity resets a 4x4 matrix (flat slice) to the identity matrix.
// The matrix is stored in column-major order.
//
// Parameters:
//   - m: destination slice (must be at least 16 elements)
func Identity(m []float32) {
	for i := range m {
		m[i] = 0
	}
	m[0], m[5], m[10], m[15] = 1, 1, 1, 1
}

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), int(size)*len(data))
}

// StructToBytes reinterprets a pointer to a struct as a raw byte slice.
//
// Parameters:
//   - v: pointer to the struct to reinterpret
//
// Returns:
//   - []byte: byte slice view of the struct's memory
func StructToBytes[T any](v *T) []byte {
	size := unsafe.Sizeof(*v)
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), int(size))
}

// Mul4 multiplies two 4x4 column-major matrices and stores a * b in out.
// out may alias a or b.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - a: left-hand matrix (16 elements)
//   - b: right-hand matrix (16 elements)
func Mul4(out, a, b []float32) {
	var buf [16]float32
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += a[k*4+row] * b[col*4+k]
			}
			buf[col*4+row] = sum
		}
	}
	copy(out, buf[:])
}

// Mul returns m * o.
func (m Mat4) Mul(o Mat4) Mat4 {
	var out Mat4
	Mul4(out[:], m[:], o[:])
	return out
}

// Ortho builds a left-handed orthographic projection mapping depth to the
// WebGPU clip range [0, 1].
//
// Parameters:
//   - left, right: horizontal view bounds
//   - bottom, top: vertical view bounds
//   - near, far: depth bounds
//
// Returns:
//   - Mat4: the projection matrix
func Ortho(left, right, bottom, top, near, far float32) Mat4 {
	rw := 1 / (right - left)
	rh := 1 / (top - bottom)
	rd := 1 / (far - near)

	var m Mat4
	m[0] = 2 * rw
	m[5] = 2 * rh
	m[10] = rd
	m[12] = -(left + right) * rw
	m[13] = -(top + bottom) * rh
	m[14] = -rd * near
	m[15] = 1
	return m
}

// Translation returns a matrix translating by (x, y, z).
func Translation(x, y, z float32) Mat4 {
	m := Identity4()
	m[12], m[13], m[14] = x, y, z
	return m
}

// Scaling returns a matrix scaling by (x, y, z).
func Scaling(x, y, z float32) Mat4 {
	var m Mat4
	m[0], m[5], m[10], m[15] = x, y, z, 1
	return m
}

// Rotation returns a matrix rotating theta radians around the axis (x, y, z).
// The axis is normalized; a zero axis yields the identity.
//
// Parameters:
//   - theta: rotation angle in radians
//   - x, y, z: rotation axis
//
// Returns:
//   - Mat4: the rotation matrix
func Rotation(theta, x, y, z float32) Mat4 {
	l := float32(math.Sqrt(float64(x*x + y*y + z*z)))
	if l == 0 {
		return Identity4()
	}
	x, y, z = x/l, y/l, z/l

	s := float32(math.Sin(float64(theta)))
	c := float32(math.Cos(float64(theta)))
	t := 1 - c

	return Mat4{
		t*x*x + c, t*x*y + s*z, t*x*z - s*y, 0,
		t*x*y - s*z, t*y*y + c, t*y*z + s*x, 0,
		t*x*z + s*y, t*y*z - s*x, t*z*z + c, 0,
		0, 0, 0, 1,
	}
}

// Transform applies m to the point (x, y, z, 1) and returns the resulting xyz.
func (m Mat4) Transform(x, y, z float32) (float32, float32, float32) {
	return m[0]*x + m[4]*y + m[8]*z + m[12],
		m[1]*x + m[5]*y + m[9]*z + m[13],
		m[2]*x + m[6]*y + m[10]*z + m[14]
}
