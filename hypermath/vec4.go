package hypermath

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Vec4 is a 4-component vector. Value type: arithmetic returns new values.
type Vec4 = mgl32.Vec4

// Vec3 is a 3-component vector, the result type of projection.
type Vec3 = mgl32.Vec3

// Vec2 is a 2-component vector.
type Vec2 = mgl32.Vec2

// Mat4 is a 4x4 column-major matrix, used for the 3D stage after projection
// and as the matrix form of a rotor.
type Mat4 = mgl32.Mat4

// Lerp linearly interpolates between a and b. t=0 returns a, t=1 returns b.
func Lerp(a, b Vec4, t float32) Vec4 {
	return a.Add(b.Sub(a).Mul(t))
}

// DistanceSq returns the squared Euclidean distance between a and b.
func DistanceSq(a, b Vec4) float32 {
	d := a.Sub(b)
	return d.Dot(d)
}
