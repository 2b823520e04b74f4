package hypermath

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidRotationInput is returned when a rotation angle is NaN or
// infinite. Bad angles are rejected here so they never propagate into
// geometry as NaN vertices.
var ErrInvalidRotationInput = errors.New("hypermath: invalid rotation input")

// Plane identifies one of the six independent rotation planes of R4.
type Plane int

const (
	PlaneXY Plane = iota
	PlaneXZ
	PlaneYZ
	PlaneXW
	PlaneYW
	PlaneZW

	// PlaneCount is the number of independent rotation planes in 4D.
	PlaneCount = 6
)

// planeNames maps Plane values to their string representation.
var planeNames = [...]string{"XY", "XZ", "YZ", "XW", "YW", "ZW"}

// String returns the plane name, e.g. "XW".
func (p Plane) String() string {
	if p >= 0 && int(p) < len(planeNames) {
		return planeNames[p]
	}
	return fmt.Sprintf("Plane(%d)", int(p))
}

// Angles holds one rotation angle in radians per plane, indexed by Plane.
// The composition order is fixed: XY, XZ, YZ, XW, YW, ZW.
type Angles [PlaneCount]float32

// Valid reports whether every angle is finite.
func (a Angles) Valid() bool {
	for _, v := range a {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

// Rotor is a 4D rotation element: the even-grade part of Cl(4,0).
// Components are a scalar, six bivectors (one per rotation plane), and the
// pseudoscalar. The zero value is NOT a valid rotor; use RotorIdentity.
//
// Rotors are passed by value and never shared.
type Rotor struct {
	S    float32 // scalar
	XY   float32 // bivector e1^e2
	XZ   float32 // bivector e1^e3
	YZ   float32 // bivector e2^e3
	XW   float32 // bivector e1^e4
	YW   float32 // bivector e2^e4
	ZW   float32 // bivector e3^e4
	XYZW float32 // pseudoscalar e1^e2^e3^e4
}

// RotorIdentity returns the identity rotor (no rotation).
func RotorIdentity() Rotor {
	return Rotor{S: 1}
}

// RotorFromPlaneAngle builds a rotor for a rotation of angle radians in a
// single plane: cos(a/2) - sin(a/2) * B, where B is the plane's bivector.
// The sign orients positive angles from the plane's first axis toward its
// second (XY rotates +x toward +y).
func RotorFromPlaneAngle(plane Plane, angle float32) Rotor {
	half := float64(angle) * 0.5
	c := float32(math.Cos(half))
	s := float32(-math.Sin(half))

	r := Rotor{S: c}
	switch plane {
	case PlaneXY:
		r.XY = s
	case PlaneXZ:
		r.XZ = s
	case PlaneYZ:
		r.YZ = s
	case PlaneXW:
		r.XW = s
	case PlaneYW:
		r.YW = s
	case PlaneZW:
		r.ZW = s
	}
	return r
}

// RotorFromAngles composes one rotor from six per-plane angles in the fixed
// order XY, XZ, YZ, XW, YW, ZW. Applying the result to a vector is
// equivalent to applying the six plane rotations sequentially in that order.
//
// All-zero angles return the exact identity (no drift). Angles that are NaN
// or infinite fail with ErrInvalidRotationInput.
func RotorFromAngles(a Angles) (Rotor, error) {
	if !a.Valid() {
		return RotorIdentity(), fmt.Errorf("%w: angles %v", ErrInvalidRotationInput, a)
	}

	// Under the sandwich product the rightmost factor rotates first, so each
	// successive plane rotor is multiplied on the left. Skipping near-zero
	// planes keeps the all-zero case exactly identity.
	const eps = 1e-8
	r := RotorIdentity()
	for p := Plane(0); p < PlaneCount; p++ {
		if math.Abs(float64(a[p])) > eps {
			r = RotorFromPlaneAngle(p, a[p]).Mul(r)
		}
	}
	return r, nil
}

// Mul returns the geometric product r * b. Under Apply this composes the
// rotations with b's applied first, then r's. The product of two even-grade
// elements is even-grade, so the result is again a rotor.
func (r Rotor) Mul(b Rotor) Rotor {
	a := r
	return Rotor{
		S: a.S*b.S - a.XY*b.XY - a.XZ*b.XZ - a.YZ*b.YZ -
			a.XW*b.XW - a.YW*b.YW - a.ZW*b.ZW - a.XYZW*b.XYZW,

		XY: a.S*b.XY + a.XY*b.S - a.XZ*b.YZ + a.YZ*b.XZ -
			a.XW*b.YW + a.YW*b.XW + a.ZW*b.XYZW + a.XYZW*b.ZW,

		XZ: a.S*b.XZ + a.XY*b.YZ + a.XZ*b.S - a.YZ*b.XY -
			a.XW*b.ZW - a.YW*b.XYZW + a.ZW*b.XW + a.XYZW*b.YW,

		YZ: a.S*b.YZ - a.XY*b.XZ + a.XZ*b.XY + a.YZ*b.S +
			a.XW*b.XYZW - a.YW*b.ZW + a.ZW*b.YW - a.XYZW*b.XW,

		XW: a.S*b.XW + a.XY*b.YW + a.XZ*b.ZW - a.YZ*b.XYZW +
			a.XW*b.S - a.YW*b.XY - a.ZW*b.XZ + a.XYZW*b.YZ,

		YW: a.S*b.YW - a.XY*b.XW + a.XZ*b.XYZW + a.YZ*b.ZW +
			a.XW*b.XY + a.YW*b.S - a.ZW*b.YZ - a.XYZW*b.XZ,

		ZW: a.S*b.ZW - a.XY*b.XYZW - a.XZ*b.XW - a.YZ*b.YW +
			a.XW*b.XZ + a.YW*b.YZ + a.ZW*b.S + a.XYZW*b.XY,

		XYZW: a.S*b.XYZW + a.XY*b.ZW - a.XZ*b.YW + a.YZ*b.XW +
			a.XW*b.YZ - a.YW*b.XZ + a.ZW*b.XY + a.XYZW*b.S,
	}
}

// Reverse returns the reverse R~, which negates the bivector components.
// For a unit rotor the reverse is the inverse rotation.
func (r Rotor) Reverse() Rotor {
	return Rotor{
		S: r.S, XY: -r.XY, XZ: -r.XZ, YZ: -r.YZ,
		XW: -r.XW, YW: -r.YW, ZW: -r.ZW, XYZW: r.XYZW,
	}
}

// NormSq returns the squared magnitude of the rotor.
func (r Rotor) NormSq() float32 {
	return r.S*r.S + r.XY*r.XY + r.XZ*r.XZ + r.YZ*r.YZ +
		r.XW*r.XW + r.YW*r.YW + r.ZW*r.ZW + r.XYZW*r.XYZW
}

// Norm returns the magnitude of the rotor.
func (r Rotor) Norm() float32 {
	return float32(math.Sqrt(float64(r.NormSq())))
}

// Normalized returns r scaled to unit magnitude. A degenerate zero rotor
// normalizes to the identity.
func (r Rotor) Normalized() Rotor {
	n := r.Norm()
	if n <= 0 {
		return RotorIdentity()
	}
	inv := 1.0 / n
	return r.scale(inv)
}

// IsNormalized reports whether the rotor magnitude is within eps of 1.
func (r Rotor) IsNormalized(eps float32) bool {
	return float32(math.Abs(float64(r.NormSq()-1))) < eps
}

// Inverse returns the inverse rotor R~ / |R|^2.
func (r Rotor) Inverse() Rotor {
	nsq := r.NormSq()
	if nsq <= 0 {
		return RotorIdentity()
	}
	return r.Reverse().scale(1.0 / nsq)
}

// Dot returns the component-wise dot product of two rotors.
func (r Rotor) Dot(b Rotor) float32 {
	return r.S*b.S + r.XY*b.XY + r.XZ*b.XZ + r.YZ*b.YZ +
		r.XW*b.XW + r.YW*b.YW + r.ZW*b.ZW + r.XYZW*b.XYZW
}

// Apply rotates a vector by the sandwich product R v R~. The rotor is
// normalized first, so applying any rotor preserves vector norm within
// floating-point tolerance. For batches, compute Mat4 once and multiply.
func (r Rotor) Apply(v Vec4) Vec4 {
	n := r.Normalized()
	rm := n.multivector()
	vm := multivector{blades: [16]float32{bladeE1: v.X(), bladeE2: v.Y(), bladeE3: v.Z(), bladeE4: v.W()}}
	out := rm.mul(vm).mul(n.Reverse().multivector())
	return Vec4{out.blades[bladeE1], out.blades[bladeE2], out.blades[bladeE3], out.blades[bladeE4]}
}

// Mat4 returns the rotation as a 4x4 column-major matrix: column j is the
// sandwich product applied to basis vector e_j. Both backends derive their
// rotation from these entries.
func (r Rotor) Mat4() Mat4 {
	var m Mat4
	basis := [4]Vec4{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, 1}}
	for col, e := range basis {
		rotated := r.Apply(e)
		for row := 0; row < 4; row++ {
			// mgl32.Mat4 is column-major: element (row, col) is m[col*4+row].
			m[col*4+row] = rotated[row]
		}
	}
	return m
}

// Slerp spherically interpolates from r to b. t=0 returns r, t=1 returns b.
// Takes the shorter arc; falls back to Nlerp when the rotors are nearly
// parallel.
func (r Rotor) Slerp(b Rotor, t float32) Rotor {
	d := r.Dot(b)
	if d < 0 {
		d = -d
		b = b.scale(-1)
	}
	if d > 0.9995 {
		return r.Nlerp(b, t)
	}

	theta := math.Acos(float64(d))
	sinTheta := math.Sin(theta)
	w1 := float32(math.Sin((1-float64(t))*theta) / sinTheta)
	w2 := float32(math.Sin(float64(t)*theta) / sinTheta)

	return r.scale(w1).add(b.scale(w2))
}

// Nlerp linearly interpolates from r to b and renormalizes. Faster than
// Slerp but not constant-velocity.
func (r Rotor) Nlerp(b Rotor, t float32) Rotor {
	return r.add(b.add(r.scale(-1)).scale(t)).Normalized()
}

func (r Rotor) scale(c float32) Rotor {
	return Rotor{
		S: r.S * c, XY: r.XY * c, XZ: r.XZ * c, YZ: r.YZ * c,
		XW: r.XW * c, YW: r.YW * c, ZW: r.ZW * c, XYZW: r.XYZW * c,
	}
}

func (r Rotor) add(b Rotor) Rotor {
	return Rotor{
		S: r.S + b.S, XY: r.XY + b.XY, XZ: r.XZ + b.XZ, YZ: r.YZ + b.YZ,
		XW: r.XW + b.XW, YW: r.YW + b.YW, ZW: r.ZW + b.ZW, XYZW: r.XYZW + b.XYZW,
	}
}
