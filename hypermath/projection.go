package hypermath

import (
	"fmt"
	"math"
)

// ProjectionMode selects the 4D-to-3D projection law.
type ProjectionMode int

const (
	// ProjectionPerspective scales xyz by distance/(distance+w).
	ProjectionPerspective ProjectionMode = iota
	// ProjectionStereographic scales xyz by 1/(1-w), conformal from S3.
	ProjectionStereographic
	// ProjectionOrthographic drops w.
	ProjectionOrthographic
)

// projectionModeNames maps ProjectionMode values to their string form.
var projectionModeNames = [...]string{"perspective", "stereographic", "orthographic"}

// String returns the mode name, e.g. "perspective".
func (m ProjectionMode) String() string {
	if m >= 0 && int(m) < len(projectionModeNames) {
		return projectionModeNames[m]
	}
	return fmt.Sprintf("ProjectionMode(%d)", int(m))
}

// ParseProjectionMode returns the mode named by s.
func ParseProjectionMode(s string) (ProjectionMode, error) {
	for i, name := range projectionModeNames {
		if s == name {
			return ProjectionMode(i), nil
		}
	}
	return 0, fmt.Errorf("hypermath: unknown projection mode %q", s)
}

// projectionEpsilon is the minimum magnitude allowed for a projection
// denominator. Near the singularity the denominator is clamped rather than
// letting the division produce NaN or flip sign frame to frame.
const projectionEpsilon = 1e-6

// clampDenom clamps d away from zero, preserving sign. Exactly zero clamps
// positive.
func clampDenom(d float32) float32 {
	if d >= 0 {
		if d < projectionEpsilon {
			return projectionEpsilon
		}
		return d
	}
	if d > -projectionEpsilon {
		return -projectionEpsilon
	}
	return d
}

// Project maps a 4D point to 3D under the given mode. distance is used by
// the perspective law only; it must be supplied live by the caller, there
// is no built-in default.
func Project(v Vec4, mode ProjectionMode, distance float32) Vec3 {
	switch mode {
	case ProjectionStereographic:
		f := 1.0 / clampDenom(1.0-v.W())
		return Vec3{v.X() * f, v.Y() * f, v.Z() * f}
	case ProjectionOrthographic:
		return Vec3{v.X(), v.Y(), v.Z()}
	default: // perspective
		f := distance / clampDenom(distance+v.W())
		return Vec3{v.X() * f, v.Y() * f, v.Z() * f}
	}
}

// ProjectOblique applies a cavalier projection: xyz plus a shear of w into
// each axis.
func ProjectOblique(v Vec4, shearX, shearY, shearZ float32) Vec3 {
	return Vec3{
		v.X() + shearX*v.W(),
		v.Y() + shearY*v.W(),
		v.Z() + shearZ*v.W(),
	}
}

// SliceResult is the outcome of a cross-sectional slice projection.
// Alpha is 1 at the slice center and fades to 0 at the edge.
type SliceResult struct {
	Point Vec3
	Alpha float32
	Valid bool
}

// ProjectSlice intersects a point with the slab |w - sliceW| <= thickness.
// Points outside the slab return Valid=false. When fade is set, Alpha
// reflects the distance from the slice center.
func ProjectSlice(v Vec4, sliceW, thickness float32, fade bool) SliceResult {
	dist := float32(math.Abs(float64(v.W() - sliceW)))
	if dist > thickness {
		return SliceResult{}
	}
	alpha := float32(1)
	if fade && thickness > 0 {
		alpha = 1 - dist/thickness
	}
	return SliceResult{
		Point: Vec3{v.X(), v.Y(), v.Z()},
		Alpha: alpha,
		Valid: true,
	}
}

// ProjectBatch projects src into dst, which is grown as needed, and returns
// it. Reusing dst across frames avoids per-frame allocation.
func ProjectBatch(dst []Vec3, src []Vec4, mode ProjectionMode, distance float32) []Vec3 {
	if cap(dst) < len(src) {
		dst = make([]Vec3, len(src))
	}
	dst = dst[:len(src)]
	for i, v := range src {
		dst[i] = Project(v, mode, distance)
	}
	return dst
}

// ProjectToFloats projects src and appends the result to dst as packed
// x,y,z triples, suitable for vertex buffer upload.
func ProjectToFloats(dst []float32, src []Vec4, mode ProjectionMode, distance float32) []float32 {
	for _, v := range src {
		p := Project(v, mode, distance)
		dst = append(dst, p.X(), p.Y(), p.Z())
	}
	return dst
}
