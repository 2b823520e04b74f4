// Package geometry generates the 4D point sets rendered by hyper4d.
//
// 24 variants are addressable through a single integer index combining one
// of 8 base shapes with one of 3 core warps: index = warp*8 + base. Warp 0
// is the untouched base shape; warp 1 projects every vertex onto the unit
// 3-sphere; warp 2 pulls vertices toward the nearest vertex of a regular
// 5-cell. Warps compose with the base generator, they never replace it.
//
// Generated buffers are memoized by Encoder and rebuilt only on an explicit
// geometry change, never per frame.
package geometry

import (
	"errors"
	"fmt"
)

// ErrInvalidGeometryIndex is returned for an index outside 0..23. Bad
// indices are rejected, not clamped: clamping would let the caller's idea
// of the current geometry drift from the buffers actually bound.
var ErrInvalidGeometryIndex = errors.New("geometry: invalid geometry index")

const (
	// BaseCount is the number of base shapes.
	BaseCount = 8
	// WarpCount is the number of core warps, including the identity warp.
	WarpCount = 3
	// IndexCount is the number of addressable geometry variants.
	IndexCount = BaseCount * WarpCount
	// MaxIndex is the largest valid geometry index.
	MaxIndex = IndexCount - 1
)

// BaseShape identifies one of the 8 base generators.
type BaseShape int

const (
	BaseTetrahedron BaseShape = iota
	BaseHypercube
	BaseSphere
	BaseTorus
	BaseKleinBottle
	BaseFractal
	BaseWave
	BaseCrystal
)

var baseShapeNames = [...]string{
	"Tetrahedron", "Hypercube", "Sphere", "Torus",
	"Klein Bottle", "Fractal", "Wave", "Crystal",
}

// String returns the base shape name.
func (b BaseShape) String() string {
	if b >= 0 && int(b) < len(baseShapeNames) {
		return baseShapeNames[b]
	}
	return fmt.Sprintf("BaseShape(%d)", int(b))
}

// CoreWarp identifies the secondary 4D embedding applied over a base shape.
type CoreWarp int

const (
	// WarpNone leaves the base shape untouched.
	WarpNone CoreWarp = iota
	// WarpHypersphere projects every vertex onto the unit 3-sphere.
	WarpHypersphere
	// WarpHypertetra pulls every vertex toward the nearest vertex of a
	// regular 5-cell.
	WarpHypertetra
)

var coreWarpNames = [...]string{"Base", "Hypersphere", "Hypertetrahedron"}

// String returns the warp name.
func (w CoreWarp) String() string {
	if w >= 0 && int(w) < len(coreWarpNames) {
		return coreWarpNames[w]
	}
	return fmt.Sprintf("CoreWarp(%d)", int(w))
}

// Descriptor addresses one geometry variant.
type Descriptor struct {
	Warp CoreWarp
	Base BaseShape
}

// Encode returns the combined geometry index warp*8 + base.
func (d Descriptor) Encode() int {
	return int(d.Warp)*BaseCount + int(d.Base)
}

// Decode splits a combined geometry index into its descriptor. Indices
// outside 0..23 fail with ErrInvalidGeometryIndex.
func Decode(index int) (Descriptor, error) {
	if index < 0 || index > MaxIndex {
		return Descriptor{}, fmt.Errorf("%w: %d (valid range 0..%d)", ErrInvalidGeometryIndex, index, MaxIndex)
	}
	return Descriptor{
		Warp: CoreWarp(index / BaseCount),
		Base: BaseShape(index % BaseCount),
	}, nil
}

// Name returns a descriptive variant name, e.g. "Hypersphere Torus".
// Unwarped variants use the bare base name.
func (d Descriptor) Name() string {
	if d.Warp == WarpNone {
		return d.Base.String()
	}
	return d.Warp.String() + " " + d.Base.String()
}
