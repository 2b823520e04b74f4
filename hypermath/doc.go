// Package hypermath provides the 4D linear algebra used by hyper4d:
// four-component vectors and matrices (via go-gl/mathgl), rotors over the
// six rotation planes of R4, and 4D-to-3D projection.
//
// # Rotors
//
// A 3D rotation is a quaternion; its 4D analogue is a rotor, an element of
// the even subalgebra of Cl(4,0) with eight components: a scalar, six
// bivectors (one per rotation plane XY, XZ, YZ, XW, YW, ZW), and a
// pseudoscalar. Rotors compose by multiplication and rotate vectors via the
// sandwich product R v R~. Unlike per-plane matrix products, an accumulated
// rotor stays a single value that can be renormalized to counter
// floating-point drift.
//
// # Projection
//
// Project maps a rotated 4D point to 3D under one of three laws:
// perspective (distance/(distance+w)), stereographic (1/(1-w)), or
// orthographic (drop w). The perspective and stereographic denominators are
// clamped to an epsilon near their singularities so a point sweeping
// through the projection pole never produces NaN.
package hypermath
