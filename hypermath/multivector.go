package hypermath

import "math/bits"

// multivector is a full element of Cl(4,0), indexed by basis-blade bitmask:
// bit 0 = e1, bit 1 = e2, bit 2 = e3, bit 3 = e4. Index 0 is the scalar,
// index 15 the pseudoscalar. Used to evaluate the sandwich product without
// hand-expanding 4D rotation formulas; the per-plane expansions in Mul are
// checked against this in tests.
type multivector struct {
	blades [16]float32
}

// Blade indices for the grades used by rotor application.
const (
	bladeScalar = 0
	bladeE1     = 1 << 0
	bladeE2     = 1 << 1
	bladeE3     = 1 << 2
	bladeE4     = 1 << 3
	bladeE12    = bladeE1 | bladeE2
	bladeE13    = bladeE1 | bladeE3
	bladeE23    = bladeE2 | bladeE3
	bladeE14    = bladeE1 | bladeE4
	bladeE24    = bladeE2 | bladeE4
	bladeE34    = bladeE3 | bladeE4
	bladeE1234  = bladeE1 | bladeE2 | bladeE3 | bladeE4
)

// bladeSign returns the reordering sign of the product of basis blades a
// and b: -1 raised to the number of transpositions needed to sort the
// concatenated factors. All basis vectors square to +1 in Cl(4,0).
func bladeSign(a, b uint) float32 {
	a >>= 1
	swaps := 0
	for a != 0 {
		swaps += bits.OnesCount(a & b)
		a >>= 1
	}
	if swaps&1 == 0 {
		return 1
	}
	return -1
}

// mul computes the full geometric product m * o.
func (m multivector) mul(o multivector) multivector {
	var out multivector
	for a := uint(0); a < 16; a++ {
		va := m.blades[a]
		if va == 0 {
			continue
		}
		for b := uint(0); b < 16; b++ {
			vb := o.blades[b]
			if vb == 0 {
				continue
			}
			out.blades[a^b] += bladeSign(a, b) * va * vb
		}
	}
	return out
}

// multivector returns the rotor embedded in the full algebra.
func (r Rotor) multivector() multivector {
	var m multivector
	m.blades[bladeScalar] = r.S
	m.blades[bladeE12] = r.XY
	m.blades[bladeE13] = r.XZ
	m.blades[bladeE23] = r.YZ
	m.blades[bladeE14] = r.XW
	m.blades[bladeE24] = r.YW
	m.blades[bladeE34] = r.ZW
	m.blades[bladeE1234] = r.XYZW
	return m
}

// rotorFromMultivector reads the even-grade components back out.
func rotorFromMultivector(m multivector) Rotor {
	return Rotor{
		S:    m.blades[bladeScalar],
		XY:   m.blades[bladeE12],
		XZ:   m.blades[bladeE13],
		YZ:   m.blades[bladeE23],
		XW:   m.blades[bladeE14],
		YW:   m.blades[bladeE24],
		ZW:   m.blades[bladeE34],
		XYZW: m.blades[bladeE1234],
	}
}
