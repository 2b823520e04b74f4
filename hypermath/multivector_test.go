package hypermath

import (
	"math"
	"testing"
)

func TestBladeSign(t *testing.T) {
	tests := []struct {
		a, b uint
		want float32
	}{
		{bladeE1, bladeE1, 1},        // e1 e1 = +1
		{bladeE12, bladeE12, -1},     // e12 e12 = -1
		{bladeE12, bladeE1, -1},      // e12 e1 = -e2
		{bladeE1, bladeE12, 1},       // e1 e12 = e2
		{bladeE12, bladeE34, 1},      // e12 e34 = e1234
		{bladeE1234, bladeE1234, 1},  // pseudoscalar squares to +1 in Cl(4,0)
		{bladeScalar, bladeE1234, 1}, // scalar commutes with everything
	}
	for _, tt := range tests {
		if got := bladeSign(tt.a, tt.b); got != tt.want {
			t.Errorf("bladeSign(%04b, %04b) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestRotorMulMatchesGeometricProduct(t *testing.T) {
	// The hand-expanded even-subalgebra product in Rotor.Mul must agree with
	// the generic blade-indexed geometric product.
	rotors := []Rotor{
		RotorIdentity(),
		RotorFromPlaneAngle(PlaneXY, 0.7),
		RotorFromPlaneAngle(PlaneZW, -1.3),
		mustRotor(t, Angles{0.5, -0.2, 0.9, 1.4, -0.6, 0.3}),
		mustRotor(t, Angles{2.2, 1.8, -2.9, 0.4, 3.0, -1.1}),
	}

	for i, a := range rotors {
		for j, b := range rotors {
			explicit := a.Mul(b)
			generic := rotorFromMultivector(a.multivector().mul(b.multivector()))
			if d := rotorDiff(explicit, generic); d > 1e-5 {
				t.Errorf("rotors[%d]*rotors[%d]: explicit %+v, generic %+v (max diff %v)",
					i, j, explicit, generic, d)
			}
		}
	}
}

func TestSandwichProductGradePreservation(t *testing.T) {
	// R v R~ of a unit rotor and a vector must be a pure vector: all
	// trivector components vanish.
	r := mustRotor(t, Angles{0.4, 1.1, -0.8, 0.6, -1.5, 2.0})
	v := multivector{blades: [16]float32{bladeE1: 1, bladeE2: -2, bladeE3: 0.5, bladeE4: 3}}

	out := r.multivector().mul(v).mul(r.Reverse().multivector())
	for idx, c := range out.blades {
		grade := 0
		for b := idx; b != 0; b >>= 1 {
			grade += b & 1
		}
		if grade != 1 && math.Abs(float64(c)) > 1e-5 {
			t.Errorf("blade %04b (grade %d) = %v, want 0", idx, grade, c)
		}
	}
}

func mustRotor(t *testing.T, a Angles) Rotor {
	t.Helper()
	r, err := RotorFromAngles(a)
	if err != nil {
		t.Fatalf("RotorFromAngles(%v): %v", a, err)
	}
	return r
}

func rotorDiff(a, b Rotor) float64 {
	max := 0.0
	for _, d := range []float32{
		a.S - b.S, a.XY - b.XY, a.XZ - b.XZ, a.YZ - b.YZ,
		a.XW - b.XW, a.YW - b.YW, a.ZW - b.ZW, a.XYZW - b.XYZW,
	} {
		if v := math.Abs(float64(d)); v > max {
			max = v
		}
	}
	return max
}
