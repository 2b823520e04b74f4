package hypermath

import (
	"math"
	"testing"
)

func TestProjectPerspective(t *testing.T) {
	const distance = 2.5

	// The origin stays fixed under perspective projection.
	got := Project(Vec4{0, 0, 0, 0}, ProjectionPerspective, distance)
	if got.X() != 0 || got.Y() != 0 || got.Z() != 0 {
		t.Errorf("Project(origin) = %v, want (0,0,0)", got)
	}

	// Non-origin vertices scale by distance/(distance+w).
	tests := []Vec4{
		{1, 0, 0, 0},
		{1, 2, 3, 1},
		{-0.5, 0.25, 1, -1.5},
		{2, -2, 2, 4},
	}
	for _, v := range tests {
		got := Project(v, ProjectionPerspective, distance)
		factor := float32(distance) / (distance + v.W())
		want := Vec3{v.X() * factor, v.Y() * factor, v.Z() * factor}
		for i := 0; i < 3; i++ {
			if math.Abs(float64(got[i]-want[i])) > 1e-6 {
				t.Errorf("Project(%v)[%d] = %v, want %v", v, i, got[i], want[i])
			}
		}
	}
}

func TestProjectPerspectiveSingularity(t *testing.T) {
	// w = -distance puts the denominator at zero; the clamp must keep the
	// output finite instead of NaN.
	v := Vec4{1, 1, 1, -2.5}
	got := Project(v, ProjectionPerspective, 2.5)
	for i := 0; i < 3; i++ {
		if math.IsNaN(float64(got[i])) || math.IsInf(float64(got[i]), 0) {
			t.Errorf("Project at singularity component %d = %v, want finite", i, got[i])
		}
	}

	// Just past the singularity the sign of the denominator is preserved.
	neg := Project(Vec4{1, 0, 0, -2.5 - 1e-8}, ProjectionPerspective, 2.5)
	if neg.X() > 0 {
		t.Errorf("denominator sign not preserved past singularity: got %v", neg.X())
	}
}

func TestProjectStereographic(t *testing.T) {
	v := Vec4{0.4, -0.8, 0.2, 0.5}
	got := Project(v, ProjectionStereographic, 99) // distance is ignored
	f := float32(1) / (1 - v.W())
	want := Vec3{v.X() * f, v.Y() * f, v.Z() * f}
	for i := 0; i < 3; i++ {
		if math.Abs(float64(got[i]-want[i])) > 1e-6 {
			t.Errorf("stereographic component %d = %v, want %v", i, got[i], want[i])
		}
	}

	// Pole at w=1 must stay finite.
	pole := Project(Vec4{0.1, 0.2, 0.3, 1}, ProjectionStereographic, 0)
	for i := 0; i < 3; i++ {
		if math.IsNaN(float64(pole[i])) || math.IsInf(float64(pole[i]), 0) {
			t.Errorf("stereographic pole component %d = %v, want finite", i, pole[i])
		}
	}
}

func TestProjectOrthographic(t *testing.T) {
	v := Vec4{1.5, -2.5, 3.5, 42}
	got := Project(v, ProjectionOrthographic, 2.0)
	want := Vec3{1.5, -2.5, 3.5}
	if got != want {
		t.Errorf("orthographic = %v, want %v", got, want)
	}
}

func TestProjectOblique(t *testing.T) {
	v := Vec4{1, 2, 3, 2}
	got := ProjectOblique(v, 0.5, 0.25, 0)
	want := Vec3{2, 2.5, 3}
	if got != want {
		t.Errorf("ProjectOblique = %v, want %v", got, want)
	}
}

func TestProjectSlice(t *testing.T) {
	in := ProjectSlice(Vec4{1, 2, 3, 0.05}, 0, 0.1, true)
	if !in.Valid {
		t.Fatal("point inside slab reported invalid")
	}
	if math.Abs(float64(in.Alpha-0.5)) > 1e-6 {
		t.Errorf("Alpha = %v, want 0.5", in.Alpha)
	}

	out := ProjectSlice(Vec4{1, 2, 3, 0.2}, 0, 0.1, true)
	if out.Valid {
		t.Error("point outside slab reported valid")
	}

	flat := ProjectSlice(Vec4{1, 2, 3, 0.05}, 0, 0.1, false)
	if flat.Alpha != 1 {
		t.Errorf("Alpha without fade = %v, want 1", flat.Alpha)
	}
}

func TestProjectBatch(t *testing.T) {
	src := []Vec4{{1, 2, 3, 1}, {0, 0, 0, 0}, {-1, -1, -1, 0.5}}
	dst := ProjectBatch(nil, src, ProjectionPerspective, 2.5)
	if len(dst) != len(src) {
		t.Fatalf("len(dst) = %d, want %d", len(dst), len(src))
	}
	for i, v := range src {
		want := Project(v, ProjectionPerspective, 2.5)
		if dst[i] != want {
			t.Errorf("dst[%d] = %v, want %v", i, dst[i], want)
		}
	}

	// Reuse keeps the same backing array when capacity suffices.
	reused := ProjectBatch(dst, src[:2], ProjectionOrthographic, 0)
	if len(reused) != 2 {
		t.Errorf("reused len = %d, want 2", len(reused))
	}
}

func TestProjectToFloats(t *testing.T) {
	src := []Vec4{{1, 2, 3, 0}, {4, 5, 6, 0}}
	flat := ProjectToFloats(nil, src, ProjectionOrthographic, 0)
	want := []float32{1, 2, 3, 4, 5, 6}
	if len(flat) != len(want) {
		t.Fatalf("len = %d, want %d", len(flat), len(want))
	}
	for i := range want {
		if flat[i] != want[i] {
			t.Errorf("flat[%d] = %v, want %v", i, flat[i], want[i])
		}
	}
}

func TestParseProjectionMode(t *testing.T) {
	for _, mode := range []ProjectionMode{ProjectionPerspective, ProjectionStereographic, ProjectionOrthographic} {
		got, err := ParseProjectionMode(mode.String())
		if err != nil {
			t.Errorf("ParseProjectionMode(%q) error: %v", mode.String(), err)
		}
		if got != mode {
			t.Errorf("ParseProjectionMode(%q) = %v, want %v", mode.String(), got, mode)
		}
	}
	if _, err := ParseProjectionMode("isometric"); err == nil {
		t.Error("ParseProjectionMode(\"isometric\") should fail")
	}
}
