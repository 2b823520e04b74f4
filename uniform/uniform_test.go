// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package uniform

import (
	"encoding/binary"
	"math"
	"strings"
	"testing"
)

func TestSchemaLookup(t *testing.T) {
	s := Default()
	tests := []struct {
		name string
		kind Kind
	}{
		{"time", KindFloat},
		{"resolution", KindVec2},
		{"rotZW", KindFloat},
		{"mouse", KindVec2},
		{"layer0ColorTint", KindVec3},
		{"layer4BlendMode", KindFloat},
		{"speedMult", KindFloat},
	}
	for _, tt := range tests {
		f, ok := s.Lookup(tt.name)
		if !ok {
			t.Fatalf("Lookup(%q): not found", tt.name)
		}
		if f.Kind != tt.kind {
			t.Errorf("Lookup(%q).Kind = %v, want %v", tt.name, f.Kind, tt.kind)
		}
	}
	if _, ok := s.Lookup("nope"); ok {
		t.Error("Lookup(nope): found unexpectedly")
	}
}

func TestFrameSetGet(t *testing.T) {
	f := NewFrame()
	if err := f.Set("hue", 0.25); err != nil {
		t.Fatal(err)
	}
	if err := f.Set("mouse", 0.5, -0.5); err != nil {
		t.Fatal(err)
	}
	if got := f.Float("hue"); got != 0.25 {
		t.Errorf("hue = %v, want 0.25", got)
	}
	m, err := f.Get("mouse")
	if err != nil {
		t.Fatal(err)
	}
	if m[0] != 0.5 || m[1] != -0.5 {
		t.Errorf("mouse = %v, want [0.5 -0.5]", m)
	}
}

func TestFrameSetErrors(t *testing.T) {
	f := NewFrame()
	if err := f.Set("noSuchField", 1); err == nil {
		t.Error("unknown field: want error")
	}
	if err := f.Set("time", 1, 2); err == nil {
		t.Error("component count mismatch: want error")
	}
	if err := f.Set("time", float32(math.NaN())); err == nil {
		t.Error("NaN: want error")
	}
	if err := f.Set("time", float32(math.Inf(1))); err == nil {
		t.Error("+Inf: want error")
	}
}

func TestRotationRoundTrip(t *testing.T) {
	f := NewFrame()
	angles := [6]float32{0.1, 0.2, 0.3, 0.4, 0.5, 0.6}
	if err := f.SetRotation(angles); err != nil {
		t.Fatal(err)
	}
	if got := f.Rotation(); got != angles {
		t.Errorf("Rotation() = %v, want %v", got, angles)
	}
}

func TestSetLayerOutOfRange(t *testing.T) {
	f := NewFrame()
	if err := f.SetLayer(-1, 1, 1, [3]float32{}, 0); err == nil {
		t.Error("layer -1: want error")
	}
	if err := f.SetLayer(LayerCount, 1, 1, [3]float32{}, 0); err == nil {
		t.Error("layer 5: want error")
	}
}

// TestPackersAgree checks that the std140 blob carries the same values
// as the flat layout, just relocated per the alignment rules.
func TestPackersAgree(t *testing.T) {
	f := NewFrame()
	f.SetTime(1.5)
	f.SetResolution(1920, 1080)
	if err := f.SetRotation([6]float32{0.1, 0.2, 0.3, 0.4, 0.5, 0.6}); err != nil {
		t.Fatal(err)
	}
	if err := f.SetLayer(2, 1.25, 0.5, [3]float32{1, 0.5, 0.25}, 3); err != nil {
		t.Fatal(err)
	}

	flat := f.PackFlat()
	std := f.PackStd140()

	offset := 0
	for _, field := range f.Schema().Fields() {
		offset = alignUp(offset, field.Kind.std140Align())
		for c := 0; c < field.Kind.Components(); c++ {
			got := math.Float32frombits(binary.LittleEndian.Uint32(std[offset:]))
			want := flat[field.flatOffset+c]
			if got != want {
				t.Errorf("field %s[%d]: std140 = %v, flat = %v", field.Name, c, got, want)
			}
			offset += 4
		}
	}
}

func TestStd140Alignment(t *testing.T) {
	s := Default()
	if s.Std140Size()%16 != 0 {
		t.Errorf("std140 size %d not a multiple of 16", s.Std140Size())
	}

	// resolution is a vec2 declared after a single f32, so std140 must
	// insert one float of padding before it.
	blob := make(map[string]int)
	offset := 0
	for _, field := range s.Fields() {
		offset = alignUp(offset, field.Kind.std140Align())
		blob[field.Name] = offset
		offset += field.Kind.Components() * 4
	}
	if blob["time"] != 0 {
		t.Errorf("time offset = %d, want 0", blob["time"])
	}
	if blob["resolution"] != 8 {
		t.Errorf("resolution offset = %d, want 8", blob["resolution"])
	}
	if blob["layer0ColorTint"]%16 != 0 {
		t.Errorf("layer0ColorTint offset %d not 16-aligned", blob["layer0ColorTint"])
	}
}

func TestFlatRoundTrip(t *testing.T) {
	f := NewFrame()
	f.SetTime(3.25)
	if err := f.Set("chaos", 0.75); err != nil {
		t.Fatal(err)
	}
	flat := f.PackFlat()

	g := NewFrame()
	if err := g.UnpackFlat(flat); err != nil {
		t.Fatal(err)
	}
	if g.Float("time") != 3.25 || g.Float("chaos") != 0.75 {
		t.Errorf("round trip lost values: time=%v chaos=%v", g.Float("time"), g.Float("chaos"))
	}
	if err := g.UnpackFlat(flat[:3]); err == nil {
		t.Error("short flat data: want error")
	}
}

func TestWGSLStruct(t *testing.T) {
	src := Default().WGSLStruct("Params")
	for _, want := range []string{
		"struct Params {",
		"time: f32,",
		"resolution: vec2<f32>,",
		"layer0ColorTint: vec3<f32>,",
		"speedMult: f32,",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("WGSL struct missing %q:\n%s", want, src)
		}
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	f := NewFrame()
	f.SetTime(12.5)
	if err := f.SetRotation([6]float32{0.1, 0, 0, 0.5, 0, 1.25}); err != nil {
		t.Fatal(err)
	}
	if err := f.Set("hue", 0.6180339887); err != nil {
		t.Fatal(err)
	}

	snap := TakeSnapshot(f, 19)
	data, err := snap.Encode()
	if err != nil {
		t.Fatal(err)
	}

	restored, err := DecodeSnapshot(data)
	if err != nil {
		t.Fatal(err)
	}
	if restored.GeometryIndex != 19 {
		t.Errorf("geometry index = %d, want 19", restored.GeometryIndex)
	}

	g := NewFrame()
	if err := restored.Apply(g); err != nil {
		t.Fatal(err)
	}
	a, b := f.PackFlat(), g.PackFlat()
	for i := range a {
		if math.Float32bits(a[i]) != math.Float32bits(b[i]) {
			t.Fatalf("component %d differs after round trip: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestSnapshotRejectsUnknownField(t *testing.T) {
	snap := &Snapshot{Fields: map[string][]float32{"mystery": {1}}}
	if err := snap.Apply(NewFrame()); err == nil {
		t.Error("unknown snapshot field: want error")
	}
}
