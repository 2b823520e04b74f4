// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"strings"
	"testing"

	"github.com/gogpu/hyper4d/render"
	"github.com/gogpu/hyper4d/uniform"
)

func TestBuildWGSLContainsSchemaFields(t *testing.T) {
	src := BuildWGSL(uniform.Default())
	for _, want := range []string{
		"struct Uniforms {",
		"rotXY: f32,",
		"rotZW: f32,",
		"projectionDistance: f32,",
		"projectionMode: f32,",
		"resolution: vec2<f32>,",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("shader missing %q", want)
		}
	}
}

func TestBuildWGSLRotationOrder(t *testing.T) {
	src := BuildWGSL(uniform.Default())
	// The six plane rotations must apply XY first and ZW last, matching
	// the CPU rotor composition.
	order := []string{"u.rotXY", "u.rotXZ", "u.rotYZ", "u.rotXW", "u.rotYW", "u.rotZW"}
	last := -1
	for _, name := range order {
		i := strings.Index(src, name)
		if i < 0 {
			t.Fatalf("shader missing %s", name)
		}
		if i < last {
			t.Errorf("%s appears before the preceding plane rotation", name)
		}
		last = i
	}
}

func TestBuildWGSLEntryPoints(t *testing.T) {
	src := BuildWGSL(uniform.Default())
	for _, want := range []string{"fn vs_main", "fn fs_main", "@vertex", "@fragment"} {
		if !strings.Contains(src, want) {
			t.Errorf("shader missing %q", want)
		}
	}
}

func TestExpandQuadsLayout(t *testing.T) {
	data := expandQuads([]float32{1, 2, 3, 4})
	if got, want := len(data), 6*vertexStride; got != want {
		t.Fatalf("len = %d, want %d", got, want)
	}
}

func TestInitWithoutProviderFallsBack(t *testing.T) {
	SetDeviceProvider(nil)
	e := New()
	err := e.Init(render.NewPixmapTarget(8, 8))
	if err == nil {
		t.Fatal("init without provider: want error")
	}
	if got := e.State(); got != render.StateUninitialized {
		t.Errorf("state after failed init = %v, want Uninitialized", got)
	}
}

func TestBackendIsRegistered(t *testing.T) {
	exec := render.NewExecutor(render.BackendGPU)
	if exec == nil {
		t.Fatal("gpu backend not registered")
	}
	if got := exec.Name(); got != render.BackendGPU {
		t.Errorf("name = %q, want %q", got, render.BackendGPU)
	}
}
