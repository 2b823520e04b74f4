// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"testing"
)

func TestRegistryRegisterRelease(t *testing.T) {
	r := NewResourceRegistry()
	h := r.Register(ResourceGeometry, "hypercube/32", "desc", "native", 4096)

	if got := r.Count(); got != 1 {
		t.Fatalf("count = %d, want 1", got)
	}
	if got := r.Native(h); got != "native" {
		t.Errorf("native = %v, want %q", got, "native")
	}

	if err := r.Release(h); err != nil {
		t.Fatal(err)
	}
	if got := r.Count(); got != 0 {
		t.Errorf("count after release = %d, want 0", got)
	}
	if err := r.Release(h); err == nil {
		t.Error("double release: want error")
	}
}

func TestRegistryRetainKeepsAlive(t *testing.T) {
	r := NewResourceRegistry()
	h := r.Register(ResourceUniform, "frame", nil, nil, 256)

	if err := r.Retain(h); err != nil {
		t.Fatal(err)
	}
	if err := r.Release(h); err != nil {
		t.Fatal(err)
	}
	if got := r.Count(); got != 1 {
		t.Errorf("count = %d, want 1 (still retained)", got)
	}
	if err := r.Release(h); err != nil {
		t.Fatal(err)
	}
	if got := r.Count(); got != 0 {
		t.Errorf("count = %d, want 0", got)
	}
}

func TestRegistryStats(t *testing.T) {
	r := NewResourceRegistry()
	r.Register(ResourceGeometry, "a", nil, nil, 100)
	r.Register(ResourceGeometry, "b", nil, nil, 200)
	r.Register(ResourceUniform, "u", nil, nil, 64)

	stats := r.Stats()
	if stats.Count[ResourceGeometry] != 2 || stats.Bytes[ResourceGeometry] != 300 {
		t.Errorf("geometry stats = %d entries %d bytes, want 2/300",
			stats.Count[ResourceGeometry], stats.Bytes[ResourceGeometry])
	}
	if stats.Total() != 364 {
		t.Errorf("total = %d, want 364", stats.Total())
	}
}

func TestRegistryStaleAndRebuild(t *testing.T) {
	r := NewResourceRegistry()
	h := r.Register(ResourcePipeline, "points", "descriptor-v1", "native-v1", 0)

	r.MarkAllStale()
	if got := r.Native(h); got != nil {
		t.Errorf("stale native = %v, want nil", got)
	}
	if got := r.Count(); got != 1 {
		t.Errorf("count while stale = %d, want 1 (handles survive suspension)", got)
	}

	err := r.RebuildStale(func(desc any) (any, error) {
		if desc != "descriptor-v1" {
			t.Errorf("rebuild descriptor = %v, want descriptor-v1", desc)
		}
		return "native-v2", nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := r.Native(h); got != "native-v2" {
		t.Errorf("rebuilt native = %v, want native-v2", got)
	}
}

func TestRegistryRebuildFailure(t *testing.T) {
	r := NewResourceRegistry()
	r.Register(ResourceGeometry, "g", nil, nil, 0)
	r.MarkAllStale()

	wantErr := errors.New("device lost again")
	err := r.RebuildStale(func(any) (any, error) { return nil, wantErr })
	if !errors.Is(err, wantErr) {
		t.Errorf("rebuild error = %v, want wrapped %v", err, wantErr)
	}
}

func TestRegistryDisposeAllIdempotent(t *testing.T) {
	r := NewResourceRegistry()
	h := r.Register(ResourceGeometry, "g", nil, nil, 0)
	if err := r.Retain(h); err != nil {
		t.Fatal(err)
	}

	r.DisposeAll()
	if got := r.Count(); got != 0 {
		t.Errorf("count after dispose = %d, want 0", got)
	}
	// Second call must not panic or error.
	r.DisposeAll()
}
