// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// ResourceKind classifies registry entries for accounting.
type ResourceKind uint8

const (
	ResourceGeometry ResourceKind = iota
	ResourceUniform
	ResourcePipeline
	ResourceTexture

	resourceKindCount
)

var resourceKindNames = [...]string{
	ResourceGeometry: "geometry",
	ResourceUniform:  "uniform",
	ResourcePipeline: "pipeline",
	ResourceTexture:  "texture",
}

// String returns the kind name.
func (k ResourceKind) String() string {
	if int(k) < len(resourceKindNames) {
		return resourceKindNames[k]
	}
	return "unknown"
}

// Handle identifies one registered resource. Handles stay valid across
// Suspend/Resume; only the native object behind them is rebuilt.
type Handle = uuid.UUID

// Rebuilder restores a resource's native object after context loss.
// It receives the entry's descriptor and returns the replacement native
// object.
type Rebuilder func(descriptor any) (native any, err error)

type entry struct {
	kind       ResourceKind
	logicalID  string
	descriptor any
	native     any
	bytes      int
	refs       int
	stale      bool
}

// RegistryStats reports byte totals and entry counts per resource kind.
type RegistryStats struct {
	Count [resourceKindCount]int
	Bytes [resourceKindCount]int64
}

// Total returns the byte total across all kinds.
func (s RegistryStats) Total() int64 {
	var sum int64
	for _, b := range s.Bytes {
		sum += b
	}
	return sum
}

// ResourceRegistry tracks every native object a backend has created,
// with reference counting and context-loss recovery. It is safe for
// concurrent use.
type ResourceRegistry struct {
	mu       sync.Mutex
	entries  map[Handle]*entry
	disposed bool
}

// NewResourceRegistry returns an empty registry.
func NewResourceRegistry() *ResourceRegistry {
	return &ResourceRegistry{entries: make(map[Handle]*entry)}
}

// Register adds a resource with an initial reference count of 1 and
// returns its handle. The descriptor must carry enough information to
// rebuild the native object after context loss.
func (r *ResourceRegistry) Register(kind ResourceKind, logicalID string, descriptor, native any, bytes int) Handle {
	h := uuid.New()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[h] = &entry{
		kind:       kind,
		logicalID:  logicalID,
		descriptor: descriptor,
		native:     native,
		bytes:      bytes,
		refs:       1,
	}
	return h
}

// Retain increments the reference count of a live resource.
func (r *ResourceRegistry) Retain(h Handle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[h]
	if !ok {
		return fmt.Errorf("render: retain of unknown resource %s", h)
	}
	e.refs++
	return nil
}

// Release decrements the reference count, removing the entry when it
// reaches zero. Releasing an unknown handle is an error; double release
// surfaces as unknown since the entry is already gone.
func (r *ResourceRegistry) Release(h Handle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[h]
	if !ok {
		return fmt.Errorf("render: release of unknown resource %s", h)
	}
	e.refs--
	if e.refs <= 0 {
		delete(r.entries, h)
	}
	return nil
}

// Native returns the native object behind a handle, or nil if the handle
// is unknown or the entry is stale.
func (r *ResourceRegistry) Native(h Handle) any {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[h]
	if !ok || e.stale {
		return nil
	}
	return e.native
}

// MarkAllStale flags every entry as lost, keeping handles and
// descriptors. Called on Suspend: nothing is freed, because the native
// objects died with the context.
func (r *ResourceRegistry) MarkAllStale() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		e.stale = true
	}
}

// RebuildStale restores every stale entry through the rebuilder and
// clears its stale flag. Called on Resume. The first rebuild failure
// aborts and is returned; already-rebuilt entries stay fresh.
func (r *ResourceRegistry) RebuildStale(rebuild Rebuilder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if !e.stale {
			continue
		}
		native, err := rebuild(e.descriptor)
		if err != nil {
			return fmt.Errorf("render: rebuild %s %q: %w", e.kind, e.logicalID, err)
		}
		e.native = native
		e.stale = false
	}
	return nil
}

// Count returns the number of live entries.
func (r *ResourceRegistry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Stats returns per-kind entry counts and byte totals.
func (r *ResourceRegistry) Stats() RegistryStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	var stats RegistryStats
	for _, e := range r.entries {
		stats.Count[e.kind]++
		stats.Bytes[e.kind] += int64(e.bytes)
	}
	return stats
}

// DisposeAll drops every entry regardless of reference count, logging a
// warning for entries still referenced. Safe to call multiple times and
// safe during context loss (it never touches native objects).
func (r *ResourceRegistry) DisposeAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.disposed && len(r.entries) == 0 {
		return
	}
	for h, e := range r.entries {
		if e.refs > 1 {
			logger().Warn("render: resource leaked at dispose",
				"kind", e.kind.String(),
				"id", e.logicalID,
				"refs", e.refs)
		}
		delete(r.entries, h)
	}
	r.disposed = true
}
