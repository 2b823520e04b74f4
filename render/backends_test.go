// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"
	"testing"
)

// fakeExecutor is a minimal executor for registry and selector tests.
type fakeExecutor struct {
	StateMachine
	name     string
	initErr  error
	registry *ResourceRegistry
}

func newFakeExecutor(name string, initErr error) *fakeExecutor {
	return &fakeExecutor{name: name, initErr: initErr, registry: NewResourceRegistry()}
}

func (f *fakeExecutor) Name() string { return f.name }

func (f *fakeExecutor) Init(RenderTarget) error {
	if err := f.CheckInit(); err != nil {
		return err
	}
	if f.initErr != nil {
		return fmt.Errorf("%w: %w", ErrBackendInit, f.initErr)
	}
	f.SetState(StateInitialized)
	return nil
}

func (f *fakeExecutor) Submit(*CommandBuffer) error {
	if err := f.CheckSubmit(); err != nil {
		return err
	}
	return nil
}

func (f *fakeExecutor) Suspend() error {
	if err := f.CheckSuspend(); err != nil {
		return err
	}
	f.registry.MarkAllStale()
	f.SetState(StateSuspended)
	return nil
}

func (f *fakeExecutor) Resume() error {
	if err := f.CheckResume(); err != nil {
		return err
	}
	if err := f.registry.RebuildStale(func(d any) (any, error) { return d, nil }); err != nil {
		return err
	}
	f.SetState(StateInitialized)
	return nil
}

func (f *fakeExecutor) Registry() *ResourceRegistry { return f.registry }

func (f *fakeExecutor) Dispose() {
	f.registry.DisposeAll()
	f.SetState(StateDisposed)
}

func TestSelectorPrefersGPU(t *testing.T) {
	RegisterBackend(BackendGPU, func() Executor { return newFakeExecutor(BackendGPU, nil) })
	RegisterBackend(BackendSoftraster, func() Executor { return newFakeExecutor(BackendSoftraster, nil) })
	defer UnregisterBackend(BackendGPU)
	defer UnregisterBackend(BackendSoftraster)

	s := NewSelector(nil)
	exec := s.Select(NewPixmapTarget(8, 8))
	if exec == nil {
		t.Fatal("Select returned nil")
	}
	if got := exec.Name(); got != BackendGPU {
		t.Errorf("selected %q, want %q", got, BackendGPU)
	}
}

func TestSelectorFallsBackExactlyOnce(t *testing.T) {
	gpuFailure := fmt.Errorf("no adapter")
	RegisterBackend(BackendGPU, func() Executor { return newFakeExecutor(BackendGPU, gpuFailure) })
	RegisterBackend(BackendSoftraster, func() Executor { return newFakeExecutor(BackendSoftraster, nil) })
	defer UnregisterBackend(BackendGPU)
	defer UnregisterBackend(BackendSoftraster)

	var events []BackendFallbackEvent
	s := NewSelector(func(ev BackendFallbackEvent) { events = append(events, ev) })

	target := NewPixmapTarget(8, 8)
	exec := s.Select(target)
	if exec == nil || exec.Name() != BackendSoftraster {
		t.Fatalf("first select = %v, want softraster", exec)
	}
	if len(events) != 1 {
		t.Fatalf("fallback events = %d, want 1", len(events))
	}
	if events[0].From != BackendGPU || events[0].To != BackendSoftraster {
		t.Errorf("event = %+v, want gpu -> softraster", events[0])
	}

	// A second selection in the same session must not retry the failed
	// backend and must not emit another event.
	exec2 := s.Select(target)
	if exec2 == nil || exec2.Name() != BackendSoftraster {
		t.Fatalf("second select = %v, want softraster", exec2)
	}
	if len(events) != 1 {
		t.Errorf("fallback events after second select = %d, want 1", len(events))
	}
}

func TestSelectorAllBackendsFail(t *testing.T) {
	RegisterBackend(BackendGPU, func() Executor { return newFakeExecutor(BackendGPU, fmt.Errorf("down")) })
	defer UnregisterBackend(BackendGPU)

	s := NewSelector(nil)
	if exec := s.Select(NewPixmapTarget(4, 4)); exec != nil {
		t.Errorf("Select = %v, want nil", exec)
	}
}

func TestExecutorLifecycle(t *testing.T) {
	f := newFakeExecutor("fake", nil)
	target := NewPixmapTarget(4, 4)

	if err := f.Submit(nil); err != ErrNotInitialized {
		t.Errorf("submit before init: err = %v, want ErrNotInitialized", err)
	}
	if err := f.Init(target); err != nil {
		t.Fatal(err)
	}
	if err := f.Init(target); err == nil {
		t.Error("double init: want error")
	}
	if err := f.Submit(NewCommandBuffer()); err != nil {
		t.Fatal(err)
	}

	if err := f.Suspend(); err != nil {
		t.Fatal(err)
	}
	if got := f.State(); got != StateSuspended {
		t.Errorf("state = %v, want Suspended", got)
	}
	if err := f.Submit(NewCommandBuffer()); err != ErrExecutorSuspended {
		t.Errorf("submit while suspended: err = %v, want ErrExecutorSuspended", err)
	}
	if err := f.Resume(); err != nil {
		t.Fatal(err)
	}
	if err := f.Resume(); err == nil {
		t.Error("resume while not suspended: want error")
	}

	f.Dispose()
	if err := f.Submit(NewCommandBuffer()); err != ErrExecutorDisposed {
		t.Errorf("submit after dispose: err = %v, want ErrExecutorDisposed", err)
	}
	if err := f.Suspend(); err != ErrExecutorDisposed {
		t.Errorf("suspend after dispose: err = %v, want ErrExecutorDisposed", err)
	}
}

func TestSuspendPreservesRegistryEntries(t *testing.T) {
	f := newFakeExecutor("fake", nil)
	if err := f.Init(NewPixmapTarget(4, 4)); err != nil {
		t.Fatal(err)
	}
	f.Registry().Register(ResourceGeometry, "g", "desc", "native", 128)

	if err := f.Suspend(); err != nil {
		t.Fatal(err)
	}
	if got := f.Registry().Count(); got != 1 {
		t.Errorf("registry count while suspended = %d, want 1", got)
	}
	if err := f.Resume(); err != nil {
		t.Fatal(err)
	}
	if got := f.Registry().Count(); got != 1 {
		t.Errorf("registry count after resume = %d, want 1", got)
	}
}

func TestExecutorStateString(t *testing.T) {
	tests := []struct {
		s    ExecutorState
		want string
	}{
		{StateUninitialized, "Uninitialized"},
		{StateInitialized, "Initialized"},
		{StateActive, "Active"},
		{StateSuspended, "Suspended"},
		{StateDisposed, "Disposed"},
		{ExecutorState(42), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("String(%d) = %q, want %q", tt.s, got, tt.want)
		}
	}
}
