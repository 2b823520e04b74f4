// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import "sync"

// Backend names.
const (
	BackendSoftraster = "softraster"
	BackendGPU        = "gpu"
)

// ExecutorFactory creates a new executor instance.
type ExecutorFactory func() Executor

var (
	registryMu sync.RWMutex
	factories  = make(map[string]ExecutorFactory)

	// Priority order for backend selection (first available wins).
	// GPU first, software rasterizer as fallback.
	backendPriority = []string{BackendGPU, BackendSoftraster}
)

// RegisterBackend registers an executor factory with the given name.
// Typically called from init() functions in backend packages. A factory
// registered under an existing name replaces it.
func RegisterBackend(name string, factory ExecutorFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	factories[name] = factory
}

// UnregisterBackend removes a backend from the registry. Useful for
// testing.
func UnregisterBackend(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(factories, name)
}

// AvailableBackends returns the registered backend names in priority
// order, followed by any extras in map order.
func AvailableBackends() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(factories))
	for _, name := range backendPriority {
		if _, ok := factories[name]; ok {
			names = append(names, name)
		}
	}
	for name := range factories {
		if name != BackendGPU && name != BackendSoftraster {
			names = append(names, name)
		}
	}
	return names
}

// NewExecutor returns an executor instance by name, or nil if the
// backend is not registered.
func NewExecutor(name string) Executor {
	registryMu.RLock()
	defer registryMu.RUnlock()
	factory, ok := factories[name]
	if !ok {
		return nil
	}
	return factory()
}

// BackendFallbackEvent is emitted exactly once when the preferred
// backend fails to initialize and the session switches to the fallback.
type BackendFallbackEvent struct {
	// From is the backend that failed.
	From string
	// To is the backend now in use.
	To string
	// Err is the initialization error that triggered the switch.
	Err error
}

// Selector picks and initializes an executor along the priority chain,
// emitting at most one fallback event per session. Once a backend has
// failed it is never retried; the selector remembers the failure.
type Selector struct {
	mu       sync.Mutex
	failed   map[string]error
	fellBack bool
	onEvent  func(BackendFallbackEvent)
}

// NewSelector returns a selector. onEvent may be nil.
func NewSelector(onEvent func(BackendFallbackEvent)) *Selector {
	return &Selector{
		failed:  make(map[string]error),
		onEvent: onEvent,
	}
}

// Select walks the priority chain, initializing the first backend that
// succeeds against the target. Backends that failed earlier in this
// session are skipped without retry. Returns nil if every backend fails.
func (s *Selector) Select(target RenderTarget) Executor {
	s.mu.Lock()
	defer s.mu.Unlock()

	var firstChoice string
	for _, name := range AvailableBackends() {
		if firstChoice == "" {
			firstChoice = name
		}
		if _, down := s.failed[name]; down {
			continue
		}

		exec := NewExecutor(name)
		if exec == nil {
			continue
		}
		err := exec.Init(target)
		if err == nil {
			if name != firstChoice && !s.fellBack {
				s.fellBack = true
				ev := BackendFallbackEvent{From: firstChoice, To: name, Err: s.failed[firstChoice]}
				logger().Warn("render: backend fallback",
					"from", ev.From, "to", ev.To, "err", ev.Err)
				if s.onEvent != nil {
					s.onEvent(ev)
				}
			}
			logger().Info("render: backend selected", "name", name)
			return exec
		}
		s.failed[name] = err
		exec.Dispose()
	}
	return nil
}

// MarkFailed records a runtime failure for a backend so the next Select
// skips it. Used when a backend that initialized cleanly later fails
// during submission.
func (s *Selector) MarkFailed(name string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, down := s.failed[name]; !down {
		s.failed[name] = err
	}
}
