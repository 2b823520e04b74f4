// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import "errors"

// ExecutorState is the lifecycle state of an Executor.
type ExecutorState uint8

const (
	// StateUninitialized is the state before Init.
	StateUninitialized ExecutorState = iota

	// StateInitialized means Init succeeded but no frame is in flight.
	StateInitialized

	// StateActive means a frame submission is in progress.
	StateActive

	// StateSuspended means the rendering context was lost; native
	// resources are stale until Resume.
	StateSuspended

	// StateDisposed is terminal; every operation returns
	// ErrExecutorDisposed.
	StateDisposed
)

var executorStateNames = [...]string{
	StateUninitialized: "Uninitialized",
	StateInitialized:   "Initialized",
	StateActive:        "Active",
	StateSuspended:     "Suspended",
	StateDisposed:      "Disposed",
}

// String returns the state name.
func (s ExecutorState) String() string {
	if int(s) < len(executorStateNames) {
		return executorStateNames[s]
	}
	return "Unknown"
}

// Executor lifecycle errors.
var (
	// ErrBackendInit is returned when a backend cannot initialize; the
	// session reacts with its one-shot fallback.
	ErrBackendInit = errors.New("render: backend initialization failed")

	// ErrExecutorDisposed is returned by every operation after Dispose.
	ErrExecutorDisposed = errors.New("render: executor disposed")

	// ErrExecutorSuspended is returned by Submit while the context is
	// lost.
	ErrExecutorSuspended = errors.New("render: executor suspended")

	// ErrNotInitialized is returned by Submit before Init.
	ErrNotInitialized = errors.New("render: executor not initialized")
)

// Executor runs command buffers against a render target. Implementations
// follow a strict lifecycle:
//
//	Uninitialized --Init--> Initialized --Submit--> Active --(returns)--> Initialized
//	Initialized/Active --Suspend--> Suspended --Resume--> Initialized
//	any state --Dispose--> Disposed (terminal)
//
// A Suspend arriving mid-frame takes effect at the frame boundary: the
// in-flight Submit completes or fails, then the executor is suspended.
// Executors are not safe for concurrent use.
type Executor interface {
	// Name returns the backend identifier (e.g. "softraster", "gpu").
	Name() string

	// State returns the current lifecycle state.
	State() ExecutorState

	// Init prepares the executor for the given target. Failure returns
	// an error wrapping ErrBackendInit and leaves the executor
	// Uninitialized.
	Init(target RenderTarget) error

	// Submit executes one frame's command buffer. The target's pixels
	// are only valid after Submit returns nil.
	Submit(cb *CommandBuffer) error

	// Suspend marks all native resources stale after context loss.
	// Nothing is freed; the lost context already invalidated them.
	Suspend() error

	// Resume rebuilds native resources from their descriptors.
	Resume() error

	// Registry exposes the executor's resource registry for accounting
	// and geometry registration.
	Registry() *ResourceRegistry

	// Dispose releases everything. Idempotent; the executor is unusable
	// afterwards.
	Dispose()
}

// StateMachine is the shared lifecycle core embedded by backends. It
// centralizes the transition rules so both executors reject the same
// invalid calls with the same errors.
type StateMachine struct {
	state ExecutorState
}

// State returns the current lifecycle state.
func (l *StateMachine) State() ExecutorState { return l.state }

// SetState records a transition after the caller's operation succeeded.
func (l *StateMachine) SetState(s ExecutorState) { l.state = s }

// CheckInit reports whether Init may proceed from the current state.
func (l *StateMachine) CheckInit() error {
	switch l.state {
	case StateDisposed:
		return ErrExecutorDisposed
	case StateUninitialized:
		return nil
	default:
		return errors.New("render: executor already initialized")
	}
}

// CheckSubmit reports whether Submit may proceed from the current state.
func (l *StateMachine) CheckSubmit() error {
	switch l.state {
	case StateDisposed:
		return ErrExecutorDisposed
	case StateSuspended:
		return ErrExecutorSuspended
	case StateUninitialized:
		return ErrNotInitialized
	case StateActive:
		return errors.New("render: submit while frame in flight")
	default:
		return nil
	}
}

// CheckSuspend reports whether Suspend may proceed from the current state.
func (l *StateMachine) CheckSuspend() error {
	switch l.state {
	case StateDisposed:
		return ErrExecutorDisposed
	case StateUninitialized:
		return ErrNotInitialized
	default:
		return nil
	}
}

// CheckResume reports whether Resume may proceed from the current state.
func (l *StateMachine) CheckResume() error {
	switch l.state {
	case StateDisposed:
		return ErrExecutorDisposed
	case StateSuspended:
		return nil
	default:
		return errors.New("render: resume while not suspended")
	}
}
