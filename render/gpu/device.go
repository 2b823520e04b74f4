// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gpu is the wgpu rendering backend. It receives a GPU device
// from the host application, assembles its WGSL shader from the uniform
// schema, and executes command buffers through explicit pipeline, buffer
// and render-pass objects.
//
// The device is never created here: the host provides it through
// [SetDeviceProvider], following the gpucontext integration model. If no
// provider is configured, Init fails and the session falls back to the
// software backend.
package gpu

import (
	"sync"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/hyper4d/render"
)

// DeviceHandle provides GPU device access from the host application.
// It is an alias for gpucontext.DeviceProvider.
type DeviceHandle = gpucontext.DeviceProvider

var (
	providerMu sync.RWMutex
	provider   DeviceHandle
)

func init() {
	render.RegisterBackend(render.BackendGPU, func() render.Executor {
		return New()
	})
}

// SetDeviceProvider configures the device source for all executors
// created afterwards. Pass nil to clear.
func SetDeviceProvider(p DeviceHandle) {
	providerMu.Lock()
	defer providerMu.Unlock()
	provider = p
}

func currentProvider() DeviceHandle {
	providerMu.RLock()
	defer providerMu.RUnlock()
	return provider
}
