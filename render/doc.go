// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render defines the backend-neutral rendering machinery: render
// targets, the resource registry, typed command buffers, the executor
// lifecycle, backend selection with one-shot fallback, and the five-layer
// compositor.
//
// Backends live in subpackages (softraster, gpu) and register themselves
// through [RegisterBackend]. Both consume the same command stream and must
// produce pixel-equivalent output for identical inputs.
package render
