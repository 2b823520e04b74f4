// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"sync/atomic"
	"time"
)

// Telemetry collects frame counters. All fields are updated atomically;
// readers see a consistent-enough view for diagnostics without locking
// the render path.
type Telemetry struct {
	frames        atomic.Int64
	failedFrames  atomic.Int64
	fallbacks     atomic.Int64
	frameNanos    atomic.Int64
	submitNanos   atomic.Int64
	resourceBytes atomic.Int64
}

// RecordFrame accounts one completed frame and its total duration.
func (t *Telemetry) RecordFrame(d time.Duration) {
	t.frames.Add(1)
	t.frameNanos.Add(int64(d))
}

// RecordFailedFrame accounts a frame that returned an error.
func (t *Telemetry) RecordFailedFrame() { t.failedFrames.Add(1) }

// RecordSubmit accounts the backend-submit portion of a frame.
func (t *Telemetry) RecordSubmit(d time.Duration) { t.submitNanos.Add(int64(d)) }

// RecordFallback accounts a backend fallback event.
func (t *Telemetry) RecordFallback() { t.fallbacks.Add(1) }

// SetResourceBytes records the current registry byte total.
func (t *Telemetry) SetResourceBytes(n int64) { t.resourceBytes.Store(n) }

// TelemetrySnapshot is a point-in-time copy of the counters.
type TelemetrySnapshot struct {
	Frames        int64
	FailedFrames  int64
	Fallbacks     int64
	FrameTime     time.Duration // cumulative
	SubmitTime    time.Duration // cumulative
	ResourceBytes int64
}

// AvgFrameTime returns the mean frame duration, or zero before the
// first frame.
func (s TelemetrySnapshot) AvgFrameTime() time.Duration {
	if s.Frames == 0 {
		return 0
	}
	return s.FrameTime / time.Duration(s.Frames)
}

// Snapshot copies the counters.
func (t *Telemetry) Snapshot() TelemetrySnapshot {
	return TelemetrySnapshot{
		Frames:        t.frames.Load(),
		FailedFrames:  t.failedFrames.Load(),
		Fallbacks:     t.fallbacks.Load(),
		FrameTime:     time.Duration(t.frameNanos.Load()),
		SubmitTime:    time.Duration(t.submitNanos.Load()),
		ResourceBytes: t.resourceBytes.Load(),
	}
}
