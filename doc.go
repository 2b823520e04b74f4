// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package hyper4d renders four-dimensional geometry by rotating it
// through the six rotation planes of R4, projecting it to 3D and
// rasterizing the result as a layered point cloud.
//
// The entry point is [RenderSession], which owns the parameter surface,
// the geometry selection, the backend executor and the frame loop:
//
//	session, err := hyper4d.NewSession(800, 600)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer session.Close()
//
//	session.SetProjection(hypermath.ProjectionPerspective, 2.5)
//	session.SetGeometryIndex(11) // hypersphere-warped Clifford torus
//	if err := session.RenderFrame(1.0 / 60); err != nil {
//	    log.Fatal(err)
//	}
//	img := session.LastFrame()
//
// Rendering backends register themselves on import:
//
//	import (
//	    _ "github.com/gogpu/hyper4d/render/gpu"
//	    _ "github.com/gogpu/hyper4d/render/softraster"
//	)
//
// The GPU backend is preferred; if it cannot initialize, the session
// falls back to the software rasterizer exactly once and reports the
// switch through the fallback callback.
package hyper4d
