// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"strings"

	"github.com/gogpu/hyper4d/uniform"
)

// BuildWGSL assembles the backend's shader source. The uniform block
// declaration is generated from the schema, so a frame packed with
// PackStd140 binds against it without any hand-maintained offsets.
//
// The vertex stage applies the six plane rotations in the same order as
// the CPU rotor composition (XY first, ZW last) and then the projection
// selected by projectionMode, so both backends transform identically.
func BuildWGSL(schema *uniform.Schema) string {
	var b strings.Builder

	b.WriteString(schema.WGSLStruct("Uniforms"))
	b.WriteString(`
struct DrawParams {
    pointSize: f32,
}

@group(0) @binding(0) var<uniform> u: Uniforms;
@group(0) @binding(1) var<uniform> d: DrawParams;

const PROJECTION_EPSILON: f32 = 1e-6;
const VIEW_SCALE: f32 = 0.7;

fn rotate_plane(v: vec4<f32>, a: u32, b: u32, angle: f32) -> vec4<f32> {
    let c = cos(angle);
    let s = sin(angle);
    var out = v;
    out[a] = v[a] * c - v[b] * s;
    out[b] = v[a] * s + v[b] * c;
    return out;
}

fn rotate4(p: vec4<f32>) -> vec4<f32> {
    var v = p;
    v = rotate_plane(v, 0u, 1u, u.rotXY);
    v = rotate_plane(v, 0u, 2u, u.rotXZ);
    v = rotate_plane(v, 1u, 2u, u.rotYZ);
    v = rotate_plane(v, 0u, 3u, u.rotXW);
    v = rotate_plane(v, 1u, 3u, u.rotYW);
    v = rotate_plane(v, 2u, 3u, u.rotZW);
    return v;
}

fn clamp_denom(d: f32) -> f32 {
    if (abs(d) >= PROJECTION_EPSILON) {
        return d;
    }
    if (d < 0.0) {
        return -PROJECTION_EPSILON;
    }
    return PROJECTION_EPSILON;
}

fn project(v: vec4<f32>) -> vec3<f32> {
    let mode = i32(u.projectionMode + 0.5);
    if (mode == 1) {
        // Stereographic from the north pole.
        return v.xyz / clamp_denom(1.0 - v.w);
    }
    if (mode == 2) {
        // Orthographic: drop w.
        return v.xyz;
    }
    // Perspective through the w axis.
    return v.xyz * (u.projectionDistance / clamp_denom(u.projectionDistance + v.w));
}

struct VertexIn {
    @location(0) position: vec4<f32>,
    @location(1) corner: vec2<f32>,
}

struct VertexOut {
    @builtin(position) clip: vec4<f32>,
    @location(0) corner: vec2<f32>,
}

@vertex
fn vs_main(in: VertexIn) -> VertexOut {
    let projected = project(rotate4(in.position));
    let center = projected.xy * VIEW_SCALE;
    // Sprite half-extent in NDC: pointSize pixels against the surface size.
    let sprite = in.corner * d.pointSize / u.resolution * 2.0;

    var out: VertexOut;
    out.clip = vec4<f32>(center + sprite, 0.0, 1.0);
    out.corner = in.corner;
    return out;
}
`)
	b.WriteString(fragmentSource)
	return b.String()
}

const fragmentSource = `
fn hsv_to_rgb(h: f32, s: f32, v: f32) -> vec3<f32> {
    let hh = fract(h) * 6.0;
    let i = i32(hh);
    let f = hh - f32(i);
    let p = v * (1.0 - s);
    let q = v * (1.0 - f * s);
    let t = v * (1.0 - (1.0 - f) * s);
    switch (i % 6) {
        case 0: { return vec3<f32>(v, t, p); }
        case 1: { return vec3<f32>(q, v, p); }
        case 2: { return vec3<f32>(p, v, t); }
        case 3: { return vec3<f32>(p, q, v); }
        case 4: { return vec3<f32>(t, p, v); }
        default: { return vec3<f32>(v, p, q); }
    }
}

@fragment
fn fs_main(in: VertexOut) -> @location(0) vec4<f32> {
    // Round sprite: discard outside the unit disc.
    if (dot(in.corner, in.corner) > 1.0) {
        discard;
    }
    let rgb = hsv_to_rgb(u.hue, u.saturation, u.intensity);
    return vec4<f32>(rgb, 1.0);
}
`
