// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// CardVertexShader is the vertex shader for the card face.
//
//go:embed card.vert
var CardVertexShader string

// CardFragmentShader cross-fades the card's two textures.
//
//go:embed card.frag
var CardFragmentShader string

// FrameVertexShader is the vertex shader for the lit frame box.
//
//go:embed frame.vert
var FrameVertexShader string

// FrameFragmentShader is the fragment shader for the lit frame box.
//
//go:embed frame.frag
var FrameFragmentShader string
