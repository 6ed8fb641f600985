// Package shaders embeds the GLSL sources used by the scene renderers.
package shaders

import _ "embed"

//go:embed patch.vert
var PatchVertexShader string

//go:embed patch.frag
var PatchFragmentShader string
