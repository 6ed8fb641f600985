// Package scene renders planet patches with OpenGL.
package scene

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/planet-terrain/internal/engine/scene/shaders"
	"github.com/Faultbox/planet-terrain/internal/engine/shader"
	"github.com/Faultbox/planet-terrain/internal/engine/terrain"
	"github.com/Faultbox/planet-terrain/internal/quadtree"
	pmath "github.com/Faultbox/planet-terrain/pkg/math"
)

// ErrEmptyMesh is returned when Upload is given a mesh with no geometry.
var ErrEmptyMesh = errors.New("scene: empty patch mesh")

// View is the per-frame camera state the patch shader needs.
type View struct {
	Position mgl64.Vec3
	ViewProj mgl32.Mat4
	FogFar   float64
}

// PatchRenderer uploads and draws quadtree patch tiles.
type PatchRenderer struct {
	program *shader.Program

	LightDir  mgl32.Vec3
	Ambient   float32
	FogColor  mgl32.Vec3
	view      View
	resident  int
	triangles int
}

// NewPatchRenderer compiles the patch shader. Requires a current GL context.
func NewPatchRenderer() (*PatchRenderer, error) {
	program, err := shader.NewProgram(shaders.PatchVertexShader, shaders.PatchFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("patch shader: %w", err)
	}
	return &PatchRenderer{
		program:  program,
		LightDir: mgl32.Vec3{-0.4, -0.6, -0.7}.Normalize(),
		Ambient:  0.15,
		FogColor: mgl32.Vec3{0.02, 0.02, 0.05},
	}, nil
}

// Begin binds the program and sets per-frame uniforms.
func (pr *PatchRenderer) Begin(v View) {
	pr.view = v
	pr.triangles = 0
	pr.program.Use()
	pr.program.SetMat4("uViewProj", v.ViewProj)
	pr.program.SetVec3("uLightDir", pr.LightDir)
	pr.program.SetFloat("uAmbient", pr.Ambient)
	pr.program.SetVec3("uFogColor", pr.FogColor)
	pr.program.SetFloat("uFogFar", float32(v.FogFar))
}

// Upload copies a tile into GPU buffers.
func (pr *PatchRenderer) Upload(mesh *terrain.Mesh) (quadtree.Buffers, error) {
	if mesh == nil || len(mesh.Vertices) == 0 || len(mesh.Indices) == 0 {
		return nil, ErrEmptyMesh
	}
	b := &patchBuffers{owner: pr, count: int32(len(mesh.Indices))}

	gl.GenVertexArrays(1, &b.vao)
	gl.BindVertexArray(b.vao)

	gl.GenBuffers(1, &b.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	vertexSize := int(unsafe.Sizeof(terrain.Vertex{}))
	gl.BufferData(gl.ARRAY_BUFFER, len(mesh.Vertices)*vertexSize, unsafe.Pointer(&mesh.Vertices[0]), gl.STATIC_DRAW)

	// Position (location 0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, int32(vertexSize), 0)
	gl.EnableVertexAttribArray(0)

	// Normal (location 1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, int32(vertexSize), 3*4)
	gl.EnableVertexAttribArray(1)

	// Temperature, humidity (location 2)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, int32(vertexSize), 6*4)
	gl.EnableVertexAttribArray(2)

	gl.GenBuffers(1, &b.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, b.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*4, unsafe.Pointer(&mesh.Indices[0]), gl.STATIC_DRAW)

	gl.BindVertexArray(0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		b.delete()
		return nil, fmt.Errorf("scene: patch upload: GL error 0x%x", code)
	}
	pr.resident++
	return b, nil
}

// DrawPatch draws an uploaded tile. Translation is taken relative to the
// view position in double precision before narrowing.
func (pr *PatchRenderer) DrawPatch(buf quadtree.Buffers, t quadtree.Transform) {
	b, ok := buf.(*patchBuffers)
	if !ok || b.vao == 0 {
		return
	}
	model := pmath.ModelMatrix(pmath.Relative(t.Translation, pr.view.Position), t.Rotation, t.Scale)
	pr.program.SetMat4("uModel", model)

	gl.BindVertexArray(b.vao)
	gl.DrawElementsWithOffset(gl.TRIANGLES, b.count, gl.UNSIGNED_INT, 0)
	gl.BindVertexArray(0)
	pr.triangles += int(b.count / 3)
}

// Resident returns the number of tiles currently held on the GPU.
func (pr *PatchRenderer) Resident() int { return pr.resident }

// Triangles returns the triangle count submitted since Begin.
func (pr *PatchRenderer) Triangles() int { return pr.triangles }

// Close releases the shader program.
func (pr *PatchRenderer) Close() {
	if pr.program != nil {
		pr.program.Delete()
	}
}

type patchBuffers struct {
	owner         *PatchRenderer
	vao, vbo, ebo uint32
	count         int32
}

// Release frees the GPU objects. Calling it twice is harmless.
func (b *patchBuffers) Release() {
	if b.vao == 0 {
		return
	}
	b.delete()
	b.owner.resident--
}

func (b *patchBuffers) delete() {
	if b.ebo != 0 {
		gl.DeleteBuffers(1, &b.ebo)
	}
	if b.vbo != 0 {
		gl.DeleteBuffers(1, &b.vbo)
	}
	if b.vao != 0 {
		gl.DeleteVertexArrays(1, &b.vao)
	}
	b.vao, b.vbo, b.ebo = 0, 0, 0
}
