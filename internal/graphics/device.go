package graphics

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"game-engine/internal/gpu"

	"go.uber.org/zap"
)

// UploadMesh uploads data into a vertex array. raylib meshes use 16-bit indices, so larger
// indexed meshes are expanded and drawn without an index buffer.
func (w *Window) UploadMesh(data gpu.MeshData) (gpu.Mesh, error) {
	if data.VertexCount() == 0 {
		return gpu.Mesh{}, fmt.Errorf("graphics: empty mesh")
	}
	if len(data.Indices) > 0 && data.VertexCount() > gpu.MaxIndex16 {
		data = gpu.Deindex(data)
	}
	m := rl.Mesh{VertexCount: int32(data.VertexCount())}
	m.Vertices = &data.Positions[0]
	if len(data.TexCoords) > 0 {
		m.Texcoords = &data.TexCoords[0]
	}
	if len(data.Normals) > 0 {
		m.Normals = &data.Normals[0]
	}
	count := m.VertexCount
	if len(data.Indices) > 0 {
		idx := make([]uint16, len(data.Indices))
		for i, v := range data.Indices {
			idx[i] = uint16(v)
		}
		m.Indices = &idx[0]
		m.TriangleCount = int32(len(idx) / 3)
		count = int32(len(idx))
	} else {
		m.TriangleCount = m.VertexCount / 3
	}
	rl.UploadMesh(&m, false)
	if m.VaoID == 0 && m.VboID == nil {
		return gpu.Mesh{}, fmt.Errorf("graphics: mesh upload failed: %s", w.diagnostic())
	}
	// The mesh keeps pointing at the Go slices; the map keeps them alive until DeleteMesh.
	w.nextMesh++
	w.meshes[w.nextMesh] = m
	return gpu.Mesh{ID: w.nextMesh, VertexCount: count, Indexed: m.Indices != nil}, nil
}

// DeleteMesh releases the vertex array and its buffers.
func (w *Window) DeleteMesh(h gpu.Mesh) {
	m, ok := w.meshes[h.ID]
	if !ok {
		return
	}
	rl.UnloadMesh(&m)
	delete(w.meshes, h.ID)
}

// UploadTexture uploads img with mipmaps, trilinear filtering and repeat wrapping.
func (w *Window) UploadTexture(img *image.RGBA) (gpu.Texture, error) {
	ri := rl.NewImageFromImage(img)
	defer rl.UnloadImage(ri)
	tex := rl.LoadTextureFromImage(ri)
	if tex.ID == 0 {
		return gpu.Texture{}, fmt.Errorf("graphics: texture upload failed: %s", w.diagnostic())
	}
	rl.GenTextureMipmaps(&tex)
	rl.SetTextureFilter(tex, rl.FilterTrilinear)
	rl.SetTextureWrap(tex, rl.WrapRepeat)
	w.textures[tex.ID] = tex
	return gpu.Texture{ID: tex.ID, Width: tex.Width, Height: tex.Height}, nil
}

// DeleteTexture implements gpu.Device.
func (w *Window) DeleteTexture(h gpu.Texture) {
	tex, ok := w.textures[h.ID]
	if !ok {
		return
	}
	rl.UnloadTexture(tex)
	delete(w.textures, h.ID)
}

// CompileProgram compiles and links the sources. raylib falls back to its default shader on
// failure and only reports it through the trace log, so a "Failed" warning logged during the
// call is the failure signal. The error carries the compiler log.
func (w *Window) CompileProgram(vertexSrc, fragmentSrc string) (gpu.Program, error) {
	w.trace = w.trace[:0]
	sh := rl.LoadShaderFromMemory(vertexSrc, fragmentSrc)
	if sh.ID == 0 || traceFailed(w.trace) {
		return gpu.Program{}, fmt.Errorf("graphics: %s", w.diagnostic())
	}
	// DrawMesh would overwrite these with raylib's own matrices; the core sets them itself.
	for _, loc := range []int32{
		int32(rl.ShaderLocMatrixMvp),
		int32(rl.ShaderLocMatrixModel),
		int32(rl.ShaderLocMatrixView),
		int32(rl.ShaderLocMatrixProjection),
		int32(rl.ShaderLocMatrixNormal),
		int32(rl.ShaderLocColorDiffuse),
	} {
		sh.UpdateLocation(loc, -1)
	}
	w.shaders[sh.ID] = sh
	w.log.Debug("program linked", zap.Uint32("id", sh.ID))
	return gpu.Program{ID: sh.ID}, nil
}

// DeleteProgram implements gpu.Device.
func (w *Window) DeleteProgram(p gpu.Program) {
	sh, ok := w.shaders[p.ID]
	if !ok {
		return
	}
	rl.UnloadShader(sh)
	delete(w.shaders, p.ID)
}

// UniformLocation implements gpu.Device.
func (w *Window) UniformLocation(p gpu.Program, name string) int32 {
	sh, ok := w.shaders[p.ID]
	if !ok {
		return -1
	}
	return rl.GetShaderLocation(sh, name)
}

// UseProgram implements gpu.Device. raylib binds the shader per draw through the material, so
// DrawMesh takes the program explicitly and there is no bind state to track here.
func (w *Window) UseProgram(gpu.Program) {}

// ReleaseProgram implements gpu.Device. See UseProgram.
func (w *Window) ReleaseProgram() {}

// SetUniformMatrix implements gpu.Device.
func (w *Window) SetUniformMatrix(p gpu.Program, loc int32, m mgl32.Mat4) {
	if sh, ok := w.shaders[p.ID]; ok {
		rl.SetShaderValueMatrix(sh, loc, toMatrix(m))
	}
}

// SetUniformInt implements gpu.Device. raylib takes every uniform as []float32; the int is passed
// bit for bit.
func (w *Window) SetUniformInt(p gpu.Program, loc int32, v int32) {
	if sh, ok := w.shaders[p.ID]; ok {
		rl.SetShaderValue(sh, loc, []float32{math.Float32frombits(uint32(v))}, rl.ShaderUniformInt)
	}
}

// SetUniformFloat implements gpu.Device.
func (w *Window) SetUniformFloat(p gpu.Program, loc int32, v float32) {
	if sh, ok := w.shaders[p.ID]; ok {
		rl.SetShaderValue(sh, loc, []float32{v}, rl.ShaderUniformFloat)
	}
}

// SetUniformVec3 implements gpu.Device.
func (w *Window) SetUniformVec3(p gpu.Program, loc int32, v mgl32.Vec3) {
	if sh, ok := w.shaders[p.ID]; ok {
		rl.SetShaderValue(sh, loc, v[:], rl.ShaderUniformVec3)
	}
}

// SetUniformVec4 implements gpu.Device.
func (w *Window) SetUniformVec4(p gpu.Program, loc int32, v mgl32.Vec4) {
	if sh, ok := w.shaders[p.ID]; ok {
		rl.SetShaderValue(sh, loc, v[:], rl.ShaderUniformVec4)
	}
}

// Clear implements gpu.Device.
func (w *Window) Clear(c gpu.Color) { rl.ClearBackground(toColor(c)) }

// SetDepthTest implements gpu.Device.
func (w *Window) SetDepthTest(enabled bool) {
	if enabled {
		rl.EnableDepthTest()
	} else {
		rl.DisableDepthTest()
	}
}

// SetBlend switches alpha blending. raylib keeps blending enabled in its default state; opaque
// geometry writes alpha 1 and is unaffected.
func (w *Window) SetBlend(enabled bool) {
	if enabled {
		rl.BeginBlendMode(rl.BlendAlpha)
	} else {
		rl.EndBlendMode()
	}
}

// SetCulling implements gpu.Device.
func (w *Window) SetCulling(enabled bool) {
	if enabled {
		rl.EnableBackfaceCulling()
	} else {
		rl.DisableBackfaceCulling()
	}
}

// DrawMesh draws through one reused material whose shader and diffuse map are swapped per call.
// The model matrix is a uniform, so raylib's transform argument stays the identity.
func (w *Window) DrawMesh(p gpu.Program, h gpu.Mesh, tex gpu.Texture) {
	m, ok := w.meshes[h.ID]
	if !ok {
		return
	}
	sh, ok := w.shaders[p.ID]
	if !ok {
		return
	}
	w.material.Shader = sh
	rl.SetMaterialTexture(&w.material, int32(rl.MapDiffuse), w.textures[tex.ID])
	rl.DrawMesh(m, w.material, rl.MatrixIdentity())
}

// textSpacing is the extra advance between glyphs of a loaded font, in pixels.
const textSpacing = 1

// DrawText draws with the loaded font, or raylib's default font when none is set.
func (w *Window) DrawText(text string, x, y, size int32, c gpu.Color) {
	if w.font.Texture.ID != 0 {
		rl.DrawTextEx(w.font, text, rl.NewVector2(float32(x), float32(y)), float32(size), textSpacing, toColor(c))
		return
	}
	rl.DrawText(text, x, y, size, toColor(c))
}

// MeasureText implements gpu.Device.
func (w *Window) MeasureText(text string, size int32) int32 {
	if w.font.Texture.ID != 0 {
		return int32(rl.MeasureTextEx(w.font, text, float32(size), textSpacing).X)
	}
	return rl.MeasureText(text, size)
}

func traceFailed(lines []string) bool {
	for _, l := range lines {
		if strings.Contains(l, "Failed") {
			return true
		}
	}
	return false
}

func toMatrix(m mgl32.Mat4) rl.Matrix {
	return rl.Matrix{
		M0: m[0], M1: m[1], M2: m[2], M3: m[3],
		M4: m[4], M5: m[5], M6: m[6], M7: m[7],
		M8: m[8], M9: m[9], M10: m[10], M11: m[11],
		M12: m[12], M13: m[13], M14: m[14], M15: m[15],
	}
}

func toColor(c gpu.Color) color.RGBA {
	return color.RGBA{
		R: uint8(mgl32.Clamp(c[0], 0, 1) * 255),
		G: uint8(mgl32.Clamp(c[1], 0, 1) * 255),
		B: uint8(mgl32.Clamp(c[2], 0, 1) * 255),
		A: uint8(mgl32.Clamp(c[3], 0, 1) * 255),
	}
}
