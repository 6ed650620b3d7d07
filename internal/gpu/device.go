package gpu

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

// Mesh is an opaque handle to GPU-resident geometry (vertex array plus its buffers).
// The zero value is not a valid mesh.
type Mesh struct {
	ID          uint32
	VertexCount int32
	Indexed     bool
}

// Valid reports whether the handle refers to uploaded geometry.
func (m Mesh) Valid() bool { return m.ID != 0 }

// Texture is an opaque handle to a GPU image.
type Texture struct {
	ID     uint32
	Width  int32
	Height int32
}

// Valid reports whether the handle refers to an uploaded texture.
func (t Texture) Valid() bool { return t.ID != 0 }

// Program is an opaque handle to a linked shader program.
type Program struct {
	ID uint32
}

// Valid reports whether the handle refers to a linked program.
func (p Program) Valid() bool { return p.ID != 0 }

// MeshData is CPU-side geometry ready for upload. Positions and Normals hold 3 floats per vertex,
// TexCoords 2 floats per vertex. Normals and TexCoords may be empty; Indices may be empty (draw arrays).
type MeshData struct {
	Positions []float32
	TexCoords []float32
	Normals   []float32
	Indices   []uint32
}

// VertexCount returns the number of vertices described by Positions.
func (d MeshData) VertexCount() int {
	return len(d.Positions) / 3
}

// Color is a linear RGBA color with components in [0,1].
type Color [4]float32

// Device is everything the core needs from the graphics context: geometry, textures, shader programs,
// pipeline state, and draw calls. All methods must be called on the thread that owns the context.
// graphics.Window implements it on raylib; gputest.Device records calls for tests.
type Device interface {
	UploadMesh(data MeshData) (Mesh, error)
	DeleteMesh(m Mesh)

	// UploadTexture copies RGBA8 pixels to the GPU and generates mipmaps.
	UploadTexture(img *image.RGBA) (Texture, error)
	DeleteTexture(t Texture)

	// CompileProgram compiles both stages and links them. On failure the error carries the
	// compiler or linker diagnostic text.
	CompileProgram(vertexSrc, fragmentSrc string) (Program, error)
	// DeleteProgram detaches and deletes the stages and the program.
	DeleteProgram(p Program)
	// UniformLocation returns -1 when the linked program has no active uniform with that name.
	UniformLocation(p Program, name string) int32
	UseProgram(p Program)
	ReleaseProgram()

	SetUniformMatrix(p Program, loc int32, m mgl32.Mat4)
	SetUniformInt(p Program, loc int32, v int32)
	SetUniformFloat(p Program, loc int32, v float32)
	SetUniformVec3(p Program, loc int32, v mgl32.Vec3)
	SetUniformVec4(p Program, loc int32, v mgl32.Vec4)

	Clear(c Color)
	SetDepthTest(enabled bool)
	SetBlend(enabled bool)
	SetCulling(enabled bool)

	// DrawMesh draws m with program p. tex may be the zero Texture for untextured geometry.
	DrawMesh(p Program, m Mesh, tex Texture)
	// DrawText draws screen-space text in pixels, top-left origin.
	DrawText(text string, x, y, size int32, c Color)
	// MeasureText returns the width in pixels of text drawn at size.
	MeasureText(text string, size int32) int32
}

// MaxIndex16 is the largest vertex index a 16-bit index buffer can address.
const MaxIndex16 = 0xFFFF

// Deindex expands indexed geometry into one vertex per index so it can be drawn without an index
// buffer. Data without indices is returned as is.
func Deindex(d MeshData) MeshData {
	if len(d.Indices) == 0 {
		return d
	}
	out := MeshData{Positions: make([]float32, 0, len(d.Indices)*3)}
	hasUV := len(d.TexCoords) == len(d.Positions)/3*2
	hasN := len(d.Normals) == len(d.Positions)
	for _, i := range d.Indices {
		out.Positions = append(out.Positions, d.Positions[i*3:i*3+3]...)
		if hasUV {
			out.TexCoords = append(out.TexCoords, d.TexCoords[i*2:i*2+2]...)
		}
		if hasN {
			out.Normals = append(out.Normals, d.Normals[i*3:i*3+3]...)
		}
	}
	return out
}
