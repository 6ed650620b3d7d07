// Package gputest provides a recording gpu.Device and window.Window that need no graphics context.
package gputest

import (
	"errors"
	"fmt"
	"image"
	"strings"

	"game-engine/internal/gpu"

	"github.com/go-gl/mathgl/mgl32"
)

// DrawCall is one recorded DrawMesh with the pipeline state and uniform values active at the time.
type DrawCall struct {
	Program  gpu.Program
	Mesh     gpu.Mesh
	Texture  gpu.Texture
	Depth    bool
	Blend    bool
	Cull     bool
	Uniforms map[string]any
}

// Matrix returns the matrix uniform recorded under name, or the zero matrix.
func (d DrawCall) Matrix(name string) mgl32.Mat4 {
	m, _ := d.Uniforms[name].(mgl32.Mat4)
	return m
}

type program struct {
	uniforms []string
	values   map[int32]any
}

// Device is a fake gpu.Device. Handles are sequential IDs; every create and delete is counted so
// tests can assert bulk release and the absence of double frees.
type Device struct {
	// CompileError, when set, makes CompileProgram fail with this diagnostic.
	CompileError string
	// UploadError, when set, makes UploadMesh and UploadTexture fail.
	UploadError error

	nextID   uint32
	meshes   map[uint32]gpu.Mesh
	textures map[uint32]gpu.Texture
	programs map[uint32]*program
	deleted  map[string]int

	bound   uint32
	depth   bool
	blend   bool
	cull    bool
	Clears  int
	Draws   []DrawCall
	Texts   []string
	Calls   []string
	Uploads []gpu.MeshData
}

// NewDevice returns an empty fake device with depth testing and culling on, like a fresh context.
func NewDevice() *Device {
	return &Device{
		meshes:   make(map[uint32]gpu.Mesh),
		textures: make(map[uint32]gpu.Texture),
		programs: make(map[uint32]*program),
		deleted:  make(map[string]int),
		depth:    true,
		cull:     true,
	}
}

func (d *Device) id() uint32 {
	d.nextID++
	return d.nextID
}

func (d *Device) call(format string, args ...any) {
	d.Calls = append(d.Calls, fmt.Sprintf(format, args...))
}

// UploadMesh implements gpu.Device.
func (d *Device) UploadMesh(data gpu.MeshData) (gpu.Mesh, error) {
	if d.UploadError != nil {
		return gpu.Mesh{}, d.UploadError
	}
	m := gpu.Mesh{ID: d.id(), VertexCount: int32(data.VertexCount()), Indexed: len(data.Indices) > 0}
	if m.Indexed {
		m.VertexCount = int32(len(data.Indices))
	}
	d.meshes[m.ID] = m
	d.Uploads = append(d.Uploads, data)
	d.call("upload mesh %d", m.ID)
	return m, nil
}

// DeleteMesh implements gpu.Device.
func (d *Device) DeleteMesh(m gpu.Mesh) {
	d.deleted[fmt.Sprintf("mesh:%d", m.ID)]++
	delete(d.meshes, m.ID)
	d.call("delete mesh %d", m.ID)
}

// UploadTexture implements gpu.Device.
func (d *Device) UploadTexture(img *image.RGBA) (gpu.Texture, error) {
	if d.UploadError != nil {
		return gpu.Texture{}, d.UploadError
	}
	b := img.Bounds()
	t := gpu.Texture{ID: d.id(), Width: int32(b.Dx()), Height: int32(b.Dy())}
	d.textures[t.ID] = t
	d.call("upload texture %d", t.ID)
	return t, nil
}

// DeleteTexture implements gpu.Device.
func (d *Device) DeleteTexture(t gpu.Texture) {
	d.deleted[fmt.Sprintf("texture:%d", t.ID)]++
	delete(d.textures, t.ID)
	d.call("delete texture %d", t.ID)
}

// CompileProgram implements gpu.Device. Active uniforms are scanned from "uniform <type> <name>;" lines.
func (d *Device) CompileProgram(vertexSrc, fragmentSrc string) (gpu.Program, error) {
	if d.CompileError != "" {
		return gpu.Program{}, errors.New(d.CompileError)
	}
	p := gpu.Program{ID: d.id()}
	d.programs[p.ID] = &program{
		uniforms: append(scanUniforms(vertexSrc), scanUniforms(fragmentSrc)...),
		values:   make(map[int32]any),
	}
	d.call("compile program %d", p.ID)
	return p, nil
}

func scanUniforms(src string) []string {
	var out []string
	for _, line := range strings.Split(src, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "uniform ") {
			continue
		}
		fields := strings.Fields(strings.TrimSuffix(line, ";"))
		if len(fields) >= 3 {
			out = append(out, fields[len(fields)-1])
		}
	}
	return out
}

// DeleteProgram implements gpu.Device.
func (d *Device) DeleteProgram(p gpu.Program) {
	d.deleted[fmt.Sprintf("program:%d", p.ID)]++
	delete(d.programs, p.ID)
	d.call("delete program %d", p.ID)
}

// UniformLocation implements gpu.Device.
func (d *Device) UniformLocation(p gpu.Program, name string) int32 {
	prog, ok := d.programs[p.ID]
	if !ok {
		return -1
	}
	for i, u := range prog.uniforms {
		if u == name {
			return int32(i)
		}
	}
	return -1
}

// UseProgram implements gpu.Device.
func (d *Device) UseProgram(p gpu.Program) {
	d.bound = p.ID
	d.call("use program %d", p.ID)
}

// ReleaseProgram implements gpu.Device.
func (d *Device) ReleaseProgram() {
	d.bound = 0
	d.call("release program")
}

func (d *Device) set(p gpu.Program, loc int32, v any) {
	if prog, ok := d.programs[p.ID]; ok && loc >= 0 {
		prog.values[loc] = v
	}
}

// SetUniformMatrix implements gpu.Device.
func (d *Device) SetUniformMatrix(p gpu.Program, loc int32, m mgl32.Mat4) { d.set(p, loc, m) }

// SetUniformInt implements gpu.Device.
func (d *Device) SetUniformInt(p gpu.Program, loc int32, v int32) { d.set(p, loc, v) }

// SetUniformFloat implements gpu.Device.
func (d *Device) SetUniformFloat(p gpu.Program, loc int32, v float32) { d.set(p, loc, v) }

// SetUniformVec3 implements gpu.Device.
func (d *Device) SetUniformVec3(p gpu.Program, loc int32, v mgl32.Vec3) { d.set(p, loc, v) }

// SetUniformVec4 implements gpu.Device.
func (d *Device) SetUniformVec4(p gpu.Program, loc int32, v mgl32.Vec4) { d.set(p, loc, v) }

// Clear implements gpu.Device.
func (d *Device) Clear(gpu.Color) {
	d.Clears++
	d.call("clear")
}

// SetDepthTest implements gpu.Device.
func (d *Device) SetDepthTest(enabled bool) { d.depth = enabled }

// SetBlend implements gpu.Device.
func (d *Device) SetBlend(enabled bool) { d.blend = enabled }

// SetCulling implements gpu.Device.
func (d *Device) SetCulling(enabled bool) { d.cull = enabled }

// DrawMesh implements gpu.Device.
func (d *Device) DrawMesh(p gpu.Program, m gpu.Mesh, tex gpu.Texture) {
	dc := DrawCall{Program: p, Mesh: m, Texture: tex, Depth: d.depth, Blend: d.blend, Cull: d.cull, Uniforms: map[string]any{}}
	if prog, ok := d.programs[p.ID]; ok {
		for loc, v := range prog.values {
			dc.Uniforms[prog.uniforms[loc]] = v
		}
	}
	d.Draws = append(d.Draws, dc)
	d.call("draw mesh %d", m.ID)
}

// DrawText implements gpu.Device.
func (d *Device) DrawText(text string, x, y, size int32, c gpu.Color) {
	d.Texts = append(d.Texts, text)
}

// MeasureText implements gpu.Device with a fixed advance of half the font size per byte.
func (d *Device) MeasureText(text string, size int32) int32 {
	return int32(len(text)) * size / 2
}

// LiveMeshes returns the number of meshes uploaded and not yet deleted.
func (d *Device) LiveMeshes() int { return len(d.meshes) }

// LiveTextures returns the number of textures uploaded and not yet deleted.
func (d *Device) LiveTextures() int { return len(d.textures) }

// LivePrograms returns the number of programs compiled and not yet deleted.
func (d *Device) LivePrograms() int { return len(d.programs) }

// MaxDeletes returns the highest number of times any single handle was deleted.
func (d *Device) MaxDeletes() int {
	n := 0
	for _, c := range d.deleted {
		n = max(n, c)
	}
	return n
}

// Bound returns the ID of the program in use, 0 when none.
func (d *Device) Bound() uint32 { return d.bound }

// DepthTest reports the current depth test state.
func (d *Device) DepthTest() bool { return d.depth }

// Blend reports the current blending state.
func (d *Device) Blend() bool { return d.blend }

// ResetFrame forgets recorded draws and texts.
func (d *Device) ResetFrame() {
	d.Draws = nil
	d.Texts = nil
}

var _ gpu.Device = (*Device)(nil)
