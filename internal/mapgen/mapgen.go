package mapgen

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"game-engine/internal/gpu"
	"game-engine/internal/model"
)

// Options controls terrain generation.
// Size is the world length of one side; GridCount is the number of cells per side.
// Height is the base Y of every vertex. TextureRepeat is how many times the texture tiles per side.
// Relief > 0 displaces vertices upward by fractal value noise scaled to Relief; Seed, Octaves,
// Frequency, Lacunarity and Gain shape that noise. Relief 0 gives a perfectly flat grid.
type Options struct {
	Size          float32
	GridCount     int
	Height        float32
	Position      mgl32.Vec3
	TextureRepeat float32

	Relief     float32
	Seed       int64
	Octaves    int
	Frequency  float32
	Lacunarity float32
	Gain       float32
}

// DefaultOptions returns an 800-unit flat terrain with 128 cells per side and a 40× texture repeat.
func DefaultOptions() Options {
	return Options{
		Size:          800,
		GridCount:     128,
		TextureRepeat: 40,
		Octaves:       4,
		Frequency:     0.08,
		Lacunarity:    2.0,
		Gain:          0.5,
	}
}

func (o *Options) normalize() {
	if o.GridCount <= 0 {
		o.GridCount = 1
	}
	if o.Size <= 0 {
		o.Size = 1
	}
	if o.TextureRepeat <= 0 {
		o.TextureRepeat = 1
	}
	if o.Octaves <= 0 {
		o.Octaves = 1
	}
	if o.Frequency <= 0 {
		o.Frequency = 0.05
	}
	if o.Lacunarity <= 0 {
		o.Lacunarity = 2.0
	}
	if o.Gain <= 0 {
		o.Gain = 0.5
	}
}

// Generate builds the grid mesh in local space (the terrain Position is applied as the model
// transform). Vertex (x,z) sits at (x/N·S, H, z/N·S) with texcoord (x/N·R, z/N·R); each cell emits
// triangles (TL,BL,BR) and (TL,BR,TR). The result has (N+1)² vertices and 6N² indices.
func Generate(opts Options) gpu.MeshData {
	opts.normalize()
	n := opts.GridCount
	side := n + 1
	verts := side * side
	out := gpu.MeshData{
		Positions: make([]float32, 0, verts*3),
		TexCoords: make([]float32, 0, verts*2),
		Normals:   make([]float32, 0, verts*3),
		Indices:   make([]uint32, 0, 6*n*n),
	}
	step := opts.Size / float32(n)
	for z := 0; z < side; z++ {
		for x := 0; x < side; x++ {
			fx, fz := float32(x)/float32(n), float32(z)/float32(n)
			out.Positions = append(out.Positions, fx*opts.Size, opts.height(x, z), fz*opts.Size)
			out.TexCoords = append(out.TexCoords, fx*opts.TextureRepeat, fz*opts.TextureRepeat)
			nrm := opts.normal(x, z, step)
			out.Normals = append(out.Normals, nrm[0], nrm[1], nrm[2])
		}
	}
	for z := 0; z < n; z++ {
		for x := 0; x < n; x++ {
			tl := uint32(z*side + x)
			tr := tl + 1
			bl := uint32((z+1)*side + x)
			br := bl + 1
			out.Indices = append(out.Indices, tl, bl, br, tl, br, tr)
		}
	}
	return out
}

// height returns the local Y of grid vertex (x,z).
func (o Options) height(x, z int) float32 {
	if o.Relief == 0 {
		return o.Height
	}
	h := fractalValueNoise2D(float32(x)*o.Frequency, float32(z)*o.Frequency, o.Seed, o.Octaves, o.Lacunarity, o.Gain)
	if !isFinite(h) {
		h = 0
	}
	return o.Height + h*o.Relief
}

// normal estimates the vertex normal from neighbouring heights. Flat terrain gives exactly (0,1,0).
func (o Options) normal(x, z int, step float32) mgl32.Vec3 {
	if o.Relief == 0 {
		return mgl32.Vec3{0, 1, 0}
	}
	dx := o.height(x+1, z) - o.height(x-1, z)
	dz := o.height(x, z+1) - o.height(x, z-1)
	return mgl32.Vec3{-dx, 2 * step, -dz}.Normalize()
}

// ModelLoader uploads geometry. *loader.Loader satisfies it.
type ModelLoader interface {
	LoadModel(vertices, texCoords, normals []float32, indices []uint32) (*model.Model, error)
}

// Terrain is generated ground geometry. Immutable after New.
type Terrain struct {
	opts    Options
	Model   *model.Model
	heights []float32
}

// New generates the terrain mesh, uploads it through l and attaches tex (which may be nil).
func New(l ModelLoader, opts Options, tex *model.Texture) (*Terrain, error) {
	opts.normalize()
	data := Generate(opts)
	m, err := l.LoadModel(data.Positions, data.TexCoords, data.Normals, data.Indices)
	if err != nil {
		return nil, fmt.Errorf("mapgen: %w", err)
	}
	m.SetTexture(tex)
	heights := make([]float32, data.VertexCount())
	for i := range heights {
		heights[i] = data.Positions[i*3+1]
	}
	return &Terrain{opts: opts, Model: m, heights: heights}, nil
}

// Options returns the options the terrain was built with.
func (t *Terrain) Options() Options { return t.opts }

// Position returns the world position of the terrain's (0,0) corner.
func (t *Terrain) Position() mgl32.Vec3 { return t.opts.Position }

// Size returns the world side length.
func (t *Terrain) Size() float32 { return t.opts.Size }

// Contains reports whether world (x,z) lies over the terrain.
func (t *Terrain) Contains(x, z float32) bool {
	lx, lz := x-t.opts.Position.X(), z-t.opts.Position.Z()
	return lx >= 0 && lz >= 0 && lx <= t.opts.Size && lz <= t.opts.Size
}

// HeightAt returns the world Y of the surface under world (x,z), interpolated within the cell.
// Points outside the terrain are clamped to its edge.
func (t *Terrain) HeightAt(x, z float32) float32 {
	n := t.opts.GridCount
	cell := t.opts.Size / float32(n)
	gx := mgl32.Clamp((x-t.opts.Position.X())/cell, 0, float32(n))
	gz := mgl32.Clamp((z-t.opts.Position.Z())/cell, 0, float32(n))
	x0 := min(int(math32.Floor(gx)), n-1)
	z0 := min(int(math32.Floor(gz)), n-1)
	tx, tz := gx-float32(x0), gz-float32(z0)
	side := n + 1
	h00 := t.heights[z0*side+x0]
	h10 := t.heights[z0*side+x0+1]
	h01 := t.heights[(z0+1)*side+x0]
	h11 := t.heights[(z0+1)*side+x0+1]
	return t.opts.Position.Y() + lerp(lerp(h00, h10, tx), lerp(h01, h11, tx), tz)
}
