package primitives

import (
	"github.com/chewxy/math32"

	"game-engine/internal/gpu"
)

// Built-in meshes are unit sized and centered on the origin, with the same attributes as loaded
// models: positions, texcoords and normals.

// Cube returns a 1×1×1 cube with per-face normals and texcoords.
func Cube() gpu.MeshData {
	faces := []struct {
		n, u, v [3]float32
	}{
		{n: [3]float32{0, 0, 1}, u: [3]float32{1, 0, 0}, v: [3]float32{0, 1, 0}},
		{n: [3]float32{0, 0, -1}, u: [3]float32{-1, 0, 0}, v: [3]float32{0, 1, 0}},
		{n: [3]float32{1, 0, 0}, u: [3]float32{0, 0, -1}, v: [3]float32{0, 1, 0}},
		{n: [3]float32{-1, 0, 0}, u: [3]float32{0, 0, 1}, v: [3]float32{0, 1, 0}},
		{n: [3]float32{0, 1, 0}, u: [3]float32{1, 0, 0}, v: [3]float32{0, 0, -1}},
		{n: [3]float32{0, -1, 0}, u: [3]float32{1, 0, 0}, v: [3]float32{0, 0, 1}},
	}
	var d gpu.MeshData
	corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	for _, f := range faces {
		base := uint32(d.VertexCount())
		for _, c := range corners {
			for k := 0; k < 3; k++ {
				d.Positions = append(d.Positions, 0.5*(f.n[k]+c[0]*f.u[k]+c[1]*f.v[k]))
			}
			d.TexCoords = append(d.TexCoords, (c[0]+1)/2, 1-(c[1]+1)/2)
			d.Normals = append(d.Normals, f.n[0], f.n[1], f.n[2])
		}
		d.Indices = append(d.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return d
}

// Plane returns a 1×1 quad in the XZ plane facing +Y.
func Plane() gpu.MeshData {
	return gpu.MeshData{
		Positions: []float32{-0.5, 0, 0.5, 0.5, 0, 0.5, 0.5, 0, -0.5, -0.5, 0, -0.5},
		TexCoords: []float32{0, 1, 1, 1, 1, 0, 0, 0},
		Normals:   []float32{0, 1, 0, 0, 1, 0, 0, 1, 0, 0, 1, 0},
		Indices:   []uint32{0, 1, 2, 0, 2, 3},
	}
}

// Quad returns a 1×1 quad in the XY plane facing +Z, bottom edge at y=0 so billboards stand on
// their position.
func Quad() gpu.MeshData {
	return gpu.MeshData{
		Positions: []float32{-0.5, 0, 0, 0.5, 0, 0, 0.5, 1, 0, -0.5, 1, 0},
		TexCoords: []float32{0, 1, 1, 1, 1, 0, 0, 0},
		Normals:   []float32{0, 0, 1, 0, 0, 1, 0, 0, 1, 0, 0, 1},
		Indices:   []uint32{0, 1, 2, 0, 2, 3},
	}
}

// UIQuad returns the screen quad used by UI elements: [-1,1]² in XY, texcoord v flipped so
// images appear upright.
func UIQuad() gpu.MeshData {
	return gpu.MeshData{
		Positions: []float32{-1, 1, 0, -1, -1, 0, 1, -1, 0, 1, 1, 0},
		TexCoords: []float32{0, 0, 0, 1, 1, 1, 1, 0},
		Indices:   []uint32{0, 1, 2, 0, 2, 3},
	}
}

// Sphere returns a sphere of radius 0.5 (diameter 1, matching the cube).
func Sphere(rings, slices int) gpu.MeshData {
	rings, slices = max(rings, 3), max(slices, 3)
	var d gpu.MeshData
	for r := 0; r <= rings; r++ {
		v := float32(r) / float32(rings)
		phi := v * math32.Pi
		sp, cp := math32.Sincos(phi)
		for s := 0; s <= slices; s++ {
			u := float32(s) / float32(slices)
			st, ct := math32.Sincos(u * 2 * math32.Pi)
			nx, ny, nz := ct*sp, cp, st*sp
			d.Positions = append(d.Positions, nx*0.5, ny*0.5, nz*0.5)
			d.Normals = append(d.Normals, nx, ny, nz)
			d.TexCoords = append(d.TexCoords, u, v)
		}
	}
	row := uint32(slices + 1)
	for r := uint32(0); r < uint32(rings); r++ {
		for s := uint32(0); s < uint32(slices); s++ {
			a := r*row + s
			b := a + row
			d.Indices = append(d.Indices, a, a+1, b, a+1, b+1, b)
		}
	}
	return d
}

// Cylinder returns a capped cylinder of radius 0.5 and height 1 centered on the origin.
func Cylinder(slices int) gpu.MeshData {
	slices = max(slices, 3)
	var d gpu.MeshData
	for s := 0; s <= slices; s++ {
		u := float32(s) / float32(slices)
		st, ct := math32.Sincos(u * 2 * math32.Pi)
		d.Positions = append(d.Positions, ct*0.5, -0.5, st*0.5, ct*0.5, 0.5, st*0.5)
		d.Normals = append(d.Normals, ct, 0, st, ct, 0, st)
		d.TexCoords = append(d.TexCoords, u, 1, u, 0)
	}
	for s := uint32(0); s < uint32(slices); s++ {
		b := s * 2
		d.Indices = append(d.Indices, b, b+1, b+3, b, b+3, b+2)
	}
	for _, y := range []float32{0.5, -0.5} {
		center := uint32(d.VertexCount())
		d.Positions = append(d.Positions, 0, y, 0)
		d.Normals = append(d.Normals, 0, 2*y, 0)
		d.TexCoords = append(d.TexCoords, 0.5, 0.5)
		for s := 0; s <= slices; s++ {
			st, ct := math32.Sincos(float32(s) / float32(slices) * 2 * math32.Pi)
			d.Positions = append(d.Positions, ct*0.5, y, st*0.5)
			d.Normals = append(d.Normals, 0, 2*y, 0)
			d.TexCoords = append(d.TexCoords, 0.5+ct*0.5, 0.5+st*0.5)
		}
		for s := uint32(1); s <= uint32(slices); s++ {
			if y > 0 {
				d.Indices = append(d.Indices, center, center+s+1, center+s)
			} else {
				d.Indices = append(d.Indices, center, center+s, center+s+1)
			}
		}
	}
	return d
}
