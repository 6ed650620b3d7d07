package model

import (
	"path/filepath"
	"strings"

	"game-engine/internal/gpu"
)

// Texture is an image uploaded to the GPU. Owned by the loader that created it.
type Texture struct {
	Handle gpu.Texture
	// Name is the source path or a synthetic name ("fallback", "ui-white").
	Name   string
	Width  int
	Height int
	// HasAlpha reports whether any pixel had alpha below 255 when the image was decoded.
	HasAlpha bool
}

// Transparent reports whether the texture should be drawn in the blended pass. The decision is
// made from the file name: the lower-cased base name contains "grass" or starts with "t_".
func (t *Texture) Transparent() bool {
	if t == nil {
		return false
	}
	base := strings.ToLower(filepath.Base(t.Name))
	return strings.Contains(base, "grass") || strings.HasPrefix(base, "t_")
}

// AspectRatio returns width/height, or 1 when the size is unknown.
func (t *Texture) AspectRatio() float32 {
	if t == nil || t.Width <= 0 || t.Height <= 0 {
		return 1
	}
	return float32(t.Width) / float32(t.Height)
}

// Model is uploaded geometry plus an optional texture. Models are shared between entities;
// the loader owns and releases them.
type Model struct {
	Mesh        gpu.Mesh
	VertexCount int
	texture     *Texture
}

// New wraps an uploaded mesh.
func New(mesh gpu.Mesh, vertexCount int) *Model {
	return &Model{Mesh: mesh, VertexCount: vertexCount}
}

// Texture returns the attached texture, or nil.
func (m *Model) Texture() *Texture {
	return m.texture
}

// SetTexture attaches t (nil detaches). The texture is not copied.
func (m *Model) SetTexture(t *Texture) {
	m.texture = t
}

// Transparent reports whether the model's texture is drawn in the blended pass.
func (m *Model) Transparent() bool {
	return m != nil && m.texture.Transparent()
}
