// Package loader uploads geometry and textures to the GPU and owns every handle it creates.
// There is no per-object release: Cleanup frees everything at once.
package loader

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"game-engine/internal/gpu"
	"game-engine/internal/logger"
	"game-engine/internal/model"

	"go.uber.org/zap"
)

// ErrFallbackUnavailable is wrapped by LoadTexture when a texture failed and the configured
// fallback texture could not be loaded either. Callers treat it as fatal.
var ErrFallbackUnavailable = errors.New("loader: fallback texture unavailable")

// ErrInvalidGeometry is wrapped by LoadModel for malformed vertex or index data.
var ErrInvalidGeometry = errors.New("loader: invalid geometry")

// Options configures texture handling.
type Options struct {
	// FallbackPath is an image used in place of textures that fail to decode.
	// Empty means the built-in checkerboard.
	FallbackPath string
	// MaxTextureSize downsizes larger images so neither side exceeds it. 0 disables.
	MaxTextureSize int
}

// Loader creates models and textures on a device and tracks every handle for Cleanup.
type Loader struct {
	dev      gpu.Device
	log      *logger.Logger
	opts     Options
	meshes   []gpu.Mesh
	textures []gpu.Texture
	fallback *model.Texture
}

// New returns a loader for dev. log may be nil.
func New(dev gpu.Device, log *logger.Logger, opts Options) *Loader {
	if log == nil {
		log = logger.Nop()
	}
	return &Loader{dev: dev, log: log.Named("loader"), opts: opts}
}

// LoadModel uploads one mesh. vertices holds 3 floats per vertex; texCoords (2 per vertex) and
// normals (3 per vertex) may be nil. indices may be nil for non-indexed geometry.
func (l *Loader) LoadModel(vertices, texCoords, normals []float32, indices []uint32) (*model.Model, error) {
	data := gpu.MeshData{Positions: vertices, TexCoords: texCoords, Normals: normals, Indices: indices}
	if err := validate(data); err != nil {
		return nil, err
	}
	mesh, err := l.dev.UploadMesh(data)
	if err != nil {
		return nil, fmt.Errorf("loader: upload mesh: %w", err)
	}
	l.meshes = append(l.meshes, mesh)
	count := data.VertexCount()
	if len(indices) > 0 {
		count = len(indices)
	}
	return model.New(mesh, count), nil
}

func validate(d gpu.MeshData) error {
	n := d.VertexCount()
	switch {
	case n == 0 || len(d.Positions)%3 != 0:
		return fmt.Errorf("%w: %d position floats", ErrInvalidGeometry, len(d.Positions))
	case len(d.TexCoords) > 0 && len(d.TexCoords) != 2*n:
		return fmt.Errorf("%w: %d texcoord floats for %d vertices", ErrInvalidGeometry, len(d.TexCoords), n)
	case len(d.Normals) > 0 && len(d.Normals) != 3*n:
		return fmt.Errorf("%w: %d normal floats for %d vertices", ErrInvalidGeometry, len(d.Normals), n)
	case len(d.Indices)%3 != 0:
		return fmt.Errorf("%w: %d indices is not a triangle list", ErrInvalidGeometry, len(d.Indices))
	}
	for _, i := range d.Indices {
		if int(i) >= n {
			return fmt.Errorf("%w: index %d out of range (%d vertices)", ErrInvalidGeometry, i, n)
		}
	}
	return nil
}

// TextureFromImage uploads img under name. Used for generated textures.
func (l *Loader) TextureFromImage(name string, img image.Image) (*model.Texture, error) {
	rgba := l.prepare(img)
	h, err := l.dev.UploadTexture(rgba)
	if err != nil {
		return nil, fmt.Errorf("loader: upload texture %s: %w", name, err)
	}
	l.textures = append(l.textures, h)
	b := rgba.Bounds()
	return &model.Texture{
		Handle:   h,
		Name:     name,
		Width:    b.Dx(),
		Height:   b.Dy(),
		HasAlpha: hasAlpha(rgba),
	}, nil
}

// LoadTexture decodes the image at path and uploads it with mipmaps. When the file cannot be
// read or decoded, the fallback texture is returned instead and a warning is logged. The only
// error is a configured fallback that fails to load (wraps ErrFallbackUnavailable).
func (l *Loader) LoadTexture(path string) (*model.Texture, error) {
	img, err := decodeFile(path)
	if err == nil {
		var tex *model.Texture
		if tex, err = l.TextureFromImage(path, img); err == nil {
			l.log.Debug("texture loaded", zap.String("path", path), zap.Int("width", tex.Width), zap.Int("height", tex.Height))
			return tex, nil
		}
	}
	l.log.Warn("texture failed, using fallback", zap.String("path", path), zap.Error(err))
	return l.Fallback()
}

// Fallback returns the texture substituted for failed loads, creating it on first use.
func (l *Loader) Fallback() (*model.Texture, error) {
	if l.fallback != nil {
		return l.fallback, nil
	}
	var (
		tex *model.Texture
		err error
	)
	if l.opts.FallbackPath != "" {
		var img image.Image
		if img, err = decodeFile(l.opts.FallbackPath); err == nil {
			tex, err = l.TextureFromImage(l.opts.FallbackPath, img)
		}
	} else {
		tex, err = l.TextureFromImage("fallback", Checkerboard(64, 8))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFallbackUnavailable, err)
	}
	l.fallback = tex
	return tex, nil
}

// Checkerboard returns a size×size magenta/black checkerboard with cells of cell pixels.
func Checkerboard(size, cell int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	magenta := color.RGBA{R: 255, B: 255, A: 255}
	black := color.RGBA{A: 255}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := black
			if (x/cell+y/cell)%2 == 0 {
				c = magenta
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// HandleCount returns the number of GPU handles this loader currently owns.
func (l *Loader) HandleCount() int {
	return len(l.meshes) + len(l.textures)
}

// Cleanup releases every mesh and texture created by this loader. Calling it again does nothing.
// Models and textures handed out before Cleanup must not be drawn afterwards.
func (l *Loader) Cleanup() {
	if l.HandleCount() == 0 {
		return
	}
	for _, m := range l.meshes {
		l.dev.DeleteMesh(m)
	}
	for _, t := range l.textures {
		l.dev.DeleteTexture(t)
	}
	l.log.Debug("released handles", zap.Int("meshes", len(l.meshes)), zap.Int("textures", len(l.textures)))
	l.meshes = nil
	l.textures = nil
	l.fallback = nil
}
