package primitives

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"game-engine/internal/gpu"
	"game-engine/internal/logger"
	"game-engine/internal/model"

	"go.uber.org/zap"
)

// Prefix marks built-in model names (P_Cube, P_Sphere, ...).
const Prefix = "P_"

// ErrorModel is the name under which the fallback model is cached.
const ErrorModel = "P_Error"

// defaultSphereRings and defaultSphereSlices control sphere mesh resolution.
const defaultSphereRings = 16
const defaultSphereSlices = 16

// defaultCylinderSlices controls cylinder mesh resolution.
const defaultCylinderSlices = 16

// builtins maps the lower-cased shape name after the prefix to its generator.
var builtins = map[string]func() gpu.MeshData{
	"cube":     Cube,
	"plane":    Plane,
	"quad":     Quad,
	"sphere":   func() gpu.MeshData { return Sphere(defaultSphereRings, defaultSphereSlices) },
	"cylinder": func() gpu.MeshData { return Cylinder(defaultCylinderSlices) },
}

// Source uploads models and textures. *loader.Loader satisfies it.
type Source interface {
	LoadModel(vertices, texCoords, normals []float32, indices []uint32) (*model.Model, error)
	LoadModelFile(path string) (*model.Model, error)
	LoadTexture(path string) (*model.Texture, error)
	Fallback() (*model.Texture, error)
}

// Registry resolves level model names to shared models. Models are created on first use so GPU
// resources are allocated after the context exists, and each name is uploaded once.
//
// Names:
//   - "P_Cube", "P_Plane", "P_Quad", "P_Sphere", "P_Cylinder": built-in meshes. A texture named
//     after the primitive in the texture directory (e.g. P_Cube.png) is attached when present.
//   - "P_Quad:t_grass.png": a built-in mesh with an explicit texture from the texture directory.
//   - anything else: a model file in the model directory (.glb, .gltf or .json; the extension may
//     be omitted).
//
// A name that cannot be resolved yields the error model (a cube with the fallback texture) and a
// warning.
type Registry struct {
	src        Source
	log        *logger.Logger
	modelDir   string
	textureDir string
	cache      map[string]*model.Model
}

// NewRegistry returns an empty registry. log may be nil.
func NewRegistry(src Source, log *logger.Logger, modelDir, textureDir string) *Registry {
	if log == nil {
		log = logger.Nop()
	}
	return &Registry{
		src:        src,
		log:        log.Named("primitives"),
		modelDir:   modelDir,
		textureDir: textureDir,
		cache:      make(map[string]*model.Model),
	}
}

// Resolve returns the model for name. The error is non-nil only when even the error model could
// not be built (fatal).
func (r *Registry) Resolve(name string) (*model.Model, error) {
	if m, ok := r.cache[name]; ok {
		return m, nil
	}
	m, err := r.load(name)
	if err != nil {
		r.log.Warn("model unavailable, using error model", zap.String("model", name), zap.Error(err))
		if m, err = r.errorModel(); err != nil {
			return nil, err
		}
	}
	r.cache[name] = m
	return m, nil
}

// Len returns the number of cached names.
func (r *Registry) Len() int { return len(r.cache) }

func (r *Registry) load(name string) (*model.Model, error) {
	if strings.HasPrefix(name, Prefix) {
		return r.loadBuiltin(name)
	}
	return r.loadFile(name)
}

func (r *Registry) loadBuiltin(name string) (*model.Model, error) {
	shape, texName, explicit := strings.Cut(strings.TrimPrefix(name, Prefix), ":")
	gen, ok := builtins[strings.ToLower(shape)]
	if !ok {
		return nil, fmt.Errorf("unknown primitive %q", shape)
	}
	d := gen()
	m, err := r.src.LoadModel(d.Positions, d.TexCoords, d.Normals, d.Indices)
	if err != nil {
		return nil, err
	}
	var texPath string
	if explicit {
		texPath = filepath.Join(r.textureDir, texName)
	} else {
		texPath = r.findTexture(Prefix + shape)
	}
	if texPath != "" {
		tex, err := r.src.LoadTexture(texPath)
		if err != nil {
			return nil, err
		}
		m.SetTexture(tex)
	}
	return m, nil
}

// findTexture looks for base.{png,jpg} in the texture directory.
func (r *Registry) findTexture(base string) string {
	for _, ext := range []string{".png", ".jpg"} {
		p := filepath.Join(r.textureDir, base+ext)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func (r *Registry) loadFile(name string) (*model.Model, error) {
	p := name
	if !filepath.IsAbs(p) {
		p = filepath.Join(r.modelDir, name)
	}
	if filepath.Ext(p) == "" {
		for _, ext := range []string{".glb", ".gltf", ".json"} {
			if _, err := os.Stat(p + ext); err == nil {
				p += ext
				break
			}
		}
	}
	return r.src.LoadModelFile(p)
}

func (r *Registry) errorModel() (*model.Model, error) {
	if m, ok := r.cache[ErrorModel]; ok {
		return m, nil
	}
	d := Cube()
	m, err := r.src.LoadModel(d.Positions, d.TexCoords, d.Normals, d.Indices)
	if err != nil {
		return nil, fmt.Errorf("primitives: error model: %w", err)
	}
	tex, err := r.src.Fallback()
	if err != nil {
		return nil, fmt.Errorf("primitives: error model: %w", err)
	}
	m.SetTexture(tex)
	r.cache[ErrorModel] = m
	return m, nil
}
