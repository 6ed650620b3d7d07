package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"game-engine/internal/gpu"
	"game-engine/internal/model"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"
)

// MeshFile is the simple JSON mesh format: flat float arrays plus optional indices and a texture
// path relative to the file.
type MeshFile struct {
	Positions []float32 `json:"positions"`
	TexCoords []float32 `json:"texcoords,omitempty"`
	Normals   []float32 `json:"normals,omitempty"`
	Indices   []uint32  `json:"indices,omitempty"`
	Texture   string    `json:"texture,omitempty"`
}

// LoadModelFile loads geometry from a .gltf/.glb or .json mesh file. All triangle primitives of a
// glTF document (lists, strips and fans) are merged into one triangle list; points and lines are
// skipped. The first base color texture found is attached.
func (l *Loader) LoadModelFile(path string) (*model.Model, error) {
	var (
		data    gpu.MeshData
		texPath string
		err     error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gltf", ".glb":
		data, texPath, err = l.readGLTF(path)
	case ".json":
		data, texPath, err = readMeshJSON(path)
	default:
		err = fmt.Errorf("unsupported model format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("loader: %s: %w", path, err)
	}
	m, err := l.LoadModel(data.Positions, data.TexCoords, data.Normals, data.Indices)
	if err != nil {
		return nil, fmt.Errorf("loader: %s: %w", path, err)
	}
	if texPath != "" {
		tex, err := l.LoadTexture(texPath)
		if err != nil {
			return nil, err
		}
		m.SetTexture(tex)
	}
	l.log.Debug("model loaded", zap.String("path", path), zap.Int("vertices", data.VertexCount()))
	return m, nil
}

func readMeshJSON(path string) (gpu.MeshData, string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return gpu.MeshData{}, "", err
	}
	var f MeshFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return gpu.MeshData{}, "", err
	}
	tex := f.Texture
	if tex != "" && !filepath.IsAbs(tex) {
		tex = filepath.Join(filepath.Dir(path), tex)
	}
	return gpu.MeshData{Positions: f.Positions, TexCoords: f.TexCoords, Normals: f.Normals, Indices: f.Indices}, tex, nil
}

func (l *Loader) readGLTF(path string) (gpu.MeshData, string, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return gpu.MeshData{}, "", err
	}
	var out gpu.MeshData
	var texPath string
	for _, mesh := range doc.Meshes {
		for _, prim := range mesh.Primitives {
			posIdx, ok := prim.Attributes[gltf.POSITION]
			if !ok {
				continue
			}
			if !isTriangles(prim.Mode) {
				l.log.Warn("skipping non-triangle primitive", zap.String("path", path), zap.String("mesh", mesh.Name))
				continue
			}
			base := uint32(out.VertexCount())
			pos, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
			if err != nil {
				return gpu.MeshData{}, "", err
			}
			for _, p := range pos {
				out.Positions = append(out.Positions, p[0], p[1], p[2])
			}
			if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
				uv, err := modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
				if err != nil {
					return gpu.MeshData{}, "", err
				}
				for _, t := range uv {
					out.TexCoords = append(out.TexCoords, t[0], t[1])
				}
			} else {
				out.TexCoords = append(out.TexCoords, make([]float32, 2*len(pos))...)
			}
			if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
				n, err := modeler.ReadNormal(doc, doc.Accessors[idx], nil)
				if err != nil {
					return gpu.MeshData{}, "", err
				}
				for _, v := range n {
					out.Normals = append(out.Normals, v[0], v[1], v[2])
				}
			} else {
				for range pos {
					out.Normals = append(out.Normals, 0, 1, 0)
				}
			}
			var ind []uint32
			if prim.Indices != nil {
				if ind, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil); err != nil {
					return gpu.MeshData{}, "", err
				}
			} else {
				ind = make([]uint32, len(pos))
				for i := range ind {
					ind[i] = uint32(i)
				}
			}
			for _, i := range triangleList(prim.Mode, ind) {
				out.Indices = append(out.Indices, base+i)
			}
			if texPath == "" {
				texPath = baseColorPath(doc, prim, path)
			}
		}
	}
	if out.VertexCount() == 0 {
		return gpu.MeshData{}, "", fmt.Errorf("no triangle geometry")
	}
	return out, texPath, nil
}

func isTriangles(mode gltf.PrimitiveMode) bool {
	switch mode {
	case gltf.PrimitiveTriangles, gltf.PrimitiveTriangleStrip, gltf.PrimitiveTriangleFan:
		return true
	}
	return false
}

// triangleList expands strip and fan indices into a list with the same winding. Lists are
// truncated to whole triangles.
func triangleList(mode gltf.PrimitiveMode, ind []uint32) []uint32 {
	if len(ind) < 3 {
		return nil
	}
	switch mode {
	case gltf.PrimitiveTriangleStrip:
		out := make([]uint32, 0, 3*(len(ind)-2))
		for i := 0; i+2 < len(ind); i++ {
			if i%2 == 0 {
				out = append(out, ind[i], ind[i+1], ind[i+2])
			} else {
				out = append(out, ind[i+1], ind[i], ind[i+2])
			}
		}
		return out
	case gltf.PrimitiveTriangleFan:
		out := make([]uint32, 0, 3*(len(ind)-2))
		for i := 1; i+1 < len(ind); i++ {
			out = append(out, ind[0], ind[i], ind[i+1])
		}
		return out
	default:
		return ind[:len(ind)-len(ind)%3]
	}
}

// baseColorPath resolves the base color texture of prim to a file path. Embedded images are skipped.
func baseColorPath(doc *gltf.Document, prim *gltf.Primitive, modelPath string) string {
	if prim.Material == nil {
		return ""
	}
	mat := doc.Materials[*prim.Material]
	if mat.PBRMetallicRoughness == nil || mat.PBRMetallicRoughness.BaseColorTexture == nil {
		return ""
	}
	tex := doc.Textures[mat.PBRMetallicRoughness.BaseColorTexture.Index]
	if tex.Source == nil {
		return ""
	}
	img := doc.Images[*tex.Source]
	if img.URI == "" || img.IsEmbeddedResource() {
		return ""
	}
	return filepath.Join(filepath.Dir(modelPath), img.URI)
}
