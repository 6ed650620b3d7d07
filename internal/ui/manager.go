// Package ui draws a tree of screen-space quads over the 3D scene: images, solid panels and menus,
// ordered by z-index and alpha blended.
package ui

import (
	"fmt"
	"image"
	"image/color"
	"slices"

	"github.com/go-gl/mathgl/mgl32"

	"game-engine/internal/gpu"
	"game-engine/internal/logger"
	"game-engine/internal/model"
	"game-engine/internal/primitives"
	"game-engine/internal/shader"
	"game-engine/internal/window"

	"go.uber.org/zap"
)

// FontSize is the pixel size of element text.
const FontSize = 20

// textPadding offsets text from the element's top-left corner, in pixels.
const textPadding = 8

// Resources uploads the UI quad and its plain white texture. *loader.Loader satisfies it.
type Resources interface {
	LoadModel(vertices, texCoords, normals []float32, indices []uint32) (*model.Model, error)
	TextureFromImage(name string, img image.Image) (*model.Texture, error)
}

// Manager owns the root elements and the UI program.
type Manager struct {
	dev   gpu.Device
	log   *logger.Logger
	prog  *shader.Program
	quad  *model.Model
	white *model.Texture
	roots []*Element
	sheet *Stylesheet
}

// NewManager compiles the UI program and uploads the shared quad. Errors are fatal.
func NewManager(dev gpu.Device, res Resources, log *logger.Logger) (*Manager, error) {
	if log == nil {
		log = logger.Nop()
	}
	prog, err := shader.New(dev, shader.UIVertex, shader.UIFragment)
	if err != nil {
		return nil, fmt.Errorf("ui: %w", err)
	}
	if err := prog.CreateUniforms(shader.UIUniforms...); err != nil {
		prog.Cleanup()
		return nil, fmt.Errorf("ui: %w", err)
	}
	q := primitives.UIQuad()
	quad, err := res.LoadModel(q.Positions, q.TexCoords, nil, q.Indices)
	if err != nil {
		prog.Cleanup()
		return nil, fmt.Errorf("ui: quad: %w", err)
	}
	px := image.NewRGBA(image.Rect(0, 0, 1, 1))
	px.SetRGBA(0, 0, color.RGBA{255, 255, 255, 255})
	white, err := res.TextureFromImage("ui-white", px)
	if err != nil {
		prog.Cleanup()
		return nil, fmt.Errorf("ui: white texture: %w", err)
	}
	return &Manager{dev: dev, log: log.Named("ui"), prog: prog, quad: quad, white: white}, nil
}

// Add appends a root element and applies the current stylesheet to it. Elements with a parent
// and elements already added are rejected.
func (m *Manager) Add(e *Element) error {
	if e == nil {
		return nil
	}
	if e.parent != nil {
		return ErrHasParent
	}
	if slices.Contains(m.roots, e) {
		return fmt.Errorf("ui: element already added")
	}
	m.roots = append(m.roots, e)
	m.sheet.Apply(e)
	return nil
}

// Remove detaches a root element without cleaning it up.
func (m *Manager) Remove(e *Element) bool {
	i := slices.Index(m.roots, e)
	if i < 0 {
		return false
	}
	m.roots = slices.Delete(m.roots, i, i+1)
	return true
}

// Roots returns the root elements in insertion order.
func (m *Manager) Roots() []*Element { return m.roots }

// RenderOrder returns the roots sorted by ascending z-index; equal z-indices keep insertion order.
func (m *Manager) RenderOrder() []*Element {
	return byZ(m.roots)
}

func byZ(els []*Element) []*Element {
	out := slices.Clone(els)
	slices.SortStableFunc(out, func(a, b *Element) int {
		return a.ZIndex - b.ZIndex
	})
	return out
}

// LoadStylesheet parses the CSS file at path and applies it to every element.
func (m *Manager) LoadStylesheet(path string) error {
	sheet, err := LoadCSS(path)
	if err != nil {
		return err
	}
	m.ApplyStylesheet(sheet)
	m.log.Debug("stylesheet loaded", zap.String("path", path), zap.Int("rules", len(sheet.Rules)))
	return nil
}

// ApplyStylesheet makes sheet current and applies it to every element. Elements added later are
// styled on Add.
func (m *Manager) ApplyStylesheet(sheet *Stylesheet) {
	m.sheet = sheet
	for _, e := range m.roots {
		sheet.Apply(e)
	}
}

// HandleInput runs the input hook of every visible, active menu.
func (m *Manager) HandleInput(w window.Window) {
	for _, e := range m.RenderOrder() {
		e.handleInput(w)
	}
}

// Update advances fades by dt seconds.
func (m *Manager) Update(dt float32) {
	for _, e := range m.roots {
		e.update(dt)
	}
}

// Render draws the tree for a window of width×height pixels: depth test off, alpha blending on,
// [-1,1]² orthographic projection. Each visible element is drawn before its children.
func (m *Manager) Render(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	aspect := float32(width) / float32(height)
	m.dev.SetDepthTest(false)
	m.dev.SetBlend(true)
	m.dev.SetCulling(false)
	m.prog.Bind()
	m.prog.SetMatrix("matProjection", window.Ortho2D())
	m.prog.SetInt("texture0", 0)
	for _, e := range m.RenderOrder() {
		m.render(e, mgl32.Vec2{}, 1, aspect, width, height)
	}
	m.prog.Unbind()
	m.dev.SetCulling(true)
	m.dev.SetBlend(false)
	m.dev.SetDepthTest(true)
}

func (m *Manager) render(e *Element, origin mgl32.Vec2, opacity, aspect float32, width, height int) {
	if !e.Visible {
		return
	}
	center := origin.Add(e.Position)
	opacity *= e.Opacity
	m.prog.SetMatrix("matModel", e.updateMatrix(center, aspect))
	tex := e.Texture
	if tex == nil {
		tex = m.white
	}
	tint := e.Color
	tint[3] *= opacity
	m.prog.SetVec4("tint", tint)
	m.dev.DrawMesh(m.prog.Handle(), m.quad.Mesh, tex.Handle)

	if e.Text != "" {
		w, h := e.Size(aspect)
		x := (center.X() - w + 1) / 2 * float32(width)
		y := (1 - (center.Y() + h)) / 2 * float32(height)
		c := gpu.Color{1, 1, 1, opacity}
		m.dev.DrawText(e.Text, int32(x)+textPadding, int32(y)+textPadding, FontSize, c)
	}
	for _, c := range byZ(e.children) {
		m.render(c, center, opacity, aspect, width, height)
	}
}

// Cleanup cleans every element recursively and deletes the UI program. The quad and the white
// texture belong to the loader.
func (m *Manager) Cleanup() {
	for _, e := range m.roots {
		e.Cleanup()
	}
	m.roots = nil
	m.prog.Cleanup()
}
