package ui

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"game-engine/internal/model"
	"game-engine/internal/window"
)

// ErrCycle is returned by AddChild when the child is the element itself or one of its ancestors.
var ErrCycle = errors.New("ui: element would become its own ancestor")

// ErrHasParent is returned by AddChild when the child already belongs to another element.
var ErrHasParent = errors.New("ui: element already has a parent")

// Kind tags what an element draws and whether it takes input.
type Kind int

const (
	// KindQuad draws its texture.
	KindQuad Kind = iota
	// KindPanel draws a solid color, or its texture tinted by Color.
	KindPanel
	// KindMenu is a panel with an input hook, run only while Visible and Active.
	KindMenu
)

func (k Kind) String() string {
	switch k {
	case KindQuad:
		return "quad"
	case KindPanel:
		return "panel"
	case KindMenu:
		return "menu"
	}
	return "unknown"
}

// defaultHeight is used when neither width nor height is set.
const defaultHeight = 0.1

// Element is one node of the UI tree. Coordinates are normalized screen units: the screen spans
// [-1,1] on both axes, Position is the element center relative to the parent's center, and
// Width/Height are half extents. A zero Width or Height is derived from the texture aspect ratio.
type Element struct {
	Kind  Kind
	ID    string
	Class string

	Position mgl32.Vec2
	Width    float32
	Height   float32
	ZIndex   int

	Visible bool
	Opacity float32
	Color   mgl32.Vec4
	Texture *model.Texture

	// Text is drawn at the element's top-left corner.
	Text string

	// Active gates OnInput for menus.
	Active  bool
	OnInput func(e *Element, w window.Window)
	// OnCleanup runs when the element is cleaned up.
	OnCleanup func(e *Element)

	parent   *Element
	children []*Element
	matrix   mgl32.Mat4
	fade     *gween.Tween
	hideDone bool
}

func newElement(kind Kind, pos mgl32.Vec2) *Element {
	return &Element{
		Kind:     kind,
		Position: pos,
		Visible:  true,
		Opacity:  1,
		Color:    mgl32.Vec4{1, 1, 1, 1},
		matrix:   mgl32.Ident4(),
	}
}

// NewQuad returns an image element of the given half height; the width follows the texture.
func NewQuad(tex *model.Texture, pos mgl32.Vec2, height float32) *Element {
	e := newElement(KindQuad, pos)
	e.Texture = tex
	e.Height = height
	return e
}

// NewPanel returns a solid panel with explicit half extents.
func NewPanel(color mgl32.Vec4, pos mgl32.Vec2, width, height float32) *Element {
	e := newElement(KindPanel, pos)
	e.Color = color
	e.Width, e.Height = width, height
	return e
}

// NewMenu returns a panel that receives input through onInput while visible and active.
// Menus start hidden and inactive.
func NewMenu(color mgl32.Vec4, pos mgl32.Vec2, width, height float32, onInput func(*Element, window.Window)) *Element {
	e := NewPanel(color, pos, width, height)
	e.Kind = KindMenu
	e.OnInput = onInput
	e.Visible = false
	return e
}

// Parent returns the parent element, or nil for roots.
func (e *Element) Parent() *Element { return e.parent }

// Children returns the children in insertion order.
func (e *Element) Children() []*Element { return e.children }

// Matrix returns the model matrix computed by the last render.
func (e *Element) Matrix() mgl32.Mat4 { return e.matrix }

// AddChild attaches c. Trees only: c must not already have a parent and must not be e or an
// ancestor of e.
func (e *Element) AddChild(c *Element) error {
	if c == nil {
		return nil
	}
	for a := e; a != nil; a = a.parent {
		if a == c {
			return ErrCycle
		}
	}
	if c.parent != nil {
		return ErrHasParent
	}
	c.parent = e
	e.children = append(e.children, c)
	return nil
}

// RemoveChild detaches c. It returns false when c is not a child of e.
func (e *Element) RemoveChild(c *Element) bool {
	for i, ch := range e.children {
		if ch == c {
			e.children = append(e.children[:i], e.children[i+1:]...)
			c.parent = nil
			return true
		}
	}
	return false
}

// Size returns the half extents on screen for a window of the given aspect ratio (width/height).
// Derived dimensions keep the texture's pixel aspect ratio (1:1 without a texture).
func (e *Element) Size(aspect float32) (w, h float32) {
	if aspect <= 0 {
		aspect = 1
	}
	tex := e.Texture.AspectRatio()
	switch {
	case e.Width > 0 && e.Height > 0:
		return e.Width, e.Height
	case e.Height > 0:
		return e.Height * tex / aspect, e.Height
	case e.Width > 0:
		return e.Width, e.Width * aspect / tex
	default:
		return defaultHeight * tex / aspect, defaultHeight
	}
}

// updateMatrix caches T(center)·S(w,h,1) for the unit quad spanning [-1,1]².
func (e *Element) updateMatrix(center mgl32.Vec2, aspect float32) mgl32.Mat4 {
	w, h := e.Size(aspect)
	e.matrix = mgl32.Translate3D(center.X(), center.Y(), 0).Mul4(mgl32.Scale3D(w, h, 1))
	return e.matrix
}

// Show makes the element visible and active, fading in over seconds (0 = immediately).
func (e *Element) Show(seconds float32) {
	if !e.Visible {
		e.Opacity = 0
	}
	e.Visible = true
	e.Active = true
	e.hideDone = false
	e.fadeTo(1, seconds)
}

// Hide deactivates the element at once and fades it out over seconds, then makes it invisible.
func (e *Element) Hide(seconds float32) {
	e.Active = false
	e.hideDone = true
	e.fadeTo(0, seconds)
}

// Fading reports whether an opacity tween is running.
func (e *Element) Fading() bool { return e.fade != nil }

func (e *Element) fadeTo(target, seconds float32) {
	if seconds <= 0 {
		e.fade = nil
		e.Opacity = target
		e.finishFade()
		return
	}
	e.fade = gween.New(e.Opacity, target, seconds, ease.OutQuad)
}

func (e *Element) finishFade() {
	if e.hideDone {
		e.Visible = false
		e.hideDone = false
	}
}

// update advances the fade of e and its subtree.
func (e *Element) update(dt float32) {
	if e.fade != nil {
		v, done := e.fade.Update(dt)
		e.Opacity = v
		if done {
			e.fade = nil
			e.finishFade()
		}
	}
	for _, c := range e.children {
		c.update(dt)
	}
}

// handleInput runs menu hooks in e's subtree, skipping hidden subtrees.
func (e *Element) handleInput(w window.Window) {
	if !e.Visible {
		return
	}
	if e.Kind == KindMenu && e.Active && e.OnInput != nil {
		e.OnInput(e, w)
	}
	for _, c := range e.children {
		c.handleInput(w)
	}
}

// Walk calls fn for e and every descendant, depth first in insertion order.
func (e *Element) Walk(fn func(*Element)) {
	fn(e)
	for _, c := range e.children {
		c.Walk(fn)
	}
}

// Cleanup cleans the children first, then runs OnCleanup and detaches everything.
// Textures belong to the loader and are not released.
func (e *Element) Cleanup() {
	for _, c := range e.children {
		c.Cleanup()
		c.parent = nil
	}
	e.children = nil
	if e.OnCleanup != nil {
		e.OnCleanup(e)
	}
	e.OnInput = nil
	e.fade = nil
}
