package ui

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"game-engine/internal/gpu/gputest"
	"game-engine/internal/loader"
	"game-engine/internal/window"
)

func newManager(t *testing.T) (*Manager, *gputest.Device) {
	t.Helper()
	dev := gputest.NewDevice()
	m, err := NewManager(dev, loader.New(dev, nil, loader.Options{}), nil)
	require.NoError(t, err)
	return m, dev
}

func TestRenderOrderByZIndex(t *testing.T) {
	m, dev := newManager(t)
	for _, z := range []int{3, 1, 2} {
		p := NewPanel(mgl32.Vec4{float32(z), 0, 0, 1}, mgl32.Vec2{}, 0.1, 0.1)
		p.ZIndex = z
		require.NoError(t, m.Add(p))
	}

	m.Render(1280, 720)
	require.Len(t, dev.Draws, 3)
	for i, d := range dev.Draws {
		tint := d.Uniforms["tint"].(mgl32.Vec4)
		assert.Equal(t, float32(i+1), tint.X())
		assert.False(t, d.Depth)
		assert.True(t, d.Blend)
	}
	assert.True(t, dev.DepthTest(), "depth test restored after UI pass")
	assert.False(t, dev.Blend())
}

func TestRenderOrderStableOnTies(t *testing.T) {
	m, _ := newManager(t)
	a := NewPanel(mgl32.Vec4{1, 1, 1, 1}, mgl32.Vec2{}, 0.1, 0.1)
	b := NewPanel(mgl32.Vec4{1, 1, 1, 1}, mgl32.Vec2{}, 0.1, 0.1)
	c := NewPanel(mgl32.Vec4{1, 1, 1, 1}, mgl32.Vec2{}, 0.1, 0.1)
	c.ZIndex = -1
	for _, e := range []*Element{a, b, c} {
		require.NoError(t, m.Add(e))
	}
	assert.Equal(t, []*Element{c, a, b}, m.RenderOrder())
}

func TestChildrenKeepInsertionOrderOnTies(t *testing.T) {
	m, dev := newManager(t)
	root := NewPanel(mgl32.Vec4{0, 0, 0, 1}, mgl32.Vec2{}, 1, 1)
	for i := 1; i <= 4; i++ {
		c := NewPanel(mgl32.Vec4{float32(i), 0, 0, 1}, mgl32.Vec2{}, 0.1, 0.1)
		if i == 4 {
			c.ZIndex = -1
		}
		require.NoError(t, root.AddChild(c))
	}
	require.NoError(t, m.Add(root))

	m.Render(1280, 720)
	require.Len(t, dev.Draws, 5)
	var got []float32
	for _, d := range dev.Draws[1:] {
		got = append(got, d.Uniforms["tint"].(mgl32.Vec4).X())
		assert.True(t, d.Blend, "opaque panels are drawn in the blended pass too")
	}
	assert.Equal(t, []float32{4, 1, 2, 3}, got)
}

func TestChildrenDrawAfterParentWithOpacity(t *testing.T) {
	m, dev := newManager(t)
	parent := NewPanel(mgl32.Vec4{0, 0, 0, 1}, mgl32.Vec2{0.5, 0}, 0.4, 0.4)
	parent.Opacity = 0.5
	child := NewPanel(mgl32.Vec4{1, 1, 1, 1}, mgl32.Vec2{0.1, 0.2}, 0.1, 0.1)
	child.Text = "Resume"
	require.NoError(t, parent.AddChild(child))
	require.NoError(t, m.Add(parent))

	m.Render(800, 800)
	require.Len(t, dev.Draws, 2)
	childTint := dev.Draws[1].Uniforms["tint"].(mgl32.Vec4)
	assert.InDelta(t, 0.5, childTint.W(), 1e-6)
	model := dev.Draws[1].Matrix("matModel")
	assert.InDelta(t, 0.6, model.At(0, 3), 1e-6)
	assert.InDelta(t, 0.2, model.At(1, 3), 1e-6)
	assert.Equal(t, []string{"Resume"}, dev.Texts)
}

func TestHiddenElementsAreSkipped(t *testing.T) {
	m, dev := newManager(t)
	p := NewPanel(mgl32.Vec4{1, 1, 1, 1}, mgl32.Vec2{}, 0.1, 0.1)
	require.NoError(t, p.AddChild(NewPanel(mgl32.Vec4{1, 1, 1, 1}, mgl32.Vec2{}, 0.1, 0.1)))
	p.Visible = false
	require.NoError(t, m.Add(p))
	m.Render(1280, 720)
	assert.Empty(t, dev.Draws)
}

func TestAddChildRejectsCyclesAndReparenting(t *testing.T) {
	a := NewPanel(mgl32.Vec4{}, mgl32.Vec2{}, 1, 1)
	b := NewPanel(mgl32.Vec4{}, mgl32.Vec2{}, 1, 1)
	c := NewPanel(mgl32.Vec4{}, mgl32.Vec2{}, 1, 1)

	require.NoError(t, a.AddChild(b))
	assert.ErrorIs(t, b.AddChild(a), ErrCycle)
	assert.ErrorIs(t, a.AddChild(a), ErrCycle)
	assert.ErrorIs(t, c.AddChild(b), ErrHasParent)
	assert.Same(t, a, b.Parent())

	assert.True(t, a.RemoveChild(b))
	assert.Nil(t, b.Parent())
	assert.NoError(t, c.AddChild(b))
}

func TestManagerAddRejectsChildren(t *testing.T) {
	m, _ := newManager(t)
	a := NewPanel(mgl32.Vec4{}, mgl32.Vec2{}, 1, 1)
	b := NewPanel(mgl32.Vec4{}, mgl32.Vec2{}, 1, 1)
	require.NoError(t, a.AddChild(b))
	assert.ErrorIs(t, m.Add(b), ErrHasParent)
	require.NoError(t, m.Add(a))
	assert.Error(t, m.Add(a))
	assert.True(t, m.Remove(a))
	assert.False(t, m.Remove(a))
}

func TestMenuInputOnlyWhileVisibleAndActive(t *testing.T) {
	m, _ := newManager(t)
	w := gputest.NewWindow()
	calls := 0
	menu := NewMenu(mgl32.Vec4{0, 0, 0, 0.8}, mgl32.Vec2{}, 0.5, 0.5, func(*Element, window.Window) { calls++ })
	require.NoError(t, m.Add(menu))

	m.HandleInput(w)
	assert.Equal(t, 0, calls)

	menu.Show(0)
	m.HandleInput(w)
	assert.Equal(t, 1, calls)

	menu.Active = false
	m.HandleInput(w)
	assert.Equal(t, 1, calls)

	menu.Show(0)
	menu.Hide(0)
	m.HandleInput(w)
	assert.Equal(t, 1, calls)
	assert.False(t, menu.Visible)
}

func TestFades(t *testing.T) {
	m, _ := newManager(t)
	menu := NewMenu(mgl32.Vec4{1, 1, 1, 1}, mgl32.Vec2{}, 0.5, 0.5, nil)
	require.NoError(t, m.Add(menu))

	menu.Show(1)
	assert.True(t, menu.Visible)
	assert.Equal(t, float32(0), menu.Opacity)
	m.Update(0.5)
	assert.Greater(t, menu.Opacity, float32(0))
	assert.Less(t, menu.Opacity, float32(1))
	m.Update(0.6)
	assert.Equal(t, float32(1), menu.Opacity)
	assert.False(t, menu.Fading())

	menu.Hide(0.5)
	assert.False(t, menu.Active)
	assert.True(t, menu.Visible)
	m.Update(1)
	assert.False(t, menu.Visible)
}

func TestSizeDerivesFromTexture(t *testing.T) {
	m, _ := newManager(t)
	wide := &Element{Height: 0.2, Texture: nil}
	w, h := wide.Size(2)
	assert.InDelta(t, 0.1, w, 1e-6)
	assert.InDelta(t, 0.2, h, 1e-6)

	q := NewQuad(m.white, mgl32.Vec2{}, 0)
	q.Width = 0.3
	w, h = q.Size(1.5)
	assert.InDelta(t, 0.3, w, 1e-6)
	assert.InDelta(t, 0.45, h, 1e-6)
}

func TestStylesheetApplies(t *testing.T) {
	sheet, err := ParseCSS([]byte(`
/* pause menu */
.panel { left: 50%; top: 0%; width: 0.25; background: #ff000080; z-index: 4; }
#title { visibility: hidden; opacity: 2 }
div > p { width: 9 }
`))
	require.NoError(t, err)
	require.Len(t, sheet.Rules, 2)

	m, _ := newManager(t)
	root := NewPanel(mgl32.Vec4{1, 1, 1, 1}, mgl32.Vec2{}, 0.1, 0.1)
	root.Class = "panel"
	title := NewPanel(mgl32.Vec4{1, 1, 1, 1}, mgl32.Vec2{}, 0.1, 0.1)
	title.ID = "title"
	require.NoError(t, root.AddChild(title))

	m.ApplyStylesheet(sheet)
	require.NoError(t, m.Add(root))

	assert.InDelta(t, 0, root.Position.X(), 1e-6)
	assert.InDelta(t, 1, root.Position.Y(), 1e-6)
	assert.Equal(t, float32(0.25), root.Width)
	assert.Equal(t, 4, root.ZIndex)
	assert.InDelta(t, 1, root.Color.X(), 1e-6)
	assert.InDelta(t, 128.0/255, root.Color.W(), 1e-6)
	assert.False(t, title.Visible)
	assert.Equal(t, float32(1), title.Opacity)
}

func TestParseHexColor(t *testing.T) {
	c, ok := ParseHexColor("#fff")
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec4{1, 1, 1, 1}, c)
	_, ok = ParseHexColor("#12345")
	assert.False(t, ok)
	_, ok = ParseHexColor("red")
	assert.False(t, ok)
}

func TestCleanupIsRecursive(t *testing.T) {
	m, dev := newManager(t)
	var order []string
	root := NewPanel(mgl32.Vec4{}, mgl32.Vec2{}, 1, 1)
	root.OnCleanup = func(*Element) { order = append(order, "root") }
	child := NewPanel(mgl32.Vec4{}, mgl32.Vec2{}, 1, 1)
	child.OnCleanup = func(*Element) { order = append(order, "child") }
	require.NoError(t, root.AddChild(child))
	require.NoError(t, m.Add(root))

	m.Cleanup()
	assert.Equal(t, []string{"child", "root"}, order)
	assert.Empty(t, root.Children())
	assert.Nil(t, child.Parent())
	assert.Equal(t, 0, dev.LivePrograms())
}
