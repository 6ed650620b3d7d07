package player

import (
	"testing"

	"game-engine/internal/gpu/gputest"
	"game-engine/internal/window"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dt = float32(1) / 60

func grounded(t *testing.T) *Player {
	p := New(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{}, DefaultConfig())
	p.Update(dt)
	require.True(t, p.Grounded())
	return p
}

func TestCameraAtEyeHeight(t *testing.T) {
	p := New(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{10, 20, 0}, DefaultConfig())
	assert.True(t, p.Camera.Position.ApproxEqual(mgl32.Vec3{1, 3.6, 3}))
	assert.Equal(t, float32(10), p.Camera.Rotation.X())
	assert.Equal(t, float32(20), p.Camera.Rotation.Y())
}

func TestZeroInputConvergesToRest(t *testing.T) {
	p := grounded(t)
	p.Body.Velocity = mgl32.Vec3{4, 0, 3}
	prev := p.Velocity().Len()
	for i := 0; i < 240; i++ {
		p.Update(dt)
		l := p.Velocity().Len()
		assert.LessOrEqual(t, l, prev)
		prev = l
	}
	assert.Less(t, prev, float32(1e-2))
}

func TestForwardInputMovesAlongYaw(t *testing.T) {
	p := grounded(t)
	p.SetMovement(1, 0)
	for i := 0; i < 30; i++ {
		p.Update(dt)
	}
	assert.Less(t, p.Feet().Z(), float32(0))
	assert.InDelta(t, 0, p.Feet().X(), 1e-4)
	assert.LessOrEqual(t, p.Body.HorizontalSpeed(), DefaultConfig().Physics.MaxSpeed+1e-4)
}

func TestFallingPlayerLandsOnGround(t *testing.T) {
	p := New(mgl32.Vec3{0, 3, 0}, mgl32.Vec3{}, DefaultConfig())
	for i := 0; i < 120 && !p.Grounded(); i++ {
		p.Update(dt)
		if !p.Grounded() {
			assert.Greater(t, p.Feet().Y(), float32(0))
		}
	}
	require.True(t, p.Grounded())
	assert.Equal(t, float32(0), p.Feet().Y())
	assert.Zero(t, p.Velocity().Y())
}

func TestJumpOnlyFromGroundedPlayerControl(t *testing.T) {
	p := New(mgl32.Vec3{0, 5, 0}, mgl32.Vec3{}, DefaultConfig())
	p.Update(dt)
	before := p.Velocity()
	assert.False(t, p.Jump())
	assert.Equal(t, before, p.Velocity())

	p = grounded(t)
	p.ToggleFreeCamera()
	before = p.Velocity()
	assert.False(t, p.Jump())
	assert.Equal(t, before, p.Velocity())

	p.ToggleFreeCamera()
	assert.True(t, p.Jump())
	assert.Equal(t, DefaultConfig().Physics.JumpPower, p.Velocity().Y())
	assert.False(t, p.Grounded())
}

func TestFreeCameraRestoresSavedRotation(t *testing.T) {
	p := grounded(t)
	p.Camera.SetRotation(5, 45)
	p.ToggleFreeCamera()
	require.True(t, p.FreeCamera())

	p.SetMovement(1, 1)
	p.SetVertical(1)
	p.Look(100, 50)
	for i := 0; i < 30; i++ {
		p.Update(dt)
	}
	assert.Zero(t, p.Body.Velocity.X())
	assert.Zero(t, p.Body.Velocity.Z())
	assert.True(t, p.Feet().ApproxEqual(mgl32.Vec3{}), "body should not move horizontally")
	assert.False(t, p.Camera.Position.ApproxEqual(p.EyePosition()))

	p.ToggleFreeCamera()
	assert.False(t, p.FreeCamera())
	assert.Equal(t, float32(5), p.Camera.Rotation.X())
	assert.Equal(t, float32(45), p.Camera.Rotation.Y())
	assert.True(t, p.Camera.Position.ApproxEqual(p.EyePosition()))
}

func TestInputFromWindow(t *testing.T) {
	w := gputest.NewWindow()
	p := grounded(t)

	w.State.SetKey(window.KeyW, true)
	w.State.SetKey(window.KeySpace, true)
	p.Input(w)
	assert.Equal(t, DefaultConfig().Physics.JumpPower, p.Velocity().Y())

	w.Update()
	w.State.SetKey(window.KeyF, true)
	p.Input(w)
	assert.True(t, p.FreeCamera())

	w.Update()
	p.Input(w)
	assert.True(t, p.FreeCamera(), "holding F must not toggle again")
}

func TestMouseLookNeedsCapturedCursor(t *testing.T) {
	w := gputest.NewWindow()
	p := grounded(t)
	w.State.AddMouseDelta(mgl32.Vec2{100, 0})
	p.Input(w)
	assert.Zero(t, p.Camera.Rotation.Y())

	w.CaptureCursor()
	p.Input(w)
	assert.InDelta(t, 15, p.Camera.Rotation.Y(), 1e-4)
}

func TestGroundLevelFollowsTerrain(t *testing.T) {
	p := grounded(t)
	p.SetGroundLevel(2)
	p.Update(dt)
	assert.True(t, p.Grounded())
	assert.InDelta(t, 2, p.Feet().Y(), 1e-5)
	assert.InDelta(t, 3.6, p.Camera.Position.Y(), 1e-5)

	p.SetGroundLevel(1)
	p.Update(dt)
	assert.False(t, p.Grounded(), "ground dropped away")
}
