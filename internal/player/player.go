// Package player drives a first-person character: a physics body, a camera at eye height, and a
// free-camera mode that detaches the view from horizontal movement.
package player

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/jinzhu/copier"

	"game-engine/internal/camera"
	"game-engine/internal/physics"
	"game-engine/internal/window"
)

// Config tunes a player.
type Config struct {
	Physics     physics.Params
	Height      float32
	EyeHeight   float32
	Sensitivity float32
	FlySpeed    float32
}

// DefaultConfig returns reference tuning.
func DefaultConfig() Config {
	return Config{
		Physics:     physics.DefaultParams(),
		Height:      1.8,
		EyeHeight:   1.6,
		Sensitivity: 0.15,
		FlySpeed:    10,
	}
}

// Player owns its body and camera. Outside free-camera mode the camera sits at the body's eye
// position every step.
type Player struct {
	Body   *physics.Body
	Camera *camera.Camera

	cfg        Config
	forward    float32
	strafe     float32
	up         float32
	freeCamera bool
	saved      camera.Camera
}

// New places a player with its feet at feet and the given view rotation (degrees).
func New(feet, rotation mgl32.Vec3, cfg Config) *Player {
	body := physics.NewBody(feet, cfg.Height)
	body.Position[1] += body.HalfHeight
	p := &Player{Body: body, Camera: camera.New(mgl32.Vec3{}), cfg: cfg}
	p.Camera.SetRotation(rotation.X(), rotation.Y())
	p.syncCamera()
	return p
}

// Grounded reports the physics state.
func (p *Player) Grounded() bool { return p.Body.Grounded }

// FreeCamera reports whether the camera is detached.
func (p *Player) FreeCamera() bool { return p.freeCamera }

// Velocity returns the body velocity.
func (p *Player) Velocity() mgl32.Vec3 { return p.Body.Velocity }

// Feet returns the position of the bottom of the body.
func (p *Player) Feet() mgl32.Vec3 {
	pos := p.Body.Position
	pos[1] = p.Body.Feet()
	return pos
}

// EyePosition returns where the camera sits when attached.
func (p *Player) EyePosition() mgl32.Vec3 {
	return p.Feet().Add(mgl32.Vec3{0, p.cfg.EyeHeight, 0})
}

// SetGroundLevel sets the height the body lands on, usually the terrain height under the feet.
func (p *Player) SetGroundLevel(y float32) { p.cfg.Physics.GroundLevel = y }

// SetMovement sets forward and strafe input, each clamped to [-1,1].
func (p *Player) SetMovement(forward, strafe float32) {
	p.forward = mgl32.Clamp(forward, -1, 1)
	p.strafe = mgl32.Clamp(strafe, -1, 1)
}

// SetVertical sets the free-camera climb input in [-1,1]. Ignored outside free-camera mode.
func (p *Player) SetVertical(up float32) {
	p.up = mgl32.Clamp(up, -1, 1)
}

// Look turns the camera by a pointer delta in pixels. Moving the mouse down pitches down.
func (p *Player) Look(dx, dy float32) {
	p.Camera.Rotate(dy*p.cfg.Sensitivity, dx*p.cfg.Sensitivity)
}

// Jump launches the player when grounded and not in free-camera mode; otherwise it does nothing.
func (p *Player) Jump() bool {
	if p.freeCamera {
		return false
	}
	return physics.Jump(p.Body, p.cfg.Physics)
}

// ToggleFreeCamera enters or leaves free-camera mode. Entering saves the camera. Leaving puts the
// camera back at the body's eye and restores the saved rotation; the free-flight look direction is
// discarded.
func (p *Player) ToggleFreeCamera() {
	if !p.freeCamera {
		_ = copier.Copy(&p.saved, p.Camera)
		p.Body.Velocity[0], p.Body.Velocity[2] = 0, 0
		p.freeCamera = true
		return
	}
	p.freeCamera = false
	p.Camera.Rotation = p.saved.Rotation
	p.syncCamera()
}

// Update advances one fixed step of dt seconds.
func (p *Player) Update(dt float32) {
	var wish mgl32.Vec3
	if p.freeCamera {
		fly := p.cfg.FlySpeed * dt
		p.Camera.MoveRelative(p.forward*fly, p.strafe*fly, p.up*fly)
	} else {
		wish = p.Camera.Wish(p.forward, p.strafe)
		if l := wish.Len(); l > 1 {
			wish = wish.Mul(1 / l)
		}
	}
	physics.Step(p.Body, wish, p.cfg.Physics, dt)
	if p.freeCamera {
		p.Body.Velocity[0], p.Body.Velocity[2] = 0, 0
		return
	}
	p.syncCamera()
}

func (p *Player) syncCamera() {
	p.Camera.Position = p.EyePosition()
}

// Input reads WASD, Space, Shift/Ctrl, F and mouse look from w.
func (p *Player) Input(w window.Window) {
	var forward, strafe, up float32
	if w.IsKeyDown(window.KeyW) {
		forward++
	}
	if w.IsKeyDown(window.KeyS) {
		forward--
	}
	if w.IsKeyDown(window.KeyD) {
		strafe++
	}
	if w.IsKeyDown(window.KeyA) {
		strafe--
	}
	if w.IsKeyDown(window.KeySpace) {
		up++
	}
	if w.IsKeyDown(window.KeyLeftShift) || w.IsKeyDown(window.KeyLeftCtrl) {
		up--
	}
	p.SetMovement(forward, strafe)
	p.SetVertical(up)
	if w.IsKeyPressed(window.KeyF) {
		p.ToggleFreeCamera()
	}
	if !p.freeCamera && w.IsKeyPressed(window.KeySpace) {
		p.Jump()
	}
	if d := w.MouseDelta(); d.X() != 0 || d.Y() != 0 {
		p.Look(d.X(), d.Y())
	}
}
