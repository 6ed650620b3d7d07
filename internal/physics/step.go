package physics

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// inertiaRate is the frame rate the inertia constant was tuned for. Raising inertia to dt*inertiaRate
// makes the decay frame-rate independent.
const inertiaRate = 90

// Params tunes movement. Gravity is an acceleration along Y (negative pulls down).
type Params struct {
	Speed       float32
	Inertia     float32
	MaxSpeed    float32
	Gravity     float32
	JumpPower   float32
	GroundLevel float32
}

// DefaultParams returns the reference tuning: speed 0.4, inertia 0.85.
func DefaultParams() Params {
	return Params{
		Speed:     0.4,
		Inertia:   0.85,
		MaxSpeed:  8,
		Gravity:   -20,
		JumpPower: 7,
	}
}

// ApplyInertia decays the horizontal velocity by inertia^(dt*90) and adds wish*speed.
// wish is a world-space XZ direction; its Y and the velocity's Y are left untouched.
// Inertia is clamped to [0,1] so the decay stays finite.
func ApplyInertia(vel, wish mgl32.Vec3, p Params, dt float32) mgl32.Vec3 {
	decay := math32.Pow(mgl32.Clamp(p.Inertia, 0, 1), dt*inertiaRate)
	vel[0] = vel[0]*decay + wish[0]*p.Speed
	vel[2] = vel[2]*decay + wish[2]*p.Speed
	return vel
}

// ClampHorizontal scales the XZ part of vel down to max when it is longer. max <= 0 disables.
func ClampHorizontal(vel mgl32.Vec3, max float32) mgl32.Vec3 {
	if max <= 0 {
		return vel
	}
	l := math32.Hypot(vel[0], vel[2])
	if l <= max {
		return vel
	}
	s := max / l
	vel[0] *= s
	vel[2] *= s
	return vel
}

// Integrate applies gravity while the body is airborne, then moves it by velocity*dt.
func Integrate(b *Body, p Params, dt float32) {
	if !b.Grounded {
		b.Velocity[1] += p.Gravity * dt
	}
	b.Position = b.Position.Add(b.Velocity.Mul(dt))
}

// ResolveGround snaps the body onto the ground when its feet are at or below it, zeroing vertical
// velocity. It returns the resulting grounded state.
func ResolveGround(b *Body, ground float32) bool {
	if b.Feet() <= ground {
		b.Position[1] = ground + b.HalfHeight
		b.Velocity[1] = 0
		b.Grounded = true
	} else {
		b.Grounded = false
	}
	return b.Grounded
}

// Step runs one fixed step: inertia, clamp, integration and ground contact.
func Step(b *Body, wish mgl32.Vec3, p Params, dt float32) {
	b.Velocity = ClampHorizontal(ApplyInertia(b.Velocity, wish, p, dt), p.MaxSpeed)
	Integrate(b, p, dt)
	ResolveGround(b, p.GroundLevel)
}

// Jump launches a grounded body. It returns false and changes nothing when the body is airborne.
func Jump(b *Body, p Params) bool {
	if !b.Grounded {
		return false
	}
	b.Velocity[1] = p.JumpPower
	b.Grounded = false
	return true
}
