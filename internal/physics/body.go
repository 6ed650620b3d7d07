package physics

import "github.com/go-gl/mathgl/mgl32"

// Body is a vertical capsule proxy: a center position, a velocity and half its height.
// Feet are at Position.Y - HalfHeight.
type Body struct {
	Position   mgl32.Vec3
	Velocity   mgl32.Vec3
	HalfHeight float32
	Grounded   bool
}

// NewBody returns a body at position with the given total height. Velocity is zero and the body
// starts airborne until the first ground check.
func NewBody(position mgl32.Vec3, height float32) *Body {
	if height <= 0 {
		height = 1
	}
	return &Body{Position: position, HalfHeight: height * 0.5}
}

// Feet returns the y coordinate of the bottom of the body.
func (b *Body) Feet() float32 {
	return b.Position.Y() - b.HalfHeight
}

// HorizontalSpeed returns the length of the XZ velocity.
func (b *Body) HorizontalSpeed() float32 {
	return mgl32.Vec2{b.Velocity.X(), b.Velocity.Z()}.Len()
}
