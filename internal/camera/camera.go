package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"game-engine/internal/transform"
)

// Camera is a first-person view: a position and a rotation in degrees (X pitch, Y yaw, Z roll).
// Pitch stays within [-90,90] and yaw within [0,360). Positive pitch looks down.
type Camera struct {
	Position mgl32.Vec3
	Rotation mgl32.Vec3
}

// New returns a camera at position looking down -Z.
func New(position mgl32.Vec3) *Camera {
	return &Camera{Position: position}
}

// Rotate adds to pitch and yaw (degrees) and re-applies the limits.
func (c *Camera) Rotate(dPitch, dYaw float32) {
	c.SetRotation(c.Rotation.X()+dPitch, c.Rotation.Y()+dYaw)
}

// SetRotation sets pitch and yaw (degrees), clamping pitch and wrapping yaw. Roll is kept.
func (c *Camera) SetRotation(pitch, yaw float32) {
	c.Rotation[0] = mgl32.Clamp(pitch, -90, 90)
	c.Rotation[1] = WrapYaw(yaw)
}

// WrapYaw maps any angle in degrees into [0,360).
func WrapYaw(yaw float32) float32 {
	yaw = math32.Mod(yaw, 360)
	if yaw < 0 {
		yaw += 360
	}
	if yaw >= 360 {
		yaw = 0
	}
	return yaw
}

// Forward returns the horizontal unit vector the camera faces (yaw only).
func (c *Camera) Forward() mgl32.Vec3 {
	s, co := math32.Sincos(mgl32.DegToRad(c.Rotation.Y()))
	return mgl32.Vec3{s, 0, -co}
}

// Right returns the horizontal unit vector to the camera's right.
func (c *Camera) Right() mgl32.Vec3 {
	s, co := math32.Sincos(mgl32.DegToRad(c.Rotation.Y()))
	return mgl32.Vec3{co, 0, s}
}

// LookDirection returns the unit view direction including pitch.
func (c *Camera) LookDirection() mgl32.Vec3 {
	sp, cp := math32.Sincos(mgl32.DegToRad(c.Rotation.X()))
	f := c.Forward()
	return mgl32.Vec3{f.X() * cp, -sp, f.Z() * cp}
}

// Wish converts forward/strafe input in [-1,1] into a world-space XZ direction using the yaw.
func (c *Camera) Wish(forward, strafe float32) mgl32.Vec3 {
	return c.Forward().Mul(forward).Add(c.Right().Mul(strafe))
}

// MoveRelative translates the camera: forward and strafe follow the yaw, up is world Y.
func (c *Camera) MoveRelative(forward, strafe, up float32) {
	c.Position = c.Position.Add(c.Wish(forward, strafe))
	c.Position[1] += up
}

// ViewMatrix returns the world-to-view transform.
func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return transform.ViewMatrix(c.Position, c.Rotation)
}
