package transform

import (
	"github.com/go-gl/mathgl/mgl32"
)

// ModelMatrix builds the world transform of an object: translate, then rotate about X, Y and Z
// (degrees), then scale. Pure; same inputs give the same matrix.
func ModelMatrix(position, rotation, scale mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Translate3D(position.X(), position.Y(), position.Z()).
		Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(rotation.X()))).
		Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(rotation.Y()))).
		Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(rotation.Z()))).
		Mul4(mgl32.Scale3D(scale.X(), scale.Y(), scale.Z()))
}

// ViewMatrix builds a first-person view matrix: rotate by pitch (X), yaw (Y) and roll (Z), then
// translate by the negated camera position.
func ViewMatrix(position, rotation mgl32.Vec3) mgl32.Mat4 {
	return mgl32.HomogRotate3DX(mgl32.DegToRad(rotation.X())).
		Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(rotation.Y()))).
		Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(rotation.Z()))).
		Mul4(mgl32.Translate3D(-position.X(), -position.Y(), -position.Z()))
}
