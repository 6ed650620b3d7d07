// Package render draws a scene through the scene shader: terrain and opaque entities first, then
// transparent entities with blending on and culling off.
package render

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"game-engine/internal/camera"
	"game-engine/internal/gpu"
	"game-engine/internal/model"
	"game-engine/internal/scene"
	"game-engine/internal/shader"
	"game-engine/internal/window"
)

// Options configures projection and clearing.
type Options struct {
	FOV        float32
	Near       float32
	Far        float32
	ClearColor gpu.Color
	// AlphaCutoff discards fragments below this alpha in the transparent pass.
	AlphaCutoff float32
}

// DefaultOptions returns a 70° projection, sky-blue clear color and a 0.1 alpha cutoff.
func DefaultOptions() Options {
	return Options{
		FOV:         70,
		Near:        0.1,
		Far:         1000,
		ClearColor:  gpu.Color{0.53, 0.81, 0.92, 1},
		AlphaCutoff: 0.1,
	}
}

// Renderer owns the scene program.
type Renderer struct {
	dev   gpu.Device
	prog  *shader.Program
	opts  Options
	draws int
}

// New compiles the scene program and registers its uniforms. Errors are fatal.
func New(dev gpu.Device, opts Options) (*Renderer, error) {
	prog, err := shader.New(dev, shader.SceneVertex, shader.SceneFragment)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	if err := prog.CreateUniforms(shader.SceneUniforms...); err != nil {
		prog.Cleanup()
		return nil, fmt.Errorf("render: %w", err)
	}
	return &Renderer{dev: dev, prog: prog, opts: opts}, nil
}

// SetFOV changes the vertical field of view in degrees.
func (r *Renderer) SetFOV(fov float32) { r.opts.FOV = fov }

// DrawCalls returns the number of meshes drawn by the last Render.
func (r *Renderer) DrawCalls() int { return r.draws }

// Render clears the frame and draws scn as seen by cam.
func (r *Renderer) Render(cam *camera.Camera, scn *scene.Scene, aspect float32) {
	r.draws = 0
	r.dev.Clear(r.opts.ClearColor)
	r.dev.SetDepthTest(true)
	r.dev.SetBlend(false)
	r.dev.SetCulling(true)

	r.prog.Bind()
	defer r.prog.Unbind()
	r.prog.SetMatrix("matProjection", window.Perspective(r.opts.FOV, aspect, r.opts.Near, r.opts.Far))
	r.prog.SetMatrix("matView", cam.ViewMatrix())
	r.prog.SetVec3("lightPosition", scn.Light.Position)
	r.prog.SetVec3("lightColor", scn.Light.Color)
	r.prog.SetVec3("ambient", scn.Light.Ambient)
	r.prog.SetInt("texture0", 0)
	r.prog.SetFloat("alphaCutoff", 0)

	if t := scn.Terrain(); t != nil {
		p := t.Position()
		r.draw(t.Model, mgl32.Translate3D(p.X(), p.Y(), p.Z()))
	}

	transparent := false
	scn.Each(func(e *scene.Entity) {
		if e.Transparent() {
			transparent = true
			return
		}
		r.draw(e.Model, ModelMatrix(e, cam))
	})
	if !transparent {
		return
	}

	r.dev.SetCulling(false)
	r.dev.SetBlend(true)
	r.prog.SetFloat("alphaCutoff", r.opts.AlphaCutoff)
	scn.Each(func(e *scene.Entity) {
		if e.Transparent() {
			r.draw(e.Model, ModelMatrix(e, cam))
		}
	})
	r.dev.SetBlend(false)
	r.dev.SetCulling(true)
}

func (r *Renderer) draw(m *model.Model, world mgl32.Mat4) {
	if m == nil {
		return
	}
	r.prog.SetMatrix("matModel", world)
	var tex gpu.Texture
	if t := m.Texture(); t != nil {
		tex = t.Handle
		r.prog.SetInt("useTexture", 1)
	} else {
		r.prog.SetInt("useTexture", 0)
	}
	r.dev.DrawMesh(r.prog.Handle(), m.Mesh, tex)
	r.draws++
}

// ModelMatrix returns the world transform of e. Billboards replace the entity rotation with the
// inverse camera rotation: yaw only for BillboardY, yaw and pitch for BillboardFull.
func ModelMatrix(e *scene.Entity, cam *camera.Camera) mgl32.Mat4 {
	switch {
	case e.Properties.BillboardFull:
		return billboard(e, cam.Rotation.Y(), cam.Rotation.X())
	case e.Properties.BillboardY:
		return billboard(e, cam.Rotation.Y(), 0)
	default:
		return e.ModelMatrix()
	}
}

func billboard(e *scene.Entity, yaw, pitch float32) mgl32.Mat4 {
	return mgl32.Translate3D(e.Position.X(), e.Position.Y(), e.Position.Z()).
		Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(-yaw))).
		Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(-pitch))).
		Mul4(mgl32.Scale3D(e.Scale.X(), e.Scale.Y(), e.Scale.Z()))
}

// Cleanup deletes the scene program.
func (r *Renderer) Cleanup() {
	r.prog.Cleanup()
}
