package shader

import (
	"errors"
	"fmt"

	"game-engine/internal/gpu"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrCompile is wrapped by New when a stage fails to compile or the program fails to link.
var ErrCompile = errors.New("shader: compile failed")

// ErrUnknownUniform is returned by CreateUniform when the linked program has no such active uniform.
var ErrUnknownUniform = errors.New("shader: unknown uniform")

// Program is a linked vertex+fragment program with uniforms registered by name.
// Setting a uniform that was not registered with CreateUniform panics.
type Program struct {
	dev      gpu.Device
	handle   gpu.Program
	uniforms map[string]int32
	cleaned  bool
}

// New compiles and links the two stages. The returned error wraps ErrCompile and carries the
// compiler diagnostic; callers treat it as fatal.
func New(dev gpu.Device, vertexSrc, fragmentSrc string) (*Program, error) {
	h, err := dev.CompileProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCompile, err)
	}
	return &Program{dev: dev, handle: h, uniforms: make(map[string]int32)}, nil
}

// Handle returns the device program handle.
func (p *Program) Handle() gpu.Program { return p.handle }

// Bind makes the program current.
func (p *Program) Bind() { p.dev.UseProgram(p.handle) }

// Unbind restores the default program.
func (p *Program) Unbind() { p.dev.ReleaseProgram() }

// CreateUniform registers name so it can be set. Registering twice is allowed.
func (p *Program) CreateUniform(name string) error {
	loc := p.dev.UniformLocation(p.handle, name)
	if loc < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownUniform, name)
	}
	p.uniforms[name] = loc
	return nil
}

// CreateUniforms registers every name, stopping at the first failure.
func (p *Program) CreateUniforms(names ...string) error {
	for _, n := range names {
		if err := p.CreateUniform(n); err != nil {
			return err
		}
	}
	return nil
}

// HasUniform reports whether name was registered.
func (p *Program) HasUniform(name string) bool {
	_, ok := p.uniforms[name]
	return ok
}

func (p *Program) location(name string) int32 {
	loc, ok := p.uniforms[name]
	if !ok {
		panic(fmt.Sprintf("shader: uniform %q was not registered", name))
	}
	return loc
}

// SetMatrix sets a mat4 uniform.
func (p *Program) SetMatrix(name string, m mgl32.Mat4) {
	p.dev.SetUniformMatrix(p.handle, p.location(name), m)
}

// SetInt sets an int or sampler uniform.
func (p *Program) SetInt(name string, v int32) {
	p.dev.SetUniformInt(p.handle, p.location(name), v)
}

// SetFloat sets a float uniform.
func (p *Program) SetFloat(name string, v float32) {
	p.dev.SetUniformFloat(p.handle, p.location(name), v)
}

// SetVec3 sets a vec3 uniform.
func (p *Program) SetVec3(name string, v mgl32.Vec3) {
	p.dev.SetUniformVec3(p.handle, p.location(name), v)
}

// SetVec4 sets a vec4 uniform.
func (p *Program) SetVec4(name string, v mgl32.Vec4) {
	p.dev.SetUniformVec4(p.handle, p.location(name), v)
}

// Cleanup unbinds and deletes the program and its stages. Later calls do nothing.
func (p *Program) Cleanup() {
	if p.cleaned {
		return
	}
	p.cleaned = true
	p.dev.ReleaseProgram()
	p.dev.DeleteProgram(p.handle)
	p.uniforms = nil
}
