package model

import (
	"testing"

	"game-engine/internal/gpu"

	"github.com/stretchr/testify/assert"
)

func TestTextureTransparentByName(t *testing.T) {
	cases := map[string]bool{
		"assets/textures/Grass_01.png": true,
		"tallgrass.png":                true,
		"assets/t_leaves.png":          true,
		"T_fence.PNG":                  true,
		"stone.png":                    false,
		"assets/t_dir/stone.png":       false,
		"cat_t_.png":                   false,
	}
	for name, want := range cases {
		tex := &Texture{Name: name}
		assert.Equal(t, want, tex.Transparent(), name)
	}
}

func TestHasAlphaDoesNotAffectTransparency(t *testing.T) {
	tex := &Texture{Name: "stone.png", HasAlpha: true}
	assert.False(t, tex.Transparent())
}

func TestModelSetTexture(t *testing.T) {
	m := New(gpu.Mesh{ID: 1, VertexCount: 3}, 3)
	assert.Nil(t, m.Texture())
	assert.False(t, m.Transparent())

	tex := &Texture{Name: "grass.png", Width: 4, Height: 2}
	m.SetTexture(tex)
	assert.Same(t, tex, m.Texture())
	assert.True(t, m.Transparent())
	assert.Equal(t, float32(2), tex.AspectRatio())
}
