package shader

// Scene and UI programs. Attribute names match raylib meshes: vertexPosition, vertexTexCoord, vertexNormal.
const (
	SceneVertex = `#version 330
in vec3 vertexPosition;
in vec2 vertexTexCoord;
in vec3 vertexNormal;
uniform mat4 matProjection;
uniform mat4 matView;
uniform mat4 matModel;
out vec3 fragPosition;
out vec2 fragTexCoord;
out vec3 fragNormal;
void main() {
  vec4 worldPos = matModel * vec4(vertexPosition, 1.0);
  fragPosition = worldPos.xyz;
  fragTexCoord = vertexTexCoord;
  fragNormal = mat3(matModel) * vertexNormal;
  gl_Position = matProjection * matView * worldPos;
}
`
	// SceneFragment: point light diffuse plus ambient, albedo from texture0 when useTexture is set.
	// Fragments below alphaCutoff are discarded so foliage cut-outs do not write depth.
	SceneFragment = `#version 330
in vec3 fragPosition;
in vec2 fragTexCoord;
in vec3 fragNormal;
uniform sampler2D texture0;
uniform int useTexture;
uniform vec3 lightPosition;
uniform vec3 lightColor;
uniform vec3 ambient;
uniform float alphaCutoff;
out vec4 finalColor;
void main() {
  vec4 albedo = vec4(0.7, 0.7, 0.7, 1.0);
  if (useTexture == 1) {
    albedo = texture(texture0, fragTexCoord);
  }
  if (albedo.a < alphaCutoff) {
    discard;
  }
  vec3 N = normalize(fragNormal);
  vec3 L = normalize(lightPosition - fragPosition);
  float NdotL = max(dot(N, L), 0.0);
  vec3 color = albedo.rgb * (ambient + lightColor * NdotL);
  finalColor = vec4(color, albedo.a);
}
`
	UIVertex = `#version 330
in vec3 vertexPosition;
in vec2 vertexTexCoord;
uniform mat4 matProjection;
uniform mat4 matModel;
out vec2 fragTexCoord;
void main() {
  fragTexCoord = vertexTexCoord;
  gl_Position = matProjection * matModel * vec4(vertexPosition, 1.0);
}
`
	UIFragment = `#version 330
in vec2 fragTexCoord;
uniform sampler2D texture0;
uniform vec4 tint;
out vec4 finalColor;
void main() {
  finalColor = texture(texture0, fragTexCoord) * tint;
}
`
)

// SceneUniforms are registered by the scene renderer.
var SceneUniforms = []string{
	"matProjection", "matView", "matModel",
	"texture0", "useTexture", "lightPosition", "lightColor", "ambient", "alphaCutoff",
}

// UIUniforms are registered by the UI manager.
var UIUniforms = []string{"matProjection", "matModel", "texture0", "tint"}
