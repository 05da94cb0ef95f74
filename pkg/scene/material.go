package scene

// Shading is the closed set of shading models a material can carry.
// Backends type-switch over the concrete types; any model a backend does
// not handle routes to its fallback diffuse emitter.
type Shading interface {
	model() string
}

// Passthrough carries a raw backend-native shader fragment targeted at one
// specific renderer. Text may contain the placeholders {name} and {color},
// which the backend substitutes with the entity name and the material
// default color; the fragment contents are otherwise not interpreted.
type Passthrough struct {
	Renderer string
	Text     string
}

// Glass is a transmissive material with an index of refraction.
type Glass struct {
	Color Color
	IOR   float32
}

// Disney is the principled shading model.
type Disney struct {
	BaseColor      Color
	Subsurface     float32
	Metallic       float32
	Specular       float32
	SpecularTint   float32
	Roughness      float32
	Anisotropic    float32
	Sheen          float32
	SheenTint      float32
	Clearcoat      float32
	ClearcoatGloss float32
}

// Diffuse is a plain lambertian material.
type Diffuse struct {
	Color Color
}

// Mixed blends a glass and a diffuse component by a transparency factor
// in [0,1].
type Mixed struct {
	Glass        Glass
	Diffuse      Diffuse
	Transparency float32
}

func (Passthrough) model() string { return "Passthrough" }
func (Glass) model() string       { return "Glass" }
func (Disney) model() string      { return "Disney" }
func (Diffuse) model() string     { return "Diffuse" }
func (Mixed) model() string       { return "Mixed" }

// ShadingName returns the shading-model tag for diagnostics.
func ShadingName(s Shading) string {
	if s == nil {
		return "None"
	}
	return s.model()
}

// Material couples a shading model with the default color used whenever a
// backend has to fall back to plain diffuse. Materials are built once per
// export and never mutated afterwards.
type Material struct {
	Shading      Shading
	DefaultColor Color
}
