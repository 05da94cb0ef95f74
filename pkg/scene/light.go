package scene

import "github.com/Faultbox/renderctl/pkg/math"

// Light is the closed set of light kinds the exporter knows how to emit.
type Light interface {
	kind() string
}

// PointLight is an omnidirectional light at a position.
type PointLight struct {
	Position math.Vec3
	Color    Color
	Power    float32
}

// AreaLight is a rectangular emitter. Transparent lights are emitted as
// analytic light primitives; opaque lights are approximated as emissive
// quad meshes.
type AreaLight struct {
	Placement   Placement
	SizeU       float32
	SizeV       float32
	Color       Color
	Power       float32
	Transparent bool
}

// SunSkyLight is a sun plus sky environment. Direction points towards the
// sun and must be non-zero; it is normalized before use.
type SunSkyLight struct {
	Direction math.Vec3
	Distance  float32
	Turbidity float32
	Albedo    float32
}

// ImageLight is an image-based environment light.
type ImageLight struct {
	Image string
}

func (PointLight) kind() string  { return "Point" }
func (AreaLight) kind() string   { return "Area" }
func (SunSkyLight) kind() string { return "SunSky" }
func (ImageLight) kind() string  { return "Image" }

// LightKind returns the light kind tag for diagnostics.
func LightKind(l Light) string {
	if l == nil {
		return "None"
	}
	return l.kind()
}
