package scene

import (
	"fmt"
	"os"

	"github.com/chewxy/math32"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/renderctl/pkg/math"
)

// LoadFile reads and decodes a YAML scene file.
func LoadFile(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene file: %w", err)
	}
	sc, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return sc, nil
}

// Decode parses a YAML scene description. Decoding is the trust boundary:
// unknown material or light type tags are errors here, so that emission
// downstream can stay total.
func Decode(data []byte) (*Scene, error) {
	var doc sceneDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc.build()
}

type sceneDoc struct {
	Name    string      `yaml:"name"`
	Camera  *cameraDoc  `yaml:"camera"`
	Objects []objectDoc `yaml:"objects"`
	Lights  []lightDoc  `yaml:"lights"`
}

type cameraDoc struct {
	Position [3]float32   `yaml:"position"`
	Rotation *rotationDoc `yaml:"rotation"`
	Up       [3]float32   `yaml:"up"`
	Target   [3]float32   `yaml:"target"`
	FOV      float32      `yaml:"fov"`
}

type rotationDoc struct {
	Axis  [3]float32 `yaml:"axis"`
	Angle float32    `yaml:"angle"` // degrees
}

type objectDoc struct {
	Name     string       `yaml:"name"`
	Color    [3]float32   `yaml:"color"`
	Alpha    *float32     `yaml:"alpha"`
	Material *materialDoc `yaml:"material"`
	Mesh     meshDoc      `yaml:"mesh"`
}

type meshDoc struct {
	Vertices [][3]float32 `yaml:"vertices"`
	Faces    [][3]int     `yaml:"faces"`
	Normals  [][3]float32 `yaml:"normals"`
}

type materialDoc struct {
	Type         string       `yaml:"type"`
	DefaultColor *[3]float32  `yaml:"default_color"`
	Color        [3]float32   `yaml:"color"`
	IOR          float32      `yaml:"ior"`
	Renderer     string       `yaml:"renderer"`
	Text         string       `yaml:"text"`
	Glass        *materialDoc `yaml:"glass"`
	Diffuse      *materialDoc `yaml:"diffuse"`
	Transparency float32      `yaml:"transparency"`

	BaseColor      [3]float32 `yaml:"base_color"`
	Subsurface     float32    `yaml:"subsurface"`
	Metallic       float32    `yaml:"metallic"`
	Specular       float32    `yaml:"specular"`
	SpecularTint   float32    `yaml:"specular_tint"`
	Roughness      float32    `yaml:"roughness"`
	Anisotropic    float32    `yaml:"anisotropic"`
	Sheen          float32    `yaml:"sheen"`
	SheenTint      float32    `yaml:"sheen_tint"`
	Clearcoat      float32    `yaml:"clearcoat"`
	ClearcoatGloss float32    `yaml:"clearcoat_gloss"`
}

type lightDoc struct {
	Name        string       `yaml:"name"`
	Type        string       `yaml:"type"`
	Position    [3]float32   `yaml:"position"`
	Rotation    *rotationDoc `yaml:"rotation"`
	Color       [3]float32   `yaml:"color"`
	Power       float32      `yaml:"power"`
	SizeU       float32      `yaml:"size_u"`
	SizeV       float32      `yaml:"size_v"`
	Transparent bool         `yaml:"transparent"`
	Direction   [3]float32   `yaml:"direction"`
	Distance    float32      `yaml:"distance"`
	Turbidity   float32      `yaml:"turbidity"`
	Albedo      float32      `yaml:"albedo"`
	Image       string       `yaml:"image"`
}

func (d *sceneDoc) build() (*Scene, error) {
	sc := &Scene{Name: d.Name}

	if d.Camera != nil {
		sc.Camera = &Camera{
			Placement: placementFrom(d.Camera.Position, d.Camera.Rotation),
			Up:        vec3(d.Camera.Up),
			Target:    vec3(d.Camera.Target),
			FOV:       d.Camera.FOV,
		}
	}

	for i, od := range d.Objects {
		obj, err := od.build()
		if err != nil {
			return nil, fmt.Errorf("object %d (%s): %w", i, od.Name, err)
		}
		sc.Objects = append(sc.Objects, obj)
	}

	for i, ld := range d.Lights {
		light, err := ld.build()
		if err != nil {
			return nil, fmt.Errorf("light %d (%s): %w", i, ld.Name, err)
		}
		sc.Lights = append(sc.Lights, NamedLight{Name: ld.Name, Light: light})
	}

	return sc, nil
}

func (d *objectDoc) build() (Object, error) {
	mesh := &Mesh{}
	for _, v := range d.Mesh.Vertices {
		mesh.Vertices = append(mesh.Vertices, vec3(v))
	}
	mesh.Faces = append(mesh.Faces, d.Mesh.Faces...)
	for _, n := range d.Mesh.Normals {
		mesh.Normals = append(mesh.Normals, vec3(n))
	}
	for _, f := range mesh.Faces {
		if !mesh.faceInRange(f) {
			return Object{}, fmt.Errorf("face %v references a missing vertex", f)
		}
	}

	alpha := float32(1)
	if d.Alpha != nil {
		alpha = *d.Alpha
	}

	obj := Object{
		Name:  d.Name,
		Mesh:  mesh,
		Color: color(d.Color),
		Alpha: alpha,
	}

	if d.Material != nil {
		mat, err := d.Material.build(obj.Color)
		if err != nil {
			return Object{}, err
		}
		obj.Material = mat
	}
	return obj, nil
}

func (d *materialDoc) build(fallback Color) (*Material, error) {
	mat := &Material{DefaultColor: fallback}
	if d.DefaultColor != nil {
		mat.DefaultColor = color(*d.DefaultColor)
	}

	switch d.Type {
	case "passthrough":
		mat.Shading = Passthrough{Renderer: d.Renderer, Text: d.Text}
	case "glass":
		mat.Shading = Glass{Color: color(d.Color), IOR: d.IOR}
	case "disney":
		mat.Shading = Disney{
			BaseColor:      color(d.BaseColor),
			Subsurface:     d.Subsurface,
			Metallic:       d.Metallic,
			Specular:       d.Specular,
			SpecularTint:   d.SpecularTint,
			Roughness:      d.Roughness,
			Anisotropic:    d.Anisotropic,
			Sheen:          d.Sheen,
			SheenTint:      d.SheenTint,
			Clearcoat:      d.Clearcoat,
			ClearcoatGloss: d.ClearcoatGloss,
		}
	case "diffuse":
		mat.Shading = Diffuse{Color: color(d.Color)}
	case "mixed":
		if d.Glass == nil || d.Diffuse == nil {
			return nil, fmt.Errorf("mixed material needs glass and diffuse components")
		}
		mat.Shading = Mixed{
			Glass:        Glass{Color: color(d.Glass.Color), IOR: d.Glass.IOR},
			Diffuse:      Diffuse{Color: color(d.Diffuse.Color)},
			Transparency: d.Transparency,
		}
	case "":
		// No material card: backends paint with the view color.
	default:
		return nil, fmt.Errorf("unknown material type %q", d.Type)
	}
	return mat, nil
}

func (d *lightDoc) build() (Light, error) {
	switch d.Type {
	case "point":
		return PointLight{
			Position: vec3(d.Position),
			Color:    color(d.Color),
			Power:    d.Power,
		}, nil
	case "area":
		if d.SizeU <= 0 || d.SizeV <= 0 {
			return nil, fmt.Errorf("area light size must be positive, got %g x %g", d.SizeU, d.SizeV)
		}
		return AreaLight{
			Placement:   placementFrom(d.Position, d.Rotation),
			SizeU:       d.SizeU,
			SizeV:       d.SizeV,
			Color:       color(d.Color),
			Power:       d.Power,
			Transparent: d.Transparent,
		}, nil
	case "sunsky":
		dir := vec3(d.Direction)
		if dir.IsZero() {
			return nil, fmt.Errorf("sunsky light direction must be non-zero")
		}
		return SunSkyLight{
			Direction: dir,
			Distance:  d.Distance,
			Turbidity: d.Turbidity,
			Albedo:    d.Albedo,
		}, nil
	case "image":
		if d.Image == "" {
			return nil, fmt.Errorf("image light needs an image file")
		}
		return ImageLight{Image: d.Image}, nil
	default:
		return nil, fmt.Errorf("unknown light type %q", d.Type)
	}
}

func placementFrom(pos [3]float32, rot *rotationDoc) Placement {
	p := IdentityPlacement()
	p.Position = vec3(pos)
	if rot != nil {
		axis := vec3(rot.Axis).Normalize()
		if !axis.IsZero() {
			p.Rotation = math.QuatFromAxisAngle(axis, rot.Angle*math32.Pi/180)
		}
	}
	return p
}

func vec3(v [3]float32) math.Vec3 {
	return math.Vec3{X: v[0], Y: v[1], Z: v[2]}
}

func color(c [3]float32) Color {
	return Color{R: c[0], G: c[1], B: c[2]}
}
