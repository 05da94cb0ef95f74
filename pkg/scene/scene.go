package scene

import "github.com/Faultbox/renderctl/pkg/math"

// Camera describes the view for a render.
type Camera struct {
	Placement Placement
	Up        math.Vec3
	Target    math.Vec3
	FOV       float32 // degrees
}

// Object is one renderable mesh with its material and view color.
type Object struct {
	Name     string
	Mesh     *Mesh
	Material *Material
	Color    Color
	Alpha    float32
}

// NamedLight pairs a light with its scene name.
type NamedLight struct {
	Name  string
	Light Light
}

// Scene is the full input to an export: one camera, objects, lights.
type Scene struct {
	Name    string
	Camera  *Camera
	Objects []Object
	Lights  []NamedLight
}
