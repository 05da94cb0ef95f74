package renderers

import (
	"strings"
	"testing"

	"github.com/Faultbox/renderctl/pkg/math"
	"github.com/Faultbox/renderctl/pkg/scene"
)

func TestPovRayObjectSwapsYZ(t *testing.T) {
	p := NewPovRay()
	mesh := &scene.Mesh{
		Vertices: []math.Vec3{{X: 1, Y: 2, Z: 3}},
	}
	got := p.WriteObject("obj", mesh, nil, scene.Color{R: 1, G: 1, B: 1}, 1)
	if !strings.Contains(got, "<1,3,2>") {
		t.Errorf("Y/Z permutation missing from vertices:\n%s", got)
	}
}

func TestPovRayObjectCounts(t *testing.T) {
	p := NewPovRay()
	got := p.WriteObject("tri", triangleMesh(), nil, scene.Color{R: 0.5, G: 0.5, B: 0.5}, 1)

	if !strings.Contains(got, "vertex_vectors {\n        3,") {
		t.Errorf("vertex count wrong:\n%s", got)
	}
	// Normals are computed when absent, one per vertex.
	if !strings.Contains(got, "normal_vectors {\n        3,") {
		t.Errorf("normal count wrong:\n%s", got)
	}
	if !strings.Contains(got, "face_indices {\n        1,") {
		t.Errorf("face count wrong:\n%s", got)
	}
	if !strings.Contains(got, "<0,1,2>") {
		t.Errorf("face indices missing:\n%s", got)
	}
	if !strings.Contains(got, "#declare tri = mesh2 {") {
		t.Errorf("mesh declaration missing:\n%s", got)
	}
}

func TestPovRayObjectAlphaFilter(t *testing.T) {
	p := NewPovRay()
	got := p.WriteObject("glassy", triangleMesh(), nil, scene.Color{R: 1, G: 0, B: 0}, 0.25)
	if !strings.Contains(got, "rgbf <1,0,0,0.75>") {
		t.Errorf("alpha should become a filter amount:\n%s", got)
	}
}

func TestPovRayDiffuseMaterial(t *testing.T) {
	p := NewPovRay()
	mat := &scene.Material{Shading: scene.Diffuse{Color: scene.Color{R: 0.1, G: 0.2, B: 0.3}}}
	got := p.WriteObject("obj", triangleMesh(), mat, scene.Color{}, 1)
	if !strings.Contains(got, "color rgb <0.1,0.2,0.3>") {
		t.Errorf("diffuse pigment missing:\n%s", got)
	}
}

func TestPovRayUnsupportedModelsFallBack(t *testing.T) {
	p := NewPovRay()
	for _, shading := range []scene.Shading{
		scene.Glass{Color: scene.Color{R: 1, G: 1, B: 1}, IOR: 1.5},
		scene.Disney{BaseColor: scene.Color{R: 1, G: 1, B: 1}},
		scene.Mixed{Transparency: 0.5},
	} {
		mat := &scene.Material{Shading: shading, DefaultColor: scene.Color{R: 0.25, G: 0.5, B: 0.75}}
		got := p.writePigment("obj", mat, scene.Color{}, 1)
		if !strings.Contains(got, "color rgb <0.25,0.5,0.75>") {
			t.Errorf("%s should fall back to the default color pigment:\n%s",
				scene.ShadingName(shading), got)
		}
	}
}

func TestPovRayFallbackInvalidColor(t *testing.T) {
	p := NewPovRay()
	bad := scene.Color{R: float32(2), G: -3, B: 0.5}
	got := p.fallbackPigment(bad)
	if !strings.Contains(got, "<1,0,0.5>") {
		t.Errorf("fallback color should be clamped:\n%s", got)
	}
}

func TestPovRayCameraFixedAngle(t *testing.T) {
	p := NewPovRay()
	pos := scene.IdentityPlacement()
	pos.Position = math.Vec3{X: 1, Y: 2, Z: 3}
	got := p.WriteCamera("cam", pos, math.Vec3{X: 0, Y: 0, Z: 1}, math.Vec3{X: 0, Y: 5, Z: 0}, 60)

	if !strings.Contains(got, "#declare cam_location = <1,3,2>;") {
		t.Errorf("location not permuted:\n%s", got)
	}
	if !strings.Contains(got, "#declare cam_look_at  = <0,0,5>;") {
		t.Errorf("look_at not permuted:\n%s", got)
	}
	if !strings.Contains(got, "#declare cam_sky      = <0,1,0>;") {
		t.Errorf("sky vector not permuted:\n%s", got)
	}
	// The backend has no per-camera FOV: the requested 60 must not appear.
	if !strings.Contains(got, "cam_angle    = 45") {
		t.Errorf("fixed camera angle missing:\n%s", got)
	}
}

func TestPovRayPointLightIgnoresPower(t *testing.T) {
	p := NewPovRay()
	l := scene.PointLight{Position: math.Vec3{X: 0, Y: 0, Z: 5}, Color: scene.Color{R: 1, G: 0.5, B: 0}}
	weak := l
	weak.Power = 1
	strong := l
	strong.Power = 1000
	if p.WritePointLight("lamp", weak) != p.WritePointLight("lamp", strong) {
		t.Error("point light intensity is carried by RGB; power must be ignored")
	}
}

func TestPovRayAreaLightAxes(t *testing.T) {
	p := NewPovRay()
	l := scene.AreaLight{
		Placement: scene.IdentityPlacement(),
		SizeU:     4,
		SizeV:     2,
		Color:     scene.Color{R: 1, G: 1, B: 1},
	}
	got := p.WriteAreaLight("panel", l)
	// Axes scaled by size, then Y/Z permuted.
	if !strings.Contains(got, "area_light <4,0,0>, <0,0,2>, 20, 20") {
		t.Errorf("area light axes wrong:\n%s", got)
	}
}

func TestPovRaySunSkyLocation(t *testing.T) {
	p := NewPovRay()
	l := scene.SunSkyLight{Direction: math.Vec3{X: 0, Y: 0, Z: 2}, Distance: 100}
	got := p.WriteSunSkyLight("sun", l)
	// Normalized direction scaled to distance, then permuted: z -> y slot.
	if !strings.Contains(got, "<0,100,0>") {
		t.Errorf("sun location wrong:\n%s", got)
	}
	if !strings.Contains(got, "parallel") || !strings.Contains(got, "point_at <0,0,0>") {
		t.Errorf("sun must be a parallel light aimed at the origin:\n%s", got)
	}
	if !strings.Contains(got, "sky_sphere") {
		t.Errorf("gradient sky sphere missing:\n%s", got)
	}
}

func TestPovRayImageLightFullPath(t *testing.T) {
	p := NewPovRay()
	got := p.WriteImageLight("env", scene.ImageLight{Image: "/data/studio.hdr"})
	if !strings.Contains(got, `hdr "/data/studio.hdr"`) {
		t.Errorf("image light should embed the full path:\n%s", got)
	}
}

func TestPovRayRenderNoExecutable(t *testing.T) {
	spawns := 0
	p := &PovRay{run: func(argv []string) error { spawns++; return nil }}

	out, err := p.Render(Prefs{}, Job{SceneFile: "scene.pov", Width: 800, Height: 600})
	if err == nil {
		t.Fatal("expected a configuration error for the missing executable")
	}
	if out != "" || spawns != 0 {
		t.Errorf("out = %q, spawns = %d; want empty and 0", out, spawns)
	}
}

func TestPovRayRenderFlagSubstitution(t *testing.T) {
	var captured []string
	p := &PovRay{run: func(argv []string) error { captured = argv; return nil }}

	prefs := Prefs{Path: "/usr/bin/povray", Args: "+W800 +H600 +A"}
	job := Job{SceneFile: "scene.pov", Width: 1024, Height: 768}
	out, err := p.Render(prefs, job)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	joined := strings.Join(captured, " ")
	if strings.Count(joined, "+W") != 1 || !strings.Contains(joined, "+W1024") {
		t.Errorf("+W flag not replaced in place: %s", joined)
	}
	if strings.Count(joined, "+H") != 1 || !strings.Contains(joined, "+H768") {
		t.Errorf("+H flag not replaced in place: %s", joined)
	}
	if !strings.Contains(joined, "+A") {
		t.Errorf("unrelated stored flags must survive: %s", joined)
	}
	// No output requested: none passed, default path returned.
	if strings.Contains(joined, "+O") {
		t.Errorf("+O must not be passed without a requested output: %s", joined)
	}
	if out != "scene.png" {
		t.Errorf("default output = %q, want scene.png", out)
	}
}

func TestPovRayRenderAppendsMissingFlags(t *testing.T) {
	var captured []string
	p := &PovRay{run: func(argv []string) error { captured = argv; return nil }}

	prefs := Prefs{Prefix: "nice -n 10", Path: "/usr/bin/povray", Args: "+A"}
	job := Job{SceneFile: "scene.pov", Output: "render.png", Width: 320, Height: 200}
	out, err := p.Render(prefs, job)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if out != "render.png" {
		t.Errorf("output = %q, want render.png", out)
	}

	joined := strings.Join(captured, " ")
	for _, want := range []string{"nice -n 10 /usr/bin/povray", "+W320", "+H200", "+Orender.png"} {
		if !strings.Contains(joined, want) {
			t.Errorf("command missing %q: %s", want, joined)
		}
	}
	if captured[len(captured)-1] != "scene.pov" {
		t.Errorf("scene file must come last: %s", joined)
	}
}
