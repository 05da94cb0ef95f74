package renderers

import (
	"strings"
	"testing"

	"github.com/Faultbox/renderctl/pkg/math"
	"github.com/Faultbox/renderctl/pkg/scene"
)

func TestByName(t *testing.T) {
	for _, name := range []string{"Cycles", "cycles", "POVRAY", "PovRay"} {
		if _, err := ByName(name); err != nil {
			t.Errorf("ByName(%q) error: %v", name, err)
		}
	}
	if _, err := ByName("luxrender"); err == nil {
		t.Error("expected an error for an unregistered backend")
	}
}

func TestNames(t *testing.T) {
	names := Names()
	if len(names) != 2 || names[0] != "Cycles" || names[1] != "PovRay" {
		t.Errorf("Names() = %v, want [Cycles PovRay]", names)
	}
}

// A minimal scene must produce exactly one material/shader declaration,
// one camera and one light per backend, all referencing the entity names
// consistently, with fragments that concatenate in any order.
func TestMinimalSceneRoundTrip(t *testing.T) {
	mesh := triangleMesh()
	mat := &scene.Material{
		Shading:      scene.Diffuse{Color: scene.Color{R: 0.8, G: 0.2, B: 0.2}},
		DefaultColor: scene.Color{R: 0.8, G: 0.2, B: 0.2},
	}
	camPos := scene.IdentityPlacement()
	camPos.Position = math.Vec3{X: 0, Y: -10, Z: 3}
	light := scene.PointLight{Position: math.Vec3{X: 2, Y: 2, Z: 5}, Color: scene.Color{R: 1, G: 1, B: 1}, Power: 60}

	t.Run("Cycles", func(t *testing.T) {
		c := NewCycles()
		doc := c.WriteObject("tri", mesh, mat, scene.Color{}, 1) +
			c.WriteCamera("cam", camPos, math.Vec3{X: 0, Y: 0, Z: 1}, math.Vec3{}, 45) +
			c.WritePointLight("lamp", light)

		if n := strings.Count(doc, `<shader name="tri">`); n != 1 {
			t.Errorf("object shader declared %d times, want 1", n)
		}
		if n := strings.Count(doc, "<camera "); n != 1 {
			t.Errorf("camera declared %d times, want 1", n)
		}
		if n := strings.Count(doc, "<light "); n != 1 {
			t.Errorf("light declared %d times, want 1", n)
		}
		// The mesh state references the shader declared for it.
		if !strings.Contains(doc, `<state shader="tri">`) {
			t.Error("mesh state does not reference the object shader")
		}
		if !strings.Contains(doc, `<state shader="lamp_shader">`) {
			t.Error("light state does not reference the light shader")
		}
	})

	t.Run("PovRay", func(t *testing.T) {
		p := NewPovRay()
		doc := p.WriteObject("tri", mesh, mat, scene.Color{}, 1) +
			p.WriteCamera("cam", camPos, math.Vec3{X: 0, Y: 0, Z: 1}, math.Vec3{}, 45) +
			p.WritePointLight("lamp", light)

		if n := strings.Count(doc, "#declare tri = mesh2 {"); n != 1 {
			t.Errorf("mesh declared %d times, want 1", n)
		}
		if n := strings.Count(doc, "camera {"); n != 1 {
			t.Errorf("camera declared %d times, want 1", n)
		}
		if n := strings.Count(doc, "light_source {"); n != 1 {
			t.Errorf("light declared %d times, want 1", n)
		}
		if n := strings.Count(doc, "object { tri"); n != 1 {
			t.Errorf("object instance declared %d times, want 1", n)
		}
		// Balanced braces: fragments must be syntactically closed.
		if strings.Count(doc, "{") != strings.Count(doc, "}") {
			t.Error("unbalanced braces in concatenated document")
		}
	})
}

func TestIndentLines(t *testing.T) {
	got := indentLines("a\n\nb\n", "  ")
	want := "  a\n\n  b\n"
	if got != want {
		t.Errorf("indentLines() = %q, want %q", got, want)
	}
}

func TestExpandPassthrough(t *testing.T) {
	got := expandPassthrough("shader {name} color {color}", "obj",
		scene.Color{R: 1, G: 0, B: 0}, cyColor)
	want := "    shader obj color 1 0 0"
	if got != want {
		t.Errorf("expandPassthrough() = %q, want %q", got, want)
	}
}
