package renderers

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/chewxy/math32"

	"github.com/Faultbox/renderctl/pkg/math"
	"github.com/Faultbox/renderctl/pkg/scene"
)

var (
	cyclesWidthRe  = regexp.MustCompile(`--width\s+\d+`)
	cyclesHeightRe = regexp.MustCompile(`--height\s+\d+`)
)

// Cycles emits the XML scene description of the standalone Cycles renderer.
type Cycles struct {
	run runner
}

// NewCycles returns a Cycles backend using real process execution.
func NewCycles() *Cycles {
	return &Cycles{run: systemRun}
}

func init() {
	Register(NewCycles())
}

// cyclesPowerScale converts light power to emission strength. Calibration
// constant for the standalone build's unit conventions, not a derived
// radiometric factor.
const cyclesPowerScale = 100

// Name implements Renderer.
func (*Cycles) Name() string { return "Cycles" }

// NeedsLocalAssets reports the standalone Cycles constraint that image
// files must sit in the same directory as the scene file. Only base names
// are embedded in the emitted document.
func (*Cycles) NeedsLocalAssets() bool { return true }

// cyVec formats a vector as Cycles' space-separated triple. Cycles uses
// the same coordinate convention as the scene model: identity permutation.
func cyVec(v math.Vec3) string {
	return ftoa(v.X) + " " + ftoa(v.Y) + " " + ftoa(v.Z)
}

// cyColor formats a color as a space-separated triple.
func cyColor(c scene.Color) string {
	return ftoa(c.R) + " " + ftoa(c.G) + " " + ftoa(c.B)
}

// cyColorSep formats a color as a comma-separated triple (bsdf nodes).
func cyColorSep(c scene.Color) string {
	return ftoa(c.R) + ", " + ftoa(c.G) + ", " + ftoa(c.B)
}

// WriteObject emits the material shader followed by a mesh state block.
// The view color and alpha are unused: Cycles objects are material-driven.
func (c *Cycles) WriteObject(name string, mesh *scene.Mesh, mat *scene.Material, color scene.Color, alpha float32) string {
	snippetMat := c.writeMaterial(name, mat, color)

	points := make([]string, 0, len(mesh.Vertices))
	for _, p := range mesh.Vertices {
		points = append(points, cyVec(p))
	}
	verts := make([]string, 0, len(mesh.Faces))
	nverts := make([]string, 0, len(mesh.Faces))
	for _, f := range mesh.Faces {
		verts = append(verts, fmt.Sprintf("%d %d %d", f[0], f[1], f[2]))
		nverts = append(nverts, "3")
	}

	snippetObj := `
    <state shader="%s">
        <mesh P="%s"
              nverts="%s"
              verts="%s"/>
    </state>
`
	return snippetMat + fmt.Sprintf(snippetObj,
		name,
		strings.Join(points, "  "),
		strings.Join(nverts, "  "),
		strings.Join(verts, "  "))
}

// WriteCamera emits a perspective camera. The rotation is encoded as
// axis-angle in degrees; the fixed "1 1 -1" scale inverts Z so the camera
// faces forward. Up and target are implicit in the rotation and unused.
func (c *Cycles) WriteCamera(name string, pos scene.Placement, up, target math.Vec3, fov float32) string {
	axis, angle := pos.Rotation.AxisAngle()

	snippet := `
    <!-- Camera '%s' -->
    <transform rotate="%s %s"
               translate="%s"
               scale="1 1 -1">
        <camera type="perspective"
                fov="%s"/>
    </transform>
`
	return fmt.Sprintf(snippet,
		name,
		ftoa(angle*180/math32.Pi), cyVec(axis),
		cyVec(pos.Position),
		ftoa(fov*math32.Pi/180))
}

// WritePointLight emits an emission shader plus a point light node. The
// power scale compensates the standalone build's unit conventions.
func (c *Cycles) WritePointLight(name string, l scene.PointLight) string {
	snippet := `
    <!-- Pointlight '%[1]s' -->
    <shader name="%[1]s_shader">
        <emission name="%[1]s_emit"
                  color="%[2]s"
                  strength="%[3]s"/>
        <connect from="%[1]s_emit emission"
                 to="output surface"/>
    </shader>
    <state shader="%[1]s_shader">
        <light type="point"
               co="%[4]s"
               strength="1 1 1"/>
    </state>
`
	return fmt.Sprintf(snippet,
		name,
		cyColor(l.Color),
		ftoa(l.Power*cyclesPowerScale),
		cyVec(l.Position))
}

// WriteAreaLight emits either an analytic area light (transparent) or an
// emissive quad mesh (opaque). Transparent lights use raw power; mesh
// lights divide power by the quad area, since their emission strength is
// per unit area.
func (c *Cycles) WriteAreaLight(name string, l scene.AreaLight) string {
	if l.Transparent {
		axisU := l.Placement.RotateVec(math.Vec3{X: 1})
		axisV := l.Placement.RotateVec(math.Vec3{Y: 1})
		direction := axisU.Cross(axisV)

		snippet := `
    <!-- Area light '%[1]s' (transparent) -->
    <shader name="%[1]s_shader">
        <emission name="%[1]s_emit"
                  color="%[2]s"
                  strength="%[3]s"/>
        <connect from="%[1]s_emit emission"
                 to="output surface"/>
    </shader>
    <state shader="%[1]s_shader">
        <light type="area"
               co="%[4]s"
               strength="1 1 1"
               axisu="%[5]s"
               axisv="%[6]s"
               sizeu="%[7]s"
               sizev="%[8]s"
               size="1"
               dir="%[9]s"
               use_mis="true"/>
    </state>
`
		return fmt.Sprintf(snippet,
			name,
			cyColor(l.Color),
			ftoa(l.Power*cyclesPowerScale),
			cyVec(l.Placement.Position),
			cyVec(axisU),
			cyVec(axisV),
			ftoa(l.SizeU),
			ftoa(l.SizeV),
			cyVec(direction))
	}

	// Opaque area light: a world-space quad centered on the light origin.
	corners := []math.Vec3{
		{X: -l.SizeU / 2, Y: -l.SizeV / 2},
		{X: +l.SizeU / 2, Y: -l.SizeV / 2},
		{X: +l.SizeU / 2, Y: +l.SizeV / 2},
		{X: -l.SizeU / 2, Y: +l.SizeV / 2},
	}
	points := make([]string, 0, len(corners))
	for _, corner := range corners {
		points = append(points, cyVec(l.Placement.Apply(corner)))
	}
	strength := l.Power / (l.SizeU * l.SizeV)

	snippet := `
    <!-- Area light '%[1]s' (opaque) -->
    <shader name="%[1]s_shader" use_mis="true">
        <emission name="%[1]s_emit"
                  color="%[2]s"
                  strength="%[3]s"/>
        <connect from="%[1]s_emit emission"
                 to="output surface"/>
    </shader>
    <state shader="%[1]s_shader">
        <mesh P="%[4]s"
              nverts="4"
              verts="0 1 2 3"
              use_mis="true"/>
    </state>
`
	return fmt.Sprintf(snippet,
		name,
		cyColor(l.Color),
		ftoa(strength*cyclesPowerScale),
		strings.Join(points, "  "))
}

// WriteSunSkyLight emits a nishita sky background driven by the sun
// elevation and azimuth derived from the direction vector.
func (c *Cycles) WriteSunSkyLight(name string, l scene.SunSkyLight) string {
	dir := l.Direction.Normalize()
	elevation := math32.Asin(dir.Z)
	azimuth := math32.Atan2(dir.X, dir.Y)

	snippet := `
    <!-- Sun_sky light '%[1]s' -->
    <background name="%[1]s_bg">
          <background name="%[1]s_bg" strength="0.3"/>
          <sky_texture name="%[1]s_tex"
                       sky_type="nishita_improved"
                       turbidity="%[2]s"
                       ground_albedo="%[3]s"
                       sun_disc="true"
                       sun_elevation="%[4]s"
                       sun_rotation="%[5]s"/>
          <connect from="%[1]s_tex color" to="%[1]s_bg color" />
          <connect from="%[1]s_bg background" to="output surface" />
    </background>
`
	return fmt.Sprintf(snippet,
		name,
		ftoa(l.Turbidity),
		ftoa(l.Albedo),
		ftoa(elevation),
		ftoa(azimuth))
}

// WriteImageLight emits an environment texture background. Cycles requires
// the image file to sit next to the scene file, so only the base name is
// embedded; see NeedsLocalAssets.
func (c *Cycles) WriteImageLight(name string, l scene.ImageLight) string {
	snippet := `
    <!-- Image-based light '%[1]s' -->
    <background>
          <background name="%[1]s_bg" />
          <environment_texture name="%[1]s_tex"
                               filename="%[2]s" />
          <connect from="%[1]s_tex color" to="%[1]s_bg color" />
          <connect from="%[1]s_bg background" to="output surface" />
    </background>
`
	return fmt.Sprintf(snippet, name, filepath.Base(l.Image))
}

// writeMaterial never fails: unknown or mistargeted shading models route to
// the fallback diffuse material with a warning.
func (c *Cycles) writeMaterial(name string, mat *scene.Material, viewColor scene.Color) string {
	if mat == nil {
		return c.fallbackMaterial(name, viewColor)
	}

	switch s := mat.Shading.(type) {
	case scene.Passthrough:
		if !strings.EqualFold(s.Renderer, c.Name()) {
			warnFallback(c.Name(), name, mat.Shading)
			return c.fallbackMaterial(name, mat.DefaultColor)
		}
		return expandPassthrough(s.Text, name, mat.DefaultColor.Safe(), cyColor)
	case scene.Glass:
		return c.glassMaterial(name, s)
	case scene.Disney:
		return c.disneyMaterial(name, s)
	case scene.Diffuse:
		return c.diffuseMaterial(name, s.Color)
	case scene.Mixed:
		return c.mixedMaterial(name, s)
	case nil:
		// No material card: paint with the declared default color.
		return c.fallbackMaterial(name, mat.DefaultColor)
	default:
		warnFallback(c.Name(), name, mat.Shading)
		return c.fallbackMaterial(name, mat.DefaultColor)
	}
}

func (c *Cycles) glassMaterial(name string, s scene.Glass) string {
	snippet := `
    <!-- Object '%[1]s' -->
    <shader name="%[1]s">
        <glass_bsdf name="%[1]s_bsdf" IOR="%[2]s" color="%[3]s"/>
        <connect from="%[1]s_bsdf bsdf" to="output surface"/>
    </shader>
`
	return fmt.Sprintf(snippet, name, ftoa(s.IOR), cyColorSep(s.Color))
}

func (c *Cycles) disneyMaterial(name string, s scene.Disney) string {
	snippet := `
    <!-- Object '%[1]s' -->
    <shader name="%[1]s">
        <principled_bsdf name="%[1]s_bsdf"
                         base_color="%[2]s"
                         subsurface="%[3]s"
                         metallic="%[4]s"
                         specular="%[5]s"
                         specular_tint="%[6]s"
                         roughness="%[7]s"
                         anisotropic="%[8]s"
                         sheen="%[9]s"
                         sheen_tint="%[10]s"
                         clearcoat="%[11]s"
                         clearcoat_roughness="%[12]s" />
        <connect from="%[1]s_bsdf bsdf" to="output surface"/>
    </shader>
`
	return fmt.Sprintf(snippet,
		name,
		cyColor(s.BaseColor),
		ftoa(s.Subsurface),
		ftoa(s.Metallic),
		ftoa(s.Specular),
		ftoa(s.SpecularTint),
		ftoa(s.Roughness),
		ftoa(s.Anisotropic),
		ftoa(s.Sheen),
		ftoa(s.SheenTint),
		ftoa(s.Clearcoat),
		ftoa(1-s.ClearcoatGloss))
}

func (c *Cycles) diffuseMaterial(name string, color scene.Color) string {
	snippet := `
    <!-- Object '%[1]s' -->
    <shader name="%[1]s">
        <diffuse_bsdf name="%[1]s_bsdf" color="%[2]s"/>
        <connect from="%[1]s_bsdf bsdf" to="output surface"/>
    </shader>
`
	return fmt.Sprintf(snippet, name, cyColorSep(color))
}

func (c *Cycles) mixedMaterial(name string, s scene.Mixed) string {
	snippet := `
    <!-- Object '%[1]s' -->
    <shader name="%[1]s">
        <glass_bsdf name="%[1]s_glass_bsdf"
                    IOR="%[2]s" color="%[3]s"/>
        <diffuse_bsdf name="%[1]s_diffuse_bsdf" color="%[4]s"/>
        <mix_closure name="%[1]s_closure" fac="%[5]s" />
        <connect from="%[1]s_diffuse_bsdf bsdf" to="%[1]s_closure closure1"/>
        <connect from="%[1]s_glass_bsdf bsdf" to="%[1]s_closure closure2"/>
        <connect from="%[1]s_closure closure" to="output surface"/>
    </shader>
`
	return fmt.Sprintf(snippet,
		name,
		ftoa(s.Glass.IOR),
		cyColorSep(s.Glass.Color),
		cyColorSep(s.Diffuse.Color),
		ftoa(s.Transparency))
}

// fallbackMaterial is a plain diffuse material with a validated color.
func (c *Cycles) fallbackMaterial(name string, color scene.Color) string {
	safe := color.Safe()
	snippet := `
    <!-- Object '%[1]s' - FALLBACK -->
    <shader name="%[1]s">
        <diffuse_bsdf name="%[1]s_bsdf" color="%[2]s"/>
        <connect from="%[1]s_bsdf bsdf" to="output surface"/>
    </shader>
`
	return fmt.Sprintf(snippet, name, cyColorSep(safe))
}

// Render builds the Cycles command line and fires the executable. Width,
// height and output flags already present in the stored parameter string
// are replaced in place rather than duplicated.
func (c *Cycles) Render(prefs Prefs, job Job) (string, error) {
	if prefs.Path == "" {
		return "", errNoExecutable(c.Name())
	}

	output := job.Output
	if output == "" {
		output = defaultOutput(job.SceneFile)
	}

	args := prefs.Args
	var extra []string

	if subst, ok := substituteFlag(args, cyclesWidthRe, fmt.Sprintf("--width %d", job.Width)); ok {
		args = subst
	} else {
		extra = append(extra, "--width", strconv.Itoa(job.Width))
	}
	if subst, ok := substituteFlag(args, cyclesHeightRe, fmt.Sprintf("--height %d", job.Height)); ok {
		args = subst
	} else {
		extra = append(extra, "--height", strconv.Itoa(job.Height))
	}
	extra = append(extra, "--output", output)
	if !job.External {
		extra = append(extra, "--background")
	}

	argv, err := buildArgv(prefs, args, extra, job.SceneFile)
	if err != nil {
		return "", err
	}
	launch(c.run, argv)

	return output, nil
}
