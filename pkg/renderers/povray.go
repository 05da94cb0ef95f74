package renderers

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Faultbox/renderctl/pkg/math"
	"github.com/Faultbox/renderctl/pkg/scene"
)

// PovRay emits the POV-Ray scene description language.
//
// POV-Ray's coordinate system permutes Y and Z relative to the scene
// model, so every vector goes through povVec before interpolation.
type PovRay struct {
	run runner
}

// NewPovRay returns a POV-Ray backend using real process execution.
func NewPovRay() *PovRay {
	return &PovRay{run: systemRun}
}

func init() {
	Register(NewPovRay())
}

// povCameraAngle is the fixed camera field of view. POV-Ray exposes an
// angle per camera, but the upstream camera model does not carry one for
// this backend.
const povCameraAngle = 45

// Dimensions of the point-source array an area light is approximated by.
const (
	povAreaLightDimU = 20
	povAreaLightDimV = 20
)

var (
	povWidthRe  = regexp.MustCompile(`\+W[0-9]+`)
	povHeightRe = regexp.MustCompile(`\+H[0-9]+`)
)

// Name implements Renderer.
func (*PovRay) Name() string { return "PovRay" }

// povVec formats a vector with Y and Z swapped.
func povVec(v math.Vec3) string {
	return "<" + ftoa(v.X) + "," + ftoa(v.Z) + "," + ftoa(v.Y) + ">"
}

// povColor formats a color triple.
func povColor(c scene.Color) string {
	return "<" + ftoa(c.R) + "," + ftoa(c.G) + "," + ftoa(c.B) + ">"
}

// WriteObject emits a mesh2 declaration followed by an instance carrying
// the object's pigment. Normals are computed when the mesh has none.
func (p *PovRay) WriteObject(name string, mesh *scene.Mesh, mat *scene.Material, color scene.Color, alpha float32) string {
	vrts := make([]string, 0, len(mesh.Vertices))
	for _, v := range mesh.Vertices {
		vrts = append(vrts, povVec(v))
	}
	nrms := make([]string, 0, len(mesh.Vertices))
	for _, n := range mesh.PointNormals() {
		nrms = append(nrms, povVec(n))
	}
	inds := make([]string, 0, len(mesh.Faces))
	for _, f := range mesh.Faces {
		inds = append(inds, fmt.Sprintf("<%d,%d,%d>", f[0], f[1], f[2]))
	}

	snippet := `
// Declares object '%[1]s'
#ifndef (StdFinish)
#declare StdFinish = finish { ambient 0.1 diffuse 0.9 phong 0.3 };
#end
#declare %[1]s = mesh2 {
    vertex_vectors {
        %[2]d,
        %[3]s
    }
    normal_vectors {
        %[4]d,
        %[5]s
    }
    face_indices {
        %[6]d,
        %[7]s
    }
}  // %[1]s

// Instance to render %[1]s
object { %[1]s
    texture {
%[8]s
        finish {StdFinish}
    }
}  // %[1]s
`
	return fmt.Sprintf(snippet,
		name,
		len(vrts),
		strings.Join(vrts, "\n        "),
		len(nrms),
		strings.Join(nrms, "\n        "),
		len(inds),
		strings.Join(inds, "\n        "),
		p.writePigment(name, mat, color, alpha))
}

// writePigment never fails: shading models POV-Ray cannot express route to
// the fallback diffuse pigment with a warning. Supported models are
// Diffuse and Passthrough.
func (p *PovRay) writePigment(name string, mat *scene.Material, viewColor scene.Color, alpha float32) string {
	if mat == nil {
		return p.viewColorPigment(viewColor, alpha)
	}

	switch s := mat.Shading.(type) {
	case scene.Diffuse:
		return fmt.Sprintf("        pigment {\n            color rgb %s\n        }", povColor(s.Color.Safe()))
	case scene.Passthrough:
		if !strings.EqualFold(s.Renderer, p.Name()) {
			warnFallback(p.Name(), name, mat.Shading)
			return p.fallbackPigment(mat.DefaultColor)
		}
		return expandPassthrough(s.Text, name, mat.DefaultColor.Safe(), povColor)
	case nil:
		// No material card: paint with the declared default color.
		return p.fallbackPigment(mat.DefaultColor)
	default:
		warnFallback(p.Name(), name, mat.Shading)
		return p.fallbackPigment(mat.DefaultColor)
	}
}

// viewColorPigment paints with the CAD view color; alpha below one becomes
// a filter amount.
func (p *PovRay) viewColorPigment(color scene.Color, alpha float32) string {
	safe := color.Safe()
	if alpha < 1 {
		return fmt.Sprintf("        pigment {\n            color rgbf <%s,%s,%s,%s>\n        }",
			ftoa(safe.R), ftoa(safe.G), ftoa(safe.B), ftoa(1-alpha))
	}
	return fmt.Sprintf("        pigment {\n            color rgb %s\n        }", povColor(safe))
}

// fallbackPigment is a plain diffuse pigment with a validated color.
func (p *PovRay) fallbackPigment(color scene.Color) string {
	return fmt.Sprintf("        pigment {\n            color rgb %s\n        }", povColor(color.Safe()))
}

// WriteCamera emits a location/look_at/sky camera with the fixed angle.
func (p *PovRay) WriteCamera(name string, pos scene.Placement, up, target math.Vec3, fov float32) string {
	snippet := `
// Declares camera '%s'
#declare cam_location = %s;
#declare cam_look_at  = %s;
#declare cam_sky      = %s;
#declare cam_angle    = %d;
camera {
    location  cam_location
    look_at   cam_look_at
    sky       cam_sky
    angle     cam_angle
    right     x*800/600
}
`
	return fmt.Sprintf(snippet,
		name,
		povVec(pos.Position),
		povVec(target),
		povVec(up),
		povCameraAngle)
}

// WritePointLight emits a light_source. Power is of no use here: POV-Ray
// light intensity is carried by the RGB channels.
func (p *PovRay) WritePointLight(name string, l scene.PointLight) string {
	snippet := `
// Declares point light %s
light_source {
    %s
    color rgb %s
}
`
	return fmt.Sprintf(snippet, name, povVec(l.Position), povColor(l.Color))
}

// WriteAreaLight emits an area_light, which POV-Ray models as an array of
// point sources spanning the two rotated size axes.
func (p *PovRay) WriteAreaLight(name string, l scene.AreaLight) string {
	axis1 := l.Placement.RotateVec(math.Vec3{X: l.SizeU})
	axis2 := l.Placement.RotateVec(math.Vec3{Y: l.SizeV})

	snippet := `
// Declares area light %s
light_source {
    %s
    color rgb %s
    area_light %s, %s, %d, %d
    adaptive 1
    jitter
}
`
	return fmt.Sprintf(snippet,
		name,
		povVec(l.Placement.Position),
		povColor(l.Color),
		povVec(axis1),
		povVec(axis2),
		povAreaLightDimU,
		povAreaLightDimV)
}

// WriteSunSkyLight approximates sun and sky. POV-Ray has no physical sky
// model, so this is a static vertical-gradient sky sphere plus one white
// parallel light placed along the sun direction and pointed at the origin.
// Works better for a sun high in the sky.
func (p *PovRay) WriteSunSkyLight(name string, l scene.SunSkyLight) string {
	location := l.Direction.Normalize().Scale(l.Distance)

	snippet := `
// Declares sunsky light %s
// sky ------------------------------------
sky_sphere{
    pigment{ gradient y
       color_map{
           [0.0 color rgb<1,1,1> ]
           [0.8 color rgb<0.18,0.28,0.75>]
           [1.0 color rgb<0.75,0.75,0.75>]}
           scale 2
           translate -1
    } // end pigment
} // end sky_sphere
// sun -----------------------------------
global_settings { ambient_light rgb<1, 1, 1> }
light_source {
    %s
    color rgb <1,1,1>
    parallel
    point_at <0,0,0>
    adaptive 1
}
`
	return fmt.Sprintf(snippet, name, povVec(location))
}

// WriteImageLight wraps an HDR environment image into a sky sphere.
// POV-Ray reads the image wherever it lives; the full path is embedded.
func (p *PovRay) WriteImageLight(name string, l scene.ImageLight) string {
	snippet := `
// Declares image-based light %s
// hdr environment -----------------------
sky_sphere{
    matrix < -1, 0, 0,
              0, 1, 0,
              0, 0, 1,
              0, 0, 0 >
    pigment{
        image_map{ hdr "%s"
                   gamma 1
                   map_type 1 interpolate 2}
    } // end pigment
} // end sphere with hdr image
`
	return fmt.Sprintf(snippet, name, l.Image)
}

// Render builds the POV-Ray command line and fires the executable. +W and
// +H flags already present in the stored parameter string are replaced in
// place rather than duplicated; +O is added only when an output path was
// requested.
func (p *PovRay) Render(prefs Prefs, job Job) (string, error) {
	if prefs.Path == "" {
		return "", errNoExecutable(p.Name())
	}

	args := prefs.Args
	var extra []string

	if subst, ok := substituteFlag(args, povWidthRe, fmt.Sprintf("+W%d", job.Width)); ok {
		args = subst
	} else {
		extra = append(extra, fmt.Sprintf("+W%d", job.Width))
	}
	if subst, ok := substituteFlag(args, povHeightRe, fmt.Sprintf("+H%d", job.Height)); ok {
		args = subst
	} else {
		extra = append(extra, fmt.Sprintf("+H%d", job.Height))
	}
	if job.Output != "" {
		extra = append(extra, "+O"+job.Output)
	}

	argv, err := buildArgv(prefs, args, extra, job.SceneFile)
	if err != nil {
		return "", err
	}
	launch(p.run, argv)

	if job.Output != "" {
		return job.Output, nil
	}
	return defaultOutput(job.SceneFile), nil
}
