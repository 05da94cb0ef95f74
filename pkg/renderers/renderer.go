// Package renderers contains the backend contract and the concrete SDL
// emitters for the supported offline renderers (Cycles standalone XML and
// POV-Ray). Every Write* function is a pure string producer: fragments are
// self-contained pieces of the backend's scene description language and
// concatenate in any order. The only emission side effect is a warning log
// when a material falls back.
package renderers

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/renderctl/internal/logger"
	"github.com/Faultbox/renderctl/pkg/math"
	"github.com/Faultbox/renderctl/pkg/scene"
)

// Renderer is the contract every backend implements.
type Renderer interface {
	Name() string

	// WriteObject emits a mesh with its material. Backends without
	// material support paint with the view color and alpha instead.
	WriteObject(name string, mesh *scene.Mesh, mat *scene.Material, color scene.Color, alpha float32) string
	WriteCamera(name string, pos scene.Placement, up, target math.Vec3, fov float32) string
	WritePointLight(name string, l scene.PointLight) string
	WriteAreaLight(name string, l scene.AreaLight) string
	WriteSunSkyLight(name string, l scene.SunSkyLight) string
	WriteImageLight(name string, l scene.ImageLight) string

	// Render invokes the external renderer on a previously exported scene
	// file and returns the output image path. The only error case is a
	// configuration problem (no executable path, unparsable parameters);
	// the process exit status is not inspected.
	Render(prefs Prefs, job Job) (string, error)
}

// Prefs carries the invocation preferences for one backend, resolved by the
// caller from its configuration. There is no process-global preference
// state: Render receives everything it needs here.
type Prefs struct {
	Prefix string // inserted before the executable, e.g. "optirun"
	Path   string // renderer executable
	Args   string // stored command-line parameter string
}

// Job describes one render request.
type Job struct {
	SceneFile string // exported scene document
	External  bool   // use the renderer's own UI instead of batch mode
	Output    string // requested output image; empty selects a default
	Width     int
	Height    int
}

var registry = map[string]Renderer{}

// Register adds a backend to the registry. Called from backend init.
func Register(r Renderer) {
	registry[strings.ToLower(r.Name())] = r
}

// ByName returns the registered backend with the given name,
// case-insensitively.
func ByName(name string) (Renderer, error) {
	r, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown renderer backend %q (have %s)",
			name, strings.Join(Names(), ", "))
	}
	return r, nil
}

// Names lists the registered backend names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for _, r := range registry {
		names = append(names, r.Name())
	}
	sort.Strings(names)
	return names
}

// warnFallback records a recoverable material degradation.
func warnFallback(backend, name string, shading scene.Shading) {
	logger.Warn("material unknown by renderer, using fallback material",
		zap.String("object", name),
		zap.String("shading", scene.ShadingName(shading)),
		zap.String("backend", backend))
}

// ftoa formats a float32 in its shortest form.
func ftoa(v float32) string {
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}

// indentLines prefixes every non-empty line of text.
func indentLines(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}

// expandPassthrough indents a raw passthrough fragment to the emission
// context and injects the entity name and default color. The fragment
// contents are not interpreted beyond the {name} and {color} placeholders.
func expandPassthrough(text, name string, color scene.Color, colorFmt func(scene.Color) string) string {
	out := indentLines(text, "    ")
	out = strings.ReplaceAll(out, "{name}", name)
	out = strings.ReplaceAll(out, "{color}", colorFmt(color))
	return out
}
