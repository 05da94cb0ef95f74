// Package exporter assembles backend SDL fragments into a complete scene
// document, stages assets next to it, and drives the render invocation.
// Backends only produce self-contained fragments; document ownership lives
// here.
package exporter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/renderctl/internal/logger"
	"github.com/Faultbox/renderctl/pkg/renderers"
	"github.com/Faultbox/renderctl/pkg/scene"
)

// localAssets is implemented by backends that embed bare file names and
// expect assets to sit next to the scene file.
type localAssets interface {
	NeedsLocalAssets() bool
}

// Export concatenates the scene's fragments into one document. Fragment
// order is camera, objects, lights; every fragment is self-contained, so
// the order is a presentation choice, not a correctness requirement.
func Export(rdr renderers.Renderer, sc *scene.Scene) string {
	var b strings.Builder

	if sc.Camera != nil {
		cam := sc.Camera
		b.WriteString(rdr.WriteCamera("Camera", cam.Placement, cam.Up, cam.Target, cam.FOV))
	}

	for _, obj := range sc.Objects {
		b.WriteString(rdr.WriteObject(obj.Name, obj.Mesh, obj.Material, obj.Color, obj.Alpha))
	}

	for _, named := range sc.Lights {
		switch l := named.Light.(type) {
		case scene.PointLight:
			b.WriteString(rdr.WritePointLight(named.Name, l))
		case scene.AreaLight:
			b.WriteString(rdr.WriteAreaLight(named.Name, l))
		case scene.SunSkyLight:
			b.WriteString(rdr.WriteSunSkyLight(named.Name, l))
		case scene.ImageLight:
			b.WriteString(rdr.WriteImageLight(named.Name, l))
		default:
			logger.Warn("skipping light of unknown kind",
				zap.String("light", named.Name),
				zap.String("kind", scene.LightKind(named.Light)))
		}
	}

	return b.String()
}

// ExportFile writes the scene document to path. For backends that embed
// bare asset names, image-light files are copied next to the scene file
// first.
func ExportFile(rdr renderers.Renderer, sc *scene.Scene, path string) error {
	if la, ok := rdr.(localAssets); ok && la.NeedsLocalAssets() {
		if err := stageAssets(sc, filepath.Dir(path)); err != nil {
			return err
		}
	}

	doc := Export(rdr, sc)
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		return fmt.Errorf("writing scene document: %w", err)
	}
	logger.Info("scene document written",
		zap.String("backend", rdr.Name()),
		zap.String("path", path))
	return nil
}

// Run exports the scene to job.SceneFile and invokes the renderer.
func Run(rdr renderers.Renderer, sc *scene.Scene, prefs renderers.Prefs, job renderers.Job) (string, error) {
	if err := ExportFile(rdr, sc, job.SceneFile); err != nil {
		return "", err
	}
	return rdr.Render(prefs, job)
}

// SceneFileName returns the conventional scene file name for a backend.
func SceneFileName(rdr renderers.Renderer, base string) string {
	ext := ".sdl"
	switch strings.ToLower(rdr.Name()) {
	case "cycles":
		ext = ".xml"
	case "povray":
		ext = ".pov"
	}
	return base + ext
}

// stageAssets copies every image-light file into dir.
func stageAssets(sc *scene.Scene, dir string) error {
	for _, named := range sc.Lights {
		l, ok := named.Light.(scene.ImageLight)
		if !ok {
			continue
		}
		dst := filepath.Join(dir, filepath.Base(l.Image))
		if sameFile(l.Image, dst) {
			continue
		}
		if err := copyFile(l.Image, dst); err != nil {
			return fmt.Errorf("staging image for light %s: %w", named.Name, err)
		}
		logger.Info("image light asset staged",
			zap.String("light", named.Name),
			zap.String("path", dst))
	}
	return nil
}

func sameFile(a, b string) bool {
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
