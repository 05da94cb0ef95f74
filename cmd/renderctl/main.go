// renderctl exports CAD scene files to offline renderer SDL and invokes
// the renderer executable.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Faultbox/renderctl/internal/config"
	"github.com/Faultbox/renderctl/internal/exporter"
	"github.com/Faultbox/renderctl/internal/logger"
	"github.com/Faultbox/renderctl/pkg/renderers"
	"github.com/Faultbox/renderctl/pkg/scene"
)

func main() {
	flag.Usage = printUsage
	flag.Parse()

	if flag.NArg() < 1 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	command := flag.Arg(0)
	args := flag.Args()[1:]

	switch command {
	case "export":
		cmdExport(cfg, args)
	case "render":
		cmdRender(cfg, args)
	case "backends":
		cmdBackends()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`renderctl - CAD scene export to offline renderers

Usage:
  renderctl [options] <command> [command options]

Commands:
  export <scene.yaml>   Write the backend SDL document (stdout or -o file)
  render <scene.yaml>   Export and invoke the renderer executable
  backends              List available renderer backends

Options:
  -config path          Config file (default: renderctl.yaml, then user config dir)
  -width n, -height n   Output image size in pixels
  -debug                Enable debug logging
  -log-file path        Write logs to file

Examples:
  renderctl export -backend povray scene.yaml
  renderctl export -backend cycles -o scene.xml scene.yaml
  renderctl -width 1920 -height 1080 render -backend povray -o out.png scene.yaml`)
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

func loadInputs(backend, path string) (renderers.Renderer, *scene.Scene) {
	rdr, err := renderers.ByName(backend)
	if err != nil {
		fail("%v", err)
	}
	sc, err := scene.LoadFile(path)
	if err != nil {
		fail("%v", err)
	}
	return rdr, sc
}

func cmdExport(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	backend := fs.String("backend", "Cycles", "Renderer backend")
	out := fs.String("o", "", "Output SDL file (default stdout)")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fail("usage: renderctl export [-backend name] [-o file] <scene.yaml>")
	}

	rdr, sc := loadInputs(*backend, fs.Arg(0))

	if *out == "" {
		fmt.Print(exporter.Export(rdr, sc))
		return
	}
	if err := exporter.ExportFile(rdr, sc, *out); err != nil {
		fail("%v", err)
	}
}

func cmdRender(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	backend := fs.String("backend", "Cycles", "Renderer backend")
	out := fs.String("o", "", "Output image file")
	external := fs.Bool("external", false, "Open the renderer's own UI instead of batch mode")
	keep := fs.String("workdir", "", "Directory for the exported scene file (default: temporary)")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fail("usage: renderctl render [-backend name] [-o image] <scene.yaml>")
	}

	rdr, sc := loadInputs(*backend, fs.Arg(0))

	prefs, err := cfg.BackendPrefs(rdr.Name())
	if err != nil {
		fail("%v", err)
	}

	dir := *keep
	if dir == "" {
		dir, err = os.MkdirTemp("", "renderctl-")
		if err != nil {
			fail("creating work directory: %v", err)
		}
	}

	base := sc.Name
	if base == "" {
		base = strings.TrimSuffix(filepath.Base(fs.Arg(0)), filepath.Ext(fs.Arg(0)))
	}

	job := renderers.Job{
		SceneFile: filepath.Join(dir, exporter.SceneFileName(rdr, base)),
		External:  *external,
		Output:    *out,
		Width:     cfg.Output.Width,
		Height:    cfg.Output.Height,
	}

	outPath, err := exporter.Run(rdr, sc, prefs, job)
	if err != nil {
		fail("%v", err)
	}
	fmt.Println(outPath)
}

func cmdBackends() {
	for _, name := range renderers.Names() {
		fmt.Println(name)
	}
}
