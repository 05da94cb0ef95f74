package renderers

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	shellwords "github.com/mattn/go-shellwords"
	"go.uber.org/zap"

	"github.com/Faultbox/renderctl/internal/logger"
)

// runner abstracts process execution so tests can intercept spawns.
type runner func(argv []string) error

// systemRun executes the command synchronously, wiring the renderer's
// output to ours.
func systemRun(argv []string) error {
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// errNoExecutable is the one hard failure of the export pipeline.
func errNoExecutable(backend string) error {
	return fmt.Errorf("unable to locate the %s executable: set the backend path in the renderctl config", backend)
}

// substituteFlag replaces an existing flag occurrence in a stored argument
// string. Reports whether a substitution happened; when it did not, the
// caller appends the flag as fresh tokens instead of editing the string.
func substituteFlag(args string, pattern *regexp.Regexp, repl string) (string, bool) {
	if pattern.MatchString(args) {
		return pattern.ReplaceAllString(args, repl), true
	}
	return args, false
}

// buildArgv tokenizes the prefix and stored argument strings and assembles
// the full command line: prefix, executable, stored args, extra tokens,
// scene file.
func buildArgv(prefs Prefs, args string, extra []string, sceneFile string) ([]string, error) {
	var argv []string

	if prefs.Prefix != "" {
		tokens, err := shellwords.Parse(prefs.Prefix)
		if err != nil {
			return nil, fmt.Errorf("parsing command prefix %q: %w", prefs.Prefix, err)
		}
		argv = append(argv, tokens...)
	}

	argv = append(argv, prefs.Path)

	if strings.TrimSpace(args) != "" {
		tokens, err := shellwords.Parse(args)
		if err != nil {
			return nil, fmt.Errorf("parsing renderer parameters %q: %w", args, err)
		}
		argv = append(argv, tokens...)
	}

	argv = append(argv, extra...)
	argv = append(argv, sceneFile)
	return argv, nil
}

// launch runs the renderer command. The exit status is deliberately not
// surfaced: the caller inspects the produced output file instead.
func launch(run runner, argv []string) {
	logger.Info("renderer command", zap.String("cmd", strings.Join(argv, " ")))
	if err := run(argv); err != nil {
		logger.Error("renderer execution failed", zap.Error(err))
	}
}

// defaultOutput derives the output image path from the scene file name.
func defaultOutput(sceneFile string) string {
	return strings.TrimSuffix(sceneFile, filepath.Ext(sceneFile)) + ".png"
}
