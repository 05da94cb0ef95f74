package renderers

import (
	"reflect"
	"regexp"
	"testing"
)

func TestSubstituteFlag(t *testing.T) {
	re := regexp.MustCompile(`\+W[0-9]+`)

	got, ok := substituteFlag("+W800 +H600", re, "+W1024")
	if !ok || got != "+W1024 +H600" {
		t.Errorf("substituteFlag() = %q, %v; want replacement", got, ok)
	}

	got, ok = substituteFlag("+A", re, "+W1024")
	if ok || got != "+A" {
		t.Errorf("substituteFlag() = %q, %v; want untouched, false", got, ok)
	}
}

func TestBuildArgv(t *testing.T) {
	prefs := Prefs{Prefix: "nice -n 10", Path: "/usr/bin/povray"}
	argv, err := buildArgv(prefs, `+A "+Iinput file"`, []string{"+W100"}, "scene.pov")
	if err != nil {
		t.Fatalf("buildArgv() error: %v", err)
	}
	want := []string{"nice", "-n", "10", "/usr/bin/povray", "+A", "+Iinput file", "+W100", "scene.pov"}
	if !reflect.DeepEqual(argv, want) {
		t.Errorf("buildArgv() = %v, want %v", argv, want)
	}
}

func TestBuildArgvEmptyArgs(t *testing.T) {
	argv, err := buildArgv(Prefs{Path: "/opt/cycles"}, "  ", nil, "scene.xml")
	if err != nil {
		t.Fatalf("buildArgv() error: %v", err)
	}
	want := []string{"/opt/cycles", "scene.xml"}
	if !reflect.DeepEqual(argv, want) {
		t.Errorf("buildArgv() = %v, want %v", argv, want)
	}
}

func TestBuildArgvBadQuoting(t *testing.T) {
	_, err := buildArgv(Prefs{Path: "/opt/cycles"}, `--set "unterminated`, nil, "scene.xml")
	if err == nil {
		t.Error("expected an error for an unparsable parameter string")
	}
}

func TestDefaultOutput(t *testing.T) {
	cases := map[string]string{
		"scene.pov":        "scene.png",
		"/tmp/a/b.xml":     "/tmp/a/b.png",
		"noextension":      "noextension.png",
		"dir.v2/scene.xml": "dir.v2/scene.png",
	}
	for in, want := range cases {
		if got := defaultOutput(in); got != want {
			t.Errorf("defaultOutput(%q) = %q, want %q", in, got, want)
		}
	}
}
