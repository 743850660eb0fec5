package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/calculuswhiz/musescore-utils/cmd/mscmd/cmdparse"
	"github.com/calculuswhiz/musescore-utils/cmd/mscmd/scriptyaml"

	"github.com/google/go-cmp/cmp"
)

func mustContain(t *testing.T, got string, subs ...string) {
	t.Helper()
	for _, sub := range subs {
		if !strings.Contains(got, sub) {
			t.Fatalf("expected %q to contain %q", got, sub)
		}
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSplitColon(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{"a:b", []string{"a", "b"}},
		{":a::b:", []string{"a", "b"}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, splitColon(tt.in)); diff != "" {
			t.Errorf("splitColon(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestResolveConfigDir(t *testing.T) {
	t.Setenv(envConfigDir, "/tmp/explicit")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got, _ := resolveConfigDir(); got != "/tmp/explicit" {
		t.Fatalf("expected $%s to win, got %s", envConfigDir, got)
	}
	t.Setenv(envConfigDir, "")
	if got, _ := resolveConfigDir(); got != filepath.Join("/tmp/xdg", appName) {
		t.Fatalf("expected XDG path, got %s", got)
	}
}

func TestLoadSettings(t *testing.T) {
	dir := t.TempDir()

	s, err := loadSettings(dir)
	if err != nil {
		t.Fatalf("missing file must not fail: %v", err)
	}
	if diff := cmp.Diff(defaultSettings(), s); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}

	writeFile(t, dir, settingsFile, `
strict_macros = true

[limits]
max_repeat = 10

[output]
format = "json"

[subs]
bars = 4
label = "x"
`)
	s, err = loadSettings(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.StrictMacros || s.Output.Format != formatJSON {
		t.Fatalf("unexpected settings: %+v", s)
	}
	if s.Limits.MaxRepeat != 10 || s.Limits.MaxDepth != 64 {
		t.Fatalf("file values must overlay defaults, got %+v", s.Limits)
	}
	subs := cmdparse.Substitutions(s.Subs)
	if subs.Lookup("bars") != "4" || subs.Lookup("label") != "x" {
		t.Fatalf("unexpected subs: %v", s.Subs)
	}

	opts := s.options()
	if !opts.StrictMacros || opts.Limits.MaxRepeat != 10 {
		t.Fatalf("unexpected options: %+v", opts)
	}
}

func TestLoadSettings_Errors(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		substr []string
	}{
		{"syntax", "strict_macros = ", []string{settingsFile}},
		{"bad token name", "[subs]\n\"my-token\" = 1\n", []string{"invalid token name", "my-token"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, settingsFile, tt.in)
			_, err := loadSettings(dir)
			if err == nil {
				t.Fatal("expected error")
			}
			mustContain(t, err.Error(), tt.substr...)
		})
	}
}

func TestGlobSources(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.yml", "- name: b\n  script: x\n")
	writeFile(t, dir, "a.mss", "x")
	writeFile(t, dir, "notes.md", "ignored")
	writeFile(t, dir, "sub/c.yml", "ignored")

	got, err := globSources(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{filepath.Join(dir, "a.mss"), filepath.Join(dir, "b.yml")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	got, err = globSources(filepath.Join(dir, "missing"))
	if err != nil || got != nil {
		t.Fatalf("missing dir must be skipped, got %v %v", got, err)
	}
}

func TestLoadCatalog(t *testing.T) {
	dir := t.TempDir()
	job := writeFile(t, dir, "jobs.yml", `
subs:
  bars: 2
scripts:
  - name: rests
    script: |
      .rep <bars>
      rest
      .endrep
`)
	plain := writeFile(t, dir, "fill.mss", "pad-note-4\n")

	cat, err := loadCatalog([]string{plain, job})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cat.Subs.Lookup("bars") != "2" {
		t.Fatalf("expected job subs in the catalog, got %v", cat.Subs)
	}
	if diff := cmp.Diff([]string{"rests", "fill"}, cat.Names()); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
	fill, _ := cat.Get("fill")
	if fill.Source != plain || fill.Script != "pad-note-4\n" {
		t.Fatalf("unexpected script file entry: %+v", fill)
	}

	_, err = loadCatalog([]string{job, job})
	if !errors.Is(err, scriptyaml.ErrDuplicateScript) {
		t.Fatalf("expected ErrDuplicateScript, got %v", err)
	}
	clash := writeFile(t, dir, "rests.txt", "rest\n")
	_, err = loadCatalog([]string{job, clash})
	if !errors.Is(err, scriptyaml.ErrDuplicateScript) {
		t.Fatalf("expected ErrDuplicateScript for a script file clashing with a job, got %v", err)
	}
	mustContain(t, err.Error(), job, clash)
	_, err = loadCatalog([]string{filepath.Join(dir, "missing.yml")})
	if err == nil {
		t.Fatal("expected read error")
	}
}

func TestLoadSubsFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.yml", "bars: 2\ndur: 4\n")
	b := writeFile(t, dir, "b.yml", "subs:\n  dur: 8\n")

	got, err := loadSubsFiles([]string{a, b})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(cmdparse.Substitutions{"bars": 2, "dur": 8}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSetFlags(t *testing.T) {
	got, err := parseSetFlags([]string{"bars=3", "name=pad", "bars=5", "empty="})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := cmdparse.Substitutions{"bars": 5, "name": "pad", "empty": ""}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	for _, bad := range []string{"bars", "9x=1", "=1"} {
		if _, err := parseSetFlags([]string{bad}); err == nil {
			t.Errorf("expected error for %q", bad)
		} else {
			mustContain(t, err.Error(), "--set")
		}
	}
}

func TestReadStdin(t *testing.T) {
	s, err := readStdin(strings.NewReader(".rep 2\nx\n.endrep\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Name != "stdin" || s.Source != "<stdin>" || !strings.HasPrefix(s.Script, ".rep 2") {
		t.Fatalf("unexpected script: %+v", s)
	}
}
