package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/calculuswhiz/musescore-utils/cmd/mscmd/cmdparse"
	"github.com/calculuswhiz/musescore-utils/cmd/mscmd/scriptyaml"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"
)

func TestRenderSource(t *testing.T) {
	got := renderSource(strings.Repeat("x\n", 10))
	lines := strings.Split(got, "\n")
	if len(lines) != 10 {
		t.Fatalf("expected 10 lines, got %d", len(lines))
	}
	if lines[0] != " 1  x" || lines[9] != "10  x" {
		t.Fatalf("unexpected numbering %q ... %q", lines[0], lines[9])
	}
}

func TestRenderExpansion(t *testing.T) {
	exp, err := cmdparse.NewEngine(cmdparse.Options{}).Expand(".rep 2\nrest\n.endrep", nil)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff("1  rest\n2  rest", renderExpansion(exp, nil)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	empty, _ := cmdparse.NewEngine(cmdparse.Options{}).Expand("# nothing", nil)
	if got := renderExpansion(empty, nil); got != "(no commands)" {
		t.Fatalf("unexpected %q", got)
	}
	mustContain(t, renderExpansion(nil, errors.New("boom")), "boom")
}

func TestPreviewModel(t *testing.T) {
	loads := 0
	reload := func() previewResult {
		loads++
		s := scriptyaml.NamedScript{Name: "demo", Source: "demo.mss", Script: "rest"}
		exp, err := cmdparse.NewEngine(cmdparse.Options{}).Expand(s.Script, nil)
		return previewResult{script: s, exp: exp, err: err}
	}

	var m tea.Model = newPreviewModel(reload)
	if got := m.View(); got != "loading..." {
		t.Fatalf("expected loading view before the first resize, got %q", got)
	}

	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	view := m.View()
	mustContain(t, view, "demo  (demo.mss)  1 commands, 0 macros", "1  rest", "[r] reload")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.(previewModel).focus != 1 {
		t.Fatal("tab must move focus to the output pane")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	if loads != 2 {
		t.Fatalf("expected a reload, got %d loads", loads)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q must quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("q must return tea.Quit")
	}
}

func TestPreviewTitle(t *testing.T) {
	if got := previewTitle(previewResult{}); got != appName+" preview" {
		t.Fatalf("unexpected %q", got)
	}
	s := scriptyaml.NamedScript{Name: "x", Source: "x.mss"}
	if got := previewTitle(previewResult{script: s, err: errors.New("bad")}); got != "x  (x.mss)" {
		t.Fatalf("unexpected %q", got)
	}
}

func TestFilterHosts(t *testing.T) {
	all := []hostInfo{
		{Pid: 1, Name: "systemd"},
		{Pid: 20, Name: "mscore4portable"},
		{Pid: 30, Name: "MuseScore4.exe"},
		{Pid: 40, Name: "bash", Cmdline: "bash -c mscore"},
	}
	got := filterHosts(all)
	if diff := cmp.Diff([]hostInfo{all[1], all[2]}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	var buf bytes.Buffer
	printHosts(&buf, got)
	mustContain(t, buf.String(), "PID", "20       mscore4portable")
	buf.Reset()
	printHosts(&buf, nil)
	mustContain(t, buf.String(), "no MuseScore processes found")
}

func TestPrintScripts(t *testing.T) {
	var buf bytes.Buffer
	printScripts(&buf, []scriptyaml.NamedScript{
		{Name: "a", Source: "jobs.yml", Description: "first"},
		{Name: "longer", Source: "x.mss"},
	})
	want := "a       [jobs.yml]  first\nlonger  [x.mss]\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	buf.Reset()
	printScripts(&buf, nil)
	mustContain(t, buf.String(), "no scripts found")
}

func TestPrintTokens(t *testing.T) {
	var buf bytes.Buffer
	layers := []subsLayer{
		{"job", cmdparse.Substitutions{"bars": 2}},
		{"flags", cmdparse.Substitutions{"dur": 16}},
	}
	printTokens(&buf, []string{"bars", "dur", "voice"}, layers)
	want := "<bars>   2   [job]\n<dur>    16  [flags]\n<voice>  1   [default]\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}
