package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/calculuswhiz/musescore-utils/cmd/mscmd/cmdparse"
	"github.com/calculuswhiz/musescore-utils/cmd/mscmd/scriptyaml"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

func testExpansion(t *testing.T) (scriptyaml.NamedScript, *cmdparse.Expansion) {
	t.Helper()
	s := scriptyaml.NamedScript{
		Name:   "demo",
		Source: "demo.mss",
		Script: ".macro m\nx\n.endm\n.rep 2\n.insertm m\n.endrep\nescape",
	}
	exp, err := cmdparse.NewEngine(cmdparse.Options{}).Expand(s.Script, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return s, exp
}

func TestEmit_Text(t *testing.T) {
	s, exp := testExpansion(t)
	for _, format := range []string{"", formatText} {
		var buf bytes.Buffer
		if err := emit(&buf, format, s, exp); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := buf.String(); got != "x\nx\nescape\n" {
			t.Fatalf("format %q: unexpected output %q", format, got)
		}
	}
}

func TestEmit_Structured(t *testing.T) {
	s, exp := testExpansion(t)
	want := report{
		Script:   "demo",
		Source:   "demo.mss",
		Count:    3,
		Commands: []string{"x", "x", "escape"},
		Macros:   []macroReport{{Name: "m", Line: 1, Length: 1}},
	}

	decoders := map[string]func([]byte, any) error{
		formatJSON: json.Unmarshal,
		formatYAML: yaml.Unmarshal,
	}
	for format, decode := range decoders {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			if err := emit(&buf, format, s, exp); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			var got report
			if err := decode(buf.Bytes(), &got); err != nil {
				t.Fatalf("decoding %s: %v\n%s", format, err, buf.String())
			}
			if _, err := uuid.Parse(got.ID); err != nil {
				t.Fatalf("expected a uuid id, got %q", got.ID)
			}
			if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(report{}, "ID")); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEmit_UnknownFormat(t *testing.T) {
	s, exp := testExpansion(t)
	err := emit(&bytes.Buffer{}, "xml", s, exp)
	if err == nil {
		t.Fatal("expected error")
	}
	mustContain(t, err.Error(), `"xml"`, formatText, formatJSON, formatYAML)
}

func TestWriteOutput(t *testing.T) {
	s, exp := testExpansion(t)
	path := filepath.Join(t.TempDir(), "scores.txt")

	if err := writeOutput(path, formatText, s, exp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "x\nx\nescape\n" {
		t.Fatalf("unexpected file content %q", data)
	}
}

func TestWriteOutput_BadFormatKeepsFile(t *testing.T) {
	s, exp := testExpansion(t)
	dir := t.TempDir()
	existing := writeFile(t, dir, "scores.txt", "keep me\n")

	err := writeOutput(existing, "xml", s, exp)
	if err == nil {
		t.Fatal("expected error")
	}
	mustContain(t, err.Error(), "unknown output format")
	data, _ := os.ReadFile(existing)
	if string(data) != "keep me\n" {
		t.Fatalf("existing file must be untouched, got %q", data)
	}

	missing := filepath.Join(dir, "new.txt")
	if err := writeOutput(missing, "xml", s, exp); err == nil {
		t.Fatal("expected error")
	}
	if _, err := os.Stat(missing); !os.IsNotExist(err) {
		t.Fatalf("no file must be created for a bad format, stat: %v", err)
	}
}

func TestNewReport_IDsDiffer(t *testing.T) {
	s, exp := testExpansion(t)
	if newReport(s, exp).ID == newReport(s, exp).ID {
		t.Fatal("expected a fresh id per report")
	}
}
