package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/calculuswhiz/musescore-utils/cmd/mscmd/cmdparse"
	"github.com/calculuswhiz/musescore-utils/cmd/mscmd/scriptyaml"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// report is the structured form of an expansion written by --format json|yaml.
type report struct {
	ID       string        `json:"id" yaml:"id"`
	Script   string        `json:"script" yaml:"script"`
	Source   string        `json:"source" yaml:"source"`
	Count    int           `json:"count" yaml:"count"`
	Commands []string      `json:"commands" yaml:"commands"`
	Macros   []macroReport `json:"macros,omitempty" yaml:"macros,omitempty"`
}

type macroReport struct {
	Name      string `json:"name" yaml:"name"`
	Line      int    `json:"line" yaml:"line"`
	Length    int    `json:"length" yaml:"length"`
	Redefined int    `json:"redefined,omitempty" yaml:"redefined,omitempty"`
}

func newReport(s scriptyaml.NamedScript, exp *cmdparse.Expansion) report {
	r := report{
		ID:       uuid.NewString(),
		Script:   s.Name,
		Source:   s.Source,
		Count:    len(exp.Commands),
		Commands: exp.Commands,
	}
	for _, name := range exp.Macros.Names() {
		m, _ := exp.Macros.Get(name)
		r.Macros = append(r.Macros, macroReport{
			Name:      m.Name,
			Line:      m.Line,
			Length:    len(m.Commands),
			Redefined: m.Redefined,
		})
	}
	return r
}

// validFormat rejects output formats emit cannot write.
func validFormat(format string) error {
	switch format {
	case "", formatText, formatJSON, formatYAML:
		return nil
	}
	return fmt.Errorf("unknown output format %q (want %s, %s or %s)", format, formatText, formatJSON, formatYAML)
}

// emit writes the expansion of s to w in the given format.
// The text format is one command per line, ready to paste into MuseScore.
func emit(w io.Writer, format string, s scriptyaml.NamedScript, exp *cmdparse.Expansion) error {
	if err := validFormat(format); err != nil {
		return err
	}
	switch format {
	case "", formatText:
		for _, c := range exp.Commands {
			if _, err := fmt.Fprintln(w, c); err != nil {
				return err
			}
		}
		return nil
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(newReport(s, exp))
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(newReport(s, exp)); err != nil {
			return err
		}
		return enc.Close()
	}
	return nil
}

// writeOutput emits the expansion of s to the file at path, or to stdout
// when path is empty. The format is checked before the file is created, so
// an existing file survives a bad format.
func writeOutput(path, format string, s scriptyaml.NamedScript, exp *cmdparse.Expansion) error {
	if err := validFormat(format); err != nil {
		return err
	}
	if path == "" {
		return emit(os.Stdout, format, s, exp)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := emit(f, format, s, exp); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
