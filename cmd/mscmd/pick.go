package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/calculuswhiz/musescore-utils/cmd/mscmd/scriptyaml"

	"github.com/ktr0731/go-fuzzyfinder"
)

// pickScript lets the user choose a named script interactively in the
// terminal and returns its name.
func pickScript(cat *scriptyaml.Catalog) (string, error) {
	scripts := cat.Scripts()
	if len(scripts) == 0 {
		return "", errors.New("no named scripts to pick from")
	}
	idx, err := fuzzyfinder.Find(
		scripts,
		func(i int) string {
			return scripts[i].Name
		},
		fuzzyfinder.WithPromptString("Select script: "),
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i < 0 {
				return ""
			}
			return scriptPreview(scripts[i], h)
		}),
	)
	if errors.Is(err, fuzzyfinder.ErrAbort) {
		return "", errors.New("no script selected")
	}
	if err != nil {
		return "", err
	}
	return scripts[idx].Name, nil
}

// scriptPreview renders the header and first lines of s, at most height lines.
func scriptPreview(s scriptyaml.NamedScript, height int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  (%s)\n", s.Name, s.Source)
	if s.Description != "" {
		fmt.Fprintf(&b, "%s\n", s.Description)
	}
	b.WriteString("\n")
	used := strings.Count(b.String(), "\n")
	for _, line := range strings.Split(strings.TrimRight(s.Script, "\n"), "\n") {
		if height > 0 && used >= height {
			break
		}
		b.WriteString(line + "\n")
		used++
	}
	return b.String()
}
