package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/calculuswhiz/musescore-utils/cmd/mscmd/cmdparse"
	"github.com/calculuswhiz/musescore-utils/cmd/mscmd/scriptyaml"

	"github.com/charmbracelet/huh"
)

// missingTokens returns the tokens of script that subs gives no value,
// in order of first appearance, including tokens reached through values.
func missingTokens(script string, subs cmdparse.Substitutions) []string {
	var out []string
	for _, name := range cmdparse.TokensWith(script, subs) {
		if !subs.Has(name) {
			out = append(out, name)
		}
	}
	return out
}

// askMissing prompts for every token of s without a value. Answers left
// blank keep the default of 1.
func askMissing(s scriptyaml.NamedScript, subs cmdparse.Substitutions) (cmdparse.Substitutions, error) {
	missing := missingTokens(s.Script, subs)
	if len(missing) == 0 {
		return subs, nil
	}

	answers := make([]string, len(missing))
	fields := make([]huh.Field, len(missing))
	for i, name := range missing {
		fields[i] = huh.NewInput().
			Title("<" + name + ">").
			Placeholder(cmdparse.DefaultValue).
			Value(&answers[i]).
			Validate(func(v string) error {
				if strings.ContainsAny(v, "\r\n") {
					return errors.New("value must be a single line")
				}
				return nil
			})
	}
	form := huh.NewForm(
		huh.NewGroup(fields...).
			Title(s.Name).
			Description("Values for tokens without one (blank keeps " + cmdparse.DefaultValue + ")"),
	)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil, errors.New("prompt cancelled")
		}
		return nil, fmt.Errorf("prompt: %w", err)
	}
	return applyAnswers(subs, missing, answers)
}

// applyAnswers overlays the non-blank answers on subs.
func applyAnswers(subs cmdparse.Substitutions, names, answers []string) (cmdparse.Substitutions, error) {
	out := subs.Merge()
	for i, name := range names {
		if strings.TrimSpace(answers[i]) == "" {
			continue
		}
		_, v, err := cmdparse.ParseAssignment(name + "=" + answers[i])
		if err != nil {
			return nil, err
		}
		out[name] = v
	}
	return out, nil
}
