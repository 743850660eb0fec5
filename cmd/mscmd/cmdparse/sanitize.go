package cmdparse

import (
	"strings"
)

// ScriptLine is a single sanitized line of a script.
// Num is the 1-based line number in the raw script text and is only used to
// point error reports back at the source.
type ScriptLine struct {
	Text string
	Num  int
}

// Sanitize turns raw script text into the ordered sequence of non-empty,
// trimmed, comment-free lines that the block parser consumes.
//
// Per line: substitution tokens are resolved first (see Substitutions.Apply),
// then everything from the first unescaped '#' is dropped, then surrounding
// whitespace is trimmed. Lines left empty are discarded.
//
// maxSubs bounds the number of token replacements per line; zero means no
// bound. A value that contains its own token never terminates without it.
func Sanitize(script string, subs Substitutions, maxSubs int) ([]ScriptLine, error) {
	raw := strings.Split(script, "\n")
	out := make([]ScriptLine, 0, len(raw))
	for i, text := range raw {
		num := i + 1
		text, err := subs.Apply(text, maxSubs)
		if err != nil {
			return nil, &ScriptError{
				Phase:  PhaseSanitize,
				Line:   ScriptLine{Text: strings.TrimSpace(raw[i]), Num: num},
				Err:    ErrLimitExceeded,
				Detail: err.Error(),
			}
		}
		text = strings.TrimSpace(stripComment(text))
		if text == "" {
			continue
		}
		out = append(out, ScriptLine{Text: text, Num: num})
	}
	return out, nil
}

// commentStart returns the index of the first unescaped '#' in s, or len(s).
func commentStart(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && s[i+1] == '#' {
			i++
			continue
		}
		if s[i] == '#' {
			return i
		}
	}
	return len(s)
}

// stripComment removes everything from the first unescaped '#' to the end of
// s. An escaped "\#" is kept as a literal '#'.
func stripComment(s string) string {
	if !strings.Contains(s, "#") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' && i+1 < len(s) && s[i+1] == '#' {
			b.WriteByte('#')
			i++
			continue
		}
		if c == '#' {
			break
		}
		b.WriteByte(c)
	}
	return b.String()
}
