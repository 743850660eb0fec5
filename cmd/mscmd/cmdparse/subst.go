package cmdparse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// DefaultValue is what a substitution token resolves to when the map has no
// entry for it.
const DefaultValue = "1"

// tokenRe matches a substitution token: <identifier>
var tokenRe = regexp.MustCompile(`<([A-Za-z_][A-Za-z0-9_]*)>`)

// identRe matches a whole macro or token name.
var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Substitutions maps token identifiers to replacement values.
// Values may be strings or numbers; anything else is rendered with fmt.
// A nil map is valid and resolves every token to DefaultValue.
type Substitutions map[string]any

// IsIdentifier reports whether s is a valid token or macro name.
func IsIdentifier(s string) bool {
	return identRe.MatchString(s)
}

// Lookup returns the replacement text for name. Absent keys and nil values
// resolve to DefaultValue. Explicit values, including 0 and "", are kept.
func (s Substitutions) Lookup(name string) string {
	v, ok := s[name]
	if !ok || v == nil {
		return DefaultValue
	}
	return formatValue(v)
}

// Has reports whether name has an explicit entry.
func (s Substitutions) Has(name string) bool {
	v, ok := s[name]
	return ok && v != nil
}

// Apply resolves every substitution token in line.
//
// The first token is replaced, then the line is searched again from the
// start, so a value that itself contains a token is resolved as well. limit
// caps the number of replacements; zero means unlimited.
func (s Substitutions) Apply(line string, limit int) (string, error) {
	for n := 0; ; n++ {
		loc := tokenRe.FindStringSubmatchIndex(line)
		if loc == nil {
			return line, nil
		}
		if limit > 0 && n >= limit {
			return "", fmt.Errorf("more than %d substitutions on one line", limit)
		}
		line = line[:loc[0]] + s.Lookup(line[loc[2]:loc[3]]) + line[loc[1]:]
	}
}

// Merge returns a new map holding the entries of s overlaid with each of
// others in order; later maps win.
func (s Substitutions) Merge(others ...Substitutions) Substitutions {
	out := make(Substitutions, len(s))
	for k, v := range s {
		out[k] = v
	}
	for _, o := range others {
		for k, v := range o {
			out[k] = v
		}
	}
	return out
}

// ParseAssignment parses a "name=value" pair as given on a command line.
// Values that look like integers are stored as int so they print the same way
// a numeric YAML value would.
func ParseAssignment(kv string) (string, any, error) {
	name, value, ok := strings.Cut(kv, "=")
	if !ok {
		return "", nil, fmt.Errorf("expected name=value, got %q", kv)
	}
	name = strings.TrimSpace(name)
	if !IsIdentifier(name) {
		return "", nil, fmt.Errorf("invalid token name %q", name)
	}
	if n, err := strconv.Atoi(value); err == nil {
		return name, n, nil
	}
	return name, value, nil
}

// Tokens returns the identifiers of all substitution tokens referenced in
// script, in order of first appearance. Tokens inside comments are ignored.
func Tokens(script string) []string {
	return TokensWith(script, nil)
}

// TokensWith is Tokens with the lookups Sanitize would make under subs: a
// value that contains tokens adds them too, and a value that contains '#'
// hides the tokens after it. Replacement stops at DefaultMaxSubstitutions
// per line.
func TokensWith(script string, subs Substitutions) []string {
	seen := map[string]struct{}{}
	var names []string
	for _, line := range strings.Split(script, "\n") {
		for n := 0; n < DefaultMaxSubstitutions; n++ {
			loc := tokenRe.FindStringSubmatchIndex(line)
			if loc == nil {
				break
			}
			name := line[loc[2]:loc[3]]
			if _, dup := seen[name]; !dup && loc[0] < commentStart(line) {
				seen[name] = struct{}{}
				names = append(names, name)
			}
			line = line[:loc[0]] + subs.Lookup(name) + line[loc[1]:]
		}
	}
	return names
}

func formatValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(x)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
