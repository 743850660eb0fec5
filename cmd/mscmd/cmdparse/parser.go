package cmdparse

import (
	"fmt"
	"strings"
)

// parser carries what every parse frame shares: the macro table and the
// limits. The cursor and the output accumulator are local to each call of
// expand, so a frame never sees a sibling's state.
type parser struct {
	macros *MacroTable
	limits Limits
	strict bool
}

// expand returns the flat command sequence for lines, registering macro
// definitions as a side effect.
func (p *parser) expand(lines []ScriptLine, depth int) ([]string, error) {
	var out []string
	head := 0
	for head < len(lines) {
		line := lines[head]
		d, err := classify(line)
		if err != nil {
			return nil, err
		}

		switch d.kind {
		case dirRep:
			if p.limits.MaxRepeat > 0 && d.count > p.limits.MaxRepeat {
				return nil, parseError(line, ErrLimitExceeded, fmt.Sprintf("repeat count above %d", p.limits.MaxRepeat))
			}
			end, err := matchRepeat(lines, head)
			if err != nil {
				return nil, err
			}
			if err := p.enter(line, depth+1); err != nil {
				return nil, err
			}
			body, err := p.expand(lines[head+1:end], depth+1)
			if err != nil {
				return nil, err
			}
			if err := p.grow(line, len(out), len(body), d.count); err != nil {
				return nil, err
			}
			for i := 0; i < d.count; i++ {
				out = append(out, body...)
			}
			head = end + 1

		case dirMacro:
			end, err := matchMacro(lines, head)
			if err != nil {
				return nil, err
			}
			if _, exists := p.macros.Lookup(d.name); exists && p.strict {
				return nil, parseError(line, ErrDuplicateMacro, d.name)
			}
			if err := p.enter(line, depth+1); err != nil {
				return nil, err
			}
			body, err := p.expand(lines[head+1:end], depth+1)
			if err != nil {
				return nil, err
			}
			p.macros.Define(d.name, body, line.Num)
			head = end + 1

		case dirInsert:
			body, ok := p.macros.Lookup(d.name)
			if !ok {
				return nil, parseError(line, ErrUndefinedMacro, d.name)
			}
			if err := p.grow(line, len(out), len(body), 1); err != nil {
				return nil, err
			}
			out = append(out, body...)
			head++

		case dirEnd:
			return nil, parseError(line, ErrInvalidStartToken, "")

		default:
			if err := p.grow(line, len(out), 1, 1); err != nil {
				return nil, err
			}
			out = append(out, line.Text)
			head++
		}
	}
	return out, nil
}

// enter checks the nesting ceiling before a block body is parsed.
func (p *parser) enter(line ScriptLine, depth int) error {
	if p.limits.MaxDepth > 0 && depth > p.limits.MaxDepth {
		return parseError(line, ErrLimitExceeded, fmt.Sprintf("nesting deeper than %d", p.limits.MaxDepth))
	}
	return nil
}

// grow checks that appending times copies of n commands to a sequence of
// length have stays within the output ceiling.
func (p *parser) grow(line ScriptLine, have, n, times int) error {
	ceiling := p.limits.MaxOutput
	if ceiling <= 0 || n == 0 || times == 0 {
		return nil
	}
	if have > ceiling || times > (ceiling-have)/n {
		return parseError(line, ErrLimitExceeded, fmt.Sprintf("more than %d commands", ceiling))
	}
	return nil
}

// matchRepeat returns the index of the .endrep that closes the .rep at open.
// Any line beginning with ".rep" raises the balance; only an exact ".endrep"
// lowers it.
func matchRepeat(lines []ScriptLine, open int) (int, error) {
	balance := 1
	for i := open + 1; i < len(lines); i++ {
		s := lines[i].Text
		if strings.HasPrefix(s, repPrefix) {
			balance++
		} else if s == endRepToken {
			balance--
			if balance == 0 {
				return i, nil
			}
		}
	}
	return 0, parseError(lines[open], ErrUnmatchedRepeat, "")
}

// matchMacro returns the index of the first .endm after the .macro at open.
// Macros cannot nest: a line beginning with ".macro" before it is an error.
func matchMacro(lines []ScriptLine, open int) (int, error) {
	for i := open + 1; i < len(lines); i++ {
		s := lines[i].Text
		if s == endMacroToken {
			return i, nil
		}
		if strings.HasPrefix(s, macroPrefix) {
			return 0, parseError(lines[i], ErrNestedMacro, "inside "+lines[open].Text)
		}
	}
	return 0, parseError(lines[open], ErrUnterminatedMacro, "")
}
