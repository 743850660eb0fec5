package cmdparse

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	repPrefix     = ".rep"
	macroPrefix   = ".macro"
	insertPrefix  = ".insertm"
	endRepToken   = ".endrep"
	endMacroToken = ".endm"
)

var (
	repRe    = regexp.MustCompile(`^\.rep (\d+)$`)
	macroRe  = regexp.MustCompile(`^\.macro ([A-Za-z_][A-Za-z0-9_]*)$`)
	insertRe = regexp.MustCompile(`^\.insertm ([A-Za-z_][A-Za-z0-9_]*)$`)
)

type directiveKind int

const (
	dirCommand directiveKind = iota
	dirRep
	dirMacro
	dirInsert
	dirEnd
)

type directive struct {
	kind  directiveKind
	count int    // dirRep
	name  string // dirMacro, dirInsert
}

// classify decides what a sanitized line is, checking in fixed priority:
// .rep, .macro, .insertm, a bare closing token, then opaque command.
//
// Only a directive keyword followed by a space opens a block, so ".repeat"
// or ".macros" stay opaque commands. A keyword and space followed by an
// argument that does not fit the grammar is an error rather than a command.
func classify(line ScriptLine) (directive, error) {
	s := line.Text
	switch {
	case strings.HasPrefix(s, repPrefix+" "):
		m := repRe.FindStringSubmatch(s)
		if m == nil {
			return directive{}, parseError(line, ErrMalformedDirective, "expected .rep <count>")
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return directive{}, parseError(line, ErrMalformedDirective, "repeat count out of range")
		}
		return directive{kind: dirRep, count: n}, nil

	case strings.HasPrefix(s, macroPrefix+" "):
		m := macroRe.FindStringSubmatch(s)
		if m == nil {
			return directive{}, parseError(line, ErrMalformedDirective, "expected .macro <name>")
		}
		return directive{kind: dirMacro, name: m[1]}, nil

	case strings.HasPrefix(s, insertPrefix+" "):
		m := insertRe.FindStringSubmatch(s)
		if m == nil {
			return directive{}, parseError(line, ErrMalformedDirective, "expected .insertm <name>")
		}
		return directive{kind: dirInsert, name: m[1]}, nil

	case s == endRepToken || s == endMacroToken:
		return directive{kind: dirEnd}, nil
	}
	return directive{kind: dirCommand}, nil
}
