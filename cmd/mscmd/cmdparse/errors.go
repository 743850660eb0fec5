package cmdparse

import (
	"errors"
	"fmt"
)

var (
	ErrUnmatchedRepeat    = errors.New("unmatched .rep")
	ErrUnterminatedMacro  = errors.New("unterminated .macro")
	ErrNestedMacro        = errors.New("cannot nest .macro")
	ErrInvalidStartToken  = errors.New("invalid start token")
	ErrUndefinedMacro     = errors.New("undefined macro")
	ErrMalformedDirective = errors.New("malformed directive")
	ErrDuplicateMacro     = errors.New("macro already defined")
	ErrLimitExceeded      = errors.New("limit exceeded")
)

// Phases reported in ScriptError.
const (
	PhaseSanitize = "sanitize"
	PhaseParse    = "parse"
)

// ScriptError reports the first structural violation found in a script.
// Err is always one of the sentinel errors above, so callers can use
// errors.Is to branch on the kind.
type ScriptError struct {
	Phase  string
	Line   ScriptLine
	Err    error
	Detail string
}

func (e *ScriptError) Error() string {
	msg := fmt.Sprintf("phase=%s line=%d: %v", e.Phase, e.Line.Num, e.Err)
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	if e.Line.Text != "" {
		msg += ": " + e.Line.Text
	}
	return msg
}

func (e *ScriptError) Unwrap() error { return e.Err }

func parseError(line ScriptLine, kind error, detail string) error {
	return &ScriptError{Phase: PhaseParse, Line: line, Err: kind, Detail: detail}
}

// LineOf returns the source line an error points at, if it is a ScriptError.
func LineOf(err error) (ScriptLine, bool) {
	var se *ScriptError
	if errors.As(err, &se) {
		return se.Line, true
	}
	return ScriptLine{}, false
}
