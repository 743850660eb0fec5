package cmdparse

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEngine_Expand_Macros(t *testing.T) {
	script := lines(
		"# header",
		".macro first",
		"a",
		".endm",
		".macro second",
		".rep 2",
		"b",
		".endrep",
		".endm",
		".macro first",
		"c",
		".endm",
	)
	exp, err := NewEngine(Options{}).Expand(script, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(exp.Commands) != 0 {
		t.Fatalf("macro bodies must not be emitted, got %v", exp.Commands)
	}
	if exp.Lines != 11 {
		t.Fatalf("expected 11 sanitized lines, got %d", exp.Lines)
	}
	if diff := cmp.Diff([]string{"first", "second"}, exp.Macros.Names()); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
	first, ok := exp.Macros.Get("first")
	if !ok {
		t.Fatal("expected macro first")
	}
	want := Macro{Name: "first", Commands: []string{"c"}, Line: 10, Redefined: 1}
	if diff := cmp.Diff(want, first); diff != "" {
		t.Errorf("macro mismatch (-want +got):\n%s", diff)
	}
	body, _ := exp.Macros.Lookup("second")
	if diff := cmp.Diff([]string{"b", "b"}, body); diff != "" {
		t.Errorf("body mismatch (-want +got):\n%s", diff)
	}
}

func TestEngine_StrictMacros(t *testing.T) {
	script := lines(".macro m", "a", ".endm", ".macro m", "b", ".endm")
	_, err := NewEngine(Options{StrictMacros: true}).Process(script, nil)
	if !errors.Is(err, ErrDuplicateMacro) {
		t.Fatalf("expected ErrDuplicateMacro, got %v", err)
	}
	mustContain(t, err.Error(), "line=4", "macro already defined")

	if _, err := NewEngine(Options{}).Process(script, nil); err != nil {
		t.Fatalf("default mode must allow redefinition: %v", err)
	}
}

func TestEngine_Limits(t *testing.T) {
	tests := []struct {
		name   string
		limits Limits
		script string
		substr string
	}{
		{
			"repeat count",
			Limits{MaxRepeat: 10},
			lines(".rep 11", "x", ".endrep"),
			"repeat count above 10",
		},
		{
			"depth",
			Limits{MaxDepth: 2},
			lines(".rep 1", ".rep 1", ".rep 1", "x", ".endrep", ".endrep", ".endrep"),
			"nesting deeper than 2",
		},
		{
			"output",
			Limits{MaxOutput: 100},
			lines(".rep 10", ".rep 11", "x", ".endrep", ".endrep"),
			"more than 100 commands",
		},
		{
			"output from insert",
			Limits{MaxOutput: 3},
			lines(".macro m", "a", "b", ".endm", ".insertm m", ".insertm m"),
			"more than 3 commands",
		},
		{
			"substitutions",
			Limits{MaxSubstitutions: 3},
			"<a><a><a><a>",
			"more than 3 substitutions",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEngine(Options{Limits: tt.limits}).Process(tt.script, nil)
			if !errors.Is(err, ErrLimitExceeded) {
				t.Fatalf("expected ErrLimitExceeded, got %v", err)
			}
			mustContain(t, err.Error(), tt.substr)
		})
	}
}

func TestEngine_LimitsDoNotChangeWellFormedOutput(t *testing.T) {
	script := lines(".rep 3", ".rep 2", "x", ".endrep", "y", ".endrep")
	want, err := Process(script, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	limited := NewEngine(Options{Limits: Limits{MaxRepeat: 3, MaxDepth: 2, MaxOutput: len(want), MaxSubstitutions: 1}})
	got, err := limited.Process(script, nil)
	if err != nil {
		t.Fatalf("unexpected error under limits: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestEngine_UnlimitedSubstitutions(t *testing.T) {
	got, err := NewEngine(Options{Limits: Limits{MaxSubstitutions: -1}}).Process("<a> <b>", Substitutions{"a": "x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"x 1"}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestEngine_ConcurrentCallsAreIndependent(t *testing.T) {
	eng := NewEngine(Options{})
	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			script := lines(".macro m", fmt.Sprintf("cmd-%d", i), ".endm", ".rep <n>", ".insertm m", ".endrep")
			got, err := eng.Process(script, Substitutions{"n": i%3 + 1})
			if err != nil {
				errs <- err
				return
			}
			if len(got) != i%3+1 || got[0] != fmt.Sprintf("cmd-%d", i) {
				errs <- fmt.Errorf("call %d: unexpected output %v", i, got)
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
