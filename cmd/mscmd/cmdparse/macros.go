package cmdparse

// MacroTable holds the macros defined during one expansion.
// It is created empty per call and shared by pointer with every nested
// parse frame, so a macro defined inside a .rep block is visible afterwards
// anywhere in the same script.
type MacroTable struct {
	macros map[string]Macro
	order  []string
}

// Macro is a stored, already expanded macro body.
type Macro struct {
	Name     string
	Commands []string
	// Line is the source line of the .macro directive that last defined it.
	Line int
	// Redefined counts how many earlier definitions this one replaced.
	Redefined int
}

// NewMacroTable returns an empty MacroTable.
func NewMacroTable() *MacroTable {
	return &MacroTable{
		macros: make(map[string]Macro),
	}
}

// Define stores body under name, replacing any earlier definition.
// It reports whether an earlier definition existed.
func (t *MacroTable) Define(name string, body []string, line int) bool {
	prev, exists := t.macros[name]
	m := Macro{Name: name, Commands: body, Line: line}
	if exists {
		m.Redefined = prev.Redefined + 1
	} else {
		t.order = append(t.order, name)
	}
	t.macros[name] = m
	return exists
}

// Lookup returns the expanded commands stored for name.
func (t *MacroTable) Lookup(name string) ([]string, bool) {
	m, ok := t.macros[name]
	return m.Commands, ok
}

// Get returns the full macro entry for name.
func (t *MacroTable) Get(name string) (Macro, bool) {
	m, ok := t.macros[name]
	return m, ok
}

// Names returns macro names in order of first definition.
func (t *MacroTable) Names() []string {
	return append([]string(nil), t.order...)
}

// Len returns the number of distinct macro names defined.
func (t *MacroTable) Len() int {
	return len(t.macros)
}
