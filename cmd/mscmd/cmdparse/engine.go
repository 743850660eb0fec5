package cmdparse

// DefaultMaxSubstitutions bounds token replacements per line unless Limits
// says otherwise.
const DefaultMaxSubstitutions = 4096

// Limits are optional ceilings on the work one expansion may do.
// Zero means unlimited. Scripts that stay under the ceilings expand exactly
// as they would without them.
type Limits struct {
	MaxRepeat        int // largest accepted .rep count
	MaxDepth         int // deepest .rep/.macro nesting
	MaxOutput        int // longest command sequence built at any level
	MaxSubstitutions int // token replacements per line; <0 disables the default
}

// Options configures an Engine.
type Options struct {
	Limits Limits

	// StrictMacros rejects a second .macro with an already used name instead
	// of letting it overwrite the first.
	StrictMacros bool
}

// Expansion is the result of expanding one script.
type Expansion struct {
	Commands []string
	Macros   *MacroTable
	// Lines is the number of sanitized lines the parser consumed.
	Lines int
}

// Engine expands scripts with a fixed set of Options. It holds no per-call
// state and is safe for concurrent use.
type Engine struct {
	opts Options
}

// NewEngine returns an Engine configured by opts.
func NewEngine(opts Options) *Engine {
	return &Engine{opts: opts}
}

// Expand sanitizes script with subs and expands it. The macro table in the
// result belongs to this call only.
func (e *Engine) Expand(script string, subs Substitutions) (*Expansion, error) {
	lines, err := Sanitize(script, subs, e.maxSubstitutions())
	if err != nil {
		return nil, err
	}

	p := &parser{
		macros: NewMacroTable(),
		limits: e.opts.Limits,
		strict: e.opts.StrictMacros,
	}
	cmds, err := p.expand(lines, 0)
	if err != nil {
		return nil, err
	}
	if cmds == nil {
		cmds = []string{}
	}

	return &Expansion{Commands: cmds, Macros: p.macros, Lines: len(lines)}, nil
}

// Process returns the flat command sequence for script.
func (e *Engine) Process(script string, subs Substitutions) ([]string, error) {
	exp, err := e.Expand(script, subs)
	if err != nil {
		return nil, err
	}
	return exp.Commands, nil
}

func (e *Engine) maxSubstitutions() int {
	switch n := e.opts.Limits.MaxSubstitutions; {
	case n < 0:
		return 0
	case n == 0:
		return DefaultMaxSubstitutions
	default:
		return n
	}
}

// Process expands script with default options.
func Process(script string, subs Substitutions) ([]string, error) {
	return NewEngine(Options{}).Process(script, subs)
}
