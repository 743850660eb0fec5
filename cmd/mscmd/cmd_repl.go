package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/calculuswhiz/musescore-utils/cmd/mscmd/cmdparse"
	"github.com/calculuswhiz/musescore-utils/cmd/mscmd/scriptyaml"
	"github.com/calculuswhiz/musescore-utils/pkg/lib"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
)

const replHelp = `Lines that do not start with ':' are appended to the script buffer.
  :run            expand the buffer and print the commands
  :macros         expand the buffer and list its macros
  :show           print the buffer with line numbers
  :undo           drop the last buffered line
  :clear          empty the buffer
  :load <name>    replace the buffer with a named script or file
  :set name=value set a substitution value
  :unset name     drop a value given with :set or --set
  :subs           print the substitution values
  :help           print this help
  :quit           leave (also Ctrl-D)`

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Write and expand a script interactively",
	Long:  "Start an interactive session that buffers script lines and expands them on demand.\n\n" + replHelp,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := load()
		if err != nil {
			return err
		}
		return runRepl(e)
	},
}

func runRepl(e *env) error {
	cfg := &readline.Config{
		Prompt:          replPrompt(0),
		InterruptPrompt: "^C",
		EOFPrompt:       ":quit",
		AutoComplete: readline.NewPrefixCompleter(
			readline.PcItem(":run"),
			readline.PcItem(":macros"),
			readline.PcItem(":show"),
			readline.PcItem(":undo"),
			readline.PcItem(":clear"),
			readline.PcItem(":load", readline.PcItemDynamic(func(string) []string { return e.catalog.Names() })),
			readline.PcItem(":set"),
			readline.PcItem(":unset"),
			readline.PcItem(":subs"),
			readline.PcItem(":help"),
			readline.PcItem(":quit"),
			readline.PcItem(".rep"),
			readline.PcItem(".endrep"),
			readline.PcItem(".macro"),
			readline.PcItem(".endm"),
			readline.PcItem(".insertm"),
		),
	}
	if dir, err := resolveConfigDir(); err == nil {
		if err := os.MkdirAll(dir, 0o755); err == nil {
			cfg.HistoryFile = filepath.Join(dir, "repl_history")
		}
	}
	rl, err := readline.NewEx(cfg)
	if err != nil {
		return fmt.Errorf("starting repl: %w", err)
	}
	defer rl.Close()

	r := newReplSession(e, rl.Stdout())
	fmt.Fprintln(rl.Stdout(), "type :help for commands, Ctrl-D to quit")
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		quit, err := r.handle(line)
		if err != nil {
			lib.PrintError(rl.Stderr(), err)
		}
		if quit {
			return nil
		}
		rl.SetPrompt(replPrompt(r.openBlocks()))
	}
}

func replPrompt(open int) string {
	if open > 0 {
		return strings.Repeat(".", open*2) + "> "
	}
	return appName + "> "
}

// replSession is the state of one interactive session: the buffered script
// and the substitution values set so far.
type replSession struct {
	env    *env
	out    io.Writer
	buffer []string
	// base holds the values of the last loaded script's layers; set holds
	// command-line values and those given with :set, which win.
	base cmdparse.Substitutions
	set  cmdparse.Substitutions
}

func newReplSession(e *env, out io.Writer) *replSession {
	return &replSession{
		env:  e,
		out:  out,
		base: cmdparse.Substitutions(e.settings.Subs).Merge(e.catalog.Subs),
		set:  e.cliSubs.Merge(),
	}
}

func (r *replSession) subs() cmdparse.Substitutions {
	return r.base.Merge(r.set)
}

func (r *replSession) script() scriptyaml.NamedScript {
	return scriptyaml.NamedScript{
		Name:   "repl",
		Script: strings.Join(r.buffer, "\n"),
		Source: "<repl>",
	}
}

// handle processes one input line. It reports whether the session should end.
func (r *replSession) handle(line string) (bool, error) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, ":") {
		r.buffer = append(r.buffer, line)
		return false, nil
	}

	cmd, arg, _ := strings.Cut(trimmed, " ")
	arg = strings.TrimSpace(arg)
	switch cmd {
	case ":q", ":quit", ":exit":
		return true, nil
	case ":help":
		fmt.Fprintln(r.out, replHelp)
	case ":run":
		exp, err := r.env.expand(r.script(), r.subs())
		if err != nil {
			return false, err
		}
		return false, emit(r.out, formatText, r.script(), exp)
	case ":macros":
		exp, err := r.env.expand(r.script(), r.subs())
		if err != nil {
			return false, err
		}
		printMacros(r.out, exp.Macros, arg == "--show")
	case ":show":
		if len(r.buffer) == 0 {
			fmt.Fprintln(r.out, "buffer is empty")
			return false, nil
		}
		fmt.Fprintln(r.out, excerpt(strings.Join(r.buffer, "\n"), 0, len(r.buffer)))
	case ":undo":
		if len(r.buffer) == 0 {
			return false, errors.New("buffer is empty")
		}
		r.buffer = r.buffer[:len(r.buffer)-1]
	case ":clear":
		r.buffer = nil
	case ":load":
		if arg == "" {
			return false, errors.New(":load needs a script name or file")
		}
		s, err := r.env.resolveScript(arg)
		if err != nil {
			return false, err
		}
		r.buffer = strings.Split(strings.TrimRight(s.Script, "\n"), "\n")
		r.base = cmdparse.Substitutions(r.env.settings.Subs).Merge(r.env.catalog.SubsFor(s))
		fmt.Fprintf(r.out, "loaded %s (%d lines)\n", s.Name, len(r.buffer))
	case ":set":
		name, v, err := cmdparse.ParseAssignment(arg)
		if err != nil {
			return false, err
		}
		r.set[name] = v
	case ":unset":
		delete(r.set, arg)
	case ":subs":
		r.printSubs()
	default:
		return false, fmt.Errorf("unknown command %s (try :help)", cmd)
	}
	return false, nil
}

func (r *replSession) printSubs() {
	subs := r.subs()
	if len(subs) == 0 {
		fmt.Fprintln(r.out, "no substitution values")
		return
	}
	names := make([]string, 0, len(subs))
	for k := range subs {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		fmt.Fprintf(r.out, "%s = %s\n", k, subs.Lookup(k))
	}
}

// openBlocks counts .rep and .macro blocks in the buffer still waiting for
// their end directive.
func (r *replSession) openBlocks() int {
	open := 0
	for _, line := range r.buffer {
		switch t := strings.TrimSpace(line); {
		case strings.HasPrefix(t, ".rep "), strings.HasPrefix(t, ".macro "):
			open++
		case t == ".endrep", t == ".endm":
			if open > 0 {
				open--
			}
		}
	}
	return open
}
