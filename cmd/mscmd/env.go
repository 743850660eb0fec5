package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/calculuswhiz/musescore-utils/cmd/mscmd/cmdparse"
	"github.com/calculuswhiz/musescore-utils/cmd/mscmd/scriptyaml"
	"github.com/calculuswhiz/musescore-utils/pkg/lib"
)

// env is everything a command needs after flags are parsed: settings,
// the script catalog and the substitution layers given on the command line.
type env struct {
	settings Settings
	catalog  *scriptyaml.Catalog
	// cliSubs are --subs-file values overlaid with --set values.
	cliSubs cmdparse.Substitutions
	log     *lib.Logger
}

// load reads settings, job/script files and substitution files.
func load() (*env, error) {
	configDir, err := resolveConfigDir()
	if err != nil {
		return nil, err
	}
	settings, err := loadSettings(configDir)
	if err != nil {
		return nil, err
	}
	if flagStrict {
		settings.StrictMacros = true
	}
	logger.Debugf("config dir %s", configDir)

	files, err := resolveSourceFiles(configDir, flagFiles)
	if err != nil {
		return nil, err
	}
	logger.Debugf("loading %d script files", len(files))
	cat, err := loadCatalog(files)
	if err != nil {
		return nil, err
	}

	fileSubs, err := loadSubsFiles(resolveSubsFiles(flagSubsFiles))
	if err != nil {
		return nil, err
	}
	setSubs, err := parseSetFlags(flagSet)
	if err != nil {
		return nil, err
	}

	return &env{
		settings: settings,
		catalog:  cat,
		cliSubs:  fileSubs.Merge(setSubs),
		log:      logger,
	}, nil
}

func (e *env) engine() *cmdparse.Engine {
	return cmdparse.NewEngine(e.settings.options())
}

// subsLayer is one named source of substitution values.
type subsLayer struct {
	name string
	subs cmdparse.Substitutions
}

// subsLayers lists the substitution sources for s, lowest priority first:
// config.toml, job documents, the script's own subs, then files and --set.
func (e *env) subsLayers(s scriptyaml.NamedScript) []subsLayer {
	return []subsLayer{
		{"config", cmdparse.Substitutions(e.settings.Subs)},
		{"job", e.catalog.Subs},
		{"script", s.Subs},
		{"flags", e.cliSubs},
	}
}

func (e *env) subsFor(s scriptyaml.NamedScript) cmdparse.Substitutions {
	return cmdparse.Substitutions(e.settings.Subs).Merge(e.catalog.SubsFor(s, e.cliSubs))
}

// originOf returns the name of the layer that supplies token name, or
// "default" when none does.
func originOf(layers []subsLayer, name string) string {
	origin := "default"
	for _, l := range layers {
		v, ok := l.subs[name]
		switch {
		case ok && v == nil:
			origin = "default"
		case ok:
			origin = l.name
		}
	}
	return origin
}

// resolveScript finds the script an argument names: "-" for stdin, a
// catalog name, or a path to a script file.
func (e *env) resolveScript(arg string) (scriptyaml.NamedScript, error) {
	if arg == "-" {
		return readStdin(os.Stdin)
	}
	if s, ok := e.catalog.Get(arg); ok {
		return s, nil
	}
	data, err := os.ReadFile(arg)
	if err == nil {
		return scriptFromFile(arg, data), nil
	}
	if !os.IsNotExist(err) {
		return scriptyaml.NamedScript{}, fmt.Errorf("script file %s: %w", arg, err)
	}
	return scriptyaml.NamedScript{}, notFoundError(arg, e.catalog)
}

// expand runs the preprocessor on s and turns a script failure into an
// error that quotes the offending source lines.
func (e *env) expand(s scriptyaml.NamedScript, subs cmdparse.Substitutions) (*cmdparse.Expansion, error) {
	exp, err := e.engine().Expand(s.Script, subs)
	if err != nil {
		return nil, scriptFailure(s, err)
	}
	for _, name := range exp.Macros.Names() {
		if m, _ := exp.Macros.Get(name); m.Redefined > 0 {
			e.log.Warnf("%s: macro %q defined %d times; line %d wins", s.Name, name, m.Redefined+1, m.Line)
		}
	}
	e.log.Debugf("%s: %d lines -> %d commands, %d macros", s.Name, exp.Lines, len(exp.Commands), exp.Macros.Len())
	return exp, nil
}

// notFoundError reports which script was not found and lists valid alternatives.
func notFoundError(arg string, cat *scriptyaml.Catalog) error {
	names := cat.Names()
	if len(names) == 0 {
		return fmt.Errorf("%q is neither a script file nor a known script name\nno named scripts loaded: add files to ~/.config/%s/scripts/, set $%s, or use --file",
			arg, appName, envScripts)
	}
	sort.Strings(names)
	return fmt.Errorf("%q is neither a script file nor a known script name\navailable: %s", arg, strings.Join(names, ", "))
}

// scriptFailure wraps a preprocessor error with an excerpt of the source
// around the offending line, so the author can fix the script.
func scriptFailure(s scriptyaml.NamedScript, err error) error {
	line, ok := cmdparse.LineOf(err)
	if !ok || line.Num == 0 {
		return fmt.Errorf("%s: %w", s.Source, err)
	}
	return &sourceError{source: s.Source, excerpt: excerpt(s.Script, line.Num, 2), err: err}
}

type sourceError struct {
	source  string
	excerpt string
	err     error
}

func (e *sourceError) Error() string {
	return fmt.Sprintf("%s: %v\n%s", e.source, e.err, e.excerpt)
}

func (e *sourceError) Unwrap() error { return e.err }

// excerpt returns the lines of script around num (1-based), numbered, with
// the target line marked.
func excerpt(script string, num, context int) string {
	all := strings.Split(script, "\n")
	from := num - context
	if from < 1 {
		from = 1
	}
	to := num + context
	if to > len(all) {
		to = len(all)
	}
	width := len(fmt.Sprint(to))
	var b strings.Builder
	for i := from; i <= to; i++ {
		marker := "  "
		if i == num {
			marker = "> "
		}
		fmt.Fprintf(&b, "%s%*d | %s\n", marker, width, i, strings.TrimRight(all[i-1], "\r"))
	}
	return strings.TrimRight(b.String(), "\n")
}
