package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/calculuswhiz/musescore-utils/cmd/mscmd/cmdparse"
	"github.com/calculuswhiz/musescore-utils/cmd/mscmd/scriptyaml"

	"github.com/BurntSushi/toml"
)

// appName is the single source of truth for the application name.
// All derived identifiers (env vars, config paths, error messages) are computed from it.
const appName = "mscmd"

// Derived env var names, computed once at init from appName.
var (
	envConfigDir = strings.ToUpper(appName) + "_CONFIG_DIR"
	envScripts   = strings.ToUpper(appName) + "_SCRIPTS"
	envSubs      = strings.ToUpper(appName) + "_SUBS"
)

const settingsFile = "config.toml"

// scriptExts are the extensions of plain script files; each file becomes a
// catalog entry named after its base name.
var scriptExts = []string{".mss", ".txt"}

// Settings is the content of <config>/config.toml.
type Settings struct {
	StrictMacros bool           `toml:"strict_macros"`
	Limits       LimitSettings  `toml:"limits"`
	Output       OutputSettings `toml:"output"`
	// Subs are default substitution values, overridden by job files and flags.
	Subs map[string]any `toml:"subs"`
}

type LimitSettings struct {
	MaxRepeat        int `toml:"max_repeat"`
	MaxDepth         int `toml:"max_depth"`
	MaxOutput        int `toml:"max_output"`
	MaxSubstitutions int `toml:"max_substitutions"`
}

type OutputSettings struct {
	Format string `toml:"format"`
}

func defaultSettings() Settings {
	return Settings{
		Limits: LimitSettings{
			MaxRepeat:        100000,
			MaxDepth:         64,
			MaxOutput:        1000000,
			MaxSubstitutions: cmdparse.DefaultMaxSubstitutions,
		},
		Output: OutputSettings{Format: formatText},
	}
}

// options converts the settings into preprocessor options.
func (s Settings) options() cmdparse.Options {
	return cmdparse.Options{
		StrictMacros: s.StrictMacros,
		Limits: cmdparse.Limits{
			MaxRepeat:        s.Limits.MaxRepeat,
			MaxDepth:         s.Limits.MaxDepth,
			MaxOutput:        s.Limits.MaxOutput,
			MaxSubstitutions: s.Limits.MaxSubstitutions,
		},
	}
}

// resolveConfigDir returns the base config directory for the application.
// Priority: $<APPNAME>_CONFIG_DIR > $XDG_CONFIG_HOME/<appName> > ~/.config/<appName>
func resolveConfigDir() (string, error) {
	if v := os.Getenv(envConfigDir); v != "" {
		return v, nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", appName), nil
}

// loadSettings reads <configDir>/config.toml over the defaults.
// A missing file is not an error.
func loadSettings(configDir string) (Settings, error) {
	s := defaultSettings()
	path := filepath.Join(configDir, settingsFile)
	if _, err := toml.DecodeFile(path, &s); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return Settings{}, fmt.Errorf("settings file %s: %w", path, err)
	}
	for k := range s.Subs {
		if !cmdparse.IsIdentifier(k) {
			return Settings{}, fmt.Errorf("settings file %s: subs: invalid token name %q", path, k)
		}
	}
	return s, nil
}

// resolveSourceFiles returns all job and script files to load.
// Order: configDir/scripts/*, then $<APPNAME>_SCRIPTS, then flagFiles.
// Missing directories are silently skipped; explicitly provided paths are kept as-is
// (errors will surface at read time with a clear message).
func resolveSourceFiles(configDir string, flagFiles []string) ([]string, error) {
	files, err := globSources(filepath.Join(configDir, "scripts"))
	if err != nil {
		return nil, err
	}
	files = append(files, splitColon(os.Getenv(envScripts))...)
	files = append(files, flagFiles...)
	return files, nil
}

// resolveSubsFiles returns substitution files: $<APPNAME>_SUBS, then flagFiles.
func resolveSubsFiles(flagFiles []string) []string {
	return append(splitColon(os.Getenv(envSubs)), flagFiles...)
}

// globSources returns the job and script files in dir, sorted by name.
// Returns nil without error if dir does not exist.
func globSources(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if isYAML(name) || isScriptFile(name) {
			files = append(files, filepath.Join(dir, name))
		}
	}
	return files, nil
}

func isYAML(name string) bool {
	return strings.HasSuffix(name, ".yml") || strings.HasSuffix(name, ".yaml")
}

func isScriptFile(name string) bool {
	ext := filepath.Ext(name)
	for _, e := range scriptExts {
		if ext == e {
			return true
		}
	}
	return false
}

// splitColon splits a colon-separated string, filtering empty parts.
func splitColon(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ":")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// loadCatalog reads every job file and script file into one catalog.
// Job files contribute named scripts and substitution values; a script file
// contributes one script named after the file. Job file scripts come first,
// each group in the order given.
func loadCatalog(files []string) (*scriptyaml.Catalog, error) {
	var inputs [][]byte
	var sources []string
	var scripts []scriptyaml.NamedScript
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("script file %s: %w", f, err)
		}
		if isYAML(f) {
			inputs = append(inputs, data)
			sources = append(sources, f)
			continue
		}
		scripts = append(scripts, scriptFromFile(f, data))
	}

	cat, err := scriptyaml.BuildMany(inputs, sources)
	if err != nil {
		return nil, err
	}
	for _, s := range scripts {
		if err := cat.Add(s); err != nil {
			return nil, err
		}
	}
	return cat, nil
}

func scriptFromFile(path string, data []byte) scriptyaml.NamedScript {
	base := filepath.Base(path)
	return scriptyaml.NamedScript{
		Name:   strings.TrimSuffix(base, filepath.Ext(base)),
		Script: string(data),
		Source: path,
	}
}

// loadSubsFiles reads substitution files in order; later files win.
func loadSubsFiles(files []string) (cmdparse.Substitutions, error) {
	out := cmdparse.Substitutions{}
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("substitution file %s: %w", f, err)
		}
		subs, err := scriptyaml.ParseSubstitutions(data, f)
		if err != nil {
			return nil, err
		}
		out = out.Merge(subs)
	}
	return out, nil
}

// parseSetFlags turns repeated --set name=value flags into a map.
func parseSetFlags(sets []string) (cmdparse.Substitutions, error) {
	out := make(cmdparse.Substitutions, len(sets))
	for _, kv := range sets {
		name, v, err := cmdparse.ParseAssignment(kv)
		if err != nil {
			return nil, fmt.Errorf("--set: %w", err)
		}
		out[name] = v
	}
	return out, nil
}

// readStdin reads the whole script from r for the "-" argument.
func readStdin(r io.Reader) (scriptyaml.NamedScript, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return scriptyaml.NamedScript{}, fmt.Errorf("reading stdin: %w", err)
	}
	return scriptyaml.NamedScript{Name: "stdin", Script: string(data), Source: "<stdin>"}, nil
}
