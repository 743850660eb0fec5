package scriptyaml

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/calculuswhiz/musescore-utils/cmd/mscmd/cmdparse"

	"gopkg.in/yaml.v3"
)

var ErrDuplicateScript = errors.New("duplicate script name")

// Document is the Go-level representation of a parsed job file.
//
// Two YAML forms are supported:
//   - Mapping form (preferred): a mapping with "subs" and "scripts" keys.
//   - Shorthand form: a bare sequence, interpreted as scripts only.
type Document struct {
	Subs    cmdparse.Substitutions
	Scripts []NamedScript
}

// NamedScript is a script stored under a name, with its own substitution
// values layered over the document-wide ones.
type NamedScript struct {
	Name        string
	Description string
	Script      string
	Subs        cmdparse.Substitutions
	// Source is the file the script came from, for listings and errors.
	Source string
}

// ---- Internal YAML parsing structs ----------------------------------------

type yamlDocument struct {
	Subs    yaml.Node    `yaml:"subs,omitempty"`
	Scripts []yamlScript `yaml:"scripts,omitempty"`
}

// yamlScript holds `subs` as a non-pointer yaml.Node: yaml.v3 leaves the Kind
// of a *yaml.Node struct field at 0, so absence is detected with Kind == 0.
type yamlScript struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description,omitempty"`
	Script      string    `yaml:"script"`
	Subs        yaml.Node `yaml:"subs,omitempty"`
}

// ---- Parse -----------------------------------------------------------------

// Parse parses a YAML job document in either mapping or shorthand form.
// source is recorded on every script it contains.
func Parse(in []byte, source string) (Document, error) {
	var docNode yaml.Node
	if err := yaml.Unmarshal(in, &docNode); err != nil {
		return Document{}, fmt.Errorf("phase=yaml path=%s: %w", source, err)
	}
	if len(docNode.Content) == 0 {
		return Document{}, fmt.Errorf("phase=yaml path=%s: empty YAML", source)
	}
	root := docNode.Content[0]

	switch root.Kind {
	case yaml.SequenceNode:
		var scripts []yamlScript
		if err := root.Decode(&scripts); err != nil {
			return Document{}, fmt.Errorf("phase=yaml path=%s: %w", source, err)
		}
		converted, err := convertScripts(scripts, source)
		if err != nil {
			return Document{}, err
		}
		return Document{Scripts: converted}, nil

	case yaml.MappingNode:
		var yd yamlDocument
		if err := root.Decode(&yd); err != nil {
			return Document{}, fmt.Errorf("phase=yaml path=%s: %w", source, err)
		}
		return convertDocument(yd, source)

	default:
		return Document{}, fmt.Errorf("phase=yaml path=%s: unexpected YAML root kind: %d", source, root.Kind)
	}
}

// ParseSubstitutions parses a file holding substitution values only, either
// a bare mapping of name -> value or a job document with a `subs` key.
func ParseSubstitutions(in []byte, source string) (cmdparse.Substitutions, error) {
	var docNode yaml.Node
	if err := yaml.Unmarshal(in, &docNode); err != nil {
		return nil, fmt.Errorf("phase=yaml path=%s: %w", source, err)
	}
	if len(docNode.Content) == 0 {
		return cmdparse.Substitutions{}, nil
	}
	root := docNode.Content[0]
	if root.Kind == yaml.MappingNode && hasKey(root, "subs") {
		doc, err := Parse(in, source)
		if err != nil {
			return nil, err
		}
		return doc.Subs, nil
	}
	subs, err := convertSubs(root)
	if err != nil {
		return nil, fmt.Errorf("phase=yaml path=%s: %w", source, err)
	}
	return subs, nil
}

// ---- Convert: yaml types -> public types ------------------------------------

func convertDocument(yd yamlDocument, source string) (Document, error) {
	var doc Document
	if yd.Subs.Kind != 0 {
		subs, err := convertSubs(&yd.Subs)
		if err != nil {
			return Document{}, fmt.Errorf("phase=yaml path=%s: subs: %w", source, err)
		}
		doc.Subs = subs
	}
	scripts, err := convertScripts(yd.Scripts, source)
	if err != nil {
		return Document{}, err
	}
	doc.Scripts = scripts
	return doc, nil
}

func convertScripts(raw []yamlScript, source string) ([]NamedScript, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]NamedScript, 0, len(raw))
	for i, ys := range raw {
		if ys.Name == "" {
			return nil, fmt.Errorf("phase=yaml path=%s[%d]: script is missing a name", source, i)
		}
		path := source + "." + ys.Name
		if strings.ContainsAny(ys.Name, " \t") {
			return nil, fmt.Errorf("phase=yaml path=%s: script name must not contain whitespace", path)
		}
		ns := NamedScript{
			Name:        ys.Name,
			Description: ys.Description,
			Script:      ys.Script,
			Source:      source,
		}
		if ys.Subs.Kind != 0 {
			subs, err := convertSubs(&ys.Subs)
			if err != nil {
				return nil, fmt.Errorf("phase=yaml path=%s: subs: %w", path, err)
			}
			ns.Subs = subs
		}
		out = append(out, ns)
	}
	return out, nil
}

// convertSubs reads a YAML mapping of token name -> scalar.
//
// Conversion rules:
//   - null value (~) -> nil (the token falls back to the default value)
//   - !!int          -> int
//   - !!float        -> float64
//   - anything else  -> the scalar's text
//
// Names must be identifiers because they are referenced as <name> in scripts.
func convertSubs(node *yaml.Node) (cmdparse.Substitutions, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("expected a mapping of name: value, got YAML kind %d", node.Kind)
	}
	if len(node.Content)%2 != 0 {
		return nil, fmt.Errorf("malformed YAML mapping: odd number of content nodes")
	}
	out := make(cmdparse.Substitutions, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		val := node.Content[i+1]
		if !cmdparse.IsIdentifier(key) {
			return nil, fmt.Errorf(
				"token %q: invalid name: names must match [A-Za-z_][A-Za-z0-9_]*; hint: rename to %q and use <%s> in scripts",
				key, toSnakeCase(key), toSnakeCase(key),
			)
		}
		v, err := scalarValue(val)
		if err != nil {
			return nil, fmt.Errorf("token %q: %w", key, err)
		}
		out[key] = v
	}
	return out, nil
}

func scalarValue(n *yaml.Node) (any, error) {
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	if n.Kind != yaml.ScalarNode {
		return nil, fmt.Errorf("value must be a scalar, got YAML kind %d", n.Kind)
	}
	switch n.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!int":
		if v, err := strconv.Atoi(n.Value); err == nil {
			return v, nil
		}
	case "!!float":
		if v, err := strconv.ParseFloat(n.Value, 64); err == nil {
			return v, nil
		}
	}
	return n.Value, nil
}

func hasKey(mapping *yaml.Node, key string) bool {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return true
		}
	}
	return false
}

// toSnakeCase replaces hyphens and spaces with underscores, used only for
// error hint messages.
func toSnakeCase(s string) string {
	return strings.NewReplacer("-", "_", " ", "_").Replace(s)
}
