package scriptyaml

import (
	"fmt"

	"github.com/calculuswhiz/musescore-utils/cmd/mscmd/cmdparse"
)

// Catalog holds every named script loaded from job files and script files,
// together with the document-wide substitution values.
// Scripts are kept in load order; names are unique.
type Catalog struct {
	Subs    cmdparse.Substitutions
	scripts []NamedScript
	index   map[string]int
}

// NewCatalog returns an empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		Subs:  cmdparse.Substitutions{},
		index: make(map[string]int),
	}
}

// Add registers a script. Returns ErrDuplicateScript if the name is taken.
func (c *Catalog) Add(s NamedScript) error {
	if i, exists := c.index[s.Name]; exists {
		return fmt.Errorf("%w: %s (%s and %s)", ErrDuplicateScript, s.Name, c.scripts[i].Source, s.Source)
	}
	c.index[s.Name] = len(c.scripts)
	c.scripts = append(c.scripts, s)
	return nil
}

// AddDocument merges a parsed document: its substitution values overlay the
// catalog's (later documents win) and its scripts are registered in order.
func (c *Catalog) AddDocument(doc Document) error {
	c.Subs = c.Subs.Merge(doc.Subs)
	for _, s := range doc.Scripts {
		if err := c.Add(s); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the script registered under name.
func (c *Catalog) Get(name string) (NamedScript, bool) {
	i, ok := c.index[name]
	if !ok {
		return NamedScript{}, false
	}
	return c.scripts[i], true
}

// Scripts returns all scripts in load order.
func (c *Catalog) Scripts() []NamedScript {
	return append([]NamedScript(nil), c.scripts...)
}

// Names returns all script names in load order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.scripts))
	for i, s := range c.scripts {
		names[i] = s.Name
	}
	return names
}

// SubsFor returns the substitution values that apply to s: catalog-wide
// values overlaid with the script's own, then with each of extra in order.
func (c *Catalog) SubsFor(s NamedScript, extra ...cmdparse.Substitutions) cmdparse.Substitutions {
	layers := append([]cmdparse.Substitutions{s.Subs}, extra...)
	return c.Subs.Merge(layers...)
}

// BuildMany parses several job documents into one catalog.
// sources names each input for error messages and must match inputs in
// length.
func BuildMany(inputs [][]byte, sources []string) (*Catalog, error) {
	if len(inputs) != len(sources) {
		return nil, fmt.Errorf("phase=yaml: %d inputs but %d sources", len(inputs), len(sources))
	}
	cat := NewCatalog()
	for i, in := range inputs {
		doc, err := Parse(in, sources[i])
		if err != nil {
			return nil, err
		}
		if err := cat.AddDocument(doc); err != nil {
			return nil, fmt.Errorf("phase=yaml path=%s: %w", sources[i], err)
		}
	}
	return cat, nil
}
