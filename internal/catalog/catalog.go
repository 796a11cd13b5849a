// Package catalog describes the data sources the foundation can ingest and
// the scenario presets that group them.
package catalog

import (
	_ "embed"
	"os"
	"sort"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/mdf/internal/model"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Source is one catalog entry.
type Source struct {
	ID        string `yaml:"id" json:"id"`
	Name      string `yaml:"name" json:"name"`
	Category  string `yaml:"category" json:"category"`
	Ingestion string `yaml:"ingestion" json:"ingestion"` // "realtime" or "batch"
	DataClass string `yaml:"data_class" json:"dataClass"`
}

// Provenance returns the lineage tags records from this source carry.
func (s Source) Provenance() model.Provenance {
	it := model.IngestionBatch
	if s.Ingestion == "realtime" {
		it = model.IngestionRealtime
	}
	return model.Provenance{
		Source:         s.Name,
		SourceID:       s.ID,
		SourceCategory: s.Category,
		IngestionType:  it,
		DataClass:      model.DataClass(s.DataClass),
	}
}

// Catalog is the indexed set of sources and presets.
type Catalog struct {
	Sources []Source            `yaml:"sources"`
	Presets map[string][]string `yaml:"presets"`

	byID map[string]int
}

// Default parses the catalog compiled into the binary.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// MustDefault is Default for package-level initialization; the embedded
// document is covered by tests.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// Load reads a catalog from a YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: read %s", path)
	}
	return Parse(data)
}

// Parse decodes a catalog document and indexes it.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, eris.Wrap(err, "catalog: parse")
	}

	c.byID = make(map[string]int, len(c.Sources))
	for i, s := range c.Sources {
		if s.ID == "" {
			return nil, eris.Errorf("catalog: source %d has no id", i)
		}
		if _, dup := c.byID[s.ID]; dup {
			return nil, eris.Errorf("catalog: duplicate source id %q", s.ID)
		}
		if s.Ingestion != "realtime" && s.Ingestion != "batch" {
			return nil, eris.Errorf("catalog: source %q has invalid ingestion %q", s.ID, s.Ingestion)
		}
		c.byID[s.ID] = i
	}
	return &c, nil
}

// Lookup returns the source with the given id.
func (c *Catalog) Lookup(id string) (Source, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Source{}, false
	}
	return c.Sources[i], true
}

// Preset returns the source ids of a named preset.
func (c *Catalog) Preset(name string) ([]string, bool) {
	ids, ok := c.Presets[name]
	if !ok {
		return nil, false
	}
	out := make([]string, len(ids))
	copy(out, ids)
	return out, true
}

// PresetNames returns preset names in sorted order.
func (c *Catalog) PresetNames() []string {
	names := make([]string, 0, len(c.Presets))
	for name := range c.Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve expands an optional preset followed by explicit source ids into one
// de-duplicated selection. Unknown ids are kept; the generator yields nothing
// for them.
func (c *Catalog) Resolve(preset string, ids []string) ([]string, error) {
	var selected []string
	if preset != "" {
		p, ok := c.Preset(preset)
		if !ok {
			return nil, eris.Errorf("catalog: unknown preset %q", preset)
		}
		selected = p
	}

	seen := make(map[string]bool, len(selected)+len(ids))
	out := make([]string, 0, len(selected)+len(ids))
	for _, id := range append(selected, ids...) {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out, nil
}
