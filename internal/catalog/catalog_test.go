package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/mdf/internal/model"
)

func TestDefault_Sources(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.Len(t, c.Sources, 24)

	crm, ok := c.Lookup("crm")
	require.True(t, ok)
	assert.Equal(t, "Salesforce CRM", crm.Name)
	assert.Equal(t, "Customer Centric", crm.Category)

	ga4, ok := c.Lookup("ga4")
	require.True(t, ok)
	prov := ga4.Provenance()
	assert.Equal(t, model.Provenance{
		Source:         "GA4",
		SourceID:       "ga4",
		SourceCategory: "Analytics & Measurement",
		IngestionType:  model.IngestionRealtime,
		DataClass:      model.DataClassBehavioral,
	}, prov)

	_, ok = c.Lookup("fax")
	assert.False(t, ok)
}

func TestDefault_PresetsReferenceKnownSources(t *testing.T) {
	c := MustDefault()

	assert.Equal(t, []string{"b2bSaas", "healthcare", "media", "retail"}, c.PresetNames())
	for _, name := range c.PresetNames() {
		ids, ok := c.Preset(name)
		require.True(t, ok)
		for _, id := range ids {
			_, known := c.Lookup(id)
			assert.True(t, known, "preset %s references %s", name, id)
		}
	}
}

func TestResolve(t *testing.T) {
	c := MustDefault()

	got, err := c.Resolve("healthcare", []string{"crm", "ga4", "", "ga4"})
	require.NoError(t, err)
	assert.Equal(t, []string{"crm", "callCenter", "support", "customerMDM", "edw", "offlineCampaigns", "ga4"}, got)

	got, err = c.Resolve("", []string{"fax", "crm"})
	require.NoError(t, err)
	assert.Equal(t, []string{"fax", "crm"}, got)

	_, err = c.Resolve("nope", nil)
	assert.Error(t, err)
}

func TestPreset_ReturnsCopy(t *testing.T) {
	c := MustDefault()

	ids, _ := c.Preset("retail")
	ids[0] = "mutated"
	again, _ := c.Preset("retail")
	assert.Equal(t, "webAppEvents", again[0])
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"bad yaml", "sources: [\n"},
		{"missing id", "sources:\n  - name: X\n    ingestion: batch\n"},
		{"duplicate id", "sources:\n  - id: a\n    ingestion: batch\n  - id: a\n    ingestion: batch\n"},
		{"bad ingestion", "sources:\n  - id: a\n    ingestion: stream\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	doc := `
sources:
  - id: crm
    name: Dynamics CRM
    category: Customer Centric
    ingestion: batch
    data_class: transactional
presets:
  tiny: [crm]
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	src, ok := c.Lookup("crm")
	require.True(t, ok)
	assert.Equal(t, "Dynamics CRM", src.Name)
	assert.Equal(t, model.IngestionBatch, src.Provenance().IngestionType)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
