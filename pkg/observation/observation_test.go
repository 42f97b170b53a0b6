package observation_test

import (
	"bytes"
	"testing"

	"github.com/mdahirel/inat-tree/pkg/observation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecord(t *testing.T) {
	r := observation.NewRecord("Apis mellifera", 47219, "Insecta", 47158)
	assert.Equal(t, "Apis mellifera", r.TaxonName)
	assert.Equal(t, 47219, r.TaxonID)
	assert.Equal(t, "Insecta", r.IconicTaxon)
	assert.NotEmpty(t, r.NameID)

	// NameID is deterministic for the same name string
	r2 := observation.NewRecord("Apis mellifera", 1, "Insecta", 2)
	assert.Equal(t, r.NameID, r2.NameID)

	// absent iconic taxon normalizes to "unknown"
	r3 := observation.NewRecord("Physarum polycephalum", 129942, "", 0)
	assert.Equal(t, observation.UnknownIconicTaxon, r3.IconicTaxon)
}

func TestTableCSVRoundTrip(t *testing.T) {
	tbl := observation.Table{
		observation.NewRecord("Apis mellifera", 47219, "Insecta", 47158),
		observation.NewRecord("Quercus robur", 56133, "Plantae", 47126),
		// duplicates are expected and preserved
		observation.NewRecord("Apis mellifera", 47219, "Insecta", 47158),
	}

	var buf bytes.Buffer
	err := tbl.WriteCSV(&buf)
	require.NoError(t, err)

	got, err := observation.ReadCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, tbl, got)
}

func TestReadCSVEmpty(t *testing.T) {
	got, err := observation.ReadCSV(bytes.NewBufferString(""))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestContextFor(t *testing.T) {
	m := observation.DefaultContexts()

	tests := []struct {
		name   string
		iconic string
		want   string
	}{
		{"insects", "Insecta", "Insects"},
		{"plants", "Plantae", "Land plants"},
		{"fungi", "Fungi", "Fungi"},
		{"unmapped tag", "Chromista", observation.DefaultContext},
		{"unknown tag", observation.UnknownIconicTaxon, observation.DefaultContext},
		{"empty tag", "", observation.DefaultContext},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.ContextFor(tt.iconic))
		})
	}
}

func TestTagNames(t *testing.T) {
	m := observation.DefaultContexts()
	tbl := observation.Table{
		observation.NewRecord("Apis mellifera", 47219, "Insecta", 47158),
		observation.NewRecord("Quercus robur", 56133, "Plantae", 47126),
		observation.NewRecord("Apis mellifera", 47219, "Insecta", 47158),
		observation.NewRecord("Physarum polycephalum", 129942, "", 0),
	}

	got := m.TagNames(tbl)
	require.Len(t, got, 3)
	assert.Equal(t, observation.TaggedName{
		Name: "Apis mellifera", Context: "Insects",
	}, got[0])
	assert.Equal(t, observation.TaggedName{
		Name: "Quercus robur", Context: "Land plants",
	}, got[1])
	assert.Equal(t, observation.TaggedName{
		Name: "Physarum polycephalum", Context: observation.DefaultContext,
	}, got[2])
}
