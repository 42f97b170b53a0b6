package phylotree_test

import (
	"sort"
	"strings"
	"testing"

	"github.com/mdahirel/inat-tree/pkg/phylotree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSimple(t *testing.T) {
	tr, err := phylotree.Parse("((A,B)AB,C)Root;")
	require.NoError(t, err)

	assert.Equal(t, 3, tr.TipCount())
	assert.Equal(t, []string{"A", "B", "C"}, tr.TipLabels())
	assert.Equal(t, []string{"Root", "AB"}, tr.InternalLabels())
}

func TestParseBranchLengths(t *testing.T) {
	tr, err := phylotree.Parse("((A:0.1,B:0.2):0.05,C:1e-3);")
	require.NoError(t, err)

	assert.Equal(t, 3, tr.TipCount())
	a := tr.NodeAt(0)
	require.NotNil(t, a)
	assert.True(t, a.HasLength)
	assert.InDelta(t, 0.1, a.Length, 1e-12)
}

func TestParseQuotedLabels(t *testing.T) {
	tr, err := phylotree.Parse("('Homo sapiens','Pan ''pan'' paniscus')Hominini;")
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"Homo sapiens", "Pan 'pan' paniscus"},
		tr.TipLabels())
	assert.Equal(t, []string{"Hominini"}, tr.InternalLabels())
}

func TestParseUnaryNodesKept(t *testing.T) {
	// a chain of unary internal nodes must survive parsing untouched
	tr, err := phylotree.Parse("(((Apis_mellifera)Apis)Apidae,Formica_rufa)Insecta;")
	require.NoError(t, err)

	assert.Equal(t, 2, tr.TipCount())
	assert.Equal(t, []string{"Insecta", "Apidae", "Apis"}, tr.InternalLabels())

	// and the serialized form keeps them too
	assert.Equal(t,
		"(((Apis_mellifera)Apis)Apidae,Formica_rufa)Insecta;",
		tr.Newick())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"missing semicolon", "(A,B)"},
		{"unbalanced paren", "((A,B;"},
		{"unterminated quote", "('A,B);"},
		{"empty tip label", "(A,);"},
		{"dangling length", "(A:,B);"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := phylotree.Parse(tt.in)
			assert.Error(t, err)
		})
	}
}

// topoSignature builds an order-independent description of the topology:
// a sorted list of sorted tip-label sets, one per internal node.
func topoSignature(tr *phylotree.Tree) []string {
	var res []string
	tips := tr.TipCount()
	for k := range tr.InternalLabels() {
		n := tr.NodeAt(tips + k)
		var labels []string
		for _, i := range tr.TipIndicesUnder(n) {
			labels = append(labels, tr.NodeAt(i).Label)
		}
		sort.Strings(labels)
		res = append(res, strings.Join(labels, "|"))
	}
	sort.Strings(res)
	return res
}

func TestRoundTrip(t *testing.T) {
	in := "(((Apis_mellifera,Bombus_terrestris)Apidae)Hymenoptera," +
		"(Pieris_rapae)Lepidoptera,Forficula_auricularia)Insecta;"

	tr, err := phylotree.Parse(in)
	require.NoError(t, err)

	out := tr.Newick()
	tr2, err := phylotree.Parse(out)
	require.NoError(t, err)

	assert.Equal(t, tr.TipCount(), tr2.TipCount())
	assert.Equal(t, tr.TipLabels(), tr2.TipLabels())
	assert.Equal(t, tr.InternalLabels(), tr2.InternalLabels())
	assert.Equal(t, topoSignature(tr), topoSignature(tr2))
}

func TestRoundTripQuotedAndLengths(t *testing.T) {
	in := "(('Homo sapiens':1.5,'Pan troglodytes':1.5)Hominini:2,'Gorilla gorilla':3.5)Homininae;"

	tr, err := phylotree.Parse(in)
	require.NoError(t, err)
	tr2, err := phylotree.Parse(tr.Newick())
	require.NoError(t, err)

	assert.Equal(t, tr.TipLabels(), tr2.TipLabels())
	assert.Equal(t, tr.InternalLabels(), tr2.InternalLabels())
	assert.Equal(t, tr.Newick(), tr2.Newick())
}
