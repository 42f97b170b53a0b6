package iodraw

import (
	"math"
	"testing"

	"github.com/mdahirel/inat-tree/pkg/phylotree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testNewick = "(((Apis_mellifera,Bombus_terrestris)Apidae," +
	"Pieris_rapae)Insecta," +
	"(Quercus_robur,Fagus_sylvatica)Fagaceae)cellular_organisms;"

func testLayout(t *testing.T, nwk string) *layout {
	t.Helper()
	tree, err := phylotree.Parse(nwk)
	require.NoError(t, err)
	l, err := newLayout(tree)
	require.NoError(t, err)
	return l
}

func node(t *testing.T, l *layout, label string) *phylotree.Node {
	t.Helper()
	i, ok := l.tree.NodeIndex(label)
	require.True(t, ok, "node %q not found", label)
	return l.tree.NodeAt(i)
}

func TestLayoutTips(t *testing.T) {
	l := testLayout(t, testNewick)
	step := 2 * math.Pi / 5

	labels := l.tree.TipLabels()
	require.Len(t, labels, 5)
	for i, label := range labels {
		n := node(t, l, label)
		assert.InDelta(t, float64(i)*step, l.angle[n], 1e-9, label)
		assert.Equal(t, 1.0, l.radius[n], label)
	}
}

func TestLayoutInternals(t *testing.T) {
	l := testLayout(t, testNewick)
	step := 2 * math.Pi / 5

	tests := []struct {
		label  string
		angle  float64
		radius float64
	}{
		// an internal node splits the angle of its children; its
		// radius grows with depth, tips being at depth 3 here
		{"Apidae", step / 2, 2.0 / 3},
		{"Insecta", (step/2 + 2*step) / 2, 1.0 / 3},
		{"Fagaceae", 3.5 * step, 1.0 / 3},
		{"cellular_organisms", ((step/2+2*step)/2 + 3.5*step) / 2, 0},
	}
	for _, test := range tests {
		n := node(t, l, test.label)
		assert.InDelta(t, test.angle, l.angle[n], 1e-9, test.label)
		assert.InDelta(t, test.radius, l.radius[n], 1e-9, test.label)
	}
}

func TestLayoutUnaryChain(t *testing.T) {
	l := testLayout(t, "((Homo_sapiens)Homo)Hominidae;")

	tip := node(t, l, "Homo_sapiens")
	homo := node(t, l, "Homo")
	root := node(t, l, "Hominidae")

	// unary nodes stack on the radial line of their only tip
	assert.Equal(t, l.angle[tip], l.angle[homo])
	assert.Equal(t, l.angle[tip], l.angle[root])
	assert.Equal(t, 1.0, l.radius[tip])
	assert.InDelta(t, 0.5, l.radius[homo], 1e-9)
	assert.Equal(t, 0.0, l.radius[root])
}

func TestLayoutSpan(t *testing.T) {
	l := testLayout(t, testNewick)
	step := 2 * math.Pi / 5

	a0, a1 := l.span(node(t, l, "Apidae"))
	assert.InDelta(t, -step/2, a0, 1e-9)
	assert.InDelta(t, 1.5*step, a1, 1e-9)

	a0, a1 = l.span(node(t, l, "Fagaceae"))
	assert.InDelta(t, 2.5*step, a0, 1e-9)
	assert.InDelta(t, 4.5*step, a1, 1e-9)
}

func TestLayoutEmptyTree(t *testing.T) {
	_, err := newLayout(nil)
	assert.Error(t, err)
}
