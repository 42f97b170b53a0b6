package iodraw

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mdahirel/inat-tree/pkg/config"
	"github.com/mdahirel/inat-tree/pkg/phylotree"
	"github.com/mdahirel/inat-tree/pkg/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAnnotations() pipeline.Annotations {
	return pipeline.Annotations{
		TipGroups: map[string]string{
			"Apis_mellifera":    "Insects",
			"Bombus_terrestris": "Insects",
			"Pieris_rapae":      "Insects",
			"Quercus_robur":     "Land plants",
			"Fagus_sylvatica":   "Land plants",
		},
		Highlights: []string{"Apidae", "Fagaceae"},
	}
}

func TestRender(t *testing.T) {
	tree, err := phylotree.Parse(testNewick)
	require.NoError(t, err)

	dir := t.TempDir()
	svgPath := filepath.Join(dir, "tree.svg")
	pngPath := filepath.Join(dir, "tree.png")

	r := NewRenderer(config.New())
	err = r.Render(tree, testAnnotations(), svgPath, pngPath)
	require.NoError(t, err)

	for _, path := range []string{svgPath, pngPath} {
		st, err := os.Stat(path)
		require.NoError(t, err, path)
		assert.Greater(t, st.Size(), int64(0), path)
	}
}

func TestRenderDeterministic(t *testing.T) {
	tree, err := phylotree.Parse(testNewick)
	require.NoError(t, err)

	dir := t.TempDir()
	r := NewRenderer(config.New())

	var outputs [][]byte
	for _, run := range []string{"a", "b"} {
		svgPath := filepath.Join(dir, run+".svg")
		pngPath := filepath.Join(dir, run+".png")
		err = r.Render(tree, testAnnotations(), svgPath, pngPath)
		require.NoError(t, err)

		data, err := os.ReadFile(svgPath)
		require.NoError(t, err)
		outputs = append(outputs, data)
	}
	assert.Equal(t, outputs[0], outputs[1])
}

func TestRenderSkipsUnknownHighlight(t *testing.T) {
	tree, err := phylotree.Parse(testNewick)
	require.NoError(t, err)

	dir := t.TempDir()
	ann := testAnnotations()
	ann.Highlights = append(ann.Highlights, "Dinosauria")

	r := NewRenderer(config.New())
	err = r.Render(
		tree, ann,
		filepath.Join(dir, "tree.svg"),
		filepath.Join(dir, "tree.png"),
	)
	assert.NoError(t, err)
}

func TestRenderEmptyTree(t *testing.T) {
	dir := t.TempDir()
	r := NewRenderer(config.New())
	err := r.Render(
		nil, pipeline.Annotations{},
		filepath.Join(dir, "tree.svg"),
		filepath.Join(dir, "tree.png"),
	)
	assert.Error(t, err)
}
