// Package iodraw renders an annotated phylogenetic tree as a circular
// cladogram and saves it as SVG and PNG artifacts.
package iodraw

import (
	"errors"
	"math"

	"github.com/mdahirel/inat-tree/pkg/phylotree"
)

// layout places every node of a tree on the unit disk. Tips sit on the
// outer circle at evenly spaced angles in node-index order; an internal
// node sits at the mean angle of its children, at a radius proportional
// to its depth. The placement depends only on the tree topology, so the
// same tree always renders identically.
type layout struct {
	tree   *phylotree.Tree
	step   float64
	angle  map[*phylotree.Node]float64
	radius map[*phylotree.Node]float64
}

func newLayout(t *phylotree.Tree) (*layout, error) {
	if t == nil || t.TipCount() == 0 {
		return nil, errors.New("tree has no tips")
	}

	l := &layout{
		tree:   t,
		step:   2 * math.Pi / float64(t.TipCount()),
		angle:  make(map[*phylotree.Node]float64),
		radius: make(map[*phylotree.Node]float64),
	}
	for i := 0; i < t.TipCount(); i++ {
		n := t.NodeAt(i)
		l.angle[n] = float64(i) * l.step
		l.radius[n] = 1
	}

	maxDepth := t.MaxDepth()
	if maxDepth == 0 {
		maxDepth = 1
	}
	l.place(t.Root(), maxDepth)
	return l, nil
}

// place assigns angles and radii to internal nodes in postorder and
// returns the angle of n. A unary node inherits the angle of its only
// child, so chains of unary nodes stack on one radial line.
func (l *layout) place(n *phylotree.Node, maxDepth int) float64 {
	if n.IsTip() {
		return l.angle[n]
	}
	var sum float64
	for _, c := range n.Children {
		sum += l.place(c, maxDepth)
	}
	a := sum / float64(len(n.Children))
	l.angle[n] = a
	l.radius[n] = float64(l.tree.Depth(n)) / float64(maxDepth)
	return a
}

// x and y convert a node's polar placement to unit-disk coordinates.
func (l *layout) x(n *phylotree.Node) float64 {
	return l.radius[n] * math.Cos(l.angle[n])
}

func (l *layout) y(n *phylotree.Node) float64 {
	return l.radius[n] * math.Sin(l.angle[n])
}

// span returns the angular interval covered by the tips under n, padded
// by half a tip step on each side so a shaded sector encloses its outer
// tips fully.
func (l *layout) span(n *phylotree.Node) (a0, a1 float64) {
	tips := l.tree.TipIndicesUnder(n)
	a0 = math.Inf(1)
	a1 = math.Inf(-1)
	for _, i := range tips {
		a := l.angle[l.tree.NodeAt(i)]
		if a < a0 {
			a0 = a
		}
		if a > a1 {
			a1 = a
		}
	}
	return a0 - l.step/2, a1 + l.step/2
}
