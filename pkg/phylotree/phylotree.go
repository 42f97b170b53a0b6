// Package phylotree provides an in-memory phylogenetic tree read from and
// written to the Newick text format.
//
// Unlike simplified tree representations, parsing preserves unary internal
// nodes (internal nodes with a single child) and their labels exactly as
// serialized. Callers that depend on named internal nodes must therefore go
// through the persisted Newick form rather than a simplified service output.
//
// Nodes share a single unified index space: tips first, in their order of
// appearance in the Newick string, followed by internal nodes in preorder.
// This matches the convention of indexing internal nodes by their position
// in the internal-node label list offset by the tip count.
package phylotree

// Node is a single tree node. Tips have no children.
type Node struct {
	// Label is the node name. It may be empty for internal nodes.
	Label string

	// Length is the branch length to the parent, valid when HasLength.
	Length    float64
	HasLength bool

	Parent   *Node
	Children []*Node
}

// IsTip reports whether the node is a terminal node.
func (n *Node) IsTip() bool {
	return len(n.Children) == 0
}

// Tree is a rooted phylogenetic tree.
type Tree struct {
	root      *Node
	tips      []*Node
	internals []*Node
}

// newTree indexes a parsed root node into a Tree.
func newTree(root *Node) *Tree {
	t := &Tree{root: root}
	t.index(root)
	return t
}

// index fills the tip and internal node lists in preorder. Tip appearance
// order in preorder equals their left-to-right order in the Newick string.
func (t *Tree) index(n *Node) {
	if n.IsTip() {
		t.tips = append(t.tips, n)
		return
	}
	t.internals = append(t.internals, n)
	for _, c := range n.Children {
		t.index(c)
	}
}

// Root returns the root node.
func (t *Tree) Root() *Node {
	return t.root
}

// TipCount returns the number of terminal nodes.
func (t *Tree) TipCount() int {
	return len(t.tips)
}

// TipLabels returns tip labels in unified-index order.
func (t *Tree) TipLabels() []string {
	res := make([]string, len(t.tips))
	for i, n := range t.tips {
		res[i] = n.Label
	}
	return res
}

// InternalLabels returns one entry per internal node, in unified-index
// order. Unlabeled internal nodes contribute an empty string, so positions
// in this list map directly to unified indices offset by the tip count.
func (t *Tree) InternalLabels() []string {
	res := make([]string, len(t.internals))
	for i, n := range t.internals {
		res[i] = n.Label
	}
	return res
}

// NodeIndex returns the unified index of the first node with the given
// label. Tips occupy indices 0..TipCount()-1; the internal node at position
// k of InternalLabels() has index TipCount()+k.
func (t *Tree) NodeIndex(label string) (int, bool) {
	for i, n := range t.tips {
		if n.Label == label {
			return i, true
		}
	}
	for k, n := range t.internals {
		if n.Label != "" && n.Label == label {
			return len(t.tips) + k, true
		}
	}
	return 0, false
}

// NodeAt returns the node at a unified index, or nil when out of range.
func (t *Tree) NodeAt(i int) *Node {
	if i < 0 || i >= len(t.tips)+len(t.internals) {
		return nil
	}
	if i < len(t.tips) {
		return t.tips[i]
	}
	return t.internals[i-len(t.tips)]
}

// TipIndicesUnder returns the unified indices of all tips in the subtree
// rooted at n, in unified-index order.
func (t *Tree) TipIndicesUnder(n *Node) []int {
	set := make(map[*Node]struct{})
	collectTips(n, set)
	var res []int
	for i, tip := range t.tips {
		if _, ok := set[tip]; ok {
			res = append(res, i)
		}
	}
	return res
}

func collectTips(n *Node, set map[*Node]struct{}) {
	if n.IsTip() {
		set[n] = struct{}{}
		return
	}
	for _, c := range n.Children {
		collectTips(c, set)
	}
}

// MRCA returns the most recent common ancestor of the nodes at the given
// unified indices, or nil when the list is empty or an index is out of
// range.
func (t *Tree) MRCA(idxs ...int) *Node {
	if len(idxs) == 0 {
		return nil
	}
	anc := t.NodeAt(idxs[0])
	if anc == nil {
		return nil
	}
	for _, i := range idxs[1:] {
		n := t.NodeAt(i)
		if n == nil {
			return nil
		}
		anc = mrca2(t, anc, n)
	}
	return anc
}

func mrca2(t *Tree, a, b *Node) *Node {
	da, db := t.Depth(a), t.Depth(b)
	for da > db {
		a, da = a.Parent, da-1
	}
	for db > da {
		b, db = b.Parent, db-1
	}
	for a != b {
		a, b = a.Parent, b.Parent
	}
	return a
}

// Depth returns the number of edges between n and the root.
func (t *Tree) Depth(n *Node) int {
	d := 0
	for p := n.Parent; p != nil; p = p.Parent {
		d++
	}
	return d
}

// MaxDepth returns the largest tip depth in the tree.
func (t *Tree) MaxDepth() int {
	res := 0
	for _, n := range t.tips {
		if d := t.Depth(n); d > res {
			res = d
		}
	}
	return res
}
