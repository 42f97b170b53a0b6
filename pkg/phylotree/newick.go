package phylotree

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
)

// Parse reads a single Newick tree from a string.
// Internal node labels, quoted labels and branch lengths are supported.
// Unary internal nodes are kept, not collapsed.
func Parse(s string) (*Tree, error) {
	p := &newickParser{s: s}
	p.skipSpace()
	root, err := p.subtree(nil)
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.accept(';') {
		return nil, p.errorf("expected ';' at end of tree")
	}
	return newTree(root), nil
}

// Read reads a single Newick tree from r.
func Read(r io.Reader) (*Tree, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(string(b))
}

// Newick serializes the tree back to Newick, preserving internal labels,
// unary nodes, and branch lengths.
func (t *Tree) Newick() string {
	var sb strings.Builder
	writeNode(&sb, t.root)
	sb.WriteByte(';')
	return sb.String()
}

func writeNode(sb *strings.Builder, n *Node) {
	if !n.IsTip() {
		sb.WriteByte('(')
		for i, c := range n.Children {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeNode(sb, c)
		}
		sb.WriteByte(')')
	}
	sb.WriteString(quoteLabel(n.Label))
	if n.HasLength {
		sb.WriteByte(':')
		sb.WriteString(strconv.FormatFloat(n.Length, 'g', -1, 64))
	}
}

// quoteLabel quotes a label when it contains Newick metacharacters or
// whitespace. Single quotes inside quoted labels double.
func quoteLabel(s string) string {
	if s == "" {
		return s
	}
	if !strings.ContainsAny(s, "()[]{},:; '\t\n") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

type newickParser struct {
	s   string
	pos int
}

func (p *newickParser) errorf(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	return fmt.Errorf("newick: %s at offset %d", msg, p.pos)
}

func (p *newickParser) skipSpace() {
	for p.pos < len(p.s) && unicode.IsSpace(rune(p.s[p.pos])) {
		p.pos++
	}
}

func (p *newickParser) peek() byte {
	if p.pos >= len(p.s) {
		return 0
	}
	return p.s[p.pos]
}

func (p *newickParser) accept(c byte) bool {
	if p.peek() == c {
		p.pos++
		return true
	}
	return false
}

// subtree parses either a leaf or an internal node, including its optional
// label and branch length.
func (p *newickParser) subtree(parent *Node) (*Node, error) {
	n := &Node{Parent: parent}
	p.skipSpace()

	if p.accept('(') {
		for {
			c, err := p.subtree(n)
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, c)
			p.skipSpace()
			if p.accept(',') {
				continue
			}
			break
		}
		if !p.accept(')') {
			return nil, p.errorf("expected ')'")
		}
	}

	p.skipSpace()
	label, err := p.label()
	if err != nil {
		return nil, err
	}
	n.Label = label

	p.skipSpace()
	if p.accept(':') {
		l, err := p.length()
		if err != nil {
			return nil, err
		}
		n.Length = l
		n.HasLength = true
	}

	if n.IsTip() && n.Label == "" {
		return nil, p.errorf("tip without a label")
	}
	return n, nil
}

func (p *newickParser) label() (string, error) {
	if p.accept('\'') {
		var sb strings.Builder
		for {
			if p.pos >= len(p.s) {
				return "", p.errorf("unterminated quoted label")
			}
			c := p.s[p.pos]
			p.pos++
			if c != '\'' {
				sb.WriteByte(c)
				continue
			}
			// doubled quote is an escaped quote
			if p.peek() == '\'' {
				p.pos++
				sb.WriteByte('\'')
				continue
			}
			return sb.String(), nil
		}
	}

	start := p.pos
	for p.pos < len(p.s) {
		c := p.s[p.pos]
		if strings.IndexByte("(),:;[]", c) >= 0 || unicode.IsSpace(rune(c)) {
			break
		}
		p.pos++
	}
	return p.s[start:p.pos], nil
}

func (p *newickParser) length() (float64, error) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.s) {
		c := p.s[p.pos]
		if (c >= '0' && c <= '9') || c == '.' || c == '-' || c == '+' ||
			c == 'e' || c == 'E' {
			p.pos++
			continue
		}
		break
	}
	if start == p.pos {
		return 0, p.errorf("expected branch length")
	}
	l, err := strconv.ParseFloat(p.s[start:p.pos], 64)
	if err != nil {
		return 0, p.errorf("invalid branch length %q", p.s[start:p.pos])
	}
	return l, nil
}
