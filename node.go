package mdstream

import (
	"strconv"
	"strings"
)

// NodeKind discriminates the Node tagged variant.
type NodeKind uint8

const (
	// NodeDocument is the root container; it is never nested.
	NodeDocument NodeKind = iota
	// NodeParagraph is a container of inline children.
	NodeParagraph
	// NodeHeading is a container of inline children with a Level of 1-6.
	NodeHeading
	// NodeText is a leaf carrying Content.
	NodeText
	// NodeCodeBlock is a leaf carrying Content and an optional Language.
	NodeCodeBlock
	// NodeCodeInline is a leaf carrying Content.
	NodeCodeInline
	// NodeStrong is a container (** or __, and the adjacent-single-asterisk
	// fallback).
	NodeStrong
	// NodeEmphasis is a container (* or _).
	NodeEmphasis
	// NodeStrongEmphasis is a container (*** or ___).
	NodeStrongEmphasis
	// NodeStrikethrough is a container (~~).
	NodeStrikethrough
	// NodeBlockquote is a container of inline children.
	NodeBlockquote
	// NodeLink is a container of inline children with a URL.
	NodeLink
	// NodeListItem is a container holding one or more paragraphs.
	NodeListItem
	// NodeRule is a childless horizontal rule.
	NodeRule
)

var nodeKindNames = [...]string{
	NodeDocument:       "document",
	NodeParagraph:      "paragraph",
	NodeHeading:        "heading",
	NodeText:           "text",
	NodeCodeBlock:      "code_block",
	NodeCodeInline:     "code_inline",
	NodeStrong:         "strong",
	NodeEmphasis:       "emphasis",
	NodeStrongEmphasis: "strong_emphasis",
	NodeStrikethrough:  "strikethrough",
	NodeBlockquote:     "blockquote",
	NodeLink:           "link",
	NodeListItem:       "list_item",
	NodeRule:           "hr",
}

func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return "unknown"
}

// Node is one vertex of the document tree. Leaf kinds (text, code_block,
// code_inline) carry Content and never have children; container kinds carry
// Children and no Content. The block parser owns the tree while parsing;
// readers must treat nodes handed to them as read-only.
type Node struct {
	Kind     NodeKind
	Content  string
	Language string
	Level    int
	URL      string
	Depth    int
	Ordered  bool
	Number   int
	Children []*Node
}

// IsContainer reports whether the node kind may carry children.
func (n *Node) IsContainer() bool {
	switch n.Kind {
	case NodeText, NodeCodeBlock, NodeCodeInline, NodeRule:
		return false
	}
	return true
}

// appendChild adds a child, merging adjacent text leaves so that no two
// consecutive text children exist in the same container.
func (n *Node) appendChild(child *Node) {
	if child == nil {
		return
	}
	if child.Kind == NodeText && len(n.Children) > 0 {
		if last := n.Children[len(n.Children)-1]; last.Kind == NodeText {
			last.Content += child.Content
			return
		}
	}
	n.Children = append(n.Children, child)
}

// removeLastChild drops the most recently appended child, if any.
func (n *Node) removeLastChild() {
	if len(n.Children) > 0 {
		n.Children = n.Children[:len(n.Children)-1]
	}
}

// lastChild returns the most recently appended child or nil.
func (n *Node) lastChild() *Node {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[len(n.Children)-1]
}

// Clone returns a deep copy. Renderers that hold a tree across parse steps
// should clone; within a single synchronous step the live tree may be read
// directly.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := *n
	if n.Children != nil {
		out.Children = make([]*Node, len(n.Children))
		for i, c := range n.Children {
			out.Children[i] = c.Clone()
		}
	}
	return &out
}

// VisitFunc is called for each node during Walk. Returning false prunes the
// node's subtree.
type VisitFunc func(n *Node) bool

// Walk visits n and its descendants depth-first.
func Walk(n *Node, visit VisitFunc) {
	if n == nil || !visit(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, visit)
	}
}

// PlainText concatenates the text, code and soft-break content beneath n.
func (n *Node) PlainText() string {
	var b strings.Builder
	Walk(n, func(c *Node) bool {
		switch c.Kind {
		case NodeText, NodeCodeInline, NodeCodeBlock:
			b.WriteString(c.Content)
		}
		return true
	})
	return b.String()
}

// Sexpr renders the tree in a compact s-expression form. Intended for tests
// and debugging.
func (n *Node) Sexpr() string {
	var b strings.Builder
	n.sexpr(&b)
	return b.String()
}

func (n *Node) sexpr(b *strings.Builder) {
	if n == nil {
		b.WriteString("()")
		return
	}
	b.WriteByte('(')
	b.WriteString(n.Kind.String())
	switch n.Kind {
	case NodeHeading:
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(n.Level))
	case NodeListItem:
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(n.Depth))
		if n.Ordered {
			b.WriteString(":ordered:")
			b.WriteString(strconv.Itoa(n.Number))
		}
	case NodeLink:
		b.WriteString(" url=")
		b.WriteString(quote(n.URL))
	case NodeCodeBlock:
		if n.Language != "" {
			b.WriteString(" lang=")
			b.WriteString(quote(n.Language))
		}
	}
	if !n.IsContainer() && n.Kind != NodeRule {
		b.WriteByte(' ')
		b.WriteString(quote(n.Content))
	}
	for _, c := range n.Children {
		b.WriteByte(' ')
		c.sexpr(b)
	}
	b.WriteByte(')')
}

func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString("\\\"")
		case '\\':
			b.WriteString("\\\\")
		case '\n':
			b.WriteString("\\n")
		case '\t':
			b.WriteString("\\t")
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
