package mdstream

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
)

const (
	defaultRenderWidth = 80
	minRenderWidth     = 10

	ansiReset = "\x1b[0m"
)

// RenderRequest configures Render. Node is typically a tree returned by
// Parse or Session.Flush; callers pacing disclosure pass a revealed prefix
// of their content through their own slicing (see RevealSlice) and re-render.
type RenderRequest struct {
	Node    *Node
	Writer  io.Writer
	Width   int
	Theme   Theme
	Options []RenderOption
}

// Render writes an ANSI rendition of the document tree.
func Render(req RenderRequest) error {
	if req.Node == nil {
		return fmt.Errorf("render: node is nil")
	}
	if req.Writer == nil {
		return fmt.Errorf("render: writer is nil")
	}
	var cfg renderConfig
	for _, opt := range req.Options {
		if opt != nil {
			opt(&cfg)
		}
	}
	theme := req.Theme
	if theme == nil {
		theme = DefaultTheme()
	}
	styles := theme.Styles()
	if cfg.bare {
		styles = Styles{}
	}
	width := req.Width
	if width <= 0 {
		width = defaultRenderWidth
	}
	if width < minRenderWidth {
		width = minRenderWidth
	}
	r := &treeRenderer{styles: styles, cfg: cfg, width: width}
	var b strings.Builder
	r.blocks(&b, req.Node)
	if _, err := io.WriteString(req.Writer, b.String()); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}

type treeRenderer struct {
	styles Styles
	cfg    renderConfig
	width  int
}

func (r *treeRenderer) blocks(b *strings.Builder, doc *Node) {
	var prev NodeKind
	for i, n := range doc.Children {
		if i > 0 {
			if prev == NodeListItem && n.Kind == NodeListItem {
				b.WriteByte('\n')
			} else {
				b.WriteString("\n\n")
			}
		}
		r.block(b, n)
		prev = n.Kind
	}
	if len(doc.Children) > 0 {
		b.WriteByte('\n')
	}
}

func (r *treeRenderer) block(b *strings.Builder, n *Node) {
	switch n.Kind {
	case NodeHeading:
		level := n.Level
		if level < 1 {
			level = 1
		} else if level > 6 {
			level = 6
		}
		prefix := r.styles.Heading[level-1].Prefix
		text := r.inlineString(n.Children, prefix)
		b.WriteString(r.wrapLines(r.styled(prefix, text), r.width))
	case NodeParagraph:
		prefix := r.styles.Text.Prefix
		text := r.inlineString(n.Children, prefix)
		b.WriteString(r.wrapLines(r.styled(prefix, text), r.width))
	case NodeCodeBlock:
		b.WriteString(r.codeBlock(n))
	case NodeBlockquote:
		b.WriteString(r.blockquote(n))
	case NodeListItem:
		b.WriteString(r.listItem(n))
	case NodeRule:
		line := strings.Repeat("─", r.width)
		b.WriteString(r.styled(r.styles.Rule.Prefix, line))
	default:
		prefix := r.styles.Text.Prefix
		text := r.inlineString(n.Children, prefix)
		b.WriteString(r.wrapLines(r.styled(prefix, text), r.width))
	}
}

func (r *treeRenderer) codeBlock(n *Node) string {
	var b strings.Builder
	prefix := r.styles.CodeBlock.Prefix
	lines := strings.Split(n.Content, "\n")
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(r.styled(prefix, line))
	}
	return string(indent.String(b.String(), 2))
}

func (r *treeRenderer) blockquote(n *Node) string {
	bar := r.styled(r.styles.Quote.Prefix, "│ ")
	prefix := r.styles.Quote.Prefix
	text := r.inlineString(n.Children, prefix)
	avail := r.width - 2
	if avail < 1 {
		avail = 1
	}
	wrapped := r.wrapLines(r.styled(prefix, text), avail)
	var b strings.Builder
	for i, line := range strings.Split(wrapped, "\n") {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(bar)
		b.WriteString(line)
	}
	return b.String()
}

func (r *treeRenderer) listItem(n *Node) string {
	depth := n.Depth
	if depth < 1 {
		depth = 1
	}
	lead := strings.Repeat("  ", depth-1)
	var marker string
	if n.Ordered {
		marker = r.styled(r.styles.ListMarker.Prefix, strconv.Itoa(n.Number)+". ")
	} else {
		marker = r.styled(r.styles.ListMarker.Prefix, "• ")
	}
	markerWidth := ansi.PrintableRuneWidth(marker)
	avail := r.width - len(lead) - markerWidth
	if avail < 1 {
		avail = 1
	}
	cont := lead + strings.Repeat(" ", markerWidth)
	var b strings.Builder
	for pi, para := range n.Children {
		prefix := r.styles.Text.Prefix
		text := r.inlineString(para.Children, prefix)
		wrapped := r.wrapLines(r.styled(prefix, text), avail)
		for li, line := range strings.Split(wrapped, "\n") {
			if pi > 0 || li > 0 {
				b.WriteByte('\n')
			}
			if pi == 0 && li == 0 {
				b.WriteString(lead)
				b.WriteString(marker)
			} else {
				b.WriteString(cont)
			}
			b.WriteString(line)
		}
	}
	return b.String()
}

// inlineString flattens inline children into one styled string. active is
// the style prefix to restore after a nested span resets.
func (r *treeRenderer) inlineString(nodes []*Node, active string) string {
	var b strings.Builder
	r.inline(&b, nodes, active)
	return b.String()
}

func (r *treeRenderer) inline(b *strings.Builder, nodes []*Node, active string) {
	for _, n := range nodes {
		switch n.Kind {
		case NodeText:
			b.WriteString(n.Content)
		case NodeCodeInline:
			r.span(b, active, r.styles.CodeInline.Prefix, func(inner string) {
				b.WriteString(n.Content)
			})
		case NodeEmphasis:
			r.span(b, active, r.styles.Emphasis.Prefix, func(inner string) {
				r.inline(b, n.Children, inner)
			})
		case NodeStrong:
			r.span(b, active, r.styles.Strong.Prefix, func(inner string) {
				r.inline(b, n.Children, inner)
			})
		case NodeStrongEmphasis:
			r.span(b, active, r.styles.EmphasisStrong.Prefix, func(inner string) {
				r.inline(b, n.Children, inner)
			})
		case NodeStrikethrough:
			r.span(b, active, r.styles.Strikethrough.Prefix, func(inner string) {
				r.inline(b, n.Children, inner)
			})
		case NodeLink:
			r.link(b, n, active)
		default:
			r.inline(b, n.Children, active)
		}
	}
}

// span emits prefix, runs body with the combined active style, then resets
// and restores the enclosing style. Unstyled spans skip the escape bytes
// entirely.
func (r *treeRenderer) span(b *strings.Builder, active, prefix string, body func(inner string)) {
	if prefix == "" && active == "" {
		body("")
		return
	}
	b.WriteString(prefix)
	body(active + prefix)
	b.WriteString(ansiReset)
	b.WriteString(active)
}

func (r *treeRenderer) link(b *strings.Builder, n *Node, active string) {
	if r.cfg.osc8 {
		b.WriteString(osc8Start)
		b.WriteString(n.URL)
		b.WriteString("\x1b\\")
		r.span(b, active, r.styles.LinkText.Prefix, func(inner string) {
			r.inline(b, n.Children, inner)
		})
		b.WriteString(osc8End)
		return
	}
	r.span(b, active, r.styles.LinkText.Prefix, func(inner string) {
		r.inline(b, n.Children, inner)
	})
	if n.URL != "" {
		b.WriteString(" ")
		r.span(b, active, r.styles.LinkURL.Prefix, func(inner string) {
			b.WriteString("(")
			b.WriteString(n.URL)
			b.WriteString(")")
		})
	}
}

// styled wraps s in a style prefix and reset; empty prefixes emit s alone.
func (r *treeRenderer) styled(prefix, s string) string {
	if prefix == "" {
		return s
	}
	return prefix + s + ansiReset
}

func (r *treeRenderer) wrapLines(s string, width int) string {
	out := wordwrap.String(s, width)
	if r.cfg.softWrap {
		out = wrap.String(out, width)
	}
	return out
}
