package mdstream

import "strings"

// parseInline turns a finite token run into a nested inline node list. It is
// a pure function: no parser state is consulted. Resolution order per scan
// position, first match wins: code span, link, strong-emphasis, strong,
// emphasis, strikethrough. Any opener with no closer degrades to literal
// text, and adjacent text fragments are merged in a final pass.
func parseInline(toks []Token) []*Node {
	var out []*Node
	for i := 0; i < len(toks); {
		tok := toks[i]
		switch tok.Kind {
		case TokenBacktick:
			n := backtickRunLen(toks, i)
			if close := findBacktickClose(toks, i+n, n); close >= 0 {
				content := trimCodeSpan(concatTokens(toks[i+n : close]))
				out = append(out, &Node{Kind: NodeCodeInline, Content: content})
				i = close + n
				continue
			}
			out = append(out, textNode(strings.Repeat("`", n)))
			i += n
		case TokenBracketOpen:
			if node, next, ok := parseLink(toks, i); ok {
				out = append(out, node)
				i = next
				continue
			}
			out = append(out, textNode("["))
			i++
		case TokenTripleAsterisk, TokenTripleUnderscore:
			node, next, ok := parseDelimited(toks, i, tok.Kind, NodeStrongEmphasis)
			out, i = appendDelimited(out, node, next, ok, tok.Text, i)
		case TokenDoubleAsterisk, TokenDoubleUnderscore:
			node, next, ok := parseDelimited(toks, i, tok.Kind, NodeStrong)
			out, i = appendDelimited(out, node, next, ok, tok.Text, i)
		case TokenDoubleTilde:
			node, next, ok := parseDelimited(toks, i, tok.Kind, NodeStrikethrough)
			out, i = appendDelimited(out, node, next, ok, tok.Text, i)
		case TokenAsterisk, TokenUnderscore:
			if tok.Kind == TokenAsterisk && adjacentSingle(toks, i) {
				// Legacy fallback: two adjacent single-asterisk tokens act
				// as one strong delimiter.
				if node, next, ok := parseLegacyStrong(toks, i); ok {
					out = append(out, node)
					i = next
					continue
				}
			}
			node, next, ok := parseDelimited(toks, i, tok.Kind, NodeEmphasis)
			out, i = appendDelimited(out, node, next, ok, tok.Text, i)
		case TokenEnd:
			i++
		default:
			out = append(out, textNode(tok.Text))
			i++
		}
	}
	return mergeText(out)
}

func textNode(s string) *Node {
	return &Node{Kind: NodeText, Content: s}
}

func concatTokens(toks []Token) string {
	var b strings.Builder
	for _, t := range toks {
		b.WriteString(t.Text)
	}
	return b.String()
}

// trimCodeSpan removes one leading and one trailing space, but only when
// both are present and the content is not all spaces.
func trimCodeSpan(s string) string {
	if len(s) >= 2 && s[0] == ' ' && s[len(s)-1] == ' ' && strings.TrimSpace(s) != "" {
		return s[1 : len(s)-1]
	}
	return s
}

func backtickRunLen(toks []Token, i int) int {
	n := 0
	for i+n < len(toks) && toks[i+n].Kind == TokenBacktick {
		n++
	}
	return n
}

// findBacktickClose returns the index of the first backtick run of exactly
// length want at or after from, or -1. Longer or shorter runs are span
// content, not closers.
func findBacktickClose(toks []Token, from, want int) int {
	for j := from; j < len(toks); {
		if toks[j].Kind != TokenBacktick {
			j++
			continue
		}
		n := backtickRunLen(toks, j)
		if n == want {
			return j
		}
		j += n
	}
	return -1
}

// parseLink matches "[" text "](" url ")" with nested brackets and parens
// allowed in their respective sections. Link text is recursively
// inline-parsed; the URL is the literal concatenation of interior tokens.
func parseLink(toks []Token, i int) (*Node, int, bool) {
	depth := 0
	close := -1
	for j := i; j < len(toks); j++ {
		switch toks[j].Kind {
		case TokenBracketOpen:
			depth++
		case TokenBracketClose:
			depth--
			if depth == 0 {
				close = j
			}
		}
		if close >= 0 {
			break
		}
	}
	if close < 0 || close+1 >= len(toks) || toks[close+1].Kind != TokenParenOpen {
		return nil, 0, false
	}
	depth = 0
	end := -1
	for j := close + 1; j < len(toks); j++ {
		switch toks[j].Kind {
		case TokenParenOpen:
			depth++
		case TokenParenClose:
			depth--
			if depth == 0 {
				end = j
			}
		}
		if end >= 0 {
			break
		}
	}
	if end < 0 {
		return nil, 0, false
	}
	node := &Node{
		Kind:     NodeLink,
		URL:      concatTokens(toks[close+2 : end]),
		Children: parseInline(toks[i+1 : close]),
	}
	return node, end + 1, true
}

// parseDelimited matches an opener token of kind k at i against the next
// token of the same kind and wraps the interior.
func parseDelimited(toks []Token, i int, k TokenKind, nk NodeKind) (*Node, int, bool) {
	for j := i + 1; j < len(toks); j++ {
		if toks[j].Kind == k {
			return &Node{Kind: nk, Children: parseInline(toks[i+1 : j])}, j + 1, true
		}
	}
	return nil, 0, false
}

func adjacentSingle(toks []Token, i int) bool {
	return i+1 < len(toks) &&
		toks[i+1].Kind == TokenAsterisk &&
		toks[i+1].Pos == toks[i].Pos+1
}

// parseLegacyStrong handles "**" that arrived as two adjacent single
// asterisk tokens; the closer may be a double-asterisk token or another
// adjacent pair.
func parseLegacyStrong(toks []Token, i int) (*Node, int, bool) {
	for j := i + 2; j < len(toks); j++ {
		if toks[j].Kind == TokenDoubleAsterisk {
			return &Node{Kind: NodeStrong, Children: parseInline(toks[i+2 : j])}, j + 1, true
		}
		if toks[j].Kind == TokenAsterisk && adjacentSingle(toks, j) {
			return &Node{Kind: NodeStrong, Children: parseInline(toks[i+2 : j])}, j + 2, true
		}
	}
	return nil, 0, false
}

func appendDelimited(out []*Node, node *Node, next int, ok bool, marker string, i int) ([]*Node, int) {
	if ok {
		return append(out, node), next
	}
	return append(out, textNode(marker)), i + 1
}

func mergeText(nodes []*Node) []*Node {
	out := nodes[:0]
	for _, n := range nodes {
		if n.Kind == NodeText && len(out) > 0 && out[len(out)-1].Kind == NodeText {
			out[len(out)-1] = textNode(out[len(out)-1].Content + n.Content)
			continue
		}
		out = append(out, n)
	}
	return out
}
