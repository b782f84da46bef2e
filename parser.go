package mdstream

import (
	"strings"
)

type blockState uint8

const (
	stateDocument blockState = iota
	stateParagraph
	stateHeading
	stateCodeBlock
	stateListItem
	stateBlockquote
)

// blockParser is the token-driven pushdown automaton. It owns the document
// tree while parsing and appends nodes incrementally; every accept leaves it
// in a consistent, resumable state. Structural decisions that need lookahead
// (list marker vs. hr vs. text, heading hash vs. literal) are held in small
// deferred-token buffers and resolved by a confirming token or end of line,
// never by rescanning.
type blockParser struct {
	root  *Node
	state blockState
	open  *Node // open paragraph/heading/blockquote, or the item's paragraph

	inline          []Token // not-yet-committed inline tokens of the open block
	line            []Token // committed tokens of the current line (setext lookback)
	lineInlineStart int     // index into inline where the current line began

	// line-start deferral
	deferred     []Token
	defIndent    int       // indentation columns preceding the first marker
	defMarker    TokenKind // first deferred marker kind, TokenText if none
	defDigits    string
	defHasPeriod bool
	hrRune       rune // '-', '*' or '_' while an hr is still possible
	hrCount      int  // marker characters counted toward the 3+ minimum
	hrSpaced     bool // spaces seen between hr markers (refutes setext)
	headingPend  int  // deferred hash-run length, 0 if none

	lineDecided    bool
	lineHadContent bool
	blankSeen      bool
	skipLine       bool // discard tokens until newline (after a closing fence)
	quoteSpacePend bool // single space after '>' is prefix, not content

	// fenced / indented code
	codeNode      *Node
	codeIndented  bool
	code          strings.Builder
	fenceLang     strings.Builder
	fenceLangDone bool
	codeLineInd   int
	codeLineBody  bool
	codeLineToks  []Token

	// lists
	activeItem *Node // last list item; continuation paragraphs attach here

	quoteToks  []Token // finalized blockquote's raw tokens, for continuation
	lastClosed NodeKind
	flushed    bool
}

func newBlockParser() *blockParser {
	p := &blockParser{}
	p.reset()
	return p
}

func (p *blockParser) reset() {
	p.root = &Node{Kind: NodeDocument}
	p.state = stateDocument
	p.open = nil
	p.inline = p.inline[:0]
	p.line = p.line[:0]
	p.lineInlineStart = 0
	p.resetDeferral()
	p.lineDecided = false
	p.lineHadContent = false
	p.blankSeen = false
	p.skipLine = false
	p.quoteSpacePend = false
	p.codeNode = nil
	p.codeIndented = false
	p.code.Reset()
	p.fenceLang.Reset()
	p.fenceLangDone = false
	p.codeLineInd = 0
	p.codeLineBody = false
	p.codeLineToks = p.codeLineToks[:0]
	p.activeItem = nil
	p.quoteToks = nil
	p.lastClosed = NodeDocument
	p.flushed = false
}

func (p *blockParser) resetDeferral() {
	p.deferred = p.deferred[:0]
	p.defIndent = 0
	p.defMarker = TokenText
	p.defDigits = ""
	p.defHasPeriod = false
	p.hrRune = 0
	p.hrCount = 0
	p.hrSpaced = false
	p.headingPend = 0
}

// tree returns the document root. The caller must not mutate it.
func (p *blockParser) tree() *Node { return p.root }

func (p *blockParser) accept(tok Token) {
	p.flushed = false
	if p.state == stateCodeBlock {
		p.acceptCode(tok)
		return
	}
	switch tok.Kind {
	case TokenEnd:
		p.finalizeAll()
	case TokenNewline:
		p.endOfLine(false)
	default:
		if p.skipLine {
			return
		}
		if !p.lineDecided {
			p.acceptLineStart(tok)
			return
		}
		p.acceptContent(tok)
	}
}

// flush drives the parser to its terminal Document state. Calling it again
// without intervening tokens is a no-op.
func (p *blockParser) flush() {
	if p.flushed {
		return
	}
	if p.state == stateCodeBlock {
		p.acceptCode(Token{Kind: TokenEnd})
	} else {
		p.finalizeAll()
	}
	p.flushed = true
}

func (p *blockParser) finalizeAll() {
	if !p.lineDecided {
		p.resolveLineEnd(true)
	} else if p.lineHadContent {
		p.trySetextEquals()
	}
	p.finalizeOpenBlock()
	p.flushed = true
}

// --- line-start deferral machine ---------------------------------------

// acceptLineStart classifies line-leading tokens whose structural role is
// still open: indentation, heading hashes, list markers and hr runs. A
// confirming token resolves them into structure; anything else commits the
// buffered tokens as literal inline content.
func (p *blockParser) acceptLineStart(tok Token) {
	// Hash run waits for exactly one confirming space.
	if p.headingPend > 0 {
		if tok.Kind == TokenSpace {
			p.startHeading(p.headingPend)
			return
		}
		p.commitDeferred()
		p.acceptContent(tok)
		return
	}
	switch tok.Kind {
	case TokenSpace:
		if p.defMarker == TokenText {
			p.defIndent++
			p.deferred = append(p.deferred, tok)
			return
		}
		if p.listEligible() && markerWidth(p.defMarker) == 1 && p.hrCount <= 1 {
			p.startListItem()
			return
		}
		if p.defHasPeriod && p.listEligible() {
			p.startListItem()
			return
		}
		if p.hrRune != 0 {
			p.hrSpaced = true
			p.deferred = append(p.deferred, tok)
			return
		}
		p.commitDeferred()
		p.acceptContent(tok)
	case TokenTab:
		if p.defMarker == TokenText {
			p.defIndent += 4
			p.deferred = append(p.deferred, tok)
			return
		}
		p.commitDeferred()
		p.acceptContent(tok)
	case TokenHashRun:
		if p.defMarker == TokenText && !p.indentedCodeEligible() {
			p.headingPend = tok.Level
			p.deferred = append(p.deferred, tok)
			return
		}
		p.refuteWith(tok)
	case TokenGreater:
		if p.defMarker == TokenText && !p.indentedCodeEligible() {
			p.startBlockquote()
			return
		}
		p.refuteWith(tok)
	case TokenDash, TokenPlus:
		p.deferMarker(tok, runeForMarker(tok.Kind), 1)
	case TokenAsterisk:
		p.deferMarker(tok, '*', 1)
	case TokenDoubleAsterisk:
		p.deferMarker(tok, '*', 2)
	case TokenTripleAsterisk:
		p.deferMarker(tok, '*', 3)
	case TokenUnderscore:
		p.deferMarker(tok, '_', 1)
	case TokenDoubleUnderscore:
		p.deferMarker(tok, '_', 2)
	case TokenTripleUnderscore:
		p.deferMarker(tok, '_', 3)
	case TokenDigitRun:
		if p.defMarker == TokenText && !p.indentedCodeEligible() {
			p.defMarker = TokenDigitRun
			p.defDigits = tok.Text
			p.deferred = append(p.deferred, tok)
			return
		}
		p.refuteWith(tok)
	case TokenPeriod:
		if p.defMarker == TokenDigitRun && !p.defHasPeriod {
			p.defHasPeriod = true
			p.deferred = append(p.deferred, tok)
			return
		}
		p.refuteWith(tok)
	default:
		p.refuteWith(tok)
	}
}

func runeForMarker(k TokenKind) rune {
	if k == TokenPlus {
		return '+'
	}
	return '-'
}

func markerWidth(k TokenKind) int {
	switch k {
	case TokenDash, TokenPlus, TokenAsterisk:
		return 1
	}
	return 0
}

// deferMarker files a dash/plus/asterisk/underscore run as a joint list and
// hr candidate. Repeats of the same rune extend the hr run; anything else
// refutes the line into literal content.
func (p *blockParser) deferMarker(tok Token, r rune, width int) {
	if p.indentedCodeEligible() {
		p.openIndentedCode(tok)
		return
	}
	if p.defMarker == TokenText {
		p.defMarker = tok.Kind
		if r == '-' || r == '*' || r == '_' {
			p.hrRune = r
			p.hrCount = width
		}
		p.deferred = append(p.deferred, tok)
		return
	}
	if p.hrRune == r && r != 0 {
		p.hrCount += width
		p.deferred = append(p.deferred, tok)
		return
	}
	p.refuteWith(tok)
}

// indentedCodeEligible reports whether 4+ columns of pure indentation at a
// block-start position should open an indented code block. Never while a
// list item is active: indentation there is continuation territory.
func (p *blockParser) indentedCodeEligible() bool {
	return p.defIndent >= 4 && p.defMarker == TokenText &&
		p.state == stateDocument && p.activeItem == nil
}

// refuteWith abandons the structural interpretation of the deferred prefix
// and processes tok as ordinary content.
func (p *blockParser) refuteWith(tok Token) {
	if p.indentedCodeEligible() {
		p.openIndentedCode(tok)
		return
	}
	p.commitDeferred()
	p.acceptContent(tok)
}

// commitDeferred flushes the deferred prefix as literal inline content.
// Leading indentation is stripped; markers keep their token identity so the
// inline parser can still see them as emphasis delimiters.
func (p *blockParser) commitDeferred() {
	cont := p.state == stateDocument && p.blankOrDocContinuation()
	p.markDecided()
	if cont {
		p.openContinuationParagraph()
	}
	toks := p.deferred
	i := 0
	for i < len(toks) && (toks[i].Kind == TokenSpace || toks[i].Kind == TokenTab) {
		i++
	}
	for ; i < len(toks); i++ {
		p.acceptContent(toks[i])
	}
	p.resetDeferral()
}

// blankOrDocContinuation reports whether indented content after a blank line
// belongs to the active list item as a continuation paragraph.
func (p *blockParser) blankOrDocContinuation() bool {
	return p.blankSeen && p.activeItem != nil && p.defIndent >= 2
}

func (p *blockParser) openContinuationParagraph() {
	para := &Node{Kind: NodeParagraph}
	p.activeItem.Children = append(p.activeItem.Children, para)
	p.open = para
	p.state = stateListItem
	p.inline = p.inline[:0]
	p.lineInlineStart = 0
}

func (p *blockParser) markDecided() {
	p.lineDecided = true
	p.blankSeen = false
}

func (p *blockParser) listEligible() bool {
	if p.blankSeen || p.lastClosed == NodeHeading {
		return p.state == stateDocument || p.state == stateListItem
	}
	return p.state == stateDocument
}

// --- block starts -------------------------------------------------------

func (p *blockParser) startHeading(run int) {
	p.finalizeOpenBlock()
	level := run
	if level > 6 {
		level = 6
	}
	h := &Node{Kind: NodeHeading, Level: level}
	p.root.appendChild(h)
	p.open = h
	p.state = stateHeading
	p.activeItem = nil
	p.quoteToks = nil
	p.inline = p.inline[:0]
	p.lineInlineStart = 0
	p.resetDeferral()
	p.markDecided()
}

func (p *blockParser) startBlockquote() {
	if p.state == stateBlockquote {
		// Continuation prefix on the next line of an open quote.
		p.quoteSpacePend = true
		p.resetDeferral()
		p.markDecided()
		return
	}
	p.finalizeOpenBlock()
	var quote *Node
	if last := p.root.lastChild(); last != nil && last.Kind == NodeBlockquote &&
		!p.blankSeen && p.quoteToks != nil {
		quote = last
		p.inline = append(p.inline[:0], p.quoteToks...)
		p.appendSoftBreak()
	} else {
		quote = &Node{Kind: NodeBlockquote}
		p.root.appendChild(quote)
		p.inline = p.inline[:0]
	}
	p.open = quote
	p.state = stateBlockquote
	p.activeItem = nil
	p.quoteToks = nil
	p.quoteSpacePend = true
	p.lineInlineStart = len(p.inline)
	p.resetDeferral()
	p.markDecided()
}

func (p *blockParser) startListItem() {
	p.finalizeOpenBlock()
	item := &Node{
		Kind:    NodeListItem,
		Depth:   1 + p.defIndent/2,
		Ordered: p.defHasPeriod,
	}
	if item.Ordered {
		item.Number = atoiClamped(p.defDigits)
	}
	para := &Node{Kind: NodeParagraph}
	item.Children = append(item.Children, para)
	p.root.appendChild(item)
	p.activeItem = item
	p.quoteToks = nil
	p.open = para
	p.state = stateListItem
	p.inline = p.inline[:0]
	p.lineInlineStart = 0
	p.resetDeferral()
	p.markDecided()
}

func (p *blockParser) openFence() {
	p.finalizeOpenBlock()
	p.codeNode = &Node{Kind: NodeCodeBlock}
	p.root.appendChild(p.codeNode)
	p.state = stateCodeBlock
	p.codeIndented = false
	p.code.Reset()
	p.fenceLang.Reset()
	p.fenceLangDone = false
	p.activeItem = nil
	p.quoteToks = nil
	p.resetDeferral()
	p.markDecided()
}

// openIndentedCode starts an indented code block whose first line begins
// with tok. Indentation beyond the 4-column threshold is content.
func (p *blockParser) openIndentedCode(tok Token) {
	p.finalizeOpenBlock()
	p.codeNode = &Node{Kind: NodeCodeBlock}
	p.root.appendChild(p.codeNode)
	p.state = stateCodeBlock
	p.codeIndented = true
	p.code.Reset()
	for i := 4; i < p.defIndent; i++ {
		p.code.WriteByte(' ')
	}
	p.activeItem = nil
	p.quoteToks = nil
	p.resetDeferral()
	p.markDecided()
	p.codeLineBody = true
	p.codeLineInd = 0
	p.codeLineToks = p.codeLineToks[:0]
	if tok.Kind != TokenNewline {
		p.code.WriteString(tok.Text)
	} else {
		p.acceptCode(tok)
	}
}

// --- decided-line content ----------------------------------------------

func (p *blockParser) acceptContent(tok Token) {
	p.markDecided()
	if p.quoteSpacePend {
		p.quoteSpacePend = false
		if tok.Kind == TokenSpace {
			return
		}
	}
	if tok.Kind == TokenTripleBacktick {
		p.openFence()
		return
	}
	p.ensureBlock()
	if tok.Kind != TokenSpace && tok.Kind != TokenTab {
		p.lineHadContent = true
	}
	p.inline = append(p.inline, tok)
	p.line = append(p.line, tok)
}

// ensureBlock opens an implicit paragraph when content arrives with no block
// open.
func (p *blockParser) ensureBlock() {
	if p.state != stateDocument {
		return
	}
	para := &Node{Kind: NodeParagraph}
	p.root.appendChild(para)
	p.open = para
	p.state = stateParagraph
	p.activeItem = nil
	p.quoteToks = nil
	p.inline = p.inline[:0]
	p.lineInlineStart = 0
}

// --- end of line --------------------------------------------------------

func (p *blockParser) endOfLine(end bool) {
	if p.skipLine {
		p.skipLine = false
		p.startNewLine()
		return
	}
	if !p.lineDecided {
		p.resolveLineEnd(end)
		if !end {
			p.startNewLine()
		}
		return
	}
	if !p.lineHadContent {
		p.handleBlankLine()
		if !end {
			p.startNewLine()
		}
		return
	}
	if p.trySetextEquals() {
		p.startNewLine()
		return
	}
	switch p.state {
	case stateHeading:
		p.finalizeOpenBlock()
	case stateListItem:
		p.finalizeOpenBlock()
	case stateParagraph, stateBlockquote:
		p.appendSoftBreak()
		p.lineInlineStart = len(p.inline)
	}
	if !end {
		p.startNewLine()
	}
}

// resolveLineEnd settles a line that ended while still undecided: blank
// line, horizontal rule, setext underline, or literal commit.
func (p *blockParser) resolveLineEnd(end bool) {
	if p.headingPend > 0 {
		p.commitDeferred()
		p.finalizeLineTail()
		return
	}
	if len(p.deferred) == 0 || p.defMarker == TokenText {
		// Nothing but indentation: a blank line.
		p.resetDeferral()
		p.handleBlankLine()
		return
	}
	// Setext: dashes only, unspaced, directly under an open paragraph.
	if p.hrRune == '-' && !p.hrSpaced && !p.defHasPeriod &&
		(p.state == stateParagraph || p.state == stateBlockquote) && len(p.inline) > 0 {
		p.convertSetext(2)
		p.resetDeferral()
		return
	}
	if p.hrRune != 0 && p.hrCount >= 3 {
		p.finalizeOpenBlock()
		p.root.appendChild(&Node{Kind: NodeRule})
		p.lastClosed = NodeRule
		p.resetDeferral()
		p.blankSeen = false
		return
	}
	p.commitDeferred()
	p.finalizeLineTail()
}

// finalizeLineTail applies the decided-line newline behavior after a late
// literal commit.
func (p *blockParser) finalizeLineTail() {
	if p.trySetextEquals() {
		return
	}
	switch p.state {
	case stateHeading, stateListItem:
		p.finalizeOpenBlock()
	case stateParagraph, stateBlockquote:
		p.appendSoftBreak()
		p.lineInlineStart = len(p.inline)
	}
}

// trySetextEquals converts "Title\n=====" into a level-1 heading: the
// just-completed line must be equals signs only and the paragraph must
// already have content from an earlier line.
func (p *blockParser) trySetextEquals() bool {
	if p.state != stateParagraph || p.lineInlineStart == 0 || len(p.line) == 0 {
		return false
	}
	for _, t := range p.line {
		switch t.Kind {
		case TokenText:
			if strings.Trim(t.Text, "=") != "" {
				return false
			}
		case TokenSpace, TokenTab:
		default:
			return false
		}
	}
	hasEq := false
	for _, t := range p.line {
		if t.Kind == TokenText {
			hasEq = true
		}
	}
	if !hasEq {
		return false
	}
	p.inline = p.inline[:p.lineInlineStart]
	p.convertSetext(1)
	return true
}

// convertSetext retroactively turns the open paragraph into a heading,
// reusing its already-accumulated inline content, and closes it. The
// underline produces no node of its own.
func (p *blockParser) convertSetext(level int) {
	node := p.open
	node.Kind = NodeHeading
	node.Level = level
	p.state = stateHeading
	p.finalizeOpenBlock()
}

func (p *blockParser) handleBlankLine() {
	switch p.state {
	case stateParagraph, stateHeading, stateBlockquote:
		p.finalizeOpenBlock()
	case stateListItem:
		p.finalizeOpenBlock()
	}
	p.quoteToks = nil // a blank line ends blockquote continuation
	p.blankSeen = true
}

func (p *blockParser) startNewLine() {
	p.lineDecided = false
	p.lineHadContent = false
	p.line = p.line[:0]
	p.resetDeferral()
	p.quoteSpacePend = false
	if p.state == stateParagraph || p.state == stateBlockquote || p.state == stateListItem {
		p.lineInlineStart = len(p.inline)
	}
}

func (p *blockParser) appendSoftBreak() {
	if len(p.inline) == 0 {
		return
	}
	if last := p.inline[len(p.inline)-1]; last.Kind == TokenSpace {
		return
	}
	p.inline = append(p.inline, Token{Kind: TokenSpace, Text: " "})
}

// --- finalization -------------------------------------------------------

// finalizeOpenBlock closes the open container: its accumulated inline
// tokens run through the inline parser and become the container's children,
// and the state returns to Document.
func (p *blockParser) finalizeOpenBlock() {
	switch p.state {
	case stateDocument:
		return
	case stateCodeBlock:
		p.closeCode(false)
		return
	}
	toks := trimSpaceTokens(p.inline)
	switch p.state {
	case stateParagraph:
		p.open.Children = parseInline(toks)
		if len(p.open.Children) == 0 {
			p.root.removeLastChild()
		} else {
			p.lastClosed = NodeParagraph
		}
	case stateHeading:
		p.open.Children = parseInline(toks)
		p.lastClosed = NodeHeading
	case stateBlockquote:
		p.open.Children = parseInline(toks)
		p.quoteToks = append([]Token(nil), toks...)
		if len(p.open.Children) == 0 {
			p.root.removeLastChild()
			p.quoteToks = nil
		} else {
			p.lastClosed = NodeBlockquote
		}
	case stateListItem:
		p.open.Children = parseInline(toks)
		if len(p.open.Children) == 0 && p.activeItem != nil {
			p.activeItem.removeLastChild()
		}
		p.lastClosed = NodeListItem
	}
	p.open = nil
	p.inline = p.inline[:0]
	p.lineInlineStart = 0
	p.state = stateDocument
}

func trimSpaceTokens(toks []Token) []Token {
	start := 0
	for start < len(toks) && (toks[start].Kind == TokenSpace || toks[start].Kind == TokenTab) {
		start++
	}
	end := len(toks)
	for end > start && (toks[end-1].Kind == TokenSpace || toks[end-1].Kind == TokenTab) {
		end--
	}
	return toks[start:end]
}

// --- code blocks --------------------------------------------------------

func (p *blockParser) acceptCode(tok Token) {
	if p.codeIndented {
		p.acceptIndentedCode(tok)
		return
	}
	if !p.fenceLangDone {
		switch tok.Kind {
		case TokenNewline:
			p.fenceLangDone = true
		case TokenEnd:
			p.closeCode(true)
		case TokenTripleBacktick:
			// Empty fenced block: ``` immediately closed.
			p.closeCode(false)
			p.skipLine = true
		default:
			p.fenceLang.WriteString(tok.Text)
		}
		p.syncCodeNode()
		return
	}
	switch tok.Kind {
	case TokenTripleBacktick:
		p.closeCode(false)
		p.skipLine = true
	case TokenEnd:
		p.closeCode(true)
	default:
		p.code.WriteString(tok.Text)
		p.syncCodeNode()
	}
}

// acceptIndentedCode processes one token of an indented code block. Each
// line re-measures indentation; a line with less than 4 columns of indent
// closes the block and is replayed through the normal path.
func (p *blockParser) acceptIndentedCode(tok Token) {
	if p.codeLineBody {
		switch tok.Kind {
		case TokenNewline:
			p.code.WriteByte('\n')
			p.codeLineBody = false
			p.codeLineInd = 0
			p.codeLineToks = p.codeLineToks[:0]
			p.syncCodeNode()
		case TokenEnd:
			p.closeCode(true)
		default:
			p.code.WriteString(tok.Text)
			p.syncCodeNode()
		}
		return
	}
	switch tok.Kind {
	case TokenSpace:
		p.codeLineInd++
		p.codeLineToks = append(p.codeLineToks, tok)
	case TokenTab:
		p.codeLineInd += 4
		p.codeLineToks = append(p.codeLineToks, tok)
	case TokenNewline:
		// Blank line inside the block; kept, trailing blanks trimmed later.
		p.code.WriteByte('\n')
		p.codeLineInd = 0
		p.codeLineToks = p.codeLineToks[:0]
		p.syncCodeNode()
	case TokenEnd:
		p.closeCode(true)
	default:
		if p.codeLineInd >= 4 {
			for i := 4; i < p.codeLineInd; i++ {
				p.code.WriteByte(' ')
			}
			p.codeLineBody = true
			p.code.WriteString(tok.Text)
			p.syncCodeNode()
			return
		}
		// Outdented: the block is over; replay this line normally.
		replay := append([]Token(nil), p.codeLineToks...)
		p.codeLineToks = p.codeLineToks[:0]
		p.closeCode(true)
		p.startNewLine()
		for _, r := range replay {
			p.accept(r)
		}
		p.accept(tok)
	}
}

// closeCode finalizes the open code block. A fenced block closed by its
// fence drops the newline immediately before the fence; an unterminated or
// indented block keeps content as accumulated (minus trailing blank lines
// for indented blocks).
func (p *blockParser) closeCode(atEnd bool) {
	if p.codeNode == nil {
		p.state = stateDocument
		return
	}
	content := p.code.String()
	if p.codeIndented {
		content = strings.TrimRight(content, "\n")
	} else if !atEnd {
		content = strings.TrimSuffix(content, "\n")
	}
	p.codeNode.Content = content
	if lang := strings.TrimSpace(p.fenceLang.String()); lang != "" {
		p.codeNode.Language = lang
	}
	p.codeNode = nil
	p.code.Reset()
	p.fenceLang.Reset()
	p.codeIndented = false
	p.codeLineBody = false
	p.state = stateDocument
	p.lastClosed = NodeCodeBlock
	p.blankSeen = false
}

// syncCodeNode keeps the in-tree code node readable between accepts.
func (p *blockParser) syncCodeNode() {
	if p.codeNode != nil {
		p.codeNode.Content = p.code.String()
	}
}

func atoiClamped(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
		if n > 1<<30 {
			return 1 << 30
		}
	}
	return n
}
