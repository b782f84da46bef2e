package mdstream

import "strings"

// Tokenizer converts a stream of code points into Tokens. It is strictly
// left-to-right and context-free: it never inspects line position, only
// character shape. Accept may emit zero or more tokens per input rune; the
// unemitted remainder is at most the longest multi-character marker (three
// runes) plus a pending text run.
type Tokenizer struct {
	pending    rune // marker rune of the pending run, 0 if none
	pendingLen int
	pendingPos int

	text      []rune
	textPos   int
	digits    []rune
	digitsPos int

	pos   int // code points consumed so far
	ended bool

	out      []Token
	textArr  [256]rune
	digitArr [32]rune
}

// NewTokenizer returns a ready Tokenizer.
func NewTokenizer() *Tokenizer {
	t := &Tokenizer{}
	t.text = t.textArr[:0]
	t.digits = t.digitArr[:0]
	return t
}

// Reset returns the Tokenizer to its initial state.
func (t *Tokenizer) Reset() {
	t.pending = 0
	t.pendingLen = 0
	t.pendingPos = 0
	t.text = t.textArr[:0]
	t.textPos = 0
	t.digits = t.digitArr[:0]
	t.digitsPos = 0
	t.pos = 0
	t.ended = false
	t.out = nil
}

// BufferedContent returns the text currently held back waiting for more
// lookahead, in source order.
func (t *Tokenizer) BufferedContent() string {
	var b strings.Builder
	b.WriteString(string(t.text))
	b.WriteString(string(t.digits))
	if t.pending != 0 {
		b.WriteString(strings.Repeat(string(t.pending), t.pendingLen))
	}
	return b.String()
}

func runMax(r rune) int {
	switch r {
	case '*', '_', '`':
		return 3
	case '~':
		return 2
	}
	return 0 // unbounded
}

// Accept consumes one code point and returns the tokens it completed. The
// returned slice is valid until the next call.
func (t *Tokenizer) Accept(r rune) []Token {
	t.out = t.out[:0]
	t.ended = false
	t.acceptRune(r)
	t.pos++
	return t.out
}

func (t *Tokenizer) acceptRune(r rune) {
	if t.pending != 0 {
		if r == t.pending {
			t.pendingLen++
			if max := runMax(t.pending); max > 0 && t.pendingLen == max {
				t.resolvePending()
			}
			return
		}
		t.resolvePending()
	}
	if len(t.digits) > 0 && !(r >= '0' && r <= '9') {
		t.flushDigits()
	}
	switch r {
	case '\n':
		t.flushText()
		t.emit(Token{Kind: TokenNewline, Text: "\n", Pos: t.pos})
	case ' ':
		t.flushText()
		t.emit(Token{Kind: TokenSpace, Text: " ", Pos: t.pos})
	case '\t':
		t.flushText()
		t.emit(Token{Kind: TokenTab, Text: "\t", Pos: t.pos})
	case '>':
		t.flushText()
		t.emit(Token{Kind: TokenGreater, Text: ">", Pos: t.pos})
	case '-':
		t.flushText()
		t.emit(Token{Kind: TokenDash, Text: "-", Pos: t.pos})
	case '+':
		t.flushText()
		t.emit(Token{Kind: TokenPlus, Text: "+", Pos: t.pos})
	case '.':
		t.flushText()
		t.emit(Token{Kind: TokenPeriod, Text: ".", Pos: t.pos})
	case '[':
		t.flushText()
		t.emit(Token{Kind: TokenBracketOpen, Text: "[", Pos: t.pos})
	case ']':
		t.flushText()
		t.emit(Token{Kind: TokenBracketClose, Text: "]", Pos: t.pos})
	case '(':
		t.flushText()
		t.emit(Token{Kind: TokenParenOpen, Text: "(", Pos: t.pos})
	case ')':
		t.flushText()
		t.emit(Token{Kind: TokenParenClose, Text: ")", Pos: t.pos})
	case '*', '_', '`', '#':
		t.startPending(r)
	case '~':
		// A lone tilde is plain text, so the text buffer is not flushed
		// until a second tilde confirms the marker.
		t.pending = r
		t.pendingLen = 1
		t.pendingPos = t.pos
	default:
		if r >= '0' && r <= '9' {
			t.flushText()
			if len(t.digits) == 0 {
				t.digitsPos = t.pos
			}
			t.digits = append(t.digits, r)
			return
		}
		if len(t.text) == 0 {
			t.textPos = t.pos
		}
		t.text = append(t.text, r)
	}
}

// Flush resolves any held-back run, emits pending text, and appends the end
// marker. Calling Flush again without intervening input emits nothing.
func (t *Tokenizer) Flush() []Token {
	t.out = t.out[:0]
	if t.ended {
		return t.out
	}
	if t.pending != 0 {
		t.resolvePending()
	}
	t.flushDigits()
	t.flushText()
	t.emit(Token{Kind: TokenEnd, Pos: t.pos})
	t.ended = true
	return t.out
}

func (t *Tokenizer) startPending(r rune) {
	t.flushText()
	t.pending = r
	t.pendingLen = 1
	t.pendingPos = t.pos
}

// resolvePending emits the token form of the held run. Triple runs for
// '*'/'_'/'`' and double tildes are emitted eagerly from acceptRune the
// moment the run reaches its maximum, so only the shorter forms arrive here.
func (t *Tokenizer) resolvePending() {
	r, n, pos := t.pending, t.pendingLen, t.pendingPos
	t.pending = 0
	t.pendingLen = 0
	switch r {
	case '*':
		t.flushText()
		switch n {
		case 1:
			t.emit(Token{Kind: TokenAsterisk, Text: "*", Pos: pos})
		case 2:
			t.emit(Token{Kind: TokenDoubleAsterisk, Text: "**", Pos: pos})
		default:
			t.emit(Token{Kind: TokenTripleAsterisk, Text: "***", Pos: pos})
		}
	case '_':
		t.flushText()
		switch n {
		case 1:
			t.emit(Token{Kind: TokenUnderscore, Text: "_", Pos: pos})
		case 2:
			t.emit(Token{Kind: TokenDoubleUnderscore, Text: "__", Pos: pos})
		default:
			t.emit(Token{Kind: TokenTripleUnderscore, Text: "___", Pos: pos})
		}
	case '`':
		t.flushText()
		if n == 3 {
			t.emit(Token{Kind: TokenTripleBacktick, Text: "```", Pos: pos})
			return
		}
		for i := 0; i < n; i++ {
			t.emit(Token{Kind: TokenBacktick, Text: "`", Pos: pos + i})
		}
	case '~':
		if n >= 2 {
			t.flushText()
			t.emit(Token{Kind: TokenDoubleTilde, Text: "~~", Pos: pos})
			return
		}
		// Refuted marker: fold the tilde back into the text run.
		if len(t.text) == 0 {
			t.textPos = pos
		}
		t.text = append(t.text, '~')
	case '#':
		t.flushText()
		t.emit(Token{Kind: TokenHashRun, Text: strings.Repeat("#", n), Pos: pos, Level: n})
	}
}

func (t *Tokenizer) flushText() {
	if len(t.text) == 0 {
		return
	}
	t.emit(Token{Kind: TokenText, Text: string(t.text), Pos: t.textPos})
	t.text = t.text[:0]
}

func (t *Tokenizer) flushDigits() {
	if len(t.digits) == 0 {
		return
	}
	t.emit(Token{Kind: TokenDigitRun, Text: string(t.digits), Pos: t.digitsPos})
	t.digits = t.digits[:0]
}

func (t *Tokenizer) emit(tok Token) {
	t.out = append(t.out, tok)
}
