package mdstream

// Token is the minimal classified unit of input produced by the Tokenizer.
// Text always holds the verbatim source text of the token, so concatenating
// token texts reconstructs the input exactly (code blocks rely on this).
// Pos is the code-point index of the token's first character. Level is only
// meaningful for TokenHashRun and records the run length (uncapped; the
// block parser clamps to 6).
type Token struct {
	Kind  TokenKind
	Text  string
	Pos   int
	Level int
}

// TokenKind is a closed enumeration of token classes. The tokenizer
// classifies character shape only (run length, punctuation identity);
// line-position semantics are the block parser's business.
type TokenKind uint8

const (
	// TokenText is a run of characters with no structural meaning.
	TokenText TokenKind = iota
	// TokenNewline is a single line feed.
	TokenNewline
	// TokenEnd marks end of stream; emitted once by Flush.
	TokenEnd
	// TokenSpace is a single space character.
	TokenSpace
	// TokenTab is a single tab character.
	TokenTab
	// TokenHashRun is a run of '#' characters; Level holds the run length.
	TokenHashRun
	// TokenGreater is a single '>'.
	TokenGreater
	// TokenDash is a single '-'.
	TokenDash
	// TokenPlus is a single '+'.
	TokenPlus
	// TokenAsterisk is a single '*'.
	TokenAsterisk
	// TokenDoubleAsterisk is '**'.
	TokenDoubleAsterisk
	// TokenTripleAsterisk is '***'.
	TokenTripleAsterisk
	// TokenUnderscore is a single '_'.
	TokenUnderscore
	// TokenDoubleUnderscore is '__'.
	TokenDoubleUnderscore
	// TokenTripleUnderscore is '___'.
	TokenTripleUnderscore
	// TokenDoubleTilde is '~~'. A lone '~' degrades to text.
	TokenDoubleTilde
	// TokenBacktick is a single '`'.
	TokenBacktick
	// TokenTripleBacktick is '```'.
	TokenTripleBacktick
	// TokenDigitRun is a run of ASCII digits.
	TokenDigitRun
	// TokenPeriod is a single '.'.
	TokenPeriod
	// TokenBracketOpen is '['.
	TokenBracketOpen
	// TokenBracketClose is ']'.
	TokenBracketClose
	// TokenParenOpen is '('.
	TokenParenOpen
	// TokenParenClose is ')'.
	TokenParenClose
)

var tokenKindNames = [...]string{
	TokenText:             "text",
	TokenNewline:          "newline",
	TokenEnd:              "end",
	TokenSpace:            "space",
	TokenTab:              "tab",
	TokenHashRun:          "hash-run",
	TokenGreater:          "greater",
	TokenDash:             "dash",
	TokenPlus:             "plus",
	TokenAsterisk:         "asterisk",
	TokenDoubleAsterisk:   "double-asterisk",
	TokenTripleAsterisk:   "triple-asterisk",
	TokenUnderscore:       "underscore",
	TokenDoubleUnderscore: "double-underscore",
	TokenTripleUnderscore: "triple-underscore",
	TokenDoubleTilde:      "double-tilde",
	TokenBacktick:         "backtick",
	TokenTripleBacktick:   "triple-backtick",
	TokenDigitRun:         "digit-run",
	TokenPeriod:           "period",
	TokenBracketOpen:      "bracket-open",
	TokenBracketClose:     "bracket-close",
	TokenParenOpen:        "paren-open",
	TokenParenClose:       "paren-close",
}

func (k TokenKind) String() string {
	if int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return "unknown"
}
