package mdstream

import (
	"strings"
	"testing"
)

func collectTokens(input string) []Token {
	tok := NewTokenizer()
	var out []Token
	for _, r := range input {
		out = append(out, tok.Accept(r)...)
	}
	out = append(out, tok.Flush()...)
	return out
}

func kinds(toks []Token) []TokenKind {
	out := make([]TokenKind, 0, len(toks))
	for _, t := range toks {
		out = append(out, t.Kind)
	}
	return out
}

func TestTokenizerKinds(t *testing.T) {
	cases := []struct {
		input string
		want  []TokenKind
	}{
		{"**bold**", []TokenKind{TokenDoubleAsterisk, TokenText, TokenDoubleAsterisk, TokenEnd}},
		{"***", []TokenKind{TokenTripleAsterisk, TokenEnd}},
		{"# x", []TokenKind{TokenHashRun, TokenSpace, TokenText, TokenEnd}},
		{"- a", []TokenKind{TokenDash, TokenSpace, TokenText, TokenEnd}},
		{"123. x", []TokenKind{TokenDigitRun, TokenPeriod, TokenSpace, TokenText, TokenEnd}},
		{"~~x~~", []TokenKind{TokenDoubleTilde, TokenText, TokenDoubleTilde, TokenEnd}},
		{"a~b", []TokenKind{TokenText, TokenEnd}},
		{"``", []TokenKind{TokenBacktick, TokenBacktick, TokenEnd}},
		{"```", []TokenKind{TokenTripleBacktick, TokenEnd}},
		{"[t](u)", []TokenKind{TokenBracketOpen, TokenText, TokenBracketClose, TokenParenOpen, TokenText, TokenParenClose, TokenEnd}},
		{"> q", []TokenKind{TokenGreater, TokenSpace, TokenText, TokenEnd}},
		{"__x__", []TokenKind{TokenDoubleUnderscore, TokenText, TokenDoubleUnderscore, TokenEnd}},
	}
	for _, tc := range cases {
		got := kinds(collectTokens(tc.input))
		if len(got) != len(tc.want) {
			t.Fatalf("%q: got %v, want %v", tc.input, got, tc.want)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("%q: token %d is %v, want %v", tc.input, i, got[i], tc.want[i])
			}
		}
	}
}

func TestTokenizerRoundTrip(t *testing.T) {
	inputs := []string{
		"## a``b\n~x",
		"plain text with spaces",
		"*em* **st** ***both*** ~~del~~",
		"1. ordered\n22. more",
		"mixed #hash `code` [link](url)",
		"tabs\tand\nnewlines\n",
	}
	for _, input := range inputs {
		var b strings.Builder
		for _, tok := range collectTokens(input) {
			b.WriteString(tok.Text)
		}
		if b.String() != input {
			t.Fatalf("round trip of %q produced %q", input, b.String())
		}
	}
}

func TestTokenizerEagerTriple(t *testing.T) {
	tok := NewTokenizer()
	tok.Accept('*')
	tok.Accept('*')
	out := tok.Accept('*')
	if len(out) != 1 || out[0].Kind != TokenTripleAsterisk {
		t.Fatalf("expected eager triple-asterisk, got %v", out)
	}
}

func TestTokenizerHashRunLevel(t *testing.T) {
	toks := collectTokens("### h")
	if toks[0].Kind != TokenHashRun || toks[0].Level != 3 {
		t.Fatalf("expected hash-run level 3, got %v level %d", toks[0].Kind, toks[0].Level)
	}
}

func TestTokenizerBufferedContent(t *testing.T) {
	tok := NewTokenizer()
	for _, r := range "ab" {
		if out := tok.Accept(r); len(out) != 0 {
			t.Fatalf("unexpected early emission: %v", out)
		}
	}
	if got := tok.BufferedContent(); got != "ab" {
		t.Fatalf("buffered content is %q, want %q", got, "ab")
	}
	tok.Accept('*')
	if got := tok.BufferedContent(); got != "*" {
		t.Fatalf("buffered content after marker is %q, want %q", got, "*")
	}
}

func TestTokenizerFlushIdempotent(t *testing.T) {
	tok := NewTokenizer()
	for _, r := range "abc" {
		tok.Accept(r)
	}
	first := tok.Flush()
	if len(first) != 2 || first[0].Kind != TokenText || first[1].Kind != TokenEnd {
		t.Fatalf("unexpected first flush: %v", first)
	}
	if second := tok.Flush(); len(second) != 0 {
		t.Fatalf("second flush emitted %v", second)
	}
}

func TestTokenizerPositions(t *testing.T) {
	toks := collectTokens("ab *c*")
	// text "ab" at 0, space at 2, asterisk at 3, text "c" at 4, asterisk at 5
	wantPos := []int{0, 2, 3, 4, 5}
	for i, want := range wantPos {
		if toks[i].Pos != want {
			t.Fatalf("token %d (%v) at pos %d, want %d", i, toks[i].Kind, toks[i].Pos, want)
		}
	}
}
