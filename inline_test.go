package mdstream

import "testing"

func inlineTokens(input string) []Token {
	toks := collectTokens(input)
	// Drop the end marker; parseInline ignores it but the fixtures read
	// cleaner without it.
	if len(toks) > 0 && toks[len(toks)-1].Kind == TokenEnd {
		toks = toks[:len(toks)-1]
	}
	return toks
}

func inlineSexpr(nodes []*Node) string {
	wrap := &Node{Kind: NodeParagraph, Children: nodes}
	return wrap.Sexpr()
}

func TestInlineResolution(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"plain", `(paragraph (text "plain"))`},
		{"*em*", `(paragraph (emphasis (text "em")))`},
		{"**st**", `(paragraph (strong (text "st")))`},
		{"***se***", `(paragraph (strong_emphasis (text "se")))`},
		{"~~del~~", `(paragraph (strikethrough (text "del")))`},
		{"_em_ __st__ ___se___", `(paragraph (emphasis (text "em")) (text " ") (strong (text "st")) (text " ") (strong_emphasis (text "se")))`},
		{"a *b* c", `(paragraph (text "a ") (emphasis (text "b")) (text " c"))`},
		{"**a *b* c**", `(paragraph (strong (text "a ") (emphasis (text "b")) (text " c")))`},
	}
	for _, tc := range cases {
		got := inlineSexpr(parseInline(inlineTokens(tc.input)))
		if got != tc.want {
			t.Fatalf("input %q:\n got  %s\n want %s", tc.input, got, tc.want)
		}
	}
}

func TestInlineCodeSpans(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"`code`", `(paragraph (code_inline "code"))`},
		{"`a *b*`", `(paragraph (code_inline "a *b*"))`},
		// Double-backtick span containing a single backtick, with the
		// one-space trim applied.
		{"`` ` ``", `(paragraph (code_inline "` + "`" + `"))`},
		{"` spaced `", `(paragraph (code_inline "spaced"))`},
		{"` onlyleft", `(paragraph (text "` + "`" + ` onlyleft"))`},
	}
	for _, tc := range cases {
		got := inlineSexpr(parseInline(inlineTokens(tc.input)))
		if got != tc.want {
			t.Fatalf("input %q:\n got  %s\n want %s", tc.input, got, tc.want)
		}
	}
}

func TestInlineLinks(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"[t](u)", `(paragraph (link url="u" (text "t")))`},
		{"[a [b]](c)", `(paragraph (link url="c" (text "a [b]")))`},
		{"[x](a(b))", `(paragraph (link url="a(b)" (text "x")))`},
		{"[broken", `(paragraph (text "[broken"))`},
		{"[no](", `(paragraph (text "[no]("))`},
		{"[*em*](u)", `(paragraph (link url="u" (emphasis (text "em"))))`},
	}
	for _, tc := range cases {
		got := inlineSexpr(parseInline(inlineTokens(tc.input)))
		if got != tc.want {
			t.Fatalf("input %q:\n got  %s\n want %s", tc.input, got, tc.want)
		}
	}
}

func TestInlineUnmatchedDegradesToText(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"**open", `(paragraph (text "**open"))`},
		{"*", `(paragraph (text "*"))`},
		{"~~half", `(paragraph (text "~~half"))`},
		{"a__b", `(paragraph (text "a__b"))`},
	}
	for _, tc := range cases {
		got := inlineSexpr(parseInline(inlineTokens(tc.input)))
		if got != tc.want {
			t.Fatalf("input %q:\n got  %s\n want %s", tc.input, got, tc.want)
		}
	}
}
