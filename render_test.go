package mdstream

import (
	"strings"
	"testing"
)

// stripANSI removes CSI and OSC escape sequences, leaving printable text.
func stripANSI(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); {
		if s[i] != 0x1b {
			b.WriteByte(s[i])
			i++
			continue
		}
		if i+1 < len(s) && s[i+1] == '[' {
			j := i + 2
			for j < len(s) && s[j] < 0x40 {
				j++
			}
			i = j + 1
			continue
		}
		if i+1 < len(s) && s[i+1] == ']' {
			j := i + 2
			for j < len(s) {
				if s[j] == 0x07 {
					j++
					break
				}
				if s[j] == 0x1b && j+1 < len(s) && s[j+1] == '\\' {
					j += 2
					break
				}
				j++
			}
			i = j
			continue
		}
		if i+1 < len(s) && s[i+1] == '\\' {
			i += 2
			continue
		}
		i++
	}
	return b.String()
}

func renderString(t *testing.T, input string, width int, opts ...RenderOption) string {
	t.Helper()
	var b strings.Builder
	err := Render(RenderRequest{
		Node:    ParseString(input),
		Writer:  &b,
		Width:   width,
		Options: opts,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return b.String()
}

func TestRenderHeading(t *testing.T) {
	out := renderString(t, "# Hello", 80)
	if got := stripANSI(out); got != "Hello\n" {
		t.Fatalf("got %q, want %q", got, "Hello\n")
	}
	if !strings.Contains(out, "\x1b[") {
		t.Fatal("default theme should style headings")
	}
}

func TestRenderList(t *testing.T) {
	out := stripANSI(renderString(t, "- a\n- b", 80))
	want := "• a\n• b\n"
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestRenderOrderedList(t *testing.T) {
	out := stripANSI(renderString(t, "1. x\n2. y", 80))
	want := "1. x\n2. y\n"
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestRenderNestedListIndent(t *testing.T) {
	out := stripANSI(renderString(t, "- a\n  - b", 80))
	want := "• a\n  • b\n"
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestRenderRuleWidth(t *testing.T) {
	out := stripANSI(renderString(t, "---", 10))
	want := strings.Repeat("─", 10) + "\n"
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestRenderBlockquote(t *testing.T) {
	out := stripANSI(renderString(t, "> hi", 80))
	want := "│ hi\n"
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestRenderCodeBlockIndent(t *testing.T) {
	out := stripANSI(renderString(t, "```\ncode\n```", 80))
	want := "  code\n"
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestRenderWraps(t *testing.T) {
	out := stripANSI(renderString(t, "aaa bbb ccc", 7, WithBare(true)))
	want := "aaa bbb\nccc\n"
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestRenderBare(t *testing.T) {
	out := renderString(t, "# h\n\n**b** *i* `c`\n\n> q", 80, WithBare(true))
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("bare output contains escapes: %q", out)
	}
}

func TestRenderOSC8Link(t *testing.T) {
	out := renderString(t, "[text](http://example.com)", 80, WithOSC8(true))
	if !strings.Contains(out, "\x1b]8;;http://example.com") {
		t.Fatalf("missing osc8 open sequence: %q", out)
	}
	if got := stripANSI(out); got != "text\n" {
		t.Fatalf("osc8 visible text is %q, want %q", got, "text\n")
	}
}

func TestRenderPlainLink(t *testing.T) {
	out := stripANSI(renderString(t, "[text](http://x)", 80))
	want := "text (http://x)\n"
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestRenderBlockSeparation(t *testing.T) {
	out := stripANSI(renderString(t, "a\n\nb", 80, WithBare(true)))
	want := "a\n\nb\n"
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestRenderNilChecks(t *testing.T) {
	if err := Render(RenderRequest{Writer: &strings.Builder{}}); err == nil {
		t.Fatal("expected error for nil node")
	}
	if err := Render(RenderRequest{Node: &Node{Kind: NodeDocument}}); err == nil {
		t.Fatal("expected error for nil writer")
	}
}
