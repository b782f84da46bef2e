package mdstream

import "testing"

func TestAppendChildMergesText(t *testing.T) {
	p := &Node{Kind: NodeParagraph}
	p.appendChild(&Node{Kind: NodeText, Content: "a"})
	p.appendChild(&Node{Kind: NodeText, Content: "b"})
	p.appendChild(&Node{Kind: NodeStrong})
	p.appendChild(&Node{Kind: NodeText, Content: "c"})
	if len(p.Children) != 3 {
		t.Fatalf("got %d children, want 3: %s", len(p.Children), p.Sexpr())
	}
	if p.Children[0].Content != "ab" {
		t.Fatalf("adjacent text not merged: %q", p.Children[0].Content)
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := ParseString("# h\n\n*em* text")
	clone := orig.Clone()
	if clone.Sexpr() != orig.Sexpr() {
		t.Fatalf("clone differs:\n orig  %s\n clone %s", orig.Sexpr(), clone.Sexpr())
	}
	clone.Children[0].Children[0].Content = "mutated"
	if orig.Children[0].Children[0].Content == "mutated" {
		t.Fatal("mutating the clone reached the original")
	}
}

func TestWalkPrune(t *testing.T) {
	tree := ParseString("*em* plain")
	var kinds []NodeKind
	Walk(tree, func(n *Node) bool {
		kinds = append(kinds, n.Kind)
		return n.Kind != NodeEmphasis // prune below emphasis
	})
	want := []NodeKind{NodeDocument, NodeParagraph, NodeEmphasis, NodeText}
	if len(kinds) != len(want) {
		t.Fatalf("visited %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("visited %v, want %v", kinds, want)
		}
	}
}

func TestPlainText(t *testing.T) {
	tree := ParseString("# Head\n\n**bold** and `code`")
	if got := tree.PlainText(); got != "Headbold and code" {
		t.Fatalf("plain text is %q", got)
	}
}

func TestIsContainer(t *testing.T) {
	leaves := []NodeKind{NodeText, NodeCodeBlock, NodeCodeInline, NodeRule}
	for _, k := range leaves {
		if (&Node{Kind: k}).IsContainer() {
			t.Fatalf("%v should be a leaf", k)
		}
	}
	containers := []NodeKind{NodeDocument, NodeParagraph, NodeHeading, NodeStrong, NodeListItem, NodeBlockquote, NodeLink}
	for _, k := range containers {
		if !(&Node{Kind: k}).IsContainer() {
			t.Fatalf("%v should be a container", k)
		}
	}
}
