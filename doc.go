// Package mdstream parses Markdown incrementally into a document tree.
//
// This package is built for token-streaming text producers: text arrives a
// few code points at a time, and the parser re-derives a stable document
// tree after every write without reprocessing prior input. Locally ambiguous
// constructs (list markers vs. punctuation, horizontal rules vs. emphasis
// runs, setext headings vs. plain text) are resolved with bounded lookahead
// held in small deferred-token buffers.
//
// Core properties:
//   - Character-level tokenizer with bounded lookahead
//   - Pushdown-automaton block parser appending into a mutable tree
//   - Pure recursive inline parser for delimiter runs, links and code spans
//   - Reveal scheduler pacing visible disclosure independently of parsing
//
// Example:
//
//	tree := mdstream.ParseString("# Hello\n\nMarkdown in, tree out.\n")
//	err := mdstream.Render(mdstream.RenderRequest{
//		Node:   tree,
//		Writer: os.Stdout,
//		Width:  80,
//		Theme:  mdstream.DefaultTheme(),
//	})
//
// Parsing is permissive: malformed syntax degrades to literal text, never to
// an error. Errors are reported only for I/O and invalid input encodings.
package mdstream
