package mdstream

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"
)

const clearScreen = "\x1b[2J\x1b[H"

// StreamSimulateRequest configures StreamSimulate.
type StreamSimulateRequest struct {
	Reader    io.Reader
	Writer    io.Writer
	Width     int
	Theme     Theme
	ChunkSize int
	Delay     time.Duration
	Interval  time.Duration // reveal cadence, DefaultRevealInterval if zero
	Drain     time.Duration // drain window, DefaultDrainWindow if zero
	Options   []RenderOption
}

// StreamSimulate reads Markdown from Reader in paced chunks, as if produced
// by a live generator, and repaints Writer with the revealed portion of the
// parsed document on every frame. Intended for demos and for eyeballing
// reveal pacing; each frame clears the screen.
func StreamSimulate(req StreamSimulateRequest) error {
	if req.Reader == nil {
		return fmt.Errorf("stream simulate: Reader is nil")
	}
	if req.Writer == nil {
		return fmt.Errorf("stream simulate: Writer is nil")
	}
	if req.ChunkSize <= 0 {
		return fmt.Errorf("stream simulate: ChunkSize must be > 0")
	}
	opts := []RevealOption{}
	if req.Interval > 0 {
		opts = append(opts, WithRevealInterval(req.Interval))
	}
	if req.Drain > 0 {
		opts = append(opts, WithDrainWindow(req.Drain))
	}
	revealer := NewRevealer(opts...)
	revealer.Publish("simulate", 0, true)
	sess := NewSession()
	defer sess.Reset()
	reader := readerPool.Get().(*bufio.Reader)
	reader.Reset(req.Reader)
	defer func() {
		reader.Reset(nil)
		readerPool.Put(reader)
	}()

	frame := func(tree *Node, revealed int) error {
		var b strings.Builder
		b.WriteString(clearScreen)
		visible := RevealTree(tree, revealed)
		if err := Render(RenderRequest{
			Node:    visible,
			Writer:  &b,
			Width:   req.Width,
			Theme:   req.Theme,
			Options: req.Options,
		}); err != nil {
			return err
		}
		_, err := io.WriteString(req.Writer, b.String())
		return err
	}

	chunk := make([]rune, 0, req.ChunkSize)
	flushChunk := func() error {
		if len(chunk) == 0 {
			return nil
		}
		for _, r := range chunk {
			sess.FeedRune(r)
		}
		chunk = chunk[:0]
		if req.Delay > 0 {
			time.Sleep(req.Delay)
		}
		tree := sess.Tree()
		revealer.Grow(utf8.RuneCountInString(tree.PlainText()))
		revealed := revealer.Tick(time.Now())
		return frame(tree, revealed)
	}

	for {
		r, size, err := reader.ReadRune()
		if err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("stream simulate: read: %w", err)
		}
		if r == utf8.RuneError && size == 1 {
			continue
		}
		chunk = append(chunk, r)
		if len(chunk) >= req.ChunkSize {
			if err := flushChunk(); err != nil {
				return fmt.Errorf("stream simulate: %w", err)
			}
		}
	}
	if err := flushChunk(); err != nil {
		return fmt.Errorf("stream simulate: %w", err)
	}
	tree := sess.Flush()
	revealer.Grow(utf8.RuneCountInString(tree.PlainText()))
	revealer.FinishInput(time.Now())
	for !revealer.Done() {
		time.Sleep(DefaultTickPeriod)
		revealed := revealer.Tick(time.Now())
		if err := frame(tree, revealed); err != nil {
			return fmt.Errorf("stream simulate: %w", err)
		}
	}
	// Final frame with the untruncated tree, so zero-length content such as
	// a lone rule still shows.
	var b strings.Builder
	b.WriteString(clearScreen)
	if err := Render(RenderRequest{
		Node:    tree,
		Writer:  &b,
		Width:   req.Width,
		Theme:   req.Theme,
		Options: req.Options,
	}); err != nil {
		return fmt.Errorf("stream simulate: %w", err)
	}
	if _, err := io.WriteString(req.Writer, b.String()); err != nil {
		return fmt.Errorf("stream simulate: %w", err)
	}
	return nil
}

// RevealTree returns a copy of the tree truncated to the first budget code
// points of plain-text content. Structure markers cost nothing; text, code
// span and code block leaves consume the budget and the first leaf past it
// is cut mid-content.
func RevealTree(n *Node, budget int) *Node {
	out, _ := revealTree(n, budget)
	return out
}

func revealTree(n *Node, budget int) (*Node, int) {
	if n == nil {
		return nil, budget
	}
	out := *n
	out.Children = nil
	switch n.Kind {
	case NodeText, NodeCodeInline, NodeCodeBlock:
		count := utf8.RuneCountInString(n.Content)
		if count <= budget {
			return &out, budget - count
		}
		out.Content = RevealSlice(n.Content, budget)
		return &out, 0
	}
	for _, c := range n.Children {
		if budget <= 0 {
			break
		}
		var child *Node
		child, budget = revealTree(c, budget)
		if child != nil {
			out.Children = append(out.Children, child)
		}
	}
	return &out, budget
}
