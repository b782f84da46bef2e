package mdstream

import (
	"bufio"
	"fmt"
	"io"
	"sync"
	"unicode/utf8"
)

var sessionPool = sync.Pool{
	New: func() any {
		return NewSession()
	},
}

var readerPool = sync.Pool{
	New: func() any {
		return bufio.NewReaderSize(nil, 4096)
	},
}

// Session is the incremental feeding surface: an io.Writer of UTF-8 text
// wired to a Tokenizer and block parser. Bytes may be written in arbitrary
// chunks, down to one byte at a time; multi-byte sequences split across
// writes are reassembled, and the resulting tree is identical to a single
// batch write of the same bytes. Not safe for concurrent use.
type Session struct {
	tok    *Tokenizer
	parser *blockParser

	tail    [utf8.UTFMax]byte
	tailLen int
}

// NewSession returns a Session ready for writes.
func NewSession() *Session {
	return &Session{
		tok:    NewTokenizer(),
		parser: newBlockParser(),
	}
}

// Write feeds a chunk of UTF-8 text. Control characters other than newline
// and tab are dropped, carriage returns are swallowed so CRLF arrives as a
// plain newline, and invalid bytes are skipped. Write never fails; it
// returns len(p) to satisfy io.Writer.
func (s *Session) Write(p []byte) (int, error) {
	data := p
	// Drain the carried tail byte by byte until it holds a full rune, so the
	// chunk loop below only ever sees rune-aligned data. Draining through a
	// fixed join window instead can strand the lead bytes of a second rune
	// in the tail while its continuation bytes are still ahead in data.
	for s.tailLen > 0 {
		for !utf8.FullRune(s.tail[:s.tailLen]) && s.tailLen < utf8.UTFMax {
			if len(data) == 0 {
				return len(p), nil
			}
			s.tail[s.tailLen] = data[0]
			s.tailLen++
			data = data[1:]
		}
		r, size := utf8.DecodeRune(s.tail[:s.tailLen])
		if r != utf8.RuneError || size > 1 {
			s.FeedRune(r)
		}
		copy(s.tail[:], s.tail[size:s.tailLen])
		s.tailLen -= size
	}
	for len(data) > 0 {
		chunk := data
		if len(chunk) > 4096 {
			chunk = chunk[:4096]
		}
		var out [4096]byte
		clean, rest := sanitizeBytes(out[:len(chunk)], chunk)
		s.feedBytes(clean)
		if len(rest) > 0 && len(chunk) < len(data) {
			// Split rune across our own chunking; re-reads on next pass.
			data = data[len(chunk)-len(rest):]
			continue
		}
		s.tailLen = copy(s.tail[:], rest)
		data = data[len(chunk):]
	}
	return len(p), nil
}

// WriteString feeds a string chunk.
func (s *Session) WriteString(str string) error {
	_, err := s.Write([]byte(str))
	return err
}

// FeedRune feeds a single decoded code point, bypassing byte reassembly.
func (s *Session) FeedRune(r rune) {
	if r == '\r' || isControlRune(r) {
		return
	}
	for _, tok := range s.tok.Accept(r) {
		s.parser.accept(tok)
	}
}

func (s *Session) feedBytes(data []byte) {
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			data = data[1:]
			continue
		}
		s.FeedRune(r)
		data = data[size:]
	}
}

// Flush drives the tokenizer and parser to end-of-stream and returns the
// completed tree. Flushing twice without intervening writes mutates
// nothing the second time. The tree remains owned by the Session; callers
// that outlive it should Clone.
func (s *Session) Flush() *Node {
	for _, tok := range s.tok.Flush() {
		s.parser.accept(tok)
	}
	s.parser.flush()
	return s.parser.tree()
}

// Tree returns the live tree as parsed so far, without ending the stream.
// Open blocks are absent until enough input commits them; the returned
// pointer must be treated as read-only and may mutate on the next write.
func (s *Session) Tree() *Node {
	return s.parser.tree()
}

// Buffered returns text accepted but not yet classified into tokens.
func (s *Session) Buffered() string {
	return s.tok.BufferedContent()
}

// Reset returns the Session to its initial empty state.
func (s *Session) Reset() {
	s.tok.Reset()
	s.parser.reset()
	s.tailLen = 0
}

// ParseRequest configures Parse.
type ParseRequest struct {
	Reader io.Reader
}

// Parse reads all of req.Reader and returns the document tree.
func Parse(req ParseRequest) (*Node, error) {
	if req.Reader == nil {
		return nil, fmt.Errorf("parse: reader is nil")
	}
	sess := sessionPool.Get().(*Session)
	sess.Reset()
	reader := readerPool.Get().(*bufio.Reader)
	reader.Reset(req.Reader)
	defer func() {
		sess.Reset()
		sessionPool.Put(sess)
		reader.Reset(nil)
		readerPool.Put(reader)
	}()
	var buf [4096]byte
	for {
		n, err := reader.Read(buf[:])
		if n > 0 {
			if _, werr := sess.Write(buf[:n]); werr != nil {
				return nil, fmt.Errorf("parse: %w", werr)
			}
		}
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("parse: read: %w", err)
		}
	}
	return sess.Flush().Clone(), nil
}

// ParseString parses a complete document held in memory.
func ParseString(src string) *Node {
	sess := sessionPool.Get().(*Session)
	sess.Reset()
	sess.WriteString(src)
	tree := sess.Flush().Clone()
	sess.Reset()
	sessionPool.Put(sess)
	return tree
}
