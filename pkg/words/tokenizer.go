package words

import (
	"bufio"
	"io"
	"strings"
)

// separators are the characters tokens are split on within a line.
const separators = " \t\r\n"

// maxLineLength bounds a single input line.
const maxLineLength = 1 << 20

// Token is a single tokenized word and the 1-based line it was read from.
type Token struct {
	Text string
	Line int
}

// Stream is a stateful tokenizer that processes a reader line by line,
// returning one token at a time.
type Stream struct {
	scanner *bufio.Scanner
	buffer  []string
	line    int
}

// NewStream returns a Stream reading from r.
func NewStream(r io.Reader) *Stream {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	return &Stream{scanner: scanner}
}

// Next returns the next token from the stream. When the stream is exhausted,
// it returns a nil Token and io.EOF. Any other error indicates a problem
// reading from the underlying reader.
func (s *Stream) Next() (*Token, error) {
	for len(s.buffer) == 0 { // Loop until we have tokens
		if !s.scanner.Scan() {
			if err := s.scanner.Err(); err != nil {
				return nil, err
			}
			return nil, io.EOF
		}
		s.line++
		s.buffer = strings.FieldsFunc(s.scanner.Text(), func(r rune) bool {
			return strings.ContainsRune(separators, r)
		})
	}

	word := s.buffer[0]
	s.buffer = s.buffer[1:]
	return &Token{Text: word, Line: s.line}, nil
}
