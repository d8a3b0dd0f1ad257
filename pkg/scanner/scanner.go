/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package scanner

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/dburkart/gramstats/pkg/common/parse"
	"github.com/rs/zerolog"
)

// Scanner splits a source into tokens using a compiled Table. It reads the
// source one line at a time and is not safe for concurrent use.
type Scanner[K comparable] struct {
	// Log receives a trace event for every token produced.
	Log zerolog.Logger

	table  *Compiled[K]
	reader *bufio.Reader
	source io.Reader
	closed bool
	done   bool

	name string
	line string
	// Position of the end of the last token
	lineN int
	colN  int
}

// New compiles table and returns a scanner reading from r.
func New[K comparable](name string, r io.Reader, table Table[K]) (*Scanner[K], error) {
	c, err := Compile(table)
	if err != nil {
		return nil, err
	}
	return c.Scanner(name, r), nil
}

// Open returns a scanner reading the file at path. The file is closed when the
// scanner reaches end of input or when Close is called.
func Open[K comparable](path string, table Table[K]) (*Scanner[K], error) {
	c, err := Compile(table)
	if err != nil {
		return nil, err
	}
	return c.Open(path)
}

// Scanner returns a new scanner over r using the compiled table.
func (c *Compiled[K]) Scanner(name string, r io.Reader) *Scanner[K] {
	return &Scanner[K]{
		Log:    zerolog.Nop(),
		table:  c,
		reader: bufio.NewReader(r),
		source: r,
		name:   name,
	}
}

// Open returns a scanner over the file at path using the compiled table.
func (c *Compiled[K]) Open(path string) (*Scanner[K], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &parse.IOError{Name: path, Err: err}
	}
	return c.Scanner(path, f), nil
}

// Name returns the name of the source being scanned.
func (s *Scanner[K]) Name() string {
	return s.name
}

// Close releases the underlying source if it is closable. It is safe to call
// more than once.
func (s *Scanner[K]) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	if c, ok := s.source.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return &parse.IOError{Name: s.name, Err: err}
		}
	}
	return nil
}

// NextToken returns the next significant token. Skip rules are consumed
// silently. Once the source is exhausted, the end-of-input token with lexeme
// "<EOF>" is returned, and is returned again on every later call.
func (s *Scanner[K]) NextToken() (parse.Token[K], error) {
	lineN, colN := s.lineN, s.colN

	for {
		pos := parse.Position{Name: s.name, Line: lineN, Column: colN}

		if s.done {
			return s.eof(pos), nil
		}

		if s.line == "" || colN >= len(s.line) {
			line, err := s.reader.ReadString('\n')
			if err != nil && err != io.EOF {
				// the read error is the one reported
				if cerr := s.Close(); cerr != nil {
					s.Log.Debug().Err(cerr).Str("source", s.name).Msg("unable to close source after read failure")
				}
				return parse.Token[K]{}, &parse.IOError{Name: s.name, Err: err}
			}

			if line == "" {
				s.done = true
				s.lineN, s.colN = lineN, colN
				if err := s.Close(); err != nil {
					return parse.Token[K]{}, err
				}
				return s.eof(pos), nil
			}

			if line[len(line)-1] != '\n' {
				line += "\n"
			}

			s.line = line
			lineN++
			colN = 0
			pos = parse.Position{Name: s.name, Line: lineN, Column: colN}
		}

		rule, width := s.table.match(s.line[colN:])
		if rule < 0 {
			s.lineN, s.colN = lineN, colN
			return parse.Token[K]{}, &parse.LexicalError{
				Position:  pos,
				Message:   "no match",
				Remainder: s.line[colN:],
			}
		}

		if width == 0 {
			s.lineN, s.colN = lineN, colN
			return parse.Token[K]{}, &parse.LexicalError{Position: pos, Message: "empty match"}
		}

		r := s.table.rules[rule]
		if r.Skip {
			colN += width
			continue
		}

		t := parse.Token[K]{
			Kind:     r.Kind,
			Lexeme:   s.line[colN : colN+width],
			Position: pos,
		}
		s.lineN, s.colN = lineN, colN+width

		if e := s.Log.Trace(); e.Enabled() {
			e.Str("pos", pos.String()).Str("kind", fmt.Sprint(t.Kind)).Str("lexeme", t.Lexeme).Msg("token")
		}

		return t, nil
	}
}

func (s *Scanner[K]) eof(pos parse.Position) parse.Token[K] {
	return parse.Token[K]{Kind: s.table.eof, Lexeme: "<EOF>", Position: pos}
}

// EOF returns the end-of-input kind of the scanner's table.
func (s *Scanner[K]) EOF() K {
	return s.table.eof
}

// All reads every remaining token, end of input included. On error the tokens
// read so far are returned with it.
func (s *Scanner[K]) All() ([]parse.Token[K], error) {
	var toks []parse.Token[K]

	for {
		tok, err := s.NextToken()
		if err != nil {
			return toks, err
		}
		toks = append(toks, tok)
		if tok.Kind == s.table.eof {
			return toks, nil
		}
	}
}
