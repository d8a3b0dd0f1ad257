/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package repl

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/dburkart/gramstats/pkg/grammar"
	"github.com/dburkart/gramstats/pkg/report"
	"github.com/rs/zerolog"
)

// Session accumulates grammar text typed into the shell and evaluates it on
// request.
type Session struct {
	log     zerolog.Logger
	lexicon *grammar.Lexicon
	out     io.Writer
	writer  report.OutputWriter

	buffer bytes.Buffer
	lines  int
	strict bool
}

func NewSession(log zerolog.Logger, lexicon *grammar.Lexicon, out io.Writer, format string) *Session {
	return &Session{
		log:     log,
		lexicon: lexicon,
		out:     out,
		writer:  report.NewOutputWriter(out, format),
	}
}

// Execute runs cmd. It returns false once the session should end.
func (s *Session) Execute(cmd Command) (bool, error) {
	switch cmd.Type {
	case CommandGrammar:
		s.buffer.WriteString(cmd.Arg)
		s.buffer.WriteByte('\n')
		s.lines++
	case CommandStats:
		return true, s.stats()
	case CommandTokens:
		return true, s.tokens()
	case CommandReset:
		s.buffer.Reset()
		s.lines = 0
	case CommandShow:
		_, err := io.Copy(s.out, bytes.NewReader(s.buffer.Bytes()))
		return true, err
	case CommandStrict:
		switch strings.ToLower(cmd.Arg) {
		case "on":
			s.strict = true
		case "off":
			s.strict = false
		}
		fmt.Fprintf(s.out, "strict: %t\n", s.strict)
	case CommandHelp:
		fmt.Fprintln(s.out, "usage:")
		fmt.Fprintln(s.out, "    <grammar text>   append a line to the grammar")
		fmt.Fprintln(s.out, "    .stats           validate the grammar and print its statistics")
		fmt.Fprintln(s.out, "    .tokens          print the tokens of the grammar")
		fmt.Fprintln(s.out, "    .show            print the grammar")
		fmt.Fprintln(s.out, "    .reset           clear the grammar")
		fmt.Fprintln(s.out, "    .strict on|off   reject unused rule sets")
		fmt.Fprintln(s.out, "    exit")
	case CommandExit:
		return false, nil
	}
	return true, nil
}

// Lines returns the number of grammar lines entered since the last reset.
func (s *Session) Lines() int {
	return s.lines
}

func (s *Session) stats() error {
	v, err := grammar.NewValidator(s.lexicon, "<shell>", bytes.NewReader(s.buffer.Bytes()))
	if err != nil {
		return err
	}
	v.SetLogger(s.log)
	v.Strict = s.strict

	stats, err := v.Validate()
	if err != nil {
		return err
	}
	return s.writer.Write(stats)
}

func (s *Session) tokens() error {
	toks, err := s.lexicon.Scanner("<shell>", bytes.NewReader(s.buffer.Bytes())).All()
	if err != nil {
		return err
	}
	return s.writer.Write(report.Tokens[grammar.TokenKind](toks))
}
