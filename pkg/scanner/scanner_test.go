/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package scanner_test

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dburkart/gramstats/pkg/common/parse"
	"github.com/dburkart/gramstats/pkg/grammar"
	"github.com/dburkart/gramstats/pkg/scanner"
)

var words = scanner.Table[string]{
	{Pattern: "", Kind: "EOF"},
	{Pattern: `\s+`, Skip: true},
	{Pattern: `#.*`, Skip: true},
	{Pattern: `if`, Kind: "KEYWORD"},
	{Pattern: `[a-z]+`, Kind: "ID"},
	{Pattern: `\d+`, Kind: "INT"},
}

func scanAll[K comparable](t *testing.T, table scanner.Table[K], input string) []parse.Token[K] {
	t.Helper()

	s, err := scanner.New("<test>", strings.NewReader(input), table)
	if err != nil {
		t.Fatal(err)
	}

	toks, err := s.All()
	if err != nil {
		t.Fatal(err)
	}
	return toks
}

func TestCompileEOFRules(t *testing.T) {
	tests := []struct {
		name  string
		table scanner.Table[string]
		ok    bool
	}{
		{"one", words, true},
		{"only eof", scanner.Table[string]{{Pattern: "", Kind: "EOF"}}, true},
		{"none", scanner.Table[string]{{Pattern: `\w+`, Kind: "W"}}, false},
		{"two", scanner.Table[string]{{Pattern: "", Kind: "EOF"}, {Pattern: `\w+`, Kind: "W"}, {Pattern: "", Kind: "END"}}, false},
		{"bad regexp", scanner.Table[string]{{Pattern: "", Kind: "EOF"}, {Pattern: `(`, Kind: "W"}}, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := scanner.Compile(test.table)
			if test.ok && err != nil {
				t.Errorf("wanted table to compile, got %s", err)
			}

			var cfgErr *parse.ConfigurationError
			if !test.ok && !errors.As(err, &cfgErr) {
				t.Errorf("wanted a ConfigurationError, got %v", err)
			}
		})
	}
}

func TestEmptySource(t *testing.T) {
	toks := scanAll(t, words, "")

	if len(toks) != 1 {
		t.Fatalf("wanted a single token, got %d", len(toks))
	}

	tok := toks[0]
	if tok.Kind != "EOF" || tok.Lexeme != "<EOF>" {
		t.Errorf("wanted EOF \"<EOF>\", got %s \"%s\"", tok.Kind, tok.Lexeme)
	}
	if tok.Position.Line != 0 || tok.Position.Column != 0 {
		t.Errorf("wanted EOF at 0:0, got %s", tok.Position)
	}
}

func TestGrammarTokens(t *testing.T) {
	toks := scanAll(t, grammar.Patterns(), "a : B ;\n")

	wantKinds := []grammar.TokenKind{grammar.TOK_NONTERMINAL, grammar.TOK_COLON, grammar.TOK_TERMINAL, grammar.TOK_SEMI, grammar.TOK_EOF}
	wantLexemes := []string{"a", ":", "B", ";", "<EOF>"}
	wantColumns := []int{0, 2, 4, 6, 8}

	if len(toks) != len(wantKinds) {
		t.Fatalf("wanted %d tokens, got %d: %v", len(wantKinds), len(toks), toks)
	}

	for i, tok := range toks {
		if tok.Kind != wantKinds[i] {
			t.Error("wanted", wantKinds[i].ToString(), ", got", tok.Kind.ToString())
		}
		if tok.Lexeme != wantLexemes[i] {
			t.Error("wanted", wantLexemes[i], ", got", tok.Lexeme)
		}
		if tok.Position.Line != 1 || tok.Position.Column != wantColumns[i] {
			t.Errorf("wanted '%s' at <test>:1:%d, got %s", tok.Lexeme, wantColumns[i], tok.Position)
		}
	}
}

func TestSkippedLexemesAreInvisible(t *testing.T) {
	spaced := scanAll(t, grammar.Patterns(), "a   :\n  B ; // trailing\n")
	packed := scanAll(t, grammar.Patterns(), "a:B;")

	if len(spaced) != len(packed) {
		t.Fatalf("wanted %d tokens, got %d", len(packed), len(spaced))
	}

	for i := range packed {
		if spaced[i].Kind != packed[i].Kind || spaced[i].Lexeme != packed[i].Lexeme {
			t.Errorf("token %d: wanted %s, got %s", i, packed[i], spaced[i])
		}
	}

	if p := spaced[2].Position; p.Line != 2 || p.Column != 2 {
		t.Errorf("wanted B at <test>:2:2, got %s", p)
	}
}

func TestFirstRuleWins(t *testing.T) {
	toks := scanAll(t, words, "if iffy # comment\n42")

	want := []string{"KEYWORD if", "KEYWORD if", "ID fy", "INT 42", "EOF <EOF>"}
	if len(toks) != len(want) {
		t.Fatalf("wanted %d tokens, got %v", len(want), toks)
	}

	for i, tok := range toks {
		if got := tok.Kind + " " + tok.Lexeme; got != want[i] {
			t.Errorf("wanted '%s', got '%s'", want[i], got)
		}
	}
}

func TestMissingFinalNewline(t *testing.T) {
	toks := scanAll(t, words, "abc")

	if len(toks) != 2 {
		t.Fatalf("wanted 2 tokens, got %v", toks)
	}
	if p := toks[1].Position; p.Line != 1 || p.Column != 4 {
		t.Errorf("wanted EOF at <test>:1:4, got %s", p)
	}
}

func TestEOFRepeats(t *testing.T) {
	s, err := scanner.New("<test>", strings.NewReader("x"), words)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		s.NextToken()
	}

	tok, err := s.NextToken()
	if err != nil || tok.Kind != "EOF" {
		t.Errorf("wanted EOF after end of input, got %s (%v)", tok, err)
	}
}

func TestNoMatch(t *testing.T) {
	s, err := scanner.New("<test>", strings.NewReader("a : $ ;\n"), grammar.Patterns())
	if err != nil {
		t.Fatal(err)
	}

	toks, err := s.All()
	if len(toks) != 2 {
		t.Errorf("wanted 2 tokens before the error, got %d", len(toks))
	}

	var lexErr *parse.LexicalError
	if !errors.As(err, &lexErr) {
		t.Fatalf("wanted a LexicalError, got %v", err)
	}
	if lexErr.Remainder != "$ ;\n" {
		t.Errorf("wanted remainder '$ ;\\n', got %q", lexErr.Remainder)
	}
	if lexErr.Position.Column != 4 {
		t.Errorf("wanted error at column 4, got %s", lexErr.Position)
	}
	if lexErr.Error() != "<test>:1:4: no match at '$ ;'" {
		t.Errorf("unexpected message: %s", lexErr)
	}
}

func TestOnlyEOFRule(t *testing.T) {
	s, err := scanner.New("<test>", strings.NewReader("x"), scanner.Table[int]{{Pattern: "", Kind: 0}})
	if err != nil {
		t.Fatal(err)
	}

	var lexErr *parse.LexicalError
	if _, err := s.NextToken(); !errors.As(err, &lexErr) {
		t.Errorf("wanted a LexicalError, got %v", err)
	}
}

func TestEmptyMatch(t *testing.T) {
	table := scanner.Table[string]{
		{Pattern: "", Kind: "EOF"},
		{Pattern: `x*`, Kind: "X"},
		{Pattern: `\w+`, Kind: "W"},
	}

	s, err := scanner.New("<test>", strings.NewReader("abc\n"), table)
	if err != nil {
		t.Fatal(err)
	}

	// A loop would never return here.
	_, err = s.NextToken()

	var lexErr *parse.LexicalError
	if !errors.As(err, &lexErr) {
		t.Fatalf("wanted a LexicalError, got %v", err)
	}
	if lexErr.Message != "empty match" {
		t.Errorf("wanted 'empty match', got '%s'", lexErr.Message)
	}
}

type trackingReader struct {
	io.Reader
	closed int
}

func (r *trackingReader) Close() error {
	r.closed++
	return nil
}

func TestClosedAtEOF(t *testing.T) {
	r := &trackingReader{Reader: strings.NewReader("a b\n")}

	c, err := scanner.Compile(words)
	if err != nil {
		t.Fatal(err)
	}

	s := c.Scanner("<test>", r)
	if _, err := s.All(); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	if r.closed != 1 {
		t.Errorf("wanted source closed once, got %d", r.closed)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("disk on fire")
}

func TestReadFailure(t *testing.T) {
	s, err := scanner.New("<test>", failingReader{}, words)
	if err != nil {
		t.Fatal(err)
	}

	var ioErr *parse.IOError
	if _, err := s.NextToken(); !errors.As(err, &ioErr) {
		t.Errorf("wanted an IOError, got %v", err)
	}
}

type brokenSource struct {
	failingReader
	closed int
}

func (b *brokenSource) Close() error {
	b.closed++
	return errors.New("already gone")
}

func TestReadFailureReportsReadError(t *testing.T) {
	src := &brokenSource{}
	s, err := scanner.New("<test>", src, words)
	if err != nil {
		t.Fatal(err)
	}

	_, err = s.NextToken()

	var ioErr *parse.IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("wanted an IOError, got %v", err)
	}
	if ioErr.Err.Error() != "disk on fire" {
		t.Errorf("wanted the read error, got '%s'", ioErr.Err)
	}
	if src.closed != 1 {
		t.Errorf("wanted source closed once, got %d", src.closed)
	}
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.txt")
	if err := os.WriteFile(path, []byte("one 2\n"), 0666); err != nil {
		t.Fatal(err)
	}

	s, err := scanner.Open(path, words)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	tok, err := s.NextToken()
	if err != nil {
		t.Fatal(err)
	}
	if tok.Position.String() != path+":1:0" {
		t.Errorf("wanted position %s:1:0, got %s", path, tok.Position)
	}

	_, err = scanner.Open(filepath.Join(t.TempDir(), "missing.txt"), words)
	var ioErr *parse.IOError
	if !errors.As(err, &ioErr) {
		t.Errorf("wanted an IOError, got %v", err)
	}
}
