/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package grammar

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/dburkart/gramstats/pkg/common/parse"
	"github.com/dburkart/gramstats/pkg/scanner"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Validator is a recursive-descent recognizer for grammar files. It reports
// how many rule sets, nonterminals and terminals a grammar contains.
//
// Grammar:
//
//	grammar         = *rule EOF
//	rule            = NONTERMINAL ":" rhs
//	rhs             = *( NONTERMINAL / TERMINAL / "|" ) ";"
//
// A Validator reads its source once; it is not safe for concurrent use.
type Validator struct {
	Log zerolog.Logger

	// Diagnostics receives one line for every rejected grammar.
	Diagnostics io.Writer

	// Strict rejects rule sets, other than the first, that are never
	// referenced from a right-hand side.
	Strict bool

	scanner   *scanner.Scanner[TokenKind]
	lookahead Token
	err       error

	rules        int
	nonterminals int
	terminals    int
	start        string
	defined      map[string]parse.Position
	referenced   map[string]parse.Position

	finished bool
	stats    Statistics
}

type bailout struct {
	err error
}

// NewValidator returns a validator reading grammar text from r. If lex is nil
// the grammar patterns are compiled for this validator alone.
func NewValidator(lex *Lexicon, name string, r io.Reader) (*Validator, error) {
	if lex == nil {
		var err error
		if lex, err = NewLexicon(); err != nil {
			return nil, err
		}
	}
	return newValidator(lex.Scanner(name, r)), nil
}

// Open returns a validator reading the grammar file at path.
func Open(lex *Lexicon, path string) (*Validator, error) {
	if lex == nil {
		var err error
		if lex, err = NewLexicon(); err != nil {
			return nil, err
		}
	}
	s, err := lex.Open(path)
	if err != nil {
		return nil, err
	}
	return newValidator(s), nil
}

func newValidator(s *scanner.Scanner[TokenKind]) *Validator {
	v := &Validator{
		Log:         zerolog.Nop(),
		Diagnostics: os.Stderr,
		scanner:     s,
		defined:     make(map[string]parse.Position),
		referenced:  make(map[string]parse.Position),
	}
	v.lookahead, v.err = s.NextToken()
	return v
}

// SetLogger attaches log to the validator and its scanner. Token tracing is
// emitted at trace level.
func (v *Validator) SetLogger(log zerolog.Logger) {
	v.Log = log
	v.scanner.Log = log
}

// Close releases the grammar source. Validate closes it on its own.
func (v *Validator) Close() error {
	return v.scanner.Close()
}

// Validate parses the whole grammar and returns its statistics. Grammar
// problems are returned as *parse.LexicalError, *parse.SyntaxError,
// *parse.SemanticError or *parse.EmptyInputError; a failing source as
// *parse.IOError.
func (v *Validator) Validate() (stats Statistics, err error) {
	if v.finished {
		return v.stats, v.err
	}

	defer func() {
		if cerr := v.Close(); cerr != nil && err == nil {
			err = cerr
		}
		v.finished = true
		v.stats, v.err = stats, err
	}()

	defer func() {
		if e := recover(); e != nil {
			b, ok := e.(bailout)
			if !ok {
				panic(e)
			}
			err = b.err
		}
	}()

	if v.err != nil {
		return stats, v.err
	}

	v.grammar()
	v.check()

	stats = Statistics{
		RuleSets:     v.rules,
		Nonterminals: v.nonterminals,
		Terminals:    v.terminals,
	}
	return stats, nil
}

// ComputeStatistics validates the grammar. A rejected grammar is reported on
// Diagnostics and yields nil statistics and a nil error; only failures of the
// source or of the pattern table are returned as errors.
func (v *Validator) ComputeStatistics() (*Statistics, error) {
	stats, err := v.Validate()
	if err == nil {
		v.Log.Debug().Str("source", v.scanner.Name()).Stringer("stats", stats).Msg("grammar accepted")
		return &stats, nil
	}

	if !IsRejection(err) {
		return nil, err
	}

	v.Log.Debug().Err(err).Str("source", v.scanner.Name()).Msg("grammar rejected")
	fmt.Fprintln(v.Diagnostics, err)
	return nil, nil
}

// IsRejection reports whether err describes a defect of the grammar text, as
// opposed to a failure to read it.
func IsRejection(err error) bool {
	var (
		lexErr      *parse.LexicalError
		syntaxErr   *parse.SyntaxError
		semanticErr *parse.SemanticError
		emptyErr    *parse.EmptyInputError
	)
	return errors.As(err, &lexErr) || errors.As(err, &syntaxErr) ||
		errors.As(err, &semanticErr) || errors.As(err, &emptyErr)
}

func (v *Validator) grammar() {
	if v.lookahead.Kind == TOK_EOF {
		v.fail(&parse.EmptyInputError{Position: v.lookahead.Position})
	}

	for v.lookahead.Kind != TOK_EOF {
		v.rule()
	}
	v.match(TOK_EOF)
}

func (v *Validator) rule() {
	tok := v.lookahead
	if tok.Kind != TOK_NONTERMINAL {
		v.syntaxError("expected a nonterminal")
	}

	if _, ok := v.defined[tok.Lexeme]; ok {
		v.fail(&parse.SemanticError{
			Position: tok.Position,
			Message:  "duplicate rule set",
			Symbols:  []string{tok.Lexeme},
		})
	}
	v.defined[tok.Lexeme] = tok.Position
	if v.start == "" {
		v.start = tok.Lexeme
	}

	v.nonterminals++
	v.match(TOK_NONTERMINAL)
	v.match(TOK_COLON)
	v.rhs()
}

func (v *Validator) rhs() {
	symbols := 0

	for {
		tok := v.lookahead

		switch tok.Kind {
		case TOK_SEMI:
			if symbols == 0 {
				v.syntaxError("rule set has no right-hand side")
			}
			v.match(TOK_SEMI)
			v.rules++
			return
		case TOK_TERMINAL:
			v.match(TOK_TERMINAL)
			v.terminals++
		case TOK_NONTERMINAL:
			if _, ok := v.referenced[tok.Lexeme]; !ok {
				v.referenced[tok.Lexeme] = tok.Position
			}
			v.match(TOK_NONTERMINAL)
			v.nonterminals++
		case TOK_PIPE:
			v.match(TOK_PIPE)
		default:
			v.syntaxError("expected a symbol, '|' or ';'")
		}

		symbols++
	}
}

// check runs the cross-rule constraints once the whole grammar was read.
func (v *Validator) check() {
	var undefined []string
	for name := range v.referenced {
		if _, ok := v.defined[name]; !ok {
			undefined = append(undefined, name)
		}
	}

	if len(undefined) > 0 {
		sort.Strings(undefined)
		panic(bailout{&parse.SemanticError{
			Position: v.referenced[undefined[0]],
			Message:  "undefined nonterminals",
			Symbols:  undefined,
		}})
	}

	if !v.Strict {
		return
	}

	var unused []string
	for name := range v.defined {
		if _, ok := v.referenced[name]; !ok && name != v.start {
			unused = append(unused, name)
		}
	}

	if len(unused) > 0 {
		sort.Strings(unused)
		panic(bailout{&parse.SemanticError{
			Position: v.defined[unused[0]],
			Message:  "unused rule set",
			Symbols:  unused,
		}})
	}
}

func (v *Validator) match(kind TokenKind) {
	if v.lookahead.Kind != kind {
		v.syntaxError(fmt.Sprintf("expected %s", kind.ToString()))
	}
	if kind != TOK_EOF {
		v.nextToken()
	}
}

func (v *Validator) nextToken() {
	tok, err := v.scanner.NextToken()
	if err != nil {
		panic(bailout{err})
	}
	v.lookahead = tok
}

func (v *Validator) syntaxError(m string) {
	v.fail(parse.NewSyntaxError(v.lookahead, m))
}

// fail skips the rest of the input and abandons the parse.
func (v *Validator) fail(err error) {
	for v.lookahead.Kind != TOK_EOF {
		tok, e := v.scanner.NextToken()
		if e != nil {
			break
		}
		v.lookahead = tok
	}
	panic(bailout{err})
}
