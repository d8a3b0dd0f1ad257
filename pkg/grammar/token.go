/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package grammar

import (
	"github.com/dburkart/gramstats/pkg/common/parse"
	"github.com/dburkart/gramstats/pkg/scanner"
)

type TokenKind int

const (
	TOK_EOF TokenKind = iota
	TOK_COLON
	TOK_PIPE
	TOK_SEMI
	TOK_NONTERMINAL
	TOK_TERMINAL
)

func (t TokenKind) ToString() string {
	switch t {
	case TOK_EOF:
		return "TOK_EOF"
	case TOK_COLON:
		return "TOK_COLON"
	case TOK_PIPE:
		return "TOK_PIPE"
	case TOK_SEMI:
		return "TOK_SEMI"
	case TOK_NONTERMINAL:
		return "TOK_NONTERMINAL"
	case TOK_TERMINAL:
		return "TOK_TERMINAL"
	}
	return "TOK_UNKNOWN"
}

func (t TokenKind) String() string {
	return t.ToString()
}

type Token = parse.Token[TokenKind]

// Patterns returns the lexical grammar of a grammar file. Characters not
// covered by any rule are a lexical error.
func Patterns() scanner.Table[TokenKind] {
	return scanner.Table[TokenKind]{
		{Pattern: "", Kind: TOK_EOF},
		{Pattern: `[\s\v]+`, Skip: true},
		{Pattern: `//.*`, Skip: true},
		{Pattern: `:`, Kind: TOK_COLON},
		{Pattern: `\|`, Kind: TOK_PIPE},
		{Pattern: `;`, Kind: TOK_SEMI},
		{Pattern: `[a-z]\w*`, Kind: TOK_NONTERMINAL},
		{Pattern: `[A-Z]\w*`, Kind: TOK_TERMINAL},
	}
}

// Lexicon is the compiled form of Patterns. Build it once with NewLexicon and
// share it between validators.
type Lexicon = scanner.Compiled[TokenKind]

func NewLexicon() (*Lexicon, error) {
	return scanner.Compile(Patterns())
}
