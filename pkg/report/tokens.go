/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package report

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/dburkart/gramstats/pkg/common/parse"
)

// Tokens prints a token stream, one row per token.
type Tokens[K comparable] []parse.Token[K]

type tokenRow struct {
	Line   int    `json:"line"`
	Column int    `json:"column"`
	Kind   string `json:"kind"`
	Lexeme string `json:"lexeme"`
}

func (t Tokens[K]) Headers() []string {
	return []string{"line", "column", "kind", "lexeme"}
}

func (t Tokens[K]) Values() [][]string {
	rows := make([][]string, 0, len(t))
	for _, tok := range t {
		rows = append(rows, []string{
			strconv.Itoa(tok.Position.Line),
			strconv.Itoa(tok.Position.Column),
			fmt.Sprint(tok.Kind),
			strconv.Quote(tok.Lexeme),
		})
	}
	return rows
}

func (t Tokens[K]) MarshalJSON() ([]byte, error) {
	rows := make([]tokenRow, 0, len(t))
	for _, tok := range t {
		rows = append(rows, tokenRow{
			Line:   tok.Position.Line,
			Column: tok.Position.Column,
			Kind:   fmt.Sprint(tok.Kind),
			Lexeme: tok.Lexeme,
		})
	}
	return json.Marshal(rows)
}
