/*
 * Copyright (c) 2022-2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package parse

import "fmt"

// Position is the location of a token within a named source. Line is 1-based
// once text has been read (0 before the first line), Column is a 0-based byte
// offset into the line.
type Position struct {
	Name   string
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%s:%d:%d", p.Name, p.Line, p.Column)
}

// Token is a classified lexeme. K is the caller's set of token kinds.
type Token[K comparable] struct {
	Kind     K
	Lexeme   string
	Position Position
}

func (t Token[K]) String() string {
	return fmt.Sprintf("%s: %v \"%s\"", t.Position, t.Kind, t.Lexeme)
}
