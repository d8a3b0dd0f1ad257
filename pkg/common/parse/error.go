/*
 * Copyright (c) 2022-2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package parse

import (
	"fmt"
	"strings"
)

// ConfigurationError reports a malformed pattern table.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return "bad pattern table: " + e.Message
}

// IOError wraps a failure to open or read a source.
type IOError struct {
	Name string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s: %v", e.Name, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Cause lets github.com/pkg/errors unwrap to the underlying failure.
func (e *IOError) Cause() error { return e.Err }

// LexicalError is raised when no pattern matches at a position, or when a
// pattern matches the empty string.
type LexicalError struct {
	Position  Position
	Message   string
	Remainder string
}

func (e *LexicalError) Error() string {
	if e.Remainder == "" {
		return fmt.Sprintf("%s: %s", e.Position, e.Message)
	}
	return fmt.Sprintf("%s: %s at '%s'", e.Position, e.Message, strings.TrimRight(e.Remainder, "\n"))
}

type SyntaxError struct {
	Position Position
	Lexeme   string
	Message  string
}

func NewSyntaxError[K comparable](t Token[K], m string) *SyntaxError {
	return &SyntaxError{Position: t.Position, Lexeme: t.Lexeme, Message: m}
}

func (e *SyntaxError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: syntax error at '%s'", e.Position, e.Lexeme)
	}
	return fmt.Sprintf("%s: syntax error at '%s': %s", e.Position, e.Lexeme, e.Message)
}

// SemanticError is a well-formed input that breaks a cross-rule constraint.
// Symbols lists the offending names, if any.
type SemanticError struct {
	Position Position
	Message  string
	Symbols  []string
}

func (e *SemanticError) Error() string {
	if len(e.Symbols) == 0 {
		return fmt.Sprintf("%s: %s", e.Position, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Position, e.Message, strings.Join(e.Symbols, ", "))
}

// EmptyInputError is returned when a source holds no tokens at all.
type EmptyInputError struct {
	Position Position
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("%s: empty input grammar file", e.Position)
}
