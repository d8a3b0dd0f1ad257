/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package scanner

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dburkart/gramstats/pkg/common/parse"
	"github.com/pkg/errors"
)

// Rule maps a regular expression to a token kind. A rule with an empty
// Pattern names the end-of-input kind. Skip rules are matched and discarded.
type Rule[K comparable] struct {
	Pattern string
	Kind    K
	Skip    bool
}

// Table is an ordered list of rules; when several rules match at the same
// position, the earliest one wins.
type Table[K comparable] []Rule[K]

// Compiled is a Table turned into a single matcher. It is immutable and may
// be shared by any number of scanners.
type Compiled[K comparable] struct {
	re    *regexp.Regexp
	eof   K
	rules []Rule[K]
	// groups[i] is the subexpression index of rules[i]
	groups []int
}

// Compile validates the table and builds the combined alternation
//
//	\A(?:(?P<T0>p0)|(?P<T1>p1)|...)
//
// RE2 alternation is leftmost-first, so the first listed rule that matches at
// the anchor is the one reported.
func Compile[K comparable](table Table[K]) (*Compiled[K], error) {
	c := &Compiled[K]{}
	eofs := 0

	var b strings.Builder
	for i, r := range table {
		if r.Pattern == "" {
			eofs++
			c.eof = r.Kind
			continue
		}

		if _, err := regexp.Compile(r.Pattern); err != nil {
			return nil, &parse.ConfigurationError{
				Message: errors.Wrapf(err, "rule %d", i).Error(),
			}
		}

		if b.Len() > 0 {
			b.WriteByte('|')
		}
		fmt.Fprintf(&b, "(?P<T%d>%s)", len(c.rules), r.Pattern)
		c.rules = append(c.rules, r)
	}

	switch {
	case eofs == 0:
		return nil, &parse.ConfigurationError{Message: "no empty pattern for the end-of-input kind"}
	case eofs > 1:
		return nil, &parse.ConfigurationError{Message: fmt.Sprintf("%d empty patterns for the end-of-input kind", eofs)}
	}

	if len(c.rules) == 0 {
		return c, nil
	}

	re, err := regexp.Compile(`\A(?:` + b.String() + `)`)
	if err != nil {
		return nil, &parse.ConfigurationError{Message: err.Error()}
	}
	c.re = re

	c.groups = make([]int, len(c.rules))
	for i := range c.rules {
		c.groups[i] = re.SubexpIndex(fmt.Sprintf("T%d", i))
	}

	return c, nil
}

// EOF returns the end-of-input kind.
func (c *Compiled[K]) EOF() K {
	return c.eof
}

// match finds the rule matching at the start of s. It returns the rule index
// and the length of the match, or -1 if nothing matches.
func (c *Compiled[K]) match(s string) (int, int) {
	if c.re == nil {
		return -1, 0
	}

	loc := c.re.FindStringSubmatchIndex(s)
	if loc == nil {
		return -1, 0
	}

	for i, g := range c.groups {
		if loc[2*g] >= 0 {
			return i, loc[2*g+1] - loc[2*g]
		}
	}
	return -1, 0
}
