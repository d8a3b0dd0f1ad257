/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package grammar

import (
	"fmt"
	"strconv"
)

// Statistics summarizes a valid grammar. Nonterminals and Terminals count
// occurrences, so a symbol used twice is counted twice.
type Statistics struct {
	RuleSets     int `json:"rule_sets"`
	Nonterminals int `json:"nonterminals"`
	Terminals    int `json:"terminals"`
}

func (s Statistics) String() string {
	return fmt.Sprintf("%d %d %d", s.RuleSets, s.Nonterminals, s.Terminals)
}

func (s Statistics) Headers() []string {
	return []string{"rule sets", "nonterminals", "terminals"}
}

func (s Statistics) Values() [][]string {
	return [][]string{{
		strconv.Itoa(s.RuleSets),
		strconv.Itoa(s.Nonterminals),
		strconv.Itoa(s.Terminals),
	}}
}
