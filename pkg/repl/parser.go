/*
 * Copyright (c) 2022, Gideon Williams gideon@gideonw.com
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package repl

import (
	"fmt"
	"strings"
)

type CommandType int

const (
	CommandGrammar CommandType = iota
	CommandStats
	CommandTokens
	CommandReset
	CommandShow
	CommandStrict
	CommandHelp
	CommandExit
)

// Command is one line typed into the shell. Lines that do not start with a
// dot are grammar text.
type Command struct {
	Type CommandType
	Arg  string
}

var commands = map[string]CommandType{
	".stats":  CommandStats,
	".tokens": CommandTokens,
	".reset":  CommandReset,
	".show":   CommandShow,
	".strict": CommandStrict,
	".help":   CommandHelp,
	"help":    CommandHelp,
	"exit":    CommandExit,
	".exit":   CommandExit,
}

// ParseCommand parses input from the command line
//
// This function assumes there is no '\n'
func ParseCommand(line string) (Command, error) {
	trimmed := strings.TrimSpace(line)

	// all commands have a space after them, if not then they are command only
	// like .stats
	name, arg, _ := strings.Cut(trimmed, " ")

	t, ok := commands[strings.ToLower(name)]

	// undotted keywords are also valid nonterminal names, so they are only
	// commands when they stand alone
	if ok && !strings.HasPrefix(name, ".") && arg != "" {
		ok = false
	}

	if !ok {
		if strings.HasPrefix(trimmed, ".") {
			return Command{}, fmt.Errorf("unknown command '%s'", name)
		}
		return Command{Type: CommandGrammar, Arg: line}, nil
	}

	arg = strings.TrimSpace(arg)
	if t == CommandStrict {
		switch strings.ToLower(arg) {
		case "", "on", "off":
		default:
			return Command{}, fmt.Errorf(".strict takes 'on' or 'off', not '%s'", arg)
		}
	}

	return Command{Type: t, Arg: arg}, nil
}
