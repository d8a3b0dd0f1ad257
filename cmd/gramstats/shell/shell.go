/*
 * Copyright (c) 2022, Gideon Williams <gideon@gideonw.com>
 * Copyright (c) 2022-2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package shell

import (
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/dburkart/gramstats/pkg/grammar"
	"github.com/dburkart/gramstats/pkg/repl"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Command = &cobra.Command{
	Use:   "shell",
	Short: "Interactive workbench for writing grammars",

	Run: func(cmd *cobra.Command, args []string) {
		log := viper.Get("logger").(zerolog.Logger)

		lexicon, err := grammar.NewLexicon()
		if err != nil {
			log.Fatal().Err(err).Msg("unable to compile grammar patterns")
		}

		readlinePrompt(log, lexicon, viper.GetString("gramstats.output"))
	},
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func readlinePrompt(log zerolog.Logger, lexicon *grammar.Lexicon, output string) {
	// Configure the completer
	completer := readline.NewPrefixCompleter(
		readline.PcItem(".stats"),
		readline.PcItem(".tokens"),
		readline.PcItem(".show"),
		readline.PcItem(".reset"),
		readline.PcItem(".strict", readline.PcItem("on"), readline.PcItem("off")),
		readline.PcItem(".help"),
		readline.PcItem("exit"),
	)

	// Setup the readline executor
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31m>\033[0m ",
		AutoComplete:    completer,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("unable to start readline")
	}
	defer rl.Close()

	session := repl.NewSession(log, lexicon, os.Stdout, output)

	// Handle input
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				break
			}
			continue
		} else if err != nil {
			break
		}

		if strings.TrimSpace(line) == "" {
			continue
		}

		cmd, err := repl.ParseCommand(line)
		if err != nil {
			log.Error().Err(err).Send()
			continue
		}

		more, err := session.Execute(cmd)
		if err != nil {
			if grammar.IsRejection(err) {
				fmt.Fprintln(os.Stderr, err)
			} else {
				log.Error().Err(err).Send()
			}
		}
		if !more {
			break
		}

		if cmd.Type == repl.CommandGrammar {
			rl.SetPrompt(fmt.Sprintf("\033[31m%d>\033[0m ", session.Lines()+1))
		} else if cmd.Type == repl.CommandReset {
			rl.SetPrompt("\033[31m>\033[0m ")
		}
	}
	rl.Clean()
}
