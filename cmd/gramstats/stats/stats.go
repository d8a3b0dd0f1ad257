/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package stats

import (
	"io"
	"os"

	"github.com/dburkart/gramstats/pkg/grammar"
	"github.com/dburkart/gramstats/pkg/report"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Command = &cobra.Command{
	Use:   "stats GRAMMAR_FILE",
	Short: "Validate a grammar file and print its rule set, nonterminal and terminal counts",
	Args:  cobra.ExactArgs(1),

	RunE: func(cmd *cobra.Command, args []string) error {
		log := viper.Get("logger").(zerolog.Logger)

		lexicon, err := grammar.NewLexicon()
		if err != nil {
			return err
		}

		ok, err := Run(log, lexicon, args[0], Options{
			Output: viper.GetString("gramstats.output"),
			Strict: viper.GetBool("grammar.strict"),
			Trace:  viper.GetBool("grammar.trace"),
		}, cmd.OutOrStdout(), cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		if !ok {
			os.Exit(1)
		}
		return nil
	},
}

type Options struct {
	Output string
	Strict bool
	Trace  bool
}

// Run validates the grammar at path, writing its statistics to out or a
// single diagnostic to diag. It reports whether the grammar was accepted.
func Run(log zerolog.Logger, lexicon *grammar.Lexicon, path string, opts Options, out, diag io.Writer) (bool, error) {
	v, err := grammar.Open(lexicon, path)
	if err != nil {
		return false, errors.Wrap(err, "unable to open grammar")
	}
	defer v.Close()

	if opts.Trace {
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
		v.SetLogger(log.Level(zerolog.TraceLevel))
	} else {
		v.SetLogger(log)
	}
	v.Diagnostics = diag
	v.Strict = opts.Strict

	stats, err := v.ComputeStatistics()
	if err != nil {
		return false, errors.Wrap(err, "unable to validate grammar")
	}
	if stats == nil {
		return false, nil
	}

	return true, report.NewOutputWriter(out, opts.Output).Write(stats)
}

func init() {
	// Flags for this command
	Command.Flags().Bool("strict", false, "Reject rule sets that are never referenced")
	Command.Flags().Bool("trace", false, "Log every token read from the grammar")

	// Bind flags to viper
	viper.BindPFlag("grammar.strict", Command.Flags().Lookup("strict"))
	viper.BindPFlag("grammar.trace", Command.Flags().Lookup("trace"))
}
