/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package scan

import (
	"github.com/dburkart/gramstats/pkg/grammar"
	"github.com/dburkart/gramstats/pkg/report"
	"github.com/dburkart/gramstats/pkg/scanner"
	"github.com/dburkart/gramstats/pkg/tables"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Command = &cobra.Command{
	Use:   "scan FILE",
	Short: "Print the tokens of a file, using the grammar patterns or a pattern table",
	Args:  cobra.ExactArgs(1),

	RunE: func(cmd *cobra.Command, args []string) error {
		log := viper.Get("logger").(zerolog.Logger)
		output := viper.GetString("gramstats.output")
		if output == "plain" {
			output = "text"
		}
		w := report.NewOutputWriter(cmd.OutOrStdout(), output)

		tablePath := viper.GetString("scan.table")
		if tablePath == "" {
			return Tokens(log, args[0], grammar.Patterns(), w)
		}

		table, err := tables.Load(tablePath)
		if err != nil {
			return errors.Wrap(err, "unable to load pattern table")
		}
		return Tokens(log, args[0], table, w)
	},
}

// Tokens scans the file at path with table and writes the tokens, end of
// input included, to w.
func Tokens[K comparable](log zerolog.Logger, path string, table scanner.Table[K], w report.OutputWriter) error {
	s, err := scanner.Open(path, table)
	if err != nil {
		return err
	}
	defer s.Close()
	s.Log = log

	toks, err := s.All()
	if err != nil {
		return err
	}
	return w.Write(report.Tokens[K](toks))
}

func init() {
	// Flags for this command
	Command.Flags().StringP("table", "t", "", "Pattern table file (.yaml, .yml or .toml)")

	// Bind flags to viper
	viper.BindPFlag("scan.table", Command.Flags().Lookup("table"))
}

