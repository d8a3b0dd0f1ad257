/*
 * Copyright (c) 2022, Gideon Williams <gideon@gideonw.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package server

import (
	"github.com/dburkart/gramstats/pkg/grammar"
	"github.com/dburkart/gramstats/pkg/server"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Command = &cobra.Command{
	Use:   "serve",
	Short: "Validate grammars over HTTP",

	Run: func(cmd *cobra.Command, args []string) {
		logger := viper.Get("logger").(zerolog.Logger)

		lexicon, err := grammar.NewLexicon()
		if err != nil {
			logger.Fatal().Err(err).Msg("unable to compile grammar patterns")
		}

		srv := server.New(
			logger,
			lexicon,
			viper.GetInt("server.port"),
			viper.GetInt("server.prom-port"),
			viper.GetBool("server.strict"),
		)

		// Serve the metrics endpoint
		go func() {
			if err := srv.ServeMetrics(); err != nil {
				logger.Error().Err(err).Msg("error serving metrics")
			}
		}()

		if err := srv.ServeValidation(); err != nil {
			logger.Fatal().Err(err).Msg("error listening and serving")
		}
	},
}

func init() {
	// Flags for this command
	Command.Flags().IntP("port", "p", 8080, "Validation service port")
	Command.Flags().Int("prom-port", 2112, "Set the port for /metrics")
	Command.Flags().Bool("strict", false, "Reject rule sets that are never referenced")

	// Bind flags to viper
	viper.BindPFlag("server.port", Command.Flags().Lookup("port"))
	viper.BindPFlag("server.prom-port", Command.Flags().Lookup("prom-port"))
	viper.BindPFlag("server.strict", Command.Flags().Lookup("strict"))
}
