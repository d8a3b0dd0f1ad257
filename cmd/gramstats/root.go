/*
 * Copyright (c) 2022, Gideon Williams <gideon@gideonw.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package gramstats

import (
	"fmt"
	"os"

	"github.com/dburkart/gramstats/cmd/gramstats/scan"
	"github.com/dburkart/gramstats/cmd/gramstats/server"
	"github.com/dburkart/gramstats/cmd/gramstats/shell"
	"github.com/dburkart/gramstats/cmd/gramstats/stats"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	Version        = "develop"
	CommitHash     = "n/a"
	BuildTimestamp = "n/a"

	rootCmd = &cobra.Command{
		Use:   "gramstats",
		Short: "Validate grammar files and count their symbols",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			initLogging()
			initLogLevel()
			initConfig(cmd.Root().PersistentFlags().Lookup("config").Value.String())
			initLogLevel()
			traceConfig()
		},
		SilenceErrors: true,
		Version:       Version,
	}
)

func init() {
	// Configure the root binary options
	rootCmd.PersistentFlags().CountP("verbose", "v", "-v for debug logs (-vv for trace)")
	rootCmd.PersistentFlags().Bool("local", true, "Configures the logger to print readable logs")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to the gramstats config file (default ./config.toml)")
	rootCmd.PersistentFlags().StringP("output", "o", "plain", "Output format [plain, text, csv, json]")

	// Bind viper config to the root flags
	viper.BindPFlag("gramstats.local", rootCmd.PersistentFlags().Lookup("local"))
	viper.BindPFlag("gramstats.verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("gramstats.output", rootCmd.PersistentFlags().Lookup("output"))
	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))

	rootCmd.SetVersionTemplate(fmt.Sprintf("gramstats version: %s git_commit: %s build_time: %s\n", Version, CommitHash, BuildTimestamp))

	viper.SetEnvPrefix("GRAMSTATS")
	viper.AutomaticEnv()

	// Register commands on the root binary command
	for _, c := range []*cobra.Command{stats.Command, scan.Command, server.Command, shell.Command} {
		c.Version = rootCmd.Version
		rootCmd.AddCommand(c)
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("root command failed")
		os.Exit(1)
	}
}
