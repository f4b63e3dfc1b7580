// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Command go-deps extracts the type dependencies of C# and Go sources.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const version = "0.1.0"

func main() {
	if err := newRootCmd(viper.New()).Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command tree around v, which holds the merged
// flag, environment, and config-file settings.
func newRootCmd(v *viper.Viper) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "go-deps",
		Short: "Type dependency extraction for C# and Go",
		Long: "go-deps finds every reference to a named entity in C# and Go sources, resolves it, " +
			"and reduces the types it mentions to the named types they are built from.",
		SilenceUsage: true,
	}

	// Global flags.
	flags := rootCmd.PersistentFlags()
	flags.String("workdir", ".", "Root directory")
	flags.String("lang", "auto", "Front-end: auto, csharp or go")
	flags.String("rev", "", "Read sources at this git revision instead of the worktree")
	flags.StringSlice("include", nil, "Glob patterns of files to include")
	flags.StringSlice("exclude", nil, "Glob patterns of files to exclude")
	flags.Int("cache-size", 0, "Resolver cache entries per file (negative disables)")
	flags.Int("concurrency", 0, "Files processed in parallel (default NumCPU)")
	flags.String("log-level", "warn", "Log level: debug, info, warn or error")

	// Bind flags to viper.
	for _, name := range []string{"workdir", "lang", "rev", "include", "exclude", "cache-size", "concurrency", "log-level"} {
		v.BindPFlag(name, flags.Lookup(name))
	}

	// Env vars: GO_DEPS_LANG, GO_DEPS_LOG_LEVEL, etc.
	v.SetEnvPrefix("GO_DEPS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	// Config file.
	v.SetConfigName(".go-deps")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.ReadInConfig() // Ignore error; config file is optional.

	rootCmd.AddCommand(newAnalyzeCmd(v))
	rootCmd.AddCommand(newTypesCmd(v))
	rootCmd.AddCommand(newGraphCmd(v))
	rootCmd.AddCommand(newWatchCmd(v))
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// newVersionCmd creates the "version" command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print go-deps version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "go-deps %s\n", version)
		},
	}
}
