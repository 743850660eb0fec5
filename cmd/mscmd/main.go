package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/calculuswhiz/musescore-utils/pkg/lib"

	"github.com/spf13/cobra"
)

var (
	flagFiles     []string
	flagSubsFiles []string
	flagSet       []string
	flagStrict    bool
	flagVerbose   bool

	flagFormat string
	flagOutput string
	flagAsk    bool
	flagPick   bool
)

var logger = lib.NewLogger(os.Stderr, lib.LevelInfo)

func main() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(macrosCmd)
	rootCmd.AddCommand(tokensCmd)
	rootCmd.AddCommand(exampleCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(replCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(hostsCmd)

	pf := rootCmd.PersistentFlags()
	pf.StringArrayVarP(&flagFiles, "file", "f", nil,
		"job YAML or script file (repeatable; default: ~/.config/"+appName+"/scripts/*)")
	pf.StringArrayVar(&flagSubsFiles, "subs-file", nil,
		"YAML file of substitution values (repeatable, later files win)")
	pf.StringArrayVar(&flagSet, "set", nil,
		"substitution value name=value (repeatable, overrides files)")
	pf.BoolVar(&flagStrict, "strict", false,
		"reject a .macro that redefines an existing name")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false,
		"print diagnostics to stderr")

	rootCmd.Flags().StringVar(&flagFormat, "format", "",
		"output format: text, json or yaml (default from config.toml, else text)")
	rootCmd.Flags().StringVarP(&flagOutput, "output", "o", "",
		"write commands to a file instead of stdout")
	rootCmd.Flags().BoolVar(&flagAsk, "ask", false,
		"prompt for substitution tokens that have no value")
	rootCmd.Flags().BoolVar(&flagPick, "pick", false,
		"choose a named script with a fuzzy finder")

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if flagVerbose {
			logger.SetLevel(lib.LevelDebug)
		}
	}

	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	if err := rootCmd.Execute(); err != nil {
		if isFlagInterceptError(err) {
			err = fmt.Errorf("%w\nhint: to expand a script whose name starts with '-', use -- first:\n  %s -- <script>", err, appName)
		}
		lib.Exit(err)
	}
}

// isFlagInterceptError reports whether the error is cobra rejecting an
// unknown flag.
func isFlagInterceptError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "unknown flag:") || strings.Contains(msg, "unknown shorthand flag:")
}
