package main

import (
	"strings"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   appName + " [script | name | -]",
	Short: "Expand MuseScore command scripts",
	Long: "Expand a MuseScore command script into the flat list of commands it stands for.\n\n" +
		"The argument is a named script from a job file, a path to a script file, or -\n" +
		"to read the script from stdin. Directives: .rep N/.endrep, .macro name/.endm,\n" +
		".insertm name, <token> substitution and # comments.\n\n" +
		"Named scripts are auto-completable via shell completion (Tab).",
	Args: cobra.MaximumNArgs(1),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return scriptCompletion(args, toComplete)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 && !flagPick {
			return cmd.Help()
		}
		e, err := load()
		if err != nil {
			return err
		}

		var arg string
		if len(args) > 0 {
			arg = args[0]
		} else {
			arg, err = pickScript(e.catalog)
			if err != nil {
				return err
			}
		}
		s, err := e.resolveScript(arg)
		if err != nil {
			return err
		}

		subs := e.subsFor(s)
		if flagAsk {
			if subs, err = askMissing(s, subs); err != nil {
				return err
			}
		}

		exp, err := e.expand(s, subs)
		if err != nil {
			return err
		}

		format := flagFormat
		if format == "" {
			format = e.settings.Output.Format
		}
		if err := writeOutput(flagOutput, format, s, exp); err != nil {
			return err
		}
		if flagOutput != "" {
			e.log.Infof("%d commands written to %s", len(exp.Commands), flagOutput)
		}
		return nil
	},
}

// scriptCompletion offers catalog names for the single positional argument.
func scriptCompletion(args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	e, err := load()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	var suggestions []string
	for _, s := range e.catalog.Scripts() {
		if strings.HasPrefix(s.Name, toComplete) {
			if s.Description != "" {
				suggestions = append(suggestions, s.Name+"\t"+s.Description)
				continue
			}
			suggestions = append(suggestions, s.Name)
		}
	}
	// Script files on disk are valid arguments too.
	return suggestions, cobra.ShellCompDirectiveDefault
}
