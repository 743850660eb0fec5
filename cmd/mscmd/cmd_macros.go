package main

import (
	"fmt"
	"io"
	"os"

	"github.com/calculuswhiz/musescore-utils/cmd/mscmd/cmdparse"

	"github.com/spf13/cobra"
)

var macrosCmd = &cobra.Command{
	Use:   "macros <script | name | ->",
	Short: "Show the macros a script defines",
	Long: "Expand a script and list every macro it defines: its length in commands,\n" +
		"the line of the .macro that last defined it, and how often it was redefined.\n" +
		"Use --show to print each macro body.",
	Args: cobra.ExactArgs(1),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return scriptCompletion(args, toComplete)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		show, _ := cmd.Flags().GetBool("show")
		e, err := load()
		if err != nil {
			return err
		}
		s, err := e.resolveScript(args[0])
		if err != nil {
			return err
		}
		exp, err := e.expand(s, e.subsFor(s))
		if err != nil {
			return err
		}
		printMacros(os.Stdout, exp.Macros, show)
		return nil
	},
}

func printMacros(w io.Writer, t *cmdparse.MacroTable, show bool) {
	if t.Len() == 0 {
		fmt.Fprintln(w, "no macros defined")
		return
	}
	nameLen := 0
	for _, name := range t.Names() {
		nameLen = max(nameLen, len(name))
	}
	for _, name := range t.Names() {
		m, _ := t.Get(name)
		line := fmt.Sprintf("%-*s  %d commands  line %d", nameLen, m.Name, len(m.Commands), m.Line)
		if m.Redefined > 0 {
			line += fmt.Sprintf("  (redefined %d times)", m.Redefined)
		}
		fmt.Fprintln(w, line)
		if show {
			for _, c := range m.Commands {
				fmt.Fprintf(w, "    %s\n", c)
			}
		}
	}
}

func init() {
	macrosCmd.Flags().Bool("show", false, "print each macro body")
}
