package main

import (
	"fmt"
	"io"
	"os"

	"github.com/calculuswhiz/musescore-utils/cmd/mscmd/cmdparse"

	"github.com/spf13/cobra"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens <script | name | ->",
	Short: "Show the substitution tokens a script uses and their values",
	Long: "List every <token> a script references, the value it resolves to and where\n" +
		"that value comes from: config, job, script, flags or default.",
	Args: cobra.ExactArgs(1),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return scriptCompletion(args, toComplete)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := load()
		if err != nil {
			return err
		}
		s, err := e.resolveScript(args[0])
		if err != nil {
			return err
		}
		printTokens(os.Stdout, cmdparse.TokensWith(s.Script, e.subsFor(s)), e.subsLayers(s))
		return nil
	},
}

func printTokens(w io.Writer, names []string, layers []subsLayer) {
	if len(names) == 0 {
		fmt.Fprintln(w, "no substitution tokens")
		return
	}
	subs := cmdparse.Substitutions{}
	for _, l := range layers {
		subs = subs.Merge(l.subs)
	}
	nameLen, valLen := 0, 0
	for _, n := range names {
		nameLen = max(nameLen, len(n)+2)
		valLen = max(valLen, len(subs.Lookup(n)))
	}
	for _, n := range names {
		fmt.Fprintf(w, "%-*s  %-*s  [%s]\n", nameLen, "<"+n+">", valLen, subs.Lookup(n), originOf(layers, n))
	}
}
