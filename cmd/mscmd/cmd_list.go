package main

import (
	"fmt"
	"io"
	"os"

	"github.com/calculuswhiz/musescore-utils/cmd/mscmd/scriptyaml"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all named scripts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := load()
		if err != nil {
			return err
		}
		printScripts(os.Stdout, e.catalog.Scripts())
		return nil
	},
}

// printScripts prints one aligned line per script: name, source and
// description.
func printScripts(w io.Writer, scripts []scriptyaml.NamedScript) {
	if len(scripts) == 0 {
		fmt.Fprintln(w, "no scripts found")
		return
	}

	nameLen, srcLen := 0, 0
	for _, s := range scripts {
		nameLen = max(nameLen, len(s.Name))
		srcLen = max(srcLen, len(s.Source))
	}

	for _, s := range scripts {
		if s.Description == "" {
			fmt.Fprintf(w, "%-*s  [%s]\n", nameLen, s.Name, s.Source)
			continue
		}
		fmt.Fprintf(w, "%-*s  %-*s  %s\n", nameLen, s.Name, srcLen+2, "["+s.Source+"]", s.Description)
	}
}
