package main

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

//go:embed examples/reference.mss
var exampleScript []byte

//go:embed examples/jobs.yml
var exampleJobsYAML []byte

const exampleJobsHeader = `# mscmd job file
# Run:  mscmd --file <this-file> <script-name>
# List: mscmd --file <this-file> list

`

var exampleCmd = &cobra.Command{
	Use:   "example",
	Short: "Print a reference script covering every directive",
	Long: "Print an annotated mscmd script that demonstrates every directive.\n" +
		"Use --jobs for an example job file with named scripts and substitution values.\n" +
		"Use --output to write to a file instead of stdout.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		jobs, _ := cmd.Flags().GetBool("jobs")
		output, _ := cmd.Flags().GetString("output")

		w := os.Stdout
		if output != "" {
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating %s: %w", output, err)
			}
			defer f.Close()
			w = f
		}

		if jobs {
			fmt.Fprint(w, exampleJobsHeader)
			w.Write(exampleJobsYAML)
		} else {
			w.Write(exampleScript)
		}

		if output != "" {
			fmt.Fprintf(os.Stderr, "written to %s\n", output)
		}
		return nil
	},
}

func init() {
	exampleCmd.Flags().StringP("output", "o", "", "write to file instead of stdout")
	exampleCmd.Flags().Bool("jobs", false, "print an example job file instead of the reference script")
}
