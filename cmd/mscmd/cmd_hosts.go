package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shirou/gopsutil/v4/process"
	"github.com/spf13/cobra"
)

// hostNames are the lower-cased process name fragments of MuseScore builds.
var hostNames = []string{"mscore", "musescore"}

// hostInfo is a running MuseScore process that can receive expanded scripts.
type hostInfo struct {
	Pid     int32
	Name    string
	Cmdline string
}

var hostsCmd = &cobra.Command{
	Use:   "hosts",
	Short: "List running MuseScore processes",
	Long: "List running MuseScore processes with their pid and command line, to find\n" +
		"the instance whose plugin will run the expanded commands.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		hosts, err := scanHosts()
		if err != nil {
			return fmt.Errorf("scan error: %w", err)
		}
		printHosts(os.Stdout, hosts)
		return nil
	},
}

func scanHosts() ([]hostInfo, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, err
	}
	var all []hostInfo
	for _, p := range procs {
		name, err := p.Name()
		if err != nil {
			continue
		}
		cmdline, _ := p.Cmdline()
		all = append(all, hostInfo{Pid: p.Pid, Name: name, Cmdline: cmdline})
	}
	return filterHosts(all), nil
}

// filterHosts keeps the processes whose name looks like a MuseScore build.
func filterHosts(all []hostInfo) []hostInfo {
	var out []hostInfo
	for _, h := range all {
		name := strings.ToLower(h.Name)
		for _, frag := range hostNames {
			if strings.Contains(name, frag) {
				out = append(out, h)
				break
			}
		}
	}
	return out
}

func printHosts(w io.Writer, hosts []hostInfo) {
	if len(hosts) == 0 {
		fmt.Fprintln(w, "no MuseScore processes found")
		return
	}
	fmt.Fprintf(w, "%-8s %-20s %s\n", "PID", "NAME", "COMMAND")
	fmt.Fprintln(w, strings.Repeat("-", 60))
	for _, h := range hosts {
		fmt.Fprintf(w, "%-8d %-20s %s\n", h.Pid, h.Name, h.Cmdline)
	}
}
