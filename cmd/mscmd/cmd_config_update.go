package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

const examplesStartMarker = "# @" + appName + "-examples-start"
const examplesEndMarker = "# @" + appName + "-examples-end"

var configUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Refresh commented examples in an existing config directory",
	Long: "Update the commented example blocks (between @" + appName + "-examples-start and\n" +
		"@" + appName + "-examples-end markers) in config.toml and scripts/starter.mss.\n\n" +
		"Only files that contain the sentinel markers are modified.\n" +
		"Files without markers are left untouched.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		if dir == "" {
			var err error
			dir, err = resolveConfigDir()
			if err != nil {
				return err
			}
		}

		updated, err := updateConfigDir(dir)
		if err != nil {
			return err
		}
		for _, path := range updated {
			fmt.Fprintf(os.Stderr, "updated %s\n", path)
		}
		if len(updated) == 0 {
			fmt.Fprintln(os.Stderr, "everything up to date")
		}
		return nil
	},
}

// updateConfigDir refreshes the example blocks of the starter files in dir
// and returns the paths it changed.
func updateConfigDir(dir string) ([]string, error) {
	targets := []struct {
		path    string
		content []byte
	}{
		{filepath.Join(dir, settingsFile), initSettingsTOML},
		{filepath.Join(dir, "scripts", "starter.mss"), initScript},
	}
	var updated []string
	for _, t := range targets {
		changed, err := updateExampleBlock(t.path, extractExampleBlock(t.content))
		if err != nil {
			return updated, err
		}
		if changed {
			updated = append(updated, t.path)
		}
	}
	return updated, nil
}

// extractExampleBlock extracts the lines from the start marker to the end marker
// (inclusive) from content. Returns nil if the markers are not found.
func extractExampleBlock(content []byte) []byte {
	lines := bytes.Split(content, []byte("\n"))
	var result [][]byte
	inBlock := false
	for _, line := range lines {
		trimmed := bytes.TrimRight(line, " \t\r")
		if bytes.Equal(trimmed, []byte(examplesStartMarker)) {
			inBlock = true
		}
		if inBlock {
			result = append(result, line)
		}
		if inBlock && bytes.Equal(trimmed, []byte(examplesEndMarker)) {
			return bytes.Join(result, []byte("\n"))
		}
	}
	return nil
}

// updateExampleBlock replaces the sentinel block in the file at path with newBlock.
// Returns true if the file was modified.
func updateExampleBlock(path string, newBlock []byte) (bool, error) {
	if newBlock == nil {
		return false, nil
	}
	existing, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("reading %s: %w", path, err)
	}
	updated, changed := replaceExampleBlock(existing, newBlock)
	if !changed {
		return false, nil
	}
	if err := os.WriteFile(path, updated, 0o644); err != nil {
		return false, fmt.Errorf("writing %s: %w", path, err)
	}
	return true, nil
}

// replaceExampleBlock replaces the content between (and including) the sentinel
// markers in content with newBlock. Returns the modified content and whether a
// change was made.
func replaceExampleBlock(content, newBlock []byte) ([]byte, bool) {
	lines := bytes.Split(content, []byte("\n"))
	startIdx, endIdx := -1, -1
	for i, line := range lines {
		trimmed := bytes.TrimRight(line, " \t\r")
		if bytes.Equal(trimmed, []byte(examplesStartMarker)) {
			startIdx = i
		}
		if startIdx != -1 && bytes.Equal(trimmed, []byte(examplesEndMarker)) {
			endIdx = i
			break
		}
	}
	if startIdx == -1 || endIdx == -1 {
		return content, false
	}

	existingBlock := bytes.Join(lines[startIdx:endIdx+1], []byte("\n"))
	if bytes.Equal(existingBlock, newBlock) {
		return content, false
	}

	var out [][]byte
	out = append(out, lines[:startIdx]...)
	out = append(out, bytes.Split(newBlock, []byte("\n"))...)
	out = append(out, lines[endIdx+1:]...)
	return bytes.Join(out, []byte("\n")), true
}

func init() {
	configUpdateCmd.Flags().String("dir", "", "target config directory (default: auto-resolved)")
}
