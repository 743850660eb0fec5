package main

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

//go:embed examples/config.toml
var initSettingsTOML []byte

//go:embed examples/init.mss
var initScript []byte

const configInitSettingsHeader = "# " + appName + " settings\n" +
	"# Quick reference:  " + appName + " example\n" +
	"# Job files:        " + appName + " example --jobs\n\n"

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialise the " + appName + " config directory with starter files",
	Long: "Create the " + appName + " config directory and populate it with starter\n" +
		"files. A single runnable `starter` script is created so the tool is\n" +
		"immediately usable. Further examples are commented out behind sentinel\n" +
		"markers and can be refreshed later with `" + appName + " config update`.\n\n" +
		"Files created:\n" +
		"  <config>/config.toml          settings and default substitution values\n" +
		"  <config>/scripts/starter.mss  starter script\n\n" +
		"The default config directory follows the same priority as the main command:\n" +
		"  $MSCMD_CONFIG_DIR > $XDG_CONFIG_HOME/" + appName + " > ~/.config/" + appName,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		dir, _ := cmd.Flags().GetString("dir")

		if dir == "" {
			var err error
			dir, err = resolveConfigDir()
			if err != nil {
				return err
			}
		}

		settingsPath, scriptPath, err := initConfigDir(dir, force)
		if err != nil {
			return err
		}

		fmt.Fprintf(os.Stderr, "initialised %s\n", dir)
		fmt.Fprintf(os.Stderr, "  %s\n", settingsPath)
		fmt.Fprintf(os.Stderr, "  %s\n", scriptPath)
		fmt.Fprintf(os.Stderr, "\nRun `%s list` to see available scripts.\n", appName)
		return nil
	},
}

// initConfigDir writes the starter files into dir and returns their paths.
func initConfigDir(dir string, force bool) (string, string, error) {
	scriptsDir := filepath.Join(dir, "scripts")
	if err := os.MkdirAll(scriptsDir, 0o755); err != nil {
		return "", "", fmt.Errorf("creating directory %s: %w", scriptsDir, err)
	}

	settingsPath := filepath.Join(dir, settingsFile)
	scriptPath := filepath.Join(scriptsDir, "starter.mss")

	if err := writeInitFile(settingsPath, configInitSettingsHeader, initSettingsTOML, force); err != nil {
		return "", "", err
	}
	if err := writeInitFile(scriptPath, "", initScript, force); err != nil {
		return "", "", err
	}
	return settingsPath, scriptPath, nil
}

func writeInitFile(path, header string, content []byte, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	if header != "" {
		fmt.Fprint(f, header)
	}
	_, err = f.Write(content)
	return err
}

func init() {
	configInitCmd.Flags().Bool("force", false, "overwrite existing files")
	configInitCmd.Flags().String("dir", "", "target config directory (default: auto-resolved)")
}
