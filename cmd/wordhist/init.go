package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/wordhist/internal/config"
)

//go:embed templates/wordhist.yaml
var configTemplate embed.FS

// templatePath is the path of the config template inside configTemplate.
const templatePath = "templates/wordhist.yaml"

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new wordhist configuration file",
		Long: `Initialize creates a new .wordhist configuration file in the current directory.

The generated file includes:
- The default bin size and zero-fill setting
- The default report format
- Commented examples of exclusion patterns

Examples:
  # Create .wordhist in current directory
  wordhist init

  # Create config file at a specific path
  wordhist init -o myconfig.yaml

  # Force overwrite existing file
  wordhist init -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := configTemplate.ReadFile(templatePath)
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(out, "\nEdit this file to change defaults such as:")
	fmt.Fprintln(out, "  - Histogram bin size and zero-fill")
	fmt.Fprintln(out, "  - Report format")
	fmt.Fprintln(out, "  - Paths to exclude from the scan")

	return nil
}
