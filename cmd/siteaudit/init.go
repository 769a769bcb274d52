package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ludo-technologies/siteaudit/internal/config"
	"github.com/ludo-technologies/siteaudit/internal/constants"
)

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a siteaudit configuration file",
		Long: `Generate a documented siteaudit configuration file with sensible defaults.

Examples:
  # Create .siteaudit.yaml in the current directory
  siteaudit init

  # Custom output path
  siteaudit init --config custom.yaml

  # Overwrite an existing file without asking
  siteaudit init --force

  # Interactive setup wizard
  siteaudit init --interactive`,
		RunE: runInit,
	}

	cmd.Flags().StringP("config", "c", constants.ConfigFileName,
		"Output path for the config file")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing config file without confirmation")
	cmd.Flags().BoolP("interactive", "i", false,
		"Interactive setup wizard")

	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	force, _ := cmd.Flags().GetBool("force")
	interactive, _ := cmd.Flags().GetBool("interactive")

	// An existing file is only replaced after explicit confirmation
	if !force {
		if _, err := os.Stat(configPath); err == nil {
			confirm := promptui.Prompt{
				Label:     fmt.Sprintf("%s already exists. Overwrite", configPath),
				IsConfirm: true,
			}
			if _, err := confirm.Run(); err != nil {
				return fmt.Errorf("aborted; %s left untouched", configPath)
			}
		}
	}

	dir := filepath.Dir(configPath)
	if dir != "." && dir != "" {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return fmt.Errorf("directory does not exist: %s", dir)
		}
	}

	if interactive {
		cfg, err := runInteractiveSetup()
		if err != nil {
			return err
		}
		if err := config.SaveConfig(cfg, configPath); err != nil {
			return err
		}
	} else {
		if err := os.WriteFile(configPath, []byte(config.DefaultConfigTemplate), 0o644); err != nil {
			return fmt.Errorf("failed to write config file: %w", err)
		}
	}

	displayPath := configPath
	if absPath, err := filepath.Abs(configPath); err == nil {
		displayPath = absPath
	}
	fmt.Printf("Created %s\n", displayPath)
	fmt.Println("\nRun 'siteaudit report results.json' to generate your first report.")

	return nil
}

func runInteractiveSetup() (*config.Config, error) {
	fmt.Println()
	fmt.Println("siteaudit Configuration Setup")
	fmt.Println("=============================")
	fmt.Println()

	policies := []struct {
		Label       string
		Description string
		Value       string
	}{
		{"Tolerant (recommended)", "Partial crawl data still produces a report", "tolerant"},
		{"Fail-fast", "Abort before emission on structural problems", "fail-fast"},
	}

	policyTemplates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "\U0001F449 {{ .Label | cyan }} - {{ .Description | faint }}",
		Inactive: "   {{ .Label | white }} - {{ .Description | faint }}",
		Selected: "\U00002705 {{ .Label | green }}",
	}

	policyPrompt := promptui.Select{
		Label:     "How should validation problems be handled?",
		Items:     policies,
		Templates: policyTemplates,
	}

	policyIdx, _, err := policyPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("policy selection cancelled: %w", err)
	}

	fmt.Println()

	formatPrompt := promptui.Prompt{
		Label:   "Report formats (comma-separated: json, yaml, csv, markdown, html)",
		Default: "html",
		Validate: func(input string) error {
			trial := config.DefaultConfig()
			trial.Output.Formats = splitFormats(input)
			return trial.Validate()
		},
	}

	formatsInput, err := formatPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("format input cancelled: %w", err)
	}

	fmt.Println()

	dirPrompt := promptui.Prompt{
		Label:   "Output directory",
		Default: config.DefaultOutputDirectory,
	}
	outputDir, err := dirPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("output directory input cancelled: %w", err)
	}

	cfg := config.DefaultConfig()
	cfg.Validation.Policy = policies[policyIdx].Value
	cfg.Output.Formats = splitFormats(formatsInput)
	cfg.Output.Directory = outputDir
	return cfg, nil
}

func splitFormats(input string) []string {
	var formats []string
	for _, part := range strings.Split(input, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			formats = append(formats, trimmed)
		}
	}
	return formats
}
