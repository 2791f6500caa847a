package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nlshell/nlsh/internal/app"
	configinfra "github.com/nlshell/nlsh/internal/infrastructure/config"
)

// NewInitCommand creates the init command. It writes a default
// configuration with three example models; users then edit
// ~/.nlsh/config.yaml and export the matching API keys.
func NewInitCommand(container *app.Container) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize nlsh configuration",
		Long: `Initialize nlsh configuration with default settings.

This command creates ~/.nlsh/config.yaml with example models for
Anthropic, OpenAI and a local Ollama endpoint. After initialization:
  1. Edit the config file to pick your models
  2. Export the required API keys (ANTHROPIC_API_KEY, OPENAI_API_KEY)
  3. Run 'nlsh doctor' to verify your setup
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, container, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing config without prompting")
	return cmd
}

func runInit(cmd *cobra.Command, container *app.Container, force bool) error {
	loader := container.ConfigLoader
	configPath := loader.Path()

	if _, err := os.Stat(configPath); err == nil && !force {
		if !confirmOverwrite(cmd, configPath) {
			fmt.Fprintln(cmd.OutOrStdout(), "Init cancelled.")
			return nil
		}
	}

	cfg, err := configinfra.DefaultConfig()
	if err != nil {
		return fmt.Errorf("load default configuration: %w", err)
	}
	if err := loader.Save(cfg); err != nil {
		return fmt.Errorf("save configuration: %w", err)
	}

	printNextSteps(cmd.OutOrStdout(), configPath)
	return nil
}

func confirmOverwrite(cmd *cobra.Command, configPath string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s exists. Overwrite? [y/N]: ", configPath)
	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	line = strings.ToLower(strings.TrimSpace(line))
	return line == "y" || line == "yes"
}

func printNextSteps(out io.Writer, configPath string) {
	fmt.Fprintf(out, "\nConfiguration initialized: %s\n\n", configPath)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintf(out, "  1. Edit %s to pick your models\n", configPath)
	fmt.Fprintln(out, "  2. Export the required API keys:")
	fmt.Fprintln(out, "     export ANTHROPIC_API_KEY=your-key-here")
	fmt.Fprintln(out, "     export OPENAI_API_KEY=your-key-here")
	fmt.Fprintln(out, "  3. Verify your setup:")
	fmt.Fprintln(out, "     nlsh doctor")
	fmt.Fprintln(out, "  4. Try a query:")
	fmt.Fprintln(out, "     nlsh \"list files modified today\"")
}
