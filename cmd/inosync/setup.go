// ABOUTME: Cobra command for interactive inosync configuration.
// ABOUTME: Launches a bubbletea TUI wizard for user id, vault directory, and tags.
package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/harper/inosync/internal/config"
	"github.com/harper/inosync/internal/tui"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Configure inosync",
	Long:  "Interactive wizard to configure the Inoreader user id, vault directory, and tags.",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	names := make([]string, 0, len(cfg.Tags))
	for _, tag := range cfg.Tags {
		names = append(names, tag.Name)
	}

	model := tui.NewSetupModel(cfg.UserID, cfg.VaultDir, names)

	p := tea.NewProgram(model)
	result, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	final := result.(tui.SetupModel)
	if !final.ShouldSave() {
		fmt.Println("Setup canceled.")
		return nil
	}

	userID, vaultDir, tags := final.Result()
	cfg.UserID = userID
	cfg.VaultDir = vaultDir
	cfg.Tags = mergeTags(cfg.Tags, tags)

	if err := saveConfig(); err != nil {
		return err
	}

	path := cfgPath
	if path == "" {
		path = config.GetConfigPath()
	}
	fmt.Printf("Config saved to %s\n", path)
	return nil
}

// mergeTags keeps the folder of tags that were already configured.
func mergeTags(existing []config.TagConfig, names []string) []config.TagConfig {
	folders := make(map[string]string, len(existing))
	for _, tag := range existing {
		folders[tag.Name] = tag.Folder
	}

	merged := make([]config.TagConfig, 0, len(names))
	for _, name := range names {
		merged = append(merged, config.TagConfig{Name: name, Folder: folders[name]})
	}
	return merged
}
