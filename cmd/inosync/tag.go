// ABOUTME: Tag management commands for adding, listing, and removing synced tags
// ABOUTME: Changes are written straight back to the config file

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/inosync/internal/inoreader"
)

var tagCmd = &cobra.Command{
	Use:     "tag",
	Aliases: []string{"t"},
	Short:   "Manage synced tags",
	Long:    "Add, list, and remove the Inoreader tags mirrored into the vault",
}

var tagAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a tag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		folder, _ := cmd.Flags().GetString("folder")
		if err := cfg.AddTag(args[0], folder); err != nil {
			return err
		}
		if err := saveConfig(); err != nil {
			return err
		}

		tag, _ := cfg.FindTag(args[0])
		fmt.Printf("Added tag '%s' -> %s\n", tag.Name, displayFolder(cfg.DestFolder(tag)))
		return nil
	},
}

var tagListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tags",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(cfg.Tags) == 0 {
			fmt.Println("No tags configured. Add one with 'inosync tag add <name>'")
			return nil
		}

		bold := color.New(color.Bold).SprintFunc()
		faint := color.New(color.Faint).SprintFunc()
		for _, tag := range cfg.Tags {
			fmt.Printf("%s -> %s\n", bold(tag.Name), displayFolder(cfg.DestFolder(tag)))
			if cfg.UserID != "" {
				fmt.Printf("  %s\n", faint(inoreader.FeedURL(cfg.GetHost(), cfg.UserID, tag.Name)))
			}
		}
		return nil
	},
}

var tagRemoveCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm"},
	Short:   "Remove a tag",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.RemoveTag(args[0]); err != nil {
			return err
		}
		if err := saveConfig(); err != nil {
			return err
		}
		fmt.Printf("Removed tag '%s'\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tagCmd)
	tagCmd.AddCommand(tagAddCmd)
	tagCmd.AddCommand(tagListCmd)
	tagCmd.AddCommand(tagRemoveCmd)

	tagAddCmd.Flags().String("folder", "", "vault folder for this tag (default: target folder)")
}
