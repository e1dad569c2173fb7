// ABOUTME: Notes command listing synced notes from the vault
// ABOUTME: Reads each note's frontmatter and shows title, date, and path

package main

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/inosync/internal/config"
)

var notesCmd = &cobra.Command{
	Use:   "notes [tag]",
	Short: "List synced notes",
	Long:  "List the notes in every tag folder, or only in the given tag's folder, newest first.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tags := cfg.Tags
		if len(args) == 1 {
			tag, ok := cfg.FindTag(args[0])
			if !ok {
				return fmt.Errorf("tag not found: %s", args[0])
			}
			tags = []config.TagConfig{tag}
		}

		v := openVault()
		bold := color.New(color.Bold).SprintFunc()
		faint := color.New(color.Faint).SprintFunc()

		seen := map[string]bool{}
		total := 0
		for _, tag := range tags {
			folder := cfg.DestFolder(tag)
			if seen[folder] {
				continue
			}
			seen[folder] = true

			notes, err := v.List(folder)
			if err != nil {
				return err
			}
			fmt.Printf("%s (%d)\n", bold(displayFolder(folder)), len(notes))
			for _, n := range notes {
				rel, err := filepath.Rel(v.Root(), n.Path)
				if err != nil {
					rel = n.Path
				}
				fmt.Printf("  %s %s\n", n.Title, faint(n.Date+"  "+rel))
			}
			total += len(notes)
		}

		if total == 0 {
			fmt.Println("No notes yet. Run 'inosync sync' first.")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(notesCmd)
}
