// ABOUTME: Sync command that fetches every configured tag and writes notes into the vault
// ABOUTME: Prints per-tag created, updated, and skipped counts with colored status marks

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync all tags into the vault",
	Long: `Fetch every configured tag and write one Markdown note per item.

Existing notes are left alone. Use --force to bypass feed caches and
overwrite notes that already exist. Use --offline to write placeholder
notes without touching the network.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		offline, _ := cmd.Flags().GetBool("offline")

		if len(cfg.Tags) == 0 {
			fmt.Println("No tags configured. Add one with 'inosync tag add <name>'")
			return nil
		}

		conn, err := openDB()
		if err != nil {
			return err
		}
		syncer, err := newSyncer(openVault(), conn, offline)
		if err != nil {
			return err
		}

		result, err := syncer.Run(cmd.Context(), force)
		if err != nil {
			return err
		}

		green := color.New(color.FgGreen).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()
		faint := color.New(color.Faint).SprintFunc()

		for _, tr := range result.Tags {
			fmt.Printf("Syncing %s -> %s... ", tr.Tag, displayFolder(tr.Folder))
			switch {
			case tr.Err != nil:
				fmt.Printf("%s %s\n", red("✗"), tr.Err.Error())
			case tr.Processed() == 0:
				fmt.Printf("%s no new items %s\n", green("✓"), faint(fmt.Sprintf("(%s, %d skipped)", tr.Format, tr.Skipped)))
			default:
				fmt.Printf("%s %d created, %d updated %s\n", green("✓"), len(tr.Created), len(tr.Updated),
					faint(fmt.Sprintf("(%s, %d skipped)", tr.Format, tr.Skipped)))
			}
		}

		fmt.Println()
		fmt.Printf("Summary: %d tag(s) synced\n", len(result.Tags))
		fmt.Printf("  %s %d notes processed\n", green("✓"), result.Processed)
		if result.Failed > 0 {
			fmt.Printf("  %s %d tag(s) failed\n", red("✗"), result.Failed)
		}
		return nil
	},
}

func displayFolder(folder string) string {
	if folder == "" {
		return "vault root"
	}
	return folder
}

func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.Flags().BoolP("force", "f", false, "bypass caches and overwrite existing notes")
	syncCmd.Flags().Bool("offline", false, "write placeholder notes without fetching")
}
