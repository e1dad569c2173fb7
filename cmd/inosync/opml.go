// ABOUTME: Export and import commands for exchanging tags as OPML
// ABOUTME: Export writes tag stream outlines; import adds tags from stream URLs

package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/inosync/internal/opml"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export tags as OPML",
	Long:  "Export the configured tags as OPML to standard output, or to a file with --output",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		doc := opml.Export(cfg)
		if output == "" {
			return doc.Write(os.Stdout)
		}
		if err := doc.WriteFile(output); err != nil {
			return err
		}
		fmt.Printf("Exported %d tag(s) to %s\n", len(cfg.Tags), output)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import tags from OPML",
	Long: `Import tags from an OPML file whose outlines point at tag stream URLs.

Outline folders become destination folders. Feeds that are not tag
streams are skipped. The user id is taken from the file when none is
configured.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := opml.ParseFile(args[0])
		if err != nil {
			return err
		}

		green := color.New(color.FgGreen).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()
		faint := color.New(color.Faint).SprintFunc()

		subs, skipped := doc.Subscriptions()
		added := 0
		for _, sub := range subs {
			if cfg.UserID == "" {
				cfg.UserID = sub.UserID
			} else if sub.UserID != cfg.UserID {
				fmt.Printf("%s %s belongs to user %s, skipping\n", yellow("!"), sub.Tag.Name, sub.UserID)
				continue
			}

			if _, exists := cfg.FindTag(sub.Tag.Name); exists {
				fmt.Printf("%s %s already configured\n", faint("-"), sub.Tag.Name)
				continue
			}
			if err := cfg.AddTag(sub.Tag.Name, sub.Tag.Folder); err != nil {
				return err
			}
			fmt.Printf("%s %s\n", green("✓"), sub.Tag.Name)
			added++
		}
		for _, feed := range skipped {
			fmt.Printf("%s %s is not a tag stream\n", faint("-"), feed.URL)
		}

		if added > 0 {
			if err := saveConfig(); err != nil {
				return err
			}
		}
		fmt.Printf("\nImported %d tag(s)\n", added)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	exportCmd.Flags().StringP("output", "o", "", "write to file instead of stdout")
}
