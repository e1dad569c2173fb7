// ABOUTME: Preview command that renders a tag's notes in the terminal without writing them
// ABOUTME: Uses glamour for Markdown rendering, or prints raw documents with --raw

package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/inosync/internal/config"
	"github.com/harper/inosync/internal/render"
	"github.com/harper/inosync/internal/sync"
)

var previewCmd = &cobra.Command{
	Use:   "preview <tag>",
	Short: "Preview the notes a tag would produce",
	Long:  "Fetch a tag and show the rendered notes without writing anything to the vault.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		raw, _ := cmd.Flags().GetBool("raw")
		offline, _ := cmd.Flags().GetBool("offline")

		syncer, err := newSyncer(openVault(), nil, offline)
		if err != nil {
			return err
		}
		preview, err := syncer.Preview(cmd.Context(), args[0], limit)
		if err != nil {
			return err
		}
		fmt.Println(previewHeader(preview))
		if len(preview.Notes) == 0 {
			fmt.Println("No items in this tag.")
			return nil
		}

		for _, note := range preview.Notes {
			printNote(note, raw)
		}
		return nil
	},
}

func previewHeader(p *sync.PreviewResult) string {
	faint := color.New(color.Faint).SprintFunc()
	title := p.Title
	if title == "" {
		title = p.Tag
	}
	return fmt.Sprintf("%s %s", title, faint(fmt.Sprintf("(%s, %d notes)", p.Format, len(p.Notes))))
}

func printNote(note render.Note, raw bool) {
	bold := color.New(color.Bold).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()

	fmt.Println(strings.Repeat("─", config.SeparatorWidth))
	fmt.Printf("%s\n", bold(note.FileName()))
	fmt.Println(strings.Repeat("─", config.SeparatorWidth))

	if raw {
		fmt.Println(note.Document)
		return
	}

	rendered, err := glamour.Render(note.Document, "dark")
	if err != nil {
		fmt.Printf("%s\n", faint("(markdown rendering unavailable, showing plain text)"))
		fmt.Printf("\n%s\n", note.Document)
		return
	}
	fmt.Print(rendered)
}

func init() {
	rootCmd.AddCommand(previewCmd)
	previewCmd.Flags().IntP("limit", "n", 3, "maximum notes to show (0 for all)")
	previewCmd.Flags().Bool("raw", false, "print the raw Markdown documents")
	previewCmd.Flags().Bool("offline", false, "preview placeholder notes without fetching")
}
