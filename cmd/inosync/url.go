// ABOUTME: URL command that prints the public stream URL for a tag
// ABOUTME: Appends a cache-busting parameter with --force

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/harper/inosync/internal/inoreader"
)

var urlCmd = &cobra.Command{
	Use:   "url <tag>",
	Short: "Print the stream URL for a tag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		if cfg.UserID == "" {
			return inoreader.ErrEmptyUserID
		}
		fmt.Println(inoreader.BuildFeedURL(cfg.GetHost(), cfg.UserID, args[0], force, time.Now()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(urlCmd)
	urlCmd.Flags().BoolP("force", "f", false, "append a cache-busting parameter")
}
