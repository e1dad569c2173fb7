// ABOUTME: Log commands for viewing and clearing the sync activity log
// ABOUTME: Supports period filters and colors entries by status

package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/inosync/internal/config"
	"github.com/harper/inosync/internal/db"
	"github.com/harper/inosync/internal/models"
	"github.com/harper/inosync/internal/timeutil"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show the sync activity log",
	Long:  "Show recent sync activity, newest first. Filter with --since today|yesterday|week|month.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sinceFlag, _ := cmd.Flags().GetString("since")
		limit, _ := cmd.Flags().GetInt("limit")

		var since *time.Time
		if sinceFlag != "" {
			t, ok := timeutil.ParsePeriod(sinceFlag, time.Now())
			if !ok {
				return fmt.Errorf("invalid --since value %q (use today, yesterday, week, or month)", sinceFlag)
			}
			since = &t
		}
		var limitPtr *int
		if limit > 0 {
			limitPtr = &limit
		}

		conn, err := openDB()
		if err != nil {
			return err
		}
		entries, err := db.ListLogs(conn, since, limitPtr)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No activity yet.")
			return nil
		}

		for _, e := range entries {
			fmt.Println(formatLogEntry(e))
		}
		return nil
	},
}

var logClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the sync activity log",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, err := openDB()
		if err != nil {
			return err
		}
		n, err := db.ClearLogs(conn)
		if err != nil {
			return err
		}
		fmt.Printf("Cleared %d log entries\n", n)
		return nil
	},
}

func formatLogEntry(e *models.LogEntry) string {
	faint := color.New(color.Faint).SprintFunc()

	var mark string
	switch e.Status {
	case models.StatusSuccess:
		mark = color.New(color.FgGreen).Sprint("✓")
	case models.StatusError:
		mark = color.New(color.FgRed).Sprint("✗")
	default:
		mark = color.New(color.FgCyan).Sprint("•")
	}

	line := fmt.Sprintf("%s %s %s", faint(e.Timestamp.Local().Format(config.DateFormatShort)), mark, e.Message)
	if e.Details != "" {
		line += " " + faint(e.Details)
	}
	return line
}

func init() {
	rootCmd.AddCommand(logCmd)
	logCmd.AddCommand(logClearCmd)

	logCmd.Flags().String("since", "", "only show entries since today, yesterday, week, or month")
	logCmd.Flags().IntP("limit", "n", config.DefaultLogLimit, "maximum entries to show (0 for all)")
}
