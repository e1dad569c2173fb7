// ABOUTME: MCP server command for inosync CLI
// ABOUTME: Starts stdio-based MCP server, optionally syncing once before serving

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/inosync/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server for AI agents",
	Long: `Start the Model Context Protocol (MCP) server on stdio.

This allows AI agents like Claude to list tags, preview notes, run
syncs, and read the activity log through structured tools.

When sync_on_startup is set in the config, one sync runs before the
server starts. The server communicates via JSON-RPC on stdin/stdout.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, err := openDB()
		if err != nil {
			return err
		}
		v := openVault()
		syncer, err := newSyncer(v, conn, false)
		if err != nil {
			return err
		}

		if cfg.SyncOnStartup {
			result, err := syncer.Run(cmd.Context(), false)
			if err != nil {
				logger.Error("startup sync failed", "err", err)
			} else {
				logger.Info("startup sync complete", "processed", result.Processed, "failed", result.Failed)
			}
		}

		server := mcp.NewServer(cfg, syncer, v, conn, Version)
		if err := server.ServeStdio(); err != nil {
			return fmt.Errorf("MCP server error: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
