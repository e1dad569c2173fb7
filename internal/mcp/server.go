// ABOUTME: MCP server implementation for inosync
// ABOUTME: Provides tools, resources, and prompts for AI agents to sync Inoreader tags into a vault

package mcp

import (
	"database/sql"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/harper/inosync/internal/config"
	"github.com/harper/inosync/internal/sync"
	"github.com/harper/inosync/internal/vault"
)

// Server wraps the MCP server with inosync-specific context
type Server struct {
	mcpServer *server.MCPServer
	cfg       *config.Config
	syncer    *sync.Syncer
	vault     *vault.Vault
	db        *sql.DB
	now       func() time.Time
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, syncer *sync.Syncer, v *vault.Vault, db *sql.DB, version string) *Server {
	s := &Server{
		cfg:    cfg,
		syncer: syncer,
		vault:  v,
		db:     db,
		now:    time.Now,
	}

	s.mcpServer = server.NewMCPServer(
		"inosync",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
		server.WithPromptCapabilities(true),
	)

	s.registerTools()
	s.registerResources()
	s.registerPrompts()

	return s
}

// ServeStdio starts the MCP server on stdio
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
