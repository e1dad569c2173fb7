// ABOUTME: MCP prompt definitions and handlers
// ABOUTME: Provides workflow templates for syncing and reviewing tag notes

package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPrompts() {
	s.mcpServer.AddPrompt(
		mcp.Prompt{
			Name:        "sync-review",
			Description: "Sync all configured tags, then review what changed and investigate any failing tag",
			Arguments:   []mcp.PromptArgument{},
		},
		s.handleSyncReview,
	)

	s.mcpServer.AddPrompt(
		mcp.Prompt{
			Name:        "tag-briefing",
			Description: "Preview a single tag and summarize its newest items",
			Arguments: []mcp.PromptArgument{
				{
					Name:        "tag",
					Description: "Tag to brief on",
					Required:    true,
				},
			},
		},
		s.handleTagBriefing,
	)
}

func (s *Server) handleSyncReview(_ context.Context, _ mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	template := `# Sync Review

## Workflow Steps

### Step 1: Check the configuration
Use the list_tags tool (or the inosync://tags resource) to see which tags are synced and into which vault folders.

### Step 2: Run the sync
Call sync_tags. Leave force unset unless notes must be regenerated; force overwrites notes that already exist.

### Step 3: Review the results
For each tag, report how many notes were created, updated, and skipped.

### Step 4: Investigate failures
For any tag with an error, read list_log with since='today' and explain the cause:
- "user ID is required" means the configuration has no user id.
- "HTTP Error 4xx" usually means the tag name or user id is wrong, or the tag is not public.
- "blocked" means an HTML challenge page was returned instead of a feed.
- "malformed" means the response was not well-formed XML.

### Step 5: Summarize
Give a short summary of new notes per folder, with titles.
`

	return &mcp.GetPromptResult{
		Description: "Sync all tags and review the outcome",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: template,
				},
			},
		},
	}, nil
}

func (s *Server) handleTagBriefing(_ context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	tag := strings.TrimSpace(req.Params.Arguments["tag"])
	if tag == "" {
		return nil, fmt.Errorf("tag argument is required")
	}

	text := fmt.Sprintf(`# Briefing: %[1]s

1. Call preview_tag with tag=%[1]q and limit=10.
2. Read each note's frontmatter (title, author, source, date) and body.
3. Group the items by source and summarize each group in two or three sentences.
4. Close with the three items most worth reading in full, linking their url field.
`, tag)

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Briefing for tag %s", tag),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: text,
				},
			},
		},
	}, nil
}
