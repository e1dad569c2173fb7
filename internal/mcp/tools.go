// ABOUTME: MCP tool definitions and handlers for tag, sync, preview, and activity log operations
// ABOUTME: Every handler returns indented JSON text so agents can parse results

package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/harper/inosync/internal/config"
	"github.com/harper/inosync/internal/db"
	"github.com/harper/inosync/internal/inoreader"
	"github.com/harper/inosync/internal/sync"
	"github.com/harper/inosync/internal/timeutil"
)

type TagOutput struct {
	Name   string `json:"name"`
	Folder string `json:"folder"`
	URL    string `json:"url"`
}

type ListTagsOutput struct {
	UserID string      `json:"user_id"`
	Tags   []TagOutput `json:"tags"`
	Count  int         `json:"count"`
}

type FeedURLInput struct {
	Tag   string `json:"tag"`
	Force *bool  `json:"force,omitempty"`
}

type FeedURLOutput struct {
	Tag string `json:"tag"`
	URL string `json:"url"`
}

type SyncTagsInput struct {
	Force *bool `json:"force,omitempty"`
}

type TagSyncResult struct {
	Tag     string   `json:"tag"`
	Folder  string   `json:"folder"`
	Format  string   `json:"format,omitempty"`
	Created []string `json:"created"`
	Updated []string `json:"updated"`
	Skipped int      `json:"skipped"`
	Error   *string  `json:"error,omitempty"`
}

type SyncTagsOutput struct {
	Results   []TagSyncResult `json:"results"`
	Processed int             `json:"processed"`
	Failed    int             `json:"failed"`
	Force     bool            `json:"force"`
}

type PreviewTagInput struct {
	Tag   string `json:"tag"`
	Limit *int   `json:"limit,omitempty"`
}

type PreviewNote struct {
	FileName string `json:"file_name"`
	Document string `json:"document"`
}

type PreviewTagOutput struct {
	Tag    string        `json:"tag"`
	Title  string        `json:"title"`
	Format string        `json:"format"`
	Notes  []PreviewNote `json:"notes"`
	Count  int           `json:"count"`
}

type ListLogInput struct {
	Since *string `json:"since,omitempty"`
	Limit *int    `json:"limit,omitempty"`
}

type LogOutput struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
}

type ListLogOutput struct {
	Entries []LogOutput `json:"entries"`
	Count   int         `json:"count"`
}

func (s *Server) registerTools() {
	s.registerListTagsTool()
	s.registerFeedURLTool()
	s.registerSyncTagsTool()
	s.registerPreviewTagTool()
	s.registerListLogTool()
}

func (s *Server) registerListTagsTool() {
	tool := mcp.Tool{
		Name:        "list_tags",
		Description: "List the Inoreader tags configured for syncing, with the vault folder each one writes to and its public stream URL.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
	s.mcpServer.AddTool(tool, s.handleListTags)
}

func (s *Server) registerFeedURLTool() {
	tool := mcp.Tool{
		Name:        "feed_url",
		Description: "Build the public stream URL for a tag of the configured user. With force, a t=<epoch ms> parameter is appended to bypass caches.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"tag": map[string]interface{}{
					"type":        "string",
					"description": "Tag name. Example: 'Tech News'",
				},
				"force": map[string]interface{}{
					"type":        "boolean",
					"description": "Append a cache-busting parameter",
				},
			},
			Required: []string{"tag"},
		},
	}
	s.mcpServer.AddTool(tool, s.handleFeedURL)
}

func (s *Server) registerSyncTagsTool() {
	tool := mcp.Tool{
		Name:        "sync_tags",
		Description: "Fetch every configured tag and write one Markdown note per item into the vault. Existing notes are skipped unless force is set, in which case they are overwritten. A failing tag does not stop the others.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"force": map[string]interface{}{
					"type":        "boolean",
					"description": "Bypass caches and overwrite existing notes",
				},
			},
		},
	}
	s.mcpServer.AddTool(tool, s.handleSyncTags)
}

func (s *Server) registerPreviewTagTool() {
	tool := mcp.Tool{
		Name:        "preview_tag",
		Description: "Fetch a tag and return the notes that would be written, without touching the vault.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"tag": map[string]interface{}{
					"type":        "string",
					"description": "Tag name to preview",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of notes to return (default 5)",
				},
			},
			Required: []string{"tag"},
		},
	}
	s.mcpServer.AddTool(tool, s.handlePreviewTag)
}

func (s *Server) registerListLogTool() {
	tool := mcp.Tool{
		Name:        "list_log",
		Description: "Show the sync activity log, newest first. Filter with since ('today', 'yesterday', 'week', 'month', or a YYYY-MM-DD / RFC3339 date).",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"since": map[string]interface{}{
					"type":        "string",
					"description": "Only entries at or after this time",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum entries to return (default 20, 0 for all)",
				},
			},
		},
	}
	s.mcpServer.AddTool(tool, s.handleListLog)
}

func toolJSON(v any) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal output: %w", err)
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) tagOutputs() []TagOutput {
	tags := make([]TagOutput, 0, len(s.cfg.Tags))
	for _, tag := range s.cfg.Tags {
		tags = append(tags, TagOutput{
			Name:   tag.Name,
			Folder: s.cfg.DestFolder(tag),
			URL:    inoreader.FeedURL(s.cfg.GetHost(), s.cfg.UserID, tag.Name),
		})
	}
	return tags
}

func (s *Server) handleListTags(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tags := s.tagOutputs()
	return toolJSON(ListTagsOutput{UserID: s.cfg.UserID, Tags: tags, Count: len(tags)})
}

func (s *Server) handleFeedURL(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input FeedURLInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	if input.Tag == "" {
		return nil, fmt.Errorf("tag is required")
	}
	if s.cfg.UserID == "" {
		return nil, inoreader.ErrEmptyUserID
	}

	force := input.Force != nil && *input.Force
	url := inoreader.BuildFeedURL(s.cfg.GetHost(), s.cfg.UserID, input.Tag, force, s.now())
	return toolJSON(FeedURLOutput{Tag: input.Tag, URL: url})
}

func (s *Server) handleSyncTags(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input SyncTagsInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	force := input.Force != nil && *input.Force

	result, err := s.syncer.Run(ctx, force)
	if errors.Is(err, sync.ErrSyncInProgress) {
		return mcp.NewToolResultError("a sync is already in progress"), nil
	}
	if err != nil {
		return nil, fmt.Errorf("sync failed: %w", err)
	}

	output := SyncTagsOutput{
		Results:   make([]TagSyncResult, 0, len(result.Tags)),
		Processed: result.Processed,
		Failed:    result.Failed,
		Force:     result.Force,
	}
	for _, tr := range result.Tags {
		r := TagSyncResult{
			Tag:     tr.Tag,
			Folder:  tr.Folder,
			Format:  tr.Format,
			Created: nonNil(tr.Created),
			Updated: nonNil(tr.Updated),
			Skipped: tr.Skipped,
		}
		if tr.Err != nil {
			msg := tr.Err.Error()
			r.Error = &msg
		}
		output.Results = append(output.Results, r)
	}
	return toolJSON(output)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func (s *Server) handlePreviewTag(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input PreviewTagInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	if input.Tag == "" {
		return nil, fmt.Errorf("tag is required")
	}
	limit := 5
	if input.Limit != nil {
		if *input.Limit < 0 {
			return nil, fmt.Errorf("limit must be non-negative, got %d", *input.Limit)
		}
		limit = *input.Limit
	}

	preview, err := s.syncer.Preview(ctx, input.Tag, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to preview tag %s: %w", input.Tag, err)
	}

	output := PreviewTagOutput{
		Tag:    input.Tag,
		Title:  preview.Title,
		Format: preview.Format,
		Notes:  make([]PreviewNote, 0, len(preview.Notes)),
	}
	for _, n := range preview.Notes {
		output.Notes = append(output.Notes, PreviewNote{FileName: n.FileName(), Document: n.Document})
	}
	output.Count = len(output.Notes)
	return toolJSON(output)
}

func (s *Server) handleListLog(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input ListLogInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	if s.db == nil {
		return nil, fmt.Errorf("activity log is not available")
	}

	var since *time.Time
	if input.Since != nil {
		t, err := parseSince(*input.Since, s.now())
		if err != nil {
			return nil, fmt.Errorf("invalid since value: %w", err)
		}
		since = &t
	}
	limit := config.DefaultLogLimit
	if input.Limit != nil {
		if *input.Limit < 0 {
			return nil, fmt.Errorf("limit must be non-negative, got %d", *input.Limit)
		}
		limit = *input.Limit
	}

	var limitPtr *int
	if limit > 0 {
		limitPtr = &limit
	}
	entries, err := db.ListLogs(s.db, since, limitPtr)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity log: %w", err)
	}

	output := ListLogOutput{Entries: make([]LogOutput, 0, len(entries))}
	for _, e := range entries {
		output.Entries = append(output.Entries, LogOutput{
			ID:        e.ID,
			Timestamp: e.Timestamp,
			Status:    e.Status,
			Message:   e.Message,
			Details:   e.Details,
		})
	}
	output.Count = len(output.Entries)
	return toolJSON(output)
}

// parseSince accepts a named period or an absolute date.
func parseSince(value string, now time.Time) (time.Time, error) {
	if t, ok := timeutil.ParsePeriod(value, now); ok {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", value, now.Location()); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q (use today, yesterday, week, month, YYYY-MM-DD, or RFC3339)", value)
}
