// ABOUTME: MCP resource providers for inosync
// ABOUTME: Exposes read-only views of configured tags, the activity log, and synced notes

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/harper/inosync/internal/config"
	"github.com/harper/inosync/internal/db"
)

// ResourceData is the standard response format for all resources.
type ResourceData struct {
	Metadata ResourceMetadata  `json:"metadata"`
	Data     interface{}       `json:"data"`
	Links    map[string]string `json:"links"`
}

// ResourceMetadata contains metadata about the resource response.
type ResourceMetadata struct {
	Timestamp   time.Time `json:"timestamp"`
	Count       int       `json:"count"`
	ResourceURI string    `json:"resource_uri"`
}

const (
	tagsURI  = "inosync://tags"
	logURI   = "inosync://log"
	notesURI = "inosync://notes"
)

var resourceLinks = map[string]string{
	"tags":  tagsURI,
	"log":   logURI,
	"notes": notesURI,
}

func (s *Server) registerResources() {
	s.addJSONResource(mcp.Resource{
		URI:         tagsURI,
		Name:        "Configured Tags",
		Description: "Tags synced into the vault with their destination folders and stream URLs",
		MIMEType:    "application/json",
	}, s.readTags)

	s.addJSONResource(mcp.Resource{
		URI:         logURI,
		Name:        "Activity Log",
		Description: "The most recent sync activity log entries, newest first",
		MIMEType:    "application/json",
	}, s.readLog)

	s.addJSONResource(mcp.Resource{
		URI:         notesURI,
		Name:        "Synced Notes",
		Description: "Frontmatter of the notes in every configured tag folder, newest first",
		MIMEType:    "application/json",
	}, s.readNotes)
}

// addJSONResource registers a resource whose reader returns its data and item count.
func (s *Server) addJSONResource(res mcp.Resource, read func() (interface{}, int, error)) {
	s.mcpServer.AddResource(res, func(_ context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		data, count, err := read()
		if err != nil {
			return nil, err
		}

		resourceData := ResourceData{
			Metadata: ResourceMetadata{
				Timestamp:   s.now(),
				Count:       count,
				ResourceURI: res.URI,
			},
			Data:  data,
			Links: resourceLinks,
		}

		jsonBytes, err := json.MarshalIndent(resourceData, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal resource data: %w", err)
		}

		return []mcp.ResourceContents{
			&mcp.TextResourceContents{
				URI:      request.Params.URI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}

func (s *Server) readTags() (interface{}, int, error) {
	tags := s.tagOutputs()
	return tags, len(tags), nil
}

func (s *Server) readLog() (interface{}, int, error) {
	if s.db == nil {
		return []LogOutput{}, 0, nil
	}
	limit := config.DefaultLogLimit
	entries, err := db.ListLogs(s.db, nil, &limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list activity log: %w", err)
	}

	out := make([]LogOutput, 0, len(entries))
	for _, e := range entries {
		out = append(out, LogOutput{
			ID:        e.ID,
			Timestamp: e.Timestamp,
			Status:    e.Status,
			Message:   e.Message,
			Details:   e.Details,
		})
	}
	return out, len(out), nil
}

// NoteOutput is a synced note as exposed to agents.
type NoteOutput struct {
	Tag    string   `json:"tag"`
	Path   string   `json:"path"`
	ID     string   `json:"id"`
	Title  string   `json:"title"`
	Date   string   `json:"date"`
	Source string   `json:"source"`
	URL    string   `json:"url,omitempty"`
	Tags   []string `json:"tags,omitempty"`
}

func (s *Server) readNotes() (interface{}, int, error) {
	out := []NoteOutput{}
	seen := map[string]bool{}
	for _, tag := range s.cfg.Tags {
		folder := s.cfg.DestFolder(tag)
		if seen[folder] {
			continue
		}
		seen[folder] = true

		notes, err := s.vault.List(folder)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to list notes in %s: %w", folder, err)
		}
		for _, n := range notes {
			out = append(out, NoteOutput{
				Tag:    tag.Name,
				Path:   n.Path,
				ID:     n.ID,
				Title:  n.Title,
				Date:   n.Date,
				Source: n.Source,
				URL:    n.URL,
				Tags:   n.Tags,
			})
		}
	}
	return out, len(out), nil
}
