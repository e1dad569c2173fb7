// ABOUTME: FeedItem model representing one normalized entry from a tag feed
// ABOUTME: Produced by the parser and consumed by the converter and note renderer

package models

import "time"

// FeedItem is a single feed entry normalized across Atom and RSS.
// Values are treated as immutable once the parser returns them.
type FeedItem struct {
	ID          string    // Atom <id>, RSS <guid>, else the resolved link
	Title       string    // defaults to "Untitled"
	ContentHTML string    // raw HTML body before Markdown conversion
	Published   time.Time // first of published/updated/pubDate/dc:date, else parse time
	SourceTitle string    // originating feed title
	Link        string    // resolved permalink, may be empty
	Author      string    // defaults to "Unknown"
	Categories  []string  // category labels in document order
}

// PublishedEpochSeconds returns the publish time as fractional Unix seconds.
func (i FeedItem) PublishedEpochSeconds() float64 {
	return float64(i.Published.UnixMilli()) / 1000
}

// HasLink reports whether the item resolved a permalink.
func (i FeedItem) HasLink() bool {
	return i.Link != ""
}
