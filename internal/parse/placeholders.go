// ABOUTME: Deterministic placeholder items for offline and demo runs
// ABOUTME: Items carry a recognizable id prefix so they never pass for real feed data

package parse

import (
	"fmt"
	"strings"
	"time"

	"github.com/harper/inosync/internal/models"
)

// PlaceholderIDPrefix marks items produced by Placeholders.
const PlaceholderIDPrefix = "tag:inoreader.com,2024:item/"

// Placeholders returns three fixed items for tag without touching the network.
func Placeholders(tag, userID string, now time.Time) []models.FeedItem {
	day := 24 * time.Hour
	return []models.FeedItem{
		{
			ID:          fmt.Sprintf("%s%s_1", PlaceholderIDPrefix, tag),
			Title:       fmt.Sprintf("%s: The Comprehensive Guide", tag),
			ContentHTML: fmt.Sprintf("This is a simulated article content retrieved for the tag <b>%s</b> from user <b>%s</b>.", tag, userID),
			Published:   now,
			SourceTitle: "Inoreader Public Feed",
			Link:        "https://inoreader.com/example/1",
			Author:      DefaultAuthor,
		},
		{
			ID:          fmt.Sprintf("%s%s_2", PlaceholderIDPrefix, tag),
			Title:       fmt.Sprintf("Why %s Matters in 2024", tag),
			ContentHTML: "An analysis of current trends and future predictions based on public RSS data.",
			Published:   now.Add(-day),
			SourceTitle: "Tech Weekly",
			Link:        "https://inoreader.com/example/2",
			Author:      DefaultAuthor,
		},
		{
			ID:          fmt.Sprintf("%s%s_3", PlaceholderIDPrefix, tag),
			Title:       fmt.Sprintf("10 Tips for %s", tag),
			ContentHTML: "A listicle format article with quick tips and tricks.",
			Published:   now.Add(-2 * day),
			SourceTitle: "Daily Digest",
			Link:        "https://inoreader.com/example/3",
			Author:      DefaultAuthor,
		},
	}
}

// IsPlaceholder reports whether item came from Placeholders.
func IsPlaceholder(item models.FeedItem) bool {
	return strings.HasPrefix(item.ID, PlaceholderIDPrefix)
}
