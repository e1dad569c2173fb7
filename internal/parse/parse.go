// ABOUTME: Tolerant Atom/RSS parsing of tag feed responses into normalized FeedItems
// ABOUTME: Each field is resolved through an ordered chain of lookups with fixed fallbacks

package parse

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/mmcdole/gofeed"

	"github.com/harper/inosync/internal/models"
)

var (
	// ErrBlockedResponse means the server answered with an HTML page
	// (bot challenge or error page) instead of a feed.
	ErrBlockedResponse = errors.New("received HTML instead of XML; the request may be blocked by bot protection, check the User-Agent setting")

	// ErrMalformedFeed means the response is not well-formed XML.
	ErrMalformedFeed = errors.New("failed to parse XML feed; the feed might be malformed")
)

// Fallback field values.
const (
	DefaultTitle  = "Untitled"
	DefaultSource = "Inoreader"
	DefaultAuthor = "Unknown"
)

// Feed is the parsed form of one feed response.
type Feed struct {
	Title  string
	Format string // "atom", "rss" or "unknown"
	Items  []models.FeedItem
}

// Parse turns a raw feed body into items in document order. now is used as
// the published time for entries without a parseable date.
func Parse(text string, now time.Time) (*Feed, error) {
	if looksLikeHTML(text) {
		return nil, ErrBlockedResponse
	}

	root, err := buildTree(strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFeed, err)
	}

	entries := root.all("entry")
	if len(entries) == 0 {
		entries = root.all("item")
	}

	feed := &Feed{
		Title:  feedTitle(root),
		Format: detectFormat(text),
		Items:  make([]models.FeedItem, 0, len(entries)),
	}
	for _, e := range entries {
		feed.Items = append(feed.Items, extractItem(e, now))
	}
	return feed, nil
}

func looksLikeHTML(text string) bool {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) >= len("<!doctype html") && strings.EqualFold(trimmed[:len("<!doctype html")], "<!doctype html") {
		return true
	}
	return strings.Contains(text, "<html")
}

func detectFormat(text string) string {
	switch gofeed.DetectFeedType(strings.NewReader(text)) {
	case gofeed.FeedTypeAtom:
		return "atom"
	case gofeed.FeedTypeRSS:
		return "rss"
	default:
		return "unknown"
	}
}

// feedTitle returns the channel title: the root's (or RSS channel's) own
// title child, never an entry title.
func feedTitle(root *node) string {
	parent := root
	if ch := root.first("channel"); ch != nil {
		parent = ch
	}
	for _, c := range parent.children {
		if c.name == "title" {
			return strings.TrimSpace(c.textContent())
		}
	}
	return ""
}

// extractor resolves one candidate value for a field; "" means absent.
type extractor func(e *node) string

// coalesce returns the first non-empty candidate.
func coalesce(e *node, chain ...extractor) string {
	for _, fn := range chain {
		if v := fn(e); v != "" {
			return v
		}
	}
	return ""
}

func text(name string) extractor {
	return func(e *node) string {
		if el := e.first(name); el != nil {
			return strings.TrimSpace(el.textContent())
		}
		return ""
	}
}

// body returns markup for content-bearing elements. Escaped HTML arrives as
// plain character data and is returned decoded; inline XHTML is re-serialized.
func body(name string) extractor {
	return func(e *node) string {
		el := e.first(name)
		if el == nil {
			return ""
		}
		if el.hasElementChildren() {
			return strings.TrimSpace(el.innerXML())
		}
		return strings.TrimSpace(el.textContent())
	}
}

func authorName(e *node) string {
	el := e.first("author")
	if el == nil {
		return ""
	}
	if name := el.first("name"); name != nil {
		if v := strings.TrimSpace(name.textContent()); v != "" {
			return v
		}
	}
	return strings.TrimSpace(el.textContent())
}

func sourceTitle(e *node) string {
	src := e.first("source")
	if src == nil {
		return ""
	}
	return coalesce(src, text("title"), func(s *node) string {
		return strings.TrimSpace(s.textContent())
	})
}

// linkHref resolves the permalink: an alternate link, then a URL in the
// first link's text, then the first link's href.
func linkHref(e *node) string {
	links := e.all("link")
	if len(links) == 0 {
		return ""
	}
	for _, l := range links {
		if l.attr("rel") == "alternate" && l.attr("href") != "" {
			return strings.TrimSpace(l.attr("href"))
		}
	}
	if t := strings.TrimSpace(links[0].textContent()); strings.HasPrefix(t, "http") {
		return t
	}
	return strings.TrimSpace(links[0].attr("href"))
}

func categories(e *node) []string {
	var out []string
	for _, c := range e.all("category") {
		v := strings.TrimSpace(c.textContent())
		if v == "" {
			v = strings.TrimSpace(c.attr("term"))
		}
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// zoneOffsets maps the RFC 822 zone names allowed in pubDate to numeric
// offsets; dateparse would otherwise read them as zero-offset zones.
var zoneOffsets = map[string]string{
	"UT":  "+0000",
	"Z":   "+0000",
	"EST": "-0500",
	"EDT": "-0400",
	"CST": "-0600",
	"CDT": "-0500",
	"MST": "-0700",
	"MDT": "-0600",
	"PST": "-0800",
	"PDT": "-0700",
}

func normalizeZone(raw string) string {
	i := strings.LastIndexByte(raw, ' ')
	if i < 0 {
		return raw
	}
	if offset, ok := zoneOffsets[strings.ToUpper(raw[i+1:])]; ok {
		return raw[:i+1] + offset
	}
	return raw
}

func published(e *node, now time.Time) time.Time {
	raw := coalesce(e, text("published"), text("updated"), text("pubDate"), text("dc:date"))
	if raw == "" {
		return now
	}
	t, err := dateparse.ParseIn(normalizeZone(raw), time.UTC)
	if err != nil {
		return now
	}
	return t
}

func extractItem(e *node, now time.Time) models.FeedItem {
	link := linkHref(e)

	item := models.FeedItem{
		Title:       coalesce(e, text("title")),
		ID:          coalesce(e, text("id"), text("guid")),
		ContentHTML: coalesce(e, body("content:encoded"), body("encoded"), body("content"), body("description"), body("summary")),
		Published:   published(e, now),
		SourceTitle: coalesce(e, sourceTitle),
		Link:        link,
		Author:      coalesce(e, authorName, text("dc:creator")),
		Categories:  categories(e),
	}

	if item.Title == "" {
		item.Title = DefaultTitle
	}
	if item.ID == "" {
		item.ID = link
	}
	if item.SourceTitle == "" {
		item.SourceTitle = DefaultSource
	}
	if item.Author == "" {
		item.Author = DefaultAuthor
	}
	return item
}
