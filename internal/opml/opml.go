// ABOUTME: OPML export and import of tag subscriptions
// ABOUTME: Folders become vault destination folders and xmlUrl carries the tag stream URL

package opml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"

	"github.com/harper/inosync/internal/config"
	"github.com/harper/inosync/internal/fsutil"
	"github.com/harper/inosync/internal/inoreader"
)

// Document is an OPML document with a title and a two-level outline tree.
type Document struct {
	Title    string
	Outlines []Outline
	feedURLs map[string]bool
}

// Outline is either a folder (with Children) or a feed (with XMLURL).
type Outline struct {
	Text     string
	Title    string
	Type     string
	XMLURL   string
	Children []Outline
}

// Feed is a single feed with its folder.
type Feed struct {
	URL    string
	Title  string
	Folder string
}

type opmlXML struct {
	XMLName xml.Name `xml:"opml"`
	Version string   `xml:"version,attr"`
	Head    headXML  `xml:"head"`
	Body    bodyXML  `xml:"body"`
}

type headXML struct {
	Title string `xml:"title"`
}

type bodyXML struct {
	Outlines []outlineXML `xml:"outline"`
}

type outlineXML struct {
	Text     string       `xml:"text,attr"`
	Title    string       `xml:"title,attr,omitempty"`
	Type     string       `xml:"type,attr,omitempty"`
	XMLURL   string       `xml:"xmlUrl,attr,omitempty"`
	Children []outlineXML `xml:"outline,omitempty"`
}

// NewDocument creates an empty document.
func NewDocument(title string) *Document {
	return &Document{
		Title:    title,
		Outlines: []Outline{},
		feedURLs: make(map[string]bool),
	}
}

// Parse reads an OPML document.
func Parse(r io.Reader) (*Document, error) {
	var doc opmlXML
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode OPML: %w", err)
	}

	d := &Document{
		Title:    doc.Head.Title,
		Outlines: make([]Outline, len(doc.Body.Outlines)),
	}
	for i, o := range doc.Body.Outlines {
		d.Outlines[i] = fromXML(o)
	}
	d.rebuildURLIndex()
	return d, nil
}

// ParseFile reads an OPML document from path.
func ParseFile(path string) (*Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

func (d *Document) rebuildURLIndex() {
	d.feedURLs = make(map[string]bool)
	for _, feed := range d.AllFeeds() {
		d.feedURLs[feed.URL] = true
	}
}

// AllFeeds returns every feed with the folder it sits in.
func (d *Document) AllFeeds() []Feed {
	feeds := make([]Feed, 0, len(d.Outlines))
	for _, o := range d.Outlines {
		feeds = append(feeds, collectFeeds(o, "")...)
	}
	return feeds
}

// AddFeed adds a feed, creating its folder when needed. Duplicate URLs are rejected.
func (d *Document) AddFeed(url, title, folder string) error {
	if d.feedURLs == nil {
		d.rebuildURLIndex()
	}
	if d.feedURLs[url] {
		return fmt.Errorf("feed with URL %s already exists", url)
	}

	feed := Outline{Text: title, Title: title, Type: "rss", XMLURL: url}
	d.feedURLs[url] = true

	if folder == "" {
		d.Outlines = append(d.Outlines, feed)
		return nil
	}
	for i, o := range d.Outlines {
		if o.Text == folder && o.XMLURL == "" {
			d.Outlines[i].Children = append(d.Outlines[i].Children, feed)
			return nil
		}
	}
	d.Outlines = append(d.Outlines, Outline{Text: folder, Children: []Outline{feed}})
	return nil
}

// Write encodes the document with an XML header.
func (d *Document) Write(w io.Writer) error {
	doc := opmlXML{
		Version: "2.0",
		Head:    headXML{Title: d.Title},
		Body:    bodyXML{Outlines: make([]outlineXML, len(d.Outlines))},
	}
	for i, o := range d.Outlines {
		doc.Body.Outlines[i] = toXML(o)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("failed to write XML header: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode OPML: %w", err)
	}
	return nil
}

// WriteFile writes the document to path atomically.
func (d *Document) WriteFile(path string) error {
	var buf bytes.Buffer
	if err := d.Write(&buf); err != nil {
		return err
	}
	return fsutil.AtomicWrite(path, buf.Bytes())
}

// Export builds a document from the configured tags. Each tag is filed under
// its destination folder and points at its stream URL.
func Export(cfg *config.Config) *Document {
	d := NewDocument("Inoreader tags")
	for _, tag := range cfg.Tags {
		// Tag names are unique in config so stream URLs cannot collide.
		_ = d.AddFeed(inoreader.FeedURL(cfg.GetHost(), cfg.UserID, tag.Name), tag.Name, cfg.DestFolder(tag))
	}
	return d
}

// Subscription is a tag recovered from an imported document.
type Subscription struct {
	UserID string
	Tag    config.TagConfig
}

// Subscriptions returns the feeds that point at tag streams. Other feeds are
// reported in skipped.
func (d *Document) Subscriptions() (subs []Subscription, skipped []Feed) {
	for _, feed := range d.AllFeeds() {
		userID, tag, err := inoreader.ParseFeedURL(feed.URL)
		if err != nil {
			skipped = append(skipped, feed)
			continue
		}
		subs = append(subs, Subscription{
			UserID: userID,
			Tag:    config.TagConfig{Name: tag, Folder: feed.Folder},
		})
	}
	return subs, skipped
}

func fromXML(x outlineXML) Outline {
	o := Outline{
		Text:     x.Text,
		Title:    x.Title,
		Type:     x.Type,
		XMLURL:   x.XMLURL,
		Children: make([]Outline, len(x.Children)),
	}
	for i, child := range x.Children {
		o.Children[i] = fromXML(child)
	}
	return o
}

func toXML(o Outline) outlineXML {
	x := outlineXML{
		Text:     o.Text,
		Title:    o.Title,
		Type:     o.Type,
		XMLURL:   o.XMLURL,
		Children: make([]outlineXML, len(o.Children)),
	}
	for i, child := range o.Children {
		x.Children[i] = toXML(child)
	}
	return x
}

func collectFeeds(o Outline, folder string) []Feed {
	var feeds []Feed
	if o.XMLURL != "" {
		title := o.Title
		if title == "" {
			title = o.Text
		}
		feeds = append(feeds, Feed{URL: o.XMLURL, Title: title, Folder: folder})
	}

	childFolder := folder
	if o.XMLURL == "" && len(o.Children) > 0 {
		childFolder = o.Text
	}
	for _, child := range o.Children {
		feeds = append(feeds, collectFeeds(child, childFolder)...)
	}
	return feeds
}
