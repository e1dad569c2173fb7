// ABOUTME: Renders FeedItems into Markdown notes with YAML frontmatter or a user template
// ABOUTME: Also derives filesystem-safe file name stems from item titles

package render

import (
	"strings"
	"unicode"

	"github.com/harper/inosync/internal/models"
	"github.com/harper/inosync/internal/timeutil"
)

// FallbackURL stands in for items without a permalink.
const FallbackURL = "https://inoreader.com"

// DefaultTemplate selects the built-in frontmatter layout.
const DefaultTemplate = "default"

// Note is a rendered note ready to be written as <FileNameStem>.md.
type Note struct {
	FileNameStem string
	Document     string
}

// FileName returns the note's file name including the .md extension.
func (n Note) FileName() string {
	return n.FileNameStem + ".md"
}

var unsafeFileChars = strings.NewReplacer(
	`\`, "-", "/", "-", ":", "-", "*", "-", "?", "-",
	`"`, "-", "<", "-", ">", "-", "|", "-",
)

// FileNameStem replaces characters that are unsafe in file names with "-".
func FileNameStem(title string) string {
	return unsafeFileChars.Replace(title)
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", "")

// templateQuoteEscaper escapes only double quotes; templates own their layout.
var templateQuoteEscaper = strings.NewReplacer(`"`, `\"`)

// escape makes s safe inside a double-quoted YAML scalar.
func escape(s string) string {
	return quoteEscaper.Replace(s)
}

// cleanTag lowercases a category and keeps only letters, digits and underscores.
func cleanTag(category string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(category) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Tags returns the cleaned, non-empty category tags of item.
func Tags(item models.FeedItem) []string {
	tags := make([]string, 0, len(item.Categories))
	for _, c := range item.Categories {
		if t := cleanTag(c); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func sourceURL(item models.FeedItem) string {
	if item.HasLink() {
		return item.Link
	}
	return FallbackURL
}

// IsTemplate reports whether tmpl is a user template rather than the
// built-in layout.
func IsTemplate(tmpl string) bool {
	t := strings.TrimSpace(tmpl)
	return t != "" && t != DefaultTemplate
}

// Render produces the note for item with body as the converted Markdown.
// Unknown placeholders in tmpl are left as-is.
func Render(item models.FeedItem, body, tmpl string) Note {
	note := Note{FileNameStem: FileNameStem(item.Title)}
	if IsTemplate(tmpl) {
		note.Document = applyTemplate(item, body, tmpl)
	} else {
		note.Document = frontmatter(item, body)
	}
	return note
}

func applyTemplate(item models.FeedItem, body, tmpl string) string {
	r := strings.NewReplacer(
		"{{title}}", item.Title,
		"{{content}}", body,
		"{{url}}", sourceURL(item),
		"{{source}}", item.SourceTitle,
		"{{id}}", templateQuoteEscaper.Replace(item.ID),
		"{{date}}", timeutil.FormatISO(item.Published),
		"{{author}}", item.Author,
		"{{tags}}", strings.Join(Tags(item), ","),
	)
	return r.Replace(tmpl)
}

func frontmatter(item models.FeedItem, body string) string {
	url := sourceURL(item)
	tags := "inoreader, rss"
	if cats := Tags(item); len(cats) > 0 {
		tags += ", " + strings.Join(cats, ",")
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString(`id: "` + escape(item.ID) + "\"\n")
	b.WriteString(`title: "` + escape(item.Title) + "\"\n")
	b.WriteString(`author: "` + escape(item.Author) + "\"\n")
	b.WriteString("date: " + timeutil.FormatISO(item.Published) + "\n")
	b.WriteString(`source: "` + escape(item.SourceTitle) + "\"\n")
	b.WriteString("tags: [" + tags + "]\n")
	b.WriteString("url: " + url + "\n")
	b.WriteString("---\n\n")
	b.WriteString("# " + item.Title + "\n\n")
	b.WriteString(body + "\n\n")
	b.WriteString("[View Original Source](" + url + ")\n")
	return b.String()
}
