// ABOUTME: HTML to Markdown conversion for feed item bodies
// ABOUTME: Offers the built-in tree walker and the html-to-markdown library as engines

package content

import (
	"fmt"
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// Engine names accepted by NewConverter.
const (
	EngineNative  = "native"
	EngineLibrary = "library"
)

// Converter turns an HTML fragment into Markdown. Implementations never fail;
// unparseable input degrades to best-effort text.
type Converter interface {
	Convert(html string) string
}

// NewConverter returns the converter for engine. An empty name selects the
// native engine.
func NewConverter(engine string) (Converter, error) {
	switch strings.ToLower(strings.TrimSpace(engine)) {
	case "", EngineNative:
		return Native{}, nil
	case EngineLibrary:
		return Library{}, nil
	default:
		return nil, fmt.Errorf("unknown converter %q (want %s or %s)", engine, EngineNative, EngineLibrary)
	}
}

// ToMarkdown converts HTML with the native engine.
func ToMarkdown(html string) string {
	return Native{}.Convert(html)
}

// htmlTagPattern matches common HTML tags
var htmlTagPattern = regexp.MustCompile(`<\s*(p|div|span|a|br|img|h[1-6]|ul|ol|li|table|tr|td|th|strong|em|b|i|code|pre|blockquote|hr)[^>]*>`)

// IsHTML checks if content appears to be HTML
func IsHTML(content string) bool {
	if strings.Contains(content, "<!DOCTYPE") || strings.Contains(content, "<html") {
		return true
	}
	return htmlTagPattern.MatchString(content)
}

// Library converts with github.com/JohannesKaufmann/html-to-markdown.
type Library struct{}

// Convert hands plain text (which may still carry entities) to the native
// engine and falls back to it if the library rejects the input.
func (Library) Convert(fragment string) string {
	if !IsHTML(fragment) {
		return Native{}.Convert(fragment)
	}

	markdown, err := htmltomarkdown.ConvertString(fragment)
	if err != nil {
		return Native{}.Convert(fragment)
	}
	return tidy(markdown)
}

var (
	blankRunPattern   = regexp.MustCompile(`\n\s*\n`)
	newlineRunPattern = regexp.MustCompile(`\n{3,}`)
)

// tidy collapses blank-line runs to a single blank line and trims the result.
func tidy(markdown string) string {
	markdown = blankRunPattern.ReplaceAllString(markdown, "\n\n")
	markdown = newlineRunPattern.ReplaceAllString(markdown, "\n\n")
	return strings.TrimSpace(markdown)
}
