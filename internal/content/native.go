// ABOUTME: Built-in recursive HTML to Markdown converter
// ABOUTME: Walks the parsed tree and applies a per-element transform table

package content

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Native is the built-in tree-walking converter.
type Native struct{}

// transform renders an element given its already-rendered children.
type transform func(n *html.Node, children string) string

var transforms = map[atom.Atom]transform{
	atom.H1:         heading(1),
	atom.H2:         heading(2),
	atom.H3:         heading(3),
	atom.H4:         heading(4),
	atom.H5:         heading(5),
	atom.H6:         heading(6),
	atom.P:          block,
	atom.Br:         func(*html.Node, string) string { return "\n" },
	atom.Strong:     wrap("**"),
	atom.B:          wrap("**"),
	atom.Em:         wrap("*"),
	atom.I:          wrap("*"),
	atom.Blockquote: blockquote,
	atom.Ul:         block,
	atom.Ol:         block,
	atom.Li:         listItem,
	atom.A:          link,
	atom.Img:        image,
	atom.Hr:         func(*html.Node, string) string { return "\n---\n" },
	atom.Pre:        preformatted,
	atom.Code:       wrap("`"),
}

// Convert parses html leniently and renders the body as Markdown.
func (Native) Convert(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}

	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}

	root := findBody(doc)
	if root == nil {
		root = doc
	}
	return tidy(render(root))
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}

func render(n *html.Node) string {
	switch n.Type {
	case html.TextNode:
		return n.Data
	case html.ElementNode, html.DocumentNode:
	default:
		return ""
	}

	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(render(c))
	}
	children := b.String()

	if n.Type == html.ElementNode {
		if fn, ok := transforms[n.DataAtom]; ok {
			return fn(n, children)
		}
	}
	return children
}

func heading(level int) transform {
	prefix := strings.Repeat("#", level) + " "
	return func(_ *html.Node, children string) string {
		return "\n" + prefix + strings.TrimSpace(children) + "\n"
	}
}

func block(_ *html.Node, children string) string {
	return "\n" + strings.TrimSpace(children) + "\n"
}

func wrap(marker string) transform {
	return func(_ *html.Node, children string) string {
		return marker + strings.TrimSpace(children) + marker
	}
}

func blockquote(_ *html.Node, children string) string {
	quoted := strings.ReplaceAll(strings.TrimSpace(children), "\n", "\n> ")
	return "\n> " + quoted + "\n"
}

// listItem uses "- " unless the parent is an ordered list, where the marker
// is the item's 1-based position among its li siblings.
func listItem(n *html.Node, children string) string {
	marker := "- "
	if n.Parent != nil && n.Parent.DataAtom == atom.Ol {
		marker = strconv.Itoa(ordinal(n)) + ". "
	}
	return marker + strings.TrimSpace(children) + "\n"
}

func ordinal(li *html.Node) int {
	pos := 1
	for s := li.PrevSibling; s != nil; s = s.PrevSibling {
		if s.Type == html.ElementNode && s.DataAtom == atom.Li {
			pos++
		}
	}
	return pos
}

func link(n *html.Node, children string) string {
	return "[" + strings.TrimSpace(children) + "](" + attr(n, "href") + ")"
}

func image(n *html.Node, _ string) string {
	return "![" + attr(n, "alt") + "](" + attr(n, "src") + ")"
}

// preformatted fences the raw text so inline transforms do not leak into code.
func preformatted(n *html.Node, _ string) string {
	return "\n```\n" + textContent(n) + "\n```\n"
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textContent(c))
	}
	return b.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
