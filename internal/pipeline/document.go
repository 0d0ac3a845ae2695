package pipeline

import (
	"errors"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrEmptyHTML indicates there is no content to parse.
var ErrEmptyHTML = errors.New("HTML content cannot be empty")

// Document is a parsed HTML input. Fragment inputs keep their top-level
// nodes under a synthetic document root so they render back without an
// <html><body> wrapper.
type Document struct {
	Root     *html.Node
	Fragment bool
}

// Parse parses HTML content, handling both full documents and fragments.
// Content whose first token, after whitespace, a byte order mark and
// comments, is a doctype or an <html>, <head> or <body> tag is a full document.
func Parse(content string) (*Document, error) {
	content = strings.TrimPrefix(content, byteOrderMark)
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyHTML
	}

	if isFullDocument(content) {
		root, err := html.Parse(strings.NewReader(content))
		if err != nil {
			return nil, err
		}
		return &Document{Root: root}, nil
	}

	// Fragment: parse with body context to avoid wrapping
	context := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(content), context)
	if err != nil {
		return nil, err
	}

	root := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return &Document{Root: root, Fragment: true}, nil
}

const byteOrderMark = "\uFEFF"

// isFullDocument reads tokens up to the first one that is not a comment or
// blank text. A leading byte order mark must already be stripped.
func isFullDocument(content string) bool {
	z := html.NewTokenizer(strings.NewReader(content))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return false
		case html.CommentToken:
			continue
		case html.DoctypeToken:
			return true
		case html.TextToken:
			if strings.TrimSpace(string(z.Text())) != "" {
				return false
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			switch atom.Lookup(name) {
			case atom.Html, atom.Head, atom.Body:
				return true
			}
			return false
		default:
			return false
		}
	}
}

// Render renders the document back to a string.
// Fragments render their children only.
func (d *Document) Render() (string, error) {
	var buf strings.Builder

	if d.Fragment {
		for c := d.Root.FirstChild; c != nil; c = c.NextSibling {
			if err := html.Render(&buf, c); err != nil {
				return "", err
			}
		}
		return buf.String(), nil
	}

	if err := html.Render(&buf, d.Root); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// InjectCSS appends a <style> block to <head>. Fragments, which have no head,
// get the block as their first node. Empty CSS is a no-op.
func (d *Document) InjectCSS(css string) {
	if strings.TrimSpace(css) == "" {
		return
	}

	style := &html.Node{Type: html.ElementNode, DataAtom: atom.Style, Data: "style"}
	style.AppendChild(&html.Node{Type: html.TextNode, Data: sanitizeCSS(css)})

	if head := findElement(d.Root, atom.Head); head != nil {
		head.AppendChild(style)
		return
	}
	d.Root.InsertBefore(style, d.Root.FirstChild)
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}
