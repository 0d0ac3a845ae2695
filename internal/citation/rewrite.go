package citation

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Bibliography container defaults.
const (
	BibliographyClass = "csl-bibliography"
	DefaultHeading    = "Bibliography"
)

// ReplaceCitations replaces the i-th marker node with a <cite> element
// holding texts[i]. Texts are inline HTML as rendered by the engine.
// Markers skipped during extraction are not in markers and stay untouched.
func ReplaceCitations(markers []Marker, texts []string) error {
	if len(markers) != len(texts) {
		return fmt.Errorf("%w: %d markers, %d texts", ErrMarkerCountMismatch, len(markers), len(texts))
	}

	for i, m := range markers {
		parent := m.Node.Parent
		if parent == nil {
			return fmt.Errorf("citation %q: marker is detached from the document", m.Group.ID)
		}

		cite := newElement(atom.Cite)
		if err := appendFragment(cite, texts[i]); err != nil {
			return fmt.Errorf("citation %q: %w", m.Group.ID, err)
		}
		parent.InsertBefore(cite, m.Node)
		parent.RemoveChild(m.Node)
	}
	return nil
}

// AppendBibliography appends the bibliography container to the document body,
// or to doc itself when it has no <body> (fragments). With no entries the tree
// is left unchanged. An empty heading falls back to DefaultHeading.
func AppendBibliography(doc *html.Node, entries []string, heading string) error {
	if len(entries) == 0 {
		return nil
	}
	if heading == "" {
		heading = DefaultHeading
	}

	div := newElement(atom.Div)
	div.Attr = []html.Attribute{{Key: "class", Val: BibliographyClass}}

	h1 := newElement(atom.H1)
	h1.AppendChild(&html.Node{Type: html.TextNode, Data: heading})
	div.AppendChild(h1)

	ol := newElement(atom.Ol)
	for i, entry := range entries {
		li := newElement(atom.Li)
		small := newElement(atom.Small)
		if err := appendFragment(small, entry); err != nil {
			return fmt.Errorf("bibliography entry %d: %w", i+1, err)
		}
		li.AppendChild(small)
		ol.AppendChild(li)
	}
	div.AppendChild(ol)

	container := findElement(doc, atom.Body)
	if container == nil {
		container = doc
	}
	container.AppendChild(div)
	return nil
}

func newElement(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
}

// appendFragment parses content in the context of parent and appends the result.
func appendFragment(parent *html.Node, content string) error {
	nodes, err := html.ParseFragment(strings.NewReader(content), parent)
	if err != nil {
		return err
	}
	for _, n := range nodes {
		parent.AppendChild(n)
	}
	return nil
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
