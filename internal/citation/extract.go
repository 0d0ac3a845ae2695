package citation

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Marker element identification.
const (
	MarkerClass = "citation"
	PayloadAttr = "data-src"
)

// Extract returns the qualifying citation markers of doc in document order.
// Spans carrying the citation class with a payload that fails to decode are
// left in place and reported as warnings; extraction never aborts.
func Extract(doc *html.Node) ([]Marker, []Warning) {
	var (
		markers  []Marker
		warnings []Warning
		seen     int
	)

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if isCitationSpan(n) {
			seen++
			dataSrc, _ := attr(n, PayloadAttr)
			g, err := DecodePayload(dataSrc)
			if err == nil {
				markers = append(markers, Marker{Node: n, Group: g})
				// The whole span is replaced later; its content is not scanned.
				return
			}
			warnings = append(warnings, Warning{
				Kind:    WarnMalformedPayload,
				Marker:  seen,
				Message: err.Error(),
			})
			// Left untouched in the output, so markers inside it are not counted.
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return markers, warnings
}

// Groups returns the decoded groups of markers in the same order.
func Groups(markers []Marker) []Group {
	groups := make([]Group, len(markers))
	for i, m := range markers {
		groups[i] = m.Group
	}
	return groups
}

func isCitationSpan(n *html.Node) bool {
	if n.Type != html.ElementNode || n.DataAtom != atom.Span {
		return false
	}
	class, ok := attr(n, "class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(class) {
		if c == MarkerClass {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}
