package htmlcite

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"golang.org/x/net/html"
)

// ---------------------------------------------------------------------------
// Payload builders
// ---------------------------------------------------------------------------

// smithBook is the record most tests cite.
func smithBook() map[string]any {
	return map[string]any{
		"id":              "smith2020",
		"type":            "book",
		"title":           "Citing Things: A Guide",
		"author":          []map[string]any{{"family": "Smith", "given": "John"}},
		"issued":          map[string]any{"date-parts": [][]int{{2020}}},
		"publisher":       "Acme",
		"publisher-place": "London",
	}
}

func bookRecord(id, family, title string, year int) map[string]any {
	return map[string]any{
		"id":     id,
		"type":   "book",
		"title":  title,
		"author": []map[string]any{{"family": family, "given": "Ann"}},
		"issued": map[string]any{"date-parts": [][]int{{year}}},
	}
}

// item wraps a record as a citation item carrying its own data.
func item(rec map[string]any) map[string]any {
	return map[string]any{"id": rec["id"], "itemData": rec}
}

// refItem is an item without itemData, resolved from the library.
func refItem(id string) map[string]any {
	return map[string]any{"id": id}
}

// record converts m the way a decoded CSL-JSON file would hold it.
func record(t *testing.T, m map[string]any) Record {
	t.Helper()
	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal record: %v", err)
	}
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		t.Fatalf("unmarshal record: %v", err)
	}
	return r
}

func group(id, plain string, items ...map[string]any) map[string]any {
	return map[string]any{
		"citationID":    id,
		"citationItems": items,
		"properties": map[string]any{
			"formattedCitation": plain,
			"plainCitation":     plain,
			"noteIndex":         0,
		},
	}
}

func span(t *testing.T, g map[string]any) string {
	t.Helper()
	data, err := json.Marshal(g)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	plain, _ := g["properties"].(map[string]any)["plainCitation"].(string)
	return fmt.Sprintf(`<span class="citation" data-src="data:application/json;base64,%s">%s</span>`,
		base64.StdEncoding.EncodeToString(data), html.EscapeString(plain))
}

func page(body string) string {
	return "<!DOCTYPE html><html><head><title>t</title></head><body>" + body + "</body></html>"
}

func parse(t *testing.T, s string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func render(t *testing.T, n *html.Node) string {
	t.Helper()
	var b strings.Builder
	if err := html.Render(&b, n); err != nil {
		t.Fatalf("render: %v", err)
	}
	return b.String()
}

func newProcessor(t *testing.T, opts ...Option) *Processor {
	t.Helper()
	p, err := New(opts...)
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}
	return p
}
