package csl

import (
	"testing"

	"github.com/alnah/go-htmlcite/internal/citation"
)

func book(id, family, given string, year int, title string) citation.Record {
	r := citation.Record{
		"id":    id,
		"type":  "book",
		"title": title,
	}
	if family != "" {
		r["author"] = []any{map[string]any{"family": family, "given": given}}
	}
	if year != 0 {
		r["issued"] = map[string]any{"date-parts": []any{[]any{float64(year)}}}
	}
	return r
}

// openStyle builds a bibliography for an embedded style over records.
func openStyle(t *testing.T, style string, format citation.Format, records ...citation.Record) citation.Bibliography {
	t.Helper()
	eng := NewEngine(nil)
	st, err := eng.BuildStyle(style, true)
	if err != nil {
		t.Fatalf("BuildStyle(%q) error = %v", style, err)
	}
	src, err := eng.BuildSource(records)
	if err != nil {
		t.Fatalf("BuildSource() error = %v", err)
	}
	bib, err := eng.BuildBibliography(st, src, format)
	if err != nil {
		t.Fatalf("BuildBibliography() error = %v", err)
	}
	return bib
}

func cite(keys ...string) citation.Cite {
	items := make([]citation.CiteItem, len(keys))
	for i, k := range keys {
		items[i] = citation.CiteItem{Key: k}
	}
	return citation.Cite{Items: items}
}

// citeAll registers every cite, then formats each one.
func citeAll(t *testing.T, bib citation.Bibliography, cites ...citation.Cite) []string {
	t.Helper()
	regs := make([]citation.RegisteredCitation, len(cites))
	for i, c := range cites {
		regs[i] = bib.Register(c)
	}
	out := make([]string, len(regs))
	for i, r := range regs {
		out[i] = bib.Cite(r, func(key string) { t.Errorf("unexpected missing key %q", key) })
	}
	return out
}
