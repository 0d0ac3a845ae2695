package citation

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

func rawPayload(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return PayloadPrefix + base64.StdEncoding.EncodeToString(data)
}

func groupJSON(id, plain string, items ...map[string]any) map[string]any {
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

// itemJSON builds an item whose itemData id equals id.
func itemJSON(id, family string, year int) map[string]any {
	return map[string]any{
		"id": id,
		"itemData": map[string]any{
			"id":     id,
			"type":   "book",
			"title":  "A book by " + family,
			"author": []map[string]any{{"family": family, "given": "Jo"}},
			"issued": map[string]any{"date-parts": [][]int{{year}}},
		},
	}
}

// spanHTML renders a citation marker span.
func spanHTML(t *testing.T, g map[string]any) string {
	t.Helper()
	plain, _ := g["properties"].(map[string]any)["plainCitation"].(string)
	return fmt.Sprintf(`<span class="citation" data-src="%s">%s</span>`, rawPayload(t, g), html.EscapeString(plain))
}

func parseDoc(t *testing.T, s string) *html.Node {
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

// ---------------------------------------------------------------------------
// fakeEngine - records calls, renders keys verbatim
// ---------------------------------------------------------------------------

type fakeSource struct {
	keys map[string]bool
}

func (s *fakeSource) Has(key string) bool { return s.keys[key] }
func (s *fakeSource) Len() int            { return len(s.keys) }

type fakeStyle struct{ id string }

func (s *fakeStyle) ID() string { return s.id }

type fakeReg struct {
	index int
	keys  []string
}

func (r *fakeReg) Keys() []string { return r.keys }

// fakeBibliography renders "[key1,key2 #index/total]" so tests can see both
// the cited keys and how many groups were registered when Cite ran.
type fakeBibliography struct {
	source *fakeSource
	log    []*fakeReg
}

func (b *fakeBibliography) Register(c Cite) RegisteredCitation {
	keys := make([]string, len(c.Items))
	for i, it := range c.Items {
		keys[i] = it.Key
	}
	r := &fakeReg{index: len(b.log), keys: keys}
	b.log = append(b.log, r)
	return r
}

func (b *fakeBibliography) Cite(rc RegisteredCitation, warn func(string)) string {
	r := rc.(*fakeReg)
	var found []string
	for _, k := range r.keys {
		if !b.source.Has(k) {
			warn(k)
			continue
		}
		found = append(found, k)
	}
	return fmt.Sprintf("[%s #%d/%d]", strings.Join(found, ","), r.index+1, len(b.log))
}

func (b *fakeBibliography) Entries() []string {
	seen := map[string]bool{}
	var out []string
	for _, r := range b.log {
		for _, k := range r.keys {
			if b.source.Has(k) && !seen[k] {
				seen[k] = true
				out = append(out, "<i>"+k+"</i>")
			}
		}
	}
	return out
}

type fakeEngine struct {
	styles  map[string]bool
	calls   []string
	records []Record
}

func newFakeEngine(styles ...string) *fakeEngine {
	e := &fakeEngine{styles: map[string]bool{}}
	for _, s := range styles {
		e.styles[s] = true
	}
	return e
}

func (e *fakeEngine) BuildSource(records []Record) (Source, error) {
	e.calls = append(e.calls, "source")
	e.records = records
	s := &fakeSource{keys: map[string]bool{}}
	for _, r := range records {
		if k, ok := r.Key(); ok {
			s.keys[k] = true
		}
	}
	return s, nil
}

func (e *fakeEngine) BuildStyle(id string, _ bool) (Style, error) {
	e.calls = append(e.calls, "style")
	if !e.styles[id] {
		return nil, fmt.Errorf("%w: %q", ErrStyleNotFound, id)
	}
	return &fakeStyle{id: id}, nil
}

func (e *fakeEngine) BuildBibliography(_ Style, src Source, _ Format) (Bibliography, error) {
	e.calls = append(e.calls, "bibliography")
	return &fakeBibliography{source: src.(*fakeSource)}, nil
}
