package csl

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/alnah/go-htmlcite/internal/citation"
)

// registered is the handle returned by Register.
type registered struct {
	owner *Bibliography
	index int
	cite  citation.Cite
}

// Keys returns the cited keys in order.
func (r *registered) Keys() []string {
	keys := make([]string, len(r.cite.Items))
	for i, it := range r.cite.Items {
		keys[i] = it.Key
	}
	return keys
}

// Bibliography binds a style to a source and keeps the document's citation
// log. Derived state (citation numbers, year suffixes, first and last
// occurrences) is recomputed from the whole log before formatting, so a
// citation renders the same however many times it is formatted.
// A Bibliography belongs to one document and is not safe for concurrent use.
type Bibliography struct {
	def    *Definition
	source *Source
	fmt    formatter

	log   []*registered
	dirty bool

	cited    []string // unique found keys in first-cite order
	numbers  map[string]int
	suffixes map[string]string
	first    map[string]int // index of the first group citing a key
	last     map[string]int // index of the last group citing a key
}

func newBibliography(def *Definition, source *Source, format citation.Format) *Bibliography {
	return &Bibliography{def: def, source: source, fmt: formatter{format: format}}
}

// Register appends c to the citation log.
func (b *Bibliography) Register(c citation.Cite) citation.RegisteredCitation {
	r := &registered{owner: b, index: len(b.log), cite: c}
	b.log = append(b.log, r)
	b.dirty = true
	return r
}

// Cite renders a registered citation. warn is called for every key absent
// from the source; those items are left out of the result.
func (b *Bibliography) Cite(rc citation.RegisteredCitation, warn func(key string)) string {
	r, ok := rc.(*registered)
	if !ok || r.owner != b {
		panic(fmt.Sprintf("csl: %v", ErrForeignHandle))
	}
	b.compute()

	c := b.def.Citation
	var acc text
	for _, item := range r.cite.Items {
		e := b.source.lookup(item.Key)
		if e == nil {
			if warn != nil {
				warn(item.Key)
			}
			continue
		}
		t := b.renderCiteItem(r.index, len(r.cite.Items), item, e)
		if t.empty() {
			continue
		}
		if !acc.empty() {
			acc = b.fmt.join(acc, b.fmt.literal(c.Delimiter))
		}
		acc = b.fmt.join(acc, t)
	}
	if acc.empty() {
		return ""
	}
	return b.fmt.affix(acc, c.Prefix, c.Suffix).markup
}

func (b *Bibliography) renderCiteItem(index, groupSize int, item citation.CiteItem, e *entry) text {
	c := b.def.Citation
	ctx := b.context(e, c.Names)
	ctx.item = item
	if item.SuppressAuthor {
		ctx.suppressed["author"] = true
	}

	var t text
	if c.Mode == ModeNote {
		t = b.renderNote(index, groupSize, ctx)
	} else {
		t = b.fmt.renderLayout(c.Layout, ctx)
	}
	t = b.fmt.trimRight(t)

	if item.Prefix != "" {
		t = b.fmt.join(b.fmt.literal(item.Prefix+" "), t)
	}
	if item.Suffix != "" {
		sep := " "
		if strings.IndexAny(item.Suffix[:1], ",.;:") == 0 {
			sep = ""
		}
		t = b.fmt.join(t, b.fmt.literal(sep+item.Suffix))
	}
	return t
}

// renderNote picks the ibid, subsequent or first form of a note citation.
func (b *Bibliography) renderNote(index, groupSize int, ctx *itemContext) text {
	c := b.def.Citation
	key := ctx.e.key

	if c.Ibid != "" && groupSize == 1 && index > 0 {
		prev := b.log[index-1].cite.Items
		if len(prev) == 1 && prev[0].Key == key {
			t := b.fmt.literal(c.Ibid)
			if loc := locatorText(ctx.item.Label, ctx.item.Locator); loc != "" {
				t = b.fmt.join(t, b.fmt.literal(", "+loc))
			}
			return t
		}
	}

	if b.first[key] < index {
		return b.fmt.renderLayout(c.Subsequent, ctx)
	}

	t := b.fmt.renderLayout(c.Layout, ctx)
	if c.Hereafter != nil && b.last[key] > index {
		short := b.context(ctx.e, c.Names)
		s := b.fmt.trimRight(b.fmt.renderLayout(c.Subsequent, short))
		t = b.fmt.join(b.fmt.trimRight(t), b.fmt.affix(s, c.Hereafter.Prefix, c.Hereafter.Suffix))
	}
	return t
}

// Entries renders one entry per unique cited source in style order.
func (b *Bibliography) Entries() []string {
	b.compute()
	if len(b.cited) == 0 {
		return nil
	}

	keys := append([]string(nil), b.cited...)
	if b.def.Bibliography.Sort == SortAuthorDate {
		b.sortAuthorDate(keys)
	}

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		ctx := b.context(b.source.lookup(k), b.def.Bibliography.Names)
		t := b.fmt.trimRight(b.fmt.renderLayout(b.def.Bibliography.Layout, ctx))
		if t.empty() {
			continue
		}
		out = append(out, t.markup)
	}
	return out
}

func (b *Bibliography) context(e *entry, names NameRules) *itemContext {
	ctx := newItemContext(e, names, b.def.NoDate)
	ctx.yearSuffix = b.suffixes[e.key]
	ctx.number = b.numbers[e.key]
	return ctx
}

// compute derives document-wide state from the complete citation log.
func (b *Bibliography) compute() {
	if !b.dirty && b.numbers != nil {
		return
	}
	b.dirty = false
	b.cited = nil
	b.numbers = map[string]int{}
	b.first = map[string]int{}
	b.last = map[string]int{}
	b.suffixes = map[string]string{}

	for i, r := range b.log {
		for _, it := range r.cite.Items {
			if !b.source.Has(it.Key) {
				continue
			}
			if _, seen := b.numbers[it.Key]; !seen {
				b.cited = append(b.cited, it.Key)
				b.numbers[it.Key] = len(b.cited)
				b.first[it.Key] = i
			}
			b.last[it.Key] = i
		}
	}

	if b.def.Citation.Disambiguate.AddYearSuffix {
		b.assignYearSuffixes()
	}
}

// assignYearSuffixes gives "a", "b", ... to distinct sources sharing the same
// short author and year, in bibliography order.
func (b *Bibliography) assignYearSuffixes() {
	buckets := map[string][]string{}
	var order []string
	for _, k := range b.cited {
		e := b.source.lookup(k)
		ctx := newItemContext(e, b.def.Citation.Names, b.def.NoDate)
		author, _ := ctx.value("author")
		year, _ := ctx.value("year")
		id := author + "\x00" + year
		if _, ok := buckets[id]; !ok {
			order = append(order, id)
		}
		buckets[id] = append(buckets[id], k)
	}

	for _, id := range order {
		keys := buckets[id]
		if len(keys) < 2 {
			continue
		}
		b.sortAuthorDate(keys)
		for i, k := range keys {
			b.suffixes[k] = yearSuffix(i)
		}
	}
}

// yearSuffix returns a, b, ..., z, aa, ab, ...
func yearSuffix(i int) string {
	if i < 26 {
		return string(rune('a' + i))
	}
	return yearSuffix(i/26-1) + yearSuffix(i%26)
}

// sortAuthorDate orders keys by names, year, then title using the style
// locale's collation. Ties fall back to citation order.
func (b *Bibliography) sortAuthorDate(keys []string) {
	col := collate.New(language.Make(b.def.Locale), collate.IgnoreCase)

	type sortable struct {
		key   string
		names string
		year  int
		title string
	}
	items := make([]sortable, len(keys))
	for i, k := range keys {
		e := b.source.lookup(k)
		names := namesSortKey(e.author)
		if names == "" {
			names = namesSortKey(e.editor)
		}
		if names == "" {
			names = e.fields["title"]
		}
		year := e.year
		if year == 0 {
			year = 1<<31 - 1 // undated sorts last
		}
		items[i] = sortable{key: k, names: names, year: year, title: e.fields["title"]}
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, c := items[i], items[j]
		if cmp := col.CompareString(a.names, c.names); cmp != 0 {
			return cmp < 0
		}
		if a.year != c.year {
			return a.year < c.year
		}
		if cmp := col.CompareString(a.title, c.title); cmp != 0 {
			return cmp < 0
		}
		return b.numbers[a.key] < b.numbers[c.key]
	})

	for i, it := range items {
		keys[i] = it.key
	}
}
