package csl

import (
	"encoding/json"
	"strconv"
	"strings"
	"unicode"

	"github.com/alnah/go-htmlcite/internal/citation"
)

// Name is a CSL-JSON person or organization.
type Name struct {
	Family   string
	Given    string
	Particle string // non-dropping particle ("van", "de")
	Suffix   string
	Literal  string
}

// entry is a parsed bibliographic record.
type entry struct {
	key    string
	typ    string
	author []Name
	editor []Name
	year   int // 0 when undated
	// literal date text used when no year could be read
	dateLiteral string
	fields      map[string]string
}

// textFields are copied verbatim from a record.
var textFields = []string{
	"title", "title-short", "container-title", "volume", "issue", "page",
	"publisher", "publisher-place", "edition", "DOI", "URL",
}

// Source indexes parsed records by key. The first record for a key wins;
// later duplicates are the same source cited again.
type Source struct {
	entries map[string]*entry
	order   []string
}

// Has reports whether key resolves to a record.
func (s *Source) Has(key string) bool {
	_, ok := s.entries[key]
	return ok
}

// Len returns the number of unique records.
func (s *Source) Len() int {
	return len(s.order)
}

// Keys returns record keys in load order.
func (s *Source) Keys() []string {
	return append([]string(nil), s.order...)
}

func (s *Source) lookup(key string) *entry {
	return s.entries[key]
}

func newSource(records []citation.Record) *Source {
	s := &Source{entries: make(map[string]*entry, len(records))}
	for _, r := range records {
		key, ok := r.Key()
		if !ok {
			continue
		}
		if _, dup := s.entries[key]; dup {
			continue
		}
		s.entries[key] = parseEntry(key, r)
		s.order = append(s.order, key)
	}
	return s
}

func parseEntry(key string, r citation.Record) *entry {
	e := &entry{
		key:    key,
		typ:    stringValue(r["type"]),
		author: parseNames(r["author"]),
		editor: parseNames(r["editor"]),
		fields: make(map[string]string, len(textFields)),
	}
	for _, f := range textFields {
		if v := stringValue(r[f]); v != "" {
			e.fields[f] = v
		}
	}
	if _, ok := e.fields["title-short"]; !ok {
		if v := stringValue(r["shortTitle"]); v != "" {
			e.fields["title-short"] = v
		} else if t := e.fields["title"]; t != "" {
			e.fields["title-short"] = shortTitle(t)
		}
	}
	e.year, e.dateLiteral = parseDate(r["issued"])
	return e
}

// shortTitle cuts a title at its subtitle separator.
func shortTitle(title string) string {
	if i := strings.IndexAny(title, ":?!"); i > 0 {
		return strings.TrimSpace(title[:i])
	}
	return title
}

func stringValue(v any) string {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case json.Number:
		return x.String()
	default:
		return ""
	}
}

func parseNames(v any) []Name {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	names := make([]Name, 0, len(list))
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		n := Name{
			Family:   stringValue(m["family"]),
			Given:    stringValue(m["given"]),
			Particle: stringValue(m["non-dropping-particle"]),
			Suffix:   stringValue(m["suffix"]),
			Literal:  stringValue(m["literal"]),
		}
		if n.Literal == "" && n.Family == "" && n.Given == "" {
			continue
		}
		names = append(names, n)
	}
	return names
}

// parseDate reads the year of a CSL date. It accepts date-parts (numbers or
// numeric strings), raw/literal strings and plain strings such as
// "2020-05-01". When no year can be read, the literal text is returned.
func parseDate(v any) (int, string) {
	switch d := v.(type) {
	case map[string]any:
		if parts, ok := d["date-parts"].([]any); ok && len(parts) > 0 {
			if first, ok := parts[0].([]any); ok && len(first) > 0 {
				if y, err := strconv.Atoi(stringValue(first[0])); err == nil && y != 0 {
					return y, ""
				}
			}
		}
		for _, k := range []string{"raw", "literal"} {
			if s := stringValue(d[k]); s != "" {
				if y := leadingYear(s); y != 0 {
					return y, ""
				}
				return 0, s
			}
		}
	case string:
		if y := leadingYear(d); y != 0 {
			return y, ""
		}
		return 0, strings.TrimSpace(d)
	case float64:
		return int(d), ""
	}
	return 0, ""
}

// leadingYear returns the first run of four digits in s.
func leadingYear(s string) int {
	run := 0
	for i, r := range s {
		if unicode.IsDigit(r) && r < 128 {
			run++
			if run == 4 && (i+1 == len(s) || !unicode.IsDigit(rune(s[i+1]))) {
				y, _ := strconv.Atoi(s[i-3 : i+1])
				return y
			}
			continue
		}
		run = 0
	}
	return 0
}
