package csl

import (
	"html"
	"strconv"
	"strings"

	"github.com/alnah/go-htmlcite/internal/citation"
)

// text is a rendered fragment in both markup and plain form. The plain form
// drives punctuation handling so it never has to look inside tags.
type text struct {
	markup string
	plain  string
}

func (t text) empty() bool {
	return t.plain == ""
}

// formatter turns plain strings into the output format.
type formatter struct {
	format citation.Format
}

func (f formatter) literal(s string) text {
	if f.format == citation.FormatHTML {
		return text{markup: html.EscapeString(s), plain: s}
	}
	return text{markup: s, plain: s}
}

func (f formatter) font(t text, font string) text {
	if f.format != citation.FormatHTML || t.empty() {
		return t
	}
	switch font {
	case "italic":
		t.markup = "<i>" + t.markup + "</i>"
	case "bold":
		t.markup = "<b>" + t.markup + "</b>"
	}
	return t
}

func (f formatter) quote(t text) text {
	open, closing := f.literal("“"), f.literal("”")
	return text{markup: open.markup + t.markup + closing.markup, plain: open.plain + t.plain + closing.plain}
}

// join appends next to acc, dropping a period that would double one
// already ending acc ("Title." + ". " → "Title. ").
func (f formatter) join(acc, next text) text {
	if next.empty() {
		return acc
	}
	if strings.HasSuffix(acc.plain, ".") && strings.HasPrefix(next.plain, ".") && strings.HasPrefix(next.markup, ".") {
		next = text{markup: next.markup[1:], plain: next.plain[1:]}
	}
	return text{markup: acc.markup + next.markup, plain: acc.plain + next.plain}
}

func (f formatter) trimRight(t text) text {
	trimmed := strings.TrimRight(t.plain, " ")
	cut := len(t.plain) - len(trimmed)
	if cut > 0 && strings.HasSuffix(t.markup, strings.Repeat(" ", cut)) {
		return text{markup: t.markup[:len(t.markup)-cut], plain: trimmed}
	}
	return t
}

// itemContext resolves layout variables for one cited source.
type itemContext struct {
	e      *entry
	names  NameRules
	noDate string
	// yearSuffix disambiguates identical author-year pairs ("2020a").
	yearSuffix string
	number     int
	item       citation.CiteItem
	// suppressed holds variables already rendered through substitution,
	// or hidden by suppress-author.
	suppressed map[string]bool
}

func newItemContext(e *entry, names NameRules, noDate string) *itemContext {
	return &itemContext{e: e, names: names, noDate: noDate, suppressed: map[string]bool{}}
}

// value returns the plain text of a variable.
func (c *itemContext) value(v string) (string, string) {
	if c.suppressed[v] {
		return "", ""
	}
	switch v {
	case "author":
		if len(c.e.author) > 0 {
			return formatNames(c.e.author, c.names), ""
		}
		if len(c.e.editor) > 0 {
			c.suppressed["editor"] = true
			return formatNames(c.e.editor, c.names), ""
		}
		// No names: the title stands in for the author.
		sub := "title"
		if c.names.Form == "short" {
			sub = "title-short"
		}
		if t := c.e.fields[sub]; t != "" {
			c.suppressed["title"] = true
			c.suppressed["title-short"] = true
			return t, "italic"
		}
		return "", ""
	case "editor":
		return formatNames(c.e.editor, c.names), ""
	case "year", "issued":
		switch {
		case c.e.year != 0:
			return strconv.Itoa(c.e.year) + c.yearSuffix, ""
		case c.e.dateLiteral != "":
			return c.e.dateLiteral + c.yearSuffix, ""
		default:
			if c.yearSuffix != "" {
				return c.noDate + "-" + c.yearSuffix, ""
			}
			return c.noDate, ""
		}
	case "citation-number":
		if c.number == 0 {
			return "", ""
		}
		return strconv.Itoa(c.number), ""
	case "locator":
		return locatorText(c.item.Label, c.item.Locator), ""
	default:
		return c.e.fields[v], ""
	}
}

var locatorTerms = map[string][2]string{
	"page":      {"p.", "pp."},
	"chapter":   {"chap.", "chaps."},
	"section":   {"sec.", "secs."},
	"paragraph": {"para.", "paras."},
	"volume":    {"vol.", "vols."},
	"line":      {"l.", "ll."},
	"figure":    {"fig.", "figs."},
	"note":      {"n.", "nn."},
}

func locatorText(label, locator string) string {
	locator = strings.TrimSpace(locator)
	if locator == "" {
		return ""
	}
	if label == "" {
		label = "page"
	}
	terms, ok := locatorTerms[label]
	if !ok {
		return label + " " + locator
	}
	if strings.ContainsAny(locator, "-–,&") {
		return terms[1] + " " + locator
	}
	return terms[0] + " " + locator
}

// renderLayout renders parts in order.
func (f formatter) renderLayout(parts []Part, ctx *itemContext) text {
	var acc text
	for _, p := range parts {
		acc = f.join(acc, f.renderPart(p, ctx))
	}
	return acc
}

func (f formatter) renderPart(p Part, ctx *itemContext) text {
	var body text
	switch {
	case len(p.Group) > 0:
		body = f.renderGroup(p, ctx)
	case p.Var != "":
		if p.Form != "" {
			saved := ctx.names
			ctx.names.Form = p.Form
			defer func() { ctx.names = saved }()
		}
		v, font := ctx.value(p.Var)
		if v == "" {
			return text{}
		}
		body = f.literal(v)
		if font != "" && p.Font == "" {
			body = f.font(body, font)
		}
	case p.Text != "":
		body = f.literal(p.Text)
	default:
		return text{}
	}

	body = f.font(body, p.Font)
	if p.Quotes {
		body = f.quote(body)
	}
	return f.affix(body, p.Prefix, p.Suffix)
}

// renderGroup renders children joined by the group delimiter. A group whose
// variables are all empty renders nothing, literal texts included.
func (f formatter) renderGroup(p Part, ctx *itemContext) text {
	var acc text
	hasVar := false
	for _, child := range p.Group {
		t := f.renderPart(child, ctx)
		if t.empty() {
			continue
		}
		if child.Var != "" || len(child.Group) > 0 {
			hasVar = true
		}
		if !acc.empty() && p.Delimiter != "" {
			acc = f.join(acc, f.literal(p.Delimiter))
		}
		acc = f.join(acc, t)
	}
	if !hasVar {
		return text{}
	}
	return acc
}

func (f formatter) affix(body text, prefix, suffix string) text {
	if body.empty() {
		return body
	}
	out := f.join(f.literal(prefix), body)
	return f.join(out, f.literal(suffix))
}
