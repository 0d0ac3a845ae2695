package citation

import (
	"fmt"
	"html"
)

// InTextSource selects where in-text citation text comes from.
type InTextSource int

const (
	// InTextEngine uses the engine's two-pass Cite result.
	InTextEngine InTextSource = iota
	// InTextPlain reuses the plainCitation captured by the authoring tool.
	// Both passes still run so the bibliography and warnings are unchanged.
	InTextPlain
)

// Registrar runs the registration pass. Formatting is only reachable through
// the Formatter returned by Close, so no group can be formatted while the
// citation log is incomplete.
type Registrar struct {
	bib    Bibliography
	groups []Group
	regs   []RegisteredCitation
	closed bool
}

// NewRegistrar starts a registration pass on bib.
func NewRegistrar(bib Bibliography) *Registrar {
	return &Registrar{bib: bib}
}

// Register records g in the citation log. Groups must be registered in
// document order. Panics after Close.
func (r *Registrar) Register(g Group) {
	if r.closed {
		panic("citation: Register called after Close")
	}
	r.groups = append(r.groups, g)
	r.regs = append(r.regs, r.bib.Register(g.ToCite()))
}

// RegisterAll registers groups in order.
func (r *Registrar) RegisterAll(groups []Group) {
	for _, g := range groups {
		r.Register(g)
	}
}

// Len returns the number of registered groups.
func (r *Registrar) Len() int {
	return len(r.groups)
}

// Close ends the registration pass and returns the Formatter for the
// formatting pass. Panics if called twice.
func (r *Registrar) Close() *Formatter {
	if r.closed {
		panic("citation: Close called twice")
	}
	r.closed = true
	return &Formatter{bib: r.bib, groups: r.groups, regs: r.regs}
}

// Formatter runs the formatting pass over a closed registration log.
type Formatter struct {
	bib    Bibliography
	groups []Group
	regs   []RegisteredCitation
}

// Len returns the number of groups to format.
func (f *Formatter) Len() int {
	return len(f.groups)
}

// Format renders group i. When any of its keys is missing from the source,
// the group's plainCitation is used instead and one warning per missing key
// is returned, even when the group cites that key more than once.
func (f *Formatter) Format(i int, src InTextSource) (string, []Warning) {
	g := f.groups[i]

	var warnings []Warning
	reported := map[string]bool{}
	text := f.bib.Cite(f.regs[i], func(key string) {
		if reported[key] {
			return
		}
		reported[key] = true
		warnings = append(warnings, Warning{
			Kind:       WarnMissingKey,
			CitationID: g.ID,
			Key:        key,
			Message:    fmt.Sprintf("reference with key %q not found in the bibliography", key),
		})
	})

	if len(warnings) > 0 || src == InTextPlain {
		text = html.EscapeString(g.Properties.PlainCitation)
	}
	return text, warnings
}

// FormatAll renders every group in registration order.
func (f *Formatter) FormatAll(src InTextSource) ([]string, []Warning) {
	texts := make([]string, len(f.groups))
	var warnings []Warning
	for i := range f.groups {
		var ws []Warning
		texts[i], ws = f.Format(i, src)
		warnings = append(warnings, ws...)
	}
	return texts, warnings
}

// Bibliography returns the rendered entries of every cited source.
func (f *Formatter) Bibliography() []string {
	return f.bib.Entries()
}
