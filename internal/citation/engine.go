package citation

import "fmt"

// Format selects the markup an engine renders.
type Format int

const (
	// FormatHTML renders inline HTML (escaped text, <i>, <b>).
	FormatHTML Format = iota
	// FormatText renders plain text.
	FormatText
)

// Source is the set of bibliographic records an engine can cite.
type Source interface {
	// Has reports whether key resolves to a record.
	Has(key string) bool
	// Len returns the number of unique records.
	Len() int
}

// Style is a compiled citation style.
type Style interface {
	ID() string
}

// CiteItem is one source reference inside a registered citation.
type CiteItem struct {
	Key            string
	Locator        string
	Label          string
	Prefix         string
	Suffix         string
	SuppressAuthor bool
}

// Cite is the engine-side view of a citation group.
type Cite struct {
	ID        string
	NoteIndex int
	Items     []CiteItem
}

// RegisteredCitation is the handle an engine returns for a registered cite.
// Only the bibliography that produced it can format it.
type RegisteredCitation interface {
	Keys() []string
}

// Bibliography is a style bound to a source. It keeps the document's
// citation log: Cite results depend on every citation registered so far,
// which is why all groups are registered before any is formatted.
type Bibliography interface {
	Register(c Cite) RegisteredCitation
	// Cite renders a registered citation. warn is called once per key
	// absent from the source.
	Cite(rc RegisteredCitation, warn func(key string)) string
	// Entries renders one entry per unique cited source, in style order.
	Entries() []string
}

// Engine is the style-formatting capability. Rule evaluation (sorting,
// disambiguation, locale formatting) happens entirely behind it.
type Engine interface {
	BuildSource(records []Record) (Source, error)
	// BuildStyle compiles styleID. Unknown styles return an error wrapping
	// ErrStyleNotFound.
	BuildStyle(styleID string, validate bool) (Style, error)
	BuildBibliography(style Style, source Source, format Format) (Bibliography, error)
}

// ToCite converts a group into the engine representation.
func (g Group) ToCite() Cite {
	items := make([]CiteItem, len(g.Items))
	for i, it := range g.Items {
		items[i] = CiteItem{
			Key:            it.Key(),
			Locator:        it.Locator,
			Label:          it.Label,
			Prefix:         it.Prefix,
			Suffix:         it.Suffix,
			SuppressAuthor: it.SuppressAuthor,
		}
	}
	return Cite{ID: g.ID, NoteIndex: g.Properties.NoteIndex, Items: items}
}

// Adapter opens per-document bibliographies on an Engine.
// An Adapter holds no document state and may be shared.
type Adapter struct {
	engine  Engine
	library []Record
}

// NewAdapter creates an Adapter. library holds records from external
// bibliography files; they complement the records embedded in the document.
func NewAdapter(engine Engine, library []Record) *Adapter {
	return &Adapter{engine: engine, library: library}
}

// CheckStyle compiles styleID without building anything else.
func (a *Adapter) CheckStyle(styleID string) error {
	_, err := a.engine.BuildStyle(styleID, false)
	return err
}

// Open builds the style, then the source, then the bibliography for one
// document. The style is compiled first so an unknown identifier fails
// before any other work. Schema validation is skipped: style identifiers
// come from trusted configuration.
func (a *Adapter) Open(styleID string, pool []Record) (Bibliography, error) {
	style, err := a.engine.BuildStyle(styleID, false)
	if err != nil {
		return nil, err
	}

	source, err := a.engine.BuildSource(mergeLibrary(pool, a.library))
	if err != nil {
		return nil, fmt.Errorf("building source: %w", err)
	}

	bib, err := a.engine.BuildBibliography(style, source, FormatHTML)
	if err != nil {
		return nil, fmt.Errorf("building bibliography: %w", err)
	}
	return bib, nil
}

// mergeLibrary appends library records whose id is not already in pool.
func mergeLibrary(pool, library []Record) []Record {
	if len(library) == 0 {
		return pool
	}
	seen := make(map[string]struct{}, len(pool))
	for _, r := range pool {
		if k, ok := r.Key(); ok {
			seen[k] = struct{}{}
		}
	}
	merged := make([]Record, 0, len(pool)+len(library))
	merged = append(merged, pool...)
	for _, r := range library {
		k, ok := r.Key()
		if !ok {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		merged = append(merged, r)
	}
	return merged
}
