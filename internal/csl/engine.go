package csl

import (
	"errors"
	"fmt"

	"github.com/alnah/go-htmlcite/internal/assets"
	"github.com/alnah/go-htmlcite/internal/citation"
)

// DefaultStyle is the style used when none is configured.
const DefaultStyle = "harvard1"

// Compile-time interface implementation checks.
var (
	_ citation.Engine       = (*Engine)(nil)
	_ citation.Style        = (*Style)(nil)
	_ citation.Source       = (*Source)(nil)
	_ citation.Bibliography = (*Bibliography)(nil)
)

// Style is a compiled style definition.
type Style struct {
	id  string
	def *Definition
}

// ID returns the identifier the style was built from.
func (s *Style) ID() string {
	return s.id
}

// Definition returns the parsed definition.
func (s *Style) Definition() *Definition {
	return s.def
}

// Engine builds sources, styles and bibliographies. It holds no document
// state: every bibliography it builds is independent.
type Engine struct {
	loader assets.StyleLoader
}

// NewEngine creates an Engine reading style definitions from loader.
// A nil loader uses the embedded styles.
func NewEngine(loader assets.StyleLoader) *Engine {
	if loader == nil {
		loader = assets.NewEmbeddedLoader()
	}
	return &Engine{loader: loader}
}

// Styles lists the available style identifiers.
func (e *Engine) Styles() ([]string, error) {
	return e.loader.ListStyles()
}

// BuildSource indexes records by id. Records without an id are skipped;
// the collector rejects them before they get here.
func (e *Engine) BuildSource(records []citation.Record) (citation.Source, error) {
	return newSource(records), nil
}

// BuildStyle loads and compiles styleID.
func (e *Engine) BuildStyle(styleID string, validate bool) (citation.Style, error) {
	data, err := e.loader.LoadStyle(styleID)
	if err != nil {
		if errors.Is(err, assets.ErrStyleNotFound) || errors.Is(err, assets.ErrInvalidAssetName) {
			return nil, fmt.Errorf("%w: %q", citation.ErrStyleNotFound, styleID)
		}
		return nil, fmt.Errorf("loading style %q: %w", styleID, err)
	}

	def, err := ParseDefinition(data, validate)
	if err != nil {
		return nil, fmt.Errorf("style %q: %w", styleID, err)
	}
	if def.Name == "" {
		def.Name = styleID
	}
	return &Style{id: styleID, def: def}, nil
}

// BuildBibliography binds style to source. Both must come from this package.
func (e *Engine) BuildBibliography(style citation.Style, source citation.Source, format citation.Format) (citation.Bibliography, error) {
	st, ok := style.(*Style)
	if !ok {
		return nil, fmt.Errorf("%w: style %T", ErrForeignHandle, style)
	}
	src, ok := source.(*Source)
	if !ok {
		return nil, fmt.Errorf("%w: source %T", ErrForeignHandle, source)
	}
	return newBibliography(st.def, src, format), nil
}
