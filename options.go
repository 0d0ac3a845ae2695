package htmlcite

import (
	"strings"

	"go.uber.org/zap"

	"github.com/alnah/go-htmlcite/internal/citation"
	"github.com/alnah/go-htmlcite/internal/csl"
)

// DefaultStyle is the style used when WithStyle is not given.
const DefaultStyle = csl.DefaultStyle

// DefaultHeading is the bibliography heading used when WithHeading is not given.
const DefaultHeading = citation.DefaultHeading

// Option configures a Processor.
type Option func(*Processor)

// processorConfig holds the settings a Processor was built with.
type processorConfig struct {
	style     string
	heading   string
	inText    InTextSource
	library   []Record
	stylesDir string
	css       string
}

// WithStyle selects the citation style by identifier.
// An empty identifier keeps the current style.
func WithStyle(id string) Option {
	return func(p *Processor) {
		if id = strings.TrimSpace(id); id != "" {
			p.cfg.style = id
		}
	}
}

// WithHeading sets the bibliography heading.
// An empty heading keeps the current heading.
func WithHeading(heading string) Option {
	return func(p *Processor) {
		if heading = strings.TrimSpace(heading); heading != "" {
			p.cfg.heading = heading
		}
	}
}

// WithInTextSource selects where in-text citation text comes from.
// Panics on an unknown source (programmer error).
func WithInTextSource(src InTextSource) Option {
	if src != InTextEngine && src != InTextPlain {
		panic("htmlcite: WithInTextSource called with an unknown source")
	}
	return func(p *Processor) {
		p.cfg.inText = src
	}
}

// WithLibrary adds records from external bibliography files. They resolve
// items that carry no record of their own; records embedded in the document
// win over library records with the same id. Repeated calls accumulate.
func WithLibrary(records ...Record) Option {
	return func(p *Processor) {
		p.cfg.library = append(append([]Record(nil), p.cfg.library...), records...)
	}
}

// WithStylesDir adds a directory of custom style definitions, searched
// before the built-in styles. Styles live in {dir}/styles/{name}.yaml.
func WithStylesDir(dir string) Option {
	return func(p *Processor) {
		p.cfg.stylesDir = dir
	}
}

// WithCSS sets a stylesheet injected into the <head> of serialized output.
func WithCSS(css string) Option {
	return func(p *Processor) {
		p.cfg.css = css
	}
}

// WithLogger sets the logger. Stage progress is logged at Debug and every
// warning at Warn. A nil logger disables logging.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Processor) {
		if logger == nil {
			logger = zap.NewNop()
		}
		p.logger = logger
	}
}

// withEngine replaces the style engine (tests).
func withEngine(e citation.Engine) Option {
	return func(p *Processor) {
		p.engine = e
	}
}
