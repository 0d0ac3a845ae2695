package htmlcite

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/alnah/go-htmlcite/internal/assets"
	"github.com/alnah/go-htmlcite/internal/citation"
	"github.com/alnah/go-htmlcite/internal/csl"
	"github.com/alnah/go-htmlcite/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownPreprocessor = (*pipeline.CommonMarkPreprocessor)(nil)
	_ pipeline.HTMLConverter        = (*pipeline.GoldmarkConverter)(nil)
	_ citation.Engine               = (*csl.Engine)(nil)
)

// Processor resolves citations in documents. Create with New.
// A Processor is immutable and safe for concurrent use.
type Processor struct {
	cfg           processorConfig
	engine        citation.Engine
	adapter       *citation.Adapter
	logger        *zap.Logger
	preprocessor  pipeline.MarkdownPreprocessor
	htmlConverter pipeline.HTMLConverter
}

// New creates a Processor. The style is resolved immediately: an unknown
// style returns ErrStyleNotFound here rather than on the first document.
func New(opts ...Option) (*Processor, error) {
	p := &Processor{
		cfg: processorConfig{
			style:   DefaultStyle,
			heading: DefaultHeading,
		},
		logger:        zap.NewNop(),
		preprocessor:  &pipeline.CommonMarkPreprocessor{},
		htmlConverter: pipeline.NewGoldmarkConverter(),
	}

	for _, opt := range opts {
		opt(p)
	}

	if err := p.init(); err != nil {
		return nil, err
	}
	return p, nil
}

// With returns a new Processor with opts applied on top of p's settings.
// p itself is not modified.
func (p *Processor) With(opts ...Option) (*Processor, error) {
	derived := &Processor{
		cfg:           p.cfg,
		logger:        p.logger,
		preprocessor:  p.preprocessor,
		htmlConverter: p.htmlConverter,
	}
	derived.cfg.library = append([]Record(nil), p.cfg.library...)

	// Keep the engine unless the styles directory changes.
	for _, opt := range opts {
		opt(derived)
	}
	if derived.engine == nil && derived.cfg.stylesDir == p.cfg.stylesDir {
		derived.engine = p.engine
	}

	if err := derived.init(); err != nil {
		return nil, err
	}
	return derived, nil
}

// init builds the engine if needed and checks the style.
func (p *Processor) init() error {
	if p.engine == nil {
		resolver, err := assets.NewStyleResolver(p.cfg.stylesDir)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidStylesDir, err)
		}
		if resolver.HasCustomLoader() {
			p.logger.Debug("custom styles enabled", zap.String("dir", p.cfg.stylesDir))
		}
		p.engine = csl.NewEngine(resolver)
	}

	p.adapter = citation.NewAdapter(p.engine, p.cfg.library)
	if err := p.adapter.CheckStyle(p.cfg.style); err != nil {
		return err
	}
	return nil
}

// Style returns the configured style identifier.
func (p *Processor) Style() string {
	return p.cfg.style
}

// Styles lists the style identifiers available to this Processor.
func (p *Processor) Styles() ([]string, error) {
	lister, ok := p.engine.(interface{ Styles() ([]string, error) })
	if !ok {
		return nil, nil
	}
	return lister.Styles()
}

// Process resolves the citations of doc in place.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (p *Processor) Process(doc *html.Node) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if doc == nil {
		return nil, ErrNilDocument
	}
	return p.process(doc)
}

func (p *Processor) process(doc *html.Node) (*Result, error) {
	log := p.logger.With(zap.String("style", p.cfg.style))

	markers, warnings := citation.Extract(doc)
	log.Debug("extracted citation markers",
		zap.Int("markers", len(markers)),
		zap.Int("malformed", len(warnings)))

	groups := citation.Groups(markers)
	pool, err := citation.Collect(groups)
	if err != nil {
		return nil, err
	}

	bib, err := p.adapter.Open(p.cfg.style, pool)
	if err != nil {
		return nil, err
	}

	reg := citation.NewRegistrar(bib)
	reg.RegisterAll(groups)
	log.Debug("registered citation groups", zap.Int("groups", reg.Len()), zap.Int("records", len(pool)))

	formatter := reg.Close()
	texts, missing := formatter.FormatAll(p.cfg.inText)
	warnings = append(warnings, missing...)

	entries := formatter.Bibliography()
	log.Debug("formatted citations", zap.Int("citations", len(texts)), zap.Int("entries", len(entries)))

	if err := citation.ReplaceCitations(markers, texts); err != nil {
		return nil, err
	}
	if err := citation.AppendBibliography(doc, entries, p.cfg.heading); err != nil {
		return nil, err
	}

	for _, w := range warnings {
		log.Warn(w.Message,
			zap.Stringer("kind", w.Kind),
			zap.Int("marker", w.Marker),
			zap.String("citation", w.CitationID),
			zap.String("key", w.Key))
	}

	return &Result{
		Document:  doc,
		Warnings:  warnings,
		Citations: texts,
		Entries:   entries,
	}, nil
}

// ProcessHTML parses content as a full document or a fragment, resolves its
// citations and renders it back. Fragments render without an <html> wrapper.
func (p *Processor) ProcessHTML(ctx context.Context, content string) (*HTMLResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := pipeline.Parse(content)
	if err != nil {
		return nil, err
	}

	res, err := p.Process(doc.Root)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc.InjectCSS(p.cfg.css)
	out, err := doc.Render()
	if err != nil {
		return nil, fmt.Errorf("rendering HTML: %w", err)
	}

	return &HTMLResult{
		HTML:      out,
		Warnings:  res.Warnings,
		Citations: res.Citations,
		Entries:   res.Entries,
	}, nil
}

// ProcessMarkdown converts Markdown to a standalone HTML document and
// resolves its citations. Citation spans must be written as raw HTML.
// Front matter keys csl and reference-section-title override the style and
// heading for this document; bibliography paths are returned in
// HTMLResult.FrontMatter for the caller to load (see ParseFrontMatter).
func (p *Processor) ProcessMarkdown(ctx context.Context, content string) (*HTMLResult, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyMarkdown
	}

	fm, body, err := pipeline.SplitFrontMatter(content)
	if err != nil {
		return nil, err
	}

	proc := p
	title := ""
	if fm != nil {
		title = fm.Title
		proc, err = p.With(WithStyle(fm.Style), WithHeading(fm.Heading))
		if err != nil {
			return nil, err
		}
	}

	md := proc.preprocessor.PreprocessMarkdown(ctx, body)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	htmlContent, err := proc.htmlConverter.ToHTML(ctx, md, title)
	if err != nil {
		return nil, fmt.Errorf("converting to HTML: %w", err)
	}

	res, err := proc.ProcessHTML(ctx, htmlContent)
	if err != nil {
		return nil, err
	}
	res.FrontMatter = fm
	return res, nil
}

// ParseFrontMatter returns the front matter of a Markdown document, or nil
// when it has none.
func ParseFrontMatter(content string) (*FrontMatter, error) {
	fm, _, err := pipeline.SplitFrontMatter(content)
	return fm, err
}
