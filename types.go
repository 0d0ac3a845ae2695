package htmlcite

import (
	"golang.org/x/net/html"

	"github.com/alnah/go-htmlcite/internal/citation"
	"github.com/alnah/go-htmlcite/internal/pipeline"
)

// Record is a CSL-JSON item, keyed by its "id" field.
type Record = citation.Record

// Warning is a non-fatal condition recorded while processing a document.
type Warning = citation.Warning

// WarningKind classifies warnings.
type WarningKind = citation.WarningKind

// Warning kinds.
const (
	WarnMalformedPayload = citation.WarnMalformedPayload
	WarnMissingKey       = citation.WarnMissingKey
)

// InTextSource selects where in-text citation text comes from.
type InTextSource = citation.InTextSource

// In-text sources.
const (
	// InTextEngine formats in-text citations with the configured style.
	InTextEngine = citation.InTextEngine
	// InTextPlain keeps the text captured by the reference manager.
	InTextPlain = citation.InTextPlain
)

// FrontMatter holds the metadata of a Markdown document's leading YAML block.
type FrontMatter = pipeline.FrontMatter

// Result is the outcome of processing a document tree in place.
type Result struct {
	// Document is the processed tree (the same node passed to Process).
	Document *html.Node
	// Warnings lists non-fatal conditions in document order.
	Warnings []Warning
	// Citations holds the inline HTML that replaced each marker, in order.
	Citations []string
	// Entries holds the rendered bibliography entries in style order.
	Entries []string
}

// HTMLResult is the outcome of processing serialized HTML or Markdown.
type HTMLResult struct {
	HTML      string
	Warnings  []Warning
	Citations []string
	Entries   []string
	// FrontMatter is set for Markdown input carrying a front matter block.
	FrontMatter *FrontMatter
}
