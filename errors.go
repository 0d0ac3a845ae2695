package htmlcite

import (
	"errors"

	"github.com/alnah/go-htmlcite/internal/citation"
	"github.com/alnah/go-htmlcite/internal/csl"
	"github.com/alnah/go-htmlcite/internal/pipeline"
)

// Sentinel errors for library operations.
var (
	ErrEmptyMarkdown = errors.New("markdown content cannot be empty")
	ErrNilDocument   = errors.New("document cannot be nil")
	ErrEmptyHTML     = pipeline.ErrEmptyHTML

	// Citation errors.
	ErrMissingItemID = citation.ErrMissingItemID

	// Style errors.
	ErrStyleNotFound    = citation.ErrStyleNotFound
	ErrStyleParse       = csl.ErrStyleParse
	ErrStyleInvalid     = csl.ErrStyleInvalid
	ErrInvalidStylesDir = errors.New("invalid styles directory")

	// Markdown errors.
	ErrFrontMatter    = pipeline.ErrFrontMatter
	ErrHTMLConversion = pipeline.ErrHTMLConversion
)
