package pipeline

import (
	"context"
	"regexp"
	"strings"
)

// Highlight placeholders use Unicode Private Use Area characters.
// They pass through Goldmark unchanged and are turned into <mark> tags
// after HTML generation.
const (
	MarkStartPlaceholder = "\uE000" // U+E000: Private Use Area start
	MarkEndPlaceholder   = "\uE001" // U+E001: Private Use Area end
)

var (
	crlfOrCR           = regexp.MustCompile(`\r\n?`)
	multipleBlankLines = regexp.MustCompile(`\n{3,}`)
	highlightPattern   = regexp.MustCompile(`==(.*?)==`)
	inlineTagPattern   = regexp.MustCompile(`<[^<>]*>`)
)

// MarkdownPreprocessor defines the contract for markdown preprocessing.
type MarkdownPreprocessor interface {
	PreprocessMarkdown(ctx context.Context, content string) string
}

// CommonMarkPreprocessor applies transformations before CommonMark conversion.
type CommonMarkPreprocessor struct{}

// PreprocessMarkdown normalizes line endings, marks ==highlights== and
// compresses runs of blank lines. Front matter must already be split off.
func (p *CommonMarkPreprocessor) PreprocessMarkdown(ctx context.Context, content string) string {
	if ctx.Err() != nil {
		return content
	}

	content = normalizeLineEndings(content)
	content = convertHighlights(content)
	content = compressBlankLines(content)
	return content
}

func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// compressBlankLines limits consecutive blank lines to 2 maximum.
func compressBlankLines(content string) string {
	return multipleBlankLines.ReplaceAllString(content, "\n\n")
}

// convertHighlights skips fenced code blocks and raw HTML tags; highlights
// inside them are literal text. Citation payloads are base64 and often end
// in "==".
func convertHighlights(content string) string {
	lines := strings.SplitAfter(content, "\n")
	inFence := false
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = !inFence
			continue
		}
		if !inFence {
			lines[i] = highlightOutsideTags(line)
		}
	}
	return strings.Join(lines, "")
}

// highlightOutsideTags applies highlights to the text between tags only.
func highlightOutsideTags(line string) string {
	tags := inlineTagPattern.FindAllStringIndex(line, -1)
	if len(tags) == 0 {
		return highlightPattern.ReplaceAllString(line, MarkStartPlaceholder+"$1"+MarkEndPlaceholder)
	}

	var b strings.Builder
	prev := 0
	for _, loc := range tags {
		b.WriteString(highlightPattern.ReplaceAllString(line[prev:loc[0]], MarkStartPlaceholder+"$1"+MarkEndPlaceholder))
		b.WriteString(line[loc[0]:loc[1]])
		prev = loc[1]
	}
	b.WriteString(highlightPattern.ReplaceAllString(line[prev:], MarkStartPlaceholder+"$1"+MarkEndPlaceholder))
	return b.String()
}

// ConvertMarkPlaceholders converts placeholder markers to <mark> tags.
func ConvertMarkPlaceholders(content string) string {
	return strings.ReplaceAll(
		strings.ReplaceAll(content, MarkStartPlaceholder, "<mark>"),
		MarkEndPlaceholder, "</mark>",
	)
}
