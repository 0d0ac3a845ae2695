// Package pipeline prepares documents for citation processing and renders
// them back.
//
// It covers the stages around the citation core:
//   - HTML parsing and rendering, for full documents and fragments
//   - Markdown preprocessing (line normalization, ==highlight== syntax)
//   - YAML front matter (title, style, bibliography files, heading)
//   - Markdown to HTML conversion via Goldmark, raw HTML preserved so that
//     citation spans survive
//   - Stylesheet injection into the output document
//
// Citation extraction, formatting and tree rewriting live in
// internal/citation; this package never looks at citation markers.
package pipeline
