// Package htmlcite resolves embedded citation markers in HTML documents.
//
// Reference managers such as Zotero and Mendeley leave citations in exported
// documents as spans carrying a base64 JSON payload:
//
//	<span class="citation" data-src="data:application/json;base64,...">(Smith 2020)</span>
//
// A Processor decodes every payload, formats the citations with a citation
// style, replaces each span with a <cite> element and appends a numbered
// bibliography to the document.
//
// # Quick Start
//
//	proc, err := htmlcite.New(htmlcite.WithStyle("apa"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := proc.ProcessHTML(ctx, content)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, w := range res.Warnings {
//	    log.Println(w)
//	}
//	os.WriteFile("out.html", []byte(res.HTML), 0644)
//
// # Processing Stages
//
// Every document goes through the same stages:
//
//  1. Extraction of citation markers, depth-first in document order
//  2. Collection of the item records embedded in the payloads
//  3. Registration of every citation group with the style engine
//  4. Formatting of every group, once all of them are registered
//  5. Tree rewrite and bibliography append
//
// Registration completes before formatting starts because styles can make
// an earlier citation depend on a later one: year suffixes ("2020a") and
// note forms ("Ibid.", "hereafter cited as") are decided over the whole
// document.
//
// # Warnings and Errors
//
// A marker whose payload does not decode is left untouched and reported as a
// warning. A cited key that no record resolves falls back to the citation
// text the reference manager captured, again with a warning. Only an item
// record without an identifier, or an unknown style, fails the document.
//
// # Styles
//
// Built-in styles are harvard1 (the default), apa, ieee and chicago-note.
// WithStylesDir adds a directory of custom YAML definitions searched first:
//
//	{dir}/styles/{name}.yaml
//
// # Concurrency
//
// A Processor is immutable and safe for concurrent use. Each call builds its
// own style engine state, so documents never influence each other.
package htmlcite
