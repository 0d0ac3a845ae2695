// Package csl is a small citation style engine.
//
// Styles are declarative YAML rule sets loaded through assets.StyleLoader.
// A style picks a citation mode (author-date, numeric or note), the name
// rules for citations and for the bibliography, and ordered layouts of
// variables with affixes and fonts:
//
//	citation:
//	  mode: author-date
//	  prefix: "("
//	  suffix: ")"
//	  layout:
//	    - {var: author, suffix: " "}
//	    - {var: year}
//
// The engine implements citation.Engine. A Bibliography keeps the citation
// log of one document; document-wide decisions (citation numbers, year
// suffixes, ibid and "hereafter" forms) are derived from the whole log,
// which is why every citation must be registered before any is formatted.
package csl
