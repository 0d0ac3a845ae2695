// Package citation resolves embedded citation markers in an HTML tree.
//
// A document goes through five stages, always in this order:
//
//  1. Extract scans the tree depth-first and decodes every
//     <span class="citation" data-src="data:application/json;base64,...">
//     payload into a Group. Malformed payloads are skipped with a warning.
//  2. Collect flattens the groups into the item pool used to build the
//     engine's source. An item record without an id aborts the document.
//  3. Adapter opens the style, the source and the bibliography on an Engine.
//     Unknown styles fail before any registration happens.
//  4. Registrar registers every group, then Close hands out the Formatter
//     that formats them. Styles such as "ibid" or year-suffix disambiguation
//     depend on the whole document, so no group can be formatted before the
//     last one is registered.
//  5. ReplaceCitations and AppendBibliography rewrite the tree.
//
// All state is owned by a single document. Nothing in this package is
// shared between calls, so independent documents can be processed in
// parallel as long as each uses its own Bibliography.
package citation
