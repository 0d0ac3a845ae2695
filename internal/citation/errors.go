package citation

import "errors"

// Sentinel errors for citation processing.
var (
	// ErrMissingItemID indicates an item record without an identifier.
	// The engine cannot index such a record, so the whole document fails.
	ErrMissingItemID = errors.New("citation item has no identifier")

	// ErrStyleNotFound indicates the requested citation style is unknown.
	ErrStyleNotFound = errors.New("citation style not found")

	// ErrMalformedPayload indicates a marker payload that does not decode
	// into a citation group. It is reported as a warning, never returned
	// from Extract.
	ErrMalformedPayload = errors.New("malformed citation payload")

	// ErrMarkerCountMismatch indicates the rewriter received a different
	// number of formatted texts than extracted markers.
	ErrMarkerCountMismatch = errors.New("formatted citations do not match markers")
)
