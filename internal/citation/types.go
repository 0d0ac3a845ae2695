package citation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// Record is an opaque bibliographic record (CSL-JSON item data).
type Record map[string]any

// Key returns the record identifier as a string.
// Returns false if the record has no usable "id" field.
func (r Record) Key() (string, bool) {
	v, ok := r["id"]
	if !ok {
		return "", false
	}
	switch id := v.(type) {
	case string:
		if id == "" {
			return "", false
		}
		return id, true
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64), true
	case int:
		return strconv.Itoa(id), true
	case int64:
		return strconv.FormatInt(id, 10), true
	case uint64:
		return strconv.FormatUint(id, 10), true
	case json.Number:
		return id.String(), true
	default:
		return "", false
	}
}

// ItemID is a citation item identifier. Payloads carry it either as a JSON
// string or as a JSON number; both are kept in their textual form.
type ItemID struct {
	value   string
	numeric bool
}

// NewItemID returns a string identifier.
func NewItemID(s string) ItemID {
	return ItemID{value: s}
}

// String returns the identifier text.
func (id ItemID) String() string {
	return id.value
}

// IsNumeric reports whether the identifier was encoded as a JSON number.
func (id ItemID) IsNumeric() bool {
	return id.numeric
}

// UnmarshalJSON accepts a non-empty string or a number.
func (id *ItemID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty identifier")
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			return fmt.Errorf("empty identifier")
		}
		*id = ItemID{value: s}
		return nil
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*id = ItemID{value: n.String(), numeric: true}
		return nil
	default:
		return fmt.Errorf("identifier must be a string or a number, got %s", data)
	}
}

// MarshalJSON writes the identifier back in its original JSON kind.
func (id ItemID) MarshalJSON() ([]byte, error) {
	if id.numeric {
		return []byte(id.value), nil
	}
	return json.Marshal(id.value)
}

// Item is one referenced source within a citation group.
type Item struct {
	ID   ItemID   `json:"id"`
	Data Record   `json:"itemData,omitempty"`
	URIs []string `json:"uris,omitempty"`

	// Optional fields written by reference managers.
	Locator        string `json:"locator,omitempty"`
	Label          string `json:"label,omitempty"`
	Prefix         string `json:"prefix,omitempty"`
	Suffix         string `json:"suffix,omitempty"`
	SuppressAuthor bool   `json:"suppress-author,omitempty"`
}

// Key returns the identifier used to look the item up in the source.
// Items carrying their own record are indexed by the record id; items
// without a record refer to an external library entry by their own id.
func (it Item) Key() string {
	if it.Data != nil {
		if k, ok := it.Data.Key(); ok {
			return k
		}
	}
	return it.ID.String()
}

// Properties holds the display values captured when the citation was inserted.
type Properties struct {
	FormattedCitation string `json:"formattedCitation"`
	NoteIndex         int    `json:"noteIndex"`
	PlainCitation     string `json:"plainCitation"`
}

// Group is the decoded content of one citation marker.
// Item order reflects the author's citing intent and is preserved.
type Group struct {
	ID         string     `json:"citationID"`
	Items      []Item     `json:"citationItems"`
	Properties Properties `json:"properties"`
	Schema     string     `json:"schema,omitempty"`
}

// Keys returns the lookup keys of the group's items in order.
func (g Group) Keys() []string {
	keys := make([]string, len(g.Items))
	for i, it := range g.Items {
		keys[i] = it.Key()
	}
	return keys
}

// Marker is a qualifying citation marker: the element found in the tree and
// the group decoded from its payload.
type Marker struct {
	Node  *html.Node
	Group Group
}

// WarningKind classifies non-fatal conditions.
type WarningKind int

const (
	// WarnMalformedPayload marks a citation marker whose payload could not be decoded.
	WarnMalformedPayload WarningKind = iota + 1
	// WarnMissingKey marks a cited key absent from the bibliographic source.
	WarnMissingKey
)

// String returns a short name for the warning kind.
func (k WarningKind) String() string {
	switch k {
	case WarnMalformedPayload:
		return "malformed-payload"
	case WarnMissingKey:
		return "missing-key"
	default:
		return "unknown"
	}
}

// Warning is a non-fatal condition recorded while processing a document.
type Warning struct {
	Kind WarningKind
	// Marker is the 1-based position of the citation span in document order.
	// Zero when the warning is not tied to a marker.
	Marker     int
	CitationID string
	Key        string
	Message    string
}

// String formats the warning for logs and CLI output.
func (w Warning) String() string {
	var b strings.Builder
	b.WriteString(w.Kind.String())
	if w.Marker > 0 {
		fmt.Fprintf(&b, " (marker %d)", w.Marker)
	}
	if w.CitationID != "" {
		fmt.Fprintf(&b, " [%s]", w.CitationID)
	}
	b.WriteString(": ")
	b.WriteString(w.Message)
	return b.String()
}
