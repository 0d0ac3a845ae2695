package citation

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// PayloadPrefix is the data URI prefix a marker payload must carry.
const PayloadPrefix = "data:application/json;base64,"

// rawGroup mirrors Group with pointers so absent fields can be told apart
// from zero values.
type rawGroup struct {
	ID         *string     `json:"citationID"`
	Items      []rawItem   `json:"citationItems"`
	Properties *Properties `json:"properties"`
	Schema     string      `json:"schema"`
}

type rawItem struct {
	ID             *ItemID  `json:"id"`
	Data           Record   `json:"itemData"`
	URIs           []string `json:"uris"`
	Locator        string   `json:"locator"`
	Label          string   `json:"label"`
	Prefix         string   `json:"prefix"`
	Suffix         string   `json:"suffix"`
	SuppressAuthor bool     `json:"suppress-author"`
}

// DecodePayload decodes a data-src attribute value into a Group.
// Every error wraps ErrMalformedPayload.
func DecodePayload(dataSrc string) (Group, error) {
	if !strings.HasPrefix(dataSrc, PayloadPrefix) {
		return Group{}, fmt.Errorf("%w: missing %q prefix", ErrMalformedPayload, PayloadPrefix)
	}

	raw, err := decodeBase64(dataSrc[len(PayloadPrefix):])
	if err != nil {
		return Group{}, fmt.Errorf("%w: base64: %v", ErrMalformedPayload, err)
	}

	var rg rawGroup
	if err := json.Unmarshal(escapeControlChars(raw), &rg); err != nil {
		return Group{}, fmt.Errorf("%w: json: %v", ErrMalformedPayload, err)
	}

	g, err := rg.validate()
	if err != nil {
		return Group{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return g, nil
}

// EncodePayload is the inverse of DecodePayload.
func EncodePayload(g Group) (string, error) {
	data, err := json.Marshal(g)
	if err != nil {
		return "", err
	}
	return PayloadPrefix + base64.StdEncoding.EncodeToString(data), nil
}

func (rg rawGroup) validate() (Group, error) {
	if rg.ID == nil {
		return Group{}, errors.New("citationID is required")
	}
	if len(rg.Items) == 0 {
		return Group{}, errors.New("citationItems must not be empty")
	}
	if rg.Properties == nil {
		return Group{}, errors.New("properties is required")
	}

	g := Group{
		ID:         *rg.ID,
		Items:      make([]Item, len(rg.Items)),
		Properties: *rg.Properties,
		Schema:     rg.Schema,
	}
	for i, ri := range rg.Items {
		if ri.ID == nil {
			return Group{}, fmt.Errorf("citationItems[%d].id is required", i)
		}
		g.Items[i] = Item{
			ID:             *ri.ID,
			Data:           ri.Data,
			URIs:           ri.URIs,
			Locator:        ri.Locator,
			Label:          ri.Label,
			Prefix:         ri.Prefix,
			Suffix:         ri.Suffix,
			SuppressAuthor: ri.SuppressAuthor,
		}
	}
	return g, nil
}

// decodeBase64 accepts padded and unpadded standard encodings, ignoring
// whitespace introduced by line wrapping.
func decodeBase64(s string) ([]byte, error) {
	s = strings.Join(strings.Fields(s), "")
	if s == "" {
		return nil, errors.New("empty payload")
	}
	if data, err := base64.StdEncoding.DecodeString(s); err == nil {
		return data, nil
	}
	return base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
}

// escapeControlChars escapes raw control characters inside JSON strings.
// Word processors embed literal newlines and tabs in titles, which strict
// JSON forbids.
func escapeControlChars(data []byte) []byte {
	if bytes.IndexFunc(data, func(r rune) bool { return r < 0x20 }) < 0 {
		return data
	}

	out := make([]byte, 0, len(data)+16)
	inString, escaped := false, false
	for _, c := range data {
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString && c < 0x20:
			out = append(out, fmt.Sprintf(`\u%04x`, c)...)
			continue
		}
		out = append(out, c)
	}
	return out
}
