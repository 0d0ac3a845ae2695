// Package bibfile loads bibliography libraries exported by reference
// managers. CSL-JSON files hold an array of items; CSL-YAML files hold a
// list of items or a mapping with a "references" list, as Pandoc reads them.
package bibfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-htmlcite/internal/citation"
	"github.com/alnah/go-htmlcite/internal/yamlutil"
)

// Sentinel errors for bibliography files.
var (
	ErrBibliographyParse = errors.New("failed to parse bibliography")
	ErrUnsupportedFormat = errors.New("unsupported bibliography format")
	ErrFileTooLarge      = errors.New("bibliography file too large")
)

// MaxFileSize limits a single bibliography file (16MB).
var MaxFileSize int64 = 16 << 20

// Format is a bibliography file format.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatFor picks the format from the file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return 0, fmt.Errorf("%w: %s (want .json, .yaml or .yml)", ErrUnsupportedFormat, path)
	}
}

// Load reads and parses one bibliography file.
func Load(path string) ([]citation.Record, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading bibliography: %w", err)
	}
	if info.Size() > MaxFileSize {
		return nil, fmt.Errorf("%w: %s (%d bytes, max %d)", ErrFileTooLarge, path, info.Size(), MaxFileSize)
	}

	data, err := os.ReadFile(path) // #nosec G304 -- bibliography path is user-provided
	if err != nil {
		return nil, fmt.Errorf("reading bibliography: %w", err)
	}

	records, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// LoadAll loads paths in order and merges their records. When two files
// define the same id, the first one wins.
func LoadAll(paths []string) ([]citation.Record, error) {
	var (
		all  []citation.Record
		seen = map[string]struct{}{}
	)
	for _, p := range paths {
		records, err := Load(p)
		if err != nil {
			return nil, err
		}
		for _, r := range records {
			k, _ := r.Key()
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			all = append(all, r)
		}
	}
	return all, nil
}

// Parse decodes a bibliography in the given format. Every record must carry
// an id. Errors wrap ErrBibliographyParse.
func Parse(data []byte, format Format) ([]citation.Record, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	if format == FormatYAML {
		converted, err := yamlutil.ToJSON(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBibliographyParse, err)
		}
		data = converted
	}

	records, err := decodeItems(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBibliographyParse, err)
	}

	for i, r := range records {
		if _, ok := r.Key(); !ok {
			return nil, fmt.Errorf("%w: item %d has no id", ErrBibliographyParse, i+1)
		}
	}
	return records, nil
}

// decodeItems accepts a list of items or a {"references": [...]} mapping.
func decodeItems(data []byte) ([]citation.Record, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var doc struct {
			References []citation.Record `json:"references"`
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		if doc.References == nil {
			return nil, errors.New(`mapping without a "references" list`)
		}
		return doc.References, nil
	}

	var records []citation.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}
