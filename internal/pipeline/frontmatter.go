package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alnah/go-htmlcite/internal/yamlutil"
)

// ErrFrontMatter indicates a front matter block that is not valid YAML.
var ErrFrontMatter = errors.New("invalid front matter")

// FrontMatter holds the document metadata read from a leading YAML block.
// Keys follow the names Pandoc users already write.
type FrontMatter struct {
	Title        string
	Style        string
	Bibliography []string
	Heading      string
}

type rawFrontMatter struct {
	Title        string `yaml:"title"`
	CSL          string `yaml:"csl"`
	Bibliography any    `yaml:"bibliography"`
	Heading      string `yaml:"reference-section-title"`
}

// SplitFrontMatter separates a leading "---" YAML block from the Markdown
// body. Content without front matter is returned unchanged with a nil
// FrontMatter. Unknown keys are ignored.
func SplitFrontMatter(content string) (*FrontMatter, string, error) {
	content = normalizeLineEndings(content)
	if !strings.HasPrefix(content, "---\n") {
		return nil, content, nil
	}

	rest := content[len("---\n"):]
	block, body, ok := cutClosingFence(rest)
	if !ok {
		return nil, content, nil
	}
	if strings.TrimSpace(block) == "" {
		return &FrontMatter{}, body, nil
	}

	var raw rawFrontMatter
	if err := yamlutil.Unmarshal([]byte(block), &raw); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrFrontMatter, err)
	}

	bib, err := stringList(raw.Bibliography)
	if err != nil {
		return nil, "", fmt.Errorf("%w: bibliography: %v", ErrFrontMatter, err)
	}

	return &FrontMatter{
		Title:        strings.TrimSpace(raw.Title),
		Style:        strings.TrimSpace(raw.CSL),
		Bibliography: bib,
		Heading:      strings.TrimSpace(raw.Heading),
	}, body, nil
}

// cutClosingFence finds a line holding only "---" or "...".
func cutClosingFence(s string) (block, body string, ok bool) {
	offset := 0
	for offset <= len(s) {
		end := strings.IndexByte(s[offset:], '\n')
		line := s[offset:]
		next := len(s)
		if end >= 0 {
			line = s[offset : offset+end]
			next = offset + end + 1
		}
		if t := strings.TrimRight(line, " \t"); t == "---" || t == "..." {
			return s[:offset], s[next:], true
		}
		if end < 0 {
			break
		}
		offset = next
	}
	return "", "", false
}

func stringList(v any) ([]string, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case string:
		if s := strings.TrimSpace(x); s != "" {
			return []string{s}, nil
		}
		return nil, nil
	case []any:
		out := make([]string, 0, len(x))
		for i, item := range x {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("item %d is not a string", i)
			}
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected a string or a list, got %T", v)
	}
}
