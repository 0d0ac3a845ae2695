package csl

import (
	"errors"
	"fmt"

	"github.com/alnah/go-htmlcite/internal/yamlutil"
)

// Citation modes.
const (
	ModeAuthorDate = "author-date"
	ModeNumeric    = "numeric"
	ModeNote       = "note"
)

// Bibliography sort orders.
const (
	SortAuthorDate     = "author-date"
	SortCitationNumber = "citation-number"
)

// Definition is a declarative citation style, as stored in styles/{name}.yaml.
type Definition struct {
	Name         string            `yaml:"name"`
	Title        string            `yaml:"title"`
	Locale       string            `yaml:"locale"`
	NoDate       string            `yaml:"noDate"`
	Citation     CitationRules     `yaml:"citation"`
	Bibliography BibliographyRules `yaml:"bibliography"`
}

// CitationRules govern in-text citations (or notes).
type CitationRules struct {
	Mode      string    `yaml:"mode"`
	Prefix    string    `yaml:"prefix"`
	Suffix    string    `yaml:"suffix"`
	Delimiter string    `yaml:"delimiter"`
	Names     NameRules `yaml:"names"`
	Layout    []Part    `yaml:"layout"`

	// Note styles only.
	Subsequent []Part   `yaml:"subsequent"`
	Ibid       string   `yaml:"ibid"`
	Hereafter  *Affixes `yaml:"hereafter"`

	Disambiguate Disambiguation `yaml:"disambiguate"`
}

// Disambiguation options.
type Disambiguation struct {
	AddYearSuffix bool `yaml:"addYearSuffix"`
}

// Affixes wrap a rendered value.
type Affixes struct {
	Prefix string `yaml:"prefix"`
	Suffix string `yaml:"suffix"`
}

// BibliographyRules govern reference list entries.
type BibliographyRules struct {
	Sort   string    `yaml:"sort"`
	Names  NameRules `yaml:"names"`
	Layout []Part    `yaml:"layout"`
}

// NameRules control how name lists render.
type NameRules struct {
	Form       string `yaml:"form"`   // long, short
	Invert     string `yaml:"invert"` // none, first, all
	Initialize bool   `yaml:"initialize"`
	And        string `yaml:"and"` // "and", "&" or empty for delimiter only
	Delimiter  string `yaml:"delimiter"`
	// DelimiterPrecedesLast is contextual (3+ names), always or never.
	DelimiterPrecedesLast string `yaml:"delimiterPrecedesLast"`
	EtAlMin               int    `yaml:"etAlMin"`
	EtAlUseFirst          int    `yaml:"etAlUseFirst"`
	EtAl                  string `yaml:"etAl"`
}

// Part is one element of a layout: a variable, a literal text, or a group
// rendered only when at least one of its variables is non-empty.
type Part struct {
	Var       string `yaml:"var"`
	Text      string `yaml:"text"`
	Group     []Part `yaml:"group"`
	Delimiter string `yaml:"delimiter"`
	Prefix    string `yaml:"prefix"`
	Suffix    string `yaml:"suffix"`
	Font      string `yaml:"font"` // italic, bold
	Quotes    bool   `yaml:"quotes"`
	// Form overrides the name form (long, short) for name variables.
	Form string `yaml:"form"`
}

// knownVars lists the variables a layout may reference.
var knownVars = map[string]bool{
	"author": true, "editor": true, "issued": true, "year": true,
	"title": true, "title-short": true, "container-title": true,
	"volume": true, "issue": true, "page": true, "publisher": true,
	"publisher-place": true, "edition": true, "DOI": true, "URL": true,
	"citation-number": true, "locator": true,
}

// ParseDefinition decodes a style definition. With validate set, unknown
// fields, modes, sort orders and variables are rejected; otherwise the
// definition is decoded leniently and unknown values fall back to defaults.
func ParseDefinition(data []byte, validate bool) (*Definition, error) {
	var def Definition
	var err error
	if validate {
		err = yamlutil.UnmarshalStrict(data, &def)
	} else {
		err = yamlutil.Unmarshal(data, &def)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStyleParse, err)
	}

	if validate {
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStyleInvalid, err)
		}
	}
	def.applyDefaults()
	return &def, nil
}

// Validate checks modes, sort orders and layout variables.
func (d *Definition) Validate() error {
	switch d.Citation.Mode {
	case "", ModeAuthorDate, ModeNumeric, ModeNote:
	default:
		return fmt.Errorf("citation.mode: invalid value %q", d.Citation.Mode)
	}
	switch d.Bibliography.Sort {
	case "", SortAuthorDate, SortCitationNumber:
	default:
		return fmt.Errorf("bibliography.sort: invalid value %q", d.Bibliography.Sort)
	}

	var errs []error
	check := func(section string, parts []Part) {
		for _, v := range layoutVars(parts) {
			if !knownVars[v] {
				errs = append(errs, fmt.Errorf("%s: unknown variable %q", section, v))
			}
		}
	}
	check("citation.layout", d.Citation.Layout)
	check("citation.subsequent", d.Citation.Subsequent)
	check("bibliography.layout", d.Bibliography.Layout)
	return errors.Join(errs...)
}

func layoutVars(parts []Part) []string {
	var vars []string
	for _, p := range parts {
		if p.Var != "" {
			vars = append(vars, p.Var)
		}
		vars = append(vars, layoutVars(p.Group)...)
	}
	return vars
}

func (d *Definition) applyDefaults() {
	if d.Locale == "" {
		d.Locale = "en-US"
	}
	if d.NoDate == "" {
		d.NoDate = "n.d."
	}

	c := &d.Citation
	switch c.Mode {
	case ModeAuthorDate, ModeNumeric, ModeNote:
	default:
		c.Mode = ModeAuthorDate
	}
	if c.Delimiter == "" {
		c.Delimiter = "; "
	}
	if len(c.Layout) == 0 {
		c.Layout = defaultCitationLayout(c.Mode)
	}
	if c.Mode == ModeNote && len(c.Subsequent) == 0 {
		c.Subsequent = c.Layout
	}
	c.Names.applyDefaults("short")

	b := &d.Bibliography
	switch b.Sort {
	case SortAuthorDate, SortCitationNumber:
	default:
		if c.Mode == ModeNumeric {
			b.Sort = SortCitationNumber
		} else {
			b.Sort = SortAuthorDate
		}
	}
	if len(b.Layout) == 0 {
		b.Layout = []Part{
			{Var: "author", Suffix: ". "},
			{Var: "year", Suffix: ". "},
			{Var: "title", Font: "italic", Suffix: "."},
		}
	}
	b.Names.applyDefaults("long")
}

func (n *NameRules) applyDefaults(form string) {
	if n.Form == "" {
		n.Form = form
	}
	if n.Invert == "" {
		n.Invert = "none"
	}
	if n.Delimiter == "" {
		n.Delimiter = ", "
	}
	if n.DelimiterPrecedesLast == "" {
		n.DelimiterPrecedesLast = "contextual"
	}
	if n.EtAl == "" {
		n.EtAl = "et al."
	}
	if n.EtAlUseFirst <= 0 {
		n.EtAlUseFirst = 1
	}
}

func defaultCitationLayout(mode string) []Part {
	switch mode {
	case ModeNumeric:
		return []Part{{Var: "citation-number"}, {Var: "locator", Prefix: ", "}}
	case ModeNote:
		return []Part{
			{Var: "author", Suffix: ", "},
			{Var: "title", Font: "italic"},
			{Var: "year", Prefix: " (", Suffix: ")"},
			{Var: "locator", Prefix: ", "},
		}
	default:
		return []Part{{Var: "author", Suffix: " "}, {Var: "year"}, {Var: "locator", Prefix: ", "}}
	}
}
