package csl

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// formatNames renders a name list as plain text.
func formatNames(names []Name, r NameRules) string {
	if len(names) == 0 {
		return ""
	}

	shown := names
	etAl := false
	if r.EtAlMin > 0 && len(names) >= r.EtAlMin && r.EtAlUseFirst < len(names) {
		shown = names[:r.EtAlUseFirst]
		etAl = true
	}

	parts := make([]string, len(shown))
	for i, n := range shown {
		inverted := r.Invert == "all" || (r.Invert == "first" && i == 0)
		parts[i] = formatName(n, r, inverted)
	}

	if etAl {
		if len(parts) == 1 {
			return parts[0] + " " + r.EtAl
		}
		return strings.Join(parts, r.Delimiter) + r.Delimiter + r.EtAl
	}
	return joinNames(parts, r)
}

func joinNames(parts []string, r NameRules) string {
	if len(parts) == 1 {
		return parts[0]
	}
	if r.And == "" {
		return strings.Join(parts, r.Delimiter)
	}

	precedes := false
	switch r.DelimiterPrecedesLast {
	case "always":
		precedes = true
	case "never":
		precedes = false
	default:
		precedes = len(parts) > 2
	}

	last := parts[len(parts)-1]
	head := strings.Join(parts[:len(parts)-1], r.Delimiter)
	if precedes {
		return head + r.Delimiter + r.And + " " + last
	}
	return head + " " + r.And + " " + last
}

func formatName(n Name, r NameRules, inverted bool) string {
	if n.Literal != "" {
		return n.Literal
	}

	family := n.Family
	if n.Particle != "" {
		family = n.Particle + " " + family
	}
	if r.Form == "short" || n.Given == "" {
		return family
	}

	given := n.Given
	if r.Initialize {
		given = initials(given)
	}

	var s string
	if inverted {
		s = family + ", " + given
	} else {
		s = given + " " + family
	}
	if n.Suffix != "" {
		s += ", " + n.Suffix
	}
	return s
}

// initials reduces given names to initials: "John Ronald" → "J. R.",
// "Jean-Paul" → "J.-P.". Parts already ending in a period are kept.
func initials(given string) string {
	words := strings.Fields(given)
	out := make([]string, 0, len(words))
	for _, w := range words {
		hyph := strings.Split(w, "-")
		for i, h := range hyph {
			hyph[i] = initial(h)
		}
		out = append(out, strings.Join(hyph, "-"))
	}
	return strings.Join(out, " ")
}

func initial(word string) string {
	r, _ := utf8.DecodeRuneInString(word)
	if r == utf8.RuneError || !unicode.IsLetter(r) {
		return word
	}
	return string(unicode.ToUpper(r)) + "."
}

// namesSortKey returns the names as used for bibliography ordering.
func namesSortKey(names []Name) string {
	parts := make([]string, len(names))
	for i, n := range names {
		if n.Literal != "" {
			parts[i] = n.Literal
			continue
		}
		// Non-dropping particles sort with the family name.
		family := n.Family
		if n.Particle != "" {
			family = n.Particle + " " + family
		}
		parts[i] = family + " " + n.Given
	}
	return strings.Join(parts, "; ")
}
