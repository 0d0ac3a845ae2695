// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"strings"
)

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-htmlcite/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	// Find a user config path (contains .config/go-htmlcite) to suggest
	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/go-htmlcite") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForStyleNotFound returns hints for style not found errors.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForStylesDir returns hints for an unusable custom styles directory.
func ForStylesDir() string {
	return format("--styles-dir expects a directory containing styles/{name}.yaml")
}

// ForMissingItemID returns hints for citation items whose record has no id.
func ForMissingItemID() string {
	return format("re-insert the citation from the reference manager; every itemData needs an \"id\"")
}

// ForMissingKeys returns hints for citations that fell back to their plain text.
func ForMissingKeys(hasLibrary bool) string {
	if hasLibrary {
		return format("check the cited ids exist in the --bibliography files")
	}
	return format("add the library exported from the reference manager with --bibliography")
}

// ForBibliographyFile returns hints for bibliography files that fail to load.
func ForBibliographyFile() string {
	return format("export CSL-JSON (.json) or CSL-YAML (.yaml, .yml) from the reference manager")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}
