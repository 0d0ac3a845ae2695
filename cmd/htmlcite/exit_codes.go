package main

import (
	"errors"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-htmlcite"
	"github.com/alnah/go-htmlcite/internal/bibfile"
	"github.com/alnah/go-htmlcite/internal/config"
)

// Exit codes for the htmlcite CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // All files processed
	ExitGeneral = 1 // General/unexpected error, or warnings with --strict
	ExitUsage   = 2 // Invalid flags, config, style or bibliography
	ExitIO      = 3 // File not found, permission denied
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
// Joined batch errors map to the most specific code among them.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, flag.ErrHelp) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, bibfile.ErrBibliographyParse) ||
		errors.Is(err, bibfile.ErrUnsupportedFormat) ||
		errors.Is(err, bibfile.ErrFileTooLarge) ||
		errors.Is(err, htmlcite.ErrStyleNotFound) ||
		errors.Is(err, htmlcite.ErrStyleParse) ||
		errors.Is(err, htmlcite.ErrStyleInvalid) ||
		errors.Is(err, htmlcite.ErrInvalidStylesDir) ||
		errors.Is(err, htmlcite.ErrFrontMatter) ||
		errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrInvalidInText) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidExtension) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrReadCSS) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrNoFiles) {
		return ExitIO
	}

	return ExitGeneral
}
