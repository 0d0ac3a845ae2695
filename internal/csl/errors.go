package csl

import "errors"

// Sentinel errors for the style engine.
var (
	// ErrStyleParse indicates a style definition that is not valid YAML.
	ErrStyleParse = errors.New("failed to parse style definition")

	// ErrStyleInvalid indicates a style definition rejected by validation.
	ErrStyleInvalid = errors.New("invalid style definition")

	// ErrForeignHandle indicates a style, source or citation handle built
	// by another engine or bibliography.
	ErrForeignHandle = errors.New("handle does not belong to this engine")
)
