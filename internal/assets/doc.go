// Package assets provides citation style definitions.
//
// # Loader Architecture
//
// The package implements a layered loading system:
//
//	StyleLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in styles)
//	    ├── FilesystemLoader  - loads from custom directory on disk
//	    └── StyleResolver     - combines both with custom-first fallback
//
// EmbeddedLoader provides the built-in styles (harvard1, apa, ieee,
// chicago-note) embedded at compile time.
//
// FilesystemLoader lets users provide their own style definitions from a
// directory, with path traversal protection and symlink resolution.
//
// StyleResolver is the loader used by the style engine. It tries the custom
// FilesystemLoader first and falls back to EmbeddedLoader when the style is
// not found there. A custom directory can therefore override a built-in
// style by reusing its name.
//
// # Directory Structure
//
//	{basePath}/
//	└── styles/
//	    └── {name}.yaml          # style definition (e.g., harvard1.yaml)
//
// # Security
//
// Style names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
