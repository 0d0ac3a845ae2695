package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-htmlcite/internal/fileutil"
	"github.com/alnah/go-htmlcite/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxStyleLength   = 100  // Style identifier
	MaxHeadingLength = 200  // Bibliography heading
	MaxPathLength    = 4096 // PATH_MAX on Linux
	MaxBibFiles      = 64   // Bibliography files per config
)

// Valid values for citations.inText.
const (
	InTextEngine = "engine"
	InTextPlain  = "plain"
)

// userConfigDirName is the directory searched under os.UserConfigDir.
const userConfigDirName = "go-htmlcite"

// Config holds the project configuration for citation processing.
type Config struct {
	Input        InputConfig        `yaml:"input"`
	Output       OutputConfig       `yaml:"output"`
	Citations    CitationsConfig    `yaml:"citations"`
	Bibliography BibliographyConfig `yaml:"bibliography"`
	Assets       AssetsConfig       `yaml:"assets"`
	CSS          CSSConfig          `yaml:"css"`
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default input directory (empty = must specify)
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = same as source)
}

// CitationsConfig defines how citations are rendered.
type CitationsConfig struct {
	Style   string `yaml:"style"`   // Style identifier (empty = harvard1)
	Heading string `yaml:"heading"` // Bibliography heading (empty = "Bibliography")
	InText  string `yaml:"inText"`  // "engine" or "plain" (empty = engine)
}

// BibliographyConfig lists external CSL-JSON or CSL-YAML libraries.
type BibliographyConfig struct {
	Files []string `yaml:"files"` // Relative paths resolve against the config file
}

// AssetsConfig defines style loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Directory holding styles/ (empty = embedded only)
}

// CSSConfig defines the stylesheet injected into output documents.
type CSSConfig struct {
	File string `yaml:"file"` // Empty = no stylesheet
}

// Validate checks field lengths and enumerated values.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("citations.style", c.Citations.Style, MaxStyleLength); err != nil {
		return err
	}
	if err := validateFieldLength("citations.heading", c.Citations.Heading, MaxHeadingLength); err != nil {
		return err
	}
	switch strings.ToLower(c.Citations.InText) {
	case "", InTextEngine, InTextPlain:
		// valid
	default:
		return fmt.Errorf("%w: citations.inText %q (must be engine or plain)", ErrInvalidValue, c.Citations.InText)
	}

	if len(c.Bibliography.Files) > MaxBibFiles {
		return fmt.Errorf("%w: bibliography.files has %d entries (max %d)", ErrInvalidValue, len(c.Bibliography.Files), MaxBibFiles)
	}
	for i, f := range c.Bibliography.Files {
		field := fmt.Sprintf("bibliography.files[%d]", i)
		if strings.TrimSpace(f) == "" {
			return fmt.Errorf("%w: %s is empty", ErrInvalidValue, field)
		}
		if err := validateFieldLength(field, f, MaxPathLength); err != nil {
			return err
		}
	}

	for field, value := range map[string]string{
		"input.defaultDir":  c.Input.DefaultDir,
		"output.defaultDir": c.Output.DefaultDir,
		"assets.basePath":   c.Assets.BasePath,
		"css.file":          c.CSS.File,
	} {
		if err := validateFieldLength(field, value, MaxPathLength); err != nil {
			return err
		}
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns a neutral configuration: built-in defaults apply.
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
// Relative file paths in the config resolve against the config file's directory.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.resolvePaths(filepath.Dir(configPath))
	return &cfg, nil
}

// resolvePaths makes relative file references absolute against dir.
// Directories for input and output stay relative to the working directory.
func (c *Config) resolvePaths(dir string) {
	for i, f := range c.Bibliography.Files {
		c.Bibliography.Files[i] = resolve(dir, f)
	}
	c.Assets.BasePath = resolve(dir, c.Assets.BasePath)
	c.CSS.File = resolve(dir, c.CSS.File)
}

func resolve(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-htmlcite/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	// Try current directory first (both extensions)
	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	// Try user config directory (both extensions)
	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, userConfigDirName, name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
