package main

import (
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/alnah/go-htmlcite/internal/config"
)

// envPrefix marks the environment variables read by the CLI.
const envPrefix = "HTMLCITE_"

// envConfig holds configuration from environment variables.
// Provides CI-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath   string   // HTMLCITE_CONFIG: config file name or path
	Style        string   // HTMLCITE_STYLE: citation style
	StylesDir    string   // HTMLCITE_STYLES_DIR: custom styles directory
	InputDir     string   // HTMLCITE_INPUT_DIR: default input directory
	OutputDir    string   // HTMLCITE_OUTPUT_DIR: default output directory
	Bibliography []string // HTMLCITE_BIBLIOGRAPHY: library files, list-separated
	Workers      int      // HTMLCITE_WORKERS: parallel workers
}

// knownEnvVars lists valid HTMLCITE_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"HTMLCITE_CONFIG":       true,
	"HTMLCITE_STYLE":        true,
	"HTMLCITE_STYLES_DIR":   true,
	"HTMLCITE_INPUT_DIR":    true,
	"HTMLCITE_OUTPUT_DIR":   true,
	"HTMLCITE_BIBLIOGRAPHY": true,
	"HTMLCITE_WORKERS":      true,
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig(getenv func(string) string) *envConfig {
	cfg := &envConfig{
		ConfigPath: getenv("HTMLCITE_CONFIG"),
		Style:      getenv("HTMLCITE_STYLE"),
		StylesDir:  getenv("HTMLCITE_STYLES_DIR"),
		InputDir:   getenv("HTMLCITE_INPUT_DIR"),
		OutputDir:  getenv("HTMLCITE_OUTPUT_DIR"),
	}

	if bib := getenv("HTMLCITE_BIBLIOGRAPHY"); bib != "" {
		for _, p := range filepath.SplitList(bib) {
			if p = strings.TrimSpace(p); p != "" {
				cfg.Bibliography = append(cfg.Bibliography, p)
			}
		}
	}

	if workers := getenv("HTMLCITE_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized HTMLCITE_* variables.
// Helps catch typos like HTMLCITE_STYEL.
func warnUnknownEnvVars(environ []string, logger *zap.Logger) {
	for _, kv := range environ {
		if !strings.HasPrefix(kv, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(kv, "=")
		if !knownEnvVars[name] {
			logger.Warn("unknown environment variable (typo?)", zap.String("name", name))
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Set variables override the config file; CLI flags are applied later
// via mergeFlags. Precedence: CLI flags > env vars > config file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Style != "" {
		cfg.Citations.Style = env.Style
	}
	if env.StylesDir != "" {
		cfg.Assets.BasePath = env.StylesDir
	}
	if env.InputDir != "" {
		cfg.Input.DefaultDir = env.InputDir
	}
	if env.OutputDir != "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if len(env.Bibliography) > 0 {
		cfg.Bibliography.Files = append(cfg.Bibliography.Files, env.Bibliography...)
	}
}
