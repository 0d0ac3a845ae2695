package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/alnah/go-htmlcite"
	"github.com/alnah/go-htmlcite/internal/assets"
	"github.com/alnah/go-htmlcite/internal/bibfile"
	"github.com/alnah/go-htmlcite/internal/config"
	"github.com/alnah/go-htmlcite/internal/hints"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage         = errors.New("invalid usage")
	ErrNoInput       = errors.New("no input specified")
	ErrNoFiles       = errors.New("no HTML or Markdown files found")
	ErrReadCSS       = errors.New("failed to read CSS file")
	ErrInvalidInText = errors.New("invalid in-text source")
	ErrWarnings      = errors.New("citation warnings reported")
)

// runMain runs the CLI and returns the process exit code.
func runMain(ctx context.Context, args []string, env *Environment) int {
	if len(args) > 0 {
		args = args[1:]
	}

	flags, positional, err := parseFlags(args, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintln(env.Stderr, err)
		return ExitUsage
	}

	if flags.version {
		fmt.Fprintf(env.Stdout, "go-htmlcite %s\n", Version)
		return ExitSuccess
	}

	logger := newLogger(env.Stderr, flags.verbose, flags.quiet)
	defer func() { _ = logger.Sync() }()

	if env.SetMaxProcs != nil {
		env.SetMaxProcs(logger.Sugar().Debugf)
	}
	if env.Environ != nil {
		warnUnknownEnvVars(env.Environ(), logger)
	}

	if err := run(ctx, positional, flags, env, logger); err != nil {
		fmt.Fprintln(env.Stderr, err)
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// run loads configuration, builds the processor and processes the inputs.
func run(ctx context.Context, positional []string, flags *cliFlags, env *Environment, logger *zap.Logger) error {
	if len(positional) > 1 {
		return fmt.Errorf("%w: expected one input, got %d", ErrUsage, len(positional))
	}

	envCfg := loadEnvConfig(env.Getenv)

	cfg, err := loadConfig(flags.config, envCfg.ConfigPath)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	if flags.listStyles {
		return listStyles(env, cfg.Assets.BasePath)
	}

	workerFlag := flags.workers
	if workerFlag == 0 {
		workerFlag = envCfg.Workers
	}
	workers, err := resolveWorkers(workerFlag)
	if err != nil {
		return err
	}

	inputPath, err := resolveInputPath(positional, cfg)
	if err != nil {
		return err
	}

	files, err := discoverFiles(inputPath, cfg.Output.DefaultDir)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w in %s", ErrNoFiles, inputPath)
	}

	if flags.dryRun {
		for _, f := range files {
			fmt.Fprintf(env.Stdout, "%s -> %s\n", f.InputPath, f.OutputPath)
		}
		return nil
	}

	// Warnings are printed per file; the engine logs only in verbose mode.
	procLogger := zap.NewNop()
	if flags.verbose {
		procLogger = logger.Named("engine")
	}
	proc, hasLibrary, err := buildProcessor(cfg, procLogger)
	if err != nil {
		return err
	}

	logger.Debug("processing batch",
		zap.Int("files", len(files)),
		zap.Int("workers", workers),
		zap.String("style", proc.Style()))

	results := processBatch(ctx, proc, files, workers, logger)
	summary := printResults(results, flags.quiet, flags.verbose, env.Stdout, env.Stderr)

	var errs []error
	if summary.Failed > 0 {
		errs = append(errs, newBatchError(results))
	}
	if summary.Warnings > 0 && hasMissingKeys(results) && !flags.quiet {
		fmt.Fprintln(env.Stderr, strings.TrimPrefix(hints.ForMissingKeys(hasLibrary), "\n"))
	}
	if flags.strict && summary.Warnings > 0 {
		errs = append(errs, fmt.Errorf("%w: %d (--strict)", ErrWarnings, summary.Warnings))
	}
	return errors.Join(errs...)
}

// batchError reports failed files. Per-file details are already printed,
// so Error stays short; Unwrap exposes the causes for exit code mapping.
type batchError struct {
	failed []error
}

func newBatchError(results []FileResult) *batchError {
	e := &batchError{}
	for _, r := range results {
		if r.Err != nil {
			e.failed = append(e.failed, r.Err)
		}
	}
	return e
}

func (e *batchError) Error() string {
	return fmt.Sprintf("%d file(s) failed", len(e.failed))
}

func (e *batchError) Unwrap() []error {
	return e.failed
}

// loadConfig loads the config named by the flag, falling back to the
// environment. No config means defaults.
func loadConfig(flagConfig, envConfig string) (*config.Config, error) {
	name := flagConfig
	if name == "" {
		name = envConfig
	}
	if name == "" {
		return config.DefaultConfig(), nil
	}

	cfg, err := config.LoadConfig(name)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(userConfigPaths(name)))
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// userConfigPaths returns the user-level config path for name.
func userConfigPaths(name string) []string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil
	}
	return []string{filepath.Join(dir, "go-htmlcite", name+".yaml")}
}

// mergeFlags merges CLI flags into config. CLI values override config values.
// Bibliography files from flags are added to those from the config.
func mergeFlags(flags *cliFlags, cfg *config.Config) {
	if flags.style != "" {
		cfg.Citations.Style = flags.style
	}
	if flags.heading != "" {
		cfg.Citations.Heading = flags.heading
	}
	if flags.inText != "" {
		cfg.Citations.InText = flags.inText
	}
	if flags.stylesDir != "" {
		cfg.Assets.BasePath = flags.stylesDir
	}
	if flags.css != "" {
		cfg.CSS.File = flags.css
	}
	if flags.output != "" {
		cfg.Output.DefaultDir = flags.output
	}
	cfg.Bibliography.Files = append(cfg.Bibliography.Files, flags.bibliography...)
}

// resolveInputPath picks the positional argument or the configured default.
func resolveInputPath(args []string, cfg *config.Config) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Input.DefaultDir != "" {
		return cfg.Input.DefaultDir, nil
	}
	return "", ErrNoInput
}

// parseInText maps the config value to an in-text source.
func parseInText(s string) (htmlcite.InTextSource, error) {
	switch strings.ToLower(s) {
	case "", config.InTextEngine:
		return htmlcite.InTextEngine, nil
	case config.InTextPlain:
		return htmlcite.InTextPlain, nil
	default:
		return 0, fmt.Errorf("%w: %q (must be engine or plain)", ErrInvalidInText, s)
	}
}

// buildProcessor creates the shared Processor from the merged config.
// It reports whether an external library was loaded.
func buildProcessor(cfg *config.Config, logger *zap.Logger) (*htmlcite.Processor, bool, error) {
	inText, err := parseInText(cfg.Citations.InText)
	if err != nil {
		return nil, false, err
	}

	opts := []htmlcite.Option{
		htmlcite.WithStyle(cfg.Citations.Style),
		htmlcite.WithHeading(cfg.Citations.Heading),
		htmlcite.WithInTextSource(inText),
		htmlcite.WithStylesDir(cfg.Assets.BasePath),
		htmlcite.WithLogger(logger),
	}

	if cfg.CSS.File != "" {
		css, err := os.ReadFile(cfg.CSS.File) // #nosec G304 -- CSS path is user-provided
		if err != nil {
			return nil, false, fmt.Errorf("%w: %w", ErrReadCSS, err)
		}
		opts = append(opts, htmlcite.WithCSS(string(css)))
	}

	var records []htmlcite.Record
	if len(cfg.Bibliography.Files) > 0 {
		records, err = bibfile.LoadAll(cfg.Bibliography.Files)
		if err != nil {
			return nil, false, fmt.Errorf("loading bibliography: %w%s", err, hints.ForBibliographyFile())
		}
		opts = append(opts, htmlcite.WithLibrary(records...))
		logger.Debug("loaded bibliography", zap.Int("records", len(records)), zap.Strings("files", cfg.Bibliography.Files))
	}

	proc, err := htmlcite.New(opts...)
	if err != nil {
		switch {
		case errors.Is(err, htmlcite.ErrStyleNotFound):
			available, _ := availableStyles(cfg.Assets.BasePath)
			return nil, false, fmt.Errorf("%w%s", err, hints.ForStyleNotFound(available))
		case errors.Is(err, htmlcite.ErrInvalidStylesDir):
			return nil, false, fmt.Errorf("%w%s", err, hints.ForStylesDir())
		default:
			return nil, false, err
		}
	}
	return proc, len(records) > 0, nil
}

// availableStyles lists the embedded styles plus those in stylesDir.
func availableStyles(stylesDir string) ([]string, error) {
	if stylesDir == "" {
		return assets.ListStyles()
	}
	resolver, err := assets.NewStyleResolver(stylesDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w%s", htmlcite.ErrInvalidStylesDir, err, hints.ForStylesDir())
	}
	return resolver.ListStyles()
}

// listStyles prints one style identifier per line.
func listStyles(env *Environment, stylesDir string) error {
	styles, err := availableStyles(stylesDir)
	if err != nil {
		return err
	}
	for _, s := range styles {
		fmt.Fprintln(env.Stdout, s)
	}
	return nil
}

// hasMissingKeys reports whether any result fell back to plain citations.
func hasMissingKeys(results []FileResult) bool {
	for _, r := range results {
		for _, w := range r.Warnings {
			if w.Kind == htmlcite.WarnMissingKey {
				return true
			}
		}
	}
	return false
}
