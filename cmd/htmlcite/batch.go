package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-htmlcite"
	"github.com/alnah/go-htmlcite/internal/bibfile"
	"github.com/alnah/go-htmlcite/internal/fileutil"
	"github.com/alnah/go-htmlcite/internal/hints"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// Sentinel errors for batch operations.
var (
	ErrReadInput   = errors.New("failed to read input file")
	ErrWriteOutput = errors.New("failed to write output file")
)

// FileResult holds the outcome of a single file.
type FileResult struct {
	InputPath  string
	OutputPath string
	Warnings   []htmlcite.Warning
	Err        error
	Duration   time.Duration
}

// processBatch processes files with at most workers files in flight.
// A failing file does not stop the others; cancellation does.
func processBatch(ctx context.Context, proc *htmlcite.Processor, files []FileToProcess, workers int, logger *zap.Logger) []FileResult {
	results := make([]FileResult, len(files))

	var g errgroup.Group
	g.SetLimit(workers)

	for i, f := range files {
		if ctx.Err() != nil {
			results[i] = FileResult{InputPath: f.InputPath, Err: ctx.Err()}
			continue
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				results[i] = FileResult{InputPath: f.InputPath, Err: ctx.Err()}
				return nil
			}
			results[i] = processFile(ctx, proc, f, logger)
			return nil
		})
	}

	// Goroutines report through results and never return an error.
	_ = g.Wait()
	return results
}

// processFile processes a single file and writes its output.
func processFile(ctx context.Context, proc *htmlcite.Processor, f FileToProcess, logger *zap.Logger) FileResult {
	start := time.Now()
	result := FileResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}
	done := func(err error) FileResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	content, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		return done(fmt.Errorf("%w: %w", ErrReadInput, err))
	}

	log := logger.With(zap.String("file", f.InputPath))

	var res *htmlcite.HTMLResult
	if isMarkdown(f.InputPath) {
		p, err := withFrontMatterLibrary(proc, string(content), filepath.Dir(f.InputPath))
		if err != nil {
			return done(err)
		}
		res, err = p.ProcessMarkdown(ctx, string(content))
		if err != nil {
			return done(err)
		}
	} else {
		res, err = proc.ProcessHTML(ctx, string(content))
		if err != nil {
			return done(err)
		}
	}
	result.Warnings = res.Warnings

	if err := os.MkdirAll(filepath.Dir(f.OutputPath), dirPermissions); err != nil {
		return done(fmt.Errorf("%w: creating output directory: %w", ErrWriteOutput, err))
	}
	// #nosec G306 -- HTML files are meant to be readable
	if err := fileutil.WriteFileAtomic(f.OutputPath, []byte(res.HTML), filePermissions); err != nil {
		return done(fmt.Errorf("%w: %w", ErrWriteOutput, err))
	}

	log.Debug("processed file",
		zap.String("output", f.OutputPath),
		zap.Int("citations", len(res.Citations)),
		zap.Int("entries", len(res.Entries)),
		zap.Int("warnings", len(res.Warnings)))
	return done(nil)
}

// withFrontMatterLibrary returns proc extended with the bibliography files
// named in the Markdown front matter, resolved against dir.
func withFrontMatterLibrary(proc *htmlcite.Processor, content, dir string) (*htmlcite.Processor, error) {
	fm, err := htmlcite.ParseFrontMatter(content)
	if err != nil {
		return nil, err
	}
	if fm == nil || len(fm.Bibliography) == 0 {
		return proc, nil
	}

	paths := make([]string, len(fm.Bibliography))
	for i, p := range fm.Bibliography {
		if !filepath.IsAbs(p) {
			p = filepath.Join(dir, p)
		}
		paths[i] = p
	}

	records, err := bibfile.LoadAll(paths)
	if err != nil {
		return nil, fmt.Errorf("front matter bibliography: %w", err)
	}
	return proc.With(htmlcite.WithLibrary(records...))
}

// fileHint returns the hint for a per-file failure, if any.
func fileHint(err error) string {
	switch {
	case errors.Is(err, htmlcite.ErrMissingItemID):
		return hints.ForMissingItemID()
	case errors.Is(err, ErrWriteOutput):
		return hints.ForOutputDirectory()
	default:
		return ""
	}
}

// ResultSummary holds the count of succeeded and failed files.
type ResultSummary struct {
	Succeeded int
	Failed    int
	Warnings  int
}

// countResults tallies succeeded and failed files and their warnings.
func countResults(results []FileResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
		summary.Warnings += len(r.Warnings)
	}
	return summary
}

// printResults outputs per-file results and returns the summary.
// Warnings go to stderr unless quiet.
func printResults(results []FileResult, quiet, verbose bool, stdout, stderr io.Writer) ResultSummary {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(stderr, "FAILED %s: %v%s\n", r.InputPath, r.Err, fileHint(r.Err))
			continue
		}

		if !quiet {
			for _, w := range r.Warnings {
				fmt.Fprintf(stderr, "warning: %s: %s\n", r.InputPath, w)
			}
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(stdout, "\n%d succeeded, %d failed, %d warnings\n", summary.Succeeded, summary.Failed, summary.Warnings)
	}

	return summary
}
