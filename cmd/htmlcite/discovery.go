package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/alnah/go-htmlcite/internal/fileutil"
)

// Sentinel errors for file discovery.
var (
	ErrInvalidExtension   = errors.New("file must have .html, .htm, .md or .markdown extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// MaxWorkers bounds the batch concurrency.
const MaxWorkers = 32

// Supported input extensions.
var (
	htmlExtensions     = []string{".html", ".htm"}
	markdownExtensions = []string{".md", ".markdown"}
)

// outputExtension is the extension of every output file.
const outputExtension = "html"

// FileToProcess represents a single file to process.
type FileToProcess struct {
	InputPath  string
	OutputPath string
}

// isMarkdown reports whether path is a Markdown input.
func isMarkdown(path string) bool {
	return fileutil.HasExtension(path, markdownExtensions...)
}

func isSupportedInput(path string) bool {
	return fileutil.HasExtension(path, htmlExtensions...) || isMarkdown(path)
}

// discoverFiles finds all supported files to process.
// Hidden directories are skipped when walking.
func discoverFiles(inputPath, outputDir string) ([]FileToProcess, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if !isSupportedInput(inputPath) {
			return nil, fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(inputPath))
		}
		outPath, err := resolveOutputPath(inputPath, outputDir, "")
		if err != nil {
			return nil, err
		}
		return []FileToProcess{{InputPath: inputPath, OutputPath: outPath}}, nil
	}

	var files []FileToProcess
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() {
			if path != inputPath && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !isSupportedInput(path) {
			return nil
		}
		outPath, err := resolveOutputPath(path, outputDir, inputPath)
		if err != nil {
			return err
		}
		files = append(files, FileToProcess{InputPath: path, OutputPath: outPath})
		return nil
	})

	return files, err
}

// resolveOutputPath determines the HTML output path for an input file.
// Without an output directory, HTML inputs are rewritten in place and
// Markdown inputs get a sibling .html file.
func resolveOutputPath(inputPath, outputDir, baseInputDir string) (string, error) {
	if outputDir == "" {
		return fileutil.ReplaceExtension(inputPath, outputExtension)
	}

	// A single input may name the output file directly.
	if baseInputDir == "" && fileutil.HasExtension(outputDir, htmlExtensions...) {
		return outputDir, nil
	}

	name, err := fileutil.ReplaceExtension(filepath.Base(inputPath), outputExtension)
	if err != nil {
		return "", err
	}

	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			return filepath.Join(outputDir, filepath.Dir(relPath), name), nil
		}
	}

	return filepath.Join(outputDir, name), nil
}

// resolveWorkers validates the requested worker count and resolves 0 to
// GOMAXPROCS (set from the container quota by automaxprocs), clamped to
// 1..MaxWorkers.
func resolveWorkers(n int) (int, error) {
	if n < 0 {
		return 0, fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > MaxWorkers {
		return 0, fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, MaxWorkers)
	}
	if n > 0 {
		return n, nil
	}
	return min(max(runtime.GOMAXPROCS(0), 1), MaxWorkers), nil
}
