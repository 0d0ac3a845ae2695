package main

// Notes:
// - processBatch: we test parallel processing, per-file failures that do not
//   stop the batch, cancellation and front matter bibliographies.
// - printResults: we test quiet, verbose and summary output.
// These are acceptable gaps: write failures are covered through exit codes.

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-htmlcite"
)

func newTestProcessor(t *testing.T, opts ...htmlcite.Option) *htmlcite.Processor {
	t.Helper()
	p, err := htmlcite.New(opts...)
	if err != nil {
		t.Fatalf("htmlcite.New: %v", err)
	}
	return p
}

// ---------------------------------------------------------------------------
// TestProcessBatch - Worker group
// ---------------------------------------------------------------------------

func TestProcessBatch(t *testing.T) {
	t.Parallel()

	t.Run("processes all files", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		var files []FileToProcess
		for i := range 5 {
			in := writeFile(t, filepath.Join(dir, fmt.Sprintf("doc%d.html", i)), citedPage(t))
			files = append(files, FileToProcess{InputPath: in, OutputPath: filepath.Join(dir, "out", filepath.Base(in))})
		}

		results := processBatch(context.Background(), newTestProcessor(t), files, 2, zap.NewNop())
		if len(results) != len(files) {
			t.Fatalf("got %d results, want %d", len(results), len(files))
		}
		for i, r := range results {
			if r.Err != nil {
				t.Errorf("file %d: unexpected error: %v", i, r.Err)
				continue
			}
			if r.InputPath != files[i].InputPath {
				t.Errorf("result %d out of order: %s", i, r.InputPath)
			}
			if got := readFile(t, r.OutputPath); !strings.Contains(got, "(Smith 2020)") {
				t.Errorf("file %d: missing citation", i)
			}
		}
	})

	t.Run("failure does not stop others", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		good := writeFile(t, filepath.Join(dir, "good.html"), citedPage(t))
		files := []FileToProcess{
			{InputPath: filepath.Join(dir, "missing.html"), OutputPath: filepath.Join(dir, "missing.out.html")},
			{InputPath: good, OutputPath: good},
		}

		results := processBatch(context.Background(), newTestProcessor(t), files, 1, zap.NewNop())
		if !errors.Is(results[0].Err, ErrReadInput) {
			t.Errorf("results[0].Err = %v, want ErrReadInput", results[0].Err)
		}
		if results[1].Err != nil {
			t.Errorf("results[1].Err = %v, want nil", results[1].Err)
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		in := writeFile(t, filepath.Join(dir, "doc.html"), citedPage(t))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		results := processBatch(ctx, newTestProcessor(t), []FileToProcess{{InputPath: in, OutputPath: in}}, 1, zap.NewNop())
		if !errors.Is(results[0].Err, context.Canceled) {
			t.Errorf("Err = %v, want context.Canceled", results[0].Err)
		}
	})

	t.Run("front matter bibliography", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeLibrary(t, dir)
		md := "---\nbibliography: library.json\n---\nSee " + citationSpan(t, "smith2020", "(Smith)", nil) + ".\n"
		in := writeFile(t, filepath.Join(dir, "doc.md"), md)
		out := filepath.Join(dir, "doc.html")

		results := processBatch(context.Background(), newTestProcessor(t), []FileToProcess{{InputPath: in, OutputPath: out}}, 1, zap.NewNop())
		if results[0].Err != nil {
			t.Fatalf("unexpected error: %v", results[0].Err)
		}
		if len(results[0].Warnings) != 0 {
			t.Errorf("warnings = %v, want none", results[0].Warnings)
		}
		if got := readFile(t, out); !strings.Contains(got, "(Smith 2020)") {
			t.Errorf("output missing resolved citation:\n%s", got)
		}
	})

	t.Run("front matter bibliography missing", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		in := writeFile(t, filepath.Join(dir, "doc.md"), "---\nbibliography: nope.json\n---\n# x\n")

		results := processBatch(context.Background(), newTestProcessor(t), []FileToProcess{{InputPath: in, OutputPath: in + ".html"}}, 1, zap.NewNop())
		if results[0].Err == nil || !strings.Contains(results[0].Err.Error(), "front matter bibliography") {
			t.Errorf("Err = %v, want front matter bibliography error", results[0].Err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestPrintResults - Result output
// ---------------------------------------------------------------------------

func TestPrintResults(t *testing.T) {
	t.Parallel()

	results := []FileResult{
		{InputPath: "a.md", OutputPath: "a.html", Duration: 12 * time.Millisecond},
		{InputPath: "b.html", OutputPath: "b.html", Warnings: []htmlcite.Warning{
			{Kind: htmlcite.WarnMissingKey, Marker: 1, CitationID: "c1", Key: "ghost", Message: `key "ghost" not found`},
		}},
		{InputPath: "c.md", Err: errors.New("boom")},
	}

	t.Run("default", func(t *testing.T) {
		t.Parallel()
		var stdout, stderr bytes.Buffer
		summary := printResults(results, false, false, &stdout, &stderr)

		if summary != (ResultSummary{Succeeded: 2, Failed: 1, Warnings: 1}) {
			t.Errorf("summary = %+v", summary)
		}
		for _, want := range []string{"Created a.html", "Created b.html", "2 succeeded, 1 failed, 1 warnings"} {
			if !strings.Contains(stdout.String(), want) {
				t.Errorf("stdout missing %q:\n%s", want, stdout.String())
			}
		}
		for _, want := range []string{"FAILED c.md: boom", "warning: b.html: missing-key (marker 1) [c1]"} {
			if !strings.Contains(stderr.String(), want) {
				t.Errorf("stderr missing %q:\n%s", want, stderr.String())
			}
		}
	})

	t.Run("quiet", func(t *testing.T) {
		t.Parallel()
		var stdout, stderr bytes.Buffer
		printResults(results, true, false, &stdout, &stderr)
		if stdout.Len() != 0 {
			t.Errorf("stdout = %q, want empty", stdout.String())
		}
		if got := stderr.String(); got != "FAILED c.md: boom\n" {
			t.Errorf("stderr = %q, want only failures", got)
		}
	})

	t.Run("verbose", func(t *testing.T) {
		t.Parallel()
		var stdout, stderr bytes.Buffer
		printResults(results[:1], false, true, &stdout, &stderr)
		if got, want := stdout.String(), "a.md -> a.html (12ms)\n"; got != want {
			t.Errorf("stdout = %q, want %q", got, want)
		}
	})
}

// ---------------------------------------------------------------------------
// TestFileHint - Per-file hints
// ---------------------------------------------------------------------------

func TestFileHint(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"missing item id", fmt.Errorf("group 1: %w", htmlcite.ErrMissingItemID), "itemData"},
		{"write output", fmt.Errorf("%w: denied", ErrWriteOutput), "writable"},
		{"other", errors.New("boom"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := fileHint(tt.err)
			if tt.want == "" {
				if got != "" {
					t.Errorf("fileHint() = %q, want empty", got)
				}
				return
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("fileHint() = %q, want it to mention %q", got, tt.want)
			}
		})
	}
}
