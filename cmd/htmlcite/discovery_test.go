package main

// Notes:
// - discoverFiles: we test single files, directory walks, hidden directories
//   and unsupported extensions on temp trees.
// - resolveOutputPath: in place, output file, mirrored directories.
// - resolveWorkers: bounds and the auto value.
// These are acceptable gaps: permission errors during walks are not simulated.

import (
	"errors"
	"path/filepath"
	"runtime"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// ---------------------------------------------------------------------------
// TestDiscoverFiles - Input discovery
// ---------------------------------------------------------------------------

func TestDiscoverFiles(t *testing.T) {
	t.Parallel()

	t.Run("single file", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		in := writeFile(t, filepath.Join(dir, "a.md"), "# a")
		got, err := discoverFiles(in, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []FileToProcess{{InputPath: in, OutputPath: filepath.Join(dir, "a.html")}}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("unsupported single file", func(t *testing.T) {
		t.Parallel()
		in := writeFile(t, filepath.Join(t.TempDir(), "a.txt"), "x")
		if _, err := discoverFiles(in, ""); !errors.Is(err, ErrInvalidExtension) {
			t.Errorf("error = %v, want ErrInvalidExtension", err)
		}
	})

	t.Run("directory walk", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "a.html"), "<p>a</p>")
		writeFile(t, filepath.Join(dir, "sub", "b.markdown"), "# b")
		writeFile(t, filepath.Join(dir, "sub", "notes.txt"), "skip")
		writeFile(t, filepath.Join(dir, ".git", "c.html"), "hidden")
		out := filepath.Join(dir, "out")

		got, err := discoverFiles(dir, out)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		sort.Slice(got, func(i, j int) bool { return got[i].InputPath < got[j].InputPath })
		want := []FileToProcess{
			{InputPath: filepath.Join(dir, "a.html"), OutputPath: filepath.Join(out, "a.html")},
			{InputPath: filepath.Join(dir, "sub", "b.markdown"), OutputPath: filepath.Join(out, "sub", "b.html")},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("missing path", func(t *testing.T) {
		t.Parallel()
		if _, err := discoverFiles(filepath.Join(t.TempDir(), "nope"), ""); err == nil {
			t.Error("expected error for missing path")
		}
	})
}

// ---------------------------------------------------------------------------
// TestResolveOutputPath - Output placement
// ---------------------------------------------------------------------------

func TestResolveOutputPath(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		input   string
		outDir  string
		baseDir string
		want    string
	}{
		{"html in place", "/docs/a.html", "", "", "/docs/a.html"},
		{"htm becomes html", "/docs/a.htm", "", "", "/docs/a.html"},
		{"markdown sibling", "/docs/a.md", "", "", "/docs/a.html"},
		{"explicit output file", "/docs/a.md", "/out/report.html", "", "/out/report.html"},
		{"single file into dir", "/docs/a.md", "/out", "", "/out/a.html"},
		{"mirrored tree", "/docs/x/y/a.md", "/out", "/docs", "/out/x/y/a.html"},
		{"html dir name in batch", "/docs/a.md", "/site.html", "/docs", "/site.html/a.html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := resolveOutputPath(filepath.FromSlash(tt.input), filepath.FromSlash(tt.outDir), filepath.FromSlash(tt.baseDir))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if want := filepath.FromSlash(tt.want); got != want {
				t.Errorf("resolveOutputPath() = %q, want %q", got, want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestResolveWorkers - Concurrency bounds
// ---------------------------------------------------------------------------

func TestResolveWorkers(t *testing.T) {
	t.Parallel()

	auto := min(max(runtime.GOMAXPROCS(0), 1), MaxWorkers)
	tests := []struct {
		name    string
		n       int
		want    int
		wantErr bool
	}{
		{"auto", 0, auto, false},
		{"explicit", 4, 4, false},
		{"maximum", MaxWorkers, MaxWorkers, false},
		{"negative", -1, 0, true},
		{"too many", MaxWorkers + 1, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := resolveWorkers(tt.n)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidWorkerCount) {
					t.Errorf("error = %v, want ErrInvalidWorkerCount", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("resolveWorkers(%d) = %d, want %d", tt.n, got, tt.want)
			}
		})
	}
}
