package main

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Environment and fixtures
// ---------------------------------------------------------------------------

// testEnv returns an Environment with captured output and the given variables.
func testEnv(vars map[string]string) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	env := &Environment{
		Stdout: &stdout,
		Stderr: &stderr,
		Getenv: func(k string) string { return vars[k] },
		Environ: func() []string {
			out := make([]string, 0, len(vars))
			for k, v := range vars {
				out = append(out, k+"="+v)
			}
			return out
		},
		SetMaxProcs: func(func(string, ...any)) {},
	}
	return env, &stdout, &stderr
}

// smithRecord is a CSL-JSON book record.
func smithRecord() map[string]any {
	return map[string]any{
		"id":              "smith2020",
		"type":            "book",
		"title":           "Citing Things: A Guide",
		"author":          []map[string]any{{"family": "Smith", "given": "John"}},
		"issued":          map[string]any{"date-parts": [][]int{{2020}}},
		"publisher":       "Acme",
		"publisher-place": "London",
	}
}

// citationSpan builds a citation marker. A nil rec cites id without data.
func citationSpan(t *testing.T, id, plain string, rec map[string]any) string {
	t.Helper()
	item := map[string]any{"id": id}
	if rec != nil {
		item["itemData"] = rec
	}
	payload := map[string]any{
		"citationID":    "c-" + id,
		"citationItems": []map[string]any{item},
		"properties":    map[string]any{"plainCitation": plain, "noteIndex": 0},
	}
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return fmt.Sprintf(`<span class="citation" data-src="data:application/json;base64,%s">%s</span>`,
		base64.StdEncoding.EncodeToString(data), plain)
}

func citedPage(t *testing.T) string {
	t.Helper()
	return "<html><head><title>Doc</title></head><body><p>As shown " +
		citationSpan(t, "smith2020", "(Smith, 2020)", smithRecord()) +
		".</p></body></html>"
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func writeLibrary(t *testing.T, dir string) string {
	t.Helper()
	data, err := json.Marshal([]map[string]any{smithRecord()})
	if err != nil {
		t.Fatalf("marshal library: %v", err)
	}
	return writeFile(t, filepath.Join(dir, "library.json"), string(data))
}
