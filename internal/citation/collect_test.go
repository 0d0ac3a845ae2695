package citation

import (
	"errors"
	"strings"
	"testing"
)

func TestCollect(t *testing.T) {
	t.Parallel()

	t.Run("keeps group and item order with duplicates", func(t *testing.T) {
		t.Parallel()

		groups := []Group{
			{ID: "c1", Items: []Item{
				{ID: NewItemID("a"), Data: Record{"id": "a"}},
				{ID: NewItemID("b"), Data: Record{"id": "b"}},
			}},
			{ID: "c2", Items: []Item{
				{ID: NewItemID("a"), Data: Record{"id": "a"}},
				{ID: NewItemID("ext")}, // reference-only
			}},
		}

		pool, err := Collect(groups)
		if err != nil {
			t.Fatalf("Collect() unexpected error: %v", err)
		}
		var keys []string
		for _, r := range pool {
			k, _ := r.Key()
			keys = append(keys, k)
		}
		if got := strings.Join(keys, ","); got != "a,b,a" {
			t.Errorf("pool keys = %q, want %q", got, "a,b,a")
		}
	})

	t.Run("record without id is fatal", func(t *testing.T) {
		t.Parallel()

		groups := []Group{
			{ID: "c1", Items: []Item{{ID: NewItemID("a"), Data: Record{"id": "a"}}}},
			{ID: "c2", Items: []Item{{ID: NewItemID("b"), Data: Record{"title": "No id"}}}},
		}

		_, err := Collect(groups)
		if !errors.Is(err, ErrMissingItemID) {
			t.Fatalf("Collect() error = %v, want ErrMissingItemID", err)
		}
		if !strings.Contains(err.Error(), `"c2"`) {
			t.Errorf("error %q does not name the citation", err)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()

		pool, err := Collect(nil)
		if err != nil || len(pool) != 0 {
			t.Errorf("Collect(nil) = %v, %v", pool, err)
		}
	})
}

func TestRecord_Key(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		record Record
		want   string
		wantOK bool
	}{
		{name: "string", record: Record{"id": "smith2020"}, want: "smith2020", wantOK: true},
		{name: "float", record: Record{"id": float64(7)}, want: "7", wantOK: true},
		{name: "int", record: Record{"id": 12}, want: "12", wantOK: true},
		{name: "empty string", record: Record{"id": ""}},
		{name: "absent", record: Record{"title": "x"}},
		{name: "wrong type", record: Record{"id": []any{"a"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := tt.record.Key()
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Key() = %q, %v, want %q, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
