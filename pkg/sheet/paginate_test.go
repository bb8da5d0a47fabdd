package sheet

import (
	"reflect"
	"testing"
)

func names(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = string(rune('a' + i))
	}
	return out
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		perPage  int
		wantLens []int
	}{
		{"empty", 0, 8, nil},
		{"one partial page", 3, 8, []int{3}},
		{"exact multiple", 16, 8, []int{8, 8}},
		{"one over", 9, 8, []int{8, 1}},
		{"ten by eight", 10, 8, []int{8, 2}},
		{"per page one", 3, 1, []int{1, 1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := names(tt.n)
			chunks := Paginate(items, tt.perPage)
			if len(chunks) != len(tt.wantLens) {
				t.Fatalf("Paginate(%d, %d) = %d chunks, want %d", tt.n, tt.perPage, len(chunks), len(tt.wantLens))
			}
			var flat []string
			for i, c := range chunks {
				if len(c) != tt.wantLens[i] {
					t.Errorf("chunk %d has %d items, want %d", i, len(c), tt.wantLens[i])
				}
				flat = append(flat, c...)
			}
			if tt.n > 0 && !reflect.DeepEqual(flat, items) {
				t.Errorf("concatenated chunks = %v, want input order %v", flat, items)
			}
		})
	}
}

func TestPaginateBadPerPage(t *testing.T) {
	if got := Paginate(names(5), 0); got != nil {
		t.Errorf("Paginate(_, 0) = %v, want nil", got)
	}
}
