package pagination

import (
	"net/http/httptest"
	"testing"
)

func TestNormalizeLimit(t *testing.T) {
	if got := NormalizeLimit(0); got != DefaultLimit {
		t.Fatalf("expected default limit, got %d", got)
	}
	if got := NormalizeLimit(-5); got != DefaultLimit {
		t.Fatalf("expected default limit for negative input, got %d", got)
	}
	if got := NormalizeLimit(1000); got != MaxLimit {
		t.Fatalf("expected max limit cap, got %d", got)
	}
	if got := NormalizeLimit(42); got != 42 {
		t.Fatalf("expected pass-through, got %d", got)
	}
}

func TestParamsOffset(t *testing.T) {
	cases := []struct {
		name   string
		params Params
		want   int
	}{
		{"first page", Params{Page: 1, Limit: 20}, 0},
		{"third page", Params{Page: 3, Limit: 10}, 20},
		{"zero page floors to one", Params{Page: 0, Limit: 10}, 0},
		{"zero limit uses default", Params{Page: 2}, DefaultLimit},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.params.Offset(); got != tc.want {
				t.Fatalf("expected offset %d, got %d", tc.want, got)
			}
		})
	}
}

func TestFromRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/products?page=2&limit=5", nil)
	params := FromRequest(r)
	if params.Page != 2 || params.Limit != 5 {
		t.Fatalf("unexpected params %+v", params)
	}

	r = httptest.NewRequest("GET", "/api/products?page=abc&limit=-1", nil)
	params = FromRequest(r)
	if params.Page != 1 || params.Limit != DefaultLimit {
		t.Fatalf("expected defaults for malformed query, got %+v", params)
	}
}

func TestTotalPages(t *testing.T) {
	if got := TotalPages(0, 20); got != 1 {
		t.Fatalf("expected at least one page, got %d", got)
	}
	if got := TotalPages(41, 20); got != 3 {
		t.Fatalf("expected 3 pages, got %d", got)
	}
	if got := TotalPages(40, 20); got != 2 {
		t.Fatalf("expected 2 pages, got %d", got)
	}
}
