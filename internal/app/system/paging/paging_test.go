// internal/app/system/paging/paging_test.go
package paging_test

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/admitflow/internal/app/system/paging"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		wantPage int
		wantLim  int
	}{
		{"defaults", "/list", 1, paging.DefaultLimit},
		{"explicit", "/list?page=3&limit=50", 3, 50},
		{"limit clamped", "/list?limit=5000", 1, paging.MaxLimit},
		{"zero page falls back", "/list?page=0", 1, paging.DefaultLimit},
		{"negative limit falls back", "/list?limit=-5", 1, paging.DefaultLimit},
		{"garbage falls back", "/list?page=abc&limit=xyz", 1, paging.DefaultLimit},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tc.target, nil)
			p := paging.Parse(r)
			if p.PageNum != tc.wantPage || p.Limit != tc.wantLim {
				t.Errorf("got page=%d limit=%d, want page=%d limit=%d", p.PageNum, p.Limit, tc.wantPage, tc.wantLim)
			}
		})
	}
}

func TestSkip(t *testing.T) {
	p := paging.Page{PageNum: 3, Limit: 25}
	if got := p.Skip(); got != 50 {
		t.Errorf("Skip: got %d, want 50", got)
	}
	if got := p.Limit64(); got != 25 {
		t.Errorf("Limit64: got %d, want 25", got)
	}

	first := paging.Page{PageNum: 1, Limit: 25}
	if got := first.Skip(); got != 0 {
		t.Errorf("first page Skip: got %d, want 0", got)
	}
}
