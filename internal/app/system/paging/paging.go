// internal/app/system/paging/paging.go
//
// Package paging parses page/limit request parameters into the skip/limit
// pair consumed by the pipeline assembler. The list endpoints use offset
// pagination because callers ask for arbitrary page numbers alongside a
// faceted total count.
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// DefaultLimit is the page size used when the caller supplies none.
const DefaultLimit = 25

// MaxLimit caps the page size a caller may request.
const MaxLimit = 100

// Page is a parsed pagination request. PageNum is 1-based.
type Page struct {
	PageNum int
	Limit   int
}

// Parse reads "page" and "limit" query parameters, clamping both to sane
// bounds. Invalid or missing values fall back to page 1 / DefaultLimit.
func Parse(r *http.Request) Page {
	p := Page{PageNum: 1, Limit: DefaultLimit}

	if s := query.Get(r, "page"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 1 {
			p.PageNum = n
		}
	}
	if s := query.Get(r, "limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 1 {
			p.Limit = n
		}
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// Skip returns the number of documents to skip before this page.
func (p Page) Skip() int64 {
	return int64(p.PageNum-1) * int64(p.Limit)
}

// Limit64 returns the limit as int64 for Mongo stage values.
func (p Page) Limit64() int64 {
	return int64(p.Limit)
}
