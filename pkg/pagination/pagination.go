package pagination

import (
	"net/http"
	"strconv"
)

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 20
	// MaxLimit caps how many rows any page query can request.
	MaxLimit = 100
)

// Params holds page/limit pagination inputs from controllers or services.
type Params struct {
	Page  int
	Limit int
}

// Normalize clamps the inputs to sane values. Page floors at 1, limit falls
// back to DefaultLimit and is capped at MaxLimit.
func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = 1
	}
	p.Limit = NormalizeLimit(p.Limit)
	return p
}

// Offset converts the normalized page/limit pair into a SQL offset.
func (p Params) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.Limit
}

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// FromRequest reads page and limit query parameters, tolerating absent or
// malformed values by falling back to defaults.
func FromRequest(r *http.Request) Params {
	params := Params{}
	if raw := r.URL.Query().Get("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			params.Page = v
		}
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			params.Limit = v
		}
	}
	return params.Normalize()
}

// TotalPages derives the page count for a result set.
func TotalPages(total int64, limit int) int {
	limit = NormalizeLimit(limit)
	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}
	if pages < 1 {
		pages = 1
	}
	return pages
}
