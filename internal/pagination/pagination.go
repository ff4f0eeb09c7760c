// Package pagination computes page windows and the listing envelope.
package pagination

import (
	"math"
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Params is a validated page request.
type Params struct {
	Page  int
	Limit int
}

// Parse reads raw page and limit query values. Absent or non-numeric values
// take the defaults; a page below 1 becomes 1, a limit below 1 becomes the
// default and a limit above MaxLimit is clamped. page is capped so Skip
// cannot overflow.
func Parse(page, limit string) Params {
	p := atoiOr(page, DefaultPage)
	if p < 1 {
		p = 1
	}
	l := atoiOr(limit, DefaultLimit)
	if l < 1 {
		l = DefaultLimit
	}
	if l > MaxLimit {
		l = MaxLimit
	}
	if p > math.MaxInt/l {
		p = math.MaxInt / l
	}
	return Params{Page: p, Limit: l}
}

// Skip is the number of items before the requested page.
func (p Params) Skip() int {
	return (p.Page - 1) * p.Limit
}

// Meta is the pagination block of a listing response.
type Meta struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalItems  int64 `json:"totalPosts"`
	HasNext     bool  `json:"hasNext"`
	HasPrev     bool  `json:"hasPrev"`
}

// NewMeta builds the envelope for page p of a collection of total items.
func NewMeta(p Params, total int64) Meta {
	limit := int64(p.Limit)
	if limit < 1 {
		limit = DefaultLimit
	}
	totalPages := int((total + limit - 1) / limit)
	return Meta{
		CurrentPage: p.Page,
		TotalPages:  totalPages,
		TotalItems:  total,
		HasNext:     p.Page < totalPages,
		HasPrev:     p.Page > 1,
	}
}

func atoiOr(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}
