// Package pagination implements page-based slicing for list endpoints,
// currently the transaction history. Pages are 1-indexed and capped so a
// single request cannot pull an unbounded ledger slice.
package pagination

import (
	"math"

	"gorm.io/gorm"
)

const (
	// DefaultPageSize is applied when the client omits page_size.
	DefaultPageSize = 20
	// MaxPageSize caps page_size; the binding tag below enforces it.
	MaxPageSize = 100
)

// PageRequest is bound from the page/page_size query parameters.
type PageRequest struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// Defaults replaces omitted parameters with the first page at the
// default size.
func (p *PageRequest) Defaults() {
	if p.Page == 0 {
		p.Page = 1
	}
	if p.PageSize == 0 {
		p.PageSize = DefaultPageSize
	}
}

// Offset returns the number of rows to skip for the requested page.
func (p *PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// PageResponse is the envelope list endpoints return: one page of rows
// plus the metadata a client needs to page through the rest.
type PageResponse[T any] struct {
	Data       []T   `json:"data"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// NewPageResponse assembles the envelope. A nil row slice is normalized
// to an empty one so the JSON "data" field is always an array.
func NewPageResponse[T any](data []T, page, pageSize int, totalItems int64) PageResponse[T] {
	totalPages := int(math.Ceil(float64(totalItems) / float64(pageSize)))
	if data == nil {
		data = []T{}
	}
	return PageResponse[T]{
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}
}

// Paginate is a GORM scope applying the request's OFFSET and LIMIT.
// Chain it after every filter so the total count query can reuse the
// unscoped query.
func Paginate(req PageRequest) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(req.Offset()).Limit(req.PageSize)
	}
}
