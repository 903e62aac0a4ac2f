package models

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 50
)

// PageRequest is a 1-based page number and a page size.
type PageRequest struct {
	Page  int
	Limit int
}

// NewPageRequest clamps page to at least 1 and limit to (0, MaxPageLimit],
// using DefaultPageLimit when limit is not positive.
func NewPageRequest(page, limit int) PageRequest {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return PageRequest{Page: page, Limit: limit}
}

func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Page is a paged listing. The page number is sent as a JSON string.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page,string"`
	TotalPages int `json:"totalPages"`
}

// NewPage builds a Page from one page of items and the total row count.
// Items is never nil so it encodes as [].
func NewPage[T any](items []T, req PageRequest, total int) Page[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if req.Limit > 0 {
		pages = (total + req.Limit - 1) / req.Limit
	}
	return Page[T]{Items: items, Page: req.Page, TotalPages: pages}
}
