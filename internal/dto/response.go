package dto

// PaginatorInfo describes a page of a larger result set. Count is the number
// of items in the current page; Total is the grand total for the filter and
// does not depend on page or perPage.
type PaginatorInfo struct {
	Total   int64 `json:"total"`
	Count   int   `json:"count"`
	Page    int   `json:"page"`
	PerPage int   `json:"perPage"`
}

// PaginatedResult is the envelope returned by every list operation.
type PaginatedResult[T any] struct {
	Data          []T           `json:"data"`
	PaginatorInfo PaginatorInfo `json:"paginatorInfo"`
}

// NewPaginatedResult fills the paginator block from the slice and totals.
func NewPaginatedResult[T any](data []T, total int64, page, perPage int) PaginatedResult[T] {
	if data == nil {
		data = []T{}
	}
	return PaginatedResult[T]{
		Data: data,
		PaginatorInfo: PaginatorInfo{
			Total:   total,
			Count:   len(data),
			Page:    page,
			PerPage: perPage,
		},
	}
}

// MutationResult is the soft-failure envelope for mutations. Business-rule
// violations (validation, duplicates) come back as Success=false with a
// per-field error map instead of an error return.
type MutationResult[T any] struct {
	Success bool              `json:"success"`
	Result  T                 `json:"result,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// PaginationRequest is the shared page/perPage query binding.
type PaginationRequest struct {
	Page    int `form:"page"`
	PerPage int `form:"perPage"`
}

// GetPage returns the requested page, defaulting to 1.
func (r *PaginationRequest) GetPage() int {
	if r.Page < 1 {
		return 1
	}
	return r.Page
}

// GetPerPage returns the requested page size, defaulting to 10, capped at 100.
func (r *PaginationRequest) GetPerPage() int {
	if r.PerPage < 1 {
		return 10
	}
	if r.PerPage > 100 {
		return 100
	}
	return r.PerPage
}
