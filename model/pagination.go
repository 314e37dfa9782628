package model

const DefaultPageSize = 10

// PageResponse is a single page as served by the backend. Number is the
// zero-based page index the backend reports.
type PageResponse[T any] struct {
	Content       []T `json:"content"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
	Size          int `json:"size"`
	Number        int `json:"number"`
}

// Pagination is the 1-indexed page request.
type Pagination struct {
	Page int `query:"page"`
	Size int `query:"size"`
}

func (p *Pagination) AssignDefault() {
	if p.Page == 0 {
		p.Page = 1
	}
	if p.Size == 0 {
		p.Size = DefaultPageSize
	}
}
