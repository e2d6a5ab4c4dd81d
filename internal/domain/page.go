package domain

// PaginationParams carries page/limit values from the HTTP layer to the repo layer.
// Page is 1-indexed. Limit is capped at 100 and Page at MaxPage by
// NewPaginationParams.
type PaginationParams struct {
	Page  int
	Limit int
}

// MaxPage bounds the page number so Offset cannot overflow.
const MaxPage = 1_000_000

// NewPaginationParams builds a PaginationParams from optional query values.
// Nil pointers fall back to page=1, limit=20; the limit is capped at 100.
func NewPaginationParams(page, limit *int) PaginationParams {
	p := PaginationParams{Page: 1, Limit: 20}
	if page != nil && *page >= 1 {
		p.Page = min(*page, MaxPage)
	}
	if limit != nil && *limit >= 1 {
		p.Limit = min(*limit, 100)
	}
	return p
}

// clamped pulls hand-built params back inside the constructor's bounds.
func (p PaginationParams) clamped() PaginationParams {
	return PaginationParams{
		Page:  max(1, min(p.Page, MaxPage)),
		Limit: max(0, min(p.Limit, 100)),
	}
}

// Offset returns the zero-based row offset for a SQL OFFSET clause.
func (p PaginationParams) Offset() int {
	c := p.clamped()
	return (c.Page - 1) * c.Limit
}

// Window returns the [start, end) bounds of the page within n items.
// Used by stores that paginate in memory.
func (p PaginationParams) Window(n int) (int, int) {
	start := min(p.Offset(), n)
	end := min(start+p.clamped().Limit, n)
	return start, end
}

// Page is one page of a listing plus the total number of matching items.
type Page[T any] struct {
	Items []T
	Total int64
}
