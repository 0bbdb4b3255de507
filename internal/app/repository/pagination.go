package repository

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page is a normalized 1-based page request
type Page struct {
	Page  int
	Limit int
}

// NewPage clamps page to >= 1 and limit to (0, MaxPageSize], defaulting to fallback
func NewPage(page, limit, fallback int) Page {
	if fallback <= 0 {
		fallback = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = fallback
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return Page{Page: page, Limit: limit}
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}
