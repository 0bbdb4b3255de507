package service

import "github.com/mithunreddyy/valuva-sub002/internal/app/repository"

// PageResult is one page of a listing together with the unpaged total
type PageResult[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

func newPageResult[T any](items []T, total int64, page repository.Page) *PageResult[T] {
	if items == nil {
		items = []T{}
	}
	return &PageResult[T]{Items: items, Total: total, Page: page.Page, Limit: page.Limit}
}
