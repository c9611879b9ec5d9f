package model

import "fmt"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type Page struct {
	Page int
	Size int
}

// NewPage проверяет параметры пагинации. Нули заменяются значениями по умолчанию.
func NewPage(page, size int) (Page, error) {
	if page == 0 {
		page = 1
	}
	if size == 0 {
		size = DefaultPageSize
	}
	if page < 1 {
		return Page{}, ErrInvalidPage
	}
	if size < 1 || size > MaxPageSize {
		return Page{}, NewValidationError(fmt.Sprintf("size must be between 1 and %d", MaxPageSize))
	}
	return Page{Page: page, Size: size}, nil
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.Size
}

func (p Page) Limit() int {
	return p.Size
}

type PageResult[T any] struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Size  int   `json:"size"`
	Pages int   `json:"pages"`
	Items []T   `json:"items"`
}

func NewPageResult[T any](items []T, total int64, p Page) PageResult[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if p.Size > 0 {
		pages = int((total + int64(p.Size) - 1) / int64(p.Size))
	}
	return PageResult[T]{
		Total: total,
		Page:  p.Page,
		Size:  p.Size,
		Pages: pages,
		Items: items,
	}
}
