package utils

import "strings"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageRequest is a 0-based page selection with an optional sort key.
type PageRequest struct {
	Page      int
	Size      int
	SortBy    string
	Direction string
}

func (p PageRequest) Normalize() PageRequest {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	} else if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	p.Direction = strings.ToUpper(strings.TrimSpace(p.Direction))
	if p.Direction != "ASC" && p.Direction != "DESC" {
		p.Direction = ""
	}
	return p
}

func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

// OrderBy resolves SortBy against a whitelist of API field -> column and
// returns an ORDER BY expression. Unknown fields yield fallback.
func (p PageRequest) OrderBy(columns map[string]string, fallback string) string {
	col, ok := columns[p.SortBy]
	if !ok {
		return fallback
	}
	dir := p.Direction
	if dir == "" {
		dir = "ASC"
	}
	return col + " " + dir
}

type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Size          int   `json:"size"`
	Number        int   `json:"number"`
}

func NewPage[T any](content []T, total int64, req PageRequest) *Page[T] {
	if content == nil {
		content = []T{}
	}
	pages := 0
	if req.Size > 0 {
		pages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}
	return &Page[T]{
		Content:       content,
		TotalElements: total,
		TotalPages:    pages,
		Size:          req.Size,
		Number:        req.Page,
	}
}

func MapPage[T, U any](p *Page[T], fn func(T) U) *Page[U] {
	out := make([]U, 0, len(p.Content))
	for _, v := range p.Content {
		out = append(out, fn(v))
	}
	return &Page[U]{
		Content:       out,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages,
		Size:          p.Size,
		Number:        p.Number,
	}
}
