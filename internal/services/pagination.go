package services

import (
	"context"
	"strings"

	"github.com/uptrace/bun"
)

// Pagination bounds.
const (
	DefaultPage = 1
	PerPageMin  = 5
	PerPageMax  = 10
)

// PageRequest carries the list query parameters.
// Zero values mean "not supplied".
type PageRequest struct {
	Query   string
	Page    int
	PerPage int
}

// Normalize applies the defaults and clamps per_page to [PerPageMin, PerPageMax].
func (p PageRequest) Normalize() PageRequest {
	p.Query = strings.TrimSpace(p.Query)
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	switch {
	case p.PerPage == 0:
		p.PerPage = PerPageMax
	case p.PerPage < PerPageMin:
		p.PerPage = PerPageMin
	case p.PerPage > PerPageMax:
		p.PerPage = PerPageMax
	}
	return p
}

// IsSearch reports whether a search term was supplied.
func (p PageRequest) IsSearch() bool {
	return p.Query != ""
}

// ListResult is one page of items, or the full set of search matches.
type ListResult[T any] struct {
	Items  []T
	Search bool
	Page   int
	Pages  int
	Total  int
}

// likePattern builds a case-insensitive substring pattern, escaping LIKE
// wildcards in term. Use with ESCAPE '\'.
func likePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(term)) + "%"
}

// searchOrPage runs q either as a search on column or as a paginated listing.
// q must already have its model and scope set.
func searchOrPage[T any](ctx context.Context, q *bun.SelectQuery, items *[]T, column string, req PageRequest) (ListResult[T], error) {
	req = req.Normalize()

	if req.IsSearch() {
		q = q.Where("lower(?) LIKE ? ESCAPE '\\'", bun.Ident(column), likePattern(req.Query))
		if err := q.Scan(ctx); err != nil {
			return ListResult[T]{}, err
		}
		return ListResult[T]{Items: nonNil(*items), Search: true, Page: 1, Pages: 1, Total: len(*items)}, nil
	}

	total, err := q.Limit(req.PerPage).Offset((req.Page - 1) * req.PerPage).ScanAndCount(ctx)
	if err != nil {
		return ListResult[T]{}, err
	}
	return ListResult[T]{
		Items: nonNil(*items),
		Page:  req.Page,
		Pages: (total + req.PerPage - 1) / req.PerPage,
		Total: total,
	}, nil
}

// nonNil keeps empty results encoding as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
