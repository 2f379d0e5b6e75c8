package service

import (
	"strings"

	"github.com/happythoughts/thoughts-api/internal/core/ports"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// sortableFields is the closed allow-list of fields the API may sort by.
// Anything else falls back to the default sort rather than erroring.
var sortableFields = map[string]struct{}{
	"createdAt": {},
	"updatedAt": {},
	"hearts":    {},
}

// defaultSort is newest-first by creation time.
var defaultSort = ports.SortSpec{Field: "createdAt", Desc: true}

// clampPage normalizes a 1-indexed page number. Zero and negatives become 1.
func clampPage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// clampLimit bounds the page size to [1, maxLimit]. Zero and negatives take
// the default.
func clampLimit(limit int) int {
	if limit < 1 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

// parseSort interprets a sort parameter. A "-" prefix reverses direction.
// Unknown fields and empty input fall back to the default sort.
func parseSort(s string) ports.SortSpec {
	s = strings.TrimSpace(s)
	if s == "" {
		return defaultSort
	}

	desc := false
	if strings.HasPrefix(s, "-") {
		desc = true
		s = s[1:]
	}

	if _, ok := sortableFields[s]; !ok {
		return defaultSort
	}
	return ports.SortSpec{Field: s, Desc: desc}
}

// totalPages returns ceil(total/limit), with a minimum of 0 pages.
func totalPages(total int64, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}
	return int(pages)
}

// buildPagination assembles the page metadata returned with every list.
func buildPagination(page, limit int, total int64) ports.Pagination {
	pages := totalPages(total, limit)
	return ports.Pagination{
		Page:        page,
		Limit:       limit,
		TotalCount:  total,
		TotalPages:  pages,
		HasNextPage: page < pages,
		HasPrevPage: page > 1 && total > 0,
	}
}
