package listing

import (
	"strings"

	"product-catalog-admin/internal/domain"
)

// Filter returns the products whose name contains term, ignoring case.
// An empty term matches everything. The input is never modified.
func Filter(products []domain.Product, term string) []domain.Product {
	needle := strings.ToLower(term)
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), needle) {
			out = append(out, p)
		}
	}
	return out
}

// TotalPages is ceil(n/perPage). It is 0 for an empty sequence.
func TotalPages(n, perPage int) int {
	if n <= 0 || perPage <= 0 {
		return 0
	}
	return (n + perPage - 1) / perPage
}

// Paginate returns page p (1-indexed) of items, clipped to the sequence
// length. Pages past the end are empty.
func Paginate(items []domain.Product, page, perPage int) []domain.Product {
	if page < 1 || perPage <= 0 {
		return []domain.Product{}
	}
	start := (page - 1) * perPage
	if start >= len(items) {
		return []domain.Product{}
	}
	end := min(start+perPage, len(items))
	out := make([]domain.Product, end-start)
	copy(out, items[start:end])
	return out
}

// maxPageLinks is how many page numbers the pagination control shows.
const maxPageLinks = 5

// PageWindow returns the page numbers to show in the pagination control: at
// most five, sliding so the current page stays centred once it is away from
// either end.
func PageWindow(current, total int) []int {
	if total <= 1 {
		return nil
	}
	n := min(maxPageLinks, total)
	var first int
	switch {
	case total <= maxPageLinks, current <= 3:
		first = 1
	case current >= total-2:
		first = total - maxPageLinks + 1
	default:
		first = current - 2
	}
	pages := make([]int, n)
	for i := range pages {
		pages[i] = first + i
	}
	return pages
}

// clampPage keeps page inside [1, max(total, 1)].
func clampPage(page, total int) int {
	if total < 1 {
		total = 1
	}
	return max(1, min(page, total))
}
