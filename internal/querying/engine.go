package querying

import (
	"cmp"
	"slices"
	"strings"

	"github.com/Aglena/books-history-api/internal/domain"
)

// Filter returns the items matching every predicate, preserving order.
func Filter[T any](items []T, predicates ...func(T) bool) []T {
	result := make([]T, 0, len(items))
outer:
	for _, item := range items {
		for _, match := range predicates {
			if !match(item) {
				continue outer
			}
		}
		result = append(result, item)
	}
	return result
}

// Sort orders items by a primary comparator with a mandatory identity
// tie-break in the same direction. The identity tie-break makes the order
// total and stable regardless of duplicate primary-key values.
func Sort[T any](items []T, primary func(a, b T) int, identity func(T) int64, asc bool) {
	slices.SortFunc(items, func(a, b T) int {
		c := primary(a, b)
		if c == 0 {
			c = cmp.Compare(identity(a), identity(b))
		}
		if !asc {
			c = -c
		}
		return c
	})
}

// Paginate applies 1-indexed skip/take pagination. Pages past the end of
// the sequence yield an empty slice, not an error.
func Paginate[T any](items []T, page, pageSize int) []T {
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []T{}
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// containsFold reports whether s contains substr, ignoring ASCII and
// Unicode simple case differences. Mirrors SQL LIKE '%substr%' semantics.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// ApplyBooks runs a validated book query over the candidate collection and
// returns the requested page. The input slice is not modified.
func ApplyBooks(books []*domain.Book, q BookQuery) []*domain.Book {
	var predicates []func(*domain.Book) bool

	if text := strings.TrimSpace(q.TitleOrDescription); text != "" {
		predicates = append(predicates, func(b *domain.Book) bool {
			return containsFold(b.Title, text) || containsFold(b.Description, text)
		})
	}

	if author := strings.TrimSpace(q.Author); author != "" {
		predicates = append(predicates, func(b *domain.Book) bool {
			for _, a := range b.Authors {
				if containsFold(a.Name, author) {
					return true
				}
			}
			return false
		})
	}

	if q.PublishedFrom != nil {
		from := *q.PublishedFrom
		predicates = append(predicates, func(b *domain.Book) bool {
			return !b.PublishDate.Before(from.Time)
		})
	}

	if q.PublishedTo != nil {
		to := *q.PublishedTo
		predicates = append(predicates, func(b *domain.Book) bool {
			return !b.PublishDate.After(to.Time)
		})
	}

	result := Filter(books, predicates...)

	// Books sort ascending by default.
	asc := q.OrderDir != SortDesc

	var primary func(a, b *domain.Book) int
	switch q.OrderBy {
	case BookSortTitle:
		primary = func(a, b *domain.Book) int { return strings.Compare(a.Title, b.Title) }
	default:
		primary = func(a, b *domain.Book) int { return a.PublishDate.Compare(b.PublishDate.Time) }
	}

	Sort(result, primary, func(b *domain.Book) int64 { return b.ID }, asc)

	return Paginate(result, q.Page, q.PageSize)
}

// ApplyEvents runs a validated event query over the candidate collection
// and returns the requested page. The input slice is not modified.
func ApplyEvents(events []*domain.BookEvent, q EventQuery) []*domain.BookEvent {
	var predicates []func(*domain.BookEvent) bool

	if q.Target != "" {
		predicates = append(predicates, func(e *domain.BookEvent) bool {
			return e.Target == q.Target
		})
	}

	if q.Type != "" {
		predicates = append(predicates, func(e *domain.BookEvent) bool {
			return e.Type == q.Type
		})
	}

	if q.OccuredFrom != nil {
		from := *q.OccuredFrom
		predicates = append(predicates, func(e *domain.BookEvent) bool {
			return !e.OccuredAt.Before(from)
		})
	}

	if q.OccuredTo != nil {
		to := *q.OccuredTo
		predicates = append(predicates, func(e *domain.BookEvent) bool {
			return !e.OccuredAt.After(to)
		})
	}

	if text := strings.TrimSpace(q.Description); text != "" {
		predicates = append(predicates, func(e *domain.BookEvent) bool {
			return containsFold(e.Description, text)
		})
	}

	result := Filter(events, predicates...)

	// Events sort descending by default (newest first).
	asc := q.OrderDir == SortAsc

	var primary func(a, b *domain.BookEvent) int
	switch q.OrderBy {
	case EventSortTarget:
		primary = func(a, b *domain.BookEvent) int {
			return cmp.Compare(a.Target.Ordinal(), b.Target.Ordinal())
		}
	case EventSortType:
		primary = func(a, b *domain.BookEvent) int {
			return cmp.Compare(a.Type.Ordinal(), b.Type.Ordinal())
		}
	default:
		primary = func(a, b *domain.BookEvent) int { return a.OccuredAt.Compare(b.OccuredAt) }
	}

	Sort(result, primary, func(e *domain.BookEvent) int64 { return e.ID }, asc)

	return Paginate(result, q.Page, q.PageSize)
}
