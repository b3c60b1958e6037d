// Package querying implements the query specifications for books and book
// events, and a shared engine that filters, sorts, and paginates both.
package querying

import (
	"strings"
	"time"

	"github.com/Aglena/books-history-api/internal/domain"
	"github.com/Aglena/books-history-api/internal/errors"
)

// Pagination bounds shared by all query specifications.
const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// SortOrder is the direction of a sort.
type SortOrder string

// Sort directions.
const (
	SortAsc  SortOrder = "Asc"
	SortDesc SortOrder = "Desc"
)

// ParseSortOrder parses a sort direction case-insensitively.
// An empty string is allowed and means "use the entity's default".
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case "asc":
		return SortAsc, nil
	case "desc":
		return SortDesc, nil
	default:
		return "", errors.Validationf("Invalid OrderDir value %q", s)
	}
}

// BookSortField selects the primary sort key for book queries.
type BookSortField string

// Book sort fields.
const (
	BookSortTitle       BookSortField = "Title"
	BookSortPublishDate BookSortField = "PublishDate"
)

// ParseBookSortField parses a book sort field case-insensitively.
func ParseBookSortField(s string) (BookSortField, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case "title":
		return BookSortTitle, nil
	case "publishdate":
		return BookSortPublishDate, nil
	default:
		return "", errors.Validationf("Invalid OrderBy value %q", s)
	}
}

// EventSortField selects the primary sort key for event queries.
type EventSortField string

// Event sort fields.
const (
	EventSortOccuredAt EventSortField = "OccuredAt"
	EventSortTarget    EventSortField = "EventTarget"
	EventSortType      EventSortField = "EventType"
)

// ParseEventSortField parses an event sort field case-insensitively.
func ParseEventSortField(s string) (EventSortField, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case "occuredat":
		return EventSortOccuredAt, nil
	case "eventtarget":
		return EventSortTarget, nil
	case "eventtype":
		return EventSortType, nil
	default:
		return "", errors.Validationf("Invalid OrderBy value %q", s)
	}
}

// BookQuery is the filter, sort, and page specification for listing books.
// Blank filter fields are skipped; filters combine with AND.
type BookQuery struct {
	TitleOrDescription string
	Author             string
	PublishedFrom      *domain.Date
	PublishedTo        *domain.Date
	OrderBy            BookSortField // empty means PublishDate
	OrderDir           SortOrder     // empty means ascending
	Page               int
	PageSize           int
}

// NewBookQuery returns a book query with default pagination.
func NewBookQuery() BookQuery {
	return BookQuery{Page: DefaultPage, PageSize: DefaultPageSize}
}

// Validate checks pagination bounds and date-range ordering.
func (q *BookQuery) Validate() error {
	if err := validatePage(q.Page, q.PageSize); err != nil {
		return err
	}
	if q.PublishedFrom != nil && q.PublishedTo != nil && q.PublishedFrom.After(q.PublishedTo.Time) {
		return errors.Validationf("PublishedFrom (%s) must be <= PublishedTo (%s)",
			q.PublishedFrom.String(), q.PublishedTo.String())
	}
	return nil
}

// EventQuery is the filter, sort, and page specification for listing book
// events. Empty Target/Type mean "no filter"; invalid enum text is rejected
// during parsing, before a query is built.
type EventQuery struct {
	Target      domain.EventTarget // empty means no target filter
	Type        domain.EventType   // empty means no type filter
	OccuredFrom *time.Time
	OccuredTo   *time.Time
	Description string
	OrderBy     EventSortField // empty means OccuredAt
	OrderDir    SortOrder      // empty means descending
	Page        int
	PageSize    int
}

// NewEventQuery returns an event query with default pagination.
func NewEventQuery() EventQuery {
	return EventQuery{Page: DefaultPage, PageSize: DefaultPageSize}
}

// Validate checks pagination bounds and timestamp-range ordering.
func (q *EventQuery) Validate() error {
	if err := validatePage(q.Page, q.PageSize); err != nil {
		return err
	}
	if q.OccuredFrom != nil && q.OccuredTo != nil && q.OccuredFrom.After(*q.OccuredTo) {
		return errors.Validationf("OccuredFrom (%s) must be <= OccuredTo (%s)",
			q.OccuredFrom.Format(time.RFC3339), q.OccuredTo.Format(time.RFC3339))
	}
	return nil
}

func validatePage(page, pageSize int) error {
	if page < 1 {
		return errors.Validationf("Page must be >= 1, got %d", page)
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		return errors.Validationf("PageSize must be between 1 and %d, got %d", MaxPageSize, pageSize)
	}
	return nil
}
