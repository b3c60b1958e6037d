package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/Aglena/books-history-api/internal/domain"
	domainerrors "github.com/Aglena/books-history-api/internal/errors"
	"github.com/Aglena/books-history-api/internal/querying"
)

func (s *Server) registerHistoryRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listHistory",
		Method:      http.MethodGet,
		Path:        "/api/v1/history",
		Summary:     "List change history",
		Description: "Returns change events across all books, sorted and paginated",
		Tags:        []string{"History"},
	}, s.handleListHistory)

	huma.Register(s.api, huma.Operation{
		OperationID: "listBookHistory",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}/history",
		Summary:     "List book history",
		Description: "Returns the change events of a single book, sorted and paginated",
		Tags:        []string{"History"},
	}, s.handleListBookHistory)
}

// === DTOs ===

// EventQueryParams holds the query parameters shared by both history
// operations. It must stay exported: huma resolves embedded input fields by
// reflection and cannot set fields behind an unexported embedded struct.
type EventQueryParams struct {
	Target      string `query:"target" doc:"Filter by event target (Book, BookAuthor, BookTitle, BookDescription, BookPublishDate)"`
	Type        string `query:"type" doc:"Filter by event type (Created, Updated, Deleted)"`
	Description string `query:"description" doc:"Substring match on event description (case-insensitive)"`
	OccuredFrom string `query:"occured_from" doc:"Inclusive timestamp lower bound (RFC 3339 or YYYY-MM-DD)"`
	OccuredTo   string `query:"occured_to" doc:"Inclusive timestamp upper bound (RFC 3339 or YYYY-MM-DD)"`
	OrderBy     string `query:"order_by" doc:"Sort field: OccuredAt, EventTarget, or EventType (default OccuredAt)"`
	OrderDir    string `query:"order_dir" doc:"Sort direction: Asc or Desc (default Desc)"`
	Page        int    `query:"page" default:"1" doc:"1-based page number"`
	PageSize    int    `query:"page_size" default:"20" doc:"Items per page (max 100)"`
}

type ListHistoryInput struct {
	EventQueryParams
}

type ListBookHistoryInput struct {
	ID int64 `path:"id" doc:"Book ID"`
	EventQueryParams
}

type EventResponse struct {
	OccuredAt   time.Time `json:"occured_at" doc:"When the change happened"`
	Description string    `json:"description" doc:"Human-readable change description"`
	Target      string    `json:"target" doc:"Which part of the book changed"`
	Type        string    `json:"type" doc:"Kind of change"`
}

type EventsResponse struct {
	Events []EventResponse `json:"events" doc:"Matching change events"`
}

type ListHistoryOutput struct {
	Body EventsResponse
}

// === Handlers ===

func (s *Server) handleListHistory(ctx context.Context, input *ListHistoryInput) (*ListHistoryOutput, error) {
	q, err := buildEventQuery(&input.EventQueryParams)
	if err != nil {
		return nil, err
	}

	events, err := s.history.ListEvents(ctx, q)
	if err != nil {
		return nil, err
	}

	return &ListHistoryOutput{Body: mapEventsResponse(events)}, nil
}

func (s *Server) handleListBookHistory(ctx context.Context, input *ListBookHistoryInput) (*ListHistoryOutput, error) {
	q, err := buildEventQuery(&input.EventQueryParams)
	if err != nil {
		return nil, err
	}

	events, err := s.history.ListBookEvents(ctx, input.ID, q)
	if err != nil {
		return nil, err
	}

	return &ListHistoryOutput{Body: mapEventsResponse(events)}, nil
}

// === Mappers ===

func mapEventsResponse(events []*domain.BookEvent) EventsResponse {
	resp := make([]EventResponse, len(events))
	for i, e := range events {
		resp[i] = EventResponse{
			OccuredAt:   e.OccuredAt,
			Description: e.Description,
			Target:      string(e.Target),
			Type:        string(e.Type),
		}
	}
	return EventsResponse{Events: resp}
}

// buildEventQuery converts raw query parameters into a validated event query.
func buildEventQuery(params *EventQueryParams) (querying.EventQuery, error) {
	q := querying.NewEventQuery()
	q.Description = params.Description

	if params.Target != "" {
		target, err := domain.ParseEventTarget(params.Target)
		if err != nil {
			return q, err
		}
		q.Target = target
	}
	if params.Type != "" {
		eventType, err := domain.ParseEventType(params.Type)
		if err != nil {
			return q, err
		}
		q.Type = eventType
	}

	if params.OccuredFrom != "" {
		from, err := parseTimeParam(params.OccuredFrom, "occured_from")
		if err != nil {
			return q, err
		}
		q.OccuredFrom = from
	}
	if params.OccuredTo != "" {
		to, err := parseTimeParam(params.OccuredTo, "occured_to")
		if err != nil {
			return q, err
		}
		q.OccuredTo = to
	}

	if params.OrderBy != "" {
		field, err := querying.ParseEventSortField(params.OrderBy)
		if err != nil {
			return q, err
		}
		q.OrderBy = field
	}
	order, err := querying.ParseSortOrder(params.OrderDir)
	if err != nil {
		return q, err
	}
	q.OrderDir = order

	q.Page = params.Page
	q.PageSize = params.PageSize
	return q, nil
}

// parseTimeParam parses an occurrence bound, reporting the offending field
// on failure. Full RFC 3339 timestamps and bare YYYY-MM-DD dates are both
// accepted; a bare date means midnight UTC of that day.
func parseTimeParam(value, field string) (*time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	if d, err := domain.ParseDate(value); err == nil {
		return &d.Time, nil
	}
	return nil, domainerrors.Validationf("%s: invalid timestamp %q: expected RFC 3339 or YYYY-MM-DD", field, value)
}
