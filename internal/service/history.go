package service

import (
	"context"
	"log/slog"

	"github.com/Aglena/books-history-api/internal/domain"
	domainerrors "github.com/Aglena/books-history-api/internal/errors"
	"github.com/Aglena/books-history-api/internal/querying"
	"github.com/Aglena/books-history-api/internal/store"
)

// HistoryService exposes the audit trail of book changes.
type HistoryService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewHistoryService creates a new history service.
func NewHistoryService(store *store.Store, logger *slog.Logger) *HistoryService {
	return &HistoryService{store: store, logger: logger}
}

// ListEvents returns the change events across all books matching the query,
// sorted and paginated.
func (s *HistoryService) ListEvents(ctx context.Context, q querying.EventQuery) ([]*domain.BookEvent, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	events, err := s.store.ListEvents(ctx)
	if err != nil {
		return nil, domainerrors.Wrap(err, "list events failed")
	}

	return querying.ApplyEvents(events, q), nil
}

// ListBookEvents returns the change events of a single book matching the
// query, sorted and paginated.
func (s *HistoryService) ListBookEvents(ctx context.Context, bookID int64, q querying.EventQuery) ([]*domain.BookEvent, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.store.BookExists(ctx, bookID)
	if err != nil {
		return nil, domainerrors.Wrap(err, "check book failed")
	}
	if !exists {
		return nil, domainerrors.NotFoundf("book with id %d not found", bookID)
	}

	events, err := s.store.ListBookEvents(ctx, bookID)
	if err != nil {
		return nil, domainerrors.Wrap(err, "list book events failed")
	}

	return querying.ApplyEvents(events, q), nil
}
